package debugui

import (
	"reflect"
	"sync"
)

// fieldKind is how the inspector edits a field.
type fieldKind int

const (
	fieldReadOnly fieldKind = iota
	fieldInt
	fieldUint
	fieldFloat
	fieldBool
	fieldString
	fieldStruct
)

type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
	Kind      fieldKind
}

type ReflectionCache struct {
	mu         sync.RWMutex
	fieldCache map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fieldCache: make(map[reflect.Type][]FieldInfo),
	}
}

// GetFields lists the exported fields of a struct type. Pointer fields report
// their element type.
func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fieldCache[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			fieldType := field.Type
			isPointer := fieldType.Kind() == reflect.Ptr
			if isPointer {
				fieldType = fieldType.Elem()
			}

			fields = append(fields, FieldInfo{
				Name:      field.Name,
				Type:      fieldType,
				Index:     i,
				IsPointer: isPointer,
				Kind:      kindOf(fieldType),
			})
		}
	}

	rc.mu.Lock()
	rc.fieldCache[t] = fields
	rc.mu.Unlock()
	return fields
}

func kindOf(t reflect.Type) fieldKind {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fieldInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fieldUint
	case reflect.Float32, reflect.Float64:
		return fieldFloat
	case reflect.Bool:
		return fieldBool
	case reflect.String:
		return fieldString
	case reflect.Struct:
		return fieldStruct
	}
	return fieldReadOnly
}

var globalReflectionCache = NewReflectionCache()
