package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View represents a query for entities with a specific combination of components
// The type T should be a struct with embedded pointer fields for each component type
// Named fields can be marked as optional using the `ecs:"optional"` struct tag
// A field of type EntityId (embedded or named) receives the id of the entity.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr

	// offset of the EntityId field, -1 when absent
	idOffset int
	// index into types of the column that drives iteration
	driver int
}

// NewView creates a new view for the given struct type
// The struct T should have embedded or named fields that are pointers to component types
// Embedded fields are always required
// Named fields can be marked as optional using the `ecs:"optional"` struct tag
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		storage:  storage,
		idOffset: -1,
		driver:   -1,
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == entityIdType {
			v.idOffset = int(field.Offset)
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or ecs.EntityId")
		}

		componentType := fieldType.Elem()
		if !storage.registry.Registered(componentType) {
			panic("component type " + componentType.String() + " not registered")
		}

		// Parse struct tag to check if component is optional
		// Embedded fields (field.Anonymous) are always required
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}

		if !isOptional && v.driver < 0 {
			v.driver = len(v.types)
		}

		v.types = append(v.types, componentType)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
		v.optional = append(v.optional, isOptional)
	}

	if v.driver < 0 {
		panic("View struct must have at least one required component")
	}

	return v
}

// populate fills the struct at ptr for the entity. Returns false if a
// required component is missing.
func (v *View[T]) populate(ptr unsafe.Pointer, id EntityId) bool {
	for i, componentType := range v.types {
		fieldPtr := unsafe.Pointer(uintptr(ptr) + v.fieldOffset[i])

		var component any
		if col := v.storage.columns[componentType]; col != nil {
			component = col.get(id)
		}

		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		// component always holds a *T, so the interface data word is the pointer
		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}

	if v.idOffset >= 0 {
		*(*EntityId)(unsafe.Pointer(uintptr(ptr) + uintptr(v.idOffset))) = id
	}
	return true
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is missing any required components
// Optional components are set to nil if not present
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	if !v.storage.Alive(id) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), id)
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// Entries returns an iterator over all entities that have all the required
// components for this view, yielding (EntityId, T) pairs.
// Optional components are set to nil if not present.
// Entities are visited in the insertion order of the first required component.
// Entities created during iteration are not visited; entities deleted during
// iteration are skipped.
func (v *View[T]) Entries() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		col := v.storage.columns[v.types[v.driver]]
		if col == nil {
			return
		}

		var result T
		resultPtr := unsafe.Pointer(&result)

		for id := range col.iter() {
			if !v.populate(resultPtr, id) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Iter returns an iterator over just the view structs. Include an EntityId
// field in T to learn which entity each one belongs to.
func (v *View[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Entries() {
			if !yield(value) {
				return
			}
		}
	}
}

// First returns the first matching entity.
func (v *View[T]) First() (EntityId, T, bool) {
	for id, value := range v.Entries() {
		return id, value, true
	}
	var zero T
	return InvalidEntity, zero, false
}

// Count returns the number of matching entities.
func (v *View[T]) Count() int {
	n := 0
	for range v.Entries() {
		n++
	}
	return n
}

// Spawn creates a new entity with components extracted from the view struct
func (v *View[T]) Spawn(data T) EntityId {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.types))
	for i := 0; i < len(v.types); i++ {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])

		componentPtr := *(*unsafe.Pointer)(fieldPtr)

		if componentPtr == nil {
			if !v.optional[i] {
				panic("required component is nil in View.Spawn")
			}
			continue
		}

		component := reflect.NewAt(v.types[i], componentPtr).Elem().Interface()
		components = append(components, component)
	}

	return v.storage.Spawn(components...)
}
