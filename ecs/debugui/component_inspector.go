package debugui

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/danmaku/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

func (ci *ComponentInspectorComponent) Render(storage *ecs.Storage, selectedEntityId ecs.EntityId) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntityId = selectedEntityId

	if ci.selectedEntityId == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}
	if !storage.Alive(ci.selectedEntityId) {
		imgui.Text(fmt.Sprintf("Entity %d is gone", ci.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", ci.selectedEntityId))
	imgui.Separator()

	for _, compType := range storage.ComponentTypes(ci.selectedEntityId) {
		component := storage.GetComponent(ci.selectedEntityId, compType)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderStruct(reflect.ValueOf(component).Elem(), nil, storage, compType)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspectorComponent) renderStruct(val reflect.Value, path []int, storage *ecs.Storage, compType reflect.Type) {
	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		fieldPath := append(path[:len(path):len(path)], field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			imgui.Text(fmt.Sprintf("%s: %v", field.Name, fieldVal.Elem().Interface()))
			continue
		}
		ci.renderField(field, fieldVal, fieldPath, storage, compType)
	}
}

func (ci *ComponentInspectorComponent) renderField(field FieldInfo, val reflect.Value, path []int, storage *ecs.Storage, compType reflect.Type) {
	label := "##" + field.Name + pathLabel(path)
	set := func(v any) {
		component := storage.GetComponent(ci.selectedEntityId, compType)
		if component != nil {
			setField(component, path, v)
		}
	}

	switch field.Kind {
	case fieldInt:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", field.Name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) {
			set(int64(v))
		}

	case fieldUint:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", field.Name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && v >= 0 {
			set(uint64(v))
		}

	case fieldFloat:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", field.Name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) {
			set(float64(v))
		}

	case fieldBool:
		v := val.Bool()
		if imgui.Checkbox(field.Name+label, &v) {
			set(v)
		}

	case fieldString:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", field.Name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) {
			set(v)
		}

	case fieldStruct:
		if imgui.TreeNodeStr(field.Name + label) {
			ci.renderStruct(val, path, storage, compType)
			imgui.TreePop()
		}

	default:
		switch val.Kind() {
		case reflect.Slice:
			imgui.Text(fmt.Sprintf("%s: [%d items]", field.Name, val.Len()))
		case reflect.Map:
			imgui.Text(fmt.Sprintf("%s: map[%d items]", field.Name, val.Len()))
		case reflect.Interface:
			if val.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
			} else {
				imgui.Text(fmt.Sprintf("%s: %s", field.Name, val.Elem().Type()))
			}
		case reflect.Func, reflect.Chan:
			imgui.Text(fmt.Sprintf("%s: %s", field.Name, val.Type()))
		default:
			imgui.Text(fmt.Sprintf("%s: %v", field.Name, val.Interface()))
		}
	}
}

func pathLabel(path []int) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return "." + strings.Join(parts, ".")
}

// setField stores value in the field of *component reached by following
// path, a list of struct field indices. int64, uint64 and float64 values are
// converted to the field's width. It reports whether the field was set.
func setField(component any, path []int, value any) bool {
	val := reflect.ValueOf(component)
	if val.Kind() != reflect.Ptr || val.IsNil() || len(path) == 0 {
		return false
	}
	val = val.Elem()
	for _, idx := range path {
		if val.Kind() != reflect.Struct || idx < 0 || idx >= val.NumField() {
			return false
		}
		val = val.Field(idx)
	}
	if !val.CanSet() {
		return false
	}

	switch v := value.(type) {
	case int64:
		if kindOf(val.Type()) != fieldInt || val.OverflowInt(v) {
			return false
		}
		val.SetInt(v)
	case uint64:
		if kindOf(val.Type()) != fieldUint || val.OverflowUint(v) {
			return false
		}
		val.SetUint(v)
	case float64:
		if kindOf(val.Type()) != fieldFloat {
			return false
		}
		val.SetFloat(v)
	case bool:
		if val.Kind() != reflect.Bool {
			return false
		}
		val.SetBool(v)
	case string:
		if val.Kind() != reflect.String {
			return false
		}
		val.SetString(v)
	default:
		return false
	}
	return true
}
