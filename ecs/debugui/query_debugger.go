package debugui

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/danmaku/ecs"
)

// matchPreview is how many matching ids the panel lists.
const matchPreview = 50

func NewQueryDebuggerComponent() QueryDebuggerComponent {
	return QueryDebuggerComponent{
		selected: make(map[reflect.Type]bool),
	}
}

// Render lets the user tick component kinds and shows the entities carrying
// all of them, the same set a View over those kinds would visit.
func (qd *QueryDebuggerComponent) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	kinds := sortedKinds(storage)

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		clear(qd.selected)
	}

	for _, kind := range kinds {
		selected := qd.selected[kind]
		if imgui.Checkbox(kind.String(), &selected) {
			if selected {
				qd.selected[kind] = true
			} else {
				delete(qd.selected, kind)
			}
		}
	}

	imgui.Separator()

	required := make([]reflect.Type, 0, len(qd.selected))
	for _, kind := range kinds {
		if qd.selected[kind] {
			required = append(required, kind)
		}
	}
	if len(required) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matching := matchEntities(storage, required)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Entities") {
		for _, id := range matching[:min(len(matching), matchPreview)] {
			imgui.BulletText(fmt.Sprintf("%d", id))
		}
		if len(matching) > matchPreview {
			imgui.Text(fmt.Sprintf("... and %d more", len(matching)-matchPreview))
		}
		imgui.TreePop()
	}

	imgui.End()
}

// sortedKinds returns the storage's kinds ordered by name.
func sortedKinds(storage *ecs.Storage) []reflect.Type {
	kinds := storage.Kinds()
	slices.SortFunc(kinds, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
	return kinds
}

// matchEntities returns, in ascending order, the entities that have every
// required kind.
func matchEntities(storage *ecs.Storage, required []reflect.Type) []ecs.EntityId {
	var matching []ecs.EntityId
	for id := range storage.Entities() {
		if hasAll(storage, id, required) {
			matching = append(matching, id)
		}
	}
	return matching
}

func hasAll(storage *ecs.Storage, id ecs.EntityId, required []reflect.Type) bool {
	for _, t := range required {
		if !storage.HasComponent(id, t) {
			return false
		}
	}
	return true
}
