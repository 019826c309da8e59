// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
//
// The inspection panels live in their own storage and look at a second,
// target storage named by the Target singleton. The host sets Target while it
// holds whatever lock guards the target, then runs the panel scheduler.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/danmaku/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton when one exists.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Iter() {
		frame.Commands.Defer(item.Render)
	}
}

// Target is the storage under inspection. Scheduler may be nil, in which
// case the performance panel only shows storage figures.
type Target struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	// DeltaTime is the host's frame time in seconds.
	DeltaTime float64
}
