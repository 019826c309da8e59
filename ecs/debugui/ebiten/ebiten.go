// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	"time"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/danmaku/ecs"
	"github.com/plus3/danmaku/ecs/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Overlay runs the inspection panels over another storage. It owns the Dear
// ImGui backend, which also creates the window, so a host using an Overlay
// must not open its own.
type Overlay struct {
	backend   ImguiBackend
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	target    *ecs.Singleton[debugui.Target]
	input     *ecs.Singleton[debugui.ImguiInputState]
	last      time.Time
}

// NewOverlay creates the window and the panel storage.
func NewOverlay(title string, width, height int) *Overlay {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")

	registry := ecs.NewComponentRegistry()
	debugui.RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)
	debugui.SpawnDebugUI(storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&debugui.ImguiSystem{})
	scheduler.Register(&debugui.PanelSystem{})

	return &Overlay{
		backend:   ImguiBackend{EbitenBackend: backend},
		storage:   storage,
		scheduler: scheduler,
		target:    ecs.NewSingleton[debugui.Target](storage),
		input:     ecs.NewSingleton[debugui.ImguiInputState](storage),
		last:      time.Now(),
	}
}

// Storage is the panel storage. Extra debugui.ImguiItem entities spawned
// here are drawn with the panels.
func (o *Overlay) Storage() *ecs.Storage {
	return o.storage
}

// Update builds one ImGui frame against the given storage. Call it from
// ebiten.Game.Update while holding whatever guards storage.
func (o *Overlay) Update(storage *ecs.Storage, scheduler *ecs.Scheduler) {
	now := time.Now()
	dt := now.Sub(o.last).Seconds()
	o.last = now

	*o.target.Get() = debugui.Target{Storage: storage, Scheduler: scheduler, DeltaTime: dt}

	o.backend.BeginFrame()
	o.scheduler.Once(dt)
	o.backend.EndFrame()

	*o.target.Get() = debugui.Target{}
}

// WantsKeyboard reports whether ImGui consumed keyboard input last frame.
func (o *Overlay) WantsKeyboard() bool {
	return o.input.Get().WantCaptureKeyboard
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

func (o *Overlay) Layout(outsideWidth, outsideHeight int) {
	o.backend.Layout(outsideWidth, outsideHeight)
}
