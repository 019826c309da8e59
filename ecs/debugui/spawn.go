package debugui

import "github.com/plus3/danmaku/ecs"

// SpawnDebugUI adds the inspection panels and the singletons they need to a
// panel storage.
func SpawnDebugUI(storage *ecs.Storage) {
	ecs.NewSingleton[Target](storage)
	ecs.NewSingleton[ImguiInputState](storage)

	storage.Spawn(NewEntityBrowserComponent(100))
	storage.Spawn(NewComponentInspectorComponent())
	storage.Spawn(NewKindViewerComponent())
	storage.Spawn(NewPerformanceStatsComponent(120))
	storage.Spawn(NewQueryDebuggerComponent())
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[KindViewerComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
	ecs.RegisterComponent[QueryDebuggerComponent](registry)
}

// PanelSystem draws every panel against the current Target. Drawing is
// deferred to the end of the tick, after ImguiSystem's items.
type PanelSystem struct {
	Target     ecs.Singleton[Target]
	Browsers   ecs.Query[struct{ *EntityBrowserComponent }]
	Inspectors ecs.Query[struct{ *ComponentInspectorComponent }]
	Kinds      ecs.Query[struct{ *KindViewerComponent }]
	Perf       ecs.Query[struct{ *PerformanceStatsComponent }]
	Queries    ecs.Query[struct{ *QueryDebuggerComponent }]
}

func (p *PanelSystem) Execute(frame *ecs.UpdateFrame) {
	target := p.Target.Get()
	if target == nil || target.Storage == nil {
		return
	}
	t := *target

	frame.Commands.Defer(func() {
		var selected ecs.EntityId
		for kv := range p.Kinds.Iter() {
			kind, clicked := kv.KindViewerComponent.Render(t.Storage)
			if !clicked {
				continue
			}
			for b := range p.Browsers.Iter() {
				b.EntityBrowserComponent.FilterKind(kind)
			}
		}
		for b := range p.Browsers.Iter() {
			b.EntityBrowserComponent.Render(t.Storage)
			selected = b.EntityBrowserComponent.GetSelectedEntity()
		}
		for ci := range p.Inspectors.Iter() {
			ci.ComponentInspectorComponent.Render(t.Storage, selected)
		}
		for qd := range p.Queries.Iter() {
			qd.QueryDebuggerComponent.Render(t.Storage)
		}
		for ps := range p.Perf.Iter() {
			ps.PerformanceStatsComponent.Render(t.Storage, t.Scheduler, float32(t.DeltaTime))
		}
	})
}
