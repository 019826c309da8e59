package debugui

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/danmaku/ecs"
)

type probePosition struct{ X, Y float64 }

type probeHealth struct {
	Remaining int32
	Max       uint8
}

type probeBody struct {
	Name   string
	Alive  bool
	At     probePosition
	Health probeHealth
	Tags   []string
	hidden int
}

func newProbeStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[probePosition](registry)
	ecs.RegisterComponent[probeHealth](registry)
	ecs.RegisterComponent[probeBody](registry)
	RegisterDebugUIComponents(registry)
	return ecs.NewStorage(registry)
}

func TestCollectAndFilterEntities(t *testing.T) {
	storage := newProbeStorage()
	a := storage.Spawn(probePosition{X: 1})
	b := storage.Spawn(probePosition{}, probeHealth{Remaining: 3})
	c := storage.Spawn(probeHealth{})

	entities := collectEntities(storage)
	require.Len(t, entities, 3)
	assert.Equal(t, a, entities[0].ID)
	assert.Equal(t, []string{"debugui.probePosition", "debugui.probeHealth"}, entities[1].ComponentTypes)

	ids := func(in []EntityInfo) []ecs.EntityId {
		var out []ecs.EntityId
		for _, e := range in {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []ecs.EntityId{a, b, c}, ids(filterEntities(entities, "", "")))
	assert.Equal(t, []ecs.EntityId{b, c}, ids(filterEntities(entities, "HEALTH", "")))
	assert.Equal(t, []ecs.EntityId{a, b}, ids(filterEntities(entities, "", "debugui.probePosition")))
	assert.Equal(t, []ecs.EntityId{b}, ids(filterEntities(entities, "health", "debugui.probePosition")))
	assert.Empty(t, filterEntities(entities, "nothing", ""))

	sortEntities(entities, 2, false)
	assert.Equal(t, b, entities[0].ID, "most components first")
	assert.Equal(t, []ecs.EntityId{c, a}, ids(entities[1:]), "ties fall back to id, reversed")

	sortEntities(entities, 0, true)
	assert.Equal(t, []ecs.EntityId{a, b, c}, ids(entities))
}

func TestEntityBrowserDropsDeadSelection(t *testing.T) {
	storage := newProbeStorage()
	id := storage.Spawn(probePosition{})
	browser := NewEntityBrowserComponent(10)
	browser.selectedEntityId = id
	browser.rebuildCacheIfNeeded(storage)
	assert.Equal(t, id, browser.GetSelectedEntity())

	storage.Delete(id)
	storage.Spawn(probeHealth{})
	browser.rebuildCacheIfNeeded(storage)
	assert.Zero(t, browser.GetSelectedEntity())
	assert.Len(t, browser.cache.entities, 1)

	browser.FilterKind("debugui.probeHealth")
	assert.Equal(t, "debugui.probeHealth", browser.filterKind)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 2, pageCount(11, 10))
	assert.Equal(t, 1, pageCount(50, 0))
}

func TestSortKinds(t *testing.T) {
	kinds := []ecs.KindStats{
		{Name: "b", Count: 2, Slots: 4, Holes: 2},
		{Name: "a", Count: 2, Slots: 2},
		{Name: "c", Count: 9, Slots: 9},
	}

	sortKinds(kinds, kindColumnCount, false)
	assert.Equal(t, "c", kinds[0].Name)
	assert.Equal(t, "a", kinds[1].Name, "equal counts stay alphabetical")

	sortKinds(kinds, kindColumnName, true)
	assert.Equal(t, []string{"a", "b", "c"}, []string{kinds[0].Name, kinds[1].Name, kinds[2].Name})

	sortKinds(kinds, kindColumnHoles, false)
	assert.Equal(t, "b", kinds[0].Name)

	assert.Equal(t, 0.5, fragmentation(ecs.KindStats{Slots: 4, Holes: 2}))
	assert.Zero(t, fragmentation(ecs.KindStats{}))
}

func TestSetField(t *testing.T) {
	body := &probeBody{Name: "x"}
	bodyType := reflect.TypeFor[probeBody]()
	fields := globalReflectionCache.GetFields(bodyType)

	index := map[string]FieldInfo{}
	for _, f := range fields {
		index[f.Name] = f
	}
	require.NotContains(t, index, "hidden")
	assert.Equal(t, fieldString, index["Name"].Kind)
	assert.Equal(t, fieldStruct, index["At"].Kind)
	assert.Equal(t, fieldReadOnly, index["Tags"].Kind)

	at := index["At"].Index
	health := index["Health"].Index

	assert.True(t, setField(body, []int{index["Name"].Index}, "boss"))
	assert.True(t, setField(body, []int{index["Alive"].Index}, true))
	assert.True(t, setField(body, []int{at, 1}, 12.5))
	assert.True(t, setField(body, []int{health, 0}, int64(7)))
	assert.True(t, setField(body, []int{health, 1}, uint64(200)))

	assert.Equal(t, "boss", body.Name)
	assert.True(t, body.Alive)
	assert.Equal(t, 12.5, body.At.Y)
	assert.Equal(t, int32(7), body.Health.Remaining)
	assert.Equal(t, uint8(200), body.Health.Max)

	assert.False(t, setField(body, []int{health, 1}, uint64(300)), "overflow")
	assert.False(t, setField(body, []int{health, 0}, "seven"), "wrong type")
	assert.False(t, setField(body, []int{at, 5}, 1.0), "bad index")
	assert.False(t, setField(body, nil, 1.0))
	assert.False(t, setField(*body, []int{0}, "copy"), "needs a pointer")
	assert.False(t, setField(body, []int{5}, int64(1)), "unexported")
}

func TestSetFieldThroughStorage(t *testing.T) {
	storage := newProbeStorage()
	id := storage.Spawn(probeHealth{Remaining: 1})

	component := storage.GetComponent(id, reflect.TypeFor[probeHealth]())
	require.True(t, setField(component, []int{0}, int64(9)))
	assert.Equal(t, int32(9), ecs.ReadComponent[probeHealth](storage, id).Remaining)
}

func TestMatchEntities(t *testing.T) {
	storage := newProbeStorage()
	a := storage.Spawn(probePosition{}, probeHealth{})
	storage.Spawn(probePosition{})
	c := storage.Spawn(probeHealth{}, probePosition{})

	both := []reflect.Type{reflect.TypeFor[probePosition](), reflect.TypeFor[probeHealth]()}
	assert.Equal(t, []ecs.EntityId{a, c}, matchEntities(storage, both))
	assert.Len(t, matchEntities(storage, both[:1]), 3)

	kinds := sortedKinds(storage)
	require.Len(t, kinds, 2)
	assert.Equal(t, "debugui.probeHealth", kinds[0].String())
}

func TestFrameHistory(t *testing.T) {
	ps := NewPerformanceStatsComponent(4)
	for _, dt := range []float32{0.01, 0.02, 0.01, 0.02, 0.03} {
		ps.record(dt)
	}
	assert.InDelta(t, 20.0, ps.average(), 1e-4, "the oldest frame was overwritten")
	assert.Equal(t, 1, ps.frameIndex)

	assert.Equal(t, 1, NewPerformanceStatsComponent(0).historyFrames)
}

func TestSpawnDebugUI(t *testing.T) {
	storage := newProbeStorage()
	SpawnDebugUI(storage)

	var target *Target
	require.True(t, storage.ReadSingleton(&target))
	assert.Nil(t, target.Storage)
	assert.Equal(t, 1, ecs.Count[EntityBrowserComponent](storage))
	assert.Equal(t, 1, ecs.Count[KindViewerComponent](storage))
	assert.Equal(t, 5, storage.Len())
}

func TestPanelSystemIdlesWithoutTarget(t *testing.T) {
	storage := newProbeStorage()
	SpawnDebugUI(storage)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&PanelSystem{})

	assert.NotPanics(t, func() { scheduler.Once(0) })
}
