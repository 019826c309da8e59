package game

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/danmaku/ecs"
)

type spawnRecorder struct {
	bundles [][]any
}

func (r *spawnRecorder) Spawn(components ...any) ecs.EntityId {
	r.bundles = append(r.bundles, components)
	return ecs.EntityId(len(r.bundles))
}

func (r *spawnRecorder) healths() []int {
	var out []int
	for _, bundle := range r.bundles {
		for _, c := range bundle {
			if h, ok := c.(Health); ok {
				out = append(out, h.Remaining)
			}
		}
	}
	return out
}

func TestTimelineFirstMatchWins(t *testing.T) {
	var fired []string
	rule := func(name string, match func(int) bool) Rule {
		return Rule{Name: name, Match: match, Spawn: func(int, Spawner) { fired = append(fired, name) }}
	}
	timeline := Timeline{
		rule("narrow", At(10)),
		rule("wide", Every(0, 100, 5)),
	}

	name, ok := timeline.Fire(10, &spawnRecorder{})
	assert.True(t, ok)
	assert.Equal(t, "narrow", name)

	name, ok = timeline.Fire(15, &spawnRecorder{})
	assert.True(t, ok)
	assert.Equal(t, "wide", name)

	_, ok = timeline.Fire(16, &spawnRecorder{})
	assert.False(t, ok)

	assert.Equal(t, []string{"narrow", "wide"}, fired)
}

func TestEveryIsHalfOpen(t *testing.T) {
	match := Every(400, 700, 20)
	assert.True(t, match(400))
	assert.True(t, match(680))
	assert.False(t, match(700))
	assert.False(t, match(390))
	assert.False(t, match(410))
}

func TestStageOneTimeline(t *testing.T) {
	timeline := StageOneTimeline()
	require.Len(t, timeline, 16)

	tests := []struct {
		tick    int
		spawned int
	}{
		{179, 0},
		{180, 2},
		{300, 2},
		{301, 0},
		{320, 0},
		{360, 1},
		{400, 1},
		{700, 0},
		{840, 2},
		{860, 1},
		{1620, 2},
		{1640, 1},
		{2010, 2},
		{2820, 0},
		{2870, 1},
		{3050, 1},
		{3220, 1},
		{3400, 2},
		{3700, 10},
		{3900, 10},
		{4100, 10},
		{4300, 10},
		{4500, 1},
		{4501, 0},
	}
	for _, tt := range tests {
		rec := &spawnRecorder{}
		timeline.Fire(tt.tick, rec)
		assert.Len(t, rec.bundles, tt.spawned, "tick %d", tt.tick)
	}

	assert.Equal(t, 4500, timeline.End(10000))
}

func TestStageOneEnemyHealth(t *testing.T) {
	timeline := StageOneTimeline()

	rec := &spawnRecorder{}
	timeline.Fire(420, rec)
	assert.Equal(t, []int{4}, rec.healths())

	rec = &spawnRecorder{}
	timeline.Fire(1220, rec)
	assert.Equal(t, []int{20}, rec.healths())

	rec = &spawnRecorder{}
	timeline.Fire(4500, rec)
	assert.Equal(t, []int{600}, rec.healths())
}

func TestStageOneRowSpacing(t *testing.T) {
	rec := &spawnRecorder{}
	StageOneTimeline().Fire(3700, rec)

	var xs []float64
	for _, bundle := range rec.bundles {
		for _, c := range bundle {
			if p, ok := c.(Position); ok {
				xs = append(xs, p.X)
			}
		}
	}
	require.Len(t, xs, 10)
	assert.Equal(t, 20.0, xs[0])
	assert.Equal(t, 470.0, xs[9])
}

func TestSpawnDirectorCountsTicks(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)
	timeline := Timeline{{
		Name:  "probe",
		Match: At(3),
		Spawn: func(_ int, s Spawner) { s.Spawn(Enemy{}) },
	}}
	director := NewSpawnDirector(timeline, nil, nil)
	scheduler.Register(director)

	scheduler.Once(0)
	scheduler.Once(0)
	assert.Zero(t, ecs.Count[Enemy](storage))

	scheduler.Once(0)
	assert.Equal(t, 1, ecs.Count[Enemy](storage))
	assert.Equal(t, 3, director.Tick())
}

func TestSpawnDirectorLogsTick(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	keyboard := NewKeyboard()
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	director := NewSpawnDirector(Timeline{}, keyboard, logger)
	scheduler.Register(director)
	for range 42 {
		scheduler.Once(0)
	}

	keyboard.Dispatch(KeyEvent{Key: KeyT, Pressed: true})
	assert.Contains(t, buf.String(), "tick=42")

	scheduler.Cancel()
	assert.Zero(t, keyboard.Len())
}
