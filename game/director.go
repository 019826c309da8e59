package game

import (
	"log/slog"

	"github.com/plus3/danmaku/ecs"
)

// Spawner creates entities. *ecs.Storage is one.
type Spawner interface {
	Spawn(components ...any) ecs.EntityId
}

// Rule is one entry of a timeline. Spawn runs on ticks that Match.
type Rule struct {
	Name  string
	Match func(tick int) bool
	Spawn func(tick int, s Spawner)
}

// Timeline is evaluated top to bottom; only the first matching rule fires.
type Timeline []Rule

// Fire runs the first rule matching tick and returns its name.
func (t Timeline) Fire(tick int, s Spawner) (string, bool) {
	for _, rule := range t {
		if rule.Match(tick) {
			rule.Spawn(tick, s)
			return rule.Name, true
		}
	}
	return "", false
}

// End is the last tick any rule matches, found by scanning up to limit.
func (t Timeline) End(limit int) int {
	end := 0
	for tick := 1; tick <= limit; tick++ {
		for _, rule := range t {
			if rule.Match(tick) {
				end = tick
				break
			}
		}
	}
	return end
}

// At matches a single tick.
func At(tick int) func(int) bool {
	return func(t int) bool { return t == tick }
}

// Every matches ticks in [from, to) divisible by k.
func Every(from, to, k int) func(int) bool {
	return func(t int) bool { return t >= from && t < to && t%k == 0 }
}

// spawnAll spawns each factory's bundle.
func spawnAll(factories ...func() []any) func(int, Spawner) {
	return func(_ int, s Spawner) {
		for _, f := range factories {
			s.Spawn(f()...)
		}
	}
}

func spawnRow(factory func(int) []any, n int) func(int, Spawner) {
	return func(_ int, s Spawner) {
		for i := range n {
			s.Spawn(factory(i)...)
		}
	}
}

func withHealth(factory func(int) []any, health int) func() []any {
	return func() []any { return factory(health) }
}

func withOffset(offset float64) func() []any {
	return func() []any { return Enemy10(offset) }
}

// StageOneTimeline is the fixed enemy schedule of the first stage.
func StageOneTimeline() Timeline {
	return Timeline{
		{Name: "opening pairs", Match: Every(180, 301, 20), Spawn: spawnAll(Enemy1, Enemy2)},
		{Name: "first diver", Match: At(360), Spawn: spawnAll(Enemy3)},
		{Name: "left stream", Match: Every(400, 700, 20), Spawn: spawnAll(withHealth(Enemy4, 4))},
		{Name: "right stream", Match: Every(800, 1100, 20), Spawn: func(tick int, s Spawner) {
			s.Spawn(Enemy5(4)...)
			if tick == 840 {
				s.Spawn(Enemy6()...)
			}
		}},
		{Name: "armoured left stream", Match: Every(1200, 1500, 20), Spawn: spawnAll(withHealth(Enemy4, 20))},
		{Name: "right stream with drifters", Match: Every(1600, 1900, 20), Spawn: func(tick int, s Spawner) {
			s.Spawn(Enemy5(4)...)
			if tick%30 == 0 {
				s.Spawn(Enemy6()...)
			}
		}},
		{Name: "random pairs", Match: Every(2000, 2810, 30), Spawn: spawnAll(Enemy7, Enemy8)},
		{Name: "sprayer", Match: At(2870), Spawn: spawnAll(Enemy9)},
		{Name: "sprayer right", Match: At(3050), Spawn: spawnAll(withOffset(100))},
		{Name: "sprayer left", Match: At(3220), Spawn: spawnAll(withOffset(-100))},
		{Name: "sprayer pair", Match: At(3400), Spawn: spawnAll(withOffset(100), withOffset(-100))},
		{Name: "row from the left", Match: At(3700), Spawn: spawnRow(Enemy12, 10)},
		{Name: "row from the right", Match: At(3900), Spawn: spawnRow(Enemy13, 10)},
		{Name: "second row from the left", Match: At(4100), Spawn: spawnRow(Enemy12, 10)},
		{Name: "second row from the right", Match: At(4300), Spawn: spawnRow(Enemy13, 10)},
		{Name: "boss", Match: At(4500), Spawn: spawnAll(Enemy15)},
	}
}

// SpawnDirector counts ticks since the stage started and fires the
// timeline. Pressing T logs the current tick.
type SpawnDirector struct {
	timeline Timeline
	input    Input
	logger   *slog.Logger
	tick     int
}

// NewSpawnDirector creates a director and subscribes it to input, if any.
func NewSpawnDirector(timeline Timeline, input Input, logger *slog.Logger) *SpawnDirector {
	d := &SpawnDirector{timeline: timeline, input: input, logger: logger}
	if input != nil {
		input.Subscribe(d)
	}
	return d
}

func (d *SpawnDirector) Execute(frame *ecs.UpdateFrame) {
	d.tick++
	if name, ok := d.timeline.Fire(d.tick, frame.Storage); ok && d.logger != nil {
		d.logger.Debug("timeline rule fired", "tick", d.tick, "rule", name)
	}
}

// Tick is the number of ticks the director has run.
func (d *SpawnDirector) Tick() int {
	return d.tick
}

func (d *SpawnDirector) HandleKey(ev KeyEvent) {
	if ev.Pressed && ev.Key == KeyT && d.logger != nil {
		d.logger.Info("stage tick", "tick", d.tick)
	}
}

func (d *SpawnDirector) Cancel() {
	if d.input != nil {
		d.input.Unsubscribe(d)
	}
}
