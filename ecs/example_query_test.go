package ecs_test

import (
	"fmt"

	"github.com/plus3/danmaku/ecs"
)

// ExampleQuery uses queries without a scheduler. First suits lookups that
// expect a single match, such as the player.
func ExampleQuery() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[PlayerController](registry)
	ecs.RegisterComponent[Health](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Position{X: 80, Y: 40}, Health{Current: 2, Max: 2})
	storage.Spawn(Position{X: 259, Y: 600}, PlayerController{})

	players := ecs.NewQuery[struct {
		Id ecs.EntityId
		*Position
		*PlayerController
	}](storage)

	if id, p, ok := players.First(); ok {
		fmt.Printf("player %d at (%.0f, %.0f)\n", id, p.Position.X, p.Position.Y)
	}

	enemies := ecs.NewQuery[struct {
		*Position
		*Health
	}](storage)
	for id, e := range enemies.Entries() {
		fmt.Printf("enemy %d has %d hp\n", id, e.Health.Current)
	}

	// Output:
	// player 2 at (259, 600)
	// enemy 1 has 2 hp
}
