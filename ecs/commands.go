package ecs

import "reflect"

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// Systems use it for structural changes that must not be visible until every
// system of the tick has run.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	pending map[EntityId]struct{}
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []deferCommand
}

func newCommands() *Commands {
	return &Commands{
		pending: make(map[EntityId]struct{}),
	}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion operation. Queuing the same entity twice
// in one frame is a no-op. Returns false if it was already queued.
func (c *Commands) Delete(entity EntityId) bool {
	if _, ok := c.pending[entity]; ok {
		return false
	}
	c.pending[entity] = struct{}{}
	c.deletes = append(c.deletes, entity)
	return true
}

// Pending reports whether entity is queued for deletion in this frame.
func (c *Commands) Pending(entity EntityId) bool {
	_, ok := c.pending[entity]
	return ok
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Flush flushes all commands to the provided storage, reseting the buffer state
func (c *Commands) Flush(storage *Storage) {
	for _, cmd := range c.deletes {
		storage.Delete(cmd)
	}

	for _, cmd := range c.removes {
		if !c.Pending(cmd.entity) {
			storage.RemoveComponent(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if !c.Pending(cmd.entity) {
			storage.AddComponent(cmd.entity, cmd.component)
		}
	}

	for _, cmd := range c.spawns {
		storage.Spawn(cmd.components...)
	}

	for _, df := range c.defers {
		df.fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	clear(c.pending)
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
