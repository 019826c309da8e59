package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

// column holds every component of one kind together with an index from
// owning entity to slot.
type column struct {
	storage iComponentStorage
	index   *intmap.Map[EntityId, int]
}

func newColumn(t reflect.Type, registry *ComponentRegistry) *column {
	factory := registry.getFactory(t)
	if factory == nil {
		panic("component type " + t.String() + " not registered")
	}
	return &column{
		storage: factory(),
		index:   intmap.New[EntityId, int](64),
	}
}

// add attaches component to owner. An existing component of the same kind is
// overwritten in place so its slot, and therefore its iteration position, is
// kept. Returns the stored pointer.
func (c *column) add(owner EntityId, component any) any {
	if slot, ok := c.index.Get(owner); ok {
		dst := reflect.ValueOf(c.storage.Get(slot)).Elem()
		src := reflect.ValueOf(component)
		if src.Kind() == reflect.Ptr {
			src = src.Elem()
		}
		dst.Set(src)
		return c.storage.Get(slot)
	}
	slot := c.storage.Append(owner, component)
	c.index.Put(owner, slot)
	return c.storage.Get(slot)
}

func (c *column) get(owner EntityId) any {
	slot, ok := c.index.Get(owner)
	if !ok {
		return nil
	}
	return c.storage.Get(slot)
}

func (c *column) has(owner EntityId) bool {
	_, ok := c.index.Get(owner)
	return ok
}

func (c *column) remove(owner EntityId) bool {
	slot, ok := c.index.Get(owner)
	if !ok {
		return false
	}
	c.storage.Delete(slot)
	c.index.Del(owner)
	return true
}

// compact squeezes holes out of the column, preserving order, and rewrites
// the owner index. Must not run while anything iterates the column.
func (c *column) compact() {
	if c.storage.Holes() == 0 {
		return
	}
	c.storage.Compact()
	c.index.Clear()
	for slot := range c.storage.Iter() {
		c.index.Put(c.storage.Owner(slot), slot)
	}
}

func (c *column) clear() {
	c.storage.Clear()
	c.index.Clear()
}

// iter yields (owner, slot) for every live slot in insertion order.
func (c *column) iter() iter.Seq2[EntityId, int] {
	return func(yield func(EntityId, int) bool) {
		for slot := range c.storage.Iter() {
			if !yield(c.storage.Owner(slot), slot) {
				return
			}
		}
	}
}
