package ecs

import (
	"fmt"
	"iter"
	"reflect"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions: " + t.String())
	}
	r.factories[t] = func() iComponentStorage {
		return &genericComponentStorage[T]{typ: t}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	return r.factories[t] != nil
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const (
	genericBlockSize = 64
)

// genericComponentStorage stores components of a specific type `T` in fixed
// size blocks. Blocks are held by pointer so growing the block list never
// moves a component that a caller already holds a pointer to.
type genericComponentStorage[T any] struct {
	typ       reflect.Type
	blocks    []*[genericBlockSize]T
	filled    []*[genericBlockSize]bool
	owners    []EntityId
	nextIndex int
	holes     int
}

func (cs *genericComponentStorage[T]) Type() reflect.Type {
	return cs.typ
}

// Append adds a component to the end of storage and returns its index.
func (cs *genericComponentStorage[T]) Append(owner EntityId, item any) int {
	var concreteItem T
	if ptr, ok := item.(*T); ok {
		concreteItem = *ptr
	} else if val, ok := item.(T); ok {
		concreteItem = val
	} else {
		panic(fmt.Sprintf("component %T stored in column of %s", item, cs.typ))
	}

	index := cs.nextIndex
	cs.nextIndex++

	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize

	if blockIdx >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
		cs.filled = append(cs.filled, new([genericBlockSize]bool))
	}

	cs.blocks[blockIdx][slotIdx] = concreteItem
	cs.filled[blockIdx][slotIdx] = true
	cs.owners = append(cs.owners, owner)
	return index
}

func (cs *genericComponentStorage[T]) at(index int) *T {
	if index < 0 || index >= cs.nextIndex {
		return nil
	}

	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize

	if !cs.filled[blockIdx][slotIdx] {
		return nil
	}

	return &cs.blocks[blockIdx][slotIdx]
}

// Get returns a pointer to the component at the given index.
func (cs *genericComponentStorage[T]) Get(index int) any {
	ptr := cs.at(index)
	if ptr == nil {
		return nil
	}
	return ptr
}

// Delete marks a component slot as empty. The slot is not reused until the
// next Compact.
func (cs *genericComponentStorage[T]) Delete(index int) {
	if index < 0 || index >= cs.nextIndex {
		return
	}

	blockIdx := index / genericBlockSize
	slotIdx := index % genericBlockSize

	if cs.filled[blockIdx][slotIdx] {
		cs.filled[blockIdx][slotIdx] = false
		var zero T
		cs.blocks[blockIdx][slotIdx] = zero
		cs.owners[index] = InvalidEntity
		cs.holes++
	}
}

// Has checks if a component exists at the given index.
func (cs *genericComponentStorage[T]) Has(index int) bool {
	return cs.at(index) != nil
}

// Owner returns the entity owning the slot, or InvalidEntity for a hole.
func (cs *genericComponentStorage[T]) Owner(index int) EntityId {
	if index < 0 || index >= cs.nextIndex {
		return InvalidEntity
	}
	return cs.owners[index]
}

// Len returns the number of slots, holes included.
func (cs *genericComponentStorage[T]) Len() int {
	return cs.nextIndex
}

func (cs *genericComponentStorage[T]) Live() int {
	return cs.nextIndex - cs.holes
}

func (cs *genericComponentStorage[T]) Holes() int {
	return cs.holes
}

// Compact removes empty slots while keeping the relative order of the
// remaining components. Slot numbers change; callers rebuild any index they
// keep from Owner.
func (cs *genericComponentStorage[T]) Compact() {
	if cs.holes == 0 {
		return
	}

	total := cs.Live()
	if total == 0 {
		cs.Clear()
		return
	}

	numNewBlocks := (total + genericBlockSize - 1) / genericBlockSize
	newBlocks := make([]*[genericBlockSize]T, numNewBlocks)
	newFilled := make([]*[genericBlockSize]bool, numNewBlocks)
	for i := range numNewBlocks {
		newBlocks[i] = new([genericBlockSize]T)
		newFilled[i] = new([genericBlockSize]bool)
	}
	newOwners := make([]EntityId, 0, total)

	writePos := 0
	for readIdx := 0; readIdx < cs.nextIndex; readIdx++ {
		readBlockIdx := readIdx / genericBlockSize
		readSlotIdx := readIdx % genericBlockSize

		if !cs.filled[readBlockIdx][readSlotIdx] {
			continue
		}

		writeBlockIdx := writePos / genericBlockSize
		writeSlotIdx := writePos % genericBlockSize

		newBlocks[writeBlockIdx][writeSlotIdx] = cs.blocks[readBlockIdx][readSlotIdx]
		newFilled[writeBlockIdx][writeSlotIdx] = true
		newOwners = append(newOwners, cs.owners[readIdx])
		writePos++
	}

	cs.blocks = newBlocks
	cs.filled = newFilled
	cs.owners = newOwners
	cs.nextIndex = writePos
	cs.holes = 0
}

// Clear drops every component.
func (cs *genericComponentStorage[T]) Clear() {
	cs.blocks = nil
	cs.filled = nil
	cs.owners = nil
	cs.nextIndex = 0
	cs.holes = 0
}

// Iter yields the index of every filled slot that existed when iteration
// started. Slots appended during iteration are not visited; slots deleted
// during iteration are skipped.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := cs.nextIndex
		for i := 0; i < n && i < cs.nextIndex; i++ {
			blockIdx := i / genericBlockSize
			slotIdx := i % genericBlockSize

			if cs.filled[blockIdx][slotIdx] {
				if !yield(i) {
					return
				}
			}
		}
	}
}
