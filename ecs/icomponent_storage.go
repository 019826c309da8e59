package ecs

import (
	"iter"
	"reflect"
)

// iComponentStorage is an interface for a type-erased component storage.
// Slots are append-only between compactions; every slot remembers the entity
// that owns it.
type iComponentStorage interface {
	Type() reflect.Type
	Append(owner EntityId, item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Owner(index int) EntityId
	Len() int
	Live() int
	Holes() int
	Compact()
	Clear()
	Iter() iter.Seq[int]
}
