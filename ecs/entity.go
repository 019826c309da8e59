package ecs

import (
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
)

// EntityId identifies an entity within a Storage. Ids are handed out by a
// monotonically increasing counter starting at 1 and are never reused, so a
// stale id can never alias a newer entity.
type EntityId uint64

// InvalidEntity is the zero id. No live entity ever carries it.
const InvalidEntity EntityId = 0

type entityRecord struct {
	types []reflect.Type
}

func (r *entityRecord) has(t reflect.Type) bool {
	return slices.Contains(r.types, t)
}

func (r *entityRecord) remove(t reflect.Type) bool {
	idx := slices.Index(r.types, t)
	if idx < 0 {
		return false
	}
	r.types = slices.Delete(r.types, idx, idx+1)
	return true
}

// entityRegistry allocates ids and tracks which entities are alive along with
// the component kinds attached to each.
type entityRegistry struct {
	next EntityId
	live *intmap.Map[EntityId, *entityRecord]
}

func newEntityRegistry() *entityRegistry {
	return &entityRegistry{
		next: 1,
		live: intmap.New[EntityId, *entityRecord](256),
	}
}

func (r *entityRegistry) create() EntityId {
	id := r.next
	r.next++
	r.live.Put(id, &entityRecord{})
	return id
}

func (r *entityRegistry) get(id EntityId) *entityRecord {
	rec, ok := r.live.Get(id)
	if !ok {
		return nil
	}
	return rec
}

func (r *entityRegistry) remove(id EntityId) *entityRecord {
	rec, ok := r.live.Get(id)
	if !ok {
		return nil
	}
	r.live.Del(id)
	return rec
}

// Handle is a checked, non-owning reference to a component of type T on
// another entity. It resolves through storage on every access, so it returns
// nil once the referenced entity (or its component) is gone instead of
// dangling.
type Handle[T any] struct {
	storage *Storage
	Id      EntityId
}

// NewHandle creates a handle to the T component of the given entity.
func NewHandle[T any](storage *Storage, id EntityId) Handle[T] {
	return Handle[T]{storage: storage, Id: id}
}

// Get returns the referenced component or nil.
func (h Handle[T]) Get() *T {
	if h.storage == nil || h.Id == InvalidEntity {
		return nil
	}
	return ReadComponent[T](h.storage, h.Id)
}

// Valid reports whether the referenced component still exists.
func (h Handle[T]) Valid() bool {
	return h.Get() != nil
}
