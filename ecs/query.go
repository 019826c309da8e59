package ecs

import "iter"

// Query is a View bound to a system field. The Scheduler initialises every
// Query field of a system when the system is registered.
//
// A Query caches nothing between scans: every Iter call reads the columns as
// they are at that moment, so entities created or destroyed by a system that
// ran earlier in the same tick are seen correctly by later ones.
type Query[T any] struct {
	view *View[T]
}

// NewQuery creates a Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	return &Query[T]{view: NewView[T](storage)}
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
}

func (q *Query[T]) mustView() *View[T] {
	if q.view == nil {
		panic("Query used before Init")
	}
	return q.view
}

// Iter returns an iterator over the matching view structs.
func (q *Query[T]) Iter() iter.Seq[T] {
	return q.mustView().Iter()
}

// Entries returns an iterator over entity IDs and view structs.
func (q *Query[T]) Entries() iter.Seq2[EntityId, T] {
	return q.mustView().Entries()
}

// Get returns the view struct for one entity, or nil.
func (q *Query[T]) Get(id EntityId) *T {
	return q.mustView().Get(id)
}

// First returns the first matching entity, if any.
func (q *Query[T]) First() (EntityId, T, bool) {
	return q.mustView().First()
}

// Count returns the number of matching entities.
func (q *Query[T]) Count() int {
	return q.mustView().Count()
}
