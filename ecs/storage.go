package ecs

import (
	"iter"
	"reflect"
	"slices"
	"unsafe"
)

// Storage is the main ECS storage interface. It owns the entity registry, one
// column per component kind, and the singleton table.
type Storage struct {
	registry *ComponentRegistry
	entities *entityRegistry
	columns  map[reflect.Type]*column
	kinds    []reflect.Type

	// ids in creation order, pruned lazily
	ids  []EntityId
	dead int

	singletons map[reflect.Type]*singletonEntry
	generation uint64
}

type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		entities:   newEntityRegistry(),
		columns:    make(map[reflect.Type]*column),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

func (s *Storage) column(t reflect.Type, create bool) *column {
	col := s.columns[t]
	if col == nil && create {
		col = newColumn(t, s.registry)
		s.columns[t] = col
		s.kinds = append(s.kinds, t)
	}
	return col
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("cannot store a nil component")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// NewEntity allocates a fresh id with no components attached.
func (s *Storage) NewEntity() EntityId {
	id := s.entities.create()
	s.ids = append(s.ids, id)
	return id
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	id := s.NewEntity()
	for _, comp := range components {
		s.AddComponent(id, comp)
	}
	return id
}

// AddComponent attaches component (a value or a pointer to one) to the
// entity and returns a pointer to the stored copy. A component of the same
// kind already on the entity is replaced. Returns nil if the entity is not
// alive.
func (s *Storage) AddComponent(id EntityId, component any) any {
	rec := s.entities.get(id)
	if rec == nil {
		return nil
	}

	t := componentType(component)
	col := s.column(t, true)
	if !rec.has(t) {
		rec.types = append(rec.types, t)
	}
	return col.add(id, component)
}

// RemoveComponent detaches a single component kind. The entity stays alive
// even when it has no components left.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	rec := s.entities.get(id)
	if rec == nil || !rec.remove(compType) {
		return false
	}
	return s.columns[compType].remove(id)
}

// Delete destroys the entity and every component attached to it. Deleting an
// entity that is not alive is a no-op and returns false.
func (s *Storage) Delete(id EntityId) bool {
	rec := s.entities.remove(id)
	if rec == nil {
		return false
	}
	for _, t := range rec.types {
		s.columns[t].remove(id)
	}
	s.dead++
	return true
}

// Alive reports whether id refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	return s.entities.get(id) != nil
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	return s.entities.live.Len()
}

// Entities yields live entity ids in ascending order.
func (s *Storage) Entities() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		n := len(s.ids)
		for i := 0; i < n && i < len(s.ids); i++ {
			id := s.ids[i]
			if !s.Alive(id) {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

// ComponentTypes returns the kinds attached to the entity in the order they
// were attached.
func (s *Storage) ComponentTypes(id EntityId) []reflect.Type {
	rec := s.entities.get(id)
	if rec == nil {
		return nil
	}
	return slices.Clone(rec.types)
}

// Kinds returns every component kind that has ever held a component, in the
// order the kinds were first used.
func (s *Storage) Kinds() []reflect.Type {
	return slices.Clone(s.kinds)
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	col := s.columns[compType]
	if col == nil {
		return nil
	}
	return col.get(id)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	col := s.columns[compType]
	return col != nil && col.has(id)
}

// Clear destroys every entity, component and singleton. The id counter keeps
// counting so ids from before the clear are never handed out again.
func (s *Storage) Clear() {
	for _, col := range s.columns {
		col.clear()
	}
	s.entities.live.Clear()
	s.ids = nil
	s.dead = 0
	clear(s.singletons)
	s.generation++
}

// Compact removes holes left by deleted components from every column. Column
// order is preserved. It must not be called while a view or query is being
// iterated.
func (s *Storage) Compact() {
	for _, col := range s.columns {
		col.compact()
	}
	s.pruneIds()
}

// compactFragmented compacts only the columns where holes make up a
// meaningful share of the slots.
func (s *Storage) compactFragmented() {
	for _, col := range s.columns {
		holes := col.storage.Holes()
		if holes >= genericBlockSize || holes*4 > col.storage.Len() {
			col.compact()
		}
	}
	if s.dead >= genericBlockSize || s.dead*4 > len(s.ids) {
		s.pruneIds()
	}
}

func (s *Storage) pruneIds() {
	if s.dead == 0 {
		return
	}
	s.ids = slices.DeleteFunc(s.ids, func(id EntityId) bool {
		return !s.Alive(id)
	})
	s.dead = 0
}

// AddSingleton stores value as the singleton of its type, replacing any
// previous one.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.ValueOf(value))
	s.singletons[t] = &singletonEntry{
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
	s.generation++
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// ReadSingleton fills out, which must be a **T, with the stored singleton of
// type T. Returns false if there is none.
func (s *Storage) ReadSingleton(out any) bool {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton expects a pointer to a pointer")
	}
	entry := s.singletons[v.Elem().Type().Elem()]
	if entry == nil {
		return false
	}
	v.Elem().Set(entry.value)
	return true
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the T component of the entity, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}

// Has reports whether the entity carries a T component.
func Has[T any](s *Storage, id EntityId) bool {
	return s.HasComponent(id, reflect.TypeFor[T]())
}

// Add attaches value to the entity and returns the stored pointer, or nil if
// the entity is not alive.
func Add[T any](s *Storage, id EntityId, value T) *T {
	comp, _ := s.AddComponent(id, value).(*T)
	return comp
}

// All yields every T component with its owner, in insertion order.
func All[T any](s *Storage) iter.Seq2[EntityId, *T] {
	return func(yield func(EntityId, *T) bool) {
		col := s.columns[reflect.TypeFor[T]()]
		if col == nil {
			return
		}
		typed := col.storage.(*genericComponentStorage[T])
		for slot := range typed.Iter() {
			if !yield(typed.Owner(slot), typed.at(slot)) {
				return
			}
		}
	}
}

// Count returns the number of live T components.
func Count[T any](s *Storage) int {
	col := s.columns[reflect.TypeFor[T]()]
	if col == nil {
		return 0
	}
	return col.storage.Live()
}
