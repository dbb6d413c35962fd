package ecs

import (
	"reflect"

	"github.com/milk9111/helmet/ecs/component"
)

// World owns entities, component storages, resources and the deferred
// command queue.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	resources map[reflect.Type]any
	commands  Commands
	events    EventQueue

	exiting bool
	exitErr error
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]*SparseSet),
		resources: make(map[reflect.Type]any),
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot. It reports
// whether e was alive.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, store := range w.stores {
		drop(store.Remove(e))
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entities.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Clear destroys every entity. Resources are kept.
func (w *World) Clear() {
	if w == nil {
		return
	}
	for _, e := range w.entities.all() {
		w.DestroyEntity(e)
	}
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*SparseSet)
		}
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Commands returns the world's deferred command queue.
func (w *World) Commands() *Commands {
	if w == nil {
		return nil
	}
	return &w.commands
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Exit asks the running app to stop. A nil error is a clean shutdown. Only
// the first call is recorded.
func (w *World) Exit(err error) {
	if w == nil || w.exiting {
		return
	}
	w.exiting = true
	w.exitErr = err
}

// Exiting reports whether Exit has been called.
func (w *World) Exiting() bool {
	return w != nil && w.exiting
}

// ExitErr returns the error passed to Exit.
func (w *World) ExitErr() error {
	if w == nil {
		return nil
	}
	return w.exitErr
}

func drop(v any) {
	if d, ok := v.(component.Dropper); ok {
		d.Drop()
	}
}
