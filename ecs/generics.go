package ecs

import (
	"reflect"

	"github.com/milk9111/helmet/ecs/component"
)

func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

func Entities(w *World) []Entity {
	return w.Entities()
}

// Add inserts or replaces the component of kind for e. A replaced value that
// differs from value is dropped.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	prev := w.store(kind.ID(), true).Set(e, value)
	if p, ok := prev.(*T); ok && p != value {
		drop(p)
	}
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	store := w.store(kind.ID(), false)
	removed := store.Remove(e)
	if removed == nil {
		return false
	}
	drop(removed)
	return true
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil {
		return false
	}
	return w.store(kind.ID(), false).Has(e)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).Get(e).(*T)
	return v, ok
}

// ForEach calls fn for every live entity holding kind. Entities added during
// iteration are not visited.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil {
		return
	}
	store := w.store(kind.ID(), false)
	for _, e := range store.Entities() {
		v, ok := store.Get(e).(*T)
		if !ok || !w.IsAlive(e) {
			continue
		}
		fn(e, v)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil {
		return
	}
	sa, sb := w.store(ka.ID(), false), w.store(kb.ID(), false)
	for _, e := range IntersectEntities(sa, sb) {
		a, aok := sa.Get(e).(*A)
		b, bok := sb.Get(e).(*B)
		if !aok || !bok || !w.IsAlive(e) {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil {
		return
	}
	sa, sb, sc := w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false)
	for _, e := range IntersectEntities(sa, sb, sc) {
		a, aok := sa.Get(e).(*A)
		b, bok := sb.Get(e).(*B)
		c, cok := sc.Get(e).(*C)
		if !aok || !bok || !cok || !w.IsAlive(e) {
			continue
		}
		fn(e, a, b, c)
	}
}

// First returns any entity holding kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	for _, e := range w.store(kind.ID(), false).Entities() {
		if w.IsAlive(e) {
			return e, true
		}
	}
	return 0, false
}

func Count[T any](w *World, kind component.ComponentKind[T]) int {
	if w == nil {
		return 0
	}
	return w.store(kind.ID(), false).Len()
}

// InsertResource stores value as the world's single resource of type T,
// dropping any previous one.
func InsertResource[T any](w *World, value *T) {
	if w == nil || value == nil {
		return
	}
	key := reflect.TypeFor[T]()
	if prev, ok := w.resources[key].(*T); ok && prev != value {
		drop(prev)
	}
	if w.resources == nil {
		w.resources = make(map[reflect.Type]any)
	}
	w.resources[key] = value
}

func GetResource[T any](w *World) (*T, bool) {
	if w == nil {
		return nil, false
	}
	v, ok := w.resources[reflect.TypeFor[T]()].(*T)
	return v, ok
}

func RemoveResource[T any](w *World) bool {
	if w == nil {
		return false
	}
	key := reflect.TypeFor[T]()
	v, ok := w.resources[key]
	if !ok {
		return false
	}
	delete(w.resources, key)
	drop(v)
	return true
}
