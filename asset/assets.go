package asset

import "github.com/milk9111/helmet/ecs"

// Assets stores every loaded asset of type T. It lives in the world as a
// resource and is only written by Server.Update.
type Assets[T any] struct {
	items map[HandleID]*T
}

// Get returns the asset behind h, if it has finished loading.
func (a *Assets[T]) Get(h Handle[T]) (*T, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.items[h.id]
	return v, ok
}

func (a *Assets[T]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

func (a *Assets[T]) set(id HandleID, v *T) {
	if a.items == nil {
		a.items = make(map[HandleID]*T)
	}
	a.items[id] = v
}

// Get looks h up in the world's Assets[T] resource.
func Get[T any](w *ecs.World, h Handle[T]) (*T, bool) {
	a, ok := ecs.GetResource[Assets[T]](w)
	if !ok {
		return nil, false
	}
	return a.Get(h)
}

func storeFor[T any](w *ecs.World) *Assets[T] {
	if a, ok := ecs.GetResource[Assets[T]](w); ok {
		return a
	}
	a := &Assets[T]{items: make(map[HandleID]*T)}
	ecs.InsertResource(w, a)
	return a
}
