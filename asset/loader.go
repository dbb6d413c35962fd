package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"reflect"

	"github.com/milk9111/helmet/ecs"
)

var (
	ErrNoLoader  = errors.New("asset: no loader registered")
	ErrWrongType = errors.New("asset: loader returned unexpected type")
)

// Loader turns the file at LoadContext.Path into an asset value. Load runs on
// its own goroutine and must not touch the world.
type Loader interface {
	Extensions() []string
	Load(lc *LoadContext) (any, error)
}

// LoadContext gives a loader access to the asset root and lets it register
// labeled sub-assets that become available together with the root asset.
type LoadContext struct {
	ctx    context.Context
	fsys   fs.FS
	path   string
	server *Server

	bytes   int64
	inserts []func(w *ecs.World)
	labeled []HandleID
}

func (lc *LoadContext) Context() context.Context {
	return lc.ctx
}

// Path is the cleaned asset path, relative to the asset root.
func (lc *LoadContext) Path() string {
	return lc.path
}

// FS is the asset root.
func (lc *LoadContext) FS() fs.FS {
	return lc.fsys
}

// ReadFile reads name relative to the asset root and counts the bytes read.
func (lc *LoadContext) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(lc.fsys, name)
	if err != nil {
		return nil, err
	}
	lc.AddBytes(int64(len(data)))
	return data, nil
}

// AddBytes records bytes read by the loader by other means.
func (lc *LoadContext) AddBytes(n int64) {
	lc.bytes += n
}

// AddLabeled registers value as the sub-asset "<path>#<label>". The handle
// keeps its id across reloads of the root asset.
func AddLabeled[T any](lc *LoadContext, label string, value *T) Handle[T] {
	id := lc.server.labeledID(labeledKey(lc.path, label))
	lc.inserts = append(lc.inserts, func(w *ecs.World) {
		storeFor[T](w).set(id, value)
	})
	lc.labeled = append(lc.labeled, id)
	return Handle[T]{id: id, path: lc.path, label: label}
}

// inserter converts a loader result into a function that stores it as the
// root asset of type T.
type inserter func(v any) (func(w *ecs.World), error)

func inserterFor[T any](id HandleID) inserter {
	return func(v any) (func(w *ecs.World), error) {
		typed, ok := v.(*T)
		if !ok || typed == nil {
			return nil, fmt.Errorf("%w: got %T, want *%s", ErrWrongType, v, reflect.TypeFor[T]())
		}
		return func(w *ecs.World) {
			storeFor[T](w).set(id, typed)
		}, nil
	}
}
