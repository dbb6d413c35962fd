package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
)

// PropagateSystem recomputes GlobalTransform for every hierarchy, starting at
// entities that have a Transform and no Parent.
type PropagateSystem struct{}

func NewPropagateSystem() *PropagateSystem { return &PropagateSystem{} }

func (s *PropagateSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.TransformComponent.Kind(), func(e ecs.Entity, t *component.Transform) {
		if ecs.Has(w, e, ParentComponent.Kind()) {
			return
		}
		propagate(w, e, mgl64.Ident4(), t)
	})
}

func propagate(w *ecs.World, e ecs.Entity, parent mgl64.Mat4, t *component.Transform) {
	global := parent.Mul4(t.Matrix())
	if g, ok := ecs.Get(w, e, component.GlobalTransformComponent.Kind()); ok {
		g.Matrix = global
	}
	children, ok := ecs.Get(w, e, ChildrenComponent.Kind())
	if !ok {
		return
	}
	for _, c := range children.Entities {
		ct, ok := ecs.Get(w, c, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		propagate(w, c, global, ct)
	}
}
