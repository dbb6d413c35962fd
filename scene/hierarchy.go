package scene

import (
	"fmt"
	"slices"

	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
)

type Parent struct {
	Entity ecs.Entity
}

var ParentComponent = component.NewComponent[Parent]()

type Children struct {
	Entities []ecs.Entity
}

var ChildrenComponent = component.NewComponent[Children]()

// SetParent attaches child to parent, detaching it from a previous parent.
func SetParent(w *ecs.World, child, parent ecs.Entity) error {
	if child == parent {
		return fmt.Errorf("hierarchy: %s cannot parent itself", child)
	}
	if !ecs.IsAlive(w, parent) {
		return fmt.Errorf("hierarchy: parent %s: %w", parent, component.ErrEntityNotAlive)
	}
	if old, ok := ecs.Get(w, child, ParentComponent.Kind()); ok {
		if old.Entity == parent {
			return nil
		}
		detach(w, old.Entity, child)
	}
	if err := ecs.Add(w, child, ParentComponent.Kind(), &Parent{Entity: parent}); err != nil {
		return fmt.Errorf("hierarchy: add parent: %w", err)
	}
	children, ok := ecs.Get(w, parent, ChildrenComponent.Kind())
	if !ok {
		children = &Children{}
		if err := ecs.Add(w, parent, ChildrenComponent.Kind(), children); err != nil {
			return fmt.Errorf("hierarchy: add children: %w", err)
		}
	}
	children.Entities = append(children.Entities, child)
	return nil
}

func detach(w *ecs.World, parent, child ecs.Entity) {
	children, ok := ecs.Get(w, parent, ChildrenComponent.Kind())
	if !ok {
		return
	}
	children.Entities = slices.DeleteFunc(children.Entities, func(e ecs.Entity) bool { return e == child })
}

// DespawnRecursive destroys e and all of its descendants.
func DespawnRecursive(w *ecs.World, e ecs.Entity) {
	if children, ok := ecs.Get(w, e, ChildrenComponent.Kind()); ok {
		for _, c := range slices.Clone(children.Entities) {
			DespawnRecursive(w, c)
		}
	}
	if p, ok := ecs.Get(w, e, ParentComponent.Kind()); ok {
		detach(w, p.Entity, e)
	}
	ecs.DestroyEntity(w, e)
}
