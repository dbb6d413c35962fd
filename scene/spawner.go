package scene

import (
	"fmt"

	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
	"github.com/rs/zerolog/log"
)

// SpawnerSystem instantiates scenes for entities that carry a SceneRoot but no
// Instance yet. Roots whose scene has not finished loading are retried on the
// next update.
type SpawnerSystem struct{}

func NewSpawnerSystem() *SpawnerSystem { return &SpawnerSystem{} }

func (s *SpawnerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, SceneRootComponent.Kind(), func(e ecs.Entity, root *SceneRoot) {
		if ecs.Has(w, e, InstanceComponent.Kind()) {
			return
		}
		sc, ok := asset.Get(w, root.Scene)
		if !ok {
			return
		}
		entities, err := Spawn(w, e, sc)
		if err != nil {
			w.Exit(fmt.Errorf("scene spawner: %s: %w", root.Scene, err))
			return
		}
		if err := ecs.Add(w, e, InstanceComponent.Kind(), &Instance{Entities: entities}); err != nil {
			w.Exit(fmt.Errorf("scene spawner: add instance: %w", err))
			return
		}
		log.Debug().Stringer("root", e).Stringer("scene", root.Scene).Int("entities", len(entities)).Msg("scene spawned")
	})
}

// Spawn creates one entity per scene node, and one child entity per mesh
// primitive, all beneath root. It returns the created entities.
func Spawn(w *ecs.World, root ecs.Entity, sc *Scene) ([]ecs.Entity, error) {
	if sc == nil {
		return nil, fmt.Errorf("scene: nil scene")
	}
	var created []ecs.Entity
	var spawnNode func(parent ecs.Entity, n *Node) error
	spawnNode = func(parent ecs.Entity, n *Node) error {
		e := ecs.CreateEntity(w)
		created = append(created, e)

		t := n.Transform
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
			return fmt.Errorf("scene: node %d: add transform: %w", n.Index, err)
		}
		if err := ecs.Add(w, e, component.GlobalTransformComponent.Kind(), &component.GlobalTransform{Matrix: t.Matrix()}); err != nil {
			return fmt.Errorf("scene: node %d: add global transform: %w", n.Index, err)
		}
		if n.Name != "" {
			if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: n.Name}); err != nil {
				return fmt.Errorf("scene: node %d: add name: %w", n.Index, err)
			}
		}
		if err := SetParent(w, e, parent); err != nil {
			return fmt.Errorf("scene: node %d: %w", n.Index, err)
		}

		for i := range n.Meshes {
			m := n.Meshes[i]
			pe := ecs.CreateEntity(w)
			created = append(created, pe)
			identity := component.IdentityTransform()
			if err := ecs.Add(w, pe, component.TransformComponent.Kind(), &identity); err != nil {
				return fmt.Errorf("scene: node %d: add primitive transform: %w", n.Index, err)
			}
			if err := ecs.Add(w, pe, component.GlobalTransformComponent.Kind(), &component.GlobalTransform{Matrix: identity.Matrix()}); err != nil {
				return fmt.Errorf("scene: node %d: add primitive global transform: %w", n.Index, err)
			}
			if err := ecs.Add(w, pe, component.MeshComponent.Kind(), &m); err != nil {
				return fmt.Errorf("scene: node %d: add mesh: %w", n.Index, err)
			}
			if err := SetParent(w, pe, e); err != nil {
				return fmt.Errorf("scene: node %d: %w", n.Index, err)
			}
		}

		for i := range n.Children {
			if err := spawnNode(e, &n.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range sc.Roots {
		if err := spawnNode(root, &sc.Roots[i]); err != nil {
			return created, err
		}
	}
	return created, nil
}
