package system

import (
	"errors"
	"fmt"

	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
	"github.com/milk9111/helmet/scene"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingGltf         = errors.New("expected to find gltf asset")
	ErrMissingDefaultScene = errors.New("expected gltf asset to have default scene")
)

// SpawnSceneSystem queues the model's default scene for spawning under a
// root tagged with SceneMarker. The scene entities appear once the command
// queue is applied and the scene spawner has run.
type SpawnSceneSystem struct{}

func NewSpawnSceneSystem() *SpawnSceneSystem { return &SpawnSceneSystem{} }

func (s *SpawnSceneSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	model, ok := ecs.GetResource[ModelHandle](w)
	if !ok {
		w.Exit(ErrMissingGltf)
		return
	}
	gltf, ok := asset.Get(w, model.Handle)
	if !ok {
		w.Exit(fmt.Errorf("%w: %s", ErrMissingGltf, model.Handle))
		return
	}
	if gltf.DefaultScene == nil {
		w.Exit(fmt.Errorf("%w: %s", ErrMissingDefaultScene, model.Handle))
		return
	}

	handle := *gltf.DefaultScene
	w.Commands().Spawn(func(w *ecs.World, e ecs.Entity) error {
		if err := ecs.Add(w, e, scene.SceneRootComponent.Kind(), &scene.SceneRoot{Scene: handle}); err != nil {
			return fmt.Errorf("scene root: %w", err)
		}
		t := component.IdentityTransform()
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &t); err != nil {
			return fmt.Errorf("scene transform: %w", err)
		}
		if err := ecs.Add(w, e, component.GlobalTransformComponent.Kind(), &component.GlobalTransform{Matrix: t.Matrix()}); err != nil {
			return fmt.Errorf("scene global transform: %w", err)
		}
		if err := ecs.Add(w, e, component.SceneMarkerComponent.Kind(), &component.SceneMarker{}); err != nil {
			return fmt.Errorf("scene marker: %w", err)
		}
		return nil
	})
	log.Info().Msg("Requested to spawn scene")
}
