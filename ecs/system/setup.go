package system

import (
	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/asset/gltfasset"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/entity"
	"github.com/milk9111/helmet/prefabs"
	"github.com/rs/zerolog/log"
)

// SetupSystem starts the model load and spawns the camera. It is a startup
// system.
type SetupSystem struct {
	server *asset.Server
	model  string
	camera *prefabs.CameraSpec
}

func NewSetupSystem(server *asset.Server, model string, camera *prefabs.CameraSpec) *SetupSystem {
	return &SetupSystem{server: server, model: model, camera: camera}
}

func (s *SetupSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	h := asset.Load[gltfasset.Gltf](s.server, s.model)
	ecs.InsertResource(w, &ModelHandle{Handle: h})
	log.Debug().Stringer("model", h).Msg("model load requested")

	spec := s.camera
	w.Commands().Spawn(func(w *ecs.World, e ecs.Entity) error {
		return entity.BuildCamera(w, e, spec)
	})
}
