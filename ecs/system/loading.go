package system

import (
	"fmt"

	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/ecs"
	"github.com/rs/zerolog/log"
)

// LoadCheckSystem polls the model's load state. Schedule it with
// ecs.InState(Unloaded).
type LoadCheckSystem struct {
	server *asset.Server
}

func NewLoadCheckSystem(server *asset.Server) *LoadCheckSystem {
	return &LoadCheckSystem{server: server}
}

func (s *LoadCheckSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	model, ok := ecs.GetResource[ModelHandle](w)
	if !ok {
		return
	}

	switch s.server.LoadState(model.Handle.ID()) {
	case asset.Loaded:
		log.Info().Msg("All assets loaded!")
		ecs.SetNextState(w, Loaded)
	case asset.Failed:
		w.Exit(fmt.Errorf("unable to load all assets: %w", s.server.LoadError(model.Handle.ID())))
	}
}
