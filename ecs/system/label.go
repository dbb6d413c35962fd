package system

import (
	"github.com/ErikKalkoken/go-set"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
	"github.com/rs/zerolog/log"
)

// LabelSystem tags every named entity whose name is exactly one of the
// targets with NodeMarker.
type LabelSystem struct {
	targets set.Set[string]
}

func NewLabelSystem(targets ...string) *LabelSystem {
	return &LabelSystem{targets: set.Of(targets...)}
}

func (s *LabelSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	log.Info().Msgf("Labeling %d nodes", ecs.Count(w, component.NameComponent.Kind()))
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, name *component.Name) {
		log.Info().Msgf("%s: %s", e, name.Value)
		if !s.targets.Contains(name.Value) {
			return
		}
		log.Info().Msgf("Found node: %s", e)
		ecs.Insert(w.Commands(), e, component.NodeMarkerComponent.Kind(), &component.NodeMarker{})
	})
}
