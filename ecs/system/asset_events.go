package system

import (
	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/ecs"
	"github.com/rs/zerolog/log"
)

// AssetEventSystem logs asset events raised this tick.
type AssetEventSystem struct{}

func NewAssetEventSystem() *AssetEventSystem { return &AssetEventSystem{} }

func (s *AssetEventSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, evt := range w.Events().Peek() {
		if evt.Type != asset.EventType {
			continue
		}
		ae, ok := evt.Data.(asset.AssetEvent)
		if !ok {
			continue
		}
		l := log.Debug()
		if ae.Kind == asset.EventFailed {
			l = log.Warn().Err(ae.Err)
		}
		l.Str("path", ae.Path).Stringer("kind", ae.Kind).Msg("asset event")
	}
}
