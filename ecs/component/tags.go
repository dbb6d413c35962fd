package component

import "github.com/rs/zerolog/log"

// SceneMarker tags the root entity of the spawned model scene.
type SceneMarker struct{}

var SceneMarkerComponent = NewComponent[SceneMarker]()

func (*SceneMarker) Drop() {
	log.Info().Msg("Dropping scene marker")
}

// NodeMarker tags the scene node picked out by name.
type NodeMarker struct{}

var NodeMarkerComponent = NewComponent[NodeMarker]()

func (*NodeMarker) Drop() {
	log.Info().Msg("Dropping node marker")
}

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
