package system

import (
	"github.com/milk9111/helmet/asset"
	"github.com/milk9111/helmet/asset/gltfasset"
)

// LoadingState gates the app on the model finishing its load.
type LoadingState int

const (
	Unloaded LoadingState = iota
	Loaded
)

func (s LoadingState) String() string {
	switch s {
	case Unloaded:
		return "Unloaded"
	case Loaded:
		return "Loaded"
	default:
		return "Unknown"
	}
}

// ModelHandle is the world resource holding the model being loaded.
type ModelHandle struct {
	Handle asset.Handle[gltfasset.Gltf]
}
