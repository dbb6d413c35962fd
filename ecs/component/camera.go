package component

// Camera3D is a perspective camera. The view comes from the entity's
// Transform.
type Camera3D struct {
	FovY   float64 // radians
	Near   float64
	Far    float64
	Active bool
}

var Camera3DComponent = NewComponent[Camera3D]()
