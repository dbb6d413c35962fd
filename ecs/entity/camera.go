package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
	"github.com/milk9111/helmet/prefabs"
)

// BuildCamera adds a 3D camera to e, placed and aimed from the prefab.
func BuildCamera(w *ecs.World, e ecs.Entity, spec *prefabs.CameraSpec) error {
	if spec == nil {
		return fmt.Errorf("camera: nil spec")
	}
	if err := ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return fmt.Errorf("camera: add camera tag: %w", err)
	}

	up := vec3(spec.Up)
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}
	transform := component.TransformFromXYZ(spec.Position.X, spec.Position.Y, spec.Position.Z).
		LookingAt(vec3(spec.LookAt), up)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &transform); err != nil {
		return fmt.Errorf("camera: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.GlobalTransformComponent.Kind(), &component.GlobalTransform{Matrix: transform.Matrix()}); err != nil {
		return fmt.Errorf("camera: add global transform: %w", err)
	}

	fov := spec.FovY
	if fov == 0 {
		fov = 45
	}
	near := spec.Near
	if near == 0 {
		near = 0.1
	}
	far := spec.Far
	if far == 0 {
		far = 1000
	}
	if err := ecs.Add(w, e, component.Camera3DComponent.Kind(), &component.Camera3D{
		FovY:   mgl64.DegToRad(fov),
		Near:   near,
		Far:    far,
		Active: true,
	}); err != nil {
		return fmt.Errorf("camera: add camera component: %w", err)
	}
	return nil
}

func NewCamera(w *ecs.World, spec *prefabs.CameraSpec) (ecs.Entity, error) {
	camera := ecs.CreateEntity(w)
	if err := BuildCamera(w, camera, spec); err != nil {
		ecs.DestroyEntity(w, camera)
		return 0, err
	}
	return camera, nil
}

func vec3(v prefabs.Vec3Spec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
