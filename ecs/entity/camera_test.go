package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/helmet/ecs"
	"github.com/milk9111/helmet/ecs/component"
	"github.com/milk9111/helmet/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCamera(t *testing.T) {
	w := ecs.NewWorld()
	spec := &prefabs.CameraSpec{
		Position: prefabs.Vec3Spec{X: 10, Y: 10, Z: 15},
		LookAt:   prefabs.Vec3Spec{Y: 2},
		Up:       prefabs.Vec3Spec{Y: 1},
	}
	e, err := NewCamera(w, spec)
	require.NoError(t, err)

	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{10, 10, 15}, tr.Translation)
	want := mgl64.Vec3{0, 2, 0}.Sub(mgl64.Vec3{10, 10, 15}).Normalize()
	for i := range want {
		assert.InDelta(t, want[i], tr.Forward()[i], 1e-9, "forward %v", tr.Forward())
	}

	cam, ok := ecs.Get(w, e, component.Camera3DComponent.Kind())
	require.True(t, ok)
	assert.InDelta(t, mgl64.DegToRad(45), cam.FovY, 1e-12)
	assert.Equal(t, 0.1, cam.Near)
	assert.Equal(t, 1000.0, cam.Far)
	assert.True(t, cam.Active)

	assert.True(t, ecs.Has(w, e, component.CameraTagComponent.Kind()))
	assert.True(t, ecs.Has(w, e, component.GlobalTransformComponent.Kind()))
	assert.False(t, ecs.Has(w, e, component.NameComponent.Kind()))
}

func TestNewCameraNilSpec(t *testing.T) {
	w := ecs.NewWorld()
	_, err := NewCamera(w, nil)
	assert.Error(t, err)
	assert.Empty(t, ecs.Entities(w))
}
