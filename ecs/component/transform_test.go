package component

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestLookingAt(t *testing.T) {
	cases := []struct {
		name          string
		eye, target   mgl64.Vec3
		up            mgl64.Vec3
		wantForward   mgl64.Vec3
		wantUnchanged bool
	}{
		{"down_negative_z", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}, false},
		{"along_x", mgl64.Vec3{}, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, false},
		{"parallel_up", mgl64.Vec3{}, mgl64.Vec3{0, 4, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, false},
		{"same_point", mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := TransformFromXYZ(tc.eye.X(), tc.eye.Y(), tc.eye.Z()).LookingAt(tc.target, tc.up)
			assertVec3Near(t, tc.wantForward, tr.Forward())
			assert.True(t, tr.Translation.ApproxEqual(tc.eye))
			if tc.wantUnchanged {
				assert.Equal(t, mgl64.QuatIdent(), tr.Rotation)
			}
		})
	}
}

func TestLookingAtKeepsUpright(t *testing.T) {
	tr := TransformFromXYZ(10, 10, 15).LookingAt(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 1, 0})
	up := tr.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
	right := tr.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
	assert.Greater(t, up.Y(), 0.0)
	assert.InDelta(t, 0, right.Y(), 1e-9)
}

func TestMatrixOrder(t *testing.T) {
	tr := Transform{
		Translation: mgl64.Vec3{1, 2, 3},
		Rotation:    mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1}),
		Scale:       mgl64.Vec3{2, 2, 2},
	}
	// scale, then rotate +X onto +Y, then translate
	got := tr.Matrix().Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()
	assertVec3Near(t, mgl64.Vec3{1, 4, 3}, got)

	g := GlobalTransform{Matrix: tr.Matrix()}
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, g.Translation())
	assert.Equal(t, mgl64.Ident4(), IdentityTransform().Matrix())
}

func assertVec3Near(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d of %v", i, got)
	}
}
