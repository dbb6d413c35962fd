package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the local translation, rotation and scale of an entity,
// relative to its Parent if it has one.
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
}

var TransformComponent = NewComponent[Transform]()

func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

func TransformFromXYZ(x, y, z float64) Transform {
	t := IdentityTransform()
	t.Translation = mgl64.Vec3{x, y, z}
	return t
}

// LookingAt returns t rotated so its forward axis (-Z) points at target,
// keeping its local +Y as close to up as possible.
func (t Transform) LookingAt(target, up mgl64.Vec3) Transform {
	forward := target.Sub(t.Translation)
	if forward.Len() == 0 {
		return t
	}
	forward = forward.Normalize()
	right := forward.Cross(up)
	if right.Len() == 0 {
		// up is parallel to forward; any perpendicular axis will do.
		right = forward.Cross(mgl64.Vec3{0, 0, 1})
		if right.Len() == 0 {
			right = forward.Cross(mgl64.Vec3{1, 0, 0})
		}
	}
	right = right.Normalize()
	realUp := right.Cross(forward)
	basis := mgl64.Mat3FromCols(right, realUp, forward.Mul(-1))
	t.Rotation = mgl64.Mat4ToQuat(basis.Mat4()).Normalize()
	return t
}

// Forward returns the direction the transform faces.
func (t Transform) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
}

// Matrix returns the local affine matrix (T * R * S).
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// GlobalTransform is the world-space matrix, written by transform
// propagation.
type GlobalTransform struct {
	Matrix mgl64.Mat4
}

var GlobalTransformComponent = NewComponent[GlobalTransform]()

func (g GlobalTransform) Translation() mgl64.Vec3 {
	return g.Matrix.Col(3).Vec3()
}
