package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a pose in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return NewTransformAt(mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent())
}

// NewTransformAt creates a transform at the given position and rotation.
// The rotation is normalized.
func NewTransformAt(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	rotation = rotation.Normalize()

	return Transform{
		Position:        position,
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

// SetRotation replaces the rotation and keeps InverseRotation consistent
func (t *Transform) SetRotation(rotation mgl64.Quat) {
	t.Rotation = rotation.Normalize()
	t.InverseRotation = t.Rotation.Inverse()
}

// ToWorld converts a point from local space to world space
func (t Transform) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(local).Add(t.Position)
}

// ToLocal converts a point from world space to local space
func (t Transform) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return t.InverseRotation.Rotate(world.Sub(t.Position))
}
