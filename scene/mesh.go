package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is one visual instance. Geometry and Material may be shared with other meshes.
type Mesh struct {
	Geometry *Geometry
	Material *StandardMaterial

	Position   mgl64.Vec3
	Quaternion mgl64.Quat
	Scale      mgl64.Vec3

	CastShadow    bool
	ReceiveShadow bool
}

func NewMesh(geometry *Geometry, material *StandardMaterial) *Mesh {
	return &Mesh{
		Geometry:   geometry,
		Material:   material,
		Quaternion: mgl64.QuatIdent(),
		Scale:      mgl64.Vec3{1, 1, 1},
	}
}

func (m *Mesh) object() {}

// Matrix returns the local to world matrix: translation * rotation * scale
func (m *Mesh) Matrix() mgl64.Mat4 {
	translation := mgl64.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z())
	scale := mgl64.Scale3D(m.Scale.X(), m.Scale.Y(), m.Scale.Z())

	return translation.Mul4(m.Quaternion.Normalize().Mat4()).Mul4(scale)
}

// AxisAngle returns the rotation as a unit axis and an angle in radians
func (m *Mesh) AxisAngle() (mgl64.Vec3, float64) {
	return AxisAngle(m.Quaternion)
}

// AxisAngle converts a rotation to a unit axis and an angle in [0, π]
func AxisAngle(q mgl64.Quat) (mgl64.Vec3, float64) {
	q = q.Normalize()
	if q.W < 0 {
		q = q.Scale(-1)
	}

	sinHalf := q.V.Len()
	if sinHalf < 1e-9 {
		return mgl64.Vec3{0, 1, 0}, 0
	}

	return q.V.Mul(1.0 / sinHalf), 2 * math.Atan2(sinHalf, q.W)
}
