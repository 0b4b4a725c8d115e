package scene

import "github.com/go-gl/mathgl/mgl64"

type AmbientLight struct {
	Color     Color
	Intensity float64
}

func (l *AmbientLight) object() {}

// DirectionalLight shines from Position toward the origin
type DirectionalLight struct {
	Color      Color
	Intensity  float64
	Position   mgl64.Vec3
	CastShadow bool
	ShadowSize int
}

func (l *DirectionalLight) object() {}

// Direction returns the unit direction the light travels along
func (l *DirectionalLight) Direction() mgl64.Vec3 {
	if l.Position.Len() == 0 {
		return mgl64.Vec3{0, -1, 0}
	}

	return l.Position.Mul(-1).Normalize()
}
