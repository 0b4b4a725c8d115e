package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Resources holds the geometries and materials shared by every body mesh
type Resources struct {
	SphereGeometry *Geometry // unit radius, scaled by the body radius
	BoxGeometry    *Geometry // unit cube, scaled by the body size
	BodyMaterial   *StandardMaterial

	FloorGeometry *Geometry
	FloorMaterial *StandardMaterial
}

func NewResources() *Resources {
	bodyMaterial := NewStandardMaterial(White, 0.1, 0.7)

	floorMaterial := NewStandardMaterial(Hex(0x777777), 0.3, 0.4)
	floorMaterial.EnvMapIntensity = 0.5

	return &Resources{
		SphereGeometry: NewSphereGeometry(1, 20, 20),
		BoxGeometry:    NewBoxGeometry(1, 1, 1),
		BodyMaterial:   bodyMaterial,
		FloorGeometry:  NewPlaneGeometry(10, 10),
		FloorMaterial:  floorMaterial,
	}
}

// Stage adds the floor and the lights to the scene, and returns the floor mesh
func (r *Resources) Stage(s *Scene) *Mesh {
	floor := NewMesh(r.FloorGeometry, r.FloorMaterial)
	floor.Quaternion = mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})
	floor.ReceiveShadow = true
	s.Add(floor)

	s.Add(&AmbientLight{Color: White, Intensity: 0.7})
	s.Add(&DirectionalLight{
		Color:      White,
		Intensity:  0.2,
		Position:   mgl64.Vec3{5, 5, 5},
		CastShadow: true,
		ShadowSize: 1024,
	})

	return floor
}

// DefaultCamera returns the camera of the demo scene
func DefaultCamera() *OrbitCamera {
	return NewOrbitCamera(mgl64.Vec3{-3, 3, 3}, mgl64.Vec3{0, 0, 0})
}
