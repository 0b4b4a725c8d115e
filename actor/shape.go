package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypePlane
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeBox:
		return "box"
	case ShapeTypePlane:
		return "plane"
	}
	return "unknown"
}

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	Type() ShapeType
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// Bounded is false for shapes with an infinite extent (planes),
	// which are kept out of the spatial grid
	Bounded() bool
	ComputeInertia(mass float64) mgl64.Mat3
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) Type() ShapeType { return ShapeTypeBox }
func (b *Box) Bounded() bool   { return true }

// Corners returns the 8 corners of the box in local space
func (b *Box) Corners() [8]mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	return [8]mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	}
}

// WorldCorners returns the 8 corners of the box at the given transform
func (b *Box) WorldCorners(transform Transform) [8]mgl64.Vec3 {
	corners := b.Corners()
	for i := range corners {
		corners[i] = transform.ToWorld(corners[i])
	}

	return corners
}

func (b *Box) ComputeAABB(transform Transform) {
	corners := b.WorldCorners(transform)
	min := corners[0]
	max := corners[0]

	for i := 1; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			min[axis] = math.Min(min[axis], corners[i][axis])
			max[axis] = math.Max(max[axis], corners[i][axis])
		}
	}

	b.aabb = AABB{Min: min, Max: max}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²)
	factor := mass / 12.0

	return mgl64.Diag3(mgl64.Vec3{
		factor * (y*y + z*z),
		factor * (x*x + z*z),
		factor * (x*x + y*y),
	})
}

// Support returns the furthest local point in the given local direction
func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

// ContainsLocal reports whether a local point lies inside the box, grown by tolerance
func (b *Box) ContainsLocal(point mgl64.Vec3, tolerance float64) bool {
	for axis := 0; axis < 3; axis++ {
		if math.Abs(point[axis]) > b.HalfExtents[axis]+tolerance {
			return false
		}
	}

	return true
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

func (s *Sphere) Type() ShapeType { return ShapeTypeSphere }
func (s *Sphere) Bounded() bool   { return true }

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r², identical on all axes
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

// Plane represents an infinite plane through the body origin.
// Normal is expressed in local space; the world normal follows the body rotation.
type Plane struct {
	Normal mgl64.Vec3 // must be normalized
	aabb   AABB
}

// NewPlane creates a plane whose local normal is +Z
func NewPlane() *Plane {
	return &Plane{Normal: mgl64.Vec3{0, 0, 1}}
}

func (p *Plane) Type() ShapeType { return ShapeTypePlane }
func (p *Plane) Bounded() bool   { return false }

// WorldNormal returns the plane normal at the given transform
func (p *Plane) WorldNormal(transform Transform) mgl64.Vec3 {
	return transform.Rotation.Rotate(p.Normal).Normalize()
}

// SignedDistance returns the distance of a world point above the plane
func (p *Plane) SignedDistance(transform Transform, point mgl64.Vec3) float64 {
	return p.WorldNormal(transform).Dot(point.Sub(transform.Position))
}

func (p *Plane) ComputeAABB(transform Transform) {
	const infinity = 1e10

	p.aabb = AABB{
		Min: mgl64.Vec3{-infinity, -infinity, -infinity},
		Max: mgl64.Vec3{infinity, infinity, infinity},
	}
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

// Planes are always static
func (p *Plane) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}
