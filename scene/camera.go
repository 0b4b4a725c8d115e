package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFov     = 75.0
	DefaultNear    = 0.1
	DefaultFar     = 100.0
	DefaultDamping = 0.05

	minDistance = 1.0
	maxDistance = 50.0
	// keeps the camera off the poles, where the up vector flips
	polarMargin = 0.01
)

// OrbitCamera orbits around Target. Inputs accumulate as pending deltas and
// are released progressively by Update when Damping is set.
type OrbitCamera struct {
	Target mgl64.Vec3
	Fov    float64 // vertical, in degrees
	Near   float64
	Far    float64
	// fraction of the pending motion applied per Update, 0 disables damping
	Damping float64

	azimuth  float64
	polar    float64
	distance float64

	pendingAzimuth float64
	pendingPolar   float64
	pendingZoom    float64 // multiplicative, 1 = none
}

// NewOrbitCamera places the camera at position, looking at target
func NewOrbitCamera(position, target mgl64.Vec3) *OrbitCamera {
	c := &OrbitCamera{
		Target:      target,
		Fov:         DefaultFov,
		Near:        DefaultNear,
		Far:         DefaultFar,
		Damping:     DefaultDamping,
		pendingZoom: 1,
	}

	offset := position.Sub(target)
	c.distance = mgl64.Clamp(offset.Len(), minDistance, maxDistance)
	if offset.Len() > 0 {
		c.polar = math.Acos(mgl64.Clamp(offset.Y()/offset.Len(), -1, 1))
		c.azimuth = math.Atan2(offset.X(), offset.Z())
	} else {
		c.polar = math.Pi / 2
	}
	c.clampPolar()

	return c
}

// Rotate queues an orbit motion, in radians
func (c *OrbitCamera) Rotate(deltaAzimuth, deltaPolar float64) {
	c.pendingAzimuth += deltaAzimuth
	c.pendingPolar += deltaPolar
}

// Zoom queues a distance change, factor < 1 moves closer
func (c *OrbitCamera) Zoom(factor float64) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	c.pendingZoom *= factor
}

// Update applies the pending motion, once per frame
func (c *OrbitCamera) Update() {
	fraction := 1.0
	if c.Damping > 0 && c.Damping < 1 {
		fraction = c.Damping
	}

	stepAzimuth := c.pendingAzimuth * fraction
	stepPolar := c.pendingPolar * fraction
	stepZoom := math.Pow(c.pendingZoom, fraction)

	c.azimuth += stepAzimuth
	c.polar += stepPolar
	c.distance = mgl64.Clamp(c.distance*stepZoom, minDistance, maxDistance)
	c.clampPolar()

	c.pendingAzimuth -= stepAzimuth
	c.pendingPolar -= stepPolar
	c.pendingZoom /= stepZoom
}

func (c *OrbitCamera) clampPolar() {
	c.polar = mgl64.Clamp(c.polar, polarMargin, math.Pi-polarMargin)
}

func (c *OrbitCamera) Distance() float64 {
	return c.distance
}

func (c *OrbitCamera) Azimuth() float64 {
	return c.azimuth
}

func (c *OrbitCamera) Polar() float64 {
	return c.polar
}

// Position returns the camera position in world space
func (c *OrbitCamera) Position() mgl64.Vec3 {
	sinPolar := math.Sin(c.polar)
	offset := mgl64.Vec3{
		c.distance * sinPolar * math.Sin(c.azimuth),
		c.distance * math.Cos(c.polar),
		c.distance * sinPolar * math.Cos(c.azimuth),
	}

	return c.Target.Add(offset)
}

func (c *OrbitCamera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position(), c.Target, mgl64.Vec3{0, 1, 0})
}

func (c *OrbitCamera) Projection(aspect float64) mgl64.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}

	return mgl64.Perspective(mgl64.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

// Project maps a world point to viewport coordinates, y down.
// ok is false when the point is behind the camera.
func (c *OrbitCamera) Project(point mgl64.Vec3, width, height int) (x, y float64, ok bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}

	clip := c.Projection(float64(width) / float64(height)).Mul4(c.View()).Mul4x1(point.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}

	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()

	return (ndcX + 1) / 2 * float64(width), (1 - ndcY) / 2 * float64(height), true
}
