package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB is the world space bounding box of a shape, refreshed every time its body moves
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Expand returns a copy grown by margin on every side
func (a AABB) Expand(margin float64) AABB {
	m := mgl64.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}
