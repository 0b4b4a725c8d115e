package tumble

import (
	"math"

	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// a corner slightly outside the other box still counts as touching
	containsTolerance = 1e-4
	// edge axes must beat face axes by this factor to be chosen
	edgeAxisBias = 0.95
)

// BroadPhase rebuilds the spatial grid and returns the candidate pairs
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.RigidBody, workersCount int) []Pair {
	spatialGrid.Clear()
	for i, body := range bodies {
		spatialGrid.Insert(i, body)
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairs(bodies, workersCount)
}

// NarrowPhase computes the contacts of every candidate pair.
// Pairs are tested concurrently, the output keeps the order of the input.
func NarrowPhase(pairs []Pair, workersCount int) []*constraint.ContactConstraint {
	results := make([]*constraint.ContactConstraint, len(pairs))
	indices := make([]int, len(pairs))
	for i := range indices {
		indices[i] = i
	}

	task(workersCount, indices, func(i int) {
		results[i] = Collide(pairs[i].BodyA, pairs[i].BodyB)
	})

	contacts := make([]*constraint.ContactConstraint, 0, len(results))
	for _, contact := range results {
		if contact != nil {
			contacts = append(contacts, contact)
		}
	}

	return contacts
}

// Collide dispatches on the shape types. It returns nil when the bodies do not touch.
func Collide(bodyA, bodyB *actor.RigidBody) *constraint.ContactConstraint {
	switch a := bodyA.Shape.(type) {
	case *actor.Plane:
		return collidePlane(bodyA, a, bodyB)
	case *actor.Sphere:
		switch b := bodyB.Shape.(type) {
		case *actor.Plane:
			return collidePlane(bodyB, b, bodyA)
		case *actor.Sphere:
			return collideSpheres(bodyA, a, bodyB, b)
		case *actor.Box:
			return collideBoxSphere(bodyB, b, bodyA, a)
		}
	case *actor.Box:
		switch b := bodyB.Shape.(type) {
		case *actor.Plane:
			return collidePlane(bodyB, b, bodyA)
		case *actor.Sphere:
			return collideBoxSphere(bodyA, a, bodyB, b)
		case *actor.Box:
			return collideBoxes(bodyA, a, bodyB, b)
		}
	}

	return nil
}

// collidePlane builds a contact with the plane as body A, the normal being the plane normal
func collidePlane(planeBody *actor.RigidBody, plane *actor.Plane, body *actor.RigidBody) *constraint.ContactConstraint {
	normal := plane.WorldNormal(planeBody.Transform)
	origin := planeBody.Transform.Position
	contact := constraint.NewContactConstraint(planeBody, body, normal)

	switch shape := body.Shape.(type) {
	case *actor.Sphere:
		center := body.Transform.Position
		distance := normal.Dot(center.Sub(origin))
		if distance >= shape.Radius {
			return nil
		}
		onPlane := center.Sub(normal.Mul(distance))
		onSphere := center.Sub(normal.Mul(shape.Radius))
		contact.AddPoint(onPlane, onSphere)

	case *actor.Box:
		for _, corner := range shape.WorldCorners(body.Transform) {
			distance := normal.Dot(corner.Sub(origin))
			if distance >= 0 {
				continue
			}
			contact.AddPoint(corner.Sub(normal.Mul(distance)), corner)
		}

	default:
		return nil
	}

	if len(contact.Points) == 0 {
		return nil
	}

	return contact
}

func collideSpheres(bodyA *actor.RigidBody, sphereA *actor.Sphere, bodyB *actor.RigidBody, sphereB *actor.Sphere) *constraint.ContactConstraint {
	centerA := bodyA.Transform.Position
	centerB := bodyB.Transform.Position
	delta := centerB.Sub(centerA)
	distance := delta.Len()

	radii := sphereA.Radius + sphereB.Radius
	if distance >= radii {
		return nil
	}

	normal := mgl64.Vec3{0, 1, 0}
	if distance > 1e-9 {
		normal = delta.Mul(1.0 / distance)
	}

	contact := constraint.NewContactConstraint(bodyA, bodyB, normal)
	contact.AddPoint(
		centerA.Add(normal.Mul(sphereA.Radius)),
		centerB.Sub(normal.Mul(sphereB.Radius)),
	)

	return contact
}

// collideBoxSphere builds a contact with the box as body A
func collideBoxSphere(boxBody *actor.RigidBody, box *actor.Box, sphereBody *actor.RigidBody, sphere *actor.Sphere) *constraint.ContactConstraint {
	center := sphereBody.Transform.Position
	localCenter := boxBody.Transform.ToLocal(center)
	half := box.HalfExtents

	closest := mgl64.Vec3{
		mgl64.Clamp(localCenter.X(), -half.X(), half.X()),
		mgl64.Clamp(localCenter.Y(), -half.Y(), half.Y()),
		mgl64.Clamp(localCenter.Z(), -half.Z(), half.Z()),
	}

	var localNormal mgl64.Vec3
	offset := localCenter.Sub(closest)
	distance := offset.Len()

	if distance > 1e-9 {
		if distance >= sphere.Radius {
			return nil
		}
		localNormal = offset.Mul(1.0 / distance)
	} else {
		// center inside the box: push out through the nearest face
		axis := 0
		minGap := math.Inf(1)
		for i := 0; i < 3; i++ {
			gap := half[i] - math.Abs(localCenter[i])
			if gap < minGap {
				minGap = gap
				axis = i
			}
		}

		sign := 1.0
		if localCenter[axis] < 0 {
			sign = -1.0
		}
		localNormal[axis] = sign
		closest = localCenter
		closest[axis] = sign * half[axis]
	}

	normal := boxBody.Transform.Rotation.Rotate(localNormal).Normalize()
	contact := constraint.NewContactConstraint(boxBody, sphereBody, normal)
	contact.AddPoint(
		boxBody.Transform.ToWorld(closest),
		center.Sub(normal.Mul(sphere.Radius)),
	)

	return contact
}

// collideBoxes runs a separating axis test on the 15 candidate axes, then
// collects the corners of each box found inside the other one
func collideBoxes(bodyA *actor.RigidBody, boxA *actor.Box, bodyB *actor.RigidBody, boxB *actor.Box) *constraint.ContactConstraint {
	axesA := boxAxes(bodyA.Transform)
	axesB := boxAxes(bodyB.Transform)
	centerDelta := bodyB.Transform.Position.Sub(bodyA.Transform.Position)

	bestOverlap := math.Inf(1)
	var bestAxis mgl64.Vec3

	testAxis := func(axis mgl64.Vec3, isEdge bool) bool {
		length := axis.Len()
		if length < 1e-6 {
			// parallel edges, already covered by the face axes
			return true
		}
		axis = axis.Mul(1.0 / length)

		radiusA := projectedRadius(boxA.HalfExtents, axesA, axis)
		radiusB := projectedRadius(boxB.HalfExtents, axesB, axis)
		distance := centerDelta.Dot(axis)

		overlap := radiusA + radiusB - math.Abs(distance)
		if overlap < 0 {
			return false
		}

		candidate := overlap
		if isEdge {
			candidate = overlap / edgeAxisBias
		}
		if candidate < bestOverlap {
			bestOverlap = candidate
			if distance < 0 {
				axis = axis.Mul(-1)
			}
			bestAxis = axis
		}

		return true
	}

	for i := 0; i < 3; i++ {
		if !testAxis(axesA[i], false) || !testAxis(axesB[i], false) {
			return nil
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !testAxis(axesA[i].Cross(axesB[j]), true) {
				return nil
			}
		}
	}

	normal := bestAxis
	contact := constraint.NewContactConstraint(bodyA, bodyB, normal)

	cornersA := boxA.WorldCorners(bodyA.Transform)
	cornersB := boxB.WorldCorners(bodyB.Transform)
	maxA := maxProjection(cornersA, normal)
	minB := -maxProjection(cornersB, normal.Mul(-1))

	for _, corner := range cornersB {
		if !boxA.ContainsLocal(bodyA.Transform.ToLocal(corner), containsTolerance) {
			continue
		}
		depth := maxA - corner.Dot(normal)
		if depth > 0 {
			contact.AddPoint(corner.Add(normal.Mul(depth)), corner)
		}
	}
	for _, corner := range cornersA {
		if !boxB.ContainsLocal(bodyB.Transform.ToLocal(corner), containsTolerance) {
			continue
		}
		depth := corner.Dot(normal) - minB
		if depth > 0 {
			contact.AddPoint(corner, corner.Sub(normal.Mul(depth)))
		}
	}

	if len(contact.Points) == 0 {
		// edge against edge: a single point between the two support points
		supportA := bodyA.Transform.ToWorld(boxA.Support(bodyA.Transform.InverseRotation.Rotate(normal)))
		supportB := bodyB.Transform.ToWorld(boxB.Support(bodyB.Transform.InverseRotation.Rotate(normal.Mul(-1))))
		depth := supportA.Sub(supportB).Dot(normal)
		if depth <= 0 {
			return nil
		}

		middle := supportA.Add(supportB).Mul(0.5)
		contact.AddPoint(middle.Add(normal.Mul(depth/2)), middle.Sub(normal.Mul(depth/2)))
	}

	return contact
}

func boxAxes(transform actor.Transform) [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{
		transform.Rotation.Rotate(mgl64.Vec3{1, 0, 0}),
		transform.Rotation.Rotate(mgl64.Vec3{0, 1, 0}),
		transform.Rotation.Rotate(mgl64.Vec3{0, 0, 1}),
	}
}

func projectedRadius(halfExtents mgl64.Vec3, axes [3]mgl64.Vec3, axis mgl64.Vec3) float64 {
	return halfExtents.X()*math.Abs(axes[0].Dot(axis)) +
		halfExtents.Y()*math.Abs(axes[1].Dot(axis)) +
		halfExtents.Z()*math.Abs(axes[2].Dot(axis))
}

func maxProjection(points [8]mgl64.Vec3, axis mgl64.Vec3) float64 {
	result := math.Inf(-1)
	for _, p := range points {
		result = math.Max(result, p.Dot(axis))
	}

	return result
}
