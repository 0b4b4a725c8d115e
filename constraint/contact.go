package constraint

import (
	"math"

	"github.com/akmonengine/tumble/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultCompliance controls soft constraint stiffness for contact resolution.
	// Lower values = stiffer contacts (less penetration, potential jitter)
	// Higher values = softer contacts (more penetration, smoother)
	DefaultCompliance = 1e-7
)

// ContactPoint stores one contact as a pair of anchors, one on each body,
// expressed in the local space of that body so the penetration can be
// re-evaluated after every correction.
type ContactPoint struct {
	LocalA mgl64.Vec3
	LocalB mgl64.Vec3
	Lambda float64 // accumulated normal positional impulse for the substep
}

type ContactConstraint struct {
	BodyA  *actor.RigidBody
	BodyB  *actor.RigidBody
	Points []ContactPoint
	Normal mgl64.Vec3 // unit, from A toward B

	Material ContactMaterial
	// Below this approach speed, restitution is ignored so resting bodies settle
	RestitutionThreshold float64
	Compliance           float64
}

// NewContactConstraint creates an empty contact between two bodies
func NewContactConstraint(bodyA, bodyB *actor.RigidBody, normal mgl64.Vec3) *ContactConstraint {
	return &ContactConstraint{
		BodyA:      bodyA,
		BodyB:      bodyB,
		Normal:     normal,
		Points:     make([]ContactPoint, 0, 4),
		Compliance: DefaultCompliance,
	}
}

// AddPoint adds a contact from the world point on A's surface and the world
// point on B's surface. The pair penetrates when (worldA - worldB)·Normal > 0.
func (c *ContactConstraint) AddPoint(worldA, worldB mgl64.Vec3) {
	c.Points = append(c.Points, ContactPoint{
		LocalA: c.BodyA.Transform.ToLocal(worldA),
		LocalB: c.BodyB.Transform.ToLocal(worldB),
	})
}

// Penetration returns the current depth of the i-th point, positive when overlapping
func (c *ContactConstraint) Penetration(i int) float64 {
	pA := c.BodyA.Transform.ToWorld(c.Points[i].LocalA)
	pB := c.BodyB.Transform.ToWorld(c.Points[i].LocalB)

	return pA.Sub(pB).Dot(c.Normal)
}

func (c *ContactConstraint) inactive() bool {
	sleepingOrStaticA := c.BodyA.IsSleeping || c.BodyA.IsStatic()
	sleepingOrStaticB := c.BodyB.IsSleeping || c.BodyB.IsStatic()

	return sleepingOrStaticA && sleepingOrStaticB
}

// SolvePosition resolves penetration (XPBD). The corrections of all the
// points are computed from the same pose, averaged and applied as one
// impulse, so a face lying flat on a face is pushed out without torque.
func (c *ContactConstraint) SolvePosition(dt float64) {
	if len(c.Points) == 0 || c.inactive() {
		return
	}

	bodyA := c.BodyA
	bodyB := c.BodyB
	alphaTilde := c.Compliance / (dt * dt)

	var buffer [8]positionCorrection
	corrections := buffer[:0]

	for i := range c.Points {
		point := &c.Points[i]

		pA := bodyA.Transform.ToWorld(point.LocalA)
		pB := bodyB.Transform.ToWorld(point.LocalB)
		penetration := pA.Sub(pB).Dot(c.Normal)
		if penetration <= 0 {
			continue
		}

		rA := pA.Sub(bodyA.Transform.Position)
		rB := pB.Sub(bodyB.Transform.Position)

		w := bodyA.GeneralizedInverseMass(rA, c.Normal) + bodyB.GeneralizedInverseMass(rB, c.Normal)
		if w <= 1e-12 {
			continue
		}

		corrections = append(corrections, positionCorrection{
			index:       i,
			deltaLambda: penetration / (w + alphaTilde),
			rA:          rA,
			rB:          rB,
		})
	}

	if len(corrections) == 0 {
		return
	}

	// a moving body touching a sleeping one wakes it up
	if bodyA.IsSleeping {
		bodyA.Awake()
	}
	if bodyB.IsSleeping {
		bodyB.Awake()
	}

	var impulse, momentA, momentB mgl64.Vec3
	share := 1.0 / float64(len(corrections))
	for _, correction := range corrections {
		deltaLambda := correction.deltaLambda * share
		c.Points[correction.index].Lambda += deltaLambda

		p := c.Normal.Mul(deltaLambda)
		impulse = impulse.Add(p)
		momentA = momentA.Add(correction.rA.Cross(p.Mul(-1)))
		momentB = momentB.Add(correction.rB.Cross(p))
	}

	bodyA.ApplyPositionImpulses(impulse.Mul(-1), momentA)
	bodyB.ApplyPositionImpulses(impulse, momentB)
}

type positionCorrection struct {
	index       int
	deltaLambda float64
	rA, rB      mgl64.Vec3
}

// SolveVelocity applies friction on every point that was pushed apart during
// the position solve, then restitution once at the centroid of those points
func (c *ContactConstraint) SolveVelocity(dt float64) {
	if len(c.Points) == 0 || c.inactive() {
		return
	}

	bodyA := c.BodyA
	bodyB := c.BodyB
	n := c.Normal

	var centroidA, centroidB mgl64.Vec3
	active := 0

	for _, point := range c.Points {
		if point.Lambda <= 0 {
			continue
		}
		active++
		centroidA = centroidA.Add(point.LocalA)
		centroidB = centroidB.Add(point.LocalB)

		rA := bodyA.Transform.Rotation.Rotate(point.LocalA)
		rB := bodyB.Transform.Rotation.Rotate(point.LocalB)

		// ========== TANGENTIAL IMPULSE (friction) ==========
		relativeVel := bodyB.VelocityAt(rB).Sub(bodyA.VelocityAt(rA))
		normalVel := relativeVel.Dot(n)
		tangentVel := relativeVel.Sub(n.Mul(normalVel))
		tangentSpeed := tangentVel.Len()

		if tangentSpeed > 1e-9 {
			tangentDir := tangentVel.Mul(1.0 / tangentSpeed)
			effectiveMassTangent := bodyA.GeneralizedInverseMass(rA, tangentDir) + bodyB.GeneralizedInverseMass(rB, tangentDir)

			if effectiveMassTangent > 1e-12 {
				// Coulomb's law: |J_friction| <= μ * |J_normal|, with J_normal = λ/h
				maxFriction := c.Material.Friction * point.Lambda / dt
				lambdaTangent := math.Min(tangentSpeed/effectiveMassTangent, maxFriction)

				frictionImpulse := tangentDir.Mul(lambdaTangent)
				bodyA.ApplyImpulse(frictionImpulse, rA)
				bodyB.ApplyImpulse(frictionImpulse.Mul(-1), rB)
			}
		}
	}

	if active > 0 {
		inv := 1.0 / float64(active)
		rA := bodyA.Transform.Rotation.Rotate(centroidA.Mul(inv))
		rB := bodyB.Transform.Rotation.Rotate(centroidB.Mul(inv))
		c.solveRestitution(rA, rB)
	}

	clampSmallVelocities(bodyA)
	clampSmallVelocities(bodyB)
}

// ========== NORMAL IMPULSE (restitution) ==========
func (c *ContactConstraint) solveRestitution(rA, rB mgl64.Vec3) {
	bodyA := c.BodyA
	bodyB := c.BodyB
	n := c.Normal

	normalVel := bodyB.VelocityAt(rB).Sub(bodyA.VelocityAt(rA)).Dot(n)
	normalVelPrev := bodyB.PresolveVelocityAt(rB).Sub(bodyA.PresolveVelocityAt(rA)).Dot(n)

	restitution := c.Material.Restitution
	if math.Abs(normalVelPrev) <= c.RestitutionThreshold {
		restitution = 0
	}

	targetVel := math.Max(-restitution*normalVelPrev, 0)
	deltaV := targetVel - normalVel
	// never pull the bodies together
	if deltaV <= 0 {
		return
	}

	effectiveMassNormal := bodyA.GeneralizedInverseMass(rA, n) + bodyB.GeneralizedInverseMass(rB, n)
	if effectiveMassNormal <= 1e-12 {
		return
	}

	normalImpulse := n.Mul(deltaV / effectiveMassNormal)
	bodyA.ApplyImpulse(normalImpulse.Mul(-1), rA)
	bodyB.ApplyImpulse(normalImpulse, rB)
}
