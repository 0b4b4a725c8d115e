package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by gravity and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass (e.g. the ground)
	BodyTypeStatic
)

const (
	DefaultLinearDamping  = 0.01
	DefaultAngularDamping = 0.01
)

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	// Spatial properties
	PreviousTransform Transform
	Transform         Transform

	// Linear motion
	PresolveVelocity mgl64.Vec3
	Velocity         mgl64.Vec3 // m/s

	// Angular motion
	PresolveAngularVelocity mgl64.Vec3
	AngularVelocity         mgl64.Vec3 // rad/s
	InertiaLocal            mgl64.Mat3
	InverseInertiaLocal     mgl64.Mat3

	LinearDamping  float64 // fraction of velocity lost per second
	AngularDamping float64

	IsSleeping bool
	SleepTimer float64

	BodyType BodyType
	Shape    ShapeInterface

	mass        float64
	inverseMass float64
}

// NewRigidBody creates a new rigid body with the given properties.
// A mass of 0, or a plane shape, makes the body static.
func NewRigidBody(transform Transform, shape ShapeInterface, mass float64) *RigidBody {
	transform.SetRotation(transform.Rotation)

	rb := &RigidBody{
		PreviousTransform: transform,
		Transform:         transform,
		Shape:             shape,
		LinearDamping:     DefaultLinearDamping,
		AngularDamping:    DefaultAngularDamping,
	}

	if mass <= 0 || !shape.Bounded() {
		rb.BodyType = BodyTypeStatic
		rb.mass = 0
		rb.inverseMass = 0
	} else {
		rb.BodyType = BodyTypeDynamic
		rb.mass = mass
		rb.inverseMass = 1.0 / mass
		rb.InertiaLocal = shape.ComputeInertia(mass)
		rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
	}

	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

// Mass returns the body mass, 0 for static bodies
func (rb *RigidBody) Mass() float64 {
	return rb.mass
}

// InverseMass returns 1/mass, 0 for static bodies
func (rb *RigidBody) InverseMass() float64 {
	return rb.inverseMass
}

func (rb *RigidBody) IsStatic() bool {
	return rb.BodyType == BodyTypeStatic
}

func (rb *RigidBody) TrySleep(dt float64, timeThreshold float64, velocityThreshold float64) {
	if rb.IsStatic() || rb.IsSleeping {
		return
	}

	if rb.Velocity.Len() < velocityThreshold && rb.AngularVelocity.Len() < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timeThreshold {
			rb.Sleep()
		}
	} else {
		rb.SleepTimer = 0.0
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.Shape.ComputeAABB(rb.Transform)
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
	rb.PresolveVelocity = mgl64.Vec3{}
	rb.PresolveAngularVelocity = mgl64.Vec3{}
}

// Awake wakes the body up. A body woken in the middle of a substep restarts
// its velocity derivation from the current pose.
func (rb *RigidBody) Awake() {
	if rb.IsSleeping {
		rb.PreviousTransform = rb.Transform
	}
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// Integrate predicts the next pose from the current velocities (XPBD step 1)
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.IsStatic() || rb.IsSleeping {
		return
	}

	rb.PreviousTransform = rb.Transform

	// ========== LINEAR ==========
	rb.Velocity = rb.Velocity.Add(gravity.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.LinearDamping * dt))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	// ========== ANGULAR ==========
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.AngularDamping * dt))
	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.SetRotation(rb.Transform.Rotation.Add(qDot.Scale(dt)))

	rb.PresolveVelocity = rb.Velocity
	rb.PresolveAngularVelocity = rb.AngularVelocity

	rb.Shape.ComputeAABB(rb.Transform)
}

// Update derives the velocities from the solved pose (XPBD step 3)
func (rb *RigidBody) Update(dt float64) {
	if rb.IsStatic() || rb.IsSleeping {
		return
	}

	rb.Velocity = rb.Transform.Position.Sub(rb.PreviousTransform.Position).Mul(1.0 / dt)

	qDelta := rb.Transform.Rotation.Mul(rb.PreviousTransform.Rotation.Conjugate()).Normalize()
	if qDelta.W >= 0.0 {
		rb.AngularVelocity = qDelta.V.Mul(2.0 / dt)
	} else {
		rb.AngularVelocity = qDelta.V.Mul(-2.0 / dt)
	}

	rb.Shape.ComputeAABB(rb.Transform)
}

// GetInverseInertiaWorld returns R * I_local^-1 * R^T, zero for static bodies
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.IsStatic() {
		return mgl64.Mat3{}
	}

	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}

// GeneralizedInverseMass returns w = 1/m + (r x n)^T I^-1 (r x n) for a
// correction along n applied at world offset r from the center of mass
func (rb *RigidBody) GeneralizedInverseMass(r, n mgl64.Vec3) float64 {
	if rb.IsStatic() {
		return 0
	}

	rn := r.Cross(n)
	return rb.inverseMass + rb.GetInverseInertiaWorld().Mul3x1(rn).Dot(rn)
}

// ApplyPositionImpulse moves the body by the positional impulse p applied at
// world offset r. The rotation is updated with the small-angle approximation.
func (rb *RigidBody) ApplyPositionImpulse(p, r mgl64.Vec3) {
	rb.ApplyPositionImpulses(p, r.Cross(p))
}

// ApplyPositionImpulses moves the body by several positional impulses at
// once, given as their sum p and the sum of their moments r x p
func (rb *RigidBody) ApplyPositionImpulses(p, moment mgl64.Vec3) {
	if rb.IsStatic() {
		return
	}

	rb.Transform.Position = rb.Transform.Position.Add(p.Mul(rb.inverseMass))

	dTheta := rb.GetInverseInertiaWorld().Mul3x1(moment)
	if dTheta.LenSqr() > 1e-20 {
		dq := mgl64.Quat{W: 0, V: dTheta}.Mul(rb.Transform.Rotation).Scale(0.5)
		rb.Transform.SetRotation(rb.Transform.Rotation.Add(dq))
	}
}

// ApplyImpulse changes the velocities by the impulse j applied at world offset r
func (rb *RigidBody) ApplyImpulse(j, r mgl64.Vec3) {
	if rb.IsStatic() {
		return
	}

	rb.Velocity = rb.Velocity.Add(j.Mul(rb.inverseMass))
	rb.AngularVelocity = rb.AngularVelocity.Add(rb.GetInverseInertiaWorld().Mul3x1(r.Cross(j)))
}

// VelocityAt returns the velocity of the material point at world offset r
func (rb *RigidBody) VelocityAt(r mgl64.Vec3) mgl64.Vec3 {
	return rb.Velocity.Add(rb.AngularVelocity.Cross(r))
}

// PresolveVelocityAt returns the velocity at world offset r before the velocity solve
func (rb *RigidBody) PresolveVelocityAt(r mgl64.Vec3) mgl64.Vec3 {
	return rb.PresolveVelocity.Add(rb.PresolveAngularVelocity.Cross(r))
}
