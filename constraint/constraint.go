package constraint

import (
	"github.com/akmonengine/tumble/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type Constraint interface {
	SolvePosition(dt float64)
	SolveVelocity(dt float64)
}

// ContactMaterial holds the friction and restitution shared by every body pair
type ContactMaterial struct {
	Friction    float64 // Coulomb coefficient, >= 0
	Restitution float64 // 0 = no rebound, 1 = perfect rebound
}

// DefaultContactMaterial matches the tuning of the reference scene
func DefaultContactMaterial() ContactMaterial {
	return ContactMaterial{
		Friction:    0.1,
		Restitution: 0.7,
	}
}

func clampSmallVelocities(rb *actor.RigidBody) {
	const velocityThreshold = 1e-5

	if rb.IsStatic() {
		return
	}
	if rb.Velocity.Len() < velocityThreshold {
		rb.Velocity = mgl64.Vec3{0, 0, 0}
	}
	if rb.AngularVelocity.Len() < velocityThreshold {
		rb.AngularVelocity = mgl64.Vec3{0, 0, 0}
	}
}
