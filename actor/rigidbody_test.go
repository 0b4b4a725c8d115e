package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// NewRigidBody Tests
// =============================================================================

func TestNewRigidBody_Dynamic(t *testing.T) {
	rb := NewRigidBody(NewTransformAt(mgl64.Vec3{0, 3, 0}, mgl64.QuatIdent()), &Sphere{Radius: 0.5}, 1)

	if rb.BodyType != BodyTypeDynamic {
		t.Errorf("BodyType = %v, want dynamic", rb.BodyType)
	}
	if rb.Mass() != 1 || rb.InverseMass() != 1 {
		t.Errorf("Mass() = %v, InverseMass() = %v, want 1, 1", rb.Mass(), rb.InverseMass())
	}
	if rb.Shape.GetAABB().Min.Y() != 2.5 {
		t.Errorf("AABB not computed at creation: %v", rb.Shape.GetAABB())
	}
}

func TestNewRigidBody_Static(t *testing.T) {
	tests := []struct {
		name  string
		shape ShapeInterface
		mass  float64
	}{
		{"zero mass sphere", &Sphere{Radius: 1}, 0},
		{"negative mass box", &Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, -3},
		{"plane with mass", NewPlane(), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := NewRigidBody(NewTransform(), tt.shape, tt.mass)
			if !rb.IsStatic() {
				t.Fatal("body should be static")
			}
			if rb.InverseMass() != 0 {
				t.Errorf("InverseMass() = %v, want 0", rb.InverseMass())
			}
			if rb.GetInverseInertiaWorld() != (mgl64.Mat3{}) {
				t.Error("static inverse inertia should be zero")
			}
		})
	}
}

// =============================================================================
// Integrate / Update Tests
// =============================================================================

func TestIntegrate_WithGravity(t *testing.T) {
	rb := NewRigidBody(NewTransformAt(mgl64.Vec3{0, 10, 0}, mgl64.QuatIdent()), &Sphere{Radius: 1}, 1)
	rb.LinearDamping = 0
	gravity := mgl64.Vec3{0, -10, 0}

	rb.Integrate(0.1, gravity)

	// symplectic Euler: v = -1, y = 10 - 0.1
	if math.Abs(rb.Velocity.Y()+1) > 1e-12 {
		t.Errorf("Velocity.Y = %v, want -1", rb.Velocity.Y())
	}
	if math.Abs(rb.Transform.Position.Y()-9.9) > 1e-12 {
		t.Errorf("Position.Y = %v, want 9.9", rb.Transform.Position.Y())
	}
	if rb.PreviousTransform.Position.Y() != 10 {
		t.Errorf("PreviousTransform.Position.Y = %v, want 10", rb.PreviousTransform.Position.Y())
	}
	if rb.PresolveVelocity != rb.Velocity {
		t.Error("PresolveVelocity should capture the integrated velocity")
	}
}

func TestIntegrate_StaticAndSleeping(t *testing.T) {
	static := NewRigidBody(NewTransform(), &Sphere{Radius: 1}, 0)
	sleeping := NewRigidBody(NewTransform(), &Sphere{Radius: 1}, 1)
	sleeping.Sleep()

	for _, rb := range []*RigidBody{static, sleeping} {
		rb.Integrate(0.1, mgl64.Vec3{0, -9.82, 0})
		if rb.Transform.Position != (mgl64.Vec3{}) {
			t.Errorf("body moved to %v", rb.Transform.Position)
		}
	}
}

func TestIntegrate_AngularVelocityKeepsUnitQuaternion(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, 1)
	rb.AngularVelocity = mgl64.Vec3{0, 5, 0}

	for range 100 {
		rb.Integrate(1.0/60.0, mgl64.Vec3{})
	}

	if math.Abs(rb.Transform.Rotation.Len()-1) > 1e-9 {
		t.Errorf("|q| = %v, want 1", rb.Transform.Rotation.Len())
	}
	product := rb.Transform.Rotation.Mul(rb.Transform.InverseRotation)
	if !product.ApproxEqualThreshold(mgl64.QuatIdent(), 1e-9) {
		t.Errorf("q * q^-1 = %v, want identity", product)
	}
}

func TestUpdate_DerivesVelocityFromPositions(t *testing.T) {
	rb := NewRigidBody(NewTransformAt(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent()), &Sphere{Radius: 0.5}, 1)
	rb.Integrate(0.5, mgl64.Vec3{})
	rb.Transform.Position = mgl64.Vec3{1, 1, 0}

	rb.Update(0.5)

	if !rb.Velocity.ApproxEqualThreshold(mgl64.Vec3{2, 0, 0}, 1e-12) {
		t.Errorf("Velocity = %v, want {2,0,0}", rb.Velocity)
	}
	if rb.AngularVelocity.Len() > 1e-12 {
		t.Errorf("AngularVelocity = %v, want zero", rb.AngularVelocity)
	}
}

// =============================================================================
// Impulse Tests
// =============================================================================

func TestApplyPositionImpulse_CenterOfMass(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Sphere{Radius: 1}, 2)

	rb.ApplyPositionImpulse(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{})

	if !rb.Transform.Position.ApproxEqualThreshold(mgl64.Vec3{0, 0.5, 0}, 1e-12) {
		t.Errorf("Position = %v, want {0,0.5,0}", rb.Transform.Position)
	}
	if !rb.Transform.Rotation.ApproxEqualThreshold(mgl64.QuatIdent(), 1e-12) {
		t.Errorf("Rotation changed: %v", rb.Transform.Rotation)
	}
}

func TestApplyPositionImpulse_OffCenterRotates(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, 1)

	rb.ApplyPositionImpulse(mgl64.Vec3{0, 0.01, 0}, mgl64.Vec3{0.5, -0.5, 0})

	if rb.Transform.Rotation.ApproxEqualThreshold(mgl64.QuatIdent(), 1e-9) {
		t.Error("off-center impulse should rotate the body")
	}
}

func TestApplyImpulse_Static(t *testing.T) {
	rb := NewRigidBody(NewTransform(), NewPlane(), 0)

	rb.ApplyImpulse(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 0, 0})
	rb.ApplyPositionImpulse(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 0, 0})

	if rb.Velocity != (mgl64.Vec3{}) || rb.Transform.Position != (mgl64.Vec3{}) {
		t.Error("static body must not react to impulses")
	}
}

func TestGeneralizedInverseMass(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Sphere{Radius: 1}, 1)
	n := mgl64.Vec3{0, 1, 0}

	// r parallel to n: no angular contribution
	if w := rb.GeneralizedInverseMass(mgl64.Vec3{0, -1, 0}, n); math.Abs(w-1) > 1e-12 {
		t.Errorf("w = %v, want 1", w)
	}
	// r perpendicular: 1/m + r²/I = 1 + 1/0.4
	if w := rb.GeneralizedInverseMass(mgl64.Vec3{1, 0, 0}, n); math.Abs(w-3.5) > 1e-9 {
		t.Errorf("w = %v, want 3.5", w)
	}
}

// =============================================================================
// Sleep Tests
// =============================================================================

func TestTrySleep(t *testing.T) {
	rb := NewRigidBody(NewTransform(), &Sphere{Radius: 1}, 1)
	rb.Velocity = mgl64.Vec3{0.01, 0, 0}

	rb.TrySleep(0.05, 0.1, 0.05)
	if rb.IsSleeping {
		t.Fatal("body should not sleep before the time threshold")
	}
	rb.TrySleep(0.06, 0.1, 0.05)
	if !rb.IsSleeping {
		t.Fatal("body should sleep after the time threshold")
	}
	if rb.Velocity != (mgl64.Vec3{}) {
		t.Error("sleeping body should have zero velocity")
	}

	rb.Awake()
	if rb.IsSleeping || rb.SleepTimer != 0 {
		t.Error("Awake() should reset the sleep state")
	}
}
