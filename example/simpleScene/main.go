package main

import (
	"fmt"
	"os"

	"github.com/akmonengine/tumble"
	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// CollisionDebugger instruments the contacts found between two bodies
type CollisionDebugger interface {
	DebugContact(bodyA, bodyB *actor.RigidBody, contact *constraint.ContactConstraint)
	DebugBody(label string, body *actor.RigidBody)
}

// SimpleDebugger prints everything to stdout
type SimpleDebugger struct{}

func (d *SimpleDebugger) DebugContact(bodyA, bodyB *actor.RigidBody, contact *constraint.ContactConstraint) {
	fmt.Printf("Contact:\n")
	fmt.Printf("   Normal: %v\n", contact.Normal)
	fmt.Printf("   Points: %d\n", len(contact.Points))
	for i := range contact.Points {
		fmt.Printf("   Point %d: penetration=%.6f\n", i, contact.Penetration(i))
	}
	fmt.Printf("   Body A velocity: %v\n", bodyA.Velocity)
	fmt.Printf("   Body B velocity: %v\n", bodyB.Velocity)
}

func (d *SimpleDebugger) DebugBody(label string, body *actor.RigidBody) {
	fmt.Printf("%s:\n", label)
	fmt.Printf("  Position: %v\n", body.Transform.Position)
	fmt.Printf("  Velocity: %v\n", body.Velocity)
	fmt.Printf("  Angular Velocity: %v (len=%.3f)\n", body.AngularVelocity, body.AngularVelocity.Len())
	fmt.Printf("  Rotation: %v\n", body.Transform.Rotation)
}

// SetupScene creates a world and a tilted cube above its ground
func SetupScene() (*tumble.World, *actor.RigidBody, error) {
	world, err := tumble.NewWorld(mgl64.Vec3{0, -9.82, 0}, 0.1, 0.8)
	if err != nil {
		return nil, nil, err
	}

	cubeTransform := actor.NewTransformAt(mgl64.Vec3{0, 3, 0}, mgl64.QuatRotate(mgl64.DegToRad(30), mgl64.Vec3{0, 0, 1}))

	cube := actor.NewRigidBody(cubeTransform, &actor.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, 1.0)
	if err := world.AddBody(cube); err != nil {
		return nil, nil, err
	}

	return world, cube, nil
}

// CubeDrop steps a tilted cube onto the ground and prints every frame
func CubeDrop() error {
	fmt.Println("Integration test: tilted cube dropped on the ground")
	fmt.Println("===================================================")

	world, cube, err := SetupScene()
	if err != nil {
		return err
	}
	ground := world.Ground()
	debugger := &SimpleDebugger{}

	fmt.Printf("Initial setup:\n")
	fmt.Printf("  Ground: position %v\n", ground.Transform.Position)
	fmt.Printf("  Cube: position %v, rotation %v\n", cube.Transform.Position, cube.Transform.Rotation)
	fmt.Printf("  Gravity: %v\n", world.Gravity())
	fmt.Println()

	const dt float64 = 1.0 / 60.0
	const maxSteps int = 200

	for step := 0; step < maxSteps; step++ {
		fmt.Printf("--- STEP %d ---\n", step+1)
		debugger.DebugBody("Cube before", cube)

		if contact := tumble.Collide(ground, cube); contact != nil {
			debugger.DebugContact(ground, cube, contact)
		} else {
			fmt.Printf("  No contact\n")
		}

		world.Step(60, dt, 3)

		debugger.DebugBody("Cube after", cube)

		qDelta := cube.Transform.Rotation.Mul(cube.PreviousTransform.Rotation.Conjugate()).Normalize()
		fmt.Printf("  Rotation delta: qDelta=%v (|V|=%.6f)\n", qDelta, qDelta.V.Len())
		fmt.Println()
	}

	fmt.Println("Done!")
	return nil
}

func main() {
	if err := CubeDrop(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
