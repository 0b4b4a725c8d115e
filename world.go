package tumble

import (
	"fmt"
	"math"

	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_WORKERS   = 1
	DEFAULT_SUBSTEPS  = 4
	DEFAULT_TARGET_HZ = 60.0
	// Deltas above this are clamped, a long stall must not launch bodies through each other
	DEFAULT_MAX_DELTA = 0.1

	DEFAULT_CELL_SIZE  = 2.0
	DEFAULT_GRID_CELLS = 1024

	sleepTimeThreshold     = 0.1
	sleepVelocityThreshold = 0.05
)

type World struct {
	// Gravity acceleration (m/s², or N/kg), constant once the world is built
	gravity  mgl64.Vec3
	material constraint.ContactMaterial
	bodies   []*actor.RigidBody
	members  map[*actor.RigidBody]struct{}
	ground   *actor.RigidBody

	Substeps    int
	Workers     int
	AllowSleep  bool
	MaxDelta    float64
	SpatialGrid *SpatialGrid
}

// NewWorld creates a world with one global contact material and a static
// ground plane through the origin, facing +Y
func NewWorld(gravity mgl64.Vec3, friction, restitution float64) (*World, error) {
	for _, g := range gravity {
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return nil, fmt.Errorf("%w: gravity %v is not finite", ErrInvalidConfiguration, gravity)
		}
	}
	if math.IsNaN(friction) || math.IsInf(friction, 0) || friction < 0 {
		return nil, fmt.Errorf("%w: friction %v must be finite and >= 0", ErrInvalidConfiguration, friction)
	}
	if math.IsNaN(restitution) || restitution < 0 || restitution > 1 {
		return nil, fmt.Errorf("%w: restitution %v must be within [0, 1]", ErrInvalidConfiguration, restitution)
	}

	w := &World{
		gravity: gravity,
		material: constraint.ContactMaterial{
			Friction:    friction,
			Restitution: restitution,
		},
		members:     make(map[*actor.RigidBody]struct{}),
		Substeps:    DEFAULT_SUBSTEPS,
		Workers:     DEFAULT_WORKERS,
		MaxDelta:    DEFAULT_MAX_DELTA,
		SpatialGrid: NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_GRID_CELLS),
	}

	// the plane normal is local +Z, a quarter turn about X brings it to +Y
	groundTransform := actor.NewTransformAt(mgl64.Vec3{0, 0, 0}, mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0}))
	w.ground = actor.NewRigidBody(groundTransform, actor.NewPlane(), 0)
	if err := w.AddBody(w.ground); err != nil {
		return nil, err
	}

	return w, nil
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) error {
	if body == nil {
		return fmt.Errorf("%w: nil body", ErrInvalidConfiguration)
	}
	if _, ok := w.members[body]; ok {
		return ErrDuplicateBody
	}

	w.members[body] = struct{}{}
	w.bodies = append(w.bodies, body)

	return nil
}

func (w *World) Gravity() mgl64.Vec3 {
	return w.gravity
}

func (w *World) Material() constraint.ContactMaterial {
	return w.material
}

// Ground returns the static ground body
func (w *World) Ground() *actor.RigidBody {
	return w.ground
}

// Bodies returns the bodies in insertion order, ground first.
// The slice is a copy, the bodies are not.
func (w *World) Bodies() []*actor.RigidBody {
	bodies := make([]*actor.RigidBody, len(w.bodies))
	copy(bodies, w.bodies)

	return bodies
}

// Step advances the simulation by delta seconds, split in reference steps of
// at most 1/targetHz, each one split again in Substeps substeps.
// A non-positive or NaN delta leaves the world untouched.
func (w *World) Step(targetHz, delta float64, solverIterations int) {
	if math.IsNaN(delta) || delta <= 0 {
		return
	}
	if math.IsNaN(targetHz) || math.IsInf(targetHz, 0) || targetHz <= 0 {
		targetHz = DEFAULT_TARGET_HZ
	}
	if w.MaxDelta > 0 && delta > w.MaxDelta {
		delta = w.MaxDelta
	}
	solverIterations = max(1, solverIterations)
	substeps := max(1, w.Substeps)
	workers := max(DEFAULT_WORKERS, w.Workers)

	// the epsilon keeps 1/60 at 60Hz to a single step despite rounding
	steps := max(1, int(math.Ceil(delta*targetHz-1e-9)))
	h := delta / float64(steps*substeps)

	for range steps * substeps {
		w.substep(h, solverIterations, workers)
	}
}

func (w *World) substep(h float64, solverIterations int, workers int) {
	// Phase 1: predict positions
	w.integrate(h, workers)

	// Phase 2: broad phase + narrow phase
	constraints := w.detectCollision(h, workers)

	// Phase 3: position solver, sequential since contacts share bodies
	for range solverIterations {
		for _, c := range constraints {
			c.SolvePosition(h)
		}
	}

	// Phase 4: derive velocities from the corrected positions
	w.update(h, workers)

	// Phase 5: friction and restitution
	for _, c := range constraints {
		c.SolveVelocity(h)
	}

	if w.AllowSleep {
		w.trySleep(h)
	}
}

func (w *World) integrate(h float64, workers int) {
	task(workers, w.bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.gravity)
	})
}

func (w *World) detectCollision(h float64, workers int) []*constraint.ContactConstraint {
	w.SpatialGrid.Lookahead = h
	constraints := NarrowPhase(BroadPhase(w.SpatialGrid, w.bodies, workers), workers)

	// below the speed gained from gravity over two substeps, contacts do not bounce
	threshold := 2 * w.gravity.Len() * h
	for _, c := range constraints {
		c.Material = w.material
		c.RestitutionThreshold = threshold
	}

	return constraints
}

func (w *World) update(h float64, workers int) {
	task(workers, w.bodies, func(body *actor.RigidBody) {
		body.Update(h)
	})
}

// trySleep sets the body to sleep if its velocity is lower than the threshold, for a given duration
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(h float64) {
	for _, body := range w.bodies {
		body.TrySleep(h, sleepTimeThreshold, sleepVelocityThreshold)
	}
}
