package simulation

import (
	"math"

	"github.com/akmonengine/tumble/actor"
)

// Snapshot summarizes the registered bodies at one frame
type Snapshot struct {
	Frame         uint64
	Bodies        int
	Sleeping      int
	KineticEnergy float64 // joules, translation + rotation
	MeanHeight    float64
	LowestPoint   float64 // lowest surface point over all bodies
}

// Measure computes a snapshot of the registered bodies
func (c *Context) Measure(frame uint64) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{Frame: frame, LowestPoint: math.Inf(1)}
	heightSum := 0.0

	c.Registry.ForEach(func(pair Pair) {
		body := pair.Body
		snapshot.Bodies++
		if body.IsSleeping {
			snapshot.Sleeping++
		}

		snapshot.KineticEnergy += KineticEnergy(body)
		heightSum += body.Transform.Position.Y()
		snapshot.LowestPoint = math.Min(snapshot.LowestPoint, LowestPoint(body))
	})

	if snapshot.Bodies > 0 {
		snapshot.MeanHeight = heightSum / float64(snapshot.Bodies)
	} else {
		snapshot.LowestPoint = 0
	}

	return snapshot
}

// KineticEnergy returns ½mv² + ½ωᵀIω, with I expressed in world space
func KineticEnergy(body *actor.RigidBody) float64 {
	if body.IsStatic() {
		return 0
	}

	linear := 0.5 * body.Mass() * body.Velocity.Dot(body.Velocity)

	rotation := body.Transform.Rotation.Mat4().Mat3()
	inertiaWorld := rotation.Mul3(body.InertiaLocal).Mul3(rotation.Transpose())
	angular := 0.5 * body.AngularVelocity.Dot(inertiaWorld.Mul3x1(body.AngularVelocity))

	return linear + angular
}

// LowestPoint returns the lowest world height reached by the body surface
func LowestPoint(body *actor.RigidBody) float64 {
	switch shape := body.Shape.(type) {
	case *actor.Sphere:
		return body.Transform.Position.Y() - shape.Radius
	case *actor.Box:
		lowest := math.Inf(1)
		for _, corner := range shape.WorldCorners(body.Transform) {
			lowest = math.Min(lowest, corner.Y())
		}
		return lowest
	default:
		return body.Transform.Position.Y()
	}
}

// Telemetry keeps a bounded history of snapshots for graphs
type Telemetry struct {
	capacity int
	energy   []float64
	height   []float64
	last     Snapshot
}

func NewTelemetry(capacity int) *Telemetry {
	capacity = max(1, capacity)

	return &Telemetry{
		capacity: capacity,
		energy:   make([]float64, 0, capacity),
		height:   make([]float64, 0, capacity),
	}
}

func (t *Telemetry) Record(snapshot Snapshot) {
	t.energy = appendBounded(t.energy, snapshot.KineticEnergy, t.capacity)
	t.height = appendBounded(t.height, snapshot.MeanHeight, t.capacity)
	t.last = snapshot
}

func (t *Telemetry) Last() Snapshot {
	return t.last
}

// Energy returns the kinetic energy history, oldest first
func (t *Telemetry) Energy() []float64 {
	return append([]float64(nil), t.energy...)
}

// Heights returns the mean height history, oldest first
func (t *Telemetry) Heights() []float64 {
	return append([]float64(nil), t.height...)
}

func appendBounded(values []float64, v float64, capacity int) []float64 {
	if len(values) == capacity {
		copy(values, values[1:])
		values = values[:capacity-1]
	}

	return append(values, v)
}
