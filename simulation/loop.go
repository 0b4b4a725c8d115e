package simulation

import "github.com/akmonengine/tumble"

const (
	DefaultTargetHz         = 60.0
	DefaultSolverIterations = 3
)

type State uint8

const (
	// Running is the only state: the loop advances once per frame for the process lifetime
	Running State = iota
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "unknown"
}

// Loop advances the world and copies body poses onto meshes
type Loop struct {
	ctx   *Context
	clock *Clock

	TargetHz         float64
	SolverIterations int

	frame uint64
}

func NewLoop(ctx *Context, clock *Clock) *Loop {
	if clock == nil {
		clock = NewClock()
	}

	return &Loop{
		ctx:              ctx,
		clock:            clock,
		TargetHz:         DefaultTargetHz,
		SolverIterations: DefaultSolverIterations,
	}
}

func (l *Loop) State() State {
	return Running
}

// Advance runs one iteration with the time elapsed since the previous one,
// and returns that delta
func (l *Loop) Advance() float64 {
	delta := l.clock.Tick()
	l.AdvanceBy(delta)

	return delta
}

// AdvanceBy runs one iteration with a given delta, in seconds
func (l *Loop) AdvanceBy(delta float64) {
	l.ctx.mu.Lock()
	defer l.ctx.mu.Unlock()

	l.ctx.World.Step(l.TargetHz, delta, l.SolverIterations)
	l.ctx.Registry.ForEach(syncPose)
	l.frame++
}

// Frame returns the number of iterations run so far
func (l *Loop) Frame() uint64 {
	return l.frame
}

func (l *Loop) World() *tumble.World {
	return l.ctx.World
}

func syncPose(pair Pair) {
	pair.Mesh.Position = pair.Body.Transform.Position
	pair.Mesh.Quaternion = pair.Body.Transform.Rotation
}
