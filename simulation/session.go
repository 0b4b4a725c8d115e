package simulation

import (
	"fmt"

	"github.com/akmonengine/tumble"
	"github.com/akmonengine/tumble/config"
	"github.com/akmonengine/tumble/scene"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// Session is a ready to run scene: staged floor and lights, initial bodies,
// loop and spawner, all sharing one Context
type Session struct {
	Context *Context
	Scene   *scene.Scene
	Floor   *scene.Mesh
	Factory *Factory
	Loop    *Loop
	Spawner *Spawner
}

// NewWorld builds a world from its configuration
func NewWorld(cfg config.WorldConfig) (*tumble.World, error) {
	world, err := tumble.NewWorld(mgl64.Vec3(cfg.Gravity), cfg.Friction, cfg.Restitution)
	if err != nil {
		return nil, err
	}

	if cfg.Substeps > 0 {
		world.Substeps = cfg.Substeps
	}
	if cfg.Workers > 0 {
		world.Workers = cfg.Workers
	}
	if cfg.MaxDelta > 0 {
		world.MaxDelta = cfg.MaxDelta
	}
	world.AllowSleep = cfg.AllowSleep

	return world, nil
}

// NewSession validates cfg and builds the whole scene. A nil clock uses the wall clock.
func NewSession(cfg *config.Config, clock *Clock, logger *log.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world, err := NewWorld(cfg.World)
	if err != nil {
		return nil, err
	}

	graph := scene.New()
	ctx := NewContext(world, graph, scene.NewResources(), logger)
	floor := ctx.Resources.Stage(graph)

	factory := NewFactory(ctx)
	if _, err := Populate(factory, cfg.Bodies); err != nil {
		return nil, fmt.Errorf("initial bodies: %w", err)
	}

	loop := NewLoop(ctx, clock)
	loop.TargetHz = cfg.Loop.TargetHz
	loop.SolverIterations = cfg.Loop.SolverIterations

	ctx.Logger.Info("session ready", "bodies", ctx.Registry.Len(), "substeps", world.Substeps, "workers", world.Workers)

	return &Session{
		Context: ctx,
		Scene:   graph,
		Floor:   floor,
		Factory: factory,
		Loop:    loop,
		Spawner: NewSpawner(factory, cfg.Spawn),
	}, nil
}
