package simulation

import (
	"errors"
	"io"
	"testing"

	"github.com/akmonengine/tumble/config"
	"github.com/charmbracelet/log"
)

func TestNewSession_Default(t *testing.T) {
	session, err := NewSession(config.DefaultConfig(), nil, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if session.Context.Registry.Len() != 3 {
		t.Errorf("expected 3 initial pairs, got %d", session.Context.Registry.Len())
	}
	// floor + 3 bodies
	if len(session.Scene.Meshes()) != 4 {
		t.Errorf("expected 4 meshes, got %d", len(session.Scene.Meshes()))
	}
	if session.Scene.Meshes()[0] != session.Floor {
		t.Error("the floor should be the first mesh")
	}
	if session.Loop.TargetHz != 60 || session.Loop.SolverIterations != 3 {
		t.Error("loop settings not applied")
	}
	if len(session.Context.World.Bodies()) != 4 {
		t.Errorf("expected ground + 3 bodies, got %d", len(session.Context.World.Bodies()))
	}
}

func TestNewSession_AppliesWorldConfig(t *testing.T) {
	cfg := config.GetPreset("rain")
	cfg.World.Substeps = 8
	cfg.World.AllowSleep = true
	cfg.World.MaxDelta = 0.05

	session, err := NewSession(cfg, nil, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	world := session.Context.World
	if world.Substeps != 8 || world.Workers != 4 || !world.AllowSleep || world.MaxDelta != 0.05 {
		t.Errorf("world settings not applied: %+v", world)
	}
	if session.Context.Registry.Len() != len(cfg.Bodies) {
		t.Errorf("expected %d pairs, got %d", len(cfg.Bodies), session.Context.Registry.Len())
	}
}

func TestNewSession_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.World.Restitution = 3

	if _, err := NewSession(cfg, nil, log.New(io.Discard)); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config.ErrInvalid, got %v", err)
	}
}
