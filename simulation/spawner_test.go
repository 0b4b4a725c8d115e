package simulation

import (
	"testing"

	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/config"
)

func testSpawnConfig(seed uint64) config.SpawnConfig {
	cfg := config.DefaultConfig().Spawn
	cfg.Seed = seed
	return cfg
}

func TestSpawner_SphereBounds(t *testing.T) {
	env := newTestEnv(t)
	spawner := NewSpawner(env.factory, testSpawnConfig(7))

	for i := 0; i < 200; i++ {
		pair, err := spawner.SpawnRandomSphere()
		if err != nil {
			t.Fatalf("spawn %d: %v", i, err)
		}

		radius := pair.Body.Shape.(*actor.Sphere).Radius
		if radius <= 0 || radius > 0.5 {
			t.Errorf("radius %v out of (0, 0.5]", radius)
		}

		p := pair.Body.Transform.Position
		if p.X() < -1.5 || p.X() > 1.5 || p.Z() < -1.5 || p.Z() > 1.5 {
			t.Errorf("position %v outside the spawn square", p)
		}
		if p.Y() != 3 {
			t.Errorf("spawn height %v, want 3", p.Y())
		}
	}

	if env.ctx.Registry.Len() != 200 {
		t.Errorf("expected 200 pairs, got %d", env.ctx.Registry.Len())
	}
}

func TestSpawner_CubeBounds(t *testing.T) {
	env := newTestEnv(t)
	spawner := NewSpawner(env.factory, testSpawnConfig(11))

	for i := 0; i < 200; i++ {
		pair, err := spawner.SpawnRandomCube()
		if err != nil {
			t.Fatalf("spawn %d: %v", i, err)
		}

		half := pair.Body.Shape.(*actor.Box).HalfExtents
		for axis := 0; axis < 3; axis++ {
			if half[axis] <= 0 || half[axis] > 0.5 {
				t.Errorf("size %v out of (0, 1]", half.Mul(2))
			}
		}
		if pair.Mesh.Scale.Sub(half.Mul(2)).Len() > 1e-12 {
			t.Errorf("mesh scale %v does not match the body size", pair.Mesh.Scale)
		}
	}
}

func TestSpawner_SameSeedSameBodies(t *testing.T) {
	a := NewSpawner(newTestEnv(t).factory, testSpawnConfig(42))
	b := NewSpawner(newTestEnv(t).factory, testSpawnConfig(42))

	for i := 0; i < 10; i++ {
		pa, _ := a.SpawnRandomCube()
		pb, _ := b.SpawnRandomCube()

		if pa.Body.Transform.Position != pb.Body.Transform.Position || pa.Mesh.Scale != pb.Mesh.Scale {
			t.Fatalf("spawn %d differs with the same seed", i)
		}
	}
}

func TestSpawner_CustomBounds(t *testing.T) {
	env := newTestEnv(t)
	cfg := testSpawnConfig(3)
	cfg.HalfExtent = 0
	cfg.Height = 8
	cfg.MaxSphereRadius = 0.1
	spawner := NewSpawner(env.factory, cfg)

	pair, err := spawner.SpawnRandomSphere()
	if err != nil {
		t.Fatal(err)
	}

	p := pair.Body.Transform.Position
	if p.X() != 0 || p.Y() != 8 || p.Z() != 0 {
		t.Errorf("position %v, want (0, 8, 0)", p)
	}
	if r := pair.Body.Shape.(*actor.Sphere).Radius; r > 0.1 {
		t.Errorf("radius %v above the configured maximum", r)
	}
}
