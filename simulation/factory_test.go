package simulation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/akmonengine/tumble"
	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/scene"
	"github.com/go-gl/mathgl/mgl64"
)

func TestFactory_CreateSphere(t *testing.T) {
	env := newTestEnv(t)
	position := mgl64.Vec3{0.5, 3, -1}

	pair, err := env.factory.CreateSphere(0.5, position)
	if err != nil {
		t.Fatalf("CreateSphere: %v", err)
	}

	sphere, ok := pair.Body.Shape.(*actor.Sphere)
	if !ok || sphere.Radius != 0.5 {
		t.Fatalf("expected a sphere of radius 0.5, got %#v", pair.Body.Shape)
	}
	if pair.Body.Mass() != BodyMass || pair.Body.IsStatic() {
		t.Errorf("expected a dynamic body of mass %v", BodyMass)
	}
	if pair.Body.Transform.Position != position || pair.Mesh.Position != position {
		t.Error("body and mesh should start at the requested position")
	}
	if pair.Mesh.Scale != (mgl64.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("mesh scale = %v", pair.Mesh.Scale)
	}
	if pair.Mesh.Geometry != env.ctx.Resources.SphereGeometry || pair.Mesh.Material != env.ctx.Resources.BodyMaterial {
		t.Error("mesh should use the shared sphere geometry and material")
	}
	if !pair.Mesh.CastShadow {
		t.Error("body meshes cast shadows")
	}

	bodies := env.ctx.World.Bodies()
	if len(bodies) != 2 || bodies[1] != pair.Body {
		t.Error("body not added to the world")
	}
	if env.scene.Len() != 1 || env.scene.Meshes()[0] != pair.Mesh {
		t.Error("mesh not added to the scene")
	}
	if env.ctx.Registry.Len() != 1 || env.pairs()[0] != pair {
		t.Error("pair not registered")
	}
	if !strings.Contains(env.logs.String(), "sphere created") {
		t.Errorf("expected a debug log, got %q", env.logs.String())
	}
}

func TestFactory_CreateCube(t *testing.T) {
	env := newTestEnv(t)
	size := Size{Width: 0.5, Height: 0.7, Depth: 0.3}

	pair, err := env.factory.CreateCube(size, mgl64.Vec3{0, 3, 1})
	if err != nil {
		t.Fatalf("CreateCube: %v", err)
	}

	box, ok := pair.Body.Shape.(*actor.Box)
	if !ok {
		t.Fatalf("expected a box, got %#v", pair.Body.Shape)
	}
	if box.HalfExtents.Sub(mgl64.Vec3{0.25, 0.35, 0.15}).Len() > 1e-12 {
		t.Errorf("half extents = %v", box.HalfExtents)
	}
	if pair.Mesh.Scale != (mgl64.Vec3{0.5, 0.7, 0.3}) {
		t.Errorf("mesh scale = %v", pair.Mesh.Scale)
	}
	if pair.Mesh.Geometry != env.ctx.Resources.BoxGeometry {
		t.Error("mesh should use the shared box geometry")
	}
}

func TestFactory_SharedResources(t *testing.T) {
	env := newTestEnv(t)

	a, _ := env.factory.CreateSphere(0.2, mgl64.Vec3{0, 1, 0})
	b, _ := env.factory.CreateSphere(0.4, mgl64.Vec3{1, 1, 0})
	c, _ := env.factory.CreateCube(Size{1, 1, 1}, mgl64.Vec3{2, 1, 0})

	if a.Mesh.Geometry != b.Mesh.Geometry {
		t.Error("spheres should share one geometry")
	}
	if a.Mesh.Material != c.Mesh.Material {
		t.Error("all bodies should share one material")
	}
	if a.Mesh == b.Mesh {
		t.Error("each pair needs its own mesh")
	}
}

func TestFactory_InvalidArgumentsRegisterNothing(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	valid := mgl64.Vec3{0, 3, 0}

	tests := []struct {
		name   string
		create func(f *Factory) (Pair, error)
		want   error
	}{
		{"negative radius", func(f *Factory) (Pair, error) { return f.CreateSphere(-1, valid) }, ErrInvalidShape},
		{"zero radius", func(f *Factory) (Pair, error) { return f.CreateSphere(0, valid) }, ErrInvalidShape},
		{"NaN radius", func(f *Factory) (Pair, error) { return f.CreateSphere(nan, valid) }, ErrInvalidShape},
		{"infinite radius", func(f *Factory) (Pair, error) { return f.CreateSphere(inf, valid) }, ErrInvalidShape},
		{"NaN sphere position", func(f *Factory) (Pair, error) { return f.CreateSphere(0.5, mgl64.Vec3{nan, 3, 0}) }, ErrInvalidPosition},
		{"infinite sphere position", func(f *Factory) (Pair, error) { return f.CreateSphere(0.5, mgl64.Vec3{0, -inf, 0}) }, ErrInvalidPosition},
		{"zero width", func(f *Factory) (Pair, error) { return f.CreateCube(Size{0, 1, 1}, valid) }, ErrInvalidShape},
		{"negative depth", func(f *Factory) (Pair, error) { return f.CreateCube(Size{1, 1, -1}, valid) }, ErrInvalidShape},
		{"NaN height", func(f *Factory) (Pair, error) { return f.CreateCube(Size{1, nan, 1}, valid) }, ErrInvalidShape},
		{"NaN cube position", func(f *Factory) (Pair, error) { return f.CreateCube(Size{1, 1, 1}, mgl64.Vec3{0, 0, nan}) }, ErrInvalidPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			pair, err := tt.create(env.factory)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if pair != (Pair{}) {
				t.Error("a failed creation should return the zero Pair")
			}
			if len(env.ctx.World.Bodies()) != 1 || env.scene.Len() != 0 || env.ctx.Registry.Len() != 0 {
				t.Error("nothing should be registered on error")
			}
		})
	}
}

func TestFactory_DefaultSceneGraph(t *testing.T) {
	world, err := tumble.NewWorld(mgl64.Vec3{0, -9.82, 0}, 0.1, 0.7)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	ctx := NewContext(world, nil, nil, nil)

	if _, err := NewFactory(ctx).CreateSphere(0.5, mgl64.Vec3{0, 3, 0}); err != nil {
		t.Fatalf("CreateSphere: %v", err)
	}

	graph, ok := ctx.Scene.(*scene.Scene)
	if !ok {
		t.Fatalf("default scene graph is %T", ctx.Scene)
	}
	if graph.Len() != 1 || ctx.Registry.Len() != 1 {
		t.Errorf("scene has %d objects, registry %d pairs, want 1 and 1", graph.Len(), ctx.Registry.Len())
	}
}
