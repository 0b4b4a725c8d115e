package simulation

import (
	"fmt"
	"math"

	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const BodyMass = 1.0

// Size is the full size of a cube along X, Y and Z
type Size struct {
	Width  float64
	Height float64
	Depth  float64
}

func (s Size) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{s.Width, s.Height, s.Depth}
}

// Factory creates a body and its mesh, and registers both.
// Nothing is registered when the arguments are invalid.
type Factory struct {
	ctx *Context
}

func NewFactory(ctx *Context) *Factory {
	return &Factory{ctx: ctx}
}

func (f *Factory) CreateSphere(radius float64, position mgl64.Vec3) (Pair, error) {
	if !positiveFinite(radius) {
		return Pair{}, fmt.Errorf("%w: sphere radius %v must be positive and finite", ErrInvalidShape, radius)
	}
	if err := validatePosition(position); err != nil {
		return Pair{}, err
	}

	f.ctx.mu.Lock()
	defer f.ctx.mu.Unlock()

	body := actor.NewRigidBody(actor.NewTransformAt(position, mgl64.QuatIdent()), &actor.Sphere{Radius: radius}, BodyMass)

	mesh := scene.NewMesh(f.ctx.Resources.SphereGeometry, f.ctx.Resources.BodyMaterial)
	mesh.Scale = mgl64.Vec3{radius, radius, radius}

	pair, err := f.register(body, mesh)
	if err != nil {
		return Pair{}, err
	}

	f.ctx.Logger.Debug("sphere created", "radius", radius, "position", position, "pairs", f.ctx.Registry.Len())
	return pair, nil
}

func (f *Factory) CreateCube(size Size, position mgl64.Vec3) (Pair, error) {
	if !positiveFinite(size.Width) || !positiveFinite(size.Height) || !positiveFinite(size.Depth) {
		return Pair{}, fmt.Errorf("%w: cube size %+v must be positive and finite", ErrInvalidShape, size)
	}
	if err := validatePosition(position); err != nil {
		return Pair{}, err
	}

	f.ctx.mu.Lock()
	defer f.ctx.mu.Unlock()

	body := actor.NewRigidBody(actor.NewTransformAt(position, mgl64.QuatIdent()), &actor.Box{HalfExtents: size.Vec3().Mul(0.5)}, BodyMass)

	mesh := scene.NewMesh(f.ctx.Resources.BoxGeometry, f.ctx.Resources.BodyMaterial)
	mesh.Scale = size.Vec3()

	pair, err := f.register(body, mesh)
	if err != nil {
		return Pair{}, err
	}

	f.ctx.Logger.Debug("cube created", "size", size.Vec3(), "position", position, "pairs", f.ctx.Registry.Len())
	return pair, nil
}

// register adds the body first: if the world refuses it, the scene and the
// registry are left untouched
func (f *Factory) register(body *actor.RigidBody, mesh *scene.Mesh) (Pair, error) {
	mesh.Position = body.Transform.Position
	mesh.Quaternion = body.Transform.Rotation
	mesh.CastShadow = true

	if err := f.ctx.World.AddBody(body); err != nil {
		return Pair{}, err
	}
	f.ctx.Scene.Add(mesh)

	pair := Pair{Body: body, Mesh: mesh}
	f.ctx.Registry.Append(pair)

	return pair, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func validatePosition(position mgl64.Vec3) error {
	for _, p := range position {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: %v has a non-finite component", ErrInvalidPosition, position)
		}
	}

	return nil
}
