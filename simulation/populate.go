package simulation

import (
	"fmt"

	"github.com/akmonengine/tumble/config"
	"github.com/go-gl/mathgl/mgl64"
)

// Populate creates the bodies described by specs, in order.
// It stops at the first invalid body, the bodies created before it are kept.
func Populate(factory *Factory, specs []config.BodySpec) ([]Pair, error) {
	pairs := make([]Pair, 0, len(specs))

	for i, spec := range specs {
		position := mgl64.Vec3(spec.Position)

		var pair Pair
		var err error
		switch spec.Shape {
		case config.ShapeSphere:
			pair, err = factory.CreateSphere(spec.Radius, position)
		case config.ShapeCube:
			pair, err = factory.CreateCube(Size{Width: spec.Size[0], Height: spec.Size[1], Depth: spec.Size[2]}, position)
		default:
			err = fmt.Errorf("%w: unknown shape %q", ErrInvalidShape, spec.Shape)
		}
		if err != nil {
			return pairs, fmt.Errorf("body %d: %w", i, err)
		}

		pairs = append(pairs, pair)
	}

	return pairs, nil
}
