package simulation

import (
	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/scene"
)

// Pair links a simulated body to the mesh that displays it
type Pair struct {
	Body *actor.RigidBody
	Mesh *scene.Mesh
}

// Registry is the append-only list of pairs, in creation order
type Registry struct {
	pairs []Pair
}

func NewRegistry() *Registry {
	return &Registry{pairs: make([]Pair, 0, 16)}
}

func (r *Registry) Append(pair Pair) {
	r.pairs = append(r.pairs, pair)
}

func (r *Registry) ForEach(fn func(pair Pair)) {
	for _, pair := range r.pairs {
		fn(pair)
	}
}

func (r *Registry) Len() int {
	return len(r.pairs)
}
