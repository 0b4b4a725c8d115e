package simulation

import (
	"math/rand/v2"
	"sync"

	"github.com/akmonengine/tumble/config"
	"github.com/go-gl/mathgl/mgl64"
)

// Spawner creates bodies with random dimensions above the ground
type Spawner struct {
	factory *Factory
	cfg     config.SpawnConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSpawner seeds its generator from cfg.Seed, or randomly when it is 0
func NewSpawner(factory *Factory, cfg config.SpawnConfig) *Spawner {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &Spawner{
		factory: factory,
		cfg:     cfg,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// SpawnRandomSphere creates a sphere with a radius in (0, MaxSphereRadius]
func (s *Spawner) SpawnRandomSphere() (Pair, error) {
	s.mu.Lock()
	radius := s.unit() * s.cfg.MaxSphereRadius
	position := s.position()
	s.mu.Unlock()

	return s.factory.CreateSphere(radius, position)
}

// SpawnRandomCube creates a cube with each dimension in (0, MaxCubeSize]
func (s *Spawner) SpawnRandomCube() (Pair, error) {
	s.mu.Lock()
	size := Size{
		Width:  s.unit() * s.cfg.MaxCubeSize,
		Height: s.unit() * s.cfg.MaxCubeSize,
		Depth:  s.unit() * s.cfg.MaxCubeSize,
	}
	position := s.position()
	s.mu.Unlock()

	return s.factory.CreateCube(size, position)
}

// unit returns a value in (0, 1], a zero sized body would be rejected
func (s *Spawner) unit() float64 {
	return 1 - s.rng.Float64()
}

func (s *Spawner) position() mgl64.Vec3 {
	return mgl64.Vec3{
		(s.rng.Float64() - 0.5) * 2 * s.cfg.HalfExtent,
		s.cfg.Height,
		(s.rng.Float64() - 0.5) * 2 * s.cfg.HalfExtent,
	}
}
