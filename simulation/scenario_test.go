package simulation_test

import (
	"io"
	"math"
	"sync"

	"github.com/akmonengine/tumble/config"
	"github.com/akmonengine/tumble/simulation"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const frame = 1.0 / 60

func newEmptySession() *simulation.Session {
	cfg := config.GetPreset("empty")
	cfg.Spawn.Seed = 1

	session, err := simulation.NewSession(cfg, nil, log.New(io.Discard))
	Expect(err).NotTo(HaveOccurred())

	return session
}

func advance(session *simulation.Session, seconds float64) {
	for range int(seconds * 60) {
		session.Loop.AdvanceBy(frame)
	}
}

var _ = Describe("Sync loop", func() {
	var session *simulation.Session

	BeforeEach(func() {
		session = newEmptySession()
	})

	Context("with a single sphere dropped from 3m", func() {
		var pair simulation.Pair

		BeforeEach(func() {
			var err error
			pair, err = session.Factory.CreateSphere(0.5, mgl64.Vec3{0, 3, 0})
			Expect(err).NotTo(HaveOccurred())
		})

		It("comes to rest on the ground without going through it", func() {
			for range 5 * 60 {
				session.Loop.AdvanceBy(frame)
				Expect(pair.Mesh.Position.Y()).To(BeNumerically(">=", 0))
			}

			Expect(pair.Mesh.Position.Y()).To(BeNumerically("~", 0.5, 0.05))
		})

		It("keeps the mesh on its body at every frame", func() {
			for range 120 {
				session.Loop.AdvanceBy(frame)
				Expect(pair.Mesh.Position).To(Equal(pair.Body.Transform.Position))
				Expect(pair.Mesh.Quaternion).To(Equal(pair.Body.Transform.Rotation))
			}
		})

		It("does not move when the elapsed time is zero", func() {
			advance(session, 0.5)
			before := pair.Body.Transform

			for range 50 {
				session.Loop.AdvanceBy(0)
			}

			Expect(pair.Body.Transform).To(Equal(before))
		})
	})

	Context("with two spheres above each other", func() {
		It("stacks them without interpenetration", func() {
			bottom, err := session.Factory.CreateSphere(0.5, mgl64.Vec3{0, 1, 0})
			Expect(err).NotTo(HaveOccurred())
			top, err := session.Factory.CreateSphere(0.5, mgl64.Vec3{0, 2.5, 0})
			Expect(err).NotTo(HaveOccurred())

			advance(session, 10)

			separation := top.Body.Transform.Position.Sub(bottom.Body.Transform.Position).Len()
			Expect(separation).To(BeNumerically(">=", 1.0-0.02))
			Expect(bottom.Body.Transform.Position.Y()).To(BeNumerically("~", 0.5, 0.05))
		})
	})

	Context("while bodies keep spawning", func() {
		It("never moves the ground", func() {
			ground := session.Context.World.Ground()
			before := ground.Transform

			for i := 0; i < 30; i++ {
				if i%2 == 0 {
					_, err := session.Spawner.SpawnRandomSphere()
					Expect(err).NotTo(HaveOccurred())
				} else {
					_, err := session.Spawner.SpawnRandomCube()
					Expect(err).NotTo(HaveOccurred())
				}
				advance(session, 0.1)
			}

			Expect(ground.Transform).To(Equal(before))
		})

		It("only ever grows the registry, in creation order", func() {
			var created []simulation.Pair
			previous := session.Context.Registry.Len()

			for i := 0; i < 20; i++ {
				pair, err := session.Spawner.SpawnRandomSphere()
				Expect(err).NotTo(HaveOccurred())
				created = append(created, pair)
				session.Loop.AdvanceBy(frame)

				Expect(session.Context.Registry.Len()).To(BeNumerically(">", previous))
				previous = session.Context.Registry.Len()
			}

			var seen []simulation.Pair
			session.Context.Registry.ForEach(func(pair simulation.Pair) {
				seen = append(seen, pair)
			})
			Expect(seen).To(Equal(created))
		})

		It("accepts spawns from another goroutine", func() {
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				for i := 0; i < 25; i++ {
					_, err := session.Spawner.SpawnRandomCube()
					Expect(err).NotTo(HaveOccurred())
				}
			}()

			for range 60 {
				session.Loop.AdvanceBy(frame)
			}
			wg.Wait()
			session.Loop.AdvanceBy(frame)

			Expect(session.Context.Registry.Len()).To(Equal(25))
			session.Context.Registry.ForEach(func(pair simulation.Pair) {
				Expect(pair.Mesh.Position).To(Equal(pair.Body.Transform.Position))
			})
		})
	})

	Context("with invalid requests", func() {
		It("rejects them and registers nothing", func() {
			_, err := session.Factory.CreateSphere(-1, mgl64.Vec3{0, 3, 0})
			Expect(err).To(MatchError(simulation.ErrInvalidShape))

			_, err = session.Factory.CreateCube(simulation.Size{Width: 1, Height: 1, Depth: 1}, mgl64.Vec3{math.NaN(), 3, 0})
			Expect(err).To(MatchError(simulation.ErrInvalidPosition))

			Expect(session.Context.Registry.Len()).To(BeZero())
			Expect(session.Context.World.Bodies()).To(HaveLen(1))
		})
	})
})

var _ = Describe("Telemetry", func() {
	It("sees the energy vanish once bodies settle", func() {
		session := newEmptySession()
		_, err := session.Factory.CreateSphere(0.5, mgl64.Vec3{0, 3, 0})
		Expect(err).NotTo(HaveOccurred())

		telemetry := simulation.NewTelemetry(600)
		peak := 0.0
		for range 6 * 60 {
			session.Loop.AdvanceBy(frame)
			snapshot := session.Context.Measure(session.Loop.Frame())
			telemetry.Record(snapshot)
			peak = max(peak, snapshot.KineticEnergy)
		}

		Expect(peak).To(BeNumerically(">", 10))
		Expect(telemetry.Last().KineticEnergy).To(BeNumerically("<", 0.01))
		Expect(telemetry.Last().LowestPoint).To(BeNumerically("~", 0, 0.05))
	})
})
