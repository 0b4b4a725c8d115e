package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/akmonengine/tumble/simulation"
	"github.com/guptarohit/asciigraph"
)

var errInvalidRun = errors.New("run: invalid options")

type headlessOptions struct {
	Duration float64 // simulated seconds
	Delta    float64 // fixed frame delta
	Spheres  int
	Cubes    int
	Graph    bool
}

// runHeadless advances the session at a fixed delta, printing one telemetry
// row per simulated second
func runHeadless(out io.Writer, session *simulation.Session, opts headlessOptions) error {
	if !(opts.Delta > 0) || !(opts.Duration > 0) || opts.Spheres < 0 || opts.Cubes < 0 {
		return fmt.Errorf("%w: duration %v, dt %v", errInvalidRun, opts.Duration, opts.Delta)
	}

	for i := 0; i < opts.Spheres; i++ {
		if _, err := session.Spawner.SpawnRandomSphere(); err != nil {
			return err
		}
	}
	for i := 0; i < opts.Cubes; i++ {
		if _, err := session.Spawner.SpawnRandomCube(); err != nil {
			return err
		}
	}

	frames := int(math.Ceil(opts.Duration/opts.Delta - 1e-9))
	framesPerRow := max(1, int(math.Round(1/opts.Delta)))
	telemetry := simulation.NewTelemetry(frames + 1)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tFRAME\tBODIES\tSLEEPING\tENERGY\tMEAN HEIGHT\tLOWEST")

	writeRow := func(snapshot simulation.Snapshot) {
		fmt.Fprintf(w, "%.2fs\t%d\t%d\t%d\t%.4f\t%.4f\t%.4f\n",
			float64(snapshot.Frame)*opts.Delta,
			snapshot.Frame,
			snapshot.Bodies,
			snapshot.Sleeping,
			snapshot.KineticEnergy,
			snapshot.MeanHeight,
			snapshot.LowestPoint,
		)
	}

	initial := session.Context.Measure(session.Loop.Frame())
	telemetry.Record(initial)
	writeRow(initial)

	for frame := 1; frame <= frames; frame++ {
		session.Loop.AdvanceBy(opts.Delta)
		snapshot := session.Context.Measure(session.Loop.Frame())
		telemetry.Record(snapshot)

		if frame%framesPerRow == 0 || frame == frames {
			writeRow(snapshot)
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if opts.Graph {
		heights := telemetry.Heights()
		if len(heights) >= 2 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, asciigraph.Plot(heights,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption("mean height (m)"),
			))
		}
	}

	return nil
}
