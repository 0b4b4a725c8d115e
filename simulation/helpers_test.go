package simulation

import (
	"bytes"
	"testing"

	"github.com/akmonengine/tumble"
	"github.com/akmonengine/tumble/scene"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

type testEnv struct {
	ctx     *Context
	scene   *scene.Scene
	factory *Factory
	logs    *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	world, err := tumble.NewWorld(mgl64.Vec3{0, -9.82, 0}, 0.1, 0.7)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}

	logs := &bytes.Buffer{}
	logger := log.NewWithOptions(logs, log.Options{Level: log.DebugLevel})
	graph := scene.New()
	ctx := NewContext(world, graph, nil, logger)

	return &testEnv{
		ctx:     ctx,
		scene:   graph,
		factory: NewFactory(ctx),
		logs:    logs,
	}
}

func (e *testEnv) pairs() []Pair {
	pairs := make([]Pair, 0, e.ctx.Registry.Len())
	e.ctx.Registry.ForEach(func(pair Pair) {
		pairs = append(pairs, pair)
	})

	return pairs
}
