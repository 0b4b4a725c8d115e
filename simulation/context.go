package simulation

import (
	"os"
	"sync"

	"github.com/akmonengine/tumble"
	"github.com/akmonengine/tumble/scene"
	"github.com/charmbracelet/log"
)

// SceneGraph is the render side boundary, satisfied by *scene.Scene
type SceneGraph interface {
	Add(obj scene.Object)
}

// Context gathers what the factory, the loop and the spawner share.
// Creating bodies and advancing the loop are serialized on the same lock.
type Context struct {
	World     *tumble.World
	Registry  *Registry
	Scene     SceneGraph
	Resources *scene.Resources
	Logger    *log.Logger

	mu sync.Mutex
}

// NewContext creates a context with an empty registry. A nil graph, resources
// or logger is replaced by a default.
func NewContext(world *tumble.World, graph SceneGraph, resources *scene.Resources, logger *log.Logger) *Context {
	if graph == nil {
		graph = scene.New()
	}
	if resources == nil {
		resources = scene.NewResources()
	}
	if logger == nil {
		logger = DefaultLogger()
	}

	return &Context{
		World:     world,
		Registry:  NewRegistry(),
		Scene:     graph,
		Resources: resources,
		Logger:    logger,
	}
}

// DefaultLogger writes warnings and errors to stderr
func DefaultLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  log.WarnLevel,
		Prefix: "tumble",
	})
}

// Lock lets a presenter read poses without racing the loop
func (c *Context) Lock() {
	c.mu.Lock()
}

func (c *Context) Unlock() {
	c.mu.Unlock()
}
