// Package scene is the render side of the simulation: a flat scene graph of
// meshes and lights, with geometries and materials shared by pointer between
// meshes. Presenters read it, the simulation only writes mesh poses.
package scene

// Object is anything that can be added to a Scene
type Object interface {
	object()
}

type Scene struct {
	objects []Object
}

func New() *Scene {
	return &Scene{objects: make([]Object, 0, 16)}
}

// Add appends an object. Objects are never removed.
func (s *Scene) Add(obj Object) {
	if obj == nil {
		return
	}
	s.objects = append(s.objects, obj)
}

func (s *Scene) Len() int {
	return len(s.objects)
}

// Meshes returns the meshes in insertion order
func (s *Scene) Meshes() []*Mesh {
	meshes := make([]*Mesh, 0, len(s.objects))
	for _, obj := range s.objects {
		if mesh, ok := obj.(*Mesh); ok {
			meshes = append(meshes, mesh)
		}
	}

	return meshes
}

func (s *Scene) AmbientLights() []*AmbientLight {
	lights := make([]*AmbientLight, 0, 1)
	for _, obj := range s.objects {
		if light, ok := obj.(*AmbientLight); ok {
			lights = append(lights, light)
		}
	}

	return lights
}

func (s *Scene) DirectionalLights() []*DirectionalLight {
	lights := make([]*DirectionalLight, 0, 1)
	for _, obj := range s.objects {
		if light, ok := obj.(*DirectionalLight); ok {
			lights = append(lights, light)
		}
	}

	return lights
}
