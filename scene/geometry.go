package scene

type GeometryKind uint8

const (
	GeometrySphere GeometryKind = iota
	GeometryBox
	GeometryPlane
)

func (k GeometryKind) String() string {
	switch k {
	case GeometrySphere:
		return "sphere"
	case GeometryBox:
		return "box"
	case GeometryPlane:
		return "plane"
	default:
		return "unknown"
	}
}

// Geometry describes the shape of a mesh before scaling.
// Only the fields matching Kind are meaningful.
type Geometry struct {
	Kind GeometryKind

	Radius         float64
	WidthSegments  int
	HeightSegments int

	Width  float64
	Height float64
	Depth  float64
}

func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *Geometry {
	return &Geometry{
		Kind:           GeometrySphere,
		Radius:         radius,
		WidthSegments:  max(3, widthSegments),
		HeightSegments: max(2, heightSegments),
	}
}

func NewBoxGeometry(width, height, depth float64) *Geometry {
	return &Geometry{
		Kind:   GeometryBox,
		Width:  width,
		Height: height,
		Depth:  depth,
	}
}

// NewPlaneGeometry creates a plane in the local XY plane, facing +Z
func NewPlaneGeometry(width, height float64) *Geometry {
	return &Geometry{
		Kind:           GeometryPlane,
		Width:          width,
		Height:         height,
		WidthSegments:  1,
		HeightSegments: 1,
	}
}
