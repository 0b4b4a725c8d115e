package tui

import (
	"math"
	"strings"

	"github.com/akmonengine/tumble/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// terminal cells are about twice as tall as they are wide
const (
	cellAspect   = 2.0
	segmentReach = 4
	maxProjected = 1e6
)

type canvas struct {
	width  int
	height int
	cells  [][]rune
}

func newCanvas(width, height int) *canvas {
	width = max(1, width)
	height = max(1, height)

	cells := make([][]rune, height)
	for i := range cells {
		cells[i] = make([]rune, width)
	}

	c := &canvas{width: width, height: height, cells: cells}
	c.clear()

	return c
}

func (c *canvas) clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
}

func (c *canvas) set(x, y int, r rune) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		c.cells[y][x] = r
	}
}

func (c *canvas) get(x, y int) rune {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		return c.cells[y][x]
	}
	return ' '
}

// line draws a segment with Bresenham's algorithm
func (c *canvas) line(x0, y0, x1, y1 int, r rune) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		c.set(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) String() string {
	var sb strings.Builder
	for y, row := range c.cells {
		sb.WriteString(string(row))
		if y < c.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// projector maps world points onto the canvas through the orbit camera
type projector struct {
	camera *scene.OrbitCamera
	canvas *canvas
}

func (p projector) project(point mgl64.Vec3) (int, int, bool) {
	x, y, ok := p.camera.Project(point, p.canvas.width, int(float64(p.canvas.height)*cellAspect))
	if !ok || math.Abs(x) > maxProjected || math.Abs(y) > maxProjected {
		return 0, 0, false
	}
	return int(math.Round(x)), int(math.Round(y / cellAspect)), true
}

func (p projector) segment(a, b mgl64.Vec3, r rune) {
	x0, y0, okA := p.project(a)
	x1, y1, okB := p.project(b)
	if !okA || !okB || !p.near(x0, y0) || !p.near(x1, y1) {
		return
	}
	p.canvas.line(x0, y0, x1, y1, r)
}

// near rejects points projected far outside the canvas, close to the camera plane
func (p projector) near(x, y int) bool {
	return abs(x) <= segmentReach*p.canvas.width && abs(y) <= segmentReach*p.canvas.height
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// drawMesh draws the wireframe of a mesh. Spheres are drawn as their
// silhouette ring, boxes as their twelve edges.
func (p projector) drawMesh(mesh *scene.Mesh, r rune) {
	matrix := mesh.Matrix()
	transform := func(local mgl64.Vec3) mgl64.Vec3 {
		return matrix.Mul4x1(local.Vec4(1)).Vec3()
	}

	switch mesh.Geometry.Kind {
	case scene.GeometryBox:
		half := mgl64.Vec3{mesh.Geometry.Width / 2, mesh.Geometry.Height / 2, mesh.Geometry.Depth / 2}
		var corners [8]mgl64.Vec3
		for i := range corners {
			local := half
			if i&1 == 0 {
				local[0] = -local[0]
			}
			if i&2 == 0 {
				local[1] = -local[1]
			}
			if i&4 == 0 {
				local[2] = -local[2]
			}
			corners[i] = transform(local)
		}
		for _, edge := range boxEdges {
			p.segment(corners[edge[0]], corners[edge[1]], r)
		}

	case scene.GeometrySphere:
		radius := mesh.Geometry.Radius * mesh.Scale.X()
		p.ring(mesh.Position, radius, max(12, mesh.Geometry.WidthSegments), r)
		p.set(mesh.Position, '+')

	case scene.GeometryPlane:
		hw, hh := mesh.Geometry.Width/2, mesh.Geometry.Height/2
		corners := [4]mgl64.Vec3{
			transform(mgl64.Vec3{-hw, -hh, 0}),
			transform(mgl64.Vec3{hw, -hh, 0}),
			transform(mgl64.Vec3{hw, hh, 0}),
			transform(mgl64.Vec3{-hw, hh, 0}),
		}
		for i := range corners {
			p.segment(corners[i], corners[(i+1)%4], r)
		}
	}
}

// ring draws a circle facing the camera
func (p projector) ring(center mgl64.Vec3, radius float64, segments int, r rune) {
	forward := p.camera.Target.Sub(p.camera.Position()).Normalize()
	right := forward.Cross(mgl64.Vec3{0, 1, 0})
	if right.Len() < 1e-9 {
		right = mgl64.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up := right.Cross(forward).Normalize()

	point := func(i int) mgl64.Vec3 {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		return center.Add(right.Mul(radius * math.Cos(angle))).Add(up.Mul(radius * math.Sin(angle)))
	}
	for i := 0; i < segments; i++ {
		p.segment(point(i), point(i+1), r)
	}
}

func (p projector) set(point mgl64.Vec3, r rune) {
	if x, y, ok := p.project(point); ok {
		p.canvas.set(x, y, r)
	}
}
