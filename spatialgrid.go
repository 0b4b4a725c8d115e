package tumble

import (
	"math"
	"sort"

	"github.com/akmonengine/tumble/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================================
// Types
// ============================================================================

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the bodies overlapping it
type Cell struct {
	bodyIndices []int
}

// Pair is a couple of bodies that may be colliding
type Pair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// SpatialGrid is a uniform hashed grid used by the broad phase.
// Unbounded shapes (planes) never enter the cells; they are kept aside and
// paired with every other candidate body.
type SpatialGrid struct {
	// bodies are inflated by the distance they travel in Lookahead seconds,
	// so fast bodies are paired before they reach each other
	Lookahead float64

	cellSize float64
	cells    []Cell
	cellMask int
	planes   Cell
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid creates a grid with numCells buckets, rounded up to a power of two
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
		planes:   Cell{bodyIndices: make([]int, 0, 1)},
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert adds a body to every cell its AABB covers
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.RigidBody) {
	if !body.Shape.Bounded() {
		sg.planes.bodyIndices = append(sg.planes.bodyIndices, bodyIndex)
		return
	}

	aabb := sg.bounds(body)
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})
				sg.cells[cellIdx].bodyIndices = append(sg.cells[cellIdx].bodyIndices, bodyIndex)
			}
		}
	}
}

// bounds returns the body AABB grown by its travel over Lookahead
func (sg *SpatialGrid) bounds(body *actor.RigidBody) actor.AABB {
	aabb := body.Shape.GetAABB()
	if sg.Lookahead <= 0 || body.IsStatic() || body.IsSleeping {
		return aabb
	}

	return aabb.Expand(body.Velocity.Len() * sg.Lookahead)
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
	sg.planes.bodyIndices = sg.planes.bodyIndices[:0]
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
}

// FindPairs returns the candidate pairs in a deterministic order: grid pairs
// sorted by the index of their first body, then plane pairs.
// The bodies are split in chunks processed by workersCount goroutines.
func (sg *SpatialGrid) FindPairs(bodies []*actor.RigidBody, workersCount int) []Pair {
	workersCount = max(1, workersCount)
	chunkSize := max(1, (len(bodies)+workersCount-1)/workersCount)

	chunks := make([][]int, 0, workersCount)
	for start := 0; start < len(bodies); start += chunkSize {
		chunk := make([]int, 0, chunkSize)
		for i := start; i < min(start+chunkSize, len(bodies)); i++ {
			chunk = append(chunk, i)
		}
		chunks = append(chunks, chunk)
	}

	results := make([][]Pair, len(chunks))
	chunkIndices := make([]int, len(chunks))
	for i := range chunkIndices {
		chunkIndices[i] = i
	}

	task(workersCount, chunkIndices, func(c int) {
		seen := make([]bool, len(bodies))
		pairs := make([]Pair, 0, len(chunks[c]))
		for _, bodyIdx := range chunks[c] {
			pairs = sg.appendCellPairs(pairs, bodies, bodyIdx, seen)
		}
		results[c] = pairs
	})

	pairs := make([]Pair, 0, len(bodies))
	for _, chunkPairs := range results {
		pairs = append(pairs, chunkPairs...)
	}

	return sg.appendPlanePairs(pairs, bodies)
}

func (sg *SpatialGrid) appendCellPairs(pairs []Pair, bodies []*actor.RigidBody, bodyIdx int, seen []bool) []Pair {
	bodyA := bodies[bodyIdx]
	if !bodyA.Shape.Bounded() {
		return pairs
	}
	clear(seen)

	aabbA := sg.bounds(bodyA)
	minCell := sg.worldToCell(aabbA.Min)
	maxCell := sg.worldToCell(aabbA.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})

				for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
					// (A,B) only once, with A the lowest index
					if otherIdx <= bodyIdx || seen[otherIdx] {
						continue
					}
					seen[otherIdx] = true

					bodyB := bodies[otherIdx]
					if !canCollide(bodyA, bodyB) {
						continue
					}
					if aabbA.Overlaps(sg.bounds(bodyB)) {
						pairs = append(pairs, Pair{BodyA: bodyA, BodyB: bodyB})
					}
				}
			}
		}
	}

	return pairs
}

func (sg *SpatialGrid) appendPlanePairs(pairs []Pair, bodies []*actor.RigidBody) []Pair {
	for _, planeIdx := range sg.planes.bodyIndices {
		plane := bodies[planeIdx]

		for i, body := range bodies {
			if i == planeIdx || !body.Shape.Bounded() {
				continue
			}
			if canCollide(plane, body) {
				pairs = append(pairs, Pair{BodyA: plane, BodyB: body})
			}
		}
	}

	return pairs
}

func canCollide(bodyA, bodyB *actor.RigidBody) bool {
	if bodyA.IsStatic() && bodyB.IsStatic() {
		return false
	}

	sleepingOrStaticA := bodyA.IsSleeping || bodyA.IsStatic()
	sleepingOrStaticB := bodyB.IsSleeping || bodyB.IsStatic()

	return !(sleepingOrStaticA && sleepingOrStaticB)
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
