package obstacles

import (
	"math"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/geometry"
)

// Cell is a lattice coordinate of a Grid.
type Cell struct {
	X, Y int
}

// Key packs the cell into a single map key.
func (c Cell) Key() int64 {
	return int64(c.X)<<32 | int64(uint32(c.Y))
}

// Grid is a quantized view of the plane where each lattice point is free or blocked.
// Lattice point (X, Y) sits at canvas position (X*size, Y*size). Blocked cells are
// resolved on demand through the obstacle index and memoized, so building a grid costs
// nothing and a search pays only for the cells it visits. A Grid is not safe for
// concurrent use.
type Grid struct {
	size     float64
	min, max Cell
	index    *Index
	checked  map[int64]bool
}

// NewGrid builds a lattice of the given spacing covering bounds over the padded obstacles.
// Every lattice point that lies within a padded rectangle, widened outward to the enclosing
// lattice lines, is blocked.
func NewGrid(obstacles []core.Obstacle, bounds core.Rect, size float64) *Grid {
	return NewIndex(obstacles).Grid(bounds, size)
}

// Grid returns a lattice over the indexed obstacles. See NewGrid.
func (ix *Index) Grid(bounds core.Rect, size float64) *Grid {
	return &Grid{
		size: size,
		min: Cell{
			X: int(math.Floor(bounds.X / size)),
			Y: int(math.Floor(bounds.Y / size)),
		},
		max: Cell{
			X: int(math.Ceil(bounds.Right() / size)),
			Y: int(math.Ceil(bounds.Bottom() / size)),
		},
		index:   ix,
		checked: make(map[int64]bool),
	}
}

// covers checks if r, widened outward to the enclosing lattice lines, contains c.
func (g *Grid) covers(r core.Rect, c Cell) bool {
	return int(math.Floor(r.X/g.size)) <= c.X && c.X <= int(math.Ceil(r.Right()/g.size)) &&
		int(math.Floor(r.Y/g.size)) <= c.Y && c.Y <= int(math.Ceil(r.Bottom()/g.size))
}

// Size returns the lattice spacing.
func (g *Grid) Size() float64 {
	return g.size
}

// CellOf returns the lattice point nearest to p.
func (g *Grid) CellOf(p core.Point) Cell {
	return Cell{
		X: int(math.Floor(p.X/g.size + 0.5)),
		Y: int(math.Floor(p.Y/g.size + 0.5)),
	}
}

// PointOf returns the canvas position of a lattice point.
func (g *Grid) PointOf(c Cell) core.Point {
	return core.Point{X: float64(c.X) * g.size, Y: float64(c.Y) * g.size}
}

// InBounds checks if the cell lies within the lattice area.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= g.min.X && c.X <= g.max.X &&
		c.Y >= g.min.Y && c.Y <= g.max.Y
}

// Blocked checks if the cell lies inside the lattice area and is covered by an obstacle.
func (g *Grid) Blocked(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	key := c.Key()
	if blocked, ok := g.checked[key]; ok {
		return blocked
	}

	// A widened rectangle reaches c only if it overlaps the cells on either side of it.
	around := core.Rect{
		X: float64(c.X-1) * g.size,
		Y: float64(c.Y-1) * g.size,
		W: 2 * g.size,
		H: 2 * g.size,
	}
	blocked := false
	for _, e := range g.index.candidates(around) {
		if g.covers(e.padded, c) {
			blocked = true
			break
		}
	}
	g.checked[key] = blocked
	return blocked
}

// LineOfSight checks that every lattice sample on the segment a -> b, taken every grid step,
// is free or listed in allow. Samples are spaced one grid step apart, so an obstacle
// thinner than a step lying between two samples of an oblique segment can be missed.
func (g *Grid) LineOfSight(a, b core.Point, allow ...Cell) bool {
	dist := geometry.EuclideanDistance(a, b)
	steps := int(math.Ceil(dist / g.size))
	if steps == 0 {
		return !g.blockedExcept(g.CellOf(a), allow)
	}

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		sample := core.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
		if g.blockedExcept(g.CellOf(sample), allow) {
			return false
		}
	}
	return true
}

func (g *Grid) blockedExcept(c Cell, allow []Cell) bool {
	for _, a := range allow {
		if a == c {
			return false
		}
	}
	return g.Blocked(c)
}
