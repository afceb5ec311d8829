// Package core contains the fundamental types shared by the connector routing engine.
package core

import "fmt"

// Point represents a 2D location in canvas units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String returns the point formatted as (x,y).
func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Rect represents an axis-aligned rectangle. W and H are expected to be non-negative.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains checks if a point is inside the rectangle, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() &&
		p.Y >= r.Y && p.Y <= r.Bottom()
}

// Normalize flips negative widths and heights so that W and H are non-negative.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Obstacle is a keep-out zone. Padding inflates Bounds on every side before collision tests.
type Obstacle struct {
	ID      string  `json:"id"`
	Bounds  Rect    `json:"bounds"`
	Padding float64 `json:"padding"`
}

// Padded returns the obstacle bounds grown by its padding.
func (o Obstacle) Padded() Rect {
	return Rect{
		X: o.Bounds.X - o.Padding,
		Y: o.Bounds.Y - o.Padding,
		W: o.Bounds.W + 2*o.Padding,
		H: o.Bounds.H + 2*o.Padding,
	}
}

// RouterConfig holds the tunable routing parameters.
type RouterConfig struct {
	GridSize       float64 `json:"gridSize,omitempty"`       // Lattice spacing for the grid search
	Padding        float64 `json:"padding,omitempty"`        // Extra envelope around obstacles for rasterisation
	MaxIterations  int     `json:"maxIterations,omitempty"`  // Upper bound on grid search pops
	DiagonalCost   float64 `json:"diagonalCost,omitempty"`   // Reserved for 8-directional search
	OrthogonalCost float64 `json:"orthogonalCost,omitempty"` // Cost per unit of axis-aligned movement
}

// DefaultRouterConfig returns the default routing parameters.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		GridSize:       10,
		Padding:        15,
		MaxIterations:  5000,
		DiagonalCost:   1.414,
		OrthogonalCost: 1,
	}
}

// WithDefaults returns a copy of c where every non-positive field takes its default value.
func (c RouterConfig) WithDefaults() RouterConfig {
	d := DefaultRouterConfig()
	if c.GridSize <= 0 {
		c.GridSize = d.GridSize
	}
	if c.Padding <= 0 {
		c.Padding = d.Padding
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.DiagonalCost <= 0 {
		c.DiagonalCost = d.DiagonalCost
	}
	if c.OrthogonalCost <= 0 {
		c.OrthogonalCost = d.OrthogonalCost
	}
	return c
}

// RouteResult is the outcome of a routing call.
//
// Points always holds a renderable polyline: on failure it is the straight fallback
// [from, to]. Cost is the length plus bend penalties of Points and is zero on failure.
// Iterations counts the grid search pops spent producing the result.
type RouteResult struct {
	Points     []Point `json:"points"`
	Success    bool    `json:"success"`
	Cost       float64 `json:"cost,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
}

// Fallback returns the failed result carrying the straight segment from -> to.
func Fallback(from, to Point) RouteResult {
	return RouteResult{Points: []Point{from, to}}
}

// Clone returns a deep copy of the result.
func (r RouteResult) Clone() RouteResult {
	points := make([]Point, len(r.Points))
	copy(points, r.Points)
	r.Points = points
	return r
}

// Axis classifies the orientation of a segment or a preferred leaving direction.
type Axis int

const (
	AxisNone Axis = iota
	Horizontal
	Vertical
	Oblique
)

// String returns the string representation of an Axis.
func (a Axis) String() string {
	switch a {
	case AxisNone:
		return "none"
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Oblique:
		return "oblique"
	default:
		return "unknown"
	}
}

// Other returns the perpendicular axis. Non-orthogonal axes return themselves.
func (a Axis) Other() Axis {
	switch a {
	case Horizontal:
		return Vertical
	case Vertical:
		return Horizontal
	default:
		return a
	}
}

// Algorithm selects the routing strategy of the top-level router.
type Algorithm int

const (
	Hybrid Algorithm = iota
	AStar
	Orthogonal
)

// String returns the string representation of an Algorithm.
func (a Algorithm) String() string {
	switch a {
	case Hybrid:
		return "hybrid"
	case AStar:
		return "astar"
	case Orthogonal:
		return "orthogonal"
	default:
		return "unknown"
	}
}

// ParseAlgorithm converts a name such as "astar" into an Algorithm. The empty string is Hybrid.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "", "hybrid":
		return Hybrid, nil
	case "astar":
		return AStar, nil
	case "orthogonal":
		return Orthogonal, nil
	}
	return Hybrid, fmt.Errorf("unknown routing algorithm %q", name)
}

// Heuristic selects the distance estimate used by the grid search.
type Heuristic int

const (
	Manhattan Heuristic = iota
	Euclidean
	Diagonal
)

// String returns the string representation of a Heuristic.
func (h Heuristic) String() string {
	switch h {
	case Manhattan:
		return "manhattan"
	case Euclidean:
		return "euclidean"
	case Diagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}
