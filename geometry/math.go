// Package geometry provides the plane geometry used by the connector router:
// rectangle padding, grid snapping, distances, segment tests, path simplification and cost.
package geometry

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/korylee/diagen/core"
)

// DefaultBoundsExpand is the margin CalculateBounds adds around the routing envelope.
const DefaultBoundsExpand = 100.0

// ExpandRect grows a rectangle by padding on every side.
func ExpandRect(r core.Rect, padding float64) core.Rect {
	return core.Rect{
		X: r.X - padding,
		Y: r.Y - padding,
		W: r.W + 2*padding,
		H: r.H + 2*padding,
	}
}

// SnapToGrid rounds value to the nearest multiple of gridSize, halves rounding up.
func SnapToGrid(value, gridSize float64) float64 {
	if gridSize <= 0 {
		return value
	}
	return math.Floor(value/gridSize+0.5) * gridSize
}

// SnapPoint snaps both coordinates of p to the grid.
func SnapPoint(p core.Point, gridSize float64) core.Point {
	return core.Point{X: SnapToGrid(p.X, gridSize), Y: SnapToGrid(p.Y, gridSize)}
}

// ManhattanDistance calculates the Manhattan distance between two points.
func ManhattanDistance(p1, p2 core.Point) float64 {
	return math.Abs(p1.X-p2.X) + math.Abs(p1.Y-p2.Y)
}

// EuclideanDistance calculates the Euclidean distance between two points.
func EuclideanDistance(p1, p2 core.Point) float64 {
	return math.Hypot(p1.X-p2.X, p1.Y-p2.Y)
}

// SegmentAxis classifies the segment a -> b.
func SegmentAxis(a, b core.Point) core.Axis {
	switch {
	case a == b:
		return core.AxisNone
	case a.Y == b.Y:
		return core.Horizontal
	case a.X == b.X:
		return core.Vertical
	default:
		return core.Oblique
	}
}

// PointInRect checks if p lies inside r, edges included.
func PointInRect(p core.Point, r core.Rect) bool {
	return r.Contains(p)
}

// SegmentIntersectsRect checks if the segment a -> b touches the rectangle r.
func SegmentIntersectsRect(a, b core.Point, r core.Rect) bool {
	if PointInRect(a, r) || PointInRect(b, r) {
		return true
	}

	tl := core.Point{X: r.X, Y: r.Y}
	tr := core.Point{X: r.Right(), Y: r.Y}
	br := core.Point{X: r.Right(), Y: r.Bottom()}
	bl := core.Point{X: r.X, Y: r.Bottom()}

	return segmentsIntersect(a, b, tl, tr) ||
		segmentsIntersect(a, b, tr, br) ||
		segmentsIntersect(a, b, br, bl) ||
		segmentsIntersect(a, b, bl, tl)
}

// segmentsIntersect checks if segments p1p2 and p3p4 share at least one point.
func segmentsIntersect(p1, p2, p3, p4 core.Point) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 core.Point) float64 {
	return (p3.X-p1.X)*(p2.Y-p1.Y) - (p2.X-p1.X)*(p3.Y-p1.Y)
}

// onSegment checks if q lies within the bounding box of segment pr
func onSegment(p, r, q core.Point) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

// CalculateBounds returns the envelope of both endpoints and every obstacle, each obstacle
// grown by the larger of its own padding and padding, inflated by expand on all sides.
func CalculateBounds(from, to core.Point, obstacles []core.Obstacle, padding, expand float64) core.Rect {
	bound := orb.Bound{Min: toOrb(from), Max: toOrb(from)}.Extend(toOrb(to))

	for _, o := range obstacles {
		r := ExpandRect(o.Bounds, math.Max(o.Padding, padding))
		bound = bound.Union(orb.Bound{
			Min: orb.Point{r.X, r.Y},
			Max: orb.Point{r.Right(), r.Bottom()},
		})
	}

	bound = bound.Pad(expand)
	return core.Rect{
		X: bound.Min.X(),
		Y: bound.Min.Y(),
		W: bound.Max.X() - bound.Min.X(),
		H: bound.Max.Y() - bound.Min.Y(),
	}
}

func toOrb(p core.Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

// SimplifyOrthogonalPath removes duplicate points and interior points whose incoming and
// outgoing segments run along the same axis. The first and last points are always kept and
// the function is idempotent.
func SimplifyOrthogonalPath(path []core.Point) []core.Point {
	result := clonePath(path)
	for {
		next := simplifyPass(result)
		if len(next) == len(result) {
			return next
		}
		result = next
	}
}

func simplifyPass(path []core.Point) []core.Point {
	if len(path) <= 2 {
		return clonePath(path)
	}

	first, last := path[0], path[len(path)-1]
	simplified := []core.Point{first}

	for i := 1; i < len(path)-1; i++ {
		prev := simplified[len(simplified)-1]
		cur := path[i]
		if cur == prev {
			continue
		}

		in := SegmentAxis(prev, cur)
		out := SegmentAxis(cur, path[i+1])
		if out == core.AxisNone {
			// Duplicate ahead; decide on the next pass once it is gone
			simplified = append(simplified, cur)
			continue
		}
		if in == out && in != core.Oblique {
			continue
		}
		simplified = append(simplified, cur)
	}

	if simplified[len(simplified)-1] != last || len(simplified) == 1 {
		simplified = append(simplified, last)
	}
	return simplified
}

func clonePath(path []core.Point) []core.Point {
	out := make([]core.Point, len(path))
	copy(out, path)
	return out
}

// CountBends returns the number of direction changes along the path.
// Zero-length segments are ignored.
func CountBends(path []core.Point) int {
	bends := 0
	prev := core.AxisNone
	for i := 0; i < len(path)-1; i++ {
		axis := SegmentAxis(path[i], path[i+1])
		if axis == core.AxisNone {
			continue
		}
		if prev != core.AxisNone && axis != prev {
			bends++
		}
		prev = axis
	}
	return bends
}

// PathLength returns the sum of the Euclidean segment lengths.
func PathLength(path []core.Point) float64 {
	length := 0.0
	for i := 0; i < len(path)-1; i++ {
		length += EuclideanDistance(path[i], path[i+1])
	}
	return length
}

// CalculateRouteCost scores a path as its length plus bendPenalty per direction change.
func CalculateRouteCost(path []core.Point, bendPenalty float64) float64 {
	return PathLength(path) + bendPenalty*float64(CountBends(path))
}

// IsOrthogonal reports whether every non-empty segment of the path is axis-aligned.
func IsOrthogonal(path []core.Point) bool {
	for i := 0; i < len(path)-1; i++ {
		if SegmentAxis(path[i], path[i+1]) == core.Oblique {
			return false
		}
	}
	return true
}
