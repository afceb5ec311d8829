package obstacles

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/geometry"
)

// Slack added to R-tree boxes so that touching rectangles and zero-size queries still
// overlap; exact tests run on the padded rectangles afterwards.
const treeSlack = 1e-6

// indexEntry wraps an obstacle for R-tree storage
type indexEntry struct {
	order  int
	padded core.Rect
	bbox   rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *indexEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// Index answers collision queries against the padded rectangles of a set of obstacles.
// It is built per routing call and never mutated afterwards.
type Index struct {
	tree      *rtreego.Rtree
	obstacles []core.Obstacle
}

// NewIndex creates a spatial index over the padded obstacles.
func NewIndex(obstacles []core.Obstacle) *Index {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for i, o := range obstacles {
		padded := o.Padded().Normalize()
		bbox, err := boxOf(padded)
		if err != nil {
			continue
		}
		tree.Insert(&indexEntry{order: i, padded: padded, bbox: bbox})
	}

	return &Index{tree: tree, obstacles: obstacles}
}

// Len returns the number of indexed obstacles.
func (ix *Index) Len() int {
	return ix.tree.Size()
}

// candidates returns the entries whose boxes overlap r.
func (ix *Index) candidates(r core.Rect) []*indexEntry {
	if ix.tree.Size() == 0 {
		return nil
	}
	bbox, err := boxOf(r)
	if err != nil {
		return nil
	}

	results := ix.tree.SearchIntersect(bbox)
	entries := make([]*indexEntry, 0, len(results))
	for _, item := range results {
		entries = append(entries, item.(*indexEntry))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })
	return entries
}

// Query returns the obstacles whose padded rectangles overlap r, in input order.
func (ix *Index) Query(r core.Rect) []core.Obstacle {
	entries := ix.candidates(r)
	result := make([]core.Obstacle, 0, len(entries))
	for _, e := range entries {
		if rectsOverlap(e.padded, r) {
			result = append(result, ix.obstacles[e.order])
		}
	}
	return result
}

// ContainsPoint checks if p lies inside any padded obstacle.
func (ix *Index) ContainsPoint(p core.Point) bool {
	for _, e := range ix.candidates(core.Rect{X: p.X, Y: p.Y}) {
		if geometry.PointInRect(p, e.padded) {
			return true
		}
	}
	return false
}

// SegmentBlocked checks if the segment a -> b touches any padded obstacle.
func (ix *Index) SegmentBlocked(a, b core.Point) bool {
	span := core.Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(a.X - b.X),
		H: math.Abs(a.Y - b.Y),
	}
	for _, e := range ix.candidates(span) {
		if geometry.SegmentIntersectsRect(a, b, e.padded) {
			return true
		}
	}
	return false
}

// RouteValid checks that no segment of the polyline touches a padded obstacle.
func (ix *Index) RouteValid(path []core.Point) bool {
	for i := 0; i < len(path)-1; i++ {
		if ix.SegmentBlocked(path[i], path[i+1]) {
			return false
		}
	}
	return true
}

// IsPointInAnyObstacle checks if p lies inside any padded obstacle.
func IsPointInAnyObstacle(p core.Point, obstacles []core.Obstacle) bool {
	return NewIndex(obstacles).ContainsPoint(p)
}

// IsRouteValid checks that no consecutive pair of polyline points forms a segment
// intersecting any padded obstacle.
func IsRouteValid(path []core.Point, obstacles []core.Obstacle) bool {
	return NewIndex(obstacles).RouteValid(path)
}

// boxOf converts r into an R-tree box grown by treeSlack.
func boxOf(r core.Rect) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{r.X - treeSlack, r.Y - treeSlack},
		[]float64{r.W + 2*treeSlack, r.H + 2*treeSlack},
	)
}

func rectsOverlap(a, b core.Rect) bool {
	return a.X <= b.Right() && b.X <= a.Right() &&
		a.Y <= b.Bottom() && b.Y <= a.Bottom()
}
