package pathfinding

import (
	"math"

	"go.uber.org/zap"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/geometry"
	"github.com/korylee/diagen/obstacles"
)

// AStarOptions tunes the grid search.
type AStarOptions struct {
	Heuristic   core.Heuristic
	BendPenalty float64 // Added to the move cost whenever the path changes axis
	Weight      float64 // Multiplies the heuristic; values above 1 trade optimality for speed
}

// DefaultAStarOptions returns the default grid search options.
func DefaultAStarOptions() AStarOptions {
	return AStarOptions{
		Heuristic:   core.Manhattan,
		BendPenalty: 10,
		Weight:      1,
	}
}

// gridNode is a search state. Parents are referenced by arena index, -1 for the start.
type gridNode struct {
	cell   obstacles.Cell
	g, h   float64
	f      float64
	parent int
	axis   core.Axis // Axis of the move that reached this node
}

type openEntry struct {
	node int
	f    float64
}

var gridMoves = [...]struct {
	dx, dy int
	axis   core.Axis
}{
	{0, -1, core.Vertical},
	{1, 0, core.Horizontal},
	{0, 1, core.Vertical},
	{-1, 0, core.Horizontal},
}

// AStar runs the grid search from -> to. The search pops at most MaxIterations nodes;
// running out of nodes or iterations yields the straight fallback.
func (r *Router) AStar(from, to core.Point, obs []core.Obstacle, opts *AStarOptions) core.RouteResult {
	o := DefaultAStarOptions()
	if opts != nil {
		o = *opts
	}
	if o.Weight <= 0 {
		o.Weight = 1
	}

	index := obstacles.NewIndex(obs)
	if from == to {
		return degenerateRoute(from, index)
	}

	cfg := r.config
	bounds := geometry.CalculateBounds(from, to, obs, cfg.Padding, geometry.DefaultBoundsExpand)
	grid := index.Grid(bounds, cfg.GridSize)

	start := grid.CellOf(from)
	goal := grid.CellOf(to)

	if start == goal {
		elbow := []core.Point{from, {X: to.X, Y: from.Y}, to}
		return r.finishGridRoute(from, to, elbow, index, o, 0)
	}

	step := cfg.OrthogonalCost * cfg.GridSize
	heuristic := func(c obstacles.Cell) float64 {
		dx := math.Abs(float64(c.X-goal.X)) * cfg.GridSize
		dy := math.Abs(float64(c.Y-goal.Y)) * cfg.GridSize
		return estimate(o.Heuristic, dx, dy) * cfg.OrthogonalCost
	}

	nodes := []gridNode{{cell: start, h: heuristic(start), parent: -1}}
	nodes[0].f = nodes[0].h * o.Weight
	known := map[int64]int{start.Key(): 0}
	closed := make(map[int64]bool)

	open := NewPriorityQueue(func(e openEntry) float64 { return e.f })
	open.Push(openEntry{node: 0, f: nodes[0].f})

	iterations := 0
	for iterations < cfg.MaxIterations {
		entry, ok := open.Pop()
		if !ok {
			break
		}
		iterations++

		cur := nodes[entry.node]
		key := cur.cell.Key()
		if closed[key] || entry.f != cur.f {
			continue // stale entry
		}

		if cur.cell == goal {
			path := reconstructGridPath(nodes, entry.node, grid)
			path = smoothGridPath(path, grid, start, goal)
			return r.finishGridRoute(from, to, path, index, o, iterations)
		}
		closed[key] = true

		for _, move := range gridMoves {
			next := obstacles.Cell{X: cur.cell.X + move.dx, Y: cur.cell.Y + move.dy}
			if !grid.InBounds(next) {
				continue
			}
			if grid.Blocked(next) && next != goal && next != start {
				continue
			}

			cost := step
			if cur.axis != core.AxisNone && cur.axis != move.axis {
				cost += o.BendPenalty
			}
			tentativeG := cur.g + cost

			nextKey := next.Key()
			if idx, seen := known[nextKey]; seen {
				if tentativeG >= nodes[idx].g {
					continue
				}
				n := &nodes[idx]
				n.g = tentativeG
				n.f = n.g + n.h*o.Weight
				n.parent = entry.node
				n.axis = move.axis
				delete(closed, nextKey)
				open.Push(openEntry{node: idx, f: n.f})
				continue
			}

			h := heuristic(next)
			nodes = append(nodes, gridNode{
				cell:   next,
				g:      tentativeG,
				h:      h,
				f:      tentativeG + h*o.Weight,
				parent: entry.node,
				axis:   move.axis,
			})
			known[nextKey] = len(nodes) - 1
			open.Push(openEntry{node: len(nodes) - 1, f: nodes[len(nodes)-1].f})
		}
	}

	r.logger.Debug("grid search failed",
		zap.Int("iterations", iterations),
		zap.Int("expanded", len(nodes)),
		zap.Bool("budgetExhausted", iterations >= cfg.MaxIterations))

	result := core.Fallback(from, to)
	result.Iterations = iterations
	return result
}

// estimate returns the heuristic distance for the axis offsets dx and dy.
func estimate(h core.Heuristic, dx, dy float64) float64 {
	switch h {
	case core.Euclidean:
		return math.Hypot(dx, dy)
	case core.Diagonal:
		return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
	default:
		return dx + dy
	}
}

// reconstructGridPath walks the parent chain from the goal back to the start.
func reconstructGridPath(nodes []gridNode, goal int, grid *obstacles.Grid) []core.Point {
	var reversed []core.Point
	for i := goal; i != -1; i = nodes[i].parent {
		reversed = append(reversed, grid.PointOf(nodes[i].cell))
	}

	path := make([]core.Point, len(reversed))
	for i, p := range reversed {
		path[len(reversed)-1-i] = p
	}
	return path
}

// smoothGridPath greedily replaces staircase runs with the farthest point reachable in a
// straight, unobstructed line. Only axis-aligned shortcuts are taken so the route stays
// orthogonal.
func smoothGridPath(path []core.Point, grid *obstacles.Grid, start, goal obstacles.Cell) []core.Point {
	if len(path) <= 2 {
		return path
	}

	smoothed := []core.Point{path[0]}
	i := 0
	for i < len(path)-1 {
		furthest := i + 1
		for j := len(path) - 1; j > i+1; j-- {
			axis := geometry.SegmentAxis(path[i], path[j])
			if axis != core.Horizontal && axis != core.Vertical {
				continue
			}
			if grid.LineOfSight(path[i], path[j], start, goal) {
				furthest = j
				break
			}
		}
		smoothed = append(smoothed, path[furthest])
		i = furthest
	}
	return geometry.SimplifyOrthogonalPath(smoothed)
}

// finishGridRoute attaches the exact endpoints to the lattice path and scores it.
// Routes that end up touching an obstacle are reported as failures.
func (r *Router) finishGridRoute(from, to core.Point, path []core.Point, index *obstacles.Index, o AStarOptions, iterations int) core.RouteResult {
	points := reconnectEndpoints(path, from, to)

	if !index.RouteValid(points) {
		r.logger.Debug("grid route rejected after reconnecting endpoints",
			zap.Int("points", len(points)),
			zap.Int("iterations", iterations))
		result := core.Fallback(from, to)
		result.Iterations = iterations
		return result
	}

	cost := geometry.CalculateRouteCost(points, o.BendPenalty)
	r.logger.Debug("grid search succeeded",
		zap.Int("iterations", iterations),
		zap.Int("points", len(points)),
		zap.Float64("cost", cost))

	return core.RouteResult{
		Points:     points,
		Success:    true,
		Cost:       cost,
		Iterations: iterations,
	}
}

// reconnectEndpoints prepends from and appends to, inserting one elbow on each side when
// needed to keep the route orthogonal. The longer offset is covered by the segment that
// touches the exact endpoint.
func reconnectEndpoints(path []core.Point, from, to core.Point) []core.Point {
	first, last := path[0], path[len(path)-1]
	points := []core.Point{from}

	if from != first {
		dx, dy := math.Abs(first.X-from.X), math.Abs(first.Y-from.Y)
		if dx != 0 && dy != 0 {
			if dx >= dy {
				points = append(points, core.Point{X: first.X, Y: from.Y})
			} else {
				points = append(points, core.Point{X: from.X, Y: first.Y})
			}
		}
		points = append(points, path...)
	} else {
		points = append(points, path[1:]...)
	}

	if to != last {
		dx, dy := math.Abs(to.X-last.X), math.Abs(to.Y-last.Y)
		if dx != 0 && dy != 0 {
			if dx >= dy {
				points = append(points, core.Point{X: last.X, Y: to.Y})
			} else {
				points = append(points, core.Point{X: to.X, Y: last.Y})
			}
		}
		points = append(points, to)
	}

	return geometry.SimplifyOrthogonalPath(points)
}
