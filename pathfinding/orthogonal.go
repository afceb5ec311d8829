package pathfinding

import (
	"go.uber.org/zap"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/geometry"
	"github.com/korylee/diagen/obstacles"
)

// OrthogonalOptions tunes the orthogonal cascade.
type OrthogonalOptions struct {
	StartDirection core.Axis // Preferred axis of the first segment, AxisNone for no preference
	EndDirection   core.Axis // Preferred axis of the last segment, AxisNone for no preference
	BendCost       float64
}

// DefaultOrthogonalOptions returns the default cascade options.
func DefaultOrthogonalOptions() OrthogonalOptions {
	return OrthogonalOptions{BendCost: 10}
}

var (
	escapeOffsets = []float64{30, 60, 100, 150}
	railOffsets   = []float64{50, 100, 150, 200}
)

// candidateTier produces the raw candidate routes of one step of the cascade.
type candidateTier struct {
	name     string
	generate func(from, to core.Point, index *obstacles.Index, obs []core.Obstacle) [][]core.Point
}

// orthogonalTiers lists the cascade from cheapest to most expensive.
var orthogonalTiers = []candidateTier{
	{name: "direct", generate: directCandidates},
	{name: "simple", generate: elbowCandidates},
	{name: "intermediate", generate: midpointCandidates},
	{name: "escape", generate: escapeCandidates},
}

// Orthogonal walks the candidate tiers in order and returns the cheapest valid candidate
// of the first tier that yields any.
func (r *Router) Orthogonal(from, to core.Point, obs []core.Obstacle, opts *OrthogonalOptions) core.RouteResult {
	o := DefaultOrthogonalOptions()
	if opts != nil {
		o = *opts
	}
	if o.BendCost < 0 {
		o.BendCost = 0
	}

	index := obstacles.NewIndex(obs)
	if from == to {
		return degenerateRoute(from, index)
	}

	for _, tier := range orthogonalTiers {
		candidates := tier.generate(from, to, index, obs)
		best, cost, ok := pickCandidate(candidates, index, o)
		if !ok {
			r.logger.Debug("orthogonal tier produced no valid candidate",
				zap.String("tier", tier.name),
				zap.Int("candidates", len(candidates)))
			continue
		}

		r.logger.Debug("orthogonal tier succeeded",
			zap.String("tier", tier.name),
			zap.Int("candidates", len(candidates)),
			zap.Float64("cost", cost))
		return core.RouteResult{Points: best, Success: true, Cost: cost}
	}

	return core.Fallback(from, to)
}

// pickCandidate simplifies, validates and scores the candidates. Candidates that honour the
// preferred directions beat those that do not; within a group the lowest cost wins and the
// earlier candidate keeps ties.
func pickCandidate(candidates [][]core.Point, index *obstacles.Index, o OrthogonalOptions) ([]core.Point, float64, bool) {
	var (
		best, bestPreferred []core.Point
		cost, costPreferred float64
	)

	for _, c := range candidates {
		path := geometry.SimplifyOrthogonalPath(c)
		if !geometry.IsOrthogonal(path) || !index.RouteValid(path) {
			continue
		}

		score := geometry.CalculateRouteCost(path, o.BendCost)
		if best == nil || score < cost {
			best, cost = path, score
		}
		if honoursDirections(path, o) && (bestPreferred == nil || score < costPreferred) {
			bestPreferred, costPreferred = path, score
		}
	}

	if bestPreferred != nil {
		return bestPreferred, costPreferred, true
	}
	return best, cost, best != nil
}

// honoursDirections checks the first and last segments against the preferred axes.
func honoursDirections(path []core.Point, o OrthogonalOptions) bool {
	n := len(path)
	if o.StartDirection != core.AxisNone && geometry.SegmentAxis(path[0], path[1]) != o.StartDirection {
		return false
	}
	if o.EndDirection != core.AxisNone && geometry.SegmentAxis(path[n-2], path[n-1]) != o.EndDirection {
		return false
	}
	return true
}

// directCandidates offers the straight segment when the endpoints share an axis. An
// oblique straight segment is never offered, even when it is obstacle-free, so every
// route out of the cascade stays orthogonal; such pairs move on to the elbow tier.
func directCandidates(from, to core.Point, _ *obstacles.Index, _ []core.Obstacle) [][]core.Point {
	if from.X != to.X && from.Y != to.Y {
		return nil
	}
	return [][]core.Point{{from, to}}
}

// degenerateRoute answers from == to: the point route succeeds only outside every
// padded obstacle.
func degenerateRoute(p core.Point, index *obstacles.Index) core.RouteResult {
	route := []core.Point{p, p}
	if !index.RouteValid(route) {
		return core.Fallback(p, p)
	}
	return core.RouteResult{Points: route, Success: true}
}

// elbowCandidates offers the single-bend routes, horizontal-first then vertical-first.
func elbowCandidates(from, to core.Point, _ *obstacles.Index, _ []core.Obstacle) [][]core.Point {
	return [][]core.Point{
		{from, {X: to.X, Y: from.Y}, to},
		{from, {X: from.X, Y: to.Y}, to},
	}
}

// midpointCandidates offers two-bend routes through the midpoint of the endpoints and the
// four points mixing one endpoint coordinate with the midpoint.
func midpointCandidates(from, to core.Point, _ *obstacles.Index, _ []core.Obstacle) [][]core.Point {
	mx, my := (from.X+to.X)/2, (from.Y+to.Y)/2
	mids := []core.Point{
		{X: mx, Y: my},
		{X: from.X, Y: my},
		{X: to.X, Y: my},
		{X: mx, Y: from.Y},
		{X: mx, Y: to.Y},
	}

	candidates := make([][]core.Point, 0, 2*len(mids))
	for _, m := range mids {
		candidates = append(candidates,
			[]core.Point{from, {X: m.X, Y: from.Y}, {X: m.X, Y: to.Y}, to},
			[]core.Point{from, {X: from.X, Y: m.Y}, {X: to.X, Y: m.Y}, to},
		)
	}
	return candidates
}

// escapeCandidates leaves the obstacle cluster. Escape points stand off the envelope of
// endpoints and obstacles on every side; each start escape is joined to each end escape.
// Rails run parallel to an envelope side at fixed offsets.
func escapeCandidates(from, to core.Point, index *obstacles.Index, obs []core.Obstacle) [][]core.Point {
	env := geometry.CalculateBounds(from, to, obs, 0, 0)

	starts := escapePoints(from, env, index)
	ends := escapePoints(to, env, index)

	var candidates [][]core.Point
	for _, s := range starts {
		for _, t := range ends {
			if s.X == t.X || s.Y == t.Y {
				candidates = append(candidates, []core.Point{from, s, t, to})
				continue
			}
			candidates = append(candidates,
				[]core.Point{from, s, {X: t.X, Y: s.Y}, t, to},
				[]core.Point{from, s, {X: s.X, Y: t.Y}, t, to},
			)
		}
	}

	for _, d := range railOffsets {
		top := env.Y - d
		bottom := env.Bottom() + d
		left := env.X - d
		right := env.Right() + d
		candidates = append(candidates,
			[]core.Point{from, {X: from.X, Y: top}, {X: to.X, Y: top}, to},
			[]core.Point{from, {X: from.X, Y: bottom}, {X: to.X, Y: bottom}, to},
			[]core.Point{from, {X: left, Y: from.Y}, {X: left, Y: to.Y}, to},
			[]core.Point{from, {X: right, Y: from.Y}, {X: right, Y: to.Y}, to},
		)
	}

	return candidates
}

// escapePoints projects p beyond each side of env at every escape offset, keeping the
// points that lie outside all obstacles.
func escapePoints(p core.Point, env core.Rect, index *obstacles.Index) []core.Point {
	var points []core.Point
	for _, d := range escapeOffsets {
		for _, e := range []core.Point{
			{X: p.X, Y: env.Y - d},
			{X: p.X, Y: env.Bottom() + d},
			{X: env.X - d, Y: p.Y},
			{X: env.Right() + d, Y: p.Y},
		} {
			if !index.ContainsPoint(e) {
				points = append(points, e)
			}
		}
	}
	return points
}
