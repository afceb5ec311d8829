package pathfinding

import (
	"go.uber.org/zap"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/geometry"
)

// Thresholds for accepting the orthogonal result without consulting the grid search.
const (
	hybridMinEfficiency = 0.5
	hybridMaxPoints     = 6
	hybridMaxCost       = 500.0
)

// RouteOptions selects the algorithm of Route and carries per-algorithm options.
// Nil option structs mean defaults.
type RouteOptions struct {
	Algorithm  core.Algorithm
	AStar      *AStarOptions
	Orthogonal *OrthogonalOptions
}

// Router computes connector routes. It holds no state besides its configuration,
// so a single Router may serve concurrent callers.
type Router struct {
	config core.RouterConfig
	logger *zap.Logger
}

// NewRouter creates a router. Non-positive config fields take their defaults and a nil
// logger discards all output.
func NewRouter(config core.RouterConfig, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		config: config.WithDefaults(),
		logger: logger,
	}
}

// Config returns the effective configuration.
func (r *Router) Config() core.RouterConfig {
	return r.config
}

// Route computes a connector route from -> to around the obstacles.
//
// The hybrid strategy runs the orthogonal cascade first and keeps it when it is efficient,
// short and cheap. Otherwise the grid search runs and wins when it succeeds; when it fails
// the orthogonal result is returned if there was one.
func (r *Router) Route(from, to core.Point, obstacles []core.Obstacle, opts *RouteOptions) core.RouteResult {
	if opts == nil {
		opts = &RouteOptions{}
	}

	switch opts.Algorithm {
	case core.AStar:
		return r.AStar(from, to, obstacles, opts.AStar)
	case core.Orthogonal:
		return r.Orthogonal(from, to, obstacles, opts.Orthogonal)
	}

	ortho := r.Orthogonal(from, to, obstacles, opts.Orthogonal)
	if ortho.Success {
		efficiency := PathEfficiency(from, to, ortho.Cost)
		if efficiency > hybridMinEfficiency && len(ortho.Points) <= hybridMaxPoints && ortho.Cost <= hybridMaxCost {
			r.logger.Debug("hybrid route kept orthogonal result",
				zap.Float64("efficiency", efficiency),
				zap.Int("points", len(ortho.Points)),
				zap.Float64("cost", ortho.Cost))
			return ortho
		}
	}

	grid := r.AStar(from, to, obstacles, opts.AStar)
	if grid.Success {
		r.logger.Debug("hybrid route used grid search",
			zap.Bool("orthogonalSuccess", ortho.Success),
			zap.Float64("cost", grid.Cost),
			zap.Int("iterations", grid.Iterations))
		return grid
	}

	if ortho.Success {
		ortho.Iterations = grid.Iterations
		r.logger.Debug("hybrid route fell back to orthogonal result",
			zap.Int("iterations", grid.Iterations))
		return ortho
	}

	r.logger.Debug("hybrid route failed",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int("obstacles", len(obstacles)))
	return grid
}

// PathEfficiency returns the ratio of the straight-line distance to the route cost.
// A zero-cost route is fully efficient.
func PathEfficiency(from, to core.Point, cost float64) float64 {
	if cost <= 0 {
		return 1
	}
	return geometry.EuclideanDistance(from, to) / cost
}

// Route computes a route with a fresh, silent Router. A zero config means defaults.
func Route(from, to core.Point, obstacles []core.Obstacle, config core.RouterConfig, opts *RouteOptions) core.RouteResult {
	return NewRouter(config, nil).Route(from, to, obstacles, opts)
}

// AStarRoute runs the grid search directly.
func AStarRoute(from, to core.Point, obstacles []core.Obstacle, config core.RouterConfig, opts *AStarOptions) core.RouteResult {
	return NewRouter(config, nil).AStar(from, to, obstacles, opts)
}

// OrthogonalRoute runs the orthogonal candidate cascade directly.
func OrthogonalRoute(from, to core.Point, obstacles []core.Obstacle, config core.RouterConfig, opts *OrthogonalOptions) core.RouteResult {
	return NewRouter(config, nil).Orthogonal(from, to, obstacles, opts)
}
