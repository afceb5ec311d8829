package pathfinding

import (
	"testing"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/geometry"
	"github.com/korylee/diagen/obstacles"
)

// assertRoute checks the properties every successful route must have.
func assertRoute(t *testing.T, result core.RouteResult, from, to core.Point, obs []core.Obstacle) {
	t.Helper()

	if len(result.Points) < 2 {
		t.Fatalf("route has %d points, want at least 2", len(result.Points))
	}
	if result.Points[0] != from {
		t.Errorf("route starts at %v, want %v", result.Points[0], from)
	}
	if last := result.Points[len(result.Points)-1]; last != to {
		t.Errorf("route ends at %v, want %v", last, to)
	}
	if !geometry.IsOrthogonal(result.Points) {
		t.Errorf("route is not orthogonal: %v", result.Points)
	}
	if !obstacles.IsRouteValid(result.Points, obs) {
		t.Errorf("route crosses an obstacle: %v", result.Points)
	}
}

func TestAStarRoute_Detour(t *testing.T) {
	obs := []core.Obstacle{
		{ID: "block", Bounds: core.Rect{X: 80, Y: -30, W: 40, H: 60}, Padding: 5},
	}
	from := core.Point{X: 0, Y: 0}
	to := core.Point{X: 200, Y: 0}

	result := AStarRoute(from, to, obs, core.DefaultRouterConfig(), nil)
	if !result.Success {
		t.Fatalf("expected success, got fallback %v", result.Points)
	}
	assertRoute(t, result, from, to, obs)

	if length := geometry.PathLength(result.Points); length <= 200 {
		t.Errorf("path length = %v, want a detour longer than 200", length)
	}
	if result.Cost != geometry.CalculateRouteCost(result.Points, 10) {
		t.Errorf("cost %v does not match the returned points", result.Cost)
	}
	if result.Iterations == 0 {
		t.Error("iterations not reported")
	}
}

func TestAStarRoute_GoalInsidePaddedObstacle(t *testing.T) {
	// The goal sits inside the padded block, so no route can avoid it.
	obs := []core.Obstacle{
		{ID: "block", Bounds: core.Rect{X: 80, Y: -30, W: 40, H: 60}, Padding: 5},
	}
	from := core.Point{X: 0, Y: 0}
	to := core.Point{X: 100, Y: 0}

	result := AStarRoute(from, to, obs, core.DefaultRouterConfig(), nil)
	if result.Success {
		t.Fatalf("expected failure, got %v", result.Points)
	}
	if len(result.Points) != 2 || result.Points[0] != from || result.Points[1] != to {
		t.Errorf("fallback = %v, want [%v %v]", result.Points, from, to)
	}
	if result.Cost != 0 {
		t.Errorf("fallback cost = %v, want 0", result.Cost)
	}
}

func TestAStarRoute_OffGridEndpoints(t *testing.T) {
	obs := []core.Obstacle{
		{ID: "block", Bounds: core.Rect{X: 80, Y: -30, W: 40, H: 60}, Padding: 5},
	}
	from := core.Point{X: 3, Y: 7}
	to := core.Point{X: 197, Y: 4}

	result := AStarRoute(from, to, obs, core.DefaultRouterConfig(), nil)
	if !result.Success {
		t.Fatalf("expected success, got fallback %v", result.Points)
	}
	assertRoute(t, result, from, to, obs)
}

func TestAStarRoute_Heuristics(t *testing.T) {
	obs := []core.Obstacle{
		{ID: "a", Bounds: core.Rect{X: 60, Y: 0, W: 40, H: 120}, Padding: 10},
		{ID: "b", Bounds: core.Rect{X: 160, Y: 60, W: 40, H: 140}, Padding: 10},
	}
	from := core.Point{X: 0, Y: 60}
	to := core.Point{X: 260, Y: 120}

	tests := []struct {
		name string
		opts AStarOptions
	}{
		{"manhattan", AStarOptions{Heuristic: core.Manhattan, BendPenalty: 10, Weight: 1}},
		{"euclidean", AStarOptions{Heuristic: core.Euclidean, BendPenalty: 10, Weight: 1}},
		{"diagonal", AStarOptions{Heuristic: core.Diagonal, BendPenalty: 10, Weight: 1}},
		{"weighted", AStarOptions{Heuristic: core.Manhattan, BendPenalty: 10, Weight: 2}},
		{"zero weight means one", AStarOptions{Heuristic: core.Manhattan, BendPenalty: 5}},
		{"no bend penalty", AStarOptions{Heuristic: core.Manhattan}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			result := AStarRoute(from, to, obs, core.DefaultRouterConfig(), &opts)
			if !result.Success {
				t.Fatalf("expected success, got fallback %v", result.Points)
			}
			assertRoute(t, result, from, to, obs)
		})
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		heuristic core.Heuristic
		dx, dy    float64
		want      float64
	}{
		{core.Manhattan, 30, 40, 70},
		{core.Euclidean, 30, 40, 50},
		{core.Diagonal, 30, 40, 40 + (1.4142135623730951-1)*30},
		{core.Diagonal, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.heuristic.String(), func(t *testing.T) {
			if got := estimate(tt.heuristic, tt.dx, tt.dy); !almostEqual(got, tt.want) {
				t.Errorf("estimate(%v, %v, %v) = %v, want %v", tt.heuristic, tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestAStarRoute_TerminationBound(t *testing.T) {
	// A closed ring leaves a large pocket around the start to exhaust.
	ring := []core.Obstacle{
		{ID: "top", Bounds: core.Rect{X: -300, Y: -300, W: 600, H: 20}},
		{ID: "bottom", Bounds: core.Rect{X: -300, Y: 280, W: 600, H: 20}},
		{ID: "left", Bounds: core.Rect{X: -300, Y: -300, W: 20, H: 600}},
		{ID: "right", Bounds: core.Rect{X: 280, Y: -300, W: 20, H: 600}},
	}
	from := core.Point{X: 0, Y: 0}
	to := core.Point{X: 1000, Y: 0}

	for _, n := range []int{1, 10, 100, 1000} {
		cfg := core.DefaultRouterConfig()
		cfg.MaxIterations = n

		result := AStarRoute(from, to, ring, cfg, nil)
		if result.Success {
			t.Fatalf("maxIterations=%d: expected failure", n)
		}
		if result.Iterations != n {
			t.Errorf("maxIterations=%d: popped %d nodes", n, result.Iterations)
		}
		if len(result.Points) != 2 || result.Points[0] != from || result.Points[1] != to {
			t.Errorf("maxIterations=%d: fallback = %v", n, result.Points)
		}
	}

	t.Run("pocket exhausted before the budget", func(t *testing.T) {
		result := AStarRoute(from, to, ring, core.DefaultRouterConfig(), nil)
		if result.Success {
			t.Fatal("expected failure")
		}
		if result.Iterations > 5000 {
			t.Errorf("popped %d nodes, budget is 5000", result.Iterations)
		}
	})
}

func TestAStarRoute_EnclosedStart(t *testing.T) {
	obs := []core.Obstacle{
		{ID: "cage", Bounds: core.Rect{X: -50, Y: -50, W: 100, H: 100}},
	}
	cfg := core.DefaultRouterConfig()
	cfg.MaxIterations = 50

	result := AStarRoute(core.Point{X: 0, Y: 0}, core.Point{X: 300, Y: 0}, obs, cfg, nil)
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Iterations > 50 {
		t.Errorf("popped %d nodes, budget is 50", result.Iterations)
	}
}

func TestAStarRoute_HugeObstacleRespectsBudget(t *testing.T) {
	obs := []core.Obstacle{
		{ID: "continent", Bounds: core.Rect{X: 0, Y: 0, W: 30000, H: 30000}, Padding: 10},
	}
	cfg := core.DefaultRouterConfig()
	cfg.MaxIterations = 10

	result := AStarRoute(core.Point{X: -100, Y: 15000}, core.Point{X: 30100, Y: 15000}, obs, cfg, nil)
	if result.Success {
		t.Fatal("expected the budget to run out")
	}
	if result.Iterations != 10 {
		t.Errorf("popped %d nodes, want 10", result.Iterations)
	}
}

func TestAStarRoute_Degenerate(t *testing.T) {
	p := core.Point{X: 42, Y: 17}

	result := AStarRoute(p, p, nil, core.DefaultRouterConfig(), nil)
	if !result.Success {
		t.Fatal("expected success")
	}
	if len(result.Points) != 2 || result.Points[0] != p || result.Points[1] != p {
		t.Errorf("points = %v, want [%v %v]", result.Points, p, p)
	}
	if result.Cost != 0 {
		t.Errorf("cost = %v, want 0", result.Cost)
	}
}

func TestAStarRoute_SameCell(t *testing.T) {
	from := core.Point{X: 1, Y: 1}
	to := core.Point{X: 4, Y: 3}

	result := AStarRoute(from, to, nil, core.DefaultRouterConfig(), nil)
	if !result.Success {
		t.Fatalf("expected success, got %v", result.Points)
	}
	assertRoute(t, result, from, to, nil)

	want := []core.Point{from, {X: 4, Y: 1}, to}
	if !pointsEqual(result.Points, want) {
		t.Errorf("points = %v, want %v", result.Points, want)
	}
}

func TestAStarRoute_StraightLineNoObstacles(t *testing.T) {
	from := core.Point{X: 0, Y: 0}
	to := core.Point{X: 100, Y: 0}

	result := AStarRoute(from, to, nil, core.DefaultRouterConfig(), nil)
	if !result.Success {
		t.Fatal("expected success")
	}
	if len(result.Points) != 2 {
		t.Errorf("points = %v, want a single straight segment", result.Points)
	}
	if result.Cost != 100 {
		t.Errorf("cost = %v, want 100", result.Cost)
	}
}

func TestReconnectEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		path     []core.Point
		from, to core.Point
		want     []core.Point
	}{
		{
			name: "exact endpoints",
			path: []core.Point{{X: 0, Y: 0}, {X: 0, Y: 50}, {X: 100, Y: 50}},
			from: core.Point{X: 0, Y: 0},
			to:   core.Point{X: 100, Y: 50},
			want: []core.Point{{X: 0, Y: 0}, {X: 0, Y: 50}, {X: 100, Y: 50}},
		},
		{
			name: "collinear offsets are absorbed",
			path: []core.Point{{X: 10, Y: 0}, {X: 90, Y: 0}},
			from: core.Point{X: 3, Y: 0},
			to:   core.Point{X: 94, Y: 0},
			want: []core.Point{{X: 3, Y: 0}, {X: 94, Y: 0}},
		},
		{
			name: "larger horizontal offset",
			path: []core.Point{{X: 10, Y: 10}, {X: 10, Y: 100}},
			from: core.Point{X: 4, Y: 8},
			to:   core.Point{X: 10, Y: 100},
			want: []core.Point{{X: 4, Y: 8}, {X: 10, Y: 8}, {X: 10, Y: 100}},
		},
		{
			name: "larger vertical offset",
			path: []core.Point{{X: 10, Y: 10}, {X: 100, Y: 10}},
			from: core.Point{X: 8, Y: 4},
			to:   core.Point{X: 100, Y: 10},
			want: []core.Point{{X: 8, Y: 4}, {X: 8, Y: 10}, {X: 100, Y: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconnectEndpoints(tt.path, tt.from, tt.to)
			if !pointsEqual(got, tt.want) {
				t.Errorf("reconnectEndpoints() = %v, want %v", got, tt.want)
			}
			if !geometry.IsOrthogonal(got) {
				t.Errorf("result is not orthogonal: %v", got)
			}
		})
	}
}

func TestSmoothGridPath_StaircaseAlongWall(t *testing.T) {
	grid := obstacles.NewGrid(nil, core.Rect{X: 0, Y: 0, W: 100, H: 100}, 10)
	path := []core.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 10}, {X: 30, Y: 20}}

	got := smoothGridPath(path, grid, grid.CellOf(path[0]), grid.CellOf(path[len(path)-1]))
	want := []core.Point{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 20}}
	if !pointsEqual(got, want) {
		t.Errorf("smoothGridPath() = %v, want %v", got, want)
	}
}

// The smoothing pass samples once per grid step, so an obstacle narrower than a step that
// falls between two samples of a shortcut is not seen by the grid check itself. Shortcuts
// are axis-aligned and obstacles are rasterized outward to whole lattice lines, which keeps
// such misses off the lattice; the final route validation catches anything else.
func TestSmoothGridPath_SamplingIsPerGridStep(t *testing.T) {
	thin := []core.Obstacle{{ID: "thin", Bounds: core.Rect{X: 44, Y: -1, W: 2, H: 2}}}
	grid := obstacles.NewGrid(thin, core.Rect{X: 0, Y: -50, W: 100, H: 100}, 10)

	if grid.LineOfSight(core.Point{X: 0, Y: 0}, core.Point{X: 100, Y: 0}) {
		t.Error("rasterized thin obstacle should block the lattice line")
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func pointsEqual(a, b []core.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
