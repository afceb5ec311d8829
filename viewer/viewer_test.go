package viewer

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/pathfinding"
	"github.com/korylee/diagen/scene"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)
	return screen
}

func newViewer(t *testing.T, screen tcell.Screen) *Viewer {
	t.Helper()
	s, err := scene.LoadFile("../scene/testdata/cluttered.json")
	require.NoError(t, err)

	v, err := New(screen, s, pathfinding.NewRouter(s.Config, nil))
	require.NoError(t, err)
	return v
}

// screenText returns the visible rows of the simulation screen.
func screenText(screen tcell.SimulationScreen) []string {
	cells, width, height := screen.GetContents()
	rows := make([]string, height)
	for y := 0; y < height; y++ {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			c := cells[y*width+x]
			if len(c.Runes) == 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteRune(c.Runes[0])
		}
		rows[y] = strings.TrimRight(sb.String(), " ")
	}
	return rows
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, &scene.Scene{}, nil)
	assert.ErrorIs(t, err, ErrNoScreen)

	_, err = New(newScreen(t), nil, nil)
	assert.ErrorIs(t, err, ErrNoScene)
}

func TestDraw(t *testing.T) {
	screen := newScreen(t)
	v := newViewer(t, screen)

	v.Draw()
	rows := screenText(screen)

	status := rows[len(rows)-1]
	assert.True(t, strings.HasPrefix(status, "main [hybrid] ok"), "status line: %q", status)

	body := strings.Join(rows[:len(rows)-1], "\n")
	assert.Contains(t, body, "┌")
	assert.Contains(t, body, "o")
	assert.True(t, strings.ContainsAny(body, "▶◀▲▼"), "missing arrow head:\n%s", body)
}

func TestDraw_HighlightsSelectedRoute(t *testing.T) {
	screen := newScreen(t)
	v := newViewer(t, screen)
	v.Draw()

	route := v.Routes()[0].Result
	pr := v.projection(100, 29)
	start := pr.Cell(route.Points[0])

	_, _, style, _ := screen.GetContent(start.X, start.Y)
	assert.Equal(t, styleSelected, style)
}

func TestHandleKey_Selection(t *testing.T) {
	v := newViewer(t, newScreen(t))

	quit, err := v.HandleKey(key(tcell.KeyTab))
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, 1, v.Selected())

	_, _ = v.HandleKey(key(tcell.KeyTab))
	_, _ = v.HandleKey(key(tcell.KeyTab))
	assert.Equal(t, 0, v.Selected(), "selection wraps around")

	_, _ = v.HandleKey(key(tcell.KeyBacktab))
	assert.Equal(t, 2, v.Selected())
}

func TestHandleKey_MoveTarget(t *testing.T) {
	v := newViewer(t, newScreen(t))
	before := v.Routes()[0].To

	_, err := v.HandleKey(key(tcell.KeyRight))
	require.NoError(t, err)
	_, err = v.HandleKey(key(tcell.KeyUp))
	require.NoError(t, err)

	after := v.Routes()[0]
	assert.Equal(t, core.Point{X: before.X + 10, Y: before.Y - 10}, after.To)
	last := after.Result.Points[len(after.Result.Points)-1]
	assert.Equal(t, after.To, last, "route follows the moved target")
}

func TestHandleKey_Algorithm(t *testing.T) {
	screen := newScreen(t)
	v := newViewer(t, screen)

	_, err := v.HandleKey(runeKey('a'))
	require.NoError(t, err)

	v.Draw()
	rows := screenText(screen)
	assert.True(t, strings.HasPrefix(rows[len(rows)-1], "main [astar]"), "status line: %q", rows[len(rows)-1])

	_, _ = v.HandleKey(runeKey('a'))
	_, _ = v.HandleKey(runeKey('a'))
	assert.Equal(t, "hybrid", v.scene.Algorithm(0).String())
}

func TestHandleKey_Quit(t *testing.T) {
	v := newViewer(t, newScreen(t))

	for _, ev := range []*tcell.EventKey{runeKey('q'), key(tcell.KeyEscape), key(tcell.KeyCtrlC)} {
		quit, err := v.HandleKey(ev)
		require.NoError(t, err)
		assert.True(t, quit, "key %v should quit", ev.Name())
	}
}

func TestRun(t *testing.T) {
	screen := newScreen(t)
	v := newViewer(t, screen)

	screen.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	require.NoError(t, v.Run())
	assert.Equal(t, 1, v.Selected())
}

func TestEmptyScene(t *testing.T) {
	screen := newScreen(t)
	s, err := scene.New(core.RouterConfig{}, nil, nil)
	require.NoError(t, err)

	v, err := New(screen, s, pathfinding.NewRouter(s.Config, nil))
	require.NoError(t, err)

	_, err = v.HandleKey(key(tcell.KeyRight))
	assert.NoError(t, err)
	_, err = v.HandleKey(runeKey('a'))
	assert.NoError(t, err)

	v.Draw()
	rows := screenText(screen)
	assert.Equal(t, "no connectors  q:quit", rows[len(rows)-1])
}
