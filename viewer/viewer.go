// Package viewer shows a routed scene in the terminal and lets the user drag connector
// targets around with the keyboard.
package viewer

import (
	"errors"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/korylee/diagen/canvas"
	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/scene"
)

// Errors returned by New.
var (
	ErrNoScreen = errors.New("no screen")
	ErrNoScene  = errors.New("no scene")
)

var (
	styleDefault  = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFailed   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

var algorithmCycle = []core.Algorithm{core.Hybrid, core.AStar, core.Orthogonal}

// Viewer draws a scene on a tcell screen and re-routes it after every edit.
type Viewer struct {
	screen   tcell.Screen
	scene    *scene.Scene
	router   scene.Router
	routes   []scene.Routed
	selected int
}

// New creates a viewer and routes the scene once. The screen must already be initialized.
func New(screen tcell.Screen, s *scene.Scene, router scene.Router) (*Viewer, error) {
	if screen == nil {
		return nil, ErrNoScreen
	}
	if s == nil {
		return nil, ErrNoScene
	}

	v := &Viewer{screen: screen, scene: s, router: router}
	v.reroute()
	return v, nil
}

// Selected returns the index of the selected connector.
func (v *Viewer) Selected() int {
	return v.selected
}

// Routes returns the current routing results.
func (v *Viewer) Routes() []scene.Routed {
	return v.routes
}

func (v *Viewer) reroute() {
	v.routes = v.scene.RouteAll(v.router)
}

// Run draws and handles events until the user quits or the screen is finalized.
func (v *Viewer) Run() error {
	for {
		v.Draw()

		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			quit, err := v.HandleKey(ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

// HandleKey applies one key press. It reports whether the viewer should quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) (bool, error) {
	step := v.scene.Config.GridSize

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, nil
	case tcell.KeyTab:
		v.cycleSelection(1)
	case tcell.KeyBacktab:
		v.cycleSelection(-1)
	case tcell.KeyUp:
		return false, v.moveTarget(0, -step)
	case tcell.KeyDown:
		return false, v.moveTarget(0, step)
	case tcell.KeyLeft:
		return false, v.moveTarget(-step, 0)
	case tcell.KeyRight:
		return false, v.moveTarget(step, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true, nil
		case 'a':
			return false, v.cycleAlgorithm()
		}
	}
	return false, nil
}

func (v *Viewer) cycleSelection(delta int) {
	n := len(v.scene.Connectors)
	if n == 0 {
		return
	}
	v.selected = ((v.selected+delta)%n + n) % n
}

func (v *Viewer) moveTarget(dx, dy float64) error {
	if len(v.scene.Connectors) == 0 {
		return nil
	}
	if err := v.scene.MoveTarget(v.selected, dx, dy); err != nil {
		return fmt.Errorf("moving connector target: %w", err)
	}
	v.reroute()
	return nil
}

func (v *Viewer) cycleAlgorithm() error {
	if len(v.scene.Connectors) == 0 {
		return nil
	}
	current := v.scene.Algorithm(v.selected)
	next := algorithmCycle[0]
	for i, a := range algorithmCycle {
		if a == current {
			next = algorithmCycle[(i+1)%len(algorithmCycle)]
			break
		}
	}
	if err := v.scene.SetAlgorithm(v.selected, next); err != nil {
		return err
	}
	v.reroute()
	return nil
}

// Draw renders the scene scaled to fit the screen above a status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	if width < 2 || height < 2 {
		v.screen.Show()
		return
	}

	pr := v.projection(width, height-1)
	if c, err := canvas.NewMatrixCanvas(width, height-1); err == nil {
		results := make([]core.RouteResult, len(v.routes))
		for i, r := range v.routes {
			results[i] = r.Result
		}
		c.DrawScene(pr, v.scene.Obstacles(), results)
		v.blit(c)
		v.highlight(pr)
	}

	v.drawStatus(height-1, width)
	v.screen.Show()
}

// projection fits the scene into cols x rows cells.
func (v *Viewer) projection(cols, rows int) canvas.Projection {
	bounds := v.scene.Bounds(v.routes, 2*v.scene.Config.GridSize)
	scale := math.Max(bounds.W/float64(max(cols-1, 1)), bounds.H/float64(max(rows-1, 1)))
	if scale <= 0 {
		scale = 1
	}
	return canvas.Projection{Bounds: bounds, Scale: scale}
}

func (v *Viewer) blit(c *canvas.MatrixCanvas) {
	for y, row := range c.Matrix() {
		for x, r := range row {
			if r == '\x00' {
				continue
			}
			v.screen.SetContent(x, y, r, nil, styleDefault)
		}
	}
}

// highlight recolours the cells of the selected route.
func (v *Viewer) highlight(pr canvas.Projection) {
	if v.selected >= len(v.routes) {
		return
	}
	route := v.routes[v.selected].Result
	style := styleSelected
	if !route.Success {
		style = styleFailed
	}

	for i := 0; i < len(route.Points)-1; i++ {
		a, b := pr.Cell(route.Points[i]), pr.Cell(route.Points[i+1])
		if a.X != b.X && a.Y != b.Y {
			v.restyle(a, style)
			v.restyle(b, style)
			continue
		}
		dx, dy := sign(b.X-a.X), sign(b.Y-a.Y)
		for p := a; ; p = (canvas.Cell{X: p.X + dx, Y: p.Y + dy}) {
			v.restyle(p, style)
			if p == b {
				break
			}
		}
	}
}

func (v *Viewer) restyle(p canvas.Cell, style tcell.Style) {
	r, comb, _, _ := v.screen.GetContent(p.X, p.Y)
	v.screen.SetContent(p.X, p.Y, r, comb, style)
}

func (v *Viewer) drawStatus(y, width int) {
	for x := 0; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	text := "no connectors  q:quit"
	if len(v.routes) > 0 {
		r := v.routes[v.selected]
		state := "ok"
		if !r.Result.Success {
			state = "FAILED"
		}
		text = fmt.Sprintf("%s [%s] %s cost=%.0f  tab:next a:algorithm arrows:move q:quit",
			r.ID, v.scene.Algorithm(v.selected), state, r.Result.Cost)
	}

	x := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if x+w > width {
			break
		}
		v.screen.SetContent(x, y, r, nil, styleStatus)
		x += w
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
