package canvas

import (
	"fmt"
	"math"

	"github.com/korylee/diagen/core"
)

// Projection maps canvas units onto character cells.
type Projection struct {
	Bounds core.Rect // Area of the plane that is drawn
	Scale  float64   // Canvas units per character cell
}

// Cell returns the character cell nearest to p.
func (pr Projection) Cell(p core.Point) Cell {
	return Cell{
		X: int(math.Round((p.X - pr.Bounds.X) / pr.Scale)),
		Y: int(math.Round((p.Y - pr.Bounds.Y) / pr.Scale)),
	}
}

// Point returns the canvas position of a character cell.
func (pr Projection) Point(c Cell) core.Point {
	return core.Point{
		X: pr.Bounds.X + float64(c.X)*pr.Scale,
		Y: pr.Bounds.Y + float64(c.Y)*pr.Scale,
	}
}

// Size returns the number of columns and rows needed to show Bounds.
func (pr Projection) Size() (width, height int) {
	return int(math.Ceil(pr.Bounds.W/pr.Scale)) + 1,
		int(math.Ceil(pr.Bounds.H/pr.Scale)) + 1
}

// Render draws the obstacles and routes visible in bounds. Each obstacle shows its padded
// zone dotted around its solid outline and its id; successful routes are drawn as
// orthogonal lines, failed ones as a starred straight line.
func Render(bounds core.Rect, scale float64, obstacles []core.Obstacle, routes []core.RouteResult) (*MatrixCanvas, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("%w: scale %v", ErrInvalidSize, scale)
	}
	pr := Projection{Bounds: bounds.Normalize(), Scale: scale}

	width, height := pr.Size()
	c, err := NewMatrixCanvas(width, height)
	if err != nil {
		return nil, err
	}

	c.DrawScene(pr, obstacles, routes)
	return c, nil
}

// DrawScene draws obstacles and routes through pr onto the canvas.
func (c *MatrixCanvas) DrawScene(pr Projection, obstacles []core.Obstacle, routes []core.RouteResult) {
	for _, o := range obstacles {
		c.drawRect(pr, o.Padded().Normalize(), DottedBox)
	}
	for _, o := range obstacles {
		r := o.Bounds.Normalize()
		c.drawRect(pr, r, SolidBox)

		tl := pr.Cell(core.Point{X: r.X, Y: r.Y})
		br := pr.Cell(core.Point{X: r.Right(), Y: r.Bottom()})
		if o.ID != "" && br.X-tl.X > 1 && br.Y-tl.Y > 1 {
			label := o.ID
			if room := br.X - tl.X - 1; len([]rune(label)) > room {
				label = string([]rune(label)[:room])
			}
			_ = c.DrawText(tl.X+1, tl.Y+1, label)
		}
	}

	for _, route := range routes {
		c.drawRoute(pr, route)
	}
}

func (c *MatrixCanvas) drawRect(pr Projection, r core.Rect, style BoxStyle) {
	tl := pr.Cell(core.Point{X: r.X, Y: r.Y})
	br := pr.Cell(core.Point{X: r.Right(), Y: r.Bottom()})
	_ = c.DrawBox(tl.X, tl.Y, br.X-tl.X+1, br.Y-tl.Y+1, style)
}

func (c *MatrixCanvas) drawRoute(pr Projection, route core.RouteResult) {
	if len(route.Points) < 2 {
		return
	}

	cells := make([]Cell, 0, len(route.Points))
	for _, p := range route.Points {
		cell := pr.Cell(p)
		if n := len(cells); n > 0 && cells[n-1] == cell {
			continue
		}
		cells = append(cells, cell)
	}

	first := cells[0]
	last := cells[len(cells)-1]

	if route.Success && len(cells) > 1 {
		_ = c.DrawPath(cells)
	} else if !route.Success {
		c.DrawLine(first, last, '*')
	}

	c.setClipped(first.X, first.Y, 'o')
	if len(cells) > 1 {
		c.setClipped(last.X, last.Y, arrowHead(cells[len(cells)-2], last))
	}
}

// arrowHead returns the arrow pointing from prev into last.
func arrowHead(prev, last Cell) rune {
	switch direction(prev, last) {
	case 'E':
		return '▶'
	case 'W':
		return '◀'
	case 'S':
		return '▼'
	default:
		return '▲'
	}
}
