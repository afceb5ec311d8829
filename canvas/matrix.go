package canvas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
	ErrShortPath   = errors.New("path must have at least 2 points")
)

// Cell is a character position. Origin is top-left, X grows right and Y grows down.
type Cell struct {
	X, Y int
}

// MatrixCanvas is a rune matrix with line drawing primitives.
//
// MatrixCanvas is NOT thread-safe for writes; synchronize externally when sharing one.
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
	merger *CharacterMerger
}

// NewMatrixCanvas creates a blank canvas.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	matrix := make([][]rune, height)
	for y := range matrix {
		matrix[y] = make([]rune, width)
		for x := range matrix[y] {
			matrix[y][x] = ' '
		}
	}

	return &MatrixCanvas{
		matrix: matrix,
		width:  width,
		height: height,
		merger: NewCharacterMerger(),
	}, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Matrix returns direct access to the underlying rune matrix.
func (c *MatrixCanvas) Matrix() [][]rune {
	return c.matrix
}

func (c *MatrixCanvas) inBounds(p Cell) bool {
	return p.X >= 0 && p.X < c.width && p.Y >= 0 && p.Y < c.height
}

// Get returns the character at p, or ' ' outside the canvas.
func (c *MatrixCanvas) Get(p Cell) rune {
	if !c.inBounds(p) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set merges a character into the cell at p.
func (c *MatrixCanvas) Set(p Cell, char rune) error {
	if !c.inBounds(p) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = c.merger.Merge(c.matrix[p.Y][p.X], char)
	return nil
}

// setClipped merges a character, ignoring positions outside the canvas.
func (c *MatrixCanvas) setClipped(x, y int, char rune) {
	_ = c.Set(Cell{x, y}, char)
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := range c.matrix {
		for x := range c.matrix[y] {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the canvas rows joined by newlines, trailing spaces trimmed.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y, row := range c.matrix {
		line := make([]rune, 0, len(row))
		for _, r := range row {
			if r == '\x00' {
				continue // wide character continuation
			}
			line = append(line, r)
		}
		sb.WriteString(strings.TrimRight(string(line), " "))
		if y < c.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// DrawBox draws a rectangle outline clipped to the canvas.
func (c *MatrixCanvas) DrawBox(x, y, width, height int, style BoxStyle) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: box %dx%d", ErrInvalidSize, width, height)
	}
	right, bottom := x+width-1, y+height-1

	for i := x + 1; i < right; i++ {
		c.setClipped(i, y, style.Horizontal)
		c.setClipped(i, bottom, style.Horizontal)
	}
	for i := y + 1; i < bottom; i++ {
		c.setClipped(x, i, style.Vertical)
		c.setClipped(right, i, style.Vertical)
	}
	c.setClipped(x, y, style.TopLeft)
	c.setClipped(right, y, style.TopRight)
	c.setClipped(x, bottom, style.BottomLeft)
	c.setClipped(right, bottom, style.BottomRight)
	return nil
}

// DrawHorizontalLine draws a horizontal line clipped to the canvas.
func (c *MatrixCanvas) DrawHorizontalLine(x1, y, x2 int, char rune) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := max(x1, 0); x <= min(x2, c.width-1); x++ {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
	return nil
}

// DrawVerticalLine draws a vertical line clipped to the canvas.
func (c *MatrixCanvas) DrawVerticalLine(x, y1, y2 int, char rune) error {
	if x < 0 || x >= c.width {
		return ErrOutOfBounds
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := max(y1, 0); y <= min(y2, c.height-1); y++ {
		c.matrix[y][x] = c.merger.Merge(c.matrix[y][x], char)
	}
	return nil
}

// DrawLine draws a line between two cells using Bresenham's algorithm.
func (c *MatrixCanvas) DrawLine(p1, p2 Cell, char rune) {
	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)
	x, y := p1.X, p1.Y

	xInc := 1
	if p1.X > p2.X {
		xInc = -1
	}
	yInc := 1
	if p1.Y > p2.Y {
		yInc = -1
	}

	if dx > dy {
		err := dx / 2
		for x != p2.X {
			c.setClipped(x, y, char)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != p2.Y {
			c.setClipped(x, y, char)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}
	c.setClipped(p2.X, p2.Y, char)
}

// DrawText writes text starting at (x, y) without merging, clipped to the canvas.
// Wide characters take two cells.
func (c *MatrixCanvas) DrawText(x, y int, text string) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}

	cur := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if cur+w > c.width {
			break
		}
		if cur >= 0 {
			c.matrix[y][cur] = r
			if w == 2 {
				c.matrix[y][cur+1] = '\x00'
			}
		}
		cur += w
	}
	return nil
}

// DrawPath draws an orthogonal polyline with rounded corners at the joints.
// Oblique segments are drawn as dotted straight lines.
func (c *MatrixCanvas) DrawPath(points []Cell) error {
	if len(points) < 2 {
		return ErrShortPath
	}

	for i := 0; i < len(points)-1; i++ {
		p1, p2 := points[i], points[i+1]
		switch {
		case p1 == p2:
		case p1.Y == p2.Y:
			_ = c.DrawHorizontalLine(p1.X, p1.Y, p2.X, '─')
		case p1.X == p2.X:
			_ = c.DrawVerticalLine(p1.X, p1.Y, p2.Y, '│')
		default:
			c.DrawLine(p1, p2, '*')
		}
	}

	for i := 1; i < len(points)-1; i++ {
		if points[i-1] == points[i] || points[i] == points[i+1] {
			continue
		}
		if corner, ok := selectCorner(points[i-1], points[i], points[i+1]); ok {
			c.overwrite(points[i], corner)
		}
	}
	return nil
}

// overwrite replaces a line character at p with char.
func (c *MatrixCanvas) overwrite(p Cell, char rune) {
	if !c.inBounds(p) || isMarker(c.matrix[p.Y][p.X]) {
		return
	}
	c.matrix[p.Y][p.X] = char
}

// selectCorner picks the corner character joining prev -> curr -> next.
func selectCorner(prev, curr, next Cell) (rune, bool) {
	from := direction(prev, curr)
	to := direction(curr, next)

	switch {
	case from == 'E' && to == 'S', from == 'N' && to == 'W':
		return '╮', true
	case from == 'E' && to == 'N', from == 'S' && to == 'W':
		return '╯', true
	case from == 'W' && to == 'S', from == 'N' && to == 'E':
		return '╭', true
	case from == 'W' && to == 'N', from == 'S' && to == 'E':
		return '╰', true
	}
	return 0, false
}

// direction returns the compass direction from p1 to p2 along the dominant axis.
func direction(p1, p2 Cell) rune {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	switch {
	case abs(dx) >= abs(dy) && dx > 0:
		return 'E'
	case abs(dx) >= abs(dy) && dx < 0:
		return 'W'
	case dy > 0:
		return 'S'
	default:
		return 'N'
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
