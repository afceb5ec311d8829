// Package canvas renders obstacles and routes into a character grid for terminals and
// debug output.
package canvas

// BoxStyle holds the characters of a rectangle outline.
type BoxStyle struct {
	TopLeft, TopRight       rune
	BottomLeft, BottomRight rune
	Horizontal, Vertical    rune
}

var (
	// SolidBox outlines element bounds.
	SolidBox = BoxStyle{'┌', '┐', '└', '┘', '─', '│'}
	// DottedBox outlines the padded keep-out zone.
	DottedBox = BoxStyle{'·', '·', '·', '·', '·', '·'}
	// ASCIIBox is the 7-bit fallback.
	ASCIIBox = BoxStyle{'+', '+', '+', '+', '-', '|'}
)
