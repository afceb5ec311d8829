// Package obstacles turns diagram shapes into padded keep-out zones and answers
// collision queries against them.
package obstacles

import (
	"github.com/korylee/diagen/core"
)

// DefaultPadding is the padding applied to shapes projected into obstacles.
const DefaultPadding = 10.0

// ElementProps holds the geometry of a diagram shape.
type ElementProps struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect returns the normalized bounding rectangle of the shape.
func (p ElementProps) Rect() core.Rect {
	return core.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}.Normalize()
}

// Element is a shape-like record of the diagram model.
type Element struct {
	ID    string       `json:"id"`
	Props ElementProps `json:"props"`
}

// CreateObstacleFromRect builds an obstacle from a rectangle.
func CreateObstacleFromRect(id string, rect core.Rect, padding float64) core.Obstacle {
	return core.Obstacle{
		ID:      id,
		Bounds:  rect,
		Padding: padding,
	}
}

// CreateObstaclesFromElements projects shapes into obstacles with DefaultPadding,
// skipping the elements whose id is listed in excludeIDs.
func CreateObstaclesFromElements(elements []Element, excludeIDs []string) []core.Obstacle {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	result := make([]core.Obstacle, 0, len(elements))
	for _, el := range elements {
		if excluded[el.ID] {
			continue
		}
		result = append(result, CreateObstacleFromRect(el.ID, el.Props.Rect(), DefaultPadding))
	}
	return result
}
