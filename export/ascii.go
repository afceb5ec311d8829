package export

import (
	"fmt"

	"github.com/korylee/diagen/canvas"
	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/scene"
)

// DefaultScale is the number of canvas units per character cell.
const DefaultScale = 10.0

// ASCIIExporter draws scenes as Unicode box art
type ASCIIExporter struct {
	scale float64
}

// NewASCIIExporter creates an ASCII exporter drawing scale canvas units per character.
func NewASCIIExporter(scale float64) *ASCIIExporter {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &ASCIIExporter{scale: scale}
}

// Export draws every element with its padding and every route.
func (e *ASCIIExporter) Export(s *scene.Scene, routes []scene.Routed) (string, error) {
	if s == nil {
		return "", ErrNilScene
	}

	results := make([]core.RouteResult, len(routes))
	for i, r := range routes {
		results[i] = r.Result
	}

	bounds := s.Bounds(routes, 2*e.scale)
	c, err := canvas.Render(bounds, e.scale, s.Obstacles(), results)
	if err != nil {
		return "", fmt.Errorf("failed to render scene: %w", err)
	}
	return c.String(), nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII/Unicode Art"
}
