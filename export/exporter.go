// Package export writes routed scenes to text-based formats.
package export

import (
	"errors"
	"fmt"

	"github.com/korylee/diagen/scene"
)

// ErrNilScene is returned when there is nothing to export.
var ErrNilScene = errors.New("scene is nil")

// Format represents an export format
type Format string

const (
	// FormatASCII draws the scene as Unicode box art
	FormatASCII Format = "ascii"
	// FormatGeoJSON exports elements as polygons and routes as line strings
	FormatGeoJSON Format = "geojson"
	// FormatJSON dumps the routing results
	FormatJSON Format = "json"
)

// Exporter converts a routed scene to a target format.
type Exporter interface {
	// Export renders the scene and its routes
	Export(s *scene.Scene, routes []scene.Routed) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(DefaultScale), nil
	case FormatGeoJSON:
		return NewGeoJSONExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "geojson":
		return FormatGeoJSON, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatGeoJSON,
		FormatJSON,
	}
}
