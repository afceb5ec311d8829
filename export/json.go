package export

import (
	"encoding/json"

	"github.com/korylee/diagen/scene"
)

// JSONExporter dumps routing results as JSON
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export writes the routes with their anchors and results.
func (e *JSONExporter) Export(s *scene.Scene, routes []scene.Routed) (string, error) {
	if s == nil {
		return "", ErrNilScene
	}
	if routes == nil {
		routes = []scene.Routed{}
	}

	data, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
