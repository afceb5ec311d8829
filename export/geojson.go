package export

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/korylee/diagen/core"
	"github.com/korylee/diagen/scene"
)

// GeoJSONExporter writes elements as polygons and routes as line strings in canvas
// coordinates.
type GeoJSONExporter struct{}

// NewGeoJSONExporter creates a new GeoJSON exporter
func NewGeoJSONExporter() *GeoJSONExporter {
	return &GeoJSONExporter{}
}

// Export builds the feature collection and encodes it.
func (e *GeoJSONExporter) Export(s *scene.Scene, routes []scene.Routed) (string, error) {
	fc, err := FeatureCollection(s, routes)
	if err != nil {
		return "", err
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("encoding geojson: %w", err)
	}
	return string(data), nil
}

// FeatureCollection returns one Polygon feature per element and one LineString feature
// per route. Route features carry id, success, cost and length properties.
func FeatureCollection(s *scene.Scene, routes []scene.Routed) (*geojson.FeatureCollection, error) {
	if s == nil {
		return nil, ErrNilScene
	}
	fc := geojson.NewFeatureCollection()

	for _, el := range s.Elements {
		f := geojson.NewFeature(rectPolygon(el.Props.Rect()))
		f.Properties["id"] = el.ID
		f.Properties["kind"] = "element"
		fc.Append(f)
	}

	for _, r := range routes {
		line := make(orb.LineString, len(r.Result.Points))
		for i, p := range r.Result.Points {
			line[i] = orb.Point{p.X, p.Y}
		}

		f := geojson.NewFeature(line)
		f.Properties["id"] = r.ID
		f.Properties["kind"] = "route"
		f.Properties["success"] = r.Result.Success
		f.Properties["cost"] = r.Result.Cost
		f.Properties["length"] = planar.Length(line)
		fc.Append(f)
	}

	return fc, nil
}

func rectPolygon(r core.Rect) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.Right(), r.Bottom()},
		{r.X, r.Bottom()},
		{r.X, r.Y},
	}}
}

// GetFileExtension returns the file extension for GeoJSON
func (e *GeoJSONExporter) GetFileExtension() string {
	return ".geojson"
}

// GetFormatName returns the format name
func (e *GeoJSONExporter) GetFormatName() string {
	return "GeoJSON"
}
