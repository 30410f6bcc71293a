// Package geojson validates GeoJSON geometry objects before they are handed to
// PostGIS. Coordinates are kept raw; topology checks are left to the database.
package geojson

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

const (
	TypePoint           = "Point"
	TypeMultiPoint      = "MultiPoint"
	TypeLineString      = "LineString"
	TypeMultiLineString = "MultiLineString"
	TypePolygon         = "Polygon"
	TypeMultiPolygon    = "MultiPolygon"
)

var supported = map[string]bool{
	TypePoint:           true,
	TypeMultiPoint:      true,
	TypeLineString:      true,
	TypeMultiLineString: true,
	TypePolygon:         true,
	TypeMultiPolygon:    true,
}

var (
	ErrEmpty           = errors.New("geometry is empty")
	ErrUnsupportedType = errors.New("unsupported geometry type")
	ErrNoCoordinates   = errors.New("geometry has no coordinates")
	ErrOutOfRange      = errors.New("coordinate out of range")
)

type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParseGeometry decodes and sanity-checks a GeoJSON geometry object.
func ParseGeometry(raw []byte) (*Geometry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrEmpty
	}

	var g Geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("invalid geojson: %w", err)
	}
	if !supported[g.Type] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, g.Type)
	}
	coords := bytes.TrimSpace(g.Coordinates)
	if len(coords) == 0 || bytes.Equal(coords, []byte("null")) || bytes.Equal(coords, []byte("[]")) {
		return nil, ErrNoCoordinates
	}

	if g.Type == TypePoint {
		if _, _, err := g.LatLng(); err != nil {
			return nil, err
		}
	} else {
		var nested []json.RawMessage
		if err := json.Unmarshal(coords, &nested); err != nil {
			return nil, fmt.Errorf("invalid %s coordinates: %w", g.Type, err)
		}
		if len(nested) == 0 {
			return nil, ErrNoCoordinates
		}
	}
	return &g, nil
}

// Present reports whether raw holds something other than nothing or a JSON null.
func Present(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// LatLng returns the position of a Point geometry.
func (g Geometry) LatLng() (lat, lng float64, err error) {
	if g.Type != TypePoint {
		return 0, 0, fmt.Errorf("%w: %s has no single position", ErrUnsupportedType, g.Type)
	}
	var pos []float64
	if err := json.Unmarshal(g.Coordinates, &pos); err != nil {
		return 0, 0, fmt.Errorf("invalid point coordinates: %w", err)
	}
	if len(pos) < 2 {
		return 0, 0, ErrNoCoordinates
	}
	lng, lat = pos[0], pos[1]
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("%w: [%g, %g]", ErrOutOfRange, lng, lat)
	}
	return lat, lng, nil
}

// PointFromLatLng builds a Point. GeoJSON orders positions as [lng, lat].
func PointFromLatLng(lat, lng float64) Geometry {
	coords, _ := json.Marshal([]float64{lng, lat})
	return Geometry{Type: TypePoint, Coordinates: coords}
}

func (g Geometry) String() string {
	b, err := json.Marshal(g)
	if err != nil {
		return ""
	}
	return string(b)
}
