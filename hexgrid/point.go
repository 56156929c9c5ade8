// Package hexgrid models H3 hexagonal cells and rectangular grids of them.
// It carries the core of hex map generation: converting WGS84 points to
// cells, ordering a cell's neighbors by bearing, walking across the hex
// plane and expanding a seed cell into an odd-row offset grid.
package hexgrid

import (
	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"
	"github.com/uber/h3-go/v4"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/geo"
)

// MaxResolution is the finest H3 resolution.
const MaxResolution = 15

// Point is a validated WGS84 coordinate.
type Point struct {
	lon float64
	lat float64
}

// NewPoint validates the coordinates and returns a Point.
func NewPoint(lon, lat float64) (Point, error) {
	if _, err := geo.ValidateWGS84(lon, lat); err != nil {
		return Point{}, err
	}
	return Point{lon: lon, lat: lat}, nil
}

func (p Point) Lon() float64 {
	return p.lon
}

func (p Point) Lat() float64 {
	return p.lat
}

// Orb returns the point in orb's longitude-first representation.
func (p Point) Orb() orb.Point {
	return orb.Point{p.lon, p.lat}
}

// Cell returns the H3 cell containing the point at the given resolution.
func (p Point) Cell(resolution int) (Cell, error) {
	if resolution < 0 || resolution > MaxResolution {
		return Cell{}, custom_errors.CreateInvalidArgumentErrorWithMessage("resolution must be between 0 and 15")
	}
	return NewCell(h3.LatLngToCell(h3.NewLatLng(p.lat, p.lon), resolution)), nil
}

// Geometry implements geojson.Feature.
func (p Point) Geometry() orb.Geometry {
	return p.Orb()
}

// Properties implements geojson.Feature.
func (p Point) Properties() orbjson.Properties {
	return orbjson.Properties{}
}
