// Package geo provides the spatial primitives shared by the hexmaps packages:
// WGS84 coordinate validation, spherical geodesy, azimuthal projections and
// polygonization of raw line work into rings and polygons.
package geo

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/hexmaps/hexmaps/custom_errors"
)

// ValidateWGS84 checks that a longitude/latitude pair is a valid WGS84
// coordinate and returns it as an orb.Point (longitude first, GeoJSON order).
func ValidateWGS84(lon, lat float64) (orb.Point, error) {
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return orb.Point{}, custom_errors.CreateInvalidArgumentErrorWithMessage("invalid longitude")
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return orb.Point{}, custom_errors.CreateInvalidArgumentErrorWithMessage("invalid latitude")
	}
	return orb.Point{lon, lat}, nil
}

// NormalizeBearing maps any angle in degrees onto [0, 360).
func NormalizeBearing(degrees float64) float64 {
	normalized := math.Mod(degrees, 360)
	if normalized < 0 {
		normalized += 360
	}
	return normalized
}
