package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/hexmaps/hexmaps/custom_errors"
)

// Bearing returns the initial great circle bearing from one point to another,
// normalized to [0, 360) with 0 pointing north.
func Bearing(from, to orb.Point) float64 {
	return NormalizeBearing(orbgeo.Bearing(from, to))
}

// Distance returns the great circle distance between two points in meters.
func Distance(from, to orb.Point) float64 {
	return orbgeo.Distance(from, to)
}

// Centroid computes the geographic centroid of a coordinate sequence by
// averaging the unit vectors of each coordinate. Unlike a naive lon/lat mean
// this stays correct across the antimeridian and near the poles.
func Centroid(coords []orb.Point) (orb.Point, error) {
	if len(coords) == 0 {
		return orb.Point{}, custom_errors.CreateInvalidArgumentErrorWithMessage("centroid of empty coordinate sequence")
	}

	var x, y, z float64
	for _, c := range coords {
		lonRad := c.Lon() * math.Pi / 180
		latRad := c.Lat() * math.Pi / 180
		x += math.Cos(latRad) * math.Cos(lonRad)
		y += math.Cos(latRad) * math.Sin(lonRad)
		z += math.Sin(latRad)
	}
	n := float64(len(coords))
	x, y, z = x/n, y/n, z/n

	lon := math.Atan2(y, x) * 180 / math.Pi
	lat := math.Atan2(z, math.Sqrt(x*x+y*y)) * 180 / math.Pi
	return orb.Point{lon, lat}, nil
}
