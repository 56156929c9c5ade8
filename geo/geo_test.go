package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/hexmaps/hexmaps/custom_errors"
)

func TestValidateWGS84(t *testing.T) {
	tests := []struct {
		name    string
		lon     float64
		lat     float64
		wantErr bool
	}{
		{name: "valid coordinates", lon: 2.3522, lat: 48.8566},
		{name: "edge of range", lon: 180, lat: -90},
		{name: "longitude too large", lon: 180.1, lat: 0, wantErr: true},
		{name: "longitude too small", lon: -181, lat: 0, wantErr: true},
		{name: "latitude too large", lon: 0, lat: 90.5, wantErr: true},
		{name: "latitude too small", lon: 0, lat: -91, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, err := ValidateWGS84(tt.lon, tt.lat)

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, custom_errors.ErrInvalidArgument))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, orb.Point{tt.lon, tt.lat}, point)
		})
	}
}

func TestNormalizeBearing(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeBearing(0))
	assert.Equal(t, 90.0, NormalizeBearing(90))
	assert.Equal(t, 270.0, NormalizeBearing(-90))
	assert.Equal(t, 10.0, NormalizeBearing(370))
	assert.Equal(t, 0.0, NormalizeBearing(720))
}

func TestBearing(t *testing.T) {
	origin := orb.Point{0, 0}

	// Due north and due east from the equator are exact on a sphere.
	assert.InDelta(t, 0, Bearing(origin, orb.Point{0, 1}), 1e-6)
	assert.InDelta(t, 90, Bearing(origin, orb.Point{1, 0}), 1e-6)
	assert.InDelta(t, 180, Bearing(origin, orb.Point{0, -1}), 1e-6)
	assert.InDelta(t, 270, Bearing(origin, orb.Point{-1, 0}), 1e-6)
}

func TestDistance(t *testing.T) {
	// One degree of latitude is ~111.3 km on the sphere used by the
	// projections in this package.
	d := Distance(orb.Point{0, 0}, orb.Point{0, 1})
	assert.InDelta(t, 111319, d, 500)
}

func TestCentroid(t *testing.T) {
	t.Run("symmetric points", func(t *testing.T) {
		center, err := Centroid([]orb.Point{{9, 19}, {11, 19}, {9, 21}, {11, 21}})
		assert.NoError(t, err)
		assert.InDelta(t, 10, center.Lon(), 1e-6)
		assert.InDelta(t, 20, center.Lat(), 0.01)
	})

	t.Run("antimeridian", func(t *testing.T) {
		center, err := Centroid([]orb.Point{{179, 0}, {-179, 0}})
		assert.NoError(t, err)
		// The centroid must land on the antimeridian, not at longitude 0.
		assert.InDelta(t, 180, math.Abs(center.Lon()), 1e-6)
		assert.InDelta(t, 0, center.Lat(), 1e-6)
	})

	t.Run("empty sequence", func(t *testing.T) {
		_, err := Centroid(nil)
		assert.Error(t, err)
	})
}

func TestProjectorRoundTrip(t *testing.T) {
	center := orb.Point{2.3522, 48.8566}

	for _, kind := range []ProjectionKind{AzimuthalEquidistant, AzimuthalStereographic} {
		t.Run(string(kind), func(t *testing.T) {
			projector, err := NewProjector(kind, center)
			assert.NoError(t, err)

			// The center projects to the origin.
			origin := projector.Forward(center)
			assert.InDelta(t, 0, origin.X(), 1e-6)
			assert.InDelta(t, 0, origin.Y(), 1e-6)

			point := orb.Point{2.2945, 48.8584}
			projected := projector.Forward(point)
			back := projector.Inverse(projected)
			assert.InDelta(t, point.Lon(), back.Lon(), 1e-9)
			assert.InDelta(t, point.Lat(), back.Lat(), 1e-9)
		})
	}
}

func TestAzimuthalEquidistantPreservesDistance(t *testing.T) {
	center := orb.Point{13.4050, 52.5200}
	projector, err := NewProjector(AzimuthalEquidistant, center)
	assert.NoError(t, err)

	point := orb.Point{2.3522, 48.8566}
	projected := projector.Forward(point)
	planarDistance := math.Hypot(projected.X(), projected.Y())

	assert.InEpsilon(t, Distance(center, point), planarDistance, 1e-6)
}

func TestNewProjectorRejectsUnknownKind(t *testing.T) {
	_, err := NewProjector(ProjectionKind("mercator"), orb.Point{0, 0})
	assert.Error(t, err)
}

func TestProjectorCache(t *testing.T) {
	cache, err := NewProjectorCache(8)
	assert.NoError(t, err)

	center := orb.Point{10, 10}
	first, err := cache.Projector(AzimuthalEquidistant, center)
	assert.NoError(t, err)
	second, err := cache.Projector(AzimuthalEquidistant, center)
	assert.NoError(t, err)

	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, first.Center, second.Center)

	_, err = cache.Projector(AzimuthalStereographic, center)
	assert.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
}

func TestSnapToCellIsIdempotent(t *testing.T) {
	point := orb.Point{2.3522, 48.8566}

	once := SnapToCell(point, 7)
	twice := SnapToCell(once, 7)

	assert.InDelta(t, once.Lon(), twice.Lon(), 1e-12)
	assert.InDelta(t, once.Lat(), twice.Lat(), 1e-12)
	assert.NotEqual(t, point, once)
}
