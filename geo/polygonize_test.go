package geo

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"

	"github.com/hexmaps/hexmaps/custom_errors"
)

func closedSquare(minX, minY, maxX, maxY float64) orb.LineString {
	return orb.LineString{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}
}

func TestPolygonize_StitchesOpenChainsIntoAPolygon(t *testing.T) {
	lines := []orb.LineString{
		{{0, 0}, {1, 0}, {1, 1}},
		{{1, 1}, {0, 1}, {0, 0}},
	}

	polygons, leftover, err := Polygonize(lines, PolygonizeOptions{})

	assert.NoError(t, err)
	assert.Len(t, polygons, 1)
	assert.Empty(t, leftover)

	ring := polygons[0][0]
	assert.Equal(t, ring[0], ring[len(ring)-1], "exterior ring must be closed")
	assert.Equal(t, orb.CCW, ring.Orientation(), "exterior ring must be counterclockwise")
}

func TestPolygonize_ReversesChainsWhenNeeded(t *testing.T) {
	// Both chains run in the same direction, so one has to be reversed to
	// stitch them into a ring.
	lines := []orb.LineString{
		{{0, 0}, {1, 0}, {1, 1}},
		{{0, 0}, {0, 1}, {1, 1}},
	}

	polygons, leftover, err := Polygonize(lines, PolygonizeOptions{})

	assert.NoError(t, err)
	assert.Len(t, polygons, 1)
	assert.Empty(t, leftover)
}

func TestPolygonize_NestsInnerRingAsHole(t *testing.T) {
	lines := []orb.LineString{
		closedSquare(0, 0, 4, 4),
		closedSquare(1, 1, 2, 2),
	}

	polygons, leftover, err := Polygonize(lines, PolygonizeOptions{})

	assert.NoError(t, err)
	assert.Empty(t, leftover)
	assert.Len(t, polygons, 1)
	assert.Len(t, polygons[0], 2, "inner ring should become a hole")
	assert.Equal(t, orb.CCW, polygons[0][0].Orientation())
	assert.Equal(t, orb.CW, polygons[0][1].Orientation())
}

func TestPolygonize_IslandInsideHoleBecomesItsOwnPolygon(t *testing.T) {
	lines := []orb.LineString{
		closedSquare(0, 0, 10, 10),
		closedSquare(2, 2, 8, 8),
		closedSquare(4, 4, 6, 6),
	}

	polygons, _, err := Polygonize(lines, PolygonizeOptions{})

	assert.NoError(t, err)
	assert.Len(t, polygons, 2)
	assert.Len(t, polygons[0], 2, "largest ring carries the hole")
	assert.Len(t, polygons[1], 1, "island is a separate polygon")
}

func TestPolygonize_DanglingLines(t *testing.T) {
	lines := []orb.LineString{
		closedSquare(0, 0, 1, 1),
		{{5, 5}, {6, 6}},
	}

	t.Run("rejected by default", func(t *testing.T) {
		_, _, err := Polygonize(lines, PolygonizeOptions{})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, custom_errors.ErrInvalidGeometry))
	})

	t.Run("kept when allowed", func(t *testing.T) {
		polygons, leftover, err := Polygonize(lines, PolygonizeOptions{AllowDangles: true})
		assert.NoError(t, err)
		assert.Len(t, polygons, 1)
		assert.Len(t, leftover, 1)
	})
}

func TestPolygonize_DegenerateRings(t *testing.T) {
	lines := []orb.LineString{
		// A zero-area "ring" going out and back along the same segment.
		{{0, 0}, {1, 1}, {0, 0}},
	}

	t.Run("rejected by default", func(t *testing.T) {
		_, _, err := Polygonize(lines, PolygonizeOptions{})
		assert.Error(t, err)
	})

	t.Run("kept when allowed", func(t *testing.T) {
		polygons, leftover, err := Polygonize(lines, PolygonizeOptions{AllowInvalids: true})
		assert.NoError(t, err)
		assert.Empty(t, polygons)
		assert.Len(t, leftover, 1)
	})
}

func TestPolygonize_EmptyInput(t *testing.T) {
	polygons, leftover, err := Polygonize(nil, PolygonizeOptions{})

	assert.NoError(t, err)
	assert.Empty(t, polygons)
	assert.Empty(t, leftover)
}

func TestOrientPolygon(t *testing.T) {
	exterior := orb.Ring{{0, 0}, {0, 4}, {4, 4}, {4, 0}, {0, 0}} // clockwise
	hole := orb.Ring{{1, 1}, {2, 1}, {2, 2}, {1, 2}, {1, 1}}     // counterclockwise

	oriented := OrientPolygon(orb.Polygon{exterior, hole})

	assert.Equal(t, orb.CCW, oriented[0].Orientation())
	assert.Equal(t, orb.CW, oriented[1].Orientation())
}
