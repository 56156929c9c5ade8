package hexgrid

import (
	"sort"
	"strconv"

	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"
	"github.com/uber/h3-go/v4"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/geo"
)

// Cell is an H3 cell together with its center point.
type Cell struct {
	index  h3.Cell
	center Point
}

// NewCell wraps an H3 index and computes its center.
func NewCell(index h3.Cell) Cell {
	latLng := h3.CellToLatLng(index)
	return Cell{
		index:  index,
		center: Point{lon: latLng.Lng, lat: latLng.Lat},
	}
}

// CellFromPoint indexes a point at the given resolution.
func CellFromPoint(point Point, resolution int) (Cell, error) {
	return point.Cell(resolution)
}

// ParseCellIndex parses the hexadecimal H3 index representation used on the
// command line (e.g. "871fb4662ffffff").
func ParseCellIndex(s string) (Cell, error) {
	index, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return Cell{}, custom_errors.CreateInvalidArgumentErrorWithMessage("not a valid H3 cell index: " + s)
	}
	return NewCell(h3.Cell(index)), nil
}

// Index returns the raw H3 index.
func (c Cell) Index() h3.Cell {
	return c.index
}

// String returns the canonical hexadecimal H3 index representation.
func (c Cell) String() string {
	return strconv.FormatUint(uint64(c.index), 16)
}

// Center returns the cell's center point.
func (c Cell) Center() Point {
	return c.center
}

// Resolution returns the cell's H3 resolution.
func (c Cell) Resolution() int {
	return c.index.Resolution()
}

// IsPentagon reports whether the cell is one of the twelve pentagons of the
// H3 icosahedron.
func (c Cell) IsPentagon() bool {
	return c.index.IsPentagon()
}

// Equal compares cells by index.
func (c Cell) Equal(other Cell) bool {
	return c.index == other.index
}

// Bearing returns the initial bearing from this cell's center to another's,
// in [0, 360).
func (c Cell) Bearing(other Cell) float64 {
	return geo.Bearing(c.center.Orb(), other.center.Orb())
}

// Distance returns the great circle distance between cell centers in meters.
func (c Cell) Distance(other Cell) float64 {
	return geo.Distance(c.center.Orb(), other.center.Orb())
}

// NeighborMap returns the ring-1 neighbors keyed by position. Positions are
// assigned by sorting the neighbors by their bearing from this cell relative
// to the reference bearing, so position 0 is the neighbor most closely ahead.
func (c Cell) NeighborMap(bearing float64) map[int]Neighbor {
	ring := h3.GridDiskDistances(c.index, 1)[1]

	neighbors := make([]Neighbor, 0, len(ring))
	for _, index := range ring {
		neighbor := NewCell(index)
		angle := geo.NormalizeBearing(c.Bearing(neighbor) - bearing)
		neighbors = append(neighbors, Neighbor{Cell: neighbor, Angle: angle})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].Angle < neighbors[j].Angle
	})

	neighborMap := make(map[int]Neighbor, len(neighbors))
	for position, neighbor := range neighbors {
		neighbor.Position = position
		neighborMap[position] = neighbor
	}
	return neighborMap
}

// Polygon returns the cell outline as a closed counterclockwise ring.
func (c Cell) Polygon() orb.Polygon {
	boundary := h3.CellToBoundary(c.index)

	ring := make(orb.Ring, 0, len(boundary)+1)
	for _, vertex := range boundary {
		ring = append(ring, orb.Point{vertex.Lng, vertex.Lat})
	}
	ring = append(ring, ring[0])
	if ring.Orientation() != orb.CCW {
		ring.Reverse()
	}
	return orb.Polygon{ring}
}

// Geometry implements geojson.Feature.
func (c Cell) Geometry() orb.Geometry {
	return c.Polygon()
}

// Properties implements geojson.Feature.
func (c Cell) Properties() orbjson.Properties {
	return orbjson.Properties{"index": c.String()}
}

// Neighbor is a cell adjacent to another, at a bearing-ordered position.
type Neighbor struct {
	Cell     Cell
	Position int
	Angle    float64
}

// Geometry implements geojson.Feature.
func (n Neighbor) Geometry() orb.Geometry {
	return n.Cell.Polygon()
}

// Properties implements geojson.Feature.
func (n Neighbor) Properties() orbjson.Properties {
	properties := n.Cell.Properties()
	properties["position"] = n.Position
	properties["angle"] = n.Angle
	return properties
}
