package hexgrid

import (
	"sort"

	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/geojson"
)

// Neighbor position to offset-coordinate shifts for an odd-row offset layout.
// The j shift is row-parity independent; the i shift depends on whether the
// current row is even or odd.
var (
	shiftNeighborJ     = map[int]int{0: 1, 1: 0, 2: -1, 3: -1, 4: 0, 5: 1}
	shiftNeighborIEven = map[int]int{0: 0, 1: 1, 2: 0, 3: -1, 4: -1, 5: -1}
	shiftNeighborIOdd  = map[int]int{0: 1, 1: 1, 2: 1, 3: 0, 4: -1, 5: 0}
)

// GridCell is a cell placed on a rectangular grid.
type GridCell struct {
	Cell        Cell
	Key         int
	Coordinates [2]int
}

// Geometry implements geojson.Feature.
func (g GridCell) Geometry() orb.Geometry {
	return g.Cell.Polygon()
}

// Properties implements geojson.Feature.
func (g GridCell) Properties() orbjson.Properties {
	properties := g.Cell.Properties()
	properties["key"] = g.Key
	properties["coordinates"] = []int{g.Coordinates[0], g.Coordinates[1]}
	return properties
}

// Grid is a rectangular odd-row offset grid of hex cells, filled by expanding
// outward from a seed cell placed at the grid center.
type Grid struct {
	height  int
	width   int
	bearing float64
	cells   map[int]GridCell
}

// NewGrid creates an empty grid. The bearing rotates the neighbor ordering
// used during expansion, effectively rotating the whole grid on the globe.
func NewGrid(height, width int, bearing float64) (*Grid, error) {
	if height <= 0 || width <= 0 {
		return nil, custom_errors.CreateInvalidArgumentErrorWithMessage("map dimensions must be positive")
	}
	return &Grid{
		height:  height,
		width:   width,
		bearing: bearing,
		cells:   make(map[int]GridCell),
	}, nil
}

func (g *Grid) Height() int {
	return g.height
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Len() int {
	return len(g.cells)
}

// KeyFor converts offset coordinates into a flat cell key.
func (g *Grid) KeyFor(i, j int) int {
	return i + g.width*j
}

// CoordinatesFor converts a flat cell key back into offset coordinates.
func (g *Grid) CoordinatesFor(key int) (int, int) {
	return key % g.width, key / g.width
}

// At returns the grid cell at the given offset coordinates.
func (g *Grid) At(i, j int) (GridCell, bool) {
	cell, ok := g.cells[g.KeyFor(i, j)]
	return cell, ok
}

// ByKey returns the grid cell with the given flat key.
func (g *Grid) ByKey(key int) (GridCell, bool) {
	cell, ok := g.cells[key]
	return cell, ok
}

// ExpandFromCell fills the grid by breadth-first search from the seed cell,
// which is placed at the grid center. Any previous content is discarded.
// Expansion fails if a pentagon is reached, since pentagons break the
// six-neighbor offset layout.
func (g *Grid) ExpandFromCell(seed Cell) error {
	g.cells = make(map[int]GridCell, g.height*g.width)

	type queued struct {
		i, j int
		cell Cell
	}
	queue := []queued{{i: g.width / 2, j: g.height / 2, cell: seed}}
	visited := map[string]bool{seed.String(): true}

	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		if entry.cell.IsPentagon() {
			return custom_errors.CreateInvalidGeometryErrorWithMessage("cannot build grid with pentagons")
		}

		key := g.KeyFor(entry.i, entry.j)
		g.cells[key] = GridCell{
			Cell:        entry.cell,
			Key:         key,
			Coordinates: [2]int{entry.i, entry.j},
		}

		for position, neighbor := range entry.cell.NeighborMap(g.bearing) {
			if visited[neighbor.Cell.String()] {
				continue
			}
			visited[neighbor.Cell.String()] = true

			shiftI := shiftNeighborIEven[position]
			if entry.j%2 != 0 {
				shiftI = shiftNeighborIOdd[position]
			}
			neighborI := entry.i + shiftI
			neighborJ := entry.j + shiftNeighborJ[position]

			if neighborI >= 0 && neighborI < g.width && neighborJ >= 0 && neighborJ < g.height {
				queue = append(queue, queued{i: neighborI, j: neighborJ, cell: neighbor.Cell})
			}
		}
	}
	return nil
}

// ExpandFromPoint indexes the point at the given resolution and expands from
// the resulting cell.
func (g *Grid) ExpandFromPoint(point Point, resolution int) error {
	cell, err := CellFromPoint(point, resolution)
	if err != nil {
		return err
	}
	return g.ExpandFromCell(cell)
}

// Features implements geojson.Collection, ordered by cell key.
func (g *Grid) Features() []geojson.Feature {
	keys := make([]int, 0, len(g.cells))
	for key := range g.cells {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	features := make([]geojson.Feature, 0, len(keys))
	for _, key := range keys {
		features = append(features, g.cells[key])
	}
	return features
}
