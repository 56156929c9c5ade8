package hexgrid

import (
	"math/rand"
	"testing"

	"github.com/brianvoe/gofakeit"
	"github.com/stretchr/testify/assert"
)

// Paris is comfortably far away from every H3 pentagon at any resolution.
const (
	parisLon = 2.3522
	parisLat = 48.8566
)

func parisCell(t *testing.T, resolution int) Cell {
	t.Helper()
	point, err := NewPoint(parisLon, parisLat)
	assert.NoError(t, err)
	cell, err := point.Cell(resolution)
	assert.NoError(t, err)
	return cell
}

func TestNewPoint(t *testing.T) {
	_, err := NewPoint(2.35, 48.85)
	assert.NoError(t, err)

	_, err = NewPoint(181, 0)
	assert.Error(t, err)

	_, err = NewPoint(0, -91)
	assert.Error(t, err)
}

func TestPoint_Cell_RejectsBadResolution(t *testing.T) {
	point, err := NewPoint(parisLon, parisLat)
	assert.NoError(t, err)

	_, err = point.Cell(-1)
	assert.Error(t, err)

	_, err = point.Cell(16)
	assert.Error(t, err)
}

func TestCellCenterStaysCloseToIndexedPoint(t *testing.T) {
	gofakeit.Seed(11)

	for i := 0; i < 25; i++ {
		point, err := NewPoint(gofakeit.Longitude(), gofakeit.Latitude())
		assert.NoError(t, err)

		cell, err := point.Cell(6)
		assert.NoError(t, err)

		// The center of the containing cell must index back to the cell
		// itself, whatever corner of the globe the fake point landed on.
		center, err := NewPoint(cell.Center().Lon(), cell.Center().Lat())
		assert.NoError(t, err)
		indexed, err := center.Cell(6)
		assert.NoError(t, err)
		assert.True(t, cell.Equal(indexed), "cell center must index back to the same cell")
	}
}

func TestParseCellIndexRoundTrip(t *testing.T) {
	cell := parisCell(t, 7)

	parsed, err := ParseCellIndex(cell.String())
	assert.NoError(t, err)
	assert.True(t, cell.Equal(parsed))

	_, err = ParseCellIndex("not-hex!")
	assert.Error(t, err)
}

func TestCell_BearingAndDistance(t *testing.T) {
	cell := parisCell(t, 7)

	assert.Equal(t, 0.0, cell.Distance(cell))

	neighbors := cell.NeighborMap(0)
	for _, neighbor := range neighbors {
		d := cell.Distance(neighbor.Cell)
		// Resolution 7 cell centers are roughly 2.4 km apart.
		assert.Greater(t, d, 1000.0)
		assert.Less(t, d, 5000.0)

		b := cell.Bearing(neighbor.Cell)
		assert.GreaterOrEqual(t, b, 0.0)
		assert.Less(t, b, 360.0)
	}
}

func TestCell_NeighborMap(t *testing.T) {
	cell := parisCell(t, 7)

	neighbors := cell.NeighborMap(0)
	assert.Len(t, neighbors, 6)

	seen := map[string]bool{}
	previousAngle := -1.0
	for position := 0; position < 6; position++ {
		neighbor, ok := neighbors[position]
		assert.True(t, ok, "missing position %d", position)
		assert.Equal(t, position, neighbor.Position)
		assert.Greater(t, neighbor.Angle, previousAngle, "angles must be sorted")
		previousAngle = neighbor.Angle

		assert.False(t, seen[neighbor.Cell.String()], "neighbors must be distinct")
		seen[neighbor.Cell.String()] = true
	}
}

func TestCell_NeighborMapBearingRotatesPositions(t *testing.T) {
	cell := parisCell(t, 7)

	north := cell.NeighborMap(0)
	rotated := cell.NeighborMap(180)

	// Rotating the reference bearing by half a turn moves the "ahead"
	// neighbor to the opposite side of the ring.
	assert.False(t, north[0].Cell.Equal(rotated[0].Cell))

	oppositePosition := -1
	for position, neighbor := range rotated {
		if neighbor.Cell.Equal(north[0].Cell) {
			oppositePosition = position
		}
	}
	// Distortion of the hex ring can shift the exact slot by one.
	assert.Contains(t, []int{2, 3, 4}, oppositePosition)
}

func TestCell_PolygonIsClosedAndOriented(t *testing.T) {
	cell := parisCell(t, 7)

	polygon := cell.Polygon()
	assert.Len(t, polygon, 1)

	ring := polygon[0]
	assert.Len(t, ring, 7, "hexagon boundary plus closing vertex")
	assert.Equal(t, ring[0], ring[len(ring)-1])
}

func TestStraightWalkerMakesProgress(t *testing.T) {
	cell := parisCell(t, 7)

	steps, err := cell.StraightWalker(0, 10).Collect()
	assert.NoError(t, err)
	assert.Len(t, steps, 10)

	final := steps[len(steps)-1].Cell
	firstStepDistance := cell.Distance(steps[0].Cell)
	assert.Greater(t, cell.Distance(final), 5*firstStepDistance,
		"a straight walk should move away from the start")
}

func TestRandomWalkerIsReproducible(t *testing.T) {
	cell := parisCell(t, 7)

	first, err := cell.RandomWalker(rand.New(rand.NewSource(7)), 20).Collect()
	assert.NoError(t, err)
	second, err := cell.RandomWalker(rand.New(rand.NewSource(7)), 20).Collect()
	assert.NoError(t, err)

	assert.Len(t, first, 20)
	for i := range first {
		assert.True(t, first[i].Cell.Equal(second[i].Cell), "step %d diverged", i)
	}
}

func TestRandomWalkerStepsAreAdjacent(t *testing.T) {
	cell := parisCell(t, 7)

	steps, err := cell.RandomWalker(rand.New(rand.NewSource(3)), 15).Collect()
	assert.NoError(t, err)

	current := cell
	for _, step := range steps {
		d := current.Distance(step.Cell)
		assert.Less(t, d, 5000.0, "each step must move to an adjacent cell")
		current = step.Cell
	}
}

func TestWalker_NextStopsAfterConfiguredSteps(t *testing.T) {
	cell := parisCell(t, 7)
	walker := cell.StraightWalker(0, 2)

	_, ok, err := walker.Next()
	assert.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = walker.Next()
	assert.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = walker.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestWalker_CollectRejectsUnboundedWalks(t *testing.T) {
	cell := parisCell(t, 7)

	_, err := cell.StraightWalker(0, -1).Collect()
	assert.Error(t, err)
}

func TestNewGrid_RejectsNonPositiveDimensions(t *testing.T) {
	_, err := NewGrid(0, 4, 0)
	assert.Error(t, err)

	_, err = NewGrid(4, -1, 0)
	assert.Error(t, err)
}

func TestGrid_KeyCoordinateBijection(t *testing.T) {
	grid, err := NewGrid(5, 4, 0)
	assert.NoError(t, err)

	for j := 0; j < grid.Height(); j++ {
		for i := 0; i < grid.Width(); i++ {
			key := grid.KeyFor(i, j)
			gotI, gotJ := grid.CoordinatesFor(key)
			assert.Equal(t, i, gotI)
			assert.Equal(t, j, gotJ)
		}
	}
}

func TestGrid_ExpandFromCell(t *testing.T) {
	seed := parisCell(t, 7)

	grid, err := NewGrid(5, 4, 0)
	assert.NoError(t, err)
	assert.NoError(t, grid.ExpandFromCell(seed))

	assert.Equal(t, 20, grid.Len(), "expansion should fill the whole grid")

	// The seed sits at the grid center.
	center, ok := grid.At(grid.Width()/2, grid.Height()/2)
	assert.True(t, ok)
	assert.True(t, center.Cell.Equal(seed))

	// Every placed cell is unique and in bounds.
	seen := map[string]bool{}
	for j := 0; j < grid.Height(); j++ {
		for i := 0; i < grid.Width(); i++ {
			cell, ok := grid.At(i, j)
			assert.True(t, ok, "missing cell at (%d,%d)", i, j)
			assert.Equal(t, [2]int{i, j}, cell.Coordinates)
			assert.False(t, seen[cell.Cell.String()], "duplicate cell at (%d,%d)", i, j)
			seen[cell.Cell.String()] = true
		}
	}
}

func TestGrid_AdjacentColumnsAreAdjacentCells(t *testing.T) {
	grid, err := NewGrid(3, 3, 0)
	assert.NoError(t, err)
	assert.NoError(t, grid.ExpandFromCell(parisCell(t, 7)))

	left, ok := grid.At(0, 1)
	assert.True(t, ok)
	right, ok := grid.At(1, 1)
	assert.True(t, ok)

	// Cells in neighboring columns of the same row must be grid neighbors.
	assert.Less(t, left.Cell.Distance(right.Cell), 5000.0)
}

func TestGrid_Features(t *testing.T) {
	grid, err := NewGrid(3, 3, 0)
	assert.NoError(t, err)
	assert.NoError(t, grid.ExpandFromCell(parisCell(t, 7)))

	features := grid.Features()
	assert.Len(t, features, 9)

	// Ordered by key.
	previous := -1
	for _, feature := range features {
		key := feature.Properties()["key"].(int)
		assert.Greater(t, key, previous)
		previous = key
	}
}

func TestGrid_ExpandFromPoint(t *testing.T) {
	point, err := NewPoint(parisLon, parisLat)
	assert.NoError(t, err)

	grid, err := NewGrid(4, 4, 30)
	assert.NoError(t, err)
	assert.NoError(t, grid.ExpandFromPoint(point, 8))
	assert.Equal(t, 16, grid.Len())
}
