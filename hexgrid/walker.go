package hexgrid

import (
	"math/rand"

	"github.com/hexmaps/hexmaps/custom_errors"
)

// NeighborSelector picks the next step of a walk from a cell's neighbor map.
type NeighborSelector func(cell Cell, neighbors map[int]Neighbor) (Neighbor, error)

// Walker steps across the hex plane, one neighbor at a time.
type Walker struct {
	current   Cell
	selector  NeighborSelector
	bearing   float64
	remaining int
}

// Walker creates a walker starting at this cell. A negative steps value means
// the walk is unbounded.
func (c Cell) Walker(selector NeighborSelector, bearing float64, steps int) *Walker {
	return &Walker{
		current:   c,
		selector:  selector,
		bearing:   bearing,
		remaining: steps,
	}
}

// RandomWalker walks to a uniformly random neighbor at each step. The random
// source is injectable so walks can be reproduced.
func (c Cell) RandomWalker(random *rand.Rand, steps int) *Walker {
	selector := func(cell Cell, neighbors map[int]Neighbor) (Neighbor, error) {
		position := random.Intn(len(neighbors))
		return neighbors[position], nil
	}
	return c.Walker(selector, 0, steps)
}

// StraightWalker always steps to position 0, the neighbor most closely ahead
// of the reference bearing.
func (c Cell) StraightWalker(bearing float64, steps int) *Walker {
	selector := func(cell Cell, neighbors map[int]Neighbor) (Neighbor, error) {
		neighbor, ok := neighbors[0]
		if !ok {
			return Neighbor{}, custom_errors.CreateInvalidGeometryErrorWithMessage("cell has no neighbors")
		}
		return neighbor, nil
	}
	return c.Walker(selector, bearing, steps)
}

// Next advances the walk by one step. It returns false once the configured
// number of steps has been taken.
func (w *Walker) Next() (Neighbor, bool, error) {
	if w.remaining == 0 {
		return Neighbor{}, false, nil
	}
	if w.remaining > 0 {
		w.remaining--
	}

	neighbor, err := w.selector(w.current, w.current.NeighborMap(w.bearing))
	if err != nil {
		return Neighbor{}, false, err
	}
	w.current = neighbor.Cell
	return neighbor, true, nil
}

// Collect runs the walk to completion and returns every step taken. It must
// only be used on bounded walkers.
func (w *Walker) Collect() ([]Neighbor, error) {
	if w.remaining < 0 {
		return nil, custom_errors.CreateInvalidArgumentErrorWithMessage("cannot collect an unbounded walk")
	}

	steps := make([]Neighbor, 0, w.remaining)
	for {
		neighbor, ok, err := w.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return steps, nil
		}
		steps = append(steps, neighbor)
	}
}
