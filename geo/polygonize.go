package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/hexmaps/hexmaps/custom_errors"
)

// PolygonizeOptions controls how strictly Polygonize treats line work that
// does not close into rings.
type PolygonizeOptions struct {
	// AllowDangles keeps lines with a free endpoint in the output instead of
	// failing.
	AllowDangles bool
	// AllowInvalids keeps degenerate rings (too few points or zero area) in
	// the output as lines instead of failing.
	AllowInvalids bool
}

// Polygonize assembles a set of line strings into polygons by stitching lines
// that share endpoints into closed rings and nesting rings by containment, so
// a ring inside another becomes a hole of the enclosing polygon. Lines that
// connect junctions without enclosing an area ("cuts") are always returned in
// the leftover line list; dangling and degenerate lines are returned only when
// allowed by the options, otherwise an error is raised.
func Polygonize(lines []orb.LineString, opts PolygonizeOptions) ([]orb.Polygon, []orb.LineString, error) {
	var (
		rings    []orb.Ring
		chains   [][]orb.Point
		invalids []orb.LineString
	)

	for _, line := range lines {
		switch {
		case len(line) < 2:
			invalids = append(invalids, line)
		case line[0] == line[len(line)-1]:
			rings = append(rings, orb.Ring(line))
		default:
			chains = append(chains, []orb.Point(line))
		}
	}

	chains, stitched := stitchChains(chains)
	rings = append(rings, stitched...)

	// Degenerate rings cannot participate in nesting.
	validRings := rings[:0]
	for _, ring := range rings {
		if len(ring) < 4 || ringSize(ring) == 0 {
			invalids = append(invalids, orb.LineString(ring))
			continue
		}
		validRings = append(validRings, ring)
	}
	rings = validRings

	dangles, cuts := classifyLeftovers(chains)

	leftover := cuts
	if opts.AllowDangles {
		leftover = append(leftover, dangles...)
	} else if len(dangles) > 0 {
		return nil, nil, custom_errors.CreateInvalidGeometryErrorWithMessage("detected dangling lines")
	}
	if opts.AllowInvalids {
		leftover = append(leftover, invalids...)
	} else if len(invalids) > 0 {
		return nil, nil, custom_errors.CreateInvalidGeometryErrorWithMessage("detected invalid lines")
	}

	return nestRings(rings), leftover, nil
}

type chainEnd struct {
	chain   int
	atStart bool
}

// stitchChains repeatedly joins open chains at endpoints shared by exactly
// two chain ends. Junctions where three or more ends meet are left alone so
// that ambiguous topology never gets merged the wrong way.
func stitchChains(chains [][]orb.Point) (open [][]orb.Point, rings []orb.Ring) {
	for {
		ends := make(map[orb.Point][]chainEnd, 2*len(chains))
		for i, chain := range chains {
			if chain == nil {
				continue
			}
			ends[chain[0]] = append(ends[chain[0]], chainEnd{chain: i, atStart: true})
			last := chain[len(chain)-1]
			ends[last] = append(ends[last], chainEnd{chain: i, atStart: false})
		}

		merged := false
		for _, refs := range ends {
			if len(refs) != 2 || refs[0].chain == refs[1].chain {
				continue
			}
			a, b := refs[0], refs[1]

			first := chains[a.chain]
			if a.atStart {
				first = reversedChain(first)
			}
			second := chains[b.chain]
			if !b.atStart {
				second = reversedChain(second)
			}
			// first now ends at point and second starts at it.
			joined := append(append([]orb.Point{}, first...), second[1:]...)
			chains[a.chain] = nil
			chains[b.chain] = nil

			if joined[0] == joined[len(joined)-1] {
				rings = append(rings, orb.Ring(joined))
			} else {
				chains = append(chains, joined)
			}
			merged = true
			break
		}
		if !merged {
			break
		}
	}

	for _, chain := range chains {
		if chain != nil {
			open = append(open, chain)
		}
	}
	return open, rings
}

func reversedChain(chain []orb.Point) []orb.Point {
	reversed := make([]orb.Point, len(chain))
	for i, p := range chain {
		reversed[len(chain)-1-i] = p
	}
	return reversed
}

// classifyLeftovers separates open chains into dangles (at least one free
// endpoint) and cuts (both endpoints meet other line work at a junction).
func classifyLeftovers(chains [][]orb.Point) (dangles, cuts []orb.LineString) {
	degree := make(map[orb.Point]int, 2*len(chains))
	for _, chain := range chains {
		degree[chain[0]]++
		degree[chain[len(chain)-1]]++
	}
	for _, chain := range chains {
		if degree[chain[0]] == 1 || degree[chain[len(chain)-1]] == 1 {
			dangles = append(dangles, orb.LineString(chain))
		} else {
			cuts = append(cuts, orb.LineString(chain))
		}
	}
	return dangles, cuts
}

func ringSize(ring orb.Ring) float64 {
	return math.Abs(planar.Area(ring))
}

// nestRings turns rings into polygons. Rings are sorted largest first and each
// ring is attached to the smallest ring that contains it; rings at even
// containment depth open a new polygon while odd-depth rings become holes of
// their parent polygon. Output follows the GeoJSON winding convention
// (exterior counterclockwise, holes clockwise).
func nestRings(rings []orb.Ring) []orb.Polygon {
	if len(rings) == 0 {
		return nil
	}

	type nested struct {
		ring    orb.Ring
		size    float64
		depth   int
		polygon int // index into the result for even-depth rings
		parent  int
	}

	ordered := make([]nested, 0, len(rings))
	for _, ring := range rings {
		ordered = append(ordered, nested{ring: ring, size: ringSize(ring), parent: -1})
	}
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j-1].size < ordered[j].size; j-- {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
		}
	}

	var polygons []orb.Polygon
	for i := range ordered {
		// The smallest containing ring is the latest one in descending size
		// order that contains a representative vertex.
		for j := i - 1; j >= 0; j-- {
			if planar.RingContains(ordered[j].ring, ordered[i].ring[0]) {
				ordered[i].parent = j
				ordered[i].depth = ordered[j].depth + 1
				break
			}
		}

		ring := ordered[i].ring
		if ordered[i].depth%2 == 0 {
			if ring.Orientation() != orb.CCW {
				ring.Reverse()
			}
			ordered[i].polygon = len(polygons)
			polygons = append(polygons, orb.Polygon{ring})
		} else {
			if ring.Orientation() != orb.CW {
				ring.Reverse()
			}
			outer := &ordered[ordered[i].parent]
			ordered[i].polygon = outer.polygon
			polygons[outer.polygon] = append(polygons[outer.polygon], ring)
		}
	}
	return polygons
}

// OrientPolygon rewinds a polygon in place to the GeoJSON convention:
// counterclockwise exterior, clockwise holes.
func OrientPolygon(polygon orb.Polygon) orb.Polygon {
	for i, ring := range polygon {
		want := orb.CCW
		if i > 0 {
			want = orb.CW
		}
		if ring.Orientation() != want {
			ring.Reverse()
		}
	}
	return polygon
}
