package geo

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

// earthRadius is the WGS84 semi-major axis in meters, the radius used by the
// web mercator family of projections.
const earthRadius = 6378137.0

// ProjectionKind selects one of the supported azimuthal projections.
type ProjectionKind string

const (
	// AzimuthalEquidistant preserves distance and bearing from the center.
	AzimuthalEquidistant ProjectionKind = "aeqd"
	// AzimuthalStereographic is conformal around the center.
	AzimuthalStereographic ProjectionKind = "stere"
)

// Projector is a forward/inverse projection pair between WGS84 coordinates
// and planar meters centered on a reference point.
type Projector struct {
	Kind    ProjectionKind
	Center  orb.Point
	Forward orb.Projection
	Inverse orb.Projection
}

// NewProjector builds an azimuthal projection centered on the given point.
func NewProjector(kind ProjectionKind, center orb.Point) (Projector, error) {
	lon0 := center.Lon() * math.Pi / 180
	lat0 := center.Lat() * math.Pi / 180
	sinLat0, cosLat0 := math.Sin(lat0), math.Cos(lat0)

	// Both projections share the same angular machinery and differ only in
	// the radial scale factor k.
	scale := func(sinLat, cosLat, cosDLon, c float64) float64 {
		switch kind {
		case AzimuthalEquidistant:
			if c == 0 {
				return 1
			}
			return c / math.Sin(c)
		case AzimuthalStereographic:
			return 2 / (1 + sinLat0*sinLat + cosLat0*cosLat*cosDLon)
		}
		return math.NaN()
	}

	if kind != AzimuthalEquidistant && kind != AzimuthalStereographic {
		return Projector{}, fmt.Errorf("unsupported projection kind %q", kind)
	}

	forward := func(p orb.Point) orb.Point {
		lon := p.Lon() * math.Pi / 180
		lat := p.Lat() * math.Pi / 180
		sinLat, cosLat := math.Sin(lat), math.Cos(lat)
		cosDLon := math.Cos(lon - lon0)

		cosC := sinLat0*sinLat + cosLat0*cosLat*cosDLon
		cosC = math.Max(-1, math.Min(1, cosC))
		c := math.Acos(cosC)

		k := scale(sinLat, cosLat, cosDLon, c)
		x := earthRadius * k * cosLat * math.Sin(lon-lon0)
		y := earthRadius * k * (cosLat0*sinLat - sinLat0*cosLat*cosDLon)
		return orb.Point{x, y}
	}

	inverse := func(p orb.Point) orb.Point {
		x, y := p.X(), p.Y()
		rho := math.Hypot(x, y)
		if rho == 0 {
			return center
		}

		var c float64
		switch kind {
		case AzimuthalEquidistant:
			c = rho / earthRadius
		case AzimuthalStereographic:
			c = 2 * math.Atan2(rho, 2*earthRadius)
		}
		sinC, cosC := math.Sin(c), math.Cos(c)

		lat := math.Asin(cosC*sinLat0 + y*sinC*cosLat0/rho)
		lon := lon0 + math.Atan2(x*sinC, rho*cosLat0*cosC-y*sinLat0*sinC)
		return orb.Point{lon * 180 / math.Pi, lat * 180 / math.Pi}
	}

	return Projector{Kind: kind, Center: center, Forward: forward, Inverse: inverse}, nil
}

// SnapToCell moves a coordinate to the center of its containing H3 cell at
// the given resolution, so projections built for neighboring datasets share
// the exact same reference point.
func SnapToCell(p orb.Point, resolution int) orb.Point {
	cell := h3.LatLngToCell(h3.NewLatLng(p.Lat(), p.Lon()), resolution)
	latLng := h3.CellToLatLng(cell)
	return orb.Point{latLng.Lng, latLng.Lat}
}

type projectorKey struct {
	kind   ProjectionKind
	center orb.Point
}

// ProjectorCache memoizes projectors by kind and center. Building a projector
// is cheap but callers tend to request the same center for every feature of a
// dataset, so the cache keeps projector identity stable too.
type ProjectorCache struct {
	cache *lru.Cache[projectorKey, Projector]
}

// NewProjectorCache creates an LRU-backed projector cache.
func NewProjectorCache(maxSize int) (*ProjectorCache, error) {
	cache, err := lru.New[projectorKey, Projector](maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create projector cache: %w", err)
	}
	return &ProjectorCache{cache: cache}, nil
}

// Projector returns a cached projector for the kind and center, building and
// caching one on miss.
func (c *ProjectorCache) Projector(kind ProjectionKind, center orb.Point) (Projector, error) {
	key := projectorKey{kind: kind, center: center}
	if projector, ok := c.cache.Get(key); ok {
		return projector, nil
	}

	projector, err := NewProjector(kind, center)
	if err != nil {
		return Projector{}, err
	}
	c.cache.Add(key, projector)
	return projector, nil
}

// Len reports how many projectors are currently cached.
func (c *ProjectorCache) Len() int {
	return c.cache.Len()
}

var defaultProjectorCache = func() *ProjectorCache {
	cache, err := NewProjectorCache(128)
	if err != nil {
		panic(err)
	}
	return cache
}()

// ProjectorForCoordinates builds an azimuthal projector centered on the
// geographic centroid of the coordinate sequence. When snapResolution is
// non-negative the center is snapped to the H3 cell center at that
// resolution. Projectors are served from a package-level cache.
func ProjectorForCoordinates(kind ProjectionKind, coords []orb.Point, snapResolution int) (Projector, error) {
	center, err := Centroid(coords)
	if err != nil {
		return Projector{}, err
	}
	if snapResolution >= 0 {
		center = SnapToCell(center, snapResolution)
	}
	return defaultProjectorCache.Projector(kind, center)
}
