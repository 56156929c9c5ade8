// Package overpass provides a client for the Overpass OpenStreetMap query
// API: building Overpass QL queries, decoding JSON results into typed
// elements and assembling node, way and relation geometries into GeoJSON
// features.
package overpass

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/geo"
)

const (
	// DefaultMaxSize is the default Overpass [maxsize] setting (512 MiB).
	DefaultMaxSize = 536870912
	// DefaultTimeout is the default Overpass [timeout] setting.
	DefaultTimeout = 180 * time.Second
	// DefaultResolveTimeout is the [timeout] used for the small follow-up
	// queries that fetch a single missing element.
	DefaultResolveTimeout = 10 * time.Second
)

// DefaultOut returns the default output verbs for queries.
func DefaultOut() []string {
	return []string{"body", "geom"}
}

// BBox is a geographic bounding box in WGS84 coordinates.
type BBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// Validate checks the corner coordinates and their ordering.
func (b BBox) Validate() error {
	if _, err := geo.ValidateWGS84(b.West, b.South); err != nil {
		return err
	}
	if _, err := geo.ValidateWGS84(b.East, b.North); err != nil {
		return err
	}
	if b.South > b.North {
		return custom_errors.CreateInvalidArgumentErrorWithMessage("bbox south must not exceed north")
	}
	return nil
}

// String renders the box in Overpass order: south,west,north,east.
func (b BBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.South, b.West, b.North, b.East)
}

// Recurse is an Overpass recursion verb applied to the result set of the
// union block before output.
type Recurse string

const (
	RecurseNone          Recurse = ""
	RecurseDown          Recurse = ">;"
	RecurseDownRelations Recurse = ">>;"
	RecurseUp            Recurse = "<;"
	RecurseUpRelations   Recurse = "<<;"
)

// ParseRecurse maps a CLI-friendly name onto a recursion verb.
func ParseRecurse(name string) (Recurse, error) {
	switch name {
	case "", "none":
		return RecurseNone, nil
	case "down":
		return RecurseDown, nil
	case "down-relations":
		return RecurseDownRelations, nil
	case "up":
		return RecurseUp, nil
	case "up-relations":
		return RecurseUpRelations, nil
	}
	return RecurseNone, custom_errors.CreateInvalidArgumentErrorWithMessage(
		"recurse must be one of none, down, down-relations, up, up-relations")
}

// QueryOptions carries the global settings of a query. Zero values fall back
// to the package defaults.
type QueryOptions struct {
	Out     []string
	BBox    *BBox
	Recurse Recurse
	Timeout time.Duration
	MaxSize int
}

func (o QueryOptions) withDefaults() QueryOptions {
	if o.Out == nil {
		o.Out = DefaultOut()
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	return o
}

func buildSettings(opts QueryOptions) string {
	var builder strings.Builder
	builder.WriteString("[out:json]")
	fmt.Fprintf(&builder, "[timeout:%d]", int(math.Floor(opts.Timeout.Seconds())))
	fmt.Fprintf(&builder, "[maxsize:%d]", opts.MaxSize)
	if opts.BBox != nil {
		fmt.Fprintf(&builder, "[bbox:%s]", opts.BBox)
	}
	builder.WriteString(";")
	return builder.String()
}

// BuildUnionQuery wraps an Overpass QL union block with global settings, an
// optional recursion statement and an output statement. The union block must
// be a parenthesized statement list, e.g. `( way["highway"]; );`.
func BuildUnionQuery(unionBlock string, opts QueryOptions) (string, error) {
	unionBlock = strings.TrimSpace(unionBlock)
	if !strings.HasPrefix(unionBlock, "(") || !strings.HasSuffix(unionBlock, ");") {
		return "", custom_errors.CreateInvalidArgumentErrorWithMessage("argument is not a Union block statement")
	}
	if opts.BBox != nil {
		if err := opts.BBox.Validate(); err != nil {
			return "", err
		}
	}
	opts = opts.withDefaults()

	outStatement := "out;"
	if len(opts.Out) > 0 {
		outStatement = fmt.Sprintf("out %s;", strings.Join(opts.Out, " "))
	}

	parts := []string{buildSettings(opts), unionBlock}
	if opts.Recurse != RecurseNone {
		parts = append(parts, fmt.Sprintf("(._; %s);", opts.Recurse))
	}
	parts = append(parts, outStatement)
	return strings.Join(parts, "\n"), nil
}
