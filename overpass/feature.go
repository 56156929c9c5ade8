package overpass

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"
	"github.com/samber/lo"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/geo"
	"github.com/hexmaps/hexmaps/geojson"
)

// FeatureOptions controls how elements are turned into features.
type FeatureOptions struct {
	// ResolveMissing allows follow-up queries for referenced elements that
	// are not part of the result.
	ResolveMissing bool
	// Polygonize turns closed ways into polygons instead of line strings.
	Polygonize bool
	// Repolygonize runs a final polygonization pass over the leftover line
	// work of a relation, closing rings that span sibling subrelations.
	Repolygonize bool
	// AllowDangles keeps dangling lines in relation geometry.
	AllowDangles bool
	// AllowInvalids keeps degenerate line work in relation geometry.
	AllowInvalids bool
	// SplitRelations emits one feature per assembled relation geometry
	// instead of a single geometry collection feature.
	SplitRelations bool
}

// DefaultFeatureOptions mirrors the permissive defaults used for map layers:
// polygonize everything that closes and keep imperfect line work.
func DefaultFeatureOptions() FeatureOptions {
	return FeatureOptions{
		Polygonize:    true,
		Repolygonize:  true,
		AllowDangles:  true,
		AllowInvalids: true,
	}
}

// Feature is an Overpass element with assembled geometry.
type Feature struct {
	elementType ElementType
	id          int64
	tags        map[string]string
	geometry    orb.Geometry
}

func (f *Feature) ElementType() ElementType {
	return f.elementType
}

func (f *Feature) ID() int64 {
	return f.id
}

// Tags returns a copy of the element's tags.
func (f *Feature) Tags() map[string]string {
	tags := make(map[string]string, len(f.tags))
	for key, value := range f.tags {
		tags[key] = value
	}
	return tags
}

// Geometry implements geojson.Feature.
func (f *Feature) Geometry() orb.Geometry {
	return f.geometry
}

// Properties implements geojson.Feature. Element tags are flattened into the
// properties next to the element type and id.
func (f *Feature) Properties() orbjson.Properties {
	properties := orbjson.Properties{
		"element": f.elementType.Title(),
		"id":      f.id,
	}
	for key, value := range f.tags {
		properties[key] = value
	}
	return properties
}

func validLatLngs(coordinates []LatLng) (orb.LineString, error) {
	line := make(orb.LineString, 0, len(coordinates))
	for _, coordinate := range coordinates {
		point, err := geo.ValidateWGS84(coordinate.Lon, coordinate.Lat)
		if err != nil {
			return nil, err
		}
		line = append(line, point)
	}
	return line, nil
}

// memberPoint returns the coordinates of a node member, preferring inline
// geometry and falling back to resolving the referenced node.
func (r *Result) memberPoint(ctx context.Context, member Member, resolveMissing bool) (orb.Point, error) {
	if member.Lat != nil && member.Lon != nil {
		return geo.ValidateWGS84(*member.Lon, *member.Lat)
	}
	node, err := r.ResolveNode(ctx, member.Ref, resolveMissing)
	if err != nil {
		return orb.Point{}, err
	}
	return nodePoint(node)
}

// wayLine returns a way's coordinates, preferring inline geometry from
// `out geom` and falling back to the referenced nodes.
func (r *Result) wayLine(ctx context.Context, way *Way, resolveMissing bool) (orb.LineString, error) {
	var line orb.LineString
	if len(way.Geometry) > 0 {
		validated, err := validLatLngs(way.Geometry)
		if err != nil {
			return nil, fmt.Errorf("way %d: %w", way.ID, err)
		}
		line = validated
	} else {
		line = make(orb.LineString, 0, len(way.Nodes))
		for _, id := range way.Nodes {
			node, err := r.ResolveNode(ctx, id, resolveMissing)
			if err != nil {
				return nil, fmt.Errorf("way %d: %w", way.ID, err)
			}
			point, err := nodePoint(node)
			if err != nil {
				return nil, fmt.Errorf("way %d: %w", way.ID, err)
			}
			line = append(line, point)
		}
	}
	if len(line) < 2 {
		return nil, custom_errors.CreateInvalidGeometryErrorWithMessage(
			fmt.Sprintf("way %d has fewer than two coordinates", way.ID))
	}
	return line, nil
}

// memberWayLine returns the coordinates of a way member, preferring inline
// geometry and falling back to resolving the referenced way.
func (r *Result) memberWayLine(ctx context.Context, member Member, resolveMissing bool) (orb.LineString, error) {
	if len(member.Geometry) > 0 {
		return validLatLngs(member.Geometry)
	}
	way, err := r.ResolveWay(ctx, member.Ref, resolveMissing)
	if err != nil {
		return nil, err
	}
	return r.wayLine(ctx, way, resolveMissing)
}

// wayGeometry polygonizes closed lines and keeps open ones as line strings.
func wayGeometry(line orb.LineString, polygonize bool) orb.Geometry {
	if polygonize && len(line) >= 4 && line[0] == line[len(line)-1] {
		return geo.OrientPolygon(orb.Polygon{orb.Ring(line)})
	}
	return line
}

// NodeFeature builds a point feature from a node.
func NodeFeature(node *Node) (*Feature, error) {
	point, err := nodePoint(node)
	if err != nil {
		return nil, err
	}
	return &Feature{
		elementType: ElementNode,
		id:          node.ID,
		tags:        node.Tags,
		geometry:    point,
	}, nil
}

// WayFeature builds a line or polygon feature from a way.
func WayFeature(ctx context.Context, result *Result, way *Way, opts FeatureOptions) (*Feature, error) {
	line, err := result.wayLine(ctx, way, opts.ResolveMissing)
	if err != nil {
		return nil, err
	}
	return &Feature{
		elementType: ElementWay,
		id:          way.ID,
		tags:        way.Tags,
		geometry:    wayGeometry(line, opts.Polygonize),
	}, nil
}

// recursedRelation is a relation flattened into its node members, way
// members and recursively expanded subrelations.
type recursedRelation struct {
	result   *Result
	resolve  bool
	nodes    []Member
	ways     []Member
	children []*recursedRelation
}

func (r *Result) recurseRelation(
	ctx context.Context,
	relation *Relation,
	resolveMissing bool,
	seen map[int64]bool,
) (*recursedRelation, error) {
	if seen[relation.ID] {
		return nil, custom_errors.CreateInvalidGeometryErrorWithMessage(
			fmt.Sprintf("relation %d is a member of itself", relation.ID))
	}
	seen[relation.ID] = true
	defer delete(seen, relation.ID)

	recursed := &recursedRelation{result: r, resolve: resolveMissing}
	for _, member := range relation.Members {
		switch member.Type {
		case ElementNode:
			recursed.nodes = append(recursed.nodes, member)
		case ElementWay:
			recursed.ways = append(recursed.ways, member)
		case ElementRelation:
			child, err := r.ResolveRelation(ctx, member.Ref, resolveMissing)
			if err != nil {
				return nil, fmt.Errorf("relation %d: %w", relation.ID, err)
			}
			recursedChild, err := r.recurseRelation(ctx, child, resolveMissing, seen)
			if err != nil {
				return nil, err
			}
			recursed.children = append(recursed.children, recursedChild)
		default:
			return nil, custom_errors.CreateInvalidGeometryErrorWithMessage(
				fmt.Sprintf("unsupported relation member type %q", member.Type))
		}
	}
	return recursed, nil
}

// geometries assembles the relation tree bottom-up: child geometries first,
// then this level's node points and the polygonization of its way line work.
func (rr *recursedRelation) geometries(
	ctx context.Context,
	polygonizeOpts geo.PolygonizeOptions,
) (points []orb.Point, lines []orb.LineString, polygons []orb.Polygon, err error) {
	for _, child := range rr.children {
		childPoints, childLines, childPolygons, err := child.geometries(ctx, polygonizeOpts)
		if err != nil {
			return nil, nil, nil, err
		}
		points = append(points, childPoints...)
		lines = append(lines, childLines...)
		polygons = append(polygons, childPolygons...)
	}

	for _, member := range rr.nodes {
		point, err := rr.result.memberPoint(ctx, member, rr.resolve)
		if err != nil {
			return nil, nil, nil, err
		}
		points = append(points, point)
	}

	wayLines := make([]orb.LineString, 0, len(rr.ways))
	for _, member := range rr.ways {
		line, err := rr.result.memberWayLine(ctx, member, rr.resolve)
		if err != nil {
			return nil, nil, nil, err
		}
		wayLines = append(wayLines, line)
	}
	ownPolygons, leftover, err := geo.Polygonize(wayLines, polygonizeOpts)
	if err != nil {
		return nil, nil, nil, err
	}
	polygons = append(polygons, ownPolygons...)
	lines = append(lines, leftover...)

	return points, lines, polygons, nil
}

// BuildRelationGeometry assembles a relation into a geometry collection of
// points, leftover lines and counterclockwise-oriented polygons.
func BuildRelationGeometry(
	ctx context.Context,
	result *Result,
	relation *Relation,
	opts FeatureOptions,
) (orb.Collection, error) {
	recursed, err := result.recurseRelation(ctx, relation, opts.ResolveMissing, map[int64]bool{})
	if err != nil {
		return nil, err
	}

	polygonizeOpts := geo.PolygonizeOptions{
		AllowDangles:  opts.AllowDangles,
		AllowInvalids: opts.AllowInvalids,
	}
	points, lines, polygons, err := recursed.geometries(ctx, polygonizeOpts)
	if err != nil {
		return nil, fmt.Errorf("relation %d: %w", relation.ID, err)
	}

	if opts.Repolygonize && len(lines) > 0 {
		morePolygons, leftover, err := geo.Polygonize(lines, polygonizeOpts)
		if err != nil {
			return nil, fmt.Errorf("relation %d: %w", relation.ID, err)
		}
		polygons = append(polygons, morePolygons...)
		lines = leftover
	}

	collection := make(orb.Collection, 0, len(points)+len(lines)+len(polygons))
	for _, point := range points {
		collection = append(collection, point)
	}
	for _, line := range lines {
		collection = append(collection, line)
	}
	for _, polygon := range polygons {
		collection = append(collection, geo.OrientPolygon(polygon))
	}
	return collection, nil
}

// RelationFeature builds a single geometry collection feature from a
// relation.
func RelationFeature(ctx context.Context, result *Result, relation *Relation, opts FeatureOptions) (*Feature, error) {
	collection, err := BuildRelationGeometry(ctx, result, relation, opts)
	if err != nil {
		return nil, err
	}
	return &Feature{
		elementType: ElementRelation,
		id:          relation.ID,
		tags:        relation.Tags,
		geometry:    collection,
	}, nil
}

// SplitRelationFeatures builds one feature per assembled relation geometry,
// all sharing the relation's id and tags.
func SplitRelationFeatures(ctx context.Context, result *Result, relation *Relation, opts FeatureOptions) ([]*Feature, error) {
	collection, err := BuildRelationGeometry(ctx, result, relation, opts)
	if err != nil {
		return nil, err
	}

	if len(collection) == 1 {
		return []*Feature{{
			elementType: ElementRelation,
			id:          relation.ID,
			tags:        relation.Tags,
			geometry:    collection[0],
		}}, nil
	}
	return lo.Map(collection, func(geometry orb.Geometry, _ int) *Feature {
		return &Feature{
			elementType: ElementRelation,
			id:          relation.ID,
			tags:        relation.Tags,
			geometry:    geometry,
		}
	}), nil
}

// FeatureSet groups the features assembled from a result by element kind.
type FeatureSet struct {
	Nodes     []*Feature
	Ways      []*Feature
	Relations []*Feature
}

// All flattens the set into a single feature list, nodes first.
func (s *FeatureSet) All() []geojson.Feature {
	features := make([]geojson.Feature, 0, len(s.Nodes)+len(s.Ways)+len(s.Relations))
	for _, feature := range s.Nodes {
		features = append(features, feature)
	}
	for _, feature := range s.Ways {
		features = append(features, feature)
	}
	for _, feature := range s.Relations {
		features = append(features, feature)
	}
	return features
}

// BuildFeatures assembles every element of a result into features.
func BuildFeatures(ctx context.Context, result *Result, opts FeatureOptions) (*FeatureSet, error) {
	set := &FeatureSet{}

	for _, node := range result.Nodes() {
		feature, err := NodeFeature(node)
		if err != nil {
			return nil, err
		}
		set.Nodes = append(set.Nodes, feature)
	}

	for _, way := range result.Ways() {
		feature, err := WayFeature(ctx, result, way, opts)
		if err != nil {
			return nil, err
		}
		set.Ways = append(set.Ways, feature)
	}

	for _, relation := range result.Relations() {
		if opts.SplitRelations {
			features, err := SplitRelationFeatures(ctx, result, relation, opts)
			if err != nil {
				return nil, err
			}
			set.Relations = append(set.Relations, features...)
			continue
		}
		feature, err := RelationFeature(ctx, result, relation, opts)
		if err != nil {
			return nil, err
		}
		set.Relations = append(set.Relations, feature)
	}
	return set, nil
}
