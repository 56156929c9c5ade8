package overpass

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/geo"
)

// ElementType discriminates the Overpass element kinds on the wire.
type ElementType string

const (
	ElementNode     ElementType = "node"
	ElementWay      ElementType = "way"
	ElementRelation ElementType = "relation"
)

// Title returns the element type the way features label it, e.g. "Node".
func (t ElementType) Title() string {
	switch t {
	case ElementNode:
		return "Node"
	case ElementWay:
		return "Way"
	case ElementRelation:
		return "Relation"
	}
	return string(t)
}

// queryName returns the element type as used in an Overpass QL statement.
func (t ElementType) queryName() string {
	if t == ElementRelation {
		return "rel"
	}
	return string(t)
}

// LatLng is a coordinate pair as serialized by Overpass.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Member is a relation member reference, possibly carrying inline coordinates
// when the query used `out geom`.
type Member struct {
	Type     ElementType `json:"type"`
	Ref      int64       `json:"ref"`
	Role     string      `json:"role"`
	Lat      *float64    `json:"lat,omitempty"`
	Lon      *float64    `json:"lon,omitempty"`
	Geometry []LatLng    `json:"geometry,omitempty"`
}

// Element is the raw wire representation of an Overpass element.
type Element struct {
	Type     ElementType       `json:"type"`
	ID       int64             `json:"id"`
	Lat      *float64          `json:"lat,omitempty"`
	Lon      *float64          `json:"lon,omitempty"`
	Nodes    []int64           `json:"nodes,omitempty"`
	Geometry []LatLng          `json:"geometry,omitempty"`
	Members  []Member          `json:"members,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// Node is a typed view of a node element.
type Node struct {
	ID   int64
	Lat  *float64
	Lon  *float64
	Tags map[string]string
}

// Way is a typed view of a way element.
type Way struct {
	ID       int64
	Nodes    []int64
	Geometry []LatLng
	Tags     map[string]string
}

// Relation is a typed view of a relation element.
type Relation struct {
	ID      int64
	Members []Member
	Tags    map[string]string
}

// Result is an id-indexed set of elements returned by a query. When built by
// a client it keeps a handle to it so missing referenced elements can be
// resolved with follow-up queries.
type Result struct {
	api Service

	nodes     map[int64]*Node
	ways      map[int64]*Way
	relations map[int64]*Relation

	nodeOrder     []int64
	wayOrder      []int64
	relationOrder []int64
}

// NewResult creates an empty result without a backing API; resolving missing
// elements on it fails with ErrIncompleteData.
func NewResult() *Result {
	return newResult(nil)
}

func newResult(api Service) *Result {
	return &Result{
		api:       api,
		nodes:     make(map[int64]*Node),
		ways:      make(map[int64]*Way),
		relations: make(map[int64]*Relation),
	}
}

// Add indexes a raw element into the result. Elements already present are
// ignored so expanding with overlapping results stays stable.
func (r *Result) Add(element Element) {
	switch element.Type {
	case ElementNode:
		if _, ok := r.nodes[element.ID]; ok {
			return
		}
		r.nodes[element.ID] = &Node{
			ID:   element.ID,
			Lat:  element.Lat,
			Lon:  element.Lon,
			Tags: element.Tags,
		}
		r.nodeOrder = append(r.nodeOrder, element.ID)
	case ElementWay:
		if _, ok := r.ways[element.ID]; ok {
			return
		}
		r.ways[element.ID] = &Way{
			ID:       element.ID,
			Nodes:    element.Nodes,
			Geometry: element.Geometry,
			Tags:     element.Tags,
		}
		r.wayOrder = append(r.wayOrder, element.ID)
	case ElementRelation:
		if _, ok := r.relations[element.ID]; ok {
			return
		}
		r.relations[element.ID] = &Relation{
			ID:      element.ID,
			Members: element.Members,
			Tags:    element.Tags,
		}
		r.relationOrder = append(r.relationOrder, element.ID)
	}
}

// Expand merges another result into this one.
func (r *Result) Expand(other *Result) {
	for _, id := range other.nodeOrder {
		node := other.nodes[id]
		lat, lon := node.Lat, node.Lon
		r.Add(Element{Type: ElementNode, ID: id, Lat: lat, Lon: lon, Tags: node.Tags})
	}
	for _, id := range other.wayOrder {
		way := other.ways[id]
		r.Add(Element{Type: ElementWay, ID: id, Nodes: way.Nodes, Geometry: way.Geometry, Tags: way.Tags})
	}
	for _, id := range other.relationOrder {
		relation := other.relations[id]
		r.Add(Element{Type: ElementRelation, ID: id, Members: relation.Members, Tags: relation.Tags})
	}
}

// Nodes returns the nodes in arrival order.
func (r *Result) Nodes() []*Node {
	nodes := make([]*Node, 0, len(r.nodeOrder))
	for _, id := range r.nodeOrder {
		nodes = append(nodes, r.nodes[id])
	}
	return nodes
}

// Ways returns the ways in arrival order.
func (r *Result) Ways() []*Way {
	ways := make([]*Way, 0, len(r.wayOrder))
	for _, id := range r.wayOrder {
		ways = append(ways, r.ways[id])
	}
	return ways
}

// Relations returns the relations in arrival order.
func (r *Result) Relations() []*Relation {
	relations := make([]*Relation, 0, len(r.relationOrder))
	for _, id := range r.relationOrder {
		relations = append(relations, r.relations[id])
	}
	return relations
}

// Node looks up a node by id.
func (r *Result) Node(id int64) (*Node, bool) {
	node, ok := r.nodes[id]
	return node, ok
}

// Way looks up a way by id.
func (r *Result) Way(id int64) (*Way, bool) {
	way, ok := r.ways[id]
	return way, ok
}

// Relation looks up a relation by id.
func (r *Result) Relation(id int64) (*Relation, bool) {
	relation, ok := r.relations[id]
	return relation, ok
}

// resolve fetches a single element with a recurse-down query and merges the
// response into this result.
func (r *Result) resolve(ctx context.Context, elementType ElementType, id int64) error {
	if r.api == nil {
		return custom_errors.CreateIncompleteDataErrorWithMessage(
			fmt.Sprintf("no API to resolve %s %d", elementType, id))
	}

	query, err := BuildUnionQuery(
		fmt.Sprintf("(%s(%d););", elementType.queryName(), id),
		QueryOptions{Recurse: RecurseDown, Timeout: DefaultResolveTimeout},
	)
	if err != nil {
		return err
	}

	resolved, err := r.api.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to resolve %s %d: %w", elementType, id, err)
	}
	r.Expand(resolved)
	return nil
}

// ResolveNode returns the node with the given id, fetching it from the API
// when allowed and not already present.
func (r *Result) ResolveNode(ctx context.Context, id int64, resolveMissing bool) (*Node, error) {
	if node, ok := r.nodes[id]; ok {
		return node, nil
	}
	if !resolveMissing {
		return nil, custom_errors.CreateIncompleteDataErrorWithMessage("resolve missing nodes is disabled")
	}
	if err := r.resolve(ctx, ElementNode, id); err != nil {
		return nil, err
	}
	if node, ok := r.nodes[id]; ok {
		return node, nil
	}
	return nil, custom_errors.CreateIncompleteDataErrorWithMessage(fmt.Sprintf("unable to resolve node %d", id))
}

// ResolveWay returns the way with the given id, fetching it from the API when
// allowed and not already present.
func (r *Result) ResolveWay(ctx context.Context, id int64, resolveMissing bool) (*Way, error) {
	if way, ok := r.ways[id]; ok {
		return way, nil
	}
	if !resolveMissing {
		return nil, custom_errors.CreateIncompleteDataErrorWithMessage("resolve missing ways is disabled")
	}
	if err := r.resolve(ctx, ElementWay, id); err != nil {
		return nil, err
	}
	if way, ok := r.ways[id]; ok {
		return way, nil
	}
	return nil, custom_errors.CreateIncompleteDataErrorWithMessage(fmt.Sprintf("unable to resolve way %d", id))
}

// ResolveRelation returns the relation with the given id, fetching it from
// the API when allowed and not already present.
func (r *Result) ResolveRelation(ctx context.Context, id int64, resolveMissing bool) (*Relation, error) {
	if relation, ok := r.relations[id]; ok {
		return relation, nil
	}
	if !resolveMissing {
		return nil, custom_errors.CreateIncompleteDataErrorWithMessage("resolve missing relations is disabled")
	}
	if err := r.resolve(ctx, ElementRelation, id); err != nil {
		return nil, err
	}
	if relation, ok := r.relations[id]; ok {
		return relation, nil
	}
	return nil, custom_errors.CreateIncompleteDataErrorWithMessage(fmt.Sprintf("unable to resolve relation %d", id))
}

// nodePoint validates a node's coordinates.
func nodePoint(node *Node) (orb.Point, error) {
	if node.Lon == nil || node.Lat == nil {
		return orb.Point{}, custom_errors.CreateIncompleteDataErrorWithMessage(
			fmt.Sprintf("node %d has no coordinates", node.ID))
	}
	return geo.ValidateWGS84(*node.Lon, *node.Lat)
}
