package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/paulmach/orb"
	orbjson "github.com/paulmach/orb/geojson"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/geojson"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

// DefaultTooltipFields is the number of most common property keys shown in
// feature tooltips.
const DefaultTooltipFields = 10

// DefaultTitle is the page title used when none is configured.
const DefaultTitle = "hexmaps"

// MapOptions configures a map. Zero values fall back to the package defaults.
type MapOptions struct {
	Title         string
	Tiles         []TileLayer
	TooltipFields int
}

// Map accumulates named GeoJSON layers and renders them as a standalone
// Leaflet HTML page with a basemap switcher and a layer control.
type Map struct {
	title         string
	tiles         []TileLayer
	tooltipFields int
	layers        []mapLayer
}

type mapLayer struct {
	name       string
	collection *orbjson.FeatureCollection
}

// NewMap creates a map with the default basemaps, title and tooltip size.
func NewMap() *Map {
	return NewMapWithOptions(MapOptions{})
}

// NewMapWithOptions creates a map with explicit options.
func NewMapWithOptions(opts MapOptions) *Map {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if len(opts.Tiles) == 0 {
		opts.Tiles = TileLayers()
	}
	if opts.TooltipFields <= 0 {
		opts.TooltipFields = DefaultTooltipFields
	}
	return &Map{
		title:         opts.Title,
		tiles:         opts.Tiles,
		tooltipFields: opts.TooltipFields,
	}
}

// AddLayer registers a named overlay built from domain features. Layer names
// appear in the map's layer control and must be unique.
func (m *Map) AddLayer(name string, features []geojson.Feature) error {
	return m.AddFeatureCollection(name, geojson.ToFeatureCollection(features))
}

// AddCollection registers a named overlay built from a domain collection.
func (m *Map) AddCollection(name string, collection geojson.Collection) error {
	return m.AddLayer(name, collection.Features())
}

// AddFeatureCollection registers a named overlay from an already assembled
// GeoJSON document, e.g. one loaded from a file.
func (m *Map) AddFeatureCollection(name string, collection *orbjson.FeatureCollection) error {
	if name == "" {
		return custom_errors.CreateInvalidArgumentErrorWithMessage("layer name cannot be empty")
	}
	for _, layer := range m.layers {
		if layer.name == name {
			return custom_errors.CreateInvalidArgumentErrorWithMessage(
				fmt.Sprintf("layer %q already exists", name))
		}
	}
	m.layers = append(m.layers, mapLayer{name: name, collection: collection})
	return nil
}

// electTooltipFields picks the property keys shown in tooltips: the keys that
// occur on the most features win, capped at limit. Ties break alphabetically
// so the election is deterministic.
func electTooltipFields(collection *orbjson.FeatureCollection, limit int) []string {
	counts := make(map[string]int)
	for _, feature := range collection.Features {
		for key := range feature.Properties {
			counts[key]++
		}
	}

	fields := make([]string, 0, len(counts))
	for key := range counts {
		fields = append(fields, key)
	}
	sort.Slice(fields, func(i, j int) bool {
		if counts[fields[i]] != counts[fields[j]] {
			return counts[fields[i]] > counts[fields[j]]
		}
		return fields[i] < fields[j]
	})

	if len(fields) > limit {
		fields = fields[:limit]
	}
	return fields
}

// normalizeProperties gives every feature an entry for each elected field so
// tooltips can read them uniformly.
func normalizeProperties(collection *orbjson.FeatureCollection, fields []string) {
	for _, feature := range collection.Features {
		if feature.Properties == nil {
			feature.Properties = orbjson.Properties{}
		}
		for _, field := range fields {
			if _, ok := feature.Properties[field]; !ok {
				feature.Properties[field] = nil
			}
		}
	}
}

// layersBound unions the bounds of every feature across all layers.
func (m *Map) layersBound() (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, layer := range m.layers {
		for _, feature := range layer.collection.Features {
			if feature.Geometry == nil {
				continue
			}
			if !found {
				bound = feature.Geometry.Bound()
				found = true
				continue
			}
			bound = bound.Union(feature.Geometry.Bound())
		}
	}
	return bound, found
}

type layerView struct {
	Name          string
	Data          template.JS
	TooltipFields template.JS
}

type pageView struct {
	Title     string
	Tiles     []TileLayer
	Layers    []layerView
	HasBounds bool
	South     float64
	West      float64
	North     float64
	East      float64
}

// WriteHTML renders the map as a complete HTML page.
func (m *Map) WriteHTML(w io.Writer) error {
	page := pageView{
		Title: m.title,
		Tiles: m.tiles,
	}

	for _, layer := range m.layers {
		fields := electTooltipFields(layer.collection, m.tooltipFields)
		normalizeProperties(layer.collection, fields)

		data, err := layer.collection.MarshalJSON()
		if err != nil {
			return fmt.Errorf("failed to marshal layer %q: %w", layer.name, err)
		}
		fieldsJSON, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("failed to marshal tooltip fields of layer %q: %w", layer.name, err)
		}
		page.Layers = append(page.Layers, layerView{
			Name:          layer.name,
			Data:          template.JS(data),
			TooltipFields: template.JS(fieldsJSON),
		})
	}

	if bound, ok := m.layersBound(); ok {
		page.HasBounds = true
		page.South = bound.Min.Lat()
		page.West = bound.Min.Lon()
		page.North = bound.Max.Lat()
		page.East = bound.Max.Lon()
	}

	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("failed to render map: %w", err)
	}
	return nil
}
