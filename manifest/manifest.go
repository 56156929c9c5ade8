// Package manifest reads and validates the hexmaps project manifest: the
// project identity, its dependency constraint tables, the build backend
// declaration, tool configuration blocks and the optional map-generation
// pipeline.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/hexgrid"
	"github.com/hexmaps/hexmaps/overpass"
	"github.com/hexmaps/hexmaps/render"
)

// DefaultFileName is the manifest file looked up when no path is given.
const DefaultFileName = "hexmaps.yaml"

// DefaultOutput is the pipeline output path used when none is configured.
const DefaultOutput = "map.html"

// Project is the manifest's identity record.
type Project struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Authors     []string `yaml:"authors"`
}

// Build declares the build backend and the constraints it must satisfy.
type Build struct {
	Backend  string            `yaml:"backend"`
	Requires map[string]string `yaml:"requires"`
}

// PipelineGrid configures the hex grid generated by a pipeline run.
type PipelineGrid struct {
	Lat        float64 `yaml:"lat"`
	Lon        float64 `yaml:"lon"`
	Resolution int     `yaml:"resolution"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Bearing    float64 `yaml:"bearing"`
}

// PipelineBBox is a bounding box in manifest form.
type PipelineBBox struct {
	West  float64 `yaml:"west"`
	South float64 `yaml:"south"`
	East  float64 `yaml:"east"`
	North float64 `yaml:"north"`
}

// BBox converts the manifest form into an Overpass bounding box.
func (b PipelineBBox) BBox() overpass.BBox {
	return overpass.BBox{West: b.West, South: b.South, East: b.East, North: b.North}
}

// PipelineQuery is a named Overpass union query run by a pipeline.
type PipelineQuery struct {
	Union   string        `yaml:"union"`
	Recurse string        `yaml:"recurse"`
	BBox    *PipelineBBox `yaml:"bbox"`
	Timeout int           `yaml:"timeout"`
}

// PipelineLayer maps a named query onto a map overlay.
type PipelineLayer struct {
	Name           string `yaml:"name"`
	Query          string `yaml:"query"`
	SplitRelations bool   `yaml:"split-relations"`
}

// Pipeline is the optional map-generation pipeline executed by the build
// command: a grid, named queries and the layers composed into one map.
type Pipeline struct {
	Title   string                   `yaml:"title"`
	Grid    *PipelineGrid            `yaml:"grid"`
	Queries map[string]PipelineQuery `yaml:"queries"`
	Layers  []PipelineLayer          `yaml:"layers"`
	Output  string                   `yaml:"output"`
	Tiles   []string                 `yaml:"tiles"`
}

// Manifest is the full hexmaps.yaml document.
type Manifest struct {
	Project     Project                   `yaml:"project"`
	Requires    map[string]string         `yaml:"requires"`
	DevRequires map[string]string         `yaml:"dev-requires"`
	Build       Build                     `yaml:"build"`
	Tools       map[string]map[string]any `yaml:"tools"`
	Pipeline    *Pipeline                 `yaml:"pipeline"`
}

// Parse decodes a manifest document. Unknown keys are rejected so typos in
// section names fail loudly instead of being silently dropped.
func Parse(data []byte) (*Manifest, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var m Manifest
	if err := decoder.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, custom_errors.CreateInvalidArgumentErrorWithMessage("manifest is empty")
		}
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Load reads, parses and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func validateConstraintTable(section string, table map[string]string) []error {
	var errs []error
	for _, name := range sortedKeys(table) {
		if name == "" {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				fmt.Sprintf("%s: dependency name cannot be empty", section)))
			continue
		}
		if _, err := semver.NewConstraint(table[name]); err != nil {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				fmt.Sprintf("%s: invalid constraint %q for %s: %v", section, table[name], name, err)))
		}
	}
	return errs
}

func sortedKeys[V any](table map[string]V) []string {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks every structural property of the manifest and reports all
// violations at once.
func (m *Manifest) Validate() error {
	var errs []error

	if m.Project.Name == "" {
		errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage("project: name cannot be empty"))
	}
	if m.Project.Version == "" {
		errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage("project: version cannot be empty"))
	} else if _, err := semver.NewVersion(m.Project.Version); err != nil {
		errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
			fmt.Sprintf("project: invalid version %q: %v", m.Project.Version, err)))
	}

	errs = append(errs, validateConstraintTable("requires", m.Requires)...)
	errs = append(errs, validateConstraintTable("dev-requires", m.DevRequires)...)
	errs = append(errs, validateConstraintTable("build.requires", m.Build.Requires)...)

	if m.Build.Backend != "" {
		if _, ok := m.Build.Requires[m.Build.Backend]; !ok {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				fmt.Sprintf("build: backend %q is not listed in build.requires", m.Build.Backend)))
		}
	}

	if m.Pipeline != nil {
		errs = append(errs, m.Pipeline.validate()...)
	}

	return errors.Join(errs...)
}

func (p *Pipeline) validate() []error {
	var errs []error

	if p.Grid != nil {
		if _, err := hexgrid.NewPoint(p.Grid.Lon, p.Grid.Lat); err != nil {
			errs = append(errs, fmt.Errorf("pipeline.grid: %w", err))
		}
		if p.Grid.Resolution < 0 || p.Grid.Resolution > hexgrid.MaxResolution {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				fmt.Sprintf("pipeline.grid: resolution must be between 0 and %d", hexgrid.MaxResolution)))
		}
		if p.Grid.Width <= 0 || p.Grid.Height <= 0 {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				"pipeline.grid: width and height must be positive"))
		}
	}

	for _, name := range sortedKeys(p.Queries) {
		query := p.Queries[name]
		if name == "" {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				"pipeline.queries: query name cannot be empty"))
		}
		if query.Union == "" {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				fmt.Sprintf("pipeline.queries.%s: union cannot be empty", name)))
		}
		if _, err := overpass.ParseRecurse(query.Recurse); err != nil {
			errs = append(errs, fmt.Errorf("pipeline.queries.%s: %w", name, err))
		}
		if query.BBox != nil {
			if err := query.BBox.BBox().Validate(); err != nil {
				errs = append(errs, fmt.Errorf("pipeline.queries.%s: %w", name, err))
			}
		}
		if query.Timeout < 0 {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				fmt.Sprintf("pipeline.queries.%s: timeout cannot be negative", name)))
		}
	}

	seen := map[string]bool{}
	for _, layer := range p.Layers {
		if layer.Name == "" {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				"pipeline.layers: layer name cannot be empty"))
			continue
		}
		if seen[layer.Name] {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				fmt.Sprintf("pipeline.layers: duplicate layer %q", layer.Name)))
		}
		seen[layer.Name] = true
		if _, ok := p.Queries[layer.Query]; !ok {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				fmt.Sprintf("pipeline.layers.%s: unknown query %q", layer.Name, layer.Query)))
		}
	}

	for _, name := range p.Tiles {
		if _, ok := render.TileLayerByName(name); !ok {
			errs = append(errs, custom_errors.CreateInvalidArgumentErrorWithMessage(
				fmt.Sprintf("pipeline.tiles: unknown tile layer %q", name)))
		}
	}

	return errs
}
