/*
Copyright © 2025 The hexmaps authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	orbjson "github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/custom_flags"
	"github.com/hexmaps/hexmaps/geojson"
	"github.com/hexmaps/hexmaps/render"
)

// loadFeatureCollection reads a GeoJSON file holding either a Feature or a
// FeatureCollection and returns it as a collection.
func loadFeatureCollection(path string) (*orbjson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := geojson.ValidateDocument(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	collection, err := orbjson.UnmarshalFeatureCollection(data)
	if err == nil {
		return collection, nil
	}
	feature, err := orbjson.UnmarshalFeature(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	collection = orbjson.NewFeatureCollection()
	collection.Append(feature)
	return collection, nil
}

// NewRenderCmd creates the command that composes GeoJSON files into an
// interactive Leaflet HTML map.
func NewRenderCmd(newTileMultiSelectUI func(options []string) TileMultiSelectUI) *cobra.Command {
	outputFlag := custom_flags.NewFilePathFlag("output")

	cmd := &cobra.Command{
		Use:   "render [files...]",
		Short: "Compose GeoJSON files into an interactive HTML map",
		Long: `Compose one or more GeoJSON files into a standalone Leaflet HTML map.

Every file becomes a named overlay; the layer name is the file name without
its extension. Basemaps can be picked with --tiles or interactively with
--select-tiles.

Examples:
  hexmaps render grid.geojson parks.geojson -o paris.html
  hexmaps render grid.geojson --tiles "OpenStreetMap" --title "Paris"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := cmd.Flags().GetString("title")
			if err != nil {
				return err
			}
			tooltipFields, err := cmd.Flags().GetInt("tooltip-fields")
			if err != nil {
				return err
			}

			tileNames, err := cmd.Flags().GetStringSlice("tiles")
			if err != nil {
				return err
			}
			selectTiles, err := cmd.Flags().GetBool("select-tiles")
			if err != nil {
				return err
			}
			if selectTiles {
				ui := newTileMultiSelectUI(render.TileLayerNames())
				if err := ui.Run(); err != nil {
					return err
				}
				tileNames = ui.Values()
			}

			tiles := make([]render.TileLayer, 0, len(tileNames))
			for _, name := range tileNames {
				tile, ok := render.TileLayerByName(name)
				if !ok {
					return custom_errors.CreateInvalidFlagErrorWithMessage(
						"tiles",
						fmt.Sprintf("flag names an unknown tile layer %q; known layers are %v",
							name, render.TileLayerNames()),
					)
				}
				tiles = append(tiles, tile)
			}

			m := render.NewMapWithOptions(render.MapOptions{
				Title:         title,
				Tiles:         tiles,
				TooltipFields: tooltipFields,
			})

			for _, path := range args {
				collection, err := loadFeatureCollection(path)
				if err != nil {
					return err
				}
				name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				if err := m.AddFeatureCollection(name, collection); err != nil {
					return err
				}
			}

			if outputFlag.String() == "" {
				return m.WriteHTML(cmd.OutOrStdout())
			}

			file, err := os.Create(outputFlag.String())
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outputFlag.String(), err)
			}
			defer func() { _ = file.Close() }()
			if err := m.WriteHTML(file); err != nil {
				return err
			}

			hexmapsEnv := getHexmapsEnvFromCommandContext(cmd)
			hexmapsEnv.ExecuteIfModeIsProduction(func() {
				log.Info("Rendered map", "layers", len(args), "output", outputFlag.String())
			})
			return nil
		},
	}

	cmd.Flags().String("title", render.DefaultTitle, "Page title of the rendered map")
	cmd.Flags().Int("tooltip-fields", render.DefaultTooltipFields, "Number of property keys shown in tooltips")
	cmd.Flags().StringSlice("tiles", nil, "Tile layers to offer (all when omitted)")
	cmd.Flags().Bool("select-tiles", false, "Pick tile layers interactively")
	cmd.Flags().VarP(outputFlag, outputFlag.FlagName(), "o", "Output HTML file (stdout when omitted)")

	return cmd
}
