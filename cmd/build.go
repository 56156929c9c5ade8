package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hexmaps/hexmaps/custom_errors"
	"github.com/hexmaps/hexmaps/custom_flags"
	"github.com/hexmaps/hexmaps/hexgrid"
	"github.com/hexmaps/hexmaps/manifest"
	"github.com/hexmaps/hexmaps/overpass"
	"github.com/hexmaps/hexmaps/render"
)

// NewBuildCmd creates the command that runs the manifest's map-generation
// pipeline end to end: grid, Overpass queries, layers, HTML map.
func NewBuildCmd() *cobra.Command {
	manifestFlag := custom_flags.NewFilePathFlag("manifest")
	outputFlag := custom_flags.NewFilePathFlag("output")

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the manifest pipeline end to end",
		Long: `Run the pipeline declared in the project manifest.

The pipeline's grid is generated first, then every named query runs against
the Overpass API, and the configured layers are composed into a single
Leaflet HTML map.

Examples:
  hexmaps build
  hexmaps build --manifest paris.yaml -o paris.html
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := manifestFlag.String()
			if path == "" {
				path = manifest.DefaultFileName
			}

			m, err := manifest.Load(path)
			if err != nil {
				return err
			}
			if m.Pipeline == nil {
				return custom_errors.CreateInvalidArgumentErrorWithMessage(
					fmt.Sprintf("%s declares no pipeline", path))
			}
			pipeline := m.Pipeline

			tiles := make([]render.TileLayer, 0, len(pipeline.Tiles))
			for _, name := range pipeline.Tiles {
				// Load already validated the names.
				tile, _ := render.TileLayerByName(name)
				tiles = append(tiles, tile)
			}
			page := render.NewMapWithOptions(render.MapOptions{
				Title: pipeline.Title,
				Tiles: tiles,
			})

			hexmapsEnv := getHexmapsEnvFromCommandContext(cmd)

			if pipeline.Grid != nil {
				point, err := hexgrid.NewPoint(pipeline.Grid.Lon, pipeline.Grid.Lat)
				if err != nil {
					return err
				}
				grid, err := hexgrid.NewGrid(pipeline.Grid.Height, pipeline.Grid.Width, pipeline.Grid.Bearing)
				if err != nil {
					return err
				}
				if err := grid.ExpandFromPoint(point, pipeline.Grid.Resolution); err != nil {
					return err
				}
				if err := page.AddLayer("grid", grid.Features()); err != nil {
					return err
				}
				hexmapsEnv.ExecuteIfModeIsProduction(func() {
					log.Info("Generated grid", "cells", grid.Len())
				})
			}

			api := getOverpassAPIFromCommandContext(cmd)
			for _, layer := range pipeline.Layers {
				query := pipeline.Queries[layer.Query]
				recurse, err := overpass.ParseRecurse(query.Recurse)
				if err != nil {
					return err
				}
				opts := overpass.QueryOptions{
					Recurse: recurse,
					Timeout: time.Duration(query.Timeout) * time.Second,
				}
				if query.BBox != nil {
					bbox := query.BBox.BBox()
					opts.BBox = &bbox
				}
				built, err := overpass.BuildUnionQuery(query.Union, opts)
				if err != nil {
					return fmt.Errorf("query %s: %w", layer.Query, err)
				}

				result, err := api.Query(cmd.Context(), built)
				if err != nil {
					return fmt.Errorf("query %s: %w", layer.Query, err)
				}

				featureOpts := overpass.DefaultFeatureOptions()
				featureOpts.SplitRelations = layer.SplitRelations
				set, err := overpass.BuildFeatures(cmd.Context(), result, featureOpts)
				if err != nil {
					return fmt.Errorf("query %s: %w", layer.Query, err)
				}
				if err := page.AddLayer(layer.Name, set.All()); err != nil {
					return err
				}
				hexmapsEnv.ExecuteIfModeIsProduction(func() {
					log.Info("Built layer", "layer", layer.Name, "features", len(set.All()))
				})
			}

			output := outputFlag.String()
			if output == "" {
				output = pipeline.Output
			}
			if output == "" {
				output = manifest.DefaultOutput
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer func() { _ = file.Close() }()
			if err := page.WriteHTML(file); err != nil {
				return err
			}

			hexmapsEnv.ExecuteIfModeIsProduction(func() {
				log.Info("Pipeline finished", "output", output)
			})
			return nil
		},
	}

	cmd.Flags().VarP(manifestFlag, manifestFlag.FlagName(), "m", "Manifest file (default hexmaps.yaml)")
	cmd.Flags().VarP(outputFlag, outputFlag.FlagName(), "o", "Output HTML file (overrides the manifest)")

	return cmd
}
