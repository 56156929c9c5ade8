// Package cmd provides the command-line interface of the hexmaps CLI.
package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/hexmaps/hexmaps/civ"
	"github.com/hexmaps/hexmaps/custom_flags"
	"github.com/hexmaps/hexmaps/geojson"
	"github.com/hexmaps/hexmaps/hexgrid"
)

// NewGridCmd creates the command that generates a rectangular hex grid
// centered on a coordinate and emits it as a GeoJSON feature collection.
func NewGridCmd() *cobra.Command {
	centerFlag := custom_flags.NewLatLngFlag("center")
	resolutionFlag := custom_flags.NewResolutionFlag("resolution", 9)
	outputFlag := custom_flags.NewFilePathFlag("output")
	terrainFlag := custom_flags.NewUnionFlag(
		lo.Map(civ.Terrains(), func(terrain civ.Terrain, _ int) string {
			return string(terrain)
		}),
		"terrain",
		"",
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Generate a rectangular hex grid as GeoJSON",
		Long: `Generate a rectangular grid of H3 hex cells around a center coordinate.

The grid uses odd-row offset coordinates and is expanded cell by cell from
the center, so neighboring grid cells are neighboring hex cells. Cells can
optionally be tagged with a terrain type.

Examples:
  hexmaps grid --center 48.8566,2.3522 --resolution 9 --width 10 --height 8
  hexmaps grid --center 48.8566,2.3522 --terrain TERRAIN_GRASS -o grid.geojson
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !centerFlag.IsSet() {
				return fmt.Errorf("the center flag is required")
			}

			width, err := cmd.Flags().GetInt("width")
			if err != nil {
				return err
			}
			height, err := cmd.Flags().GetInt("height")
			if err != nil {
				return err
			}
			bearing, err := cmd.Flags().GetFloat64("bearing")
			if err != nil {
				return err
			}

			grid, err := hexgrid.NewGrid(height, width, bearing)
			if err != nil {
				return err
			}
			if err := grid.ExpandFromPoint(centerFlag.Point(), resolutionFlag.Value()); err != nil {
				return err
			}

			collection := geojson.ToFeatureCollection(grid.Features())
			if terrain := terrainFlag.String(); terrain != "" {
				for _, feature := range collection.Features {
					feature.Properties["terrain"] = terrain
				}
			}

			data, err := collection.MarshalJSON()
			if err != nil {
				return fmt.Errorf("failed to marshal grid: %w", err)
			}

			hexmapsEnv := getHexmapsEnvFromCommandContext(cmd)
			hexmapsEnv.ExecuteIfModeIsProduction(func() {
				log.Info("Generated grid", "cells", grid.Len(), "resolution", resolutionFlag.Value())
			})

			return writeOutput(cmd, outputFlag.String(), data)
		},
	}

	cmd.Flags().Var(centerFlag, centerFlag.FlagName(), "Grid center as 'lat,lng'")
	cmd.Flags().Var(resolutionFlag, resolutionFlag.FlagName(), "H3 resolution (0-15)")
	cmd.Flags().Int("width", 10, "Number of columns")
	cmd.Flags().Int("height", 10, "Number of rows")
	cmd.Flags().Float64("bearing", 0, "Reference bearing for neighbor ordering, in degrees")
	cmd.Flags().Var(terrainFlag, terrainFlag.FlagName(), "Terrain tag applied to every cell")
	cmd.Flags().VarP(outputFlag, outputFlag.FlagName(), "o", "Output file (stdout when omitted)")

	return cmd
}
