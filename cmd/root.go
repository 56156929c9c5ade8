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

// Package cmd provides the command-line interface of the hexmaps CLI.
package cmd

import (
	// standard library
	"context"
	"fmt"
	"os"

	// external
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	// internal
	"github.com/hexmaps/hexmaps/build_info"
	"github.com/hexmaps/hexmaps/env"
	"github.com/hexmaps/hexmaps/overpass"
)

// Constants for context keys and flags
const (
	_HEXMAPS_ENV  = "hexmaps_env"
	_OVERPASS_API = "overpass_api"
	_DEBUG_FLAG   = "debug"
)

// TileMultiSelectUI lets the render command ask for basemaps interactively.
// It is an interface so tests can drive the selection without a terminal.
type TileMultiSelectUI interface {
	Values() []string
	Run() error
}

type tileMultiSelectUI struct {
	values   []string
	selectUI *huh.MultiSelect[string]
}

func newTileMultiSelectUI(options []string) TileMultiSelectUI {
	return &tileMultiSelectUI{
		selectUI: huh.NewMultiSelect[string]().
			Title("Tile layers").
			Description("Pick the basemaps offered on the rendered map").
			Options(lo.Map(options, func(option string, _ int) huh.Option[string] {
				return huh.NewOption(option, option)
			})...),
	}
}

func (ui *tileMultiSelectUI) Values() []string {
	return ui.values
}

func (ui *tileMultiSelectUI) Run() error {
	return ui.selectUI.Value(&ui.values).Run()
}

// Dependencies holds the external dependencies for testing and real execution
type Dependencies struct {
	OverpassAPIGetter    func() overpass.Service
	NewTileMultiSelectUI func(options []string) TileMultiSelectUI
}

// NewRootCmd creates a new root command with injectable dependencies.
func NewRootCmd(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hexmaps",
		Version: build_info.CLI_VERSION.String(),
		Short:   "Generate hex grids and interactive maps from OpenStreetMap data",
		Long: `hexmaps - hex maps generation scripts.

Builds H3 hex grids around a point, walks them, queries OpenStreetMap
through the Overpass API and composes the results into interactive
Leaflet maps.

Available commands:
		grid      - Generate a rectangular hex grid as GeoJSON
		walk      - Emit a walker trace over hex cells as GeoJSON
		query     - Run an Overpass query and emit features as GeoJSON
		render    - Compose GeoJSON files into an interactive HTML map
		build     - Run the manifest pipeline end to end
		manifest  - Validate or show the project manifest`,
		SilenceUsage: true,

		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			hexmapsEnv, err := env.NewHexmapsEnv()
			if err != nil {
				return err
			}

			// .env files are a development convenience only.
			if !hexmapsEnv.IsProductionMode() {
				if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
					log.Error(err.Error())
				}
			}

			debug, err := c.Flags().GetBool(_DEBUG_FLAG)
			if err != nil {
				return err
			}
			if debug || hexmapsEnv.IsDebugMode() {
				log.SetLevel(log.DebugLevel)
			}

			c_ctx := c.Context()
			lo.ForEach([][2]any{
				{_HEXMAPS_ENV, hexmapsEnv},
				{_OVERPASS_API, deps.OverpassAPIGetter()},
			}, func(item [2]any, index int) {
				c_ctx = context.WithValue(
					c_ctx,
					item[0],
					item[1],
				)
			})
			c.SetContext(c_ctx)
			return nil
		},
	}

	cmd.PersistentFlags().Bool(_DEBUG_FLAG, false, "Enable debug logging")

	cmd.AddCommand(
		NewGridCmd(),
		NewWalkCmd(),
		NewQueryCmd(),
		NewRenderCmd(deps.NewTileMultiSelectUI),
		NewBuildCmd(),
		NewManifestCmd(),
	)

	return cmd
}

// Global variable for the root command, initialized in init()
var rootCmd *cobra.Command

func init() {
	rootCmd = NewRootCmd(
		Dependencies{
			OverpassAPIGetter:    overpass.NewClient,
			NewTileMultiSelectUI: newTileMultiSelectUI,
		},
	)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}

// Helper functions to retrieve dependencies and other values from the command context.

func getHexmapsEnvFromCommandContext(cmd *cobra.Command) env.HexmapsEnv {
	return cmd.Context().Value(_HEXMAPS_ENV).(env.HexmapsEnv)
}

func getOverpassAPIFromCommandContext(cmd *cobra.Command) overpass.Service {
	return cmd.Context().Value(_OVERPASS_API).(overpass.Service)
}

// writeOutput writes rendered bytes either to a file or to the command's
// stdout when no path was given.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
