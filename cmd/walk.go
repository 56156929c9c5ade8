package cmd

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hexmaps/hexmaps/custom_flags"
	"github.com/hexmaps/hexmaps/geojson"
	"github.com/hexmaps/hexmaps/hexgrid"
)

// NewWalkCmd creates the command that walks hex cells from a start
// coordinate and emits the visited cells as a GeoJSON feature collection.
func NewWalkCmd() *cobra.Command {
	startFlag := custom_flags.NewLatLngFlag("start")
	resolutionFlag := custom_flags.NewResolutionFlag("resolution", 9)
	kindFlag := custom_flags.NewUnionFlag([]string{"random", "straight"}, "kind", "random")
	outputFlag := custom_flags.NewFilePathFlag("output")

	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Emit a walker trace over hex cells as GeoJSON",
		Long: `Walk from the hex cell containing the start coordinate.

A random walk picks a uniformly random neighbor at every step; a straight
walk always moves toward the configured bearing. The output contains the
start cell followed by every visited cell.

Examples:
  hexmaps walk --start 48.8566,2.3522 --steps 20
  hexmaps walk --start 48.8566,2.3522 --kind straight --bearing 90 --steps 50
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !startFlag.IsSet() {
				return fmt.Errorf("the start flag is required")
			}

			steps, err := cmd.Flags().GetInt("steps")
			if err != nil {
				return err
			}
			if steps <= 0 {
				return fmt.Errorf("the steps flag must be positive")
			}
			bearing, err := cmd.Flags().GetFloat64("bearing")
			if err != nil {
				return err
			}
			seed, err := cmd.Flags().GetInt64("seed")
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			cell, err := hexgrid.CellFromPoint(startFlag.Point(), resolutionFlag.Value())
			if err != nil {
				return err
			}

			var walker *hexgrid.Walker
			switch kindFlag.String() {
			case "straight":
				walker = cell.StraightWalker(bearing, steps)
			default:
				walker = cell.RandomWalker(rand.New(rand.NewSource(seed)), steps)
			}

			visited, err := walker.Collect()
			if err != nil {
				return err
			}

			features := make([]geojson.Feature, 0, len(visited)+1)
			features = append(features, cell)
			for _, neighbor := range visited {
				features = append(features, neighbor)
			}

			data, err := geojson.ToFeatureCollection(features).MarshalJSON()
			if err != nil {
				return fmt.Errorf("failed to marshal walk: %w", err)
			}

			hexmapsEnv := getHexmapsEnvFromCommandContext(cmd)
			hexmapsEnv.ExecuteIfModeIsProduction(func() {
				log.Info("Walk finished", "kind", kindFlag.String(), "steps", len(visited))
			})

			return writeOutput(cmd, outputFlag.String(), data)
		},
	}

	cmd.Flags().Var(startFlag, startFlag.FlagName(), "Start coordinate as 'lat,lng'")
	cmd.Flags().Var(resolutionFlag, resolutionFlag.FlagName(), "H3 resolution (0-15)")
	cmd.Flags().Var(kindFlag, kindFlag.FlagName(), "Walk kind: random or straight")
	cmd.Flags().Int("steps", 10, "Number of steps to take")
	cmd.Flags().Float64("bearing", 0, "Bearing for straight walks, in degrees")
	cmd.Flags().Int64("seed", 0, "Random seed for random walks (0 seeds from the clock)")
	cmd.Flags().VarP(outputFlag, outputFlag.FlagName(), "o", "Output file (stdout when omitted)")

	return cmd
}
