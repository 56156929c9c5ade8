package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hexmaps/hexmaps/custom_flags"
	"github.com/hexmaps/hexmaps/geojson"
	"github.com/hexmaps/hexmaps/overpass"
)

// NewQueryCmd creates the command that runs an Overpass union query and
// emits the returned elements as GeoJSON features.
func NewQueryCmd() *cobra.Command {
	bboxFlag := custom_flags.NewBBoxFlag("bbox")
	recurseFlag := custom_flags.NewUnionFlag(
		[]string{"none", "down", "down-relations", "up", "up-relations"},
		"recurse",
		"none",
	)
	fileFlag := custom_flags.NewFilePathFlag("file")
	outputFlag := custom_flags.NewFilePathFlag("output")

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run an Overpass query and emit features as GeoJSON",
		Long: `Run an Overpass QL union block against the Overpass API.

The union block is taken from --query, from --file, or from stdin. Nodes
become points, closed ways become polygons and relations are assembled
recursively into geometry collections.

Examples:
  hexmaps query --query '( way["leisure"="park"]; );' --bbox 48.8,2.2,48.95,2.5
  hexmaps query --file rivers.overpassql --recurse down --split-relations
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			unionBlock, err := cmd.Flags().GetString("query")
			if err != nil {
				return err
			}
			if unionBlock == "" && fileFlag.String() != "" {
				data, err := os.ReadFile(fileFlag.String())
				if err != nil {
					return fmt.Errorf("failed to read query file: %w", err)
				}
				unionBlock = string(data)
			}
			if unionBlock == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read query from stdin: %w", err)
				}
				unionBlock = string(data)
			}
			if strings.TrimSpace(unionBlock) == "" {
				return fmt.Errorf("no query given; use --query, --file or stdin")
			}

			recurse, err := overpass.ParseRecurse(recurseFlag.String())
			if err != nil {
				return err
			}
			timeout, err := cmd.Flags().GetInt("timeout")
			if err != nil {
				return err
			}

			opts := overpass.QueryOptions{
				Recurse: recurse,
				Timeout: time.Duration(timeout) * time.Second,
			}
			if bboxFlag.IsSet() {
				bbox := bboxFlag.Value()
				opts.BBox = &bbox
			}

			query, err := overpass.BuildUnionQuery(unionBlock, opts)
			if err != nil {
				return err
			}

			api := getOverpassAPIFromCommandContext(cmd)
			result, err := api.Query(cmd.Context(), query)
			if err != nil {
				return err
			}

			featureOpts := overpass.DefaultFeatureOptions()
			featureOpts.ResolveMissing, err = cmd.Flags().GetBool("resolve-missing")
			if err != nil {
				return err
			}
			featureOpts.SplitRelations, err = cmd.Flags().GetBool("split-relations")
			if err != nil {
				return err
			}

			set, err := overpass.BuildFeatures(cmd.Context(), result, featureOpts)
			if err != nil {
				return err
			}

			data, err := geojson.ToFeatureCollection(set.All()).MarshalJSON()
			if err != nil {
				return fmt.Errorf("failed to marshal features: %w", err)
			}

			hexmapsEnv := getHexmapsEnvFromCommandContext(cmd)
			hexmapsEnv.ExecuteIfModeIsProduction(func() {
				log.Info("Query finished",
					"nodes", len(set.Nodes),
					"ways", len(set.Ways),
					"relations", len(set.Relations),
				)
			})

			return writeOutput(cmd, outputFlag.String(), data)
		},
	}

	cmd.Flags().StringP("query", "q", "", "Overpass QL union block, e.g. '( way[\"highway\"]; );'")
	cmd.Flags().Var(fileFlag, fileFlag.FlagName(), "File containing the union block")
	cmd.Flags().Var(bboxFlag, bboxFlag.FlagName(), "Bounding box as 'south,west,north,east'")
	cmd.Flags().Var(recurseFlag, recurseFlag.FlagName(), "Recursion applied before output")
	cmd.Flags().Int("timeout", 0, "Overpass [timeout] in seconds (0 uses the default)")
	cmd.Flags().Bool("resolve-missing", false, "Resolve referenced elements missing from the result")
	cmd.Flags().Bool("split-relations", false, "Emit one feature per relation geometry")
	cmd.Flags().VarP(outputFlag, outputFlag.FlagName(), "o", "Output file (stdout when omitted)")

	return cmd
}
