package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/hexmaps/hexmaps/custom_flags"
	"github.com/hexmaps/hexmaps/manifest"
)

// constraintTable renders a name/constraint table sorted by name.
func constraintTable(entries map[string]string) string {
	scaffold := table.New().
		Headers("name", "constraint")

	names := lo.Keys(entries)
	sort.Strings(names)
	lo.ForEach(names, func(name string, index int) {
		scaffold.Rows([]string{name, entries[name]})
	})

	return lipgloss.NewStyle().Render(scaffold.Render())
}

// NewManifestCmd creates the parent command for manifest inspection.
func NewManifestCmd() *cobra.Command {
	manifestFlag := custom_flags.NewFilePathFlag("manifest")

	resolvePath := func() string {
		if manifestFlag.String() != "" {
			return manifestFlag.String()
		}
		return manifest.DefaultFileName
	}

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Validate or show the project manifest",
	}

	cmd.PersistentFlags().VarP(manifestFlag, manifestFlag.FlagName(), "m", "Manifest file (default hexmaps.yaml)")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the manifest's structural properties",
		Long: `Check that the manifest parses, that every dependency constraint is a
valid semver range and that the build backend appears among the build
requirements.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolvePath()
			if _, err := manifest.Load(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the project identity and dependency tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolvePath()
			m, err := manifest.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			header := lipgloss.NewStyle().Bold(true)

			fmt.Fprintf(out, "%s %s\n", header.Render(m.Project.Name), m.Project.Version)
			if m.Project.Description != "" {
				fmt.Fprintln(out, m.Project.Description)
			}
			if len(m.Project.Authors) > 0 {
				fmt.Fprintln(out, strings.Join(m.Project.Authors, ", "))
			}

			if len(m.Requires) > 0 {
				fmt.Fprintln(out, header.Render("requires"))
				fmt.Fprintln(out, constraintTable(m.Requires))
			}
			if len(m.DevRequires) > 0 {
				fmt.Fprintln(out, header.Render("dev-requires"))
				fmt.Fprintln(out, constraintTable(m.DevRequires))
			}
			if m.Build.Backend != "" {
				fmt.Fprintf(out, "%s %s\n", header.Render("build backend"), m.Build.Backend)
			}
			if len(m.Build.Requires) > 0 {
				fmt.Fprintln(out, header.Render("build requires"))
				fmt.Fprintln(out, constraintTable(m.Build.Requires))
			}
			return nil
		},
	}

	cmd.AddCommand(validateCmd, showCmd)
	return cmd
}
