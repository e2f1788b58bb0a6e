// cmd/polybench/list_toolchains.go
package polybench

import (
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/polybench/catalog"
	"github.com/mwiater/polybench/config"
)

var (
	headingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// listToolchainsCmd implements 'list toolchains', which prints the catalog
// after config overrides and marks the toolchains selected for this run.
var listToolchainsCmd = &cobra.Command{
	Use:   "toolchains",
	Short: "List every toolchain in the catalog",
	Long:  `The 'toolchains' subcommand prints each catalog entry with its directory, extensions, build template and name transform. Toolchains selected for the current run are marked with '*'.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cat, err := loadRunConfig(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		printToolchains(cmd.OutOrStdout(), cat, cfg)
		return nil
	},
}

// listProgramsCmd implements 'list programs', which prints the configured
// programs and the name each selected toolchain builds them under.
var listProgramsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List the benchmark programs and their per-toolchain names",
	Long:  `The 'programs' subcommand prints the configured benchmark programs in build order, with the source file each selected toolchain expects for it.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cat, err := loadRunConfig(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		tcs, err := cat.Resolve(cfg.Toolchains)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range cfg.Programs {
			fmt.Fprintln(out, headingStyle.Render(p+":"))
			for _, tc := range tcs {
				fmt.Fprintf(out, "  >>> %-8s %s\n", tc.ID, tc.Source(p))
			}
		}
		return nil
	},
}

func init() {
	listCmd.AddCommand(listToolchainsCmd)
	listCmd.AddCommand(listProgramsCmd)
}

func printToolchains(w io.Writer, cat *catalog.Catalog, cfg config.Config) {
	fmt.Fprintln(w, headingStyle.Render("Toolchains:"))
	for _, tc := range cat.Toolchains() {
		artifact := tc.ArtifactExt
		if artifact == "" {
			artifact = "(none)"
		}
		line := fmt.Sprintf("%-8s dir=%-8s %s -> %-7s %-10s %s",
			tc.ID, tc.WorkDir(), tc.SourceExt, artifact, tc.Transform, tc.Build)
		if slices.Contains(cfg.Toolchains, tc.ID) {
			fmt.Fprintln(w, selectedStyle.Render("* "+line))
		} else {
			fmt.Fprintln(w, idleStyle.Render("  "+line))
		}
	}
}
