// cmd/polybench/clean.go
package polybench

import (
	"github.com/spf13/cobra"
)

// cleanCmd implements 'clean', which removes compiled artifacts.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove compiled artifacts for every program and toolchain",
	Long: `The 'clean' command removes <name><artifact-extension> for every program in each toolchain
directory. Toolchains without an artifact extension are skipped, and files that are already
gone are not errors, so cleaning a clean tree succeeds.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		cfg, cat, err := loadRunConfig(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		res, err := newDispatcher(cat, cfg.Root, out).CleanAll(cmd.Context(), cfg.Programs, cfg.Toolchains)
		if err != nil {
			return err
		}
		printTally(out, res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
