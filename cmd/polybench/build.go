// cmd/polybench/build.go
package polybench

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/polybench/catalog"
	"github.com/mwiater/polybench/dispatch"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// newDispatcher is swapped out in tests.
var newDispatcher = func(cat *catalog.Catalog, root string, out io.Writer) *dispatch.Dispatcher {
	return dispatch.New(cat,
		dispatch.WithRoot(root),
		dispatch.WithOutput(out),
		dispatch.WithRunner(dispatch.ShellRunner{Stdout: out, Stderr: out}),
	)
}

// buildCmd implements 'build', which compiles every program with every
// configured toolchain and reports the pairs that failed.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build every program with every toolchain",
	Long: `The 'build' command runs each toolchain's build command once per program, toolchain by
toolchain, one command at a time. A failed build is recorded and the run continues; the
command exits non-zero after printing the tally if any pair failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		cfg, cat, err := loadRunConfig(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		d := newDispatcher(cat, cfg.Root, out)
		res, err := d.BuildAll(cmd.Context(), cfg.Programs, cfg.Toolchains)
		if err != nil {
			return err
		}
		printTally(out, res)
		if failed := len(res.Failed()); failed > 0 {
			return fmt.Errorf("%d of %d builds failed", failed, len(res.Outcomes))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

// printTally writes the per-pass summary, highlighting failures.
func printTally(w io.Writer, res dispatch.Result) {
	style := okStyle
	if len(res.Failed()) > 0 {
		style = failStyle
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, style.Render(res.Tally()))
	fmt.Fprintln(w)
}
