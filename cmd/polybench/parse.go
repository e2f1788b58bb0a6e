// cmd/polybench/parse.go
package polybench

import (
	"fmt"
	"log"
	"os"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mwiater/polybench/cli"
	"github.com/mwiater/polybench/config"
	"github.com/mwiater/polybench/harness"
)

var (
	startReportViewer = cli.StartReportViewer
	stdoutIsTerminal  = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
)

var (
	reportFormat string
	reportTUI    bool
	reportStrict bool
)

// parseCmd implements 'parse <log-file>', which reduces a raw timing log to
// per-program count, total and mean.
var parseCmd = &cobra.Command{
	Use:   "parse <log-file>",
	Short: "Summarize a raw timing log",
	Long: `The 'parse' command reads a timing log where each line is either a program label or an
elapsed-time sample, attributes every sample to the most recent label, and prints one block
per timed program: "label:" followed by "count, total, mean". Labels that were never timed
are left out. Samples without a preceding label are reported as warnings and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := harness.ParseFormat(reportFormat)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		if err := config.ReadFile(v, cfgFile); err != nil {
			return err
		}

		path := args[0]
		a, err := harness.AggregateFile(path)
		if err != nil {
			return err
		}

		logger := log.New(cmd.ErrOrStderr(), "polybench: ", 0)
		warnings := a.Warnings()
		for _, w := range warnings {
			logger.Printf("warning: %s: %v", path, w)
		}
		if v.GetBool(config.KeyDebug) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Aggregated entries:")
			pp.Fprintln(cmd.ErrOrStderr(), a.Entries())
		}

		report := harness.BuildReport(path, a)
		if reportTUI && stdoutIsTerminal() {
			if err := startReportViewer(path, report.Summaries); err != nil {
				return err
			}
		} else if err := harness.WriteReport(cmd.OutOrStdout(), format, report); err != nil {
			return err
		}

		if reportStrict && len(warnings) > 0 {
			return fmt.Errorf("%s: %d warning(s) in strict mode", path, len(warnings))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&reportFormat, "format", "f", string(harness.FormatText), "report format: text, json, markdown or html")
	parseCmd.Flags().BoolVar(&reportTUI, "tui", false, "browse the summary in an interactive table when stdout is a terminal")
	parseCmd.Flags().BoolVar(&reportStrict, "strict", false, "exit non-zero if any line produced a warning")
}
