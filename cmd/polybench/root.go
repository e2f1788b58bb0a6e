// cmd/polybench/root.go
package polybench

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/polybench/catalog"
	"github.com/mwiater/polybench/config"
)

// cfgFile is the optional config file given with --config.
var cfgFile string

// v holds flag, environment and config file settings for every command.
var v = config.New()

// rootCmd is the base Cobra command for the polybench application.
// All subcommands are attached to this root to form the complete CLI.
var rootCmd = &cobra.Command{
	Use:   "polybench",
	Short: "Build cross-language benchmarks and summarize their timing logs",
	Long: `polybench builds the same benchmark programs (fib, primes, pascal) with every
configured language toolchain, and reduces the timing log produced by running
them into a per-program count, total and mean.`,
}

// Execute runs the root Cobra command and all registered subcommands.
// Cobra prints the error; Execute exits the process with a non-zero status
// code on failure. An interrupt stops the run between build commands.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	pf.String(config.KeyRoot, "", "benchmark root holding one directory per toolchain (default \".\")")
	pf.StringSlice(config.KeyPrograms, nil, "programs to build, in order (default fib,primes,pascal)")
	pf.StringSlice(config.KeyToolchains, nil, "toolchain ids to build, in order (default: every catalog entry)")
	pf.Bool(config.KeyDebug, false, "dump the resolved configuration")

	for _, key := range []string{config.KeyRoot, config.KeyPrograms, config.KeyToolchains, config.KeyDebug} {
		if err := v.BindPFlag(key, pf.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// loadRunConfig resolves the configuration and catalog for a command.
func loadRunConfig(errOut io.Writer) (config.Config, *catalog.Catalog, error) {
	if err := config.ReadFile(v, cfgFile); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	cat, err := cfg.BuildCatalog()
	if err != nil {
		return config.Config{}, nil, err
	}
	if cfg.Debug {
		fmt.Fprintln(errOut, "Resolved configuration:")
		pp.Fprintln(errOut, cfg)
	}
	return cfg, cat, nil
}
