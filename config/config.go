// config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mwiater/polybench/catalog"
)

// EnvPrefix is prepended to environment overrides, e.g. POLYBENCH_ROOT.
const EnvPrefix = "POLYBENCH"

// Keys shared between the cobra flags and the config file.
const (
	KeyRoot       = "root"
	KeyPrograms   = "programs"
	KeyToolchains = "toolchains"
	KeyCatalog    = "catalog"
	KeyDebug      = "debug"
)

// ErrInvalidConfig is returned when the resolved configuration cannot drive a run.
var ErrInvalidConfig = errors.New("invalid configuration")

// ToolchainRow is a catalog entry as written in a config file. Rows whose id
// matches a built-in toolchain replace it; other rows are appended.
type ToolchainRow struct {
	ID          string `mapstructure:"id"`
	Dir         string `mapstructure:"dir"`
	SourceExt   string `mapstructure:"source_ext"`
	ArtifactExt string `mapstructure:"artifact_ext"`
	Build       string `mapstructure:"build"`
	Transform   string `mapstructure:"transform"`
}

// Config is the resolved run configuration.
type Config struct {
	// Root is the benchmark tree holding one directory per toolchain.
	Root string `mapstructure:"root"`
	// Programs are the benchmark base names, in build order.
	Programs []string `mapstructure:"programs"`
	// Toolchains are the catalog ids to build, in build order.
	Toolchains []string `mapstructure:"toolchains"`
	// Catalog holds extra or replacement toolchain rows.
	Catalog []ToolchainRow `mapstructure:"catalog"`
	// Debug dumps the resolved configuration before running.
	Debug bool `mapstructure:"debug"`
}

// New returns a viper instance with polybench defaults and environment
// overrides wired in.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

// SetDefaults installs the built-in defaults and env handling on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRoot, ".")
	v.SetDefault(KeyPrograms, catalog.DefaultPrograms)
	v.SetDefault(KeyToolchains, catalog.Default().IDs())
	v.SetDefault(KeyCatalog, []map[string]any{})
	v.SetDefault(KeyDebug, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// ReadFile merges the config file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("could not read config file %s: %w", path, err)
	}
	return nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}
	cfg.Programs = normalize(cfg.Programs)
	cfg.Toolchains = normalize(cfg.Toolchains)
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = "."
	}
	if len(cfg.Programs) == 0 {
		return Config{}, fmt.Errorf("%w: at least one program is required", ErrInvalidConfig)
	}
	if len(cfg.Toolchains) == 0 {
		return Config{}, fmt.Errorf("%w: at least one toolchain is required", ErrInvalidConfig)
	}
	return cfg, nil
}

// BuildCatalog returns the built-in catalog with the config's rows applied.
func (c Config) BuildCatalog() (*catalog.Catalog, error) {
	if len(c.Catalog) == 0 {
		return catalog.Default(), nil
	}
	rows := make([]catalog.Toolchain, 0, len(c.Catalog))
	for _, r := range c.Catalog {
		tr, err := catalog.ParseTransform(r.Transform)
		if err != nil {
			return nil, fmt.Errorf("%w: toolchain %q: %w", ErrInvalidConfig, r.ID, err)
		}
		rows = append(rows, catalog.Toolchain{
			ID:          strings.TrimSpace(r.ID),
			Dir:         r.Dir,
			SourceExt:   r.SourceExt,
			ArtifactExt: r.ArtifactExt,
			Build:       r.Build,
			Transform:   tr,
		})
	}
	cat, err := catalog.Default().With(rows...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cat, nil
}

// normalize trims entries, drops blanks, and splits comma-joined values that
// arrive through a single environment variable.
func normalize(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
