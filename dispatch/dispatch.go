// dispatch/dispatch.go
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mwiater/polybench/catalog"
)

// ErrConfiguration wraps every problem found before a pass starts: unknown
// toolchains, empty or duplicated program lists, and missing sources.
var ErrConfiguration = errors.New("configuration error")

// Dispatcher builds and cleans every (toolchain, program) pair, one command at
// a time. Commands sharing a toolchain directory are never run concurrently.
type Dispatcher struct {
	cat    *catalog.Catalog
	root   string
	fs     afero.Fs
	runner Runner
	out    io.Writer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRoot sets the directory holding one subdirectory per toolchain.
func WithRoot(root string) Option {
	return func(d *Dispatcher) { d.root = root }
}

// WithFs sets the filesystem used for source checks and artifact removal.
func WithFs(fsys afero.Fs) Option {
	return func(d *Dispatcher) { d.fs = fsys }
}

// WithRunner sets the build command runner.
func WithRunner(r Runner) Option {
	return func(d *Dispatcher) { d.runner = r }
}

// WithOutput sets where progress lines are written.
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) { d.out = w }
}

// New returns a Dispatcher over cat. By default it works in the current
// directory on the OS filesystem, runs commands through sh and discards
// progress output.
func New(cat *catalog.Catalog, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cat:    cat,
		root:   ".",
		fs:     afero.NewOsFs(),
		runner: ShellRunner{},
		out:    io.Discard,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Plan resolves toolchainIDs and checks programs before any side effect.
// When requireSources is set, every toolchain must provide a source file for
// every program; all missing pairs are reported together.
func (d *Dispatcher) Plan(programs, toolchainIDs []string, requireSources bool) ([]catalog.Toolchain, error) {
	if len(programs) == 0 {
		return nil, fmt.Errorf("%w: no programs", ErrConfiguration)
	}
	if len(toolchainIDs) == 0 {
		return nil, fmt.Errorf("%w: no toolchains", ErrConfiguration)
	}
	seen := make(map[string]bool, len(programs))
	for _, p := range programs {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("%w: empty program name", ErrConfiguration)
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: program %q listed twice", ErrConfiguration, p)
		}
		seen[p] = true
	}

	tcs, err := d.cat.Resolve(toolchainIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	for _, tc := range tcs {
		names := make(map[string]string, len(programs))
		for _, p := range programs {
			name := tc.Name(p)
			if prev, ok := names[name]; ok {
				return nil, fmt.Errorf("%w: programs %q and %q are both %q for %s", ErrConfiguration, prev, p, name, tc.ID)
			}
			names[name] = p
		}
	}

	if requireSources {
		var missing []string
		for _, tc := range tcs {
			for _, p := range programs {
				src := filepath.Join(d.root, tc.WorkDir(), tc.Source(p))
				ok, err := afero.Exists(d.fs, src)
				if err != nil {
					return nil, fmt.Errorf("%w: checking %s: %w", ErrConfiguration, src, err)
				}
				if !ok {
					missing = append(missing, src)
				}
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: missing sources:\n\t%s", ErrConfiguration, strings.Join(missing, "\n\t"))
		}
	}
	return tcs, nil
}

// BuildAll runs each toolchain's build command for every program, toolchain
// by toolchain, in program order. A failing command is recorded and the pass
// continues. The error is non-nil only for configuration problems, in which
// case nothing ran, or when ctx is cancelled between commands.
func (d *Dispatcher) BuildAll(ctx context.Context, programs, toolchainIDs []string) (Result, error) {
	tcs, err := d.Plan(programs, toolchainIDs, true)
	if err != nil {
		return Result{Op: OpBuild}, err
	}

	res := Result{Op: OpBuild}
	for _, tc := range tcs {
		dir := filepath.Join(d.root, tc.WorkDir())
		fmt.Fprintf(d.out, "Building %s programs in %s...\n", tc.ID, dir)
		for _, p := range programs {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			command := tc.Command(p)
			fmt.Fprintf(d.out, "  -> %s\n", command)
			o := Outcome{Toolchain: tc.ID, Program: p, Name: tc.Name(p), Target: command}
			if err := d.runner.Run(ctx, dir, command); err != nil {
				o.Status = StatusFailed
				o.Err = err
				fmt.Fprintf(d.out, "  !! %s/%s failed: %v\n", tc.ID, o.Name, err)
			}
			res.Outcomes = append(res.Outcomes, o)
		}
	}
	return res, nil
}

// CleanAll removes every program's artifact for each toolchain. Toolchains
// without an artifact extension are skipped. Removal errors, including a
// missing file, never fail the pass, so cleaning a clean tree is a no-op.
func (d *Dispatcher) CleanAll(ctx context.Context, programs, toolchainIDs []string) (Result, error) {
	tcs, err := d.Plan(programs, toolchainIDs, false)
	if err != nil {
		return Result{Op: OpClean}, err
	}

	res := Result{Op: OpClean}
	for _, tc := range tcs {
		dir := filepath.Join(d.root, tc.WorkDir())
		for _, p := range programs {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			o := Outcome{Toolchain: tc.ID, Program: p, Name: tc.Name(p), Status: StatusSkipped}
			artifact := tc.Artifact(p)
			if artifact == "" {
				res.Outcomes = append(res.Outcomes, o)
				continue
			}
			o.Target = filepath.Join(dir, artifact)
			switch err := d.fs.Remove(o.Target); {
			case err == nil:
				o.Status = StatusOK
				fmt.Fprintf(d.out, "  -> Removed %s\n", o.Target)
			case errors.Is(err, fs.ErrNotExist):
			default:
				o.Err = err
				fmt.Fprintf(d.out, "  -> Could not remove %s: %v\n", o.Target, err)
			}
			res.Outcomes = append(res.Outcomes, o)
		}
	}
	return res, nil
}
