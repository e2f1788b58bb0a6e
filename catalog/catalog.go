// catalog/catalog.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder marks where the program name is substituted into a build template.
const Placeholder = "{name}"

var (
	// ErrUnknownToolchain is returned when a toolchain id is not in the catalog.
	ErrUnknownToolchain = errors.New("unknown toolchain")
	// ErrInvalidToolchain is returned when a catalog row is incomplete or duplicated.
	ErrInvalidToolchain = errors.New("invalid toolchain")
)

// NameTransform rewrites a program base name before it is substituted into a
// toolchain's build template or artifact path.
type NameTransform string

const (
	// Identity leaves the program name unchanged.
	Identity NameTransform = "identity"
	// TitleCase capitalizes the program name ("fib" -> "Fib"), for toolchains
	// whose public type must match the file name.
	TitleCase NameTransform = "title"
)

// ParseTransform maps a config string onto a NameTransform. The empty string
// is treated as Identity.
func ParseTransform(s string) (NameTransform, error) {
	switch NameTransform(strings.ToLower(strings.TrimSpace(s))) {
	case "", Identity:
		return Identity, nil
	case TitleCase:
		return TitleCase, nil
	default:
		return "", fmt.Errorf("%w: unknown name transform %q", ErrInvalidToolchain, s)
	}
}

// Apply returns name rewritten by the transform.
func (t NameTransform) Apply(name string) string {
	switch t {
	case TitleCase:
		return cases.Title(language.Und).String(name)
	default:
		return name
	}
}

// Toolchain describes how one language builds and cleans a benchmark program.
type Toolchain struct {
	// ID is the lookup key, e.g. "c" or "java".
	ID string
	// Dir is the working directory of the toolchain, relative to the
	// benchmark root. Empty means ID.
	Dir string
	// SourceExt is the extension of a program's source file, e.g. ".java".
	SourceExt string
	// ArtifactExt is the extension of the compiled artifact. Empty means the
	// toolchain leaves nothing behind to clean.
	ArtifactExt string
	// Build is the shell command template; every Placeholder is replaced by
	// the transformed program name.
	Build string
	// Transform is applied to the program name before substitution.
	Transform NameTransform
}

// WorkDir returns the directory the toolchain's commands run in.
func (t Toolchain) WorkDir() string {
	if t.Dir == "" {
		return t.ID
	}
	return t.Dir
}

// Name returns the program name as this toolchain expects to see it.
func (t Toolchain) Name(program string) string {
	return t.Transform.Apply(program)
}

// Command returns the build command for program.
func (t Toolchain) Command(program string) string {
	return strings.ReplaceAll(t.Build, Placeholder, t.Name(program))
}

// Source returns the source file name for program, relative to WorkDir.
func (t Toolchain) Source(program string) string {
	return t.Name(program) + t.SourceExt
}

// Artifact returns the artifact file name for program, relative to WorkDir,
// or "" when the toolchain produces no artifact.
func (t Toolchain) Artifact(program string) string {
	if t.ArtifactExt == "" {
		return ""
	}
	return t.Name(program) + t.ArtifactExt
}

func (t Toolchain) validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidToolchain)
	}
	if !strings.Contains(t.Build, Placeholder) {
		return fmt.Errorf("%w: %s: build template %q has no %s", ErrInvalidToolchain, t.ID, t.Build, Placeholder)
	}
	if _, err := ParseTransform(string(t.Transform)); err != nil {
		return fmt.Errorf("%s: %w", t.ID, err)
	}
	return nil
}

// Catalog is an ordered, read-only table of toolchains indexed by id.
type Catalog struct {
	rows  []Toolchain
	index map[string]int
}

// New builds a catalog from rows, in order. It rejects empty ids, duplicate
// ids and build templates without a Placeholder.
func New(rows ...Toolchain) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int, len(rows))}
	for _, r := range rows {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidToolchain, r.ID)
		}
		r.Transform, _ = ParseTransform(string(r.Transform))
		c.index[r.ID] = len(c.rows)
		c.rows = append(c.rows, r)
	}
	return c, nil
}

// With returns a new catalog holding c's rows plus rows. A row whose id is
// already present replaces the existing row in place; new ids are appended.
func (c *Catalog) With(rows ...Toolchain) (*Catalog, error) {
	merged := make([]Toolchain, len(c.rows))
	copy(merged, c.rows)
	for _, r := range rows {
		if i, ok := c.index[r.ID]; ok {
			merged[i] = r
			continue
		}
		merged = append(merged, r)
	}
	return New(merged...)
}

// Lookup returns the toolchain registered under id.
func (c *Catalog) Lookup(id string) (Toolchain, error) {
	i, ok := c.index[id]
	if !ok {
		return Toolchain{}, fmt.Errorf("%w: %q", ErrUnknownToolchain, id)
	}
	return c.rows[i], nil
}

// Resolve looks up every id before returning, so a caller never acts on a
// partial list.
func (c *Catalog) Resolve(ids []string) ([]Toolchain, error) {
	out := make([]Toolchain, 0, len(ids))
	for _, id := range ids {
		t, err := c.Lookup(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// IDs returns the registered ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.rows))
	for i, r := range c.rows {
		ids[i] = r.ID
	}
	return ids
}

// Toolchains returns a copy of the rows in catalog order.
func (c *Catalog) Toolchains() []Toolchain {
	out := make([]Toolchain, len(c.rows))
	copy(out, c.rows)
	return out
}
