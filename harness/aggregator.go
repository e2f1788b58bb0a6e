// harness/aggregator.go
// Package: harness
package harness

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Aggregator reduces a timing log, one line at a time, into per-label
// entries. A log interleaves label lines and sample lines; each sample is
// attributed to the most recent label.
//
// An Aggregator is built per run and is not safe for concurrent use.
type Aggregator struct {
	entries  []*Entry
	index    map[string]*Entry
	current  *Entry
	warnings []error
	line     int
}

// NewAggregator returns an empty Aggregator with no active label.
func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[string]*Entry)}
}

// Feed consumes the next line of the log. It returns a non-nil error only
// for a line that was recorded as a warning (*OrphanSampleError or
// *InvalidSampleError); aggregation can always continue.
func (a *Aggregator) Feed(line string) error {
	a.line++
	text := strings.TrimSpace(line)

	if hexLiteral(text) {
		a.label(text)
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	var numErr *strconv.NumError
	switch {
	case err == nil:
		return a.sample(v, text)
	case errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange):
		// numeric but does not fit a float64
		return a.warn(&InvalidSampleError{Line: a.line, Label: a.currentLabel(), Text: text})
	}

	a.label(text)
	return nil
}

// hexLiteral reports whether text is written with a 0x prefix. Such lines
// are labels, not samples.
func hexLiteral(text string) bool {
	text = strings.TrimLeft(text, "+-")
	return len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X')
}

func (a *Aggregator) sample(v float64, text string) error {
	if a.current == nil {
		return a.warn(&OrphanSampleError{Line: a.line, Value: v})
	}
	if !validSample(v) {
		return a.warn(&InvalidSampleError{Line: a.line, Label: a.current.Label, Text: text})
	}
	a.current.add(v)
	return nil
}

// label switches the active label. The first known label, in creation
// order, that occurs inside text wins; this lets decorated repeats such as
// "=== fib ===" resolve to "fib". Otherwise text itself becomes a new label.
// A blank line leaves no label active.
func (a *Aggregator) label(text string) {
	if text == "" {
		a.current = nil
		return
	}
	for _, e := range a.entries {
		if strings.Contains(text, e.Label) {
			a.current = e
			return
		}
	}
	e := &Entry{Label: text}
	a.entries = append(a.entries, e)
	a.index[text] = e
	a.current = e
}

func (a *Aggregator) warn(err error) error {
	a.warnings = append(a.warnings, err)
	return err
}

func (a *Aggregator) currentLabel() string {
	if a.current == nil {
		return ""
	}
	return a.current.Label
}

// Current returns the active label, if any.
func (a *Aggregator) Current() (string, bool) {
	if a.current == nil {
		return "", false
	}
	return a.current.Label, true
}

// Lines returns the number of lines consumed so far.
func (a *Aggregator) Lines() int { return a.line }

// Entries returns a snapshot of every entry in creation order, including
// labels that were never timed.
func (a *Aggregator) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	for i, e := range a.entries {
		out[i] = *e
	}
	return out
}

// Lookup returns the entry for label.
func (a *Aggregator) Lookup(label string) (Entry, bool) {
	e, ok := a.index[label]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Warnings returns the per-line warnings recorded so far, in line order.
func (a *Aggregator) Warnings() []error {
	out := make([]error, len(a.warnings))
	copy(out, a.warnings)
	return out
}

// ReadFrom feeds every line of r, in order, exactly once. Lines have no
// length limit. Per-line warnings are collected rather than returned; the
// error is non-nil only when r itself fails, and then wraps
// ErrMalformedInput.
func (a *Aggregator) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	br := bufio.NewReader(cr)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			_ = a.Feed(strings.TrimSuffix(line, "\n"))
		}
		if errors.Is(err, io.EOF) {
			return cr.n, nil
		}
		if err != nil {
			return cr.n, fmt.Errorf("%w: line %d: %w", ErrMalformedInput, a.line+1, err)
		}
	}
}

// AggregateFile aggregates the timing log at path.
func AggregateFile(path string) (*Aggregator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	defer f.Close()

	a := NewAggregator()
	if _, err := a.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
