// harness/report.go
// Package: harness
package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"rsc.io/markdown"
)

// Format selects how WriteReport renders summaries.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported report formats.
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown, FormatHTML}

// ErrUnknownFormat is returned for a format name not in Formats.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// labelStyle keeps tabs inside labels as written.
var labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).TabWidth(lipgloss.NoTabConversion)

// Render returns the plain-text report: for each label with at least one
// sample, in first-seen order, a "label:" line followed by
// "count, total, mean".
func Render(entries []Entry) []string {
	return renderSummaries(Summarize(entries))
}

// renderSummaries alternates "label:" and "count, total, mean" lines.
func renderSummaries(sums []Summary) []string {
	lines := make([]string, 0, 2*len(sums))
	for _, s := range sums {
		lines = append(lines, s.Label+":", summaryLine(s))
	}
	return lines
}

func summaryLine(s Summary) string {
	return fmt.Sprintf("%d, %s, %s", s.Count, FormatFloat(s.Total), FormatFloat(s.Mean))
}

// WriteReport writes r to w in the given format.
func WriteReport(w io.Writer, format Format, r Report) error {
	switch format {
	case FormatText:
		for i, line := range renderSummaries(r.Summaries) {
			if i%2 == 0 {
				line = labelStyle.Render(line)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, markdownTable(r))
		return err
	case FormatHTML:
		p := &markdown.Parser{Table: true}
		doc := p.Parse(markdownTable(r))
		_, err := io.WriteString(w, markdown.ToHTML(doc))
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func markdownTable(r Report) string {
	var b strings.Builder
	b.WriteString("# Benchmark summary\n\n")
	if r.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", escapeCell(r.Source))
	}
	b.WriteString("| Program | Count | Total | Mean |\n")
	b.WriteString("| :--- | ---: | ---: | ---: |\n")
	for _, s := range r.Summaries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			escapeCell(s.Label), strconv.Itoa(s.Count), FormatFloat(s.Total), FormatFloat(s.Mean))
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", escapeCell(w))
		}
	}
	return b.String()
}

// cellEscaper backslash-escapes the punctuation that could open markup,
// so text from the log renders literally in markdown and html.
var cellEscaper = func() *strings.Replacer {
	var pairs []string
	for _, c := range "\\`*_[]<>&|!~" {
		pairs = append(pairs, string(c), `\`+string(c))
	}
	return strings.NewReplacer(pairs...)
}()

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
