// harness/results.go
// Package: harness
package harness

import "time"

// Summarize returns a Summary for each entry that has at least one sample,
// keeping the entries' order. Never-timed labels are dropped, so no mean is
// ever computed for a zero count.
func Summarize(entries []Entry) []Summary {
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		mean, ok := e.Mean()
		if !ok {
			continue
		}
		out = append(out, Summary{
			Label: e.Label,
			Count: e.Count,
			Total: e.Total,
			Mean:  mean,
		})
	}
	return out
}

// BuildReport packs the summaries and warnings of a with a timestamp.
func BuildReport(source string, a *Aggregator) Report {
	var warnings []string
	for _, w := range a.Warnings() {
		warnings = append(warnings, w.Error())
	}
	return Report{
		Source:      source,
		Summaries:   Summarize(a.Entries()),
		Warnings:    warnings,
		GeneratedAt: time.Now(),
	}
}
