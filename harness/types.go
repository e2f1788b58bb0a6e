// harness/types.go
// Package: harness
package harness

import "time"

// Entry is the running count and sum of samples for one program label.
// Entries are created the first time a label is seen and never removed.
type Entry struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Total float64 `json:"total"`

	// Neumaier compensation term; Total already includes it.
	sum, comp float64
}

// Mean returns Total/Count. ok is false for an entry that was never timed,
// in which case no mean exists.
func (e Entry) Mean() (mean float64, ok bool) {
	if e.Count == 0 {
		return 0, false
	}
	return e.Total / float64(e.Count), true
}

// Summary is the reported form of an Entry with at least one sample.
type Summary struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
	Mean  float64 `json:"mean"`
}

// Report is the top-level artifact written by the json format.
type Report struct {
	Source      string    `json:"source,omitempty"`
	Summaries   []Summary `json:"summaries"`
	Warnings    []string  `json:"warnings,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}
