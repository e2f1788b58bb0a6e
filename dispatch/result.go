// dispatch/result.go
package dispatch

import (
	"fmt"
	"strings"
)

// Op names the dispatcher pass that produced a Result.
type Op string

const (
	OpBuild Op = "build"
	OpClean Op = "clean"
)

// Status is the outcome of one (toolchain, program) pair.
type Status int

const (
	// StatusOK means the command ran or the artifact was removed.
	StatusOK Status = iota
	// StatusFailed means the build command failed. Clean never reports it.
	StatusFailed
	// StatusSkipped means there was nothing to do: no artifact extension,
	// the artifact was already gone, or its removal error was swallowed.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome records what happened to one (toolchain, program) pair.
type Outcome struct {
	Toolchain string
	Program   string
	// Name is the program name after the toolchain's name transform.
	Name string
	// Target is the command that was run (build) or the file removed (clean).
	Target string
	Status Status
	// Err is set for failed builds and for swallowed clean errors.
	Err error
}

// Result is the per-pair report of a BuildAll or CleanAll pass.
type Result struct {
	Op       Op
	Outcomes []Outcome
}

// Failed returns the outcomes with StatusFailed, in run order.
func (r Result) Failed() []Outcome {
	return r.filter(StatusFailed)
}

// Succeeded returns the outcomes with StatusOK, in run order.
func (r Result) Succeeded() []Outcome {
	return r.filter(StatusOK)
}

func (r Result) filter(s Status) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == s {
			out = append(out, o)
		}
	}
	return out
}

// Tally summarizes the pass and lists each failed pair.
func (r Result) Tally() string {
	var b strings.Builder
	failed := r.Failed()
	fmt.Fprintf(&b, "%s: %d ok, %d failed, %d skipped\n",
		r.Op, len(r.Succeeded()), len(failed), len(r.filter(StatusSkipped)))
	for _, o := range failed {
		fmt.Fprintf(&b, "  %s/%s: %v\n", o.Toolchain, o.Name, o.Err)
	}
	return b.String()
}
