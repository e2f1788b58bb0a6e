// harness/metrics.go
// Package: harness
package harness

import (
	"math"
	"strconv"
	"strings"
)

// add folds v into e using Neumaier summation so long logs of small samples
// do not drift.
func (e *Entry) add(v float64) {
	t := e.sum + v
	if math.Abs(e.sum) >= math.Abs(v) {
		e.comp += (e.sum - t) + v
	} else {
		e.comp += (v - t) + e.sum
	}
	e.sum = t
	e.Count++
	e.Total = e.sum + e.comp
}

// validSample reports whether v can be an elapsed time.
func validSample(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// FormatFloat prints the shortest representation that round-trips, always
// with a decimal point or an exponent: 6 -> "6.0", 1e-7 -> "1e-07".
// Exponent form is used below 1e-4 and from 1e16 up.
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if v == 0 {
		return "0.0"
	}
	e := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return e
	}
	f := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(f, ".") {
		f += ".0"
	}
	return f
}
