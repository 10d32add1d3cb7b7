package scoring

import (
	"fmt"
	"strings"
)

// IncompleteError is returned when one or more axes have no recorded answers.
// A type code is only produced when every axis contributed.
type IncompleteError struct {
	Missing []Axis
}

func (e *IncompleteError) Error() string {
	tags := make([]string, len(e.Missing))
	for i, a := range e.Missing {
		tags[i] = a.Tag()
	}
	return fmt.Sprintf("no answers recorded for axes: %s", strings.Join(tags, ", "))
}

// Tally accumulates answer values per axis.
type Tally struct {
	sums   [axisCount]int64
	counts [axisCount]int64
}

// Add records a single answer value against an axis.
func (t *Tally) Add(a Axis, value int64) {
	t.AddTotal(a, value, 1)
}

// AddTotal merges a pre-aggregated sum of n answers, as returned by a GROUP BY.
func (t *Tally) AddTotal(a Axis, sum int64, n int64) {
	t.sums[a] += sum
	t.counts[a] += n
}

// Sum returns the accumulated value for an axis.
func (t *Tally) Sum(a Axis) int64 {
	return t.sums[a]
}

// Sums returns the per-axis totals keyed by tag, for axes that received answers.
func (t *Tally) Sums() map[string]int64 {
	out := make(map[string]int64, axisCount)
	for _, a := range Axes {
		if t.counts[a] > 0 {
			out[a.Tag()] = t.sums[a]
		}
	}
	return out
}

// Code builds the uppercase four-letter type code in EI, SN, TF, JP order.
func (t *Tally) Code() (string, error) {
	var missing []Axis
	for _, a := range Axes {
		if t.counts[a] == 0 {
			missing = append(missing, a)
		}
	}
	if len(missing) > 0 {
		return "", &IncompleteError{Missing: missing}
	}

	code := make([]byte, 0, axisCount)
	for _, a := range Axes {
		code = append(code, a.Letter(t.sums[a]))
	}
	return string(code), nil
}

// IsValidCode reports whether code is a well-formed four-letter type code.
func IsValidCode(code string) bool {
	if len(code) != int(axisCount) {
		return false
	}
	for i, a := range Axes {
		info := axisInfo[a]
		c := code[i]
		if c != info.low && c != info.high {
			return false
		}
	}
	return true
}
