package reconciler

import (
	"fmt"
	"time"
)

// Result is the outcome of reconciling one pair.
type Result struct {
	Pair Pair `json:"pair" yaml:"pair"`

	// Input sizes
	Observations int `json:"observations" yaml:"observations"`
	Assignments  int `json:"assignments" yaml:"assignments"`
	LookupSize   int `json:"lookup_size" yaml:"lookup_size"`
	Duplicates   int `json:"duplicate_keys" yaml:"duplicate_keys"`

	Stats Stats `json:"stats" yaml:"stats"`

	// Written is false for dry runs.
	Written  bool          `json:"written" yaml:"written"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Outcome records how a single pair fared within a Run.
type Outcome struct {
	Pair   Pair    `json:"pair" yaml:"pair"`
	Result *Result `json:"result,omitempty" yaml:"result,omitempty"`
	Err    error   `json:"-" yaml:"-"`
	Error  string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the pair was processed successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Report aggregates the outcomes of a Run in input order.
type Report struct {
	Outcomes  []Outcome `json:"outcomes" yaml:"outcomes"`
	Succeeded int       `json:"succeeded" yaml:"succeeded"`
	Failed    int       `json:"failed" yaml:"failed"`
	Skipped   int       `json:"skipped" yaml:"skipped"`
}

// Total returns the number of pairs the run was given.
func (r *Report) Total() int {
	return len(r.Outcomes) + r.Skipped
}

// IsSuccess returns true if every pair succeeded.
func (r *Report) IsSuccess() bool {
	return r.Failed == 0 && r.Skipped == 0
}

// Errors returns the failures in input order.
func (r *Report) Errors() []error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Pair.Name(), o.Err))
		}
	}
	return errs
}

// Summary returns a human-readable tally.
func (r *Report) Summary() string {
	s := fmt.Sprintf("Processing complete: %d/%d samples processed successfully", r.Succeeded, r.Total())
	if r.Skipped > 0 {
		s += fmt.Sprintf(" (%d skipped)", r.Skipped)
	}
	return s
}

func (r *Report) add(p Pair, res *Result, err error) {
	o := Outcome{Pair: p, Result: res, Err: err}
	if err != nil {
		o.Error = err.Error()
		r.Failed++
	} else {
		r.Succeeded++
	}
	r.Outcomes = append(r.Outcomes, o)
}
