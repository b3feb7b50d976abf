package domain

import "time"

// CaseResult is the recorded outcome of one executed case
type CaseResult struct {
	Index    int           `json:"index"`
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Reason   string        `json:"reason,omitempty"`
	Duration time.Duration `json:"duration"`
}

// SetResult aggregates the cases of one test set
type SetResult struct {
	Name     string        `json:"name"`
	Passed   int           `json:"passed"`
	Total    int           `json:"total"`
	Growths  int           `json:"growths"`
	Cases    []CaseResult  `json:"cases"`
	Duration time.Duration `json:"duration"`
}

// Failed returns the number of failing cases in the set
func (s SetResult) Failed() int {
	return s.Total - s.Passed
}

// RunResult is everything produced by one harness run
type RunResult struct {
	ID       string        `json:"id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Sets     []SetResult   `json:"sets"`
}

// Totals sums passed and total case counts over every set.
func (r RunResult) Totals() (passed, total int) {
	for _, s := range r.Sets {
		passed += s.Passed
		total += s.Total
	}
	return passed, total
}

// Failures flattens the failing cases of the run
func (r RunResult) Failures() []TestFailure {
	var failures []TestFailure
	for _, s := range r.Sets {
		for _, c := range s.Cases {
			if c.Passed {
				continue
			}
			failures = append(failures, TestFailure{
				SetName:  s.Name,
				TestName: c.Name,
				Index:    c.Index,
				Message:  c.Reason,
			})
		}
	}
	return failures
}
