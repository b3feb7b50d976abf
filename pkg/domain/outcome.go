package domain

// Verdict is the two-valued result of running one test case.
type Verdict int

const (
	Fail Verdict = iota
	Pass
)

func (v Verdict) String() string {
	if v == Pass {
		return "pass"
	}
	return "fail"
}

// Outcome is returned by a case invocation. Reason is only meaningful for Fail.
type Outcome struct {
	Verdict Verdict
	Reason  string
}

// Passed returns a passing Outcome.
func Passed() Outcome {
	return Outcome{Verdict: Pass}
}

// Failed returns a failing Outcome carrying reason as its diagnostic.
func Failed(reason string) Outcome {
	return Outcome{Verdict: Fail, Reason: reason}
}

// OK reports whether the outcome is a pass.
func (o Outcome) OK() bool {
	return o.Verdict == Pass
}
