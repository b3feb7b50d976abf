package domain

// TestFailure represents a failed test case
type TestFailure struct {
	SetName  string `json:"set_name"`
	TestName string `json:"test_name"`
	Index    int    `json:"index"`
	Message  string `json:"message"`
	Resolved bool   `json:"resolved,omitempty"` // Track if test case is marked as resolved
}

// TestResultsMeta contains metadata about a stored run
type TestResultsMeta struct {
	RunID           string  `json:"run_id"`
	TotalTestSets   int     `json:"total_test_sets"`
	FailedTestSets  int     `json:"failed_test_sets"`
	PassedTestSets  int     `json:"passed_test_sets"`
	TotalTestCases  int     `json:"total_test_cases"`
	FailedTestCases int     `json:"failed_test_cases"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for stored results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Sets    []SetResult     `json:"sets"`
	Details []TestFailure   `json:"details"`
}
