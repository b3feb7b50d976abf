package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lilt/pkg/domain"
	"lilt/pkg/harness"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func sampleOutput() *domain.TestResultsOutput {
	return &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			TotalTestSets:   2,
			PassedTestSets:  1,
			FailedTestSets:  1,
			TotalTestCases:  5,
			FailedTestCases: 2,
			DurationSeconds: 0.25,
			Timestamp:       "2026-03-01T12:00:00Z",
		},
		Details: []domain.TestFailure{
			{SetName: "demo2", TestName: "test_b", Index: 1, Message: `FALSE: "1 == 2"`},
			{SetName: "demo2", TestName: "test_c", Index: 2, Resolved: true},
		},
	}
}

func TestFormatter_PrintMetaStats(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer

	NewFormatter(&buf).PrintMetaStats(sampleOutput())
	out := buf.String()

	assert.Contains(t, out, "│ Total Test Cases                │ 5                           │")
	assert.Contains(t, out, "│ Duration                        │ 0.25s                       │")
	assert.Contains(t, out, "✗ 1 test set(s) failed with 2 test case failure(s)")
	assert.Contains(t, out, "└── demo2\n    ├── test_b\n    └── test_c [resolved]\n")
}

func TestFormatter_PrintMetaStats_AllPassed(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer

	NewFormatter(&buf).PrintMetaStats(&domain.TestResultsOutput{Meta: domain.TestResultsMeta{TotalTestCases: 3}})

	assert.Contains(t, buf.String(), "✓ All tests passed!")
}

func TestFormatter_PrintSetList(t *testing.T) {
	noColor(t)
	listings := []harness.Listing{
		{Set: "demo1", Cases: []string{"test_a", "test_b"}},
		{Set: "demo2"},
	}

	var buf bytes.Buffer
	NewFormatter(&buf).PrintSetList(listings, true, map[string]struct{}{"demo2": {}})

	expected := "Found 2 test set(s) with test cases:\n\n" +
		"├── demo1 (2 cases)\n" +
		"│   ├── test_a\n" +
		"│   └── test_b\n" +
		"\n" +
		"└── demo2 (0 cases) [F]\n" +
		"    └── (no test cases)\n"
	assert.Equal(t, expected, buf.String())
}

func TestFailureList(t *testing.T) {
	fl := failureList{results: sampleOutput()}

	assert.Equal(t, 1, fl.unresolved())
	fl.toggle(0)
	assert.Equal(t, 0, fl.unresolved())
	assert.True(t, strings.HasPrefix(fl.itemText(0), "[gray]✓"))
	assert.Contains(t, fl.header(), "2 total, 0 unresolved")
}

func TestFormatFailureDetails(t *testing.T) {
	details := formatFailureDetails(domain.TestFailure{SetName: "s", TestName: "test_x", Message: "[boom]"})

	assert.Contains(t, details, "Test: test_x")
	assert.Contains(t, details, "[boom[]", "tview tags in messages are escaped")
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewProgressReporter(&buf)

	r.Plan("demo", 3)
	r.Pass(0, "test_a")
	r.Fail(1, "test_b", "reason")
	r.Pass(2, "test_c")
	passed, failed := r.Counts()
	r.Summary("demo", 2, 3)

	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, failed)
	assert.Contains(t, buf.String(), "demo")
}

func TestStatsWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test-results.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	changed := make(chan struct{}, 1)
	sw := NewStatsWatcher(path, 20*time.Millisecond, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sw.Run(ctx) }()

	// Give the watcher time to register the directory.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case <-changed:
			break loop
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(`{"meta":{}}`), 0644))
		case <-deadline:
			t.Fatal("watcher did not report the change")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}
