package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"lilt/pkg/domain"
	"lilt/pkg/harness"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// Formatter prints stored results and set listings
type Formatter struct {
	w io.Writer
}

// NewFormatter creates a new Formatter writing to w
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// ClearScreen resets the terminal before a redraw
func (f *Formatter) ClearScreen() {
	fmt.Fprint(f.w, "\033[2J\033[H")
}

const tableRule = "├─────────────────────────────────┼─────────────────────────────┤"

func (f *Formatter) row(label string, c *color.Color, value any) {
	fmt.Fprintf(f.w, "│ %-31s │ ", label)
	c.Fprintf(f.w, "%-27v", value)
	fmt.Fprintln(f.w, " │")
}

// PrintMetaStats prints the statistics table of a stored run, then the
// failing cases grouped by set
func (f *Formatter) PrintMetaStats(output *domain.TestResultsOutput) {
	meta := output.Meta

	fmt.Fprintln(f.w)
	cyan.Fprintln(f.w, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.w, "║                    Test Execution Statistics                  ║")
	cyan.Fprintln(f.w, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.w)

	fmt.Fprintln(f.w, "┌─────────────────────────────────┬─────────────────────────────┐")
	rows := []struct {
		label string
		c     *color.Color
		value any
	}{
		{"Total Test Sets", white, meta.TotalTestSets},
		{"Passed Test Sets", green, meta.PassedTestSets},
		{"Failed Test Sets", red, meta.FailedTestSets},
		{"Total Test Cases", white, meta.TotalTestCases},
		{"Failed Test Cases", red, meta.FailedTestCases},
		{"Duration", white, fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Timestamp", white, meta.Timestamp},
	}
	for i, r := range rows {
		if i > 0 {
			fmt.Fprintln(f.w, tableRule)
		}
		f.row(r.label, r.c, r.value)
	}
	fmt.Fprintln(f.w, "└─────────────────────────────────┴─────────────────────────────┘")

	fmt.Fprintln(f.w)
	if meta.FailedTestCases == 0 {
		green.Fprintln(f.w, "✓ All tests passed!")
		return
	}
	red.Fprintf(f.w, "✗ %d test set(s) failed with %d test case failure(s)\n", meta.FailedTestSets, meta.FailedTestCases)
	fmt.Fprintln(f.w)
	f.printFailedTree(output.Details)
}

// printFailedTree prints failures under their set, in stored order
func (f *Formatter) printFailedTree(failures []domain.TestFailure) {
	var sets []string
	bySet := make(map[string][]domain.TestFailure)
	for _, d := range failures {
		if _, ok := bySet[d.SetName]; !ok {
			sets = append(sets, d.SetName)
		}
		bySet[d.SetName] = append(bySet[d.SetName], d)
	}

	for i, set := range sets {
		lastSet := i == len(sets)-1
		branch, indent := "├── ", "│   "
		if lastSet {
			branch, indent = "└── ", "    "
		}
		cyan.Fprintf(f.w, "%s%s\n", branch, set)

		cases := bySet[set]
		for j, d := range cases {
			leaf := "├── "
			if j == len(cases)-1 {
				leaf = "└── "
			}
			marker := ""
			if d.Resolved {
				marker = " " + green.Sprint("[resolved]")
			}
			fmt.Fprintf(f.w, "%s%s%s%s\n", indent, leaf, red.Sprint(d.TestName), marker)
		}
	}
}

// PrintSetList prints declared sets, optionally with their cases. Sets in
// failed are marked with [F] (from the last saved run).
func (f *Formatter) PrintSetList(listings []harness.Listing, showCases bool, failed map[string]struct{}) {
	if showCases {
		green.Fprintf(f.w, "Found %d test set(s) with test cases:\n\n", len(listings))
	} else {
		green.Fprintf(f.w, "Found %d test set(s):\n\n", len(listings))
	}

	for i, l := range listings {
		lastSet := i == len(listings)-1
		branch, indent := "├── ", "│   "
		if lastSet {
			branch, indent = "└── ", "    "
		}

		marker := ""
		if _, ok := failed[l.Set]; ok {
			marker = " " + red.Sprint("[F]")
		}
		fmt.Fprintf(f.w, "%s%s (%d cases)%s\n", cyan.Sprint(branch), cyan.Sprint(l.Set), len(l.Cases), marker)

		if !showCases {
			continue
		}
		if len(l.Cases) == 0 {
			fmt.Fprintf(f.w, "%s└── %s\n", indent, red.Sprint("(no test cases)"))
		}
		for j, name := range l.Cases {
			leaf := "├── "
			if j == len(l.Cases)-1 {
				leaf = "└── "
			}
			fmt.Fprintf(f.w, "%s%s%s\n", indent, leaf, yellow.Sprint(name))
		}
		if !lastSet {
			fmt.Fprintln(f.w)
		}
	}
}
