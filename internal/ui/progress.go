package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar shows case progress for one set
type ProgressBar struct {
	bar *progressbar.ProgressBar
	set string
}

// NewProgressBar creates a new progress bar over count cases
func NewProgressBar(w io.Writer, set string, count int) *ProgressBar {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(set, 0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar, set: set}
}

func describe(set string, passed, failed int) string {
	return color.CyanString("%s: ", set) +
		color.GreenString("[success: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}

// Update updates the progress bar with success and failure counts
func (p *ProgressBar) Update(passed, failed int) {
	_ = p.bar.Set(passed + failed)
	p.bar.Describe(describe(p.set, passed, failed))
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

// ProgressReporter draws one progress bar per set from harness events
type ProgressReporter struct {
	w      io.Writer
	bar    *ProgressBar
	passed int
	failed int
}

// NewProgressReporter creates a reporter drawing bars to w
func NewProgressReporter(w io.Writer) *ProgressReporter {
	return &ProgressReporter{w: w}
}

func (r *ProgressReporter) Plan(set string, total int) {
	r.passed, r.failed = 0, 0
	r.bar = NewProgressBar(r.w, set, total)
}

func (r *ProgressReporter) Pass(int, string) {
	r.passed++
	r.update()
}

func (r *ProgressReporter) Fail(int, string, string) {
	r.failed++
	r.update()
}

func (r *ProgressReporter) Summary(string, int, int) {
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
	}
}

func (r *ProgressReporter) update() {
	if r.bar != nil {
		r.bar.Update(r.passed, r.failed)
	}
}

// Counts returns the passed and failed cases of the current set
func (r *ProgressReporter) Counts() (passed, failed int) {
	return r.passed, r.failed
}
