// Package report renders test case outcomes and test set summaries.
//
// Two output modes are recognised. The human mode prints multi-line
// PASS/FAIL blocks framed by BEGIN/FINISHED lines; the TAP mode prints a plan
// line followed by one "ok"/"not ok" line per case. The default mode is fixed
// at build time (build with -tags lilt_tap for TAP) and a run may override it
// once, never per call.
package report

import (
	"fmt"
	"io"
	"strings"
)

// Reporter receives harness events in the order they happen. Case indexes
// are 0-based positions within the set.
type Reporter interface {
	Plan(set string, total int)
	Pass(index int, name string)
	Fail(index int, name, reason string)
	Summary(set string, passed, total int)
}

// Mode selects an output format.
type Mode string

const (
	ModeHuman Mode = "human"
	ModeTAP   Mode = "tap"
)

// DefaultMode returns the mode selected at build time.
func DefaultMode() Mode {
	return buildMode
}

// ParseMode converts a mode name into a Mode. An empty name selects the build
// default.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultMode(), nil
	case ModeHuman:
		return ModeHuman, nil
	case ModeTAP:
		return ModeTAP, nil
	}
	return "", fmt.Errorf("unknown output mode %q (want %q or %q)", name, ModeHuman, ModeTAP)
}

// Options tune a Reporter.
type Options struct {
	// Verbose prints passing cases in human mode. TAP always prints them.
	Verbose bool
	// Color enables ANSI colours in human mode.
	Color bool
}

// New returns the Reporter for mode writing to w.
func New(mode Mode, w io.Writer, opts Options) Reporter {
	if mode == ModeTAP {
		return NewTAP(w)
	}
	return NewHuman(w, opts)
}
