package report

import (
	"fmt"
	"io"
	"strings"
)

// TAP emits Test Anything Protocol lines. Cases are numbered from 1 for
// passes and failures alike. Each line of a failure reason becomes a comment.
type TAP struct {
	w io.Writer
}

// NewTAP creates a machine-readable Reporter.
func NewTAP(w io.Writer) *TAP {
	return &TAP{w: w}
}

func (t *TAP) Plan(_ string, total int) {
	fmt.Fprintf(t.w, "1..%d\n", total)
}

func (t *TAP) Pass(index int, name string) {
	fmt.Fprintf(t.w, "ok %d - %s\n", index+1, name)
}

func (t *TAP) Fail(index int, name, reason string) {
	fmt.Fprintf(t.w, "not ok %d - %s\n", index+1, name)
	if reason == "" {
		return
	}
	for _, line := range strings.Split(reason, "\n") {
		fmt.Fprintf(t.w, "# %s\n", line)
	}
}

func (t *TAP) Summary(set string, passed, total int) {
	fmt.Fprintf(t.w, "# %s: passed %d/%d\n", set, passed, total)
}
