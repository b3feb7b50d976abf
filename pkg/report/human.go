package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Human prints readable PASS/FAIL blocks.
type Human struct {
	w       io.Writer
	verbose bool

	header *color.Color
	pass   *color.Color
	fail   *color.Color
}

// NewHuman creates a human-readable Reporter.
func NewHuman(w io.Writer, opts Options) *Human {
	h := &Human{
		w:       w,
		verbose: opts.Verbose,
		header:  color.New(color.FgCyan),
		pass:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{h.header, h.pass, h.fail} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return h
}

func (h *Human) Plan(set string, total int) {
	fmt.Fprint(h.w, "\n")
	h.header.Fprintf(h.w, "BEGIN TEST_SET: %s", set)
	fmt.Fprintf(h.w, " (%d cases)\n", total)
}

func (h *Human) Pass(_ int, name string) {
	if !h.verbose {
		return
	}
	h.pass.Fprint(h.w, "PASS")
	fmt.Fprintf(h.w, " %s\n\n", name)
}

func (h *Human) Fail(_ int, name, reason string) {
	h.fail.Fprint(h.w, "FAIL")
	fmt.Fprintf(h.w, " %s:\n\t%s\n", name, reason)
}

func (h *Human) Summary(set string, passed, total int) {
	fmt.Fprint(h.w, "\n")
	h.header.Fprintf(h.w, "FINISHED TEST_SET: %s", set)
	fmt.Fprint(h.w, "\n\t")
	c := h.pass
	if passed < total {
		c = h.fail
	}
	c.Fprintf(h.w, "Passed %d/%d", passed, total)
	fmt.Fprint(h.w, " test cases.\n\n")
}
