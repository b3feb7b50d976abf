package harness

import "lilt/pkg/domain"

// C is handed to every case body. Its methods end the case early; a body
// that returns normally passes.
type C struct {
	set   *Set
	index int
	name  string
}

// Name returns the case name, "test_<identifier>".
func (c *C) Name() string { return c.name }

// Index returns the position of the case within its set.
func (c *C) Index() int { return c.index }

// SetName returns the name of the set running the case.
func (c *C) SetName() string { return c.set.name }

// stop unwinds the case body. Recovered in Set.invoke.
type stop struct {
	outcome domain.Outcome
}

func (c *C) end(o domain.Outcome) {
	panic(stop{outcome: o})
}

// Assert fails the case when pred is false.
func (c *C) Assert(pred bool) {
	if !pred {
		c.end(domain.Failed(diagnostic("FALSE", expression(2, "Assert"))))
	}
}

// FailIfFalse is Assert.
func (c *C) FailIfFalse(pred bool) {
	if !pred {
		c.end(domain.Failed(diagnostic("FALSE", expression(2, "FailIfFalse"))))
	}
}

// AssertTrue fails the case when pred is true.
func (c *C) AssertTrue(pred bool) {
	if pred {
		c.end(domain.Failed(diagnostic("TRUE", expression(2, "AssertTrue"))))
	}
}

// FailIfTrue is AssertTrue.
func (c *C) FailIfTrue(pred bool) {
	if pred {
		c.end(domain.Failed(diagnostic("TRUE", expression(2, "FailIfTrue"))))
	}
}

// Assertf is Assert with the expression text given by the caller.
func (c *C) Assertf(pred bool, text string) {
	if !pred {
		c.end(domain.Failed(diagnostic("FALSE", text)))
	}
}

// AssertTruef is AssertTrue with the expression text given by the caller.
func (c *C) AssertTruef(pred bool, text string) {
	if pred {
		c.end(domain.Failed(diagnostic("TRUE", text)))
	}
}

// FailIfFalsef is Assertf.
func (c *C) FailIfFalsef(pred bool, text string) { c.Assertf(pred, text) }

// FailIfTruef is AssertTruef.
func (c *C) FailIfTruef(pred bool, text string) { c.AssertTruef(pred, text) }

// Fail ends the case with reason as its diagnostic. An empty reason fails
// silently.
func (c *C) Fail(reason string) {
	c.end(domain.Failed(reason))
}

// Pass ends the case successfully.
func (c *C) Pass() {
	c.end(domain.Passed())
}

// PassIfFalse ends the case successfully when pred is false.
func (c *C) PassIfFalse(pred bool) {
	if !pred {
		c.end(domain.Passed())
	}
}

// PassIfTrue ends the case successfully when pred is true.
func (c *C) PassIfTrue(pred bool) {
	if pred {
		c.end(domain.Passed())
	}
}

func diagnostic(label, text string) string {
	return label + `: "` + text + `"`
}
