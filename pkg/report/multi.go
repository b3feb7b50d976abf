package report

// Multi forwards every event to each of its reporters in order.
type Multi []Reporter

func (m Multi) Plan(set string, total int) {
	for _, r := range m {
		r.Plan(set, total)
	}
}

func (m Multi) Pass(index int, name string) {
	for _, r := range m {
		r.Pass(index, name)
	}
}

func (m Multi) Fail(index int, name, reason string) {
	for _, r := range m {
		r.Fail(index, name, reason)
	}
}

func (m Multi) Summary(set string, passed, total int) {
	for _, r := range m {
		r.Summary(set, passed, total)
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Plan(string, int)         {}
func (Discard) Pass(int, string)         {}
func (Discard) Fail(int, string, string) {}
func (Discard) Summary(string, int, int) {}
