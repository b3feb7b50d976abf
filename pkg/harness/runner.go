package harness

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lilt/pkg/domain"
)

// Definition is a declared test set. It holds no run state.
type Definition struct {
	name    string
	fixture func() any
	body    func(*Set)
}

// Name returns the declared set name.
func (d Definition) Name() string { return d.name }

var definitions struct {
	sync.Mutex
	list  []Definition
	names map[string]bool
}

// Define declares a test set. It is meant to be called from init or as
// "var _ = harness.Define(...)". Declaring two sets with the same name panics.
func Define(name string, body func(s *Set)) Definition {
	return register(Definition{name: name, body: body})
}

func register(d Definition) Definition {
	definitions.Lock()
	defer definitions.Unlock()

	if definitions.names == nil {
		definitions.names = make(map[string]bool)
	}
	if definitions.names[d.name] {
		panic(fmt.Sprintf("harness: test set %q declared twice", d.name))
	}
	definitions.names[d.name] = true
	definitions.list = append(definitions.list, d)
	return d
}

// Definitions returns the declared sets in declaration order.
func Definitions() []Definition {
	definitions.Lock()
	defer definitions.Unlock()
	return append([]Definition(nil), definitions.list...)
}

// Listing is the name and case names of a set, gathered without running it.
type Listing struct {
	Set   string
	Cases []string
}

// Runner runs test sets one after another.
type Runner struct {
	opts  Options
	defs  []Definition
	fatal *fatalHandler
}

// NewRunner returns a Runner over defs, or over every declared set when defs
// is empty.
func NewRunner(opts Options, defs ...Definition) *Runner {
	opts = opts.withDefaults()
	if len(defs) == 0 {
		defs = Definitions()
	}
	return &Runner{
		opts:  opts,
		defs:  defs,
		fatal: newFatalHandler(opts.Logger, opts.Exit),
	}
}

func (r *Runner) selected() []Definition {
	if r.opts.Filter == nil {
		return r.defs
	}
	var out []Definition
	for _, d := range r.defs {
		if r.opts.Filter(d.name) {
			out = append(out, d)
		}
	}
	return out
}

// Run executes every selected set in declaration order.
func (r *Runner) Run() domain.RunResult {
	res := domain.RunResult{ID: uuid.NewString(), Started: time.Now()}
	defs := r.selected()
	r.opts.Logger.Debug("run started", zap.String("run", res.ID), zap.Int("sets", len(defs)))

	for _, d := range defs {
		res.Sets = append(res.Sets, newSet(d, r.opts, r.fatal).run())
	}

	res.Duration = time.Since(res.Started)
	r.opts.Logger.Debug("run finished", zap.String("run", res.ID), zap.Duration("duration", res.Duration))
	return res
}

// List constructs and defines every selected set without executing a case.
func (r *Runner) List() []Listing {
	defs := r.selected()
	out := make([]Listing, 0, len(defs))
	for _, d := range defs {
		s := newSet(d, r.opts, r.fatal)
		s.construct()
		s.define()
		l := Listing{Set: d.name, Cases: make([]string, 0, s.Len())}
		for i := 0; i < s.Len(); i++ {
			l.Cases = append(l.Cases, s.At(i).Name)
		}
		s.destroy(false)
		out = append(out, l)
	}
	return out
}

// Main runs every declared set with default options and then calls entry.
// Use it as the body of a program's main function.
func Main(entry func()) {
	MainWith(Options{}, entry)
}

// MainWith is Main with explicit options. It returns the run result after
// entry has returned.
func MainWith(opts Options, entry func()) domain.RunResult {
	res := NewRunner(opts).Run()
	if entry != nil {
		entry()
	}
	return res
}
