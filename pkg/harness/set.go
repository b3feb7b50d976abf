package harness

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"lilt/pkg/domain"
)

// Phase is the lifecycle state of a Set. Phases only move forward.
type Phase int

const (
	PhaseConstruction Phase = iota
	PhaseDefinition
	PhaseExecution
	PhaseDestruction
	PhaseDestroyed
)

var phaseNames = [...]string{"construction", "definition", "execution", "destruction", "destroyed"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Set is one run of a declared test set. It owns its case arena and fixture
// and is torn down before the run moves on to the next set.
type Set struct {
	name    string
	phase   Phase
	def     Definition
	opts    Options
	reg     *registry
	fixture any
	fatal   *fatalHandler
	result  domain.SetResult
}

func newSet(def Definition, opts Options, fatal *fatalHandler) *Set {
	return &Set{name: def.name, def: def, opts: opts, fatal: fatal}
}

// Name returns the set name.
func (s *Set) Name() string { return s.name }

// Phase returns the current lifecycle state.
func (s *Set) Phase() Phase { return s.phase }

// Case registers a case named "test_"+identifier and returns it. Only legal
// while the set body runs.
func (s *Set) Case(identifier string, body func(c *C)) Case {
	if s.phase != PhaseDefinition {
		s.fatal.misuse("test case registry", "case %q registered in set %s during %s", identifier, s.name, s.phase)
	}
	return s.reg.add(identifier, body)
}

// Len returns the number of registered cases.
func (s *Set) Len() int {
	if s.reg == nil {
		return 0
	}
	return s.reg.len()
}

// Capacity returns the current arena capacity.
func (s *Set) Capacity() int {
	if s.reg == nil {
		return 0
	}
	return s.reg.capacity()
}

// Growths returns how many times the arena has grown.
func (s *Set) Growths() int {
	if s.reg == nil {
		return s.result.Growths
	}
	return s.reg.growths
}

// At returns the case registered at index i. A destroyed set holds no
// cases and returns the zero Case.
func (s *Set) At(i int) Case {
	if s.reg == nil {
		return Case{}
	}
	return s.reg.at(i)
}

// Passed returns the number of cases that passed so far.
func (s *Set) Passed() int { return s.result.Passed }

// Fixture returns the value allocated for sets declared with DefineWith.
func (s *Set) Fixture() any { return s.fixture }

func (s *Set) enter(p Phase) {
	s.phase = p
	s.opts.Logger.Debug("test set phase", zap.String("set", s.name), zap.Stringer("phase", p))
}

// run takes the set through its whole lifecycle.
func (s *Set) run() domain.SetResult {
	started := time.Now()

	s.construct()
	s.define()
	s.execute()
	s.destroy(true)

	s.result.Duration = time.Since(started)
	return s.result
}

func (s *Set) construct() {
	s.enter(PhaseConstruction)
	s.result = domain.SetResult{Name: s.name}
	s.reg = newRegistry(s.name, s.opts, s.fatal)
	if s.def.fixture != nil {
		s.fixture = s.def.fixture()
	}
}

func (s *Set) define() {
	s.enter(PhaseDefinition)
	if s.def.body != nil {
		s.def.body(s)
	}
}

func (s *Set) execute() {
	s.enter(PhaseExecution)
	rep := s.opts.Reporter
	total := s.reg.len()
	s.result.Total = total
	s.result.Cases = make([]domain.CaseResult, 0, total)
	rep.Plan(s.name, total)

	for i := 0; i < total; i++ {
		tc := s.reg.at(i)
		start := time.Now()
		out := s.invoke(tc)

		s.result.Cases = append(s.result.Cases, domain.CaseResult{
			Index:    i,
			Name:     tc.Name,
			Passed:   out.OK(),
			Reason:   out.Reason,
			Duration: time.Since(start),
		})
		if out.OK() {
			s.result.Passed++
			rep.Pass(i, tc.Name)
		} else {
			rep.Fail(i, tc.Name, out.Reason)
		}
	}
}

// invoke runs one case body. Early endings and stray panics become an
// Outcome; fatal errors keep unwinding.
func (s *Set) invoke(tc Case) (out domain.Outcome) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch v := r.(type) {
		case stop:
			out = v.outcome
		case *FatalError:
			panic(v)
		default:
			out = domain.Failed(fmt.Sprintf("PANIC: %v", v))
		}
	}()

	if tc.Body != nil {
		tc.Body(&C{set: s, index: tc.Index, name: tc.Name})
	}
	return domain.Passed()
}

func (s *Set) destroy(report bool) {
	s.enter(PhaseDestruction)
	if report {
		s.opts.Reporter.Summary(s.name, s.result.Passed, s.result.Total)
	}
	s.result.Growths = s.reg.growths

	s.reg.release()
	s.reg = nil
	s.fixture = nil
	s.enter(PhaseDestroyed)
}
