package harness

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recorder keeps reporter events as strings.
type recorder struct {
	events  []string
	summary func()
}

func (r *recorder) Plan(set string, total int) {
	r.events = append(r.events, fmt.Sprintf("plan %s %d", set, total))
}

func (r *recorder) Pass(index int, name string) {
	r.events = append(r.events, fmt.Sprintf("pass %d %s", index, name))
}

func (r *recorder) Fail(index int, name, reason string) {
	r.events = append(r.events, fmt.Sprintf("fail %d %s %s", index, name, reason))
}

func (r *recorder) Summary(set string, passed, total int) {
	if r.summary != nil {
		r.summary()
	}
	r.events = append(r.events, fmt.Sprintf("summary %s %d/%d", set, passed, total))
}

type harnessEnv struct {
	opts  Options
	rec   *recorder
	logs  *observer.ObservedLogs
	exits []int
}

func newEnv(t *testing.T) *harnessEnv {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	env := &harnessEnv{rec: &recorder{}, logs: logs}
	env.opts = Options{
		Reporter: env.rec,
		Logger:   zap.New(core),
		Exit:     func(code int) { env.exits = append(env.exits, code) },
	}
	return env
}

func define(name string, body func(s *Set)) Definition {
	return Definition{name: name, body: body}
}

// catchFatal runs fn and returns the *FatalError it panics with.
func catchFatal(t *testing.T, fn func()) (fe *FatalError) {
	t.Helper()
	defer func() {
		r := recover()
		var ok bool
		if fe, ok = r.(*FatalError); !ok {
			t.Fatalf("expected *FatalError panic, got %v", r)
		}
	}()
	fn()
	return nil
}

func TestRun_MixedOutcomes(t *testing.T) {
	env := newEnv(t)
	def := define("abc", func(s *Set) {
		s.Case("A", func(c *C) {
			c.Assert(1 == 1)
		})
		s.Case("B", func(c *C) {
			c.Assert(1 == 2)
		})
		s.Case("C", func(c *C) {})
	})

	res := NewRunner(env.opts, def).Run()

	require.Len(t, res.Sets, 1)
	set := res.Sets[0]
	assert.Equal(t, 2, set.Passed)
	assert.Equal(t, 3, set.Total)
	assert.Equal(t, 1, set.Failed())
	assert.NotEmpty(t, res.ID)

	want := []string{
		"plan abc 3",
		"pass 0 test_A",
		`fail 1 test_B FALSE: "1 == 2"`,
		"pass 2 test_C",
		"summary abc 2/3",
	}
	if diff := cmp.Diff(want, env.rec.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, set.Cases, 3)
	assert.Equal(t, `FALSE: "1 == 2"`, set.Cases[1].Reason)
	assert.False(t, set.Cases[1].Passed)
}

func TestRun_TotalIgnoresOutcome(t *testing.T) {
	tests := []struct {
		name   string
		bodies []func(c *C)
		passed int
	}{
		{name: "empty set", bodies: nil, passed: 0},
		{name: "all empty bodies", bodies: []func(c *C){nil, func(c *C) {}}, passed: 2},
		{name: "all fail", bodies: []func(c *C){
			func(c *C) { c.Fail("one") },
			func(c *C) { c.Fail("") },
		}, passed: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			def := define("set", func(s *Set) {
				for i, body := range tt.bodies {
					s.Case(fmt.Sprint(i), body)
				}
			})

			res := NewRunner(env.opts, def).Run()

			assert.Equal(t, len(tt.bodies), res.Sets[0].Total)
			assert.Equal(t, tt.passed, res.Sets[0].Passed)
		})
	}
}

func TestRun_ReferenceCapture(t *testing.T) {
	env := newEnv(t)
	def := define("capture", func(s *Set) {
		x := 1
		s.Case("sees_later_definition", func(c *C) {
			c.Assert(x == 3)
			x = 5
		})
		s.Case("sees_earlier_case", func(c *C) {
			c.Assert(x == 5)
		})
		x = 3
	})

	res := NewRunner(env.opts, def).Run()

	assert.Equal(t, 2, res.Sets[0].Passed, "events: %v", env.rec.events)
}

func TestRun_GrowthKeepsOrder(t *testing.T) {
	env := newEnv(t)
	var ran []int
	var grownAt []int
	var capacities []int

	def := define("many", func(s *Set) {
		for i := 0; i < 150; i++ {
			before := s.Growths()
			got := s.Case(fmt.Sprintf("c%d", i), func(c *C) {
				ran = append(ran, i)
			})
			require.Equal(t, i, got.Index)
			if s.Growths() != before {
				grownAt = append(grownAt, i+1)
				capacities = append(capacities, s.Capacity())
			}
		}
		for i := 0; i < 150; i++ {
			require.Equal(t, fmt.Sprintf("test_c%d", i), s.At(i).Name)
		}
	})

	res := NewRunner(env.opts, def).Run()

	assert.Equal(t, []int{101, 131}, grownAt)
	assert.Equal(t, []int{130, 169}, capacities)
	assert.Equal(t, 2, res.Sets[0].Growths)
	assert.Equal(t, 150, res.Sets[0].Passed)
	require.Len(t, ran, 150)
	for i, v := range ran {
		if v != i {
			t.Fatalf("case %d ran at position %d", v, i)
		}
	}

	grows := env.logs.FilterMessage("test case registry grown").All()
	require.Len(t, grows, 2)
	assert.Equal(t, int64(100), grows[0].ContextMap()["from"])
	assert.Equal(t, int64(130), grows[0].ContextMap()["to"])
}

func TestRun_Phases(t *testing.T) {
	env := newEnv(t)
	var seen []Phase
	var captured *Set

	def := define("phases", func(s *Set) {
		captured = s
		seen = append(seen, s.Phase())
		s.Case("x", func(c *C) {
			seen = append(seen, captured.Phase())
		})
	})
	env.rec.summary = func() {
		seen = append(seen, captured.Phase())
		assert.Equal(t, 1, captured.Len(), "cases are released after the summary")
	}

	NewRunner(env.opts, def).Run()

	assert.Equal(t, []Phase{PhaseDefinition, PhaseExecution, PhaseDestruction}, seen)
	assert.Equal(t, PhaseDestroyed, captured.Phase())
	assert.Equal(t, 0, captured.Len())
	assert.Nil(t, captured.Fixture())
	assert.Equal(t, Case{}, captured.At(0))
}

func TestRun_SetsInOrderWithFilter(t *testing.T) {
	env := newEnv(t)
	env.opts.Filter = func(name string) bool { return name != "two" }
	noop := func(s *Set) {}

	res := NewRunner(env.opts, define("one", noop), define("two", noop), define("three", noop)).Run()

	var names []string
	for _, s := range res.Sets {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"one", "three"}, names)
	assert.Equal(t, []string{"plan one 0", "summary one 0/0", "plan three 0", "summary three 0/0"}, env.rec.events)
}

type counter struct {
	n int
}

func TestRun_Fixture(t *testing.T) {
	env := newEnv(t)
	def := declareWith("fixture", func(s *Set, f *counter) {
		s.Case("bump", func(c *C) {
			f.n++
		})
		s.Case("shared", func(c *C) {
			c.Assert(f.n == 1)
			c.Assert(FixtureOf[counter](c) == f)
		})
	})

	r := NewRunner(env.opts, def)
	first := r.Run()
	second := r.Run()

	assert.Equal(t, 2, first.Sets[0].Passed)
	assert.Equal(t, 2, second.Sets[0].Passed, "each run gets a fresh fixture")
}

func TestList(t *testing.T) {
	env := newEnv(t)
	executed := false
	def := define("listed", func(s *Set) {
		s.Case("a", func(c *C) { executed = true })
		s.Case("", nil)
		s.Case("a", nil)
	})

	got := NewRunner(env.opts, def).List()

	want := []Listing{{Set: "listed", Cases: []string{"test_a", "test_", "test_a"}}}
	assert.Equal(t, want, got)
	assert.False(t, executed)
	assert.Empty(t, env.rec.events)
}

func TestFatal_RegisterOutsideDefinition(t *testing.T) {
	env := newEnv(t)
	def := define("misuse", func(s *Set) {
		s.Case("late", func(c *C) {
			s.Case("nested", nil)
		})
	})

	fe := catchFatal(t, func() { NewRunner(env.opts, def).Run() })

	assert.Equal(t, []int{1}, env.exits)
	assert.Equal(t, "test case registry", fe.Op)
	assert.Contains(t, fe.Reason, `"nested"`)
	assert.Contains(t, fe.Reason, "execution")

	errs := env.logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "Killing self")
}

func TestFatal_MaxCases(t *testing.T) {
	env := newEnv(t)
	env.opts.MaxCases = 2
	def := define("limited", func(s *Set) {
		for i := 0; i < 3; i++ {
			s.Case(fmt.Sprint(i), nil)
		}
	})

	fe := catchFatal(t, func() { NewRunner(env.opts, def).Run() })

	assert.Equal(t, "number of test cases cannot exceed 2", fe.Reason)
	assert.Equal(t, []int{1}, env.exits)
	assert.Empty(t, env.rec.events, "nothing is reported once definition fails")
}

func TestDefine_Registry(t *testing.T) {
	name := "registry-" + t.Name()
	d := Define(name, func(s *Set) {})

	assert.Equal(t, name, d.Name())
	var names []string
	for _, def := range Definitions() {
		names = append(names, def.Name())
	}
	assert.Contains(t, names, name)
	assert.Panics(t, func() { Define(name, nil) })
}

func TestMainWith_EntryRunsLast(t *testing.T) {
	env := newEnv(t)
	name := "main-" + t.Name()
	DefineWith(name, func(s *Set, f *counter) {
		s.Case("only", func(c *C) { f.n++ })
	})
	env.opts.Filter = func(set string) bool { return set == name }

	entered := false
	res := MainWith(env.opts, func() {
		entered = true
		require.NotEmpty(t, env.rec.events)
		assert.Equal(t, "summary "+name+" 1/1", env.rec.events[len(env.rec.events)-1])
	})

	assert.True(t, entered)
	require.Len(t, res.Sets, 1)
	assert.Equal(t, 1, res.Sets[0].Passed)
}
