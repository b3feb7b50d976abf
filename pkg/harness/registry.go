package harness

import (
	"fmt"
	"math"
	"strings"
	"unsafe"

	"go.uber.org/zap"
)

// Case is one registered test case. Its Index is fixed at registration and
// stays valid across arena growth.
type Case struct {
	Index int
	Name  string
	Body  func(*C)
}

type allocator func(n int) ([]Case, error)

// allocate reserves an arena of n records. Oversized requests make the
// runtime panic instead of returning nil; that panic is reported as an error.
func allocate(n int) (arena []Case, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return make([]Case, 0, n), nil
}

func arenaBytes(n int) uint64 {
	return uint64(n) * uint64(unsafe.Sizeof(Case{}))
}

// registry is the growable arena of case records owned by one set.
type registry struct {
	cases   []Case
	factor  float64
	limit   int
	growths int

	alloc  allocator
	fatal  *fatalHandler
	logger *zap.Logger
	set    string
}

func newRegistry(set string, opts Options, fatal *fatalHandler) *registry {
	r := &registry{
		factor: opts.GrowthFactor,
		limit:  opts.MaxCases,
		alloc:  opts.alloc,
		fatal:  fatal,
		logger: opts.Logger,
		set:    set,
	}
	arena, err := r.alloc(opts.InitialCapacity)
	if err != nil {
		fatal.fail(&FatalError{Op: "test set", Bytes: arenaBytes(opts.InitialCapacity), Reason: err.Error()})
	}
	r.cases = arena
	return r
}

func (r *registry) capacity() int { return cap(r.cases) }

func (r *registry) len() int { return len(r.cases) }

func (r *registry) at(i int) Case { return r.cases[i] }

func (r *registry) add(identifier string, body func(*C)) Case {
	if r.limit > 0 && len(r.cases) >= r.limit {
		r.fatal.misuse("test case registry", "number of test cases cannot exceed %d", r.limit)
	}
	if len(r.cases) >= cap(r.cases) {
		r.grow()
	}

	c := Case{
		Index: len(r.cases),
		Name:  strings.Clone("test_" + identifier),
		Body:  body,
	}
	r.cases = append(r.cases, c)
	return c
}

// grow moves the records into a new arena of capacity*factor, and at least
// one more record than before.
func (r *registry) grow() {
	old := cap(r.cases)
	next := int(math.Floor(float64(old)*r.factor + 1e-9))
	if next <= old {
		next = old + 1
	}

	arena, err := r.alloc(next)
	if err != nil {
		r.fatal.fail(&FatalError{Op: "test case registry", Bytes: arenaBytes(next), Reason: err.Error()})
	}
	r.cases = append(arena, r.cases...)
	r.growths++

	r.logger.Debug("test case registry grown",
		zap.String("set", r.set),
		zap.Int("from", old),
		zap.Int("to", next),
	)
}

func (r *registry) release() {
	r.cases = nil
}
