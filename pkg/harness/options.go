package harness

import (
	"os"

	"go.uber.org/zap"

	"lilt/internal/logging"
	"lilt/pkg/report"
)

const (
	// DefaultCapacity is the number of case records a new set can hold
	// before its arena grows.
	DefaultCapacity = 100

	// DefaultGrowthFactor multiplies the capacity on every growth.
	DefaultGrowthFactor = 1.3
)

// Options configures a Runner. The zero value is usable.
type Options struct {
	InitialCapacity int     // DefaultCapacity when < 1
	GrowthFactor    float64 // DefaultGrowthFactor when <= 1
	MaxCases        int     // 0 means unlimited

	Reporter report.Reporter // human report on stdout when nil
	Logger   *zap.Logger     // errors to stderr when nil

	// Exit terminates the process after a fatal error. Defaults to os.Exit.
	Exit func(code int)

	// Filter selects sets by name. All sets run when nil.
	Filter func(set string) bool

	// alloc replaces the arena allocator in tests.
	alloc allocator
}

func (o Options) withDefaults() Options {
	if o.InitialCapacity < 1 {
		o.InitialCapacity = DefaultCapacity
	}
	if o.GrowthFactor <= 1 {
		o.GrowthFactor = DefaultGrowthFactor
	}
	if o.MaxCases < 0 {
		o.MaxCases = 0
	}
	if o.Reporter == nil {
		o.Reporter = report.New(report.DefaultMode(), os.Stdout, report.Options{Verbose: true})
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	if o.Exit == nil {
		o.Exit = os.Exit
	}
	if o.alloc == nil {
		o.alloc = allocate
	}
	return o
}
