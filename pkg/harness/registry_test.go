package harness

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Growth(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		factor   float64
		adds     int
		wantCap  int
		wantGrow int
	}{
		{name: "below capacity", capacity: 100, factor: 1.3, adds: 100, wantCap: 100, wantGrow: 0},
		{name: "one past capacity", capacity: 100, factor: 1.3, adds: 101, wantCap: 130, wantGrow: 1},
		{name: "two boundaries", capacity: 100, factor: 1.3, adds: 150, wantCap: 169, wantGrow: 2},
		{name: "minimum increase of one", capacity: 1, factor: 1.3, adds: 3, wantCap: 3, wantGrow: 2},
		{name: "doubling", capacity: 2, factor: 2, adds: 5, wantCap: 8, wantGrow: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			opts := env.opts
			opts.InitialCapacity = tt.capacity
			opts.GrowthFactor = tt.factor
			opts = opts.withDefaults()

			r := newRegistry("set", opts, newFatalHandler(opts.Logger, opts.Exit))
			for i := 0; i < tt.adds; i++ {
				r.add(fmt.Sprint(i), nil)
			}

			assert.Equal(t, tt.wantCap, r.capacity())
			assert.Equal(t, tt.wantGrow, r.growths)
			assert.Equal(t, tt.adds, r.len())
			for i := 0; i < tt.adds; i++ {
				assert.Equal(t, i, r.at(i).Index)
			}
		})
	}
}

func TestRegistry_AllocationFailure(t *testing.T) {
	env := newEnv(t)
	opts := env.opts
	opts.alloc = func(n int) ([]Case, error) {
		if n > DefaultCapacity {
			return nil, errors.New("out of memory")
		}
		return allocate(n)
	}
	opts = opts.withDefaults()
	r := newRegistry("set", opts, newFatalHandler(opts.Logger, opts.Exit))
	for i := 0; i < DefaultCapacity; i++ {
		r.add(fmt.Sprint(i), nil)
	}

	fe := catchFatal(t, func() { r.add("overflow", nil) })

	assert.Equal(t, arenaBytes(130), fe.Bytes)
	assert.Equal(t, fmt.Sprintf("reallocation of %d bytes for test case registry failed", arenaBytes(130)), fe.Error())
	assert.Equal(t, []int{1}, env.exits)
	assert.Equal(t, DefaultCapacity, r.len(), "records survive a failed growth")
}

func TestAllocate(t *testing.T) {
	arena, err := allocate(4)
	require.NoError(t, err)
	assert.Equal(t, 4, cap(arena))
	assert.Empty(t, arena)

	_, err = allocate(math.MaxInt)
	assert.Error(t, err)
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{InitialCapacity: -3, GrowthFactor: 0.5, MaxCases: -1}.withDefaults()

	assert.Equal(t, DefaultCapacity, opts.InitialCapacity)
	assert.Equal(t, DefaultGrowthFactor, opts.GrowthFactor)
	assert.Equal(t, 0, opts.MaxCases)
	assert.NotNil(t, opts.Reporter)
	assert.NotNil(t, opts.Logger)
	assert.NotNil(t, opts.Exit)
}

func TestFatalError_Error(t *testing.T) {
	tests := []struct {
		err  FatalError
		want string
	}{
		{FatalError{Op: "test set", Bytes: 4000}, "reallocation of 4000 bytes for test set failed"},
		{FatalError{Op: "test case registry", Reason: "number of test cases cannot exceed 5"}, "test case registry: number of test cases cannot exceed 5"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
