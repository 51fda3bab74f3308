// Package solverctx replaces the original "global lpenv for CPLEX" pattern
// (spec §9 design note) with a plain, caller-owned context value. Nothing in
// this module holds process-wide solver state: every entry point that used
// to reach into a global now takes a *SolverContext explicitly.
//
// Lifecycle is the caller's responsibility: construct one SolverContext per
// logical training run (or share one across runs that should behave
// deterministically with the same seed), and let it be garbage collected
// when done. There is no teardown-at-shutdown hook because there is no
// global to tear down.
package solverctx

import (
	"context"
	"time"

	"github.com/katalvlaran/svmcore/internal/randtb"
)

// SolverContext carries the knobs that used to live behind a global: the
// deterministic tie-break seed (see internal/randtb) and an optional
// wall-clock training budget consulted by svm.Train's outer decomposition
// loop (spec §5 "max_train_time option"); bundle.Solve does not consult it.
type SolverContext struct {
	// Seed drives the Pardalos-Kovoor bracket tie-break RNG.
	Seed int64

	// MaxTrainTime bounds wall-clock training time; zero means unbounded.
	MaxTrainTime time.Duration

	// Ctx is checked at outer-iteration boundaries for cancellation.
	Ctx context.Context

	tieBreaker *randtb.TieBreaker
	deadline   time.Time
}

// Option configures a SolverContext.
type Option func(*SolverContext)

// WithSeed sets the deterministic tie-break seed.
func WithSeed(seed int64) Option {
	return func(sc *SolverContext) { sc.Seed = seed }
}

// WithMaxTrainTime sets a wall-clock training budget.
func WithMaxTrainTime(d time.Duration) Option {
	return func(sc *SolverContext) { sc.MaxTrainTime = d }
}

// WithContext sets the cancellation context. Passing nil has no effect,
// leaving context.Background() in place.
func WithContext(ctx context.Context) Option {
	return func(sc *SolverContext) {
		if ctx != nil {
			sc.Ctx = ctx
		}
	}
}

// New constructs a SolverContext with the default seed (1234), an unbounded
// training time, and context.Background(), then applies opts.
func New(opts ...Option) *SolverContext {
	sc := &SolverContext{
		Seed: randtb.DefaultSeed,
		Ctx:  context.Background(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	sc.tieBreaker = randtb.New(sc.Seed)

	return sc
}

// TieBreaker returns the deterministic RNG used by the Pardalos-Kovoor
// projector's bracket tie-break.
func (sc *SolverContext) TieBreaker() *randtb.TieBreaker {
	if sc.tieBreaker == nil {
		sc.tieBreaker = randtb.New(sc.Seed)
	}

	return sc.tieBreaker
}

// Deadline reports the absolute deadline implied by MaxTrainTime, measured
// from when this method is first called (lazily latched so repeated calls
// share one deadline), and whether a deadline is active at all.
func (sc *SolverContext) Deadline() (time.Time, bool) {
	if sc.MaxTrainTime <= 0 {
		return time.Time{}, false
	}
	if sc.deadline.IsZero() {
		sc.deadline = time.Now().Add(sc.MaxTrainTime)
	}

	return sc.deadline, true
}

