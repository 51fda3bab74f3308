package flsa

// TridiagMethod selects the factorization used to re-solve the free-block
// system during a restart (spec §4.6).
type TridiagMethod int

const (
	// Thomas is the standard tridiagonal elimination; used whenever its
	// pivots stay well away from zero.
	Thomas TridiagMethod = iota
	// Rose is a symmetric, indefinite-safe variant selected automatically
	// when a Thomas pivot underflows (|pivot| < tridiagEps) — the
	// near-singular boundary row that can appear at high lambda when a
	// free block is a single index pinned on both sides.
	Rose
)

// TerminationFlag reports which of the four regimes named in spec §4.6
// actually ended Solve.
type TerminationFlag int

const (
	// RestartDualityGap is the default regime: Solve restarts periodically
	// and stops once the duality gap computed right after a restart falls
	// below TolRel*|primal| or TolAbs.
	RestartDualityGap TerminationFlag = 1
	// AbsoluteChange stops when ||z_k - z_{k-1}|| < TolAbs between
	// consecutive projected-gradient steps, without restarting.
	AbsoluteChange TerminationFlag = 2
	// AbsoluteDualityGap stops as soon as the (unrestarted) duality gap
	// falls below TolAbs.
	AbsoluteDualityGap TerminationFlag = 3
	// RelativeDualityGap stops as soon as the duality gap falls below
	// TolRel*|primal objective|.
	RelativeDualityGap TerminationFlag = 4
)

// tridiagEps is the pivot-magnitude floor below which Thomas's elimination
// is considered unsafe and Rose's variant is used instead (spec §4.6).
const tridiagEps = 1e-10

// Params configures one Solve call. The zero value selects
// RestartDualityGap with 1000 iterations, TolAbs=1e-8, TolRel=1e-6, a
// restart every 25 iterations, and Thomas factorization (falling back to
// Rose automatically).
type Params struct {
	Regime       TerminationFlag
	MaxIter      int
	TolAbs       float64
	TolRel       float64
	RestartEvery int
	Tridiag      TridiagMethod
}

func (p Params) normalize() Params {
	if p.Regime == 0 {
		p.Regime = RestartDualityGap
	}
	if p.MaxIter <= 0 {
		p.MaxIter = 1000
	}
	if p.TolAbs <= 0 {
		p.TolAbs = 1e-8
	}
	if p.TolRel <= 0 {
		p.TolRel = 1e-6
	}
	if p.RestartEvery <= 0 {
		p.RestartEvery = 25
	}

	return p
}

// Result is Solve's outcome.
type Result struct {
	X             []float64
	ActiveSetSize int
	DualGap       float64
	Iterations    int
	Flag          TerminationFlag
}
