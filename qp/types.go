package qp

// Problem is the box-constrained, singly-equality-constrained QP solved by
// the inner solver between outer decomposition iterations (spec.md §4.2):
//
//	minimize    1/2 x^T H x + b^T x
//	subject to  y^T x = e,  0 <= x_i <= c   for all i
//
// H is stored packed, row-major; entries are f32 in the wire format the
// decomposition loop hands down (kernel sub-block, see svm.assembleSubproblem),
// widened to float64 internally for the arithmetic.
type Problem struct {
	N int       // dimension
	H []float32 // packed row-major n*n
	B []float64 // linear term, length n
	C float64   // shared upper box bound (per-variable box is [0, C])
	E float64   // equality target
	Y []int8    // +1/-1 labels, length n

	X []float64 // warm start on entry, solution on return; length n
	// Tol is the duality-gap stopping tolerance; 0 selects DefaultTol.
	Tol float64
}

// DefaultTol is the duality-gap tolerance used when Problem.Tol is zero.
const DefaultTol = 1e-10

// DefaultMaxVPM bounds the outer projected-gradient loop (spec §4.2: "up to
// maxvpm=15000 iterations").
const DefaultMaxVPM = 15000

// Algorithm selects the steplength/line-search engine driving the projected
// gradient iteration.
type Algorithm int

const (
	// GVPM is the (adaptive or fixed) generalized variable projection method.
	GVPM Algorithm = iota
	// DaiFletcher is the spectral Barzilai-Borwein steplength with the
	// Dai-Fletcher nonmonotone line search (memory L=2).
	DaiFletcher
)

// SwitchRule selects GVPM's steplength alternation policy; it has no effect
// when Algorithm is DaiFletcher.
type SwitchRule int

const (
	// Adaptive alternates between the two BB steplengths based on a
	// ratio test (spec §4.2 design note, GVPM adaptive switching).
	Adaptive SwitchRule = iota
	// Fixed reproduces gpm.cpp's uncommented switching rule: three
	// consecutive outer iterations on the long steplength (BB1), then
	// three on the short one (BB2), `iter%6<3` (spec §9 open question:
	// exposed, not hidden, as a Params knob).
	Fixed
)

// Status reports how Solve terminated.
type Status int

const (
	// Converged means the duality-gap test was satisfied.
	Converged Status = iota
	// MaxIterReached means Params.MaxVPM was exhausted; Result.X holds the
	// last iterate and ErrMaxIterations is returned alongside it.
	MaxIterReached
)

// Params configures one Solve call; the zero value selects GVPM/Adaptive
// with DefaultMaxVPM iterations and DefaultTol.
type Params struct {
	Algo       Algorithm
	Switch     SwitchRule
	MaxVPM     int
	Seed       int64 // 0 selects randtb.DefaultSeed via the caller's SolverContext
}

// Result is Solve's outcome: the final iterate (also written back into
// Problem.X), the duality gap at termination, and the iteration count.
type Result struct {
	X          []float64
	Iterations int
	DualityGap float64
	Status     Status
}

func (p *Problem) validate() error {
	if p.N <= 0 {
		return ErrInvalidProblem
	}
	if len(p.H) != p.N*p.N || len(p.B) != p.N || len(p.Y) != p.N {
		return ErrInvalidProblem
	}
	if p.X != nil && len(p.X) != p.N {
		return ErrInvalidProblem
	}

	return nil
}

func (p *Problem) tol() float64 {
	if p.Tol > 0 {
		return p.Tol
	}

	return DefaultTol
}

func (pr Params) maxVPM() int {
	if pr.MaxVPM > 0 {
		return pr.MaxVPM
	}

	return DefaultMaxVPM
}

// hRow returns a view into the packed row i of Problem.H widened to float64.
func hRow(p *Problem, i int, dst []float64) {
	base := i * p.N
	for j := 0; j < p.N; j++ {
		dst[j] = float64(p.H[base+j])
	}
}

func hAt(p *Problem, i, j int) float64 {
	return float64(p.H[i*p.N+j])
}
