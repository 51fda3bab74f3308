// Package bundle implements the BMRM/PPBMRM/P3BMRM cutting-plane solver for
// structured-output risk minimization (spec.md §4.4): a bundle of
// subgradient planes, refreshed from a caller-supplied risk oracle once per
// outer iteration, drives a master simplex QP whose solution reconstructs
// the current model w.
//
// Grounded on kernel/cache's arena+free-list shape (spec §9 design note:
// "cutting-plane list" gets the same arena treatment as the cache's rows),
// adapted here to a bounded plane arena indexed by slot id rather than
// logical column; the master QP reuses qp.ProjectGrouped, the C3 projector
// generalized to per-model simplex groups (spec §4.4 step 4, P3BMRM).
package bundle

// Variant selects which bundle-method flavor Solve runs.
type Variant int

const (
	// BMRM is the classical proximal cutting-plane method on
	// F(w) = lambda/2*||w||^2 + R(w).
	BMRM Variant = iota
	// PPBMRM adds a proximal-to-previous-w term alpha*||w-w_prev||^2 with
	// auto-tuned alpha (trust-region rule).
	PPBMRM
	// P3BMRM parallelizes the risk oracle across P models, adding P planes
	// per outer step, one simplex group per model.
	P3BMRM
)

// ExitFlag reports how Solve terminated (spec §4.4 "Failure semantics").
type ExitFlag int

const (
	// ExitMaxIter means Params.MaxIter was exhausted without reaching a
	// stopping test.
	ExitMaxIter ExitFlag = 0
	// ExitBufferOverflow means the plane arena (Params.BufSize) filled and
	// pruning could not make room; Result holds the best feasible w found.
	ExitBufferOverflow ExitFlag = -1
	// ExitAllocFailure means the master QP could not be solved over the
	// current plane arena. Oracle failures are not reported this way; Solve
	// returns them as an ErrOracleFailed error.
	ExitAllocFailure ExitFlag = -2
	// ExitKKT means the relative duality-gap test (TolRel) was satisfied.
	ExitKKT ExitFlag = 1
	// ExitAbsTol means the absolute duality-gap test (TolAbs) was satisfied.
	ExitAbsTol ExitFlag = 2
)

// RiskOracle computes the risk and a subgradient at w (spec §6: "risk(w) ->
// (R, subgradient)"). Part slices the data for model-parallel P3BMRM
// variants; BMRM/PPBMRM call a single oracle with the zero-value partition.
type RiskOracle interface {
	Risk(w []float64, part PartitionInfo) (risk float64, subgrad []float64, err error)
}

// PartitionInfo slices the training data for one of P parallel models in
// P3BMRM (spec §6).
type PartitionInfo struct {
	Ell    int
	Offset int
}

// Params configures one Solve run.
type Params struct {
	Variant Variant
	Dim     int     // dimension of w
	Lambda  float64 // regularization weight

	BufSize int // plane-arena capacity (spec §4.4 "BufSize")

	TolRel float64
	TolAbs float64

	MaxIter int

	// CleanICP enables inactive-cutting-plane pruning.
	CleanICP   bool
	CleanAfter int // usage-counter threshold before a plane is pruned

	// TrustRadius (K) and AlphaInit configure PPBMRM/P3BMRM's proximal
	// alpha auto-tuning (spec §4.4 "alpha-tuning").
	TrustRadius float64
	AlphaInit   float64

	// GroupCaps sets each group's simplex sum (Sigma_i in I beta_i = C);
	// length must equal len(oracles) passed to Solve. Nil defaults every
	// group's cap to 1 (the standard single-simplex BMRM master QP).
	GroupCaps []float64
}

func (p Params) normalize(numGroups int) Params {
	if p.BufSize <= 0 {
		p.BufSize = 100
	}
	if p.TolRel <= 0 {
		p.TolRel = 1e-3
	}
	if p.TolAbs <= 0 {
		p.TolAbs = 1e-6
	}
	if p.MaxIter <= 0 {
		p.MaxIter = 1000
	}
	if p.CleanAfter <= 0 {
		p.CleanAfter = 10
	}
	if p.TrustRadius <= 0 {
		p.TrustRadius = 1.0
	}
	if p.AlphaInit <= 0 {
		p.AlphaInit = 1e-3
	}
	if p.Lambda <= 0 {
		p.Lambda = 1.0
	}
	if len(p.GroupCaps) != numGroups {
		caps := make([]float64, numGroups)
		for i := range caps {
			caps[i] = 1.0
		}
		p.GroupCaps = caps
	}

	return p
}

// Result is Solve's outcome.
type Result struct {
	W          []float64
	Fp         float64
	Fd         float64
	Gap        float64
	Iterations int
	Exit       ExitFlag
}

// plane is one cutting-plane slot in the arena: a subgradient, its offset
// term (R - <subgrad,w>), the simplex group it belongs to (0 for
// BMRM/PPBMRM, model index for P3BMRM), and a pruning usage counter.
type plane struct {
	subgrad []float64
	bi      float64
	group   int
	usage   int
	active  bool
}
