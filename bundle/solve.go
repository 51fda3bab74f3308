package bundle

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/svmcore/internal/randtb"
	"github.com/katalvlaran/svmcore/internal/solverctx"
	"github.com/katalvlaran/svmcore/qp"
)

// Callback is invoked at each outer iteration boundary (spec §9 design
// note: splits the SVM<->bundle mutual reference into a plain function
// value; no circular ownership). Returning true stops Solve early with
// whatever best-so-far w it has accumulated.
type Callback func(iter int, gap float64) (stop bool)

// bundleState holds the live plane arena for one Solve call.
type bundleState struct {
	params Params
	groups [][]int // plane indices per simplex group (one group per oracle)
	planes []plane
	// H is the packed, unscaled Gram matrix of subgradients,
	// H[i*cap+j] = <g_i,g_j> (spec §4.4 step 3). The variant-dependent
	// scale (1/lambda for BMRM, 1/(lambda+alpha) for the proximal variants,
	// since alpha is retuned every outer iteration) is applied at solve
	// time in solveMaster/reconstructW rather than baked in here.
	H   []float64
	cap int
}

func newBundleState(p Params, numGroups int) *bundleState {
	return &bundleState{
		params: p,
		groups: make([][]int, numGroups),
		planes: make([]plane, 0, p.BufSize),
		H:      make([]float64, p.BufSize*p.BufSize),
		cap:    p.BufSize,
	}
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}

	return s
}

// addPlane appends a subgradient plane to the arena, extending H by one
// row/column (spec §4.4 step 3). Returns false if the arena is full.
func (st *bundleState) addPlane(group int, subgrad []float64, bi float64) bool {
	n := len(st.planes)
	if n >= st.cap {
		return false
	}
	for i := 0; i < n; i++ {
		v := dot(st.planes[i].subgrad, subgrad)
		st.H[i*st.cap+n] = v
		st.H[n*st.cap+i] = v
	}
	st.H[n*st.cap+n] = dot(subgrad, subgrad)

	st.planes = append(st.planes, plane{subgrad: subgrad, bi: bi, group: group, active: true})
	st.groups[group] = append(st.groups[group], n)

	return true
}

// pruneInactive removes planes whose usage counter has reached CleanAfter,
// compacting the arena and H in place (spec §4.4 "inactive-cutting-plane
// pruning"). Group index lists are rebuilt from the surviving planes.
func (st *bundleState) pruneInactive() {
	if !st.params.CleanICP {
		return
	}
	kept := st.planes[:0]
	keepIdx := make([]int, 0, len(st.planes))
	for i, p := range st.planes {
		if p.active && p.usage >= st.params.CleanAfter {
			continue
		}
		kept = append(kept, p)
		keepIdx = append(keepIdx, i)
	}
	if len(kept) == len(st.planes) {
		return
	}
	newH := make([]float64, st.cap*st.cap)
	for r, oldR := range keepIdx {
		for c, oldC := range keepIdx {
			newH[r*st.cap+c] = st.H[oldR*st.cap+oldC]
		}
	}
	st.H = newH
	st.planes = append([]plane(nil), kept...)
	for g := range st.groups {
		st.groups[g] = st.groups[g][:0]
	}
	for i, p := range st.planes {
		st.groups[p.group] = append(st.groups[p.group], i)
	}
}

// solveMaster solves the simplex master QP min 1/2 beta^T H beta - b^T beta,
// beta>=0, sum_{i in group} beta_i = cap_g for every group (spec §4.4 step
// 4): a separable solve on H's diagonal via qp.ProjectGrouped (generalized
// from a single equality to the per-group simplex sums) gives the start,
// and projected-gradient steps on the full H refine it.
//
// lambdaEff is the effective regularization weight (lambda for BMRM,
// lambda+alpha for PPBMRM/P3BMRM after the proximal term's completed-square
// shift, see Solve); center is the shifted proximal center (zero for BMRM)
// folded into each plane's linear term as bi + <g_i, center> (spec §4.4
// "mixed form").
func (st *bundleState) solveMaster(tb *randtb.TieBreaker, lambdaEff float64, center []float64) ([]float64, error) {
	n := len(st.planes)
	dia := make([]float64, n)
	q := make([]float64, n)
	l := make([]float64, n)
	u := make([]float64, n)
	ones := make([]float64, n)
	lip := 1e-12
	for i, p := range st.planes {
		ones[i] = 1
		lip += dot(st.H[i*st.cap:i*st.cap+n], st.H[i*st.cap:i*st.cap+n])
		dia[i] = math.Max(st.H[i*st.cap+i]/lambdaEff, 1e-12)
		bi := p.bi
		if center != nil {
			bi += dot(p.subgrad, center)
		}
		q[i] = bi
		l[i] = 0
		u[i] = math.Inf(1)
	}
	groups := make([][]int, 0, len(st.groups))
	targets := make([]float64, 0, len(st.groups))
	for g, members := range st.groups {
		if len(members) == 0 {
			continue
		}
		groups = append(groups, members)
		cap := 1.0
		if g < len(st.params.GroupCaps) {
			cap = st.params.GroupCaps[g]
		}
		targets = append(targets, cap)
	}

	beta, err := qp.ProjectGrouped(dia, q, l, u, groups, targets, tb)
	// Refine the separable start by projected-gradient steps on the full
	// H/lambdaEff, with step length 1/||H/lambdaEff||_F.
	lip = math.Sqrt(lip) / lambdaEff
	for it := 0; it < 2000 && err == nil; it++ {
		step := make([]float64, n)
		for i := range step {
			step[i] = beta[i] + (q[i]-dot(st.H[i*st.cap:i*st.cap+n], beta)/lambdaEff)/lip
		}
		beta, err = qp.ProjectGrouped(ones, step, l, u, groups, targets, tb)
	}
	if err != nil {
		return nil, fmt.Errorf("bundle: master QP: %w", err)
	}

	return beta, nil
}

// reconstructW computes w = center - (1/lambdaEff) * sum_i beta_i * g_i
// (spec §4.4 step 5). For BMRM, lambdaEff=lambda and center is zero,
// recovering the plain w = -(1/lambda)*sum beta_i*g_i. For PPBMRM/P3BMRM,
// completing the square on lambda/2||w||^2 + alpha/2||w-wPrev||^2 shows the
// proximal-mixed optimum is the same formula recentered at
// center = alpha/(lambda+alpha) * wPrev (see Solve), which is exactly the
// "mixed form" spec §4.4 describes.
func (st *bundleState) reconstructW(beta []float64, dim int, lambdaEff float64, center []float64) []float64 {
	w := make([]float64, dim)
	if center != nil {
		copy(w, center)
	}
	for i, p := range st.planes {
		if beta[i] == 0 {
			continue
		}
		for d := 0; d < dim; d++ {
			w[d] -= beta[i] * p.subgrad[d] / lambdaEff
		}
	}

	return w
}

// Solve runs the BMRM/PPBMRM/P3BMRM cutting-plane loop (spec §4.4).
// oracles has length 1 for BMRM/PPBMRM and P for P3BMRM, one risk oracle per
// parallel model/simplex group. cb, if non-nil, is polled at each outer
// iteration boundary for cooperative cancellation (spec §5, §9 design
// note); ctx is checked at the same boundary.
func Solve(ctx context.Context, sc *solverctx.SolverContext, params Params, oracles []RiskOracle, cb Callback) (Result, error) {
	if len(oracles) == 0 {
		return Result{}, ErrNoOracles
	}
	if params.Dim <= 0 || params.Lambda <= 0 || params.BufSize <= 0 {
		return Result{}, ErrInvalidParams
	}
	p := params.normalize(len(oracles))

	st := newBundleState(p, len(oracles))
	tb := sc.TieBreaker()

	w := make([]float64, p.Dim)
	wPrev := make([]float64, p.Dim)
	alpha := 0.0
	if p.Variant != BMRM {
		alpha = p.AlphaInit
	}
	// haveLastGoodAlpha/lastGoodAlpha track the trust-region tuning state
	// across outer iterations (spec §4.4 alpha-tuning: "double alpha until
	// satisfied or a previous good alpha exists, then halve"). Since plane
	// additions happen once per outer iteration, strictly before tuning
	// begins, the tuning retries below never mutate st.planes/st.H — there
	// is no "last-good plane set" to restore mid-tuning, only the scalar
	// alpha to roll back to, which lastGoodAlpha captures.
	var lastGoodAlpha float64
	var haveLastGoodAlpha bool

	result := Result{W: w}
	for iter := 0; iter < p.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			result.Exit = ExitMaxIter
			return result, nil
		}

		totalR := 0.0
		for gi, oracle := range oracles {
			part := PartitionInfo{}
			if len(oracles) > 1 {
				part = PartitionInfo{Ell: 1, Offset: gi}
			}
			risk, subgrad, err := oracle.Risk(w, part)
			if err != nil {
				return result, fmt.Errorf("%w: %v", ErrOracleFailed, err)
			}
			bi := risk - dot(subgrad, w)
			if !st.addPlane(gi, subgrad, bi) {
				result.Exit = ExitBufferOverflow
				result.W = w
				return result, nil
			}
			totalR += risk
		}
		wEval := w

		// Master-solve / alpha-tuning loop (spec §4.4): re-solve against the
		// same plane arena with alpha doubled (or, once a trust-region-satisfying
		// alpha is known, moved halfway toward it), at most twice per outer
		// iteration, until ||w-wPrev|| respects the trust radius.
		var beta []float64
		dn := 0.0
		for tuning := 0; ; tuning++ {
			lambdaEff := p.Lambda
			var center []float64
			if p.Variant != BMRM {
				lambdaEff = p.Lambda + alpha
				if alpha != 0 {
					center = make([]float64, p.Dim)
					for d := range center {
						center[d] = (alpha / lambdaEff) * wPrev[d]
					}
				}
			}

			var solveErr error
			beta, solveErr = st.solveMaster(tb, lambdaEff, center)
			if solveErr != nil {
				result.Exit = ExitAllocFailure
				return result, nil
			}
			w = st.reconstructW(beta, p.Dim, lambdaEff, center)

			if p.Variant == BMRM || tuning >= 2 {
				break
			}
			diff := make([]float64, p.Dim)
			for d := range diff {
				diff[d] = w[d] - wPrev[d]
			}
			dn = math.Sqrt(dot(diff, diff))
			if dn <= p.TrustRadius {
				break
			}
			if haveLastGoodAlpha {
				alpha = (alpha + lastGoodAlpha) / 2
			} else {
				alpha *= 2
			}
		}

		if p.Variant != BMRM {
			diff := make([]float64, p.Dim)
			for d := range diff {
				diff[d] = w[d] - wPrev[d]
			}
			dn = math.Sqrt(dot(diff, diff))
			if dn <= p.TrustRadius {
				lastGoodAlpha = alpha
				haveLastGoodAlpha = true
				if dn <= 0.5*p.TrustRadius {
					alpha /= 2
				}
			}
		}

		// Usage-counter bookkeeping for ICP pruning: planes with beta<=eps
		// accumulate idleness, active planes reset (spec §4.4 pruning).
		const eps = 1e-12
		for i := range st.planes {
			if beta[i] <= eps {
				st.planes[i].usage++
			} else {
				st.planes[i].usage = 0
			}
		}

		// fd is the dual value of the cutting-plane model at beta,
		// sum_i beta_i*b_i - 1/(2*lambda)*||sum_i beta_i*g_i||^2, a lower bound
		// on the objective; fp is the objective at the w the oracles saw.
		sg := make([]float64, p.Dim)
		fd := 0.0
		for i, pl := range st.planes {
			fd += beta[i] * pl.bi
			for d := range sg {
				sg[d] += beta[i] * pl.subgrad[d]
			}
		}
		fd -= dot(sg, sg) / (2 * p.Lambda)
		fp := totalR + 0.5*p.Lambda*dot(wEval, wEval)
		if p.Variant != BMRM {
			fp += alpha * dn * dn
		}
		gap := fp - fd

		result.W = w
		result.Fp = fp
		result.Fd = fd
		result.Gap = gap
		result.Iterations = iter + 1

		if gap <= p.TolAbs {
			result.Exit = ExitAbsTol
			return result, nil
		}
		if gap <= p.TolRel*math.Abs(fp) {
			result.Exit = ExitKKT
			return result, nil
		}

		if p.CleanICP {
			st.pruneInactive()
		}

		copy(wPrev, w)

		if cb != nil && cb(iter, gap) {
			result.Exit = ExitMaxIter
			return result, nil
		}
	}

	result.Exit = ExitMaxIter
	return result, nil
}
