// Package svm implements the decomposition-based binary SVM trainer
// (spec.md §4.3, "GPDT"): a Serafini-Zanni working-set selection feeds small
// subproblems to the inner QP solver (package qp), iterated until the whole-
// gradient KKT test passes.
//
// Grounded on flow.Dinic's outer/inner loop split (outer phase boundary +
// inner augmenting loop, both checking ctx.Err() only at the outer
// boundary): the decomposition loop here checks cancellation once per outer
// iteration, never inside the inner qp.Solve call, mirroring spec §5.
package svm

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/svmcore/internal/solverctx"
	"github.com/katalvlaran/svmcore/kernel"
	"github.com/katalvlaran/svmcore/kernel/cache"
	"github.com/katalvlaran/svmcore/qp"
)

// epsSV fixes the free/bound classification threshold (spec §3: "DELTAsv
// = EPS_SV*c"); EPS_SV mirrors the teacher's use of small fixed fractional
// epsilons for numerical classification thresholds (e.g. flow.Ford-Fulkerson's
// residual-capacity epsilon).
const epsSV = 1e-6

// Status reports how Train terminated.
type Status int

const (
	// StatusConverged means the whole-gradient KKT test passed.
	StatusConverged Status = iota
	// StatusMaxIter means Params.MaxOuterIter was exhausted.
	StatusMaxIter
	// StatusStalled means the working-set selection could not move any
	// variable even after relaxing DeltaKin to its floor (spec §4.3).
	StatusStalled
	// StatusPremature means a Callback or context cancellation stopped
	// training early; the best-so-far alpha is returned.
	StatusPremature
)

// DecompositionState is a read-only snapshot of the decomposition loop.
// Train does not build one; Callback receives the iteration number and the
// KKT gap instead.
type DecompositionState struct {
	Iter    int
	KKTGap  float64
	Alpha   []float64
	Model   *Model
}

// decompState holds the mutable working set of the decomposition loop (spec §3
// "Decomposition state").
type decompState struct {
	ell   int
	c     float64
	y     []int8
	alpha []float64
	grad  []float64 // gradient = H*alpha + b, here b = -1 (standard dual SVM)

	k   kernel.Kernel
	ch  *cache.Cache

	deltaVPM      float64
	deltaKin      float64
	initDeltaVPM  float64
	prevKKT       float64 // kkt gap as of the *previous* outer iteration (adaptDelta's baseline)

	bmem []int // how often each sample has entered the working set
}

// Train solves the standard dual SVM QP
//
//	max_alpha  sum_i alpha_i - 1/2 sum_ij alpha_i alpha_j y_i y_j K(i,j)
//	s.t.       0 <= alpha_i <= C,  sum_i y_i alpha_i = 0
//
// for the binary labels y (spec §6: the core consumes only BinaryLabels) and
// returns the trained Model. k must already have SetSides bound to (data,
// data) with the same ell as len(y). sc supplies the deterministic
// Pardalos-Kovoor tie-break and optional wall-clock/cancellation budget.
func Train(sc *solverctx.SolverContext, k kernel.Kernel, y BinaryY, params Params, cb Callback) (*Model, Status, error) {
	ell := len(y)
	if ell == 0 {
		return nil, 0, ErrEmptyDataset
	}
	if k.NumLHS() != ell || k.NumRHS() != ell {
		return nil, 0, ErrLabelMismatch
	}
	params = params.normalize()
	if params.C <= 0 {
		return nil, 0, ErrInvalidParams
	}

	labels := make([]int8, ell)
	for i, v := range y {
		if v != 1 && v != -1 {
			return nil, 0, ErrLabelMismatch
		}
		labels[i] = v
	}

	ch, err := cache.New(k, ell, params.CacheMB)
	if err != nil {
		return nil, 0, fmt.Errorf("svm.Train: %w", err)
	}

	st := &decompState{
		ell:          ell,
		c:            params.C,
		y:            labels,
		alpha:        make([]float64, ell),
		grad:         make([]float64, ell),
		k:            k,
		ch:           ch,
		deltaVPM:     params.DeltaVPMFloor * 10, // starting point above the floor
		initDeltaVPM: params.DeltaVPMFloor * 10,
		deltaKin:     1e-1,
	}
	for i := range st.grad {
		st.grad[i] = -1 // b_i = -1 in the standard dual objective
	}

	if params.Preprocess == PreprocessBlock {
		if err := preprocessBlocks(sc, st, params); err != nil {
			return nil, 0, fmt.Errorf("svm.Train: preprocess: %w", err)
		}
	}

	status := StatusMaxIter
	iter := 0
	for ; iter < params.MaxOuterIter; iter++ {
		select {
		case <-sc.Ctx.Done():
			status = StatusPremature

			goto done
		default:
		}
		if dl, ok := sc.Deadline(); ok && time.Now().After(dl) {
			status = StatusPremature

			goto done
		}

		st.ch.Iteration()

		ws, movable := selectWorkingSet(st, params.WorkingSetSize)
		if !movable {
			// Relax DeltaKin toward its floor before declaring stall
			// (spec §4.3: "stretch the inner tolerance by DELTAkin down to
			// 1e-6 before giving up").
			if st.deltaKin > params.DeltaKinFloor {
				st.deltaKin *= 0.5
				if st.deltaKin < params.DeltaKinFloor {
					st.deltaKin = params.DeltaKinFloor
				}

				continue
			}
			status = StatusStalled

			break
		}

		prob, rows := assembleSubproblem(st, ws)
		res, qerr := qp.Solve(sc, prob, qp.Params{Algo: qp.Algorithm(params.QPAlgo), Switch: qp.SwitchRule(params.QPSwitch), Seed: params.Seed})
		if qerr != nil {
			// Non-convergence of the inner solver is a recoverable warning
			// (spec §7); proceed with the last iterate it returned.
			_ = qerr
		}

		delta := make([]float64, len(ws))
		for i, idx := range ws {
			delta[i] = res.X[i] - st.alpha[idx]
			st.alpha[idx] = res.X[i]
		}
		updateGradient(st, ws, delta, rows)

		kkt := kktGap(st)
		if kkt < params.tol() {
			status = StatusConverged

			break
		}
		adaptDelta(st, kkt, params)
		st.prevKKT = kkt

		if cb != nil {
			snapshot := &Model{Kernel: k, Y: st.y, Alpha: append([]float64(nil), st.alpha...), C: st.c, N: ell, trained: true}
			if cb(iter, kkt) {
				status = StatusPremature
				model := snapshot
				model.Bias = computeBias(st)

				return model, status, nil
			}
		}
	}

done:
	bias := computeBias(st)
	model := &Model{
		Kernel:  k,
		Y:       st.y,
		Alpha:   st.alpha,
		Bias:    bias,
		C:       st.c,
		N:       ell,
		trained: true,
	}

	return model, status, nil
}

// BinaryY is the narrow label slice Train consumes (spec §6).
type BinaryY []int8

// selectWorkingSet implements Serafini-Zanni selection (spec §4.3): sort by
// -y_i*grad_i ascending, scan both ends for movable candidates, pair up to q
// of them. Returns the selected indices and whether at least two (one pair)
// were found.
func selectWorkingSet(st *decompState, q int) ([]int, bool) {
	type cand struct {
		idx int
		key float64
	}
	order := make([]cand, st.ell)
	for i := 0; i < st.ell; i++ {
		order[i] = cand{i, -float64(st.y[i]) * st.grad[i]}
	}
	sort.Slice(order, func(a, b int) bool { return order[a].key < order[b].key })

	movableTop := func(i int) bool {
		// "Top end" (largest key): free, or y=+1&alpha=0, or y=-1&alpha=c.
		idx := order[i].idx
		if isFree(st, idx) {
			return true
		}
		if st.y[idx] == 1 && st.alpha[idx] <= epsSV*st.c {
			return true
		}
		if st.y[idx] == -1 && st.alpha[idx] >= st.c-epsSV*st.c {
			return true
		}

		return false
	}
	movableBottom := func(i int) bool {
		// "Bottom end" (smallest key): free, or y=-1&alpha=0, or y=+1&alpha=c.
		idx := order[i].idx
		if isFree(st, idx) {
			return true
		}
		if st.y[idx] == -1 && st.alpha[idx] <= epsSV*st.c {
			return true
		}
		if st.y[idx] == 1 && st.alpha[idx] >= st.c-epsSV*st.c {
			return true
		}

		return false
	}

	ws := make([]int, 0, q)
	for lo, hi := 0, st.ell-1; len(ws) < q && lo < hi; lo, hi = lo+1, hi-1 {
		if movableBottom(lo) {
			ws = append(ws, order[lo].idx)
		}
		if len(ws) < q && movableTop(hi) {
			ws = append(ws, order[hi].idx)
		}
	}

	if len(ws) < 2 {
		return nil, false
	}
	if len(ws)%2 != 0 {
		ws = ws[:len(ws)-1]
	}
	if st.bmem == nil {
		st.bmem = make([]int, st.ell)
	}
	for _, idx := range ws {
		st.bmem[idx]++
	}

	return ws, true
}

func isFree(st *decompState, idx int) bool {
	return st.alpha[idx] > epsSV*st.c && st.alpha[idx] < st.c-epsSV*st.c
}

// assembleSubproblem builds H_sub[i,j] = y_i y_j K(W_i,W_j) and the gradient-
// form linear term b_sub[i] = grad_i - (H_sub.alpha_W)_i (spec §4.3), the
// part of the full gradient that does not come from the working set,
// recycling cache rows already resident for members of ws.
func assembleSubproblem(st *decompState, ws []int) (*qp.Problem, [][]float32) {
	n := len(ws)
	h := make([]float32, n*n)
	rows := make([][]float32, n)
	for i, gi := range ws {
		row := st.ch.FillRow(gi)
		rows[i] = row
		for j, gj := range ws {
			h[i*n+j] = float32(float64(st.y[gi]) * float64(st.y[gj]) * float64(row[gj]))
		}
	}

	alphaW := make([]float64, n)
	for i, gi := range ws {
		alphaW[i] = st.alpha[gi]
	}

	b := make([]float64, n)
	for i, gi := range ws {
		hDotAlphaW := 0.0
		for j := range ws {
			hDotAlphaW += float64(h[i*n+j]) * alphaW[j]
		}
		b[i] = st.grad[gi] - hDotAlphaW
	}

	yy := make([]int8, n)
	for i, gi := range ws {
		yy[i] = st.y[gi]
	}
	// The subproblem variables are the *new* alpha_W directly (not a delta),
	// so its equality constraint must reproduce sum_{i in W} y_i*alpha_i,
	// which is pinned by the outer invariant sum_i y_i*alpha_i = 0 holding
	// both before and after this subproblem is solved: the contribution
	// from variables outside W cannot change, so e is minus that fixed sum.
	outsideSum := 0.0
	for i := range st.alpha {
		outsideSum += float64(st.y[i]) * st.alpha[i]
	}
	for _, gi := range ws {
		outsideSum -= float64(st.y[gi]) * st.alpha[gi]
	}
	e := -outsideSum

	prob := &qp.Problem{
		N: n,
		H: h,
		B: b,
		C: st.c,
		E: e,
		Y: yy,
		X: alphaW,
	}

	return prob, rows
}

// updateGradient applies grad_j += y_j * sum_i delta_i*y_i*K(j,W_i) using the
// rows already filled during subproblem assembly (spec §4.3 "non-LINADD" path;
// the LINADD fast path is a documented extension point via kernel.LINADD,
// not exercised by the concrete Linear/Gaussian kernels in this package).
func updateGradient(st *decompState, ws []int, delta []float64, rows [][]float32) {
	rowF64 := make([]float64, st.ell)
	for i, gi := range ws {
		coef := delta[i] * float64(st.y[gi])
		if coef == 0 {
			continue
		}
		row := rows[i]
		for j := range rowF64 {
			rowF64[j] = float64(st.y[j]) * float64(row[j])
		}
		floats.AddScaled(st.grad, coef, rowF64)
	}
}

// kktGap computes the whole-gradient KKT violation (spec §4.3/§8): minus the
// mean y_i*grad_i over free variables is the implied bias, and the max
// deviation from the correct sign pattern over all variables is the gap.
func kktGap(st *decompState) float64 {
	var sum float64
	var nFree int
	for i := 0; i < st.ell; i++ {
		if isFree(st, i) {
			sum += float64(st.y[i]) * st.grad[i]
			nFree++
		}
	}
	var kktLambda float64
	if nFree > 0 {
		kktLambda = -sum / float64(nFree)
	}

	maxViol := 0.0
	for i := 0; i < st.ell; i++ {
		v := float64(st.y[i])*st.grad[i] + kktLambda
		if isFree(st, i) {
			if a := abs64(v); a > maxViol {
				maxViol = a
			}

			continue
		}
		// Bound variable: the sign of grad_i + kktLambda*y_i must match the
		// bound it sits at; a violation is measured by how far it is from
		// the correct half-plane.
		vb := st.grad[i] + kktLambda*float64(st.y[i])
		if st.alpha[i] <= epsSV*st.c && vb < -maxViol {
			maxViol = -vb
		}
		if st.alpha[i] >= st.c-epsSV*st.c && vb > maxViol {
			maxViol = vb
		}
	}

	return maxViol
}

func computeBias(st *decompState) float64 {
	var sum float64
	var n int
	for i := 0; i < st.ell; i++ {
		if isFree(st, i) {
			sum += float64(st.y[i]) - (float64(st.y[i])*st.grad[i] + float64(st.y[i]))
			n++
		}
	}
	if n == 0 {
		// No free SVs: fall back to the midpoint of the bound-variable
		// gradient range, a common degenerate-case convention.
		var lo, hi = -1e18, 1e18
		for i := 0; i < st.ell; i++ {
			v := -float64(st.y[i]) * st.grad[i]
			if st.y[i] == 1 && st.alpha[i] < st.c-epsSV*st.c {
				if v < hi {
					hi = v
				}
			}
			if st.y[i] == -1 && st.alpha[i] < st.c-epsSV*st.c {
				if v > lo {
					lo = v
				}
			}
		}
		if lo > -1e18 && hi < 1e18 {
			return (lo + hi) / 2
		}

		return 0
	}

	return sum / float64(n)
}

// adaptDelta tightens DeltaVPM when outer progress stalls (spec §4.3: "if
// |kkt - kktold| < delta*0.01 and aux < 2*delta"), down to a configurable
// floor rather than the hardcoded 0.1*Initial, per the spec §9 open
// question (both knobs kept, neither assumed sufficient alone).
func adaptDelta(st *decompState, kkt float64, params Params) {
	aux := abs64(kkt - st.prevKKT)
	if aux < st.deltaVPM*0.01 && aux < 2*st.deltaVPM {
		st.deltaVPM *= 0.5
		floor := params.DeltaVPMFloor
		if floor <= 0 {
			floor = 0.1 * st.initDeltaVPM
		}
		if st.deltaVPM < floor {
			st.deltaVPM = floor
		}
	}
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
