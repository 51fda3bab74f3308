package svm

import (
	"fmt"
	"math"

	"github.com/katalvlaran/svmcore/internal/solverctx"
	"github.com/katalvlaran/svmcore/qp"
)

// preprocessBlocks implements the optional sqrt(n)-block warm-start
// accelerator (spec §4.3 "Preprocessing (optional)"; supplemented from
// original_source/gpdtsolve.cpp per SPEC_FULL §6): split the data into
// sqrt(ell) contiguous blocks, solve each block's small QP directly via the
// same inner solver at a coarser tolerance, and seed st.alpha from the
// result. This only warms the start; the outer decomposition loop still
// runs to the requested Tol afterward, so it cannot change the final
// optimum (spec §4.3: "purely a warm-start accelerator").
func preprocessBlocks(sc *solverctx.SolverContext, st *decompState, params Params) error {
	ell := st.ell
	blockSize := int(math.Sqrt(float64(ell)))
	if blockSize < 2 {
		return nil // too small to benefit; leave alpha at zero
	}

	for start := 0; start < ell; start += blockSize {
		end := start + blockSize
		if end > ell {
			end = ell
		}
		n := end - start
		if n < 2 {
			continue
		}

		h := make([]float32, n*n)
		for i := 0; i < n; i++ {
			row := st.ch.FillRow(start + i)
			for j := 0; j < n; j++ {
				h[i*n+j] = float32(float64(st.y[start+i]) * float64(st.y[start+j]) * float64(row[start+j]))
			}
		}
		b := make([]float64, n)
		for i := range b {
			b[i] = -1
		}
		y := make([]int8, n)
		for i := range y {
			y[i] = st.y[start+i]
		}

		prob := &qp.Problem{N: n, H: h, B: b, C: st.c, E: 0, Y: y, Tol: 1e-2}
		res, err := qp.Solve(sc, prob, qp.Params{Algo: params.QPAlgo, Switch: params.QPSwitch, MaxVPM: 500, Seed: params.Seed})
		if err != nil && res.X == nil {
			return fmt.Errorf("preprocessBlocks: block [%d,%d): %w", start, end, err)
		}
		for i := 0; i < n; i++ {
			st.alpha[start+i] = res.X[i]
		}
	}

	// Recompute the gradient from scratch now that alpha is non-zero; the
	// per-block solves only saw their own block's Hessian, so the
	// cross-block contribution must be folded in once, globally.
	for i := 0; i < ell; i++ {
		row := st.ch.FillRow(i)
		s := -1.0
		for j := 0; j < ell; j++ {
			if st.alpha[j] == 0 {
				continue
			}
			s += float64(st.y[i]) * float64(st.y[j]) * float64(row[j]) * st.alpha[j]
		}
		st.grad[i] = s
	}

	return nil
}
