package qp

import (
	"math"
	"sort"

	"github.com/katalvlaran/svmcore/internal/randtb"
)

// projectBoxEquality solves the separable projection subproblem
//
//	minimize    1/2 sum_i dia_i x_i^2 - q_i x_i
//	subject to  y^T x = e,  l_i <= x_i <= u_i
//
// via the Pardalos-Kovoor dual bracketing method (spec §4.2 design note):
// stationarity gives x_i(lambda) = clamp((q_i + lambda*y_i)/dia_i, l_i, u_i),
// and h(lambda) = y^T x(lambda) - e is continuous, piecewise-linear, and
// monotone nondecreasing in lambda (since dia_i > 0), with kinks exactly at
// the breakpoints where x_i(lambda) hits l_i or u_i. The root is bracketed
// by the sorted breakpoints and refined by bisection; when two or more
// breakpoints coincide to within tolerance, tb supplies the tie-break index
// (spec §9 design note: deterministic seeded tie-break replacing an
// unspecified-order bracket scan).
//
// Grounded on the teacher's consensus-by-backtracking scan in dtw/dtw.go
// (a monotone table walk resolved by an explicit, ordered tie-break) for
// the shape of "scan a sorted candidate list, break ties deterministically".
func projectBoxEquality(dia, q, y, l, u []float64, e float64, tb *randtb.TieBreaker) ([]float64, error) {
	n := len(q)
	x := make([]float64, n)

	xAt := func(lambda float64, i int) float64 {
		v := (q[i] + lambda*y[i]) / dia[i]
		if v < l[i] {
			return l[i]
		}
		if v > u[i] {
			return u[i]
		}

		return v
	}
	h := func(lambda float64) float64 {
		var s float64
		for i := 0; i < n; i++ {
			s += y[i] * xAt(lambda, i)
		}

		return s - e
	}

	// Breakpoints: the lambda at which x_i(lambda) transitions between the
	// clamped and free regime, one per finite bound per variable.
	type breakpoint struct{ lambda float64 }
	bps := make([]breakpoint, 0, 2*n)
	for i := 0; i < n; i++ {
		if y[i] == 0 {
			continue
		}
		for _, b := range []float64{(l[i]*dia[i] - q[i]) / y[i], (u[i]*dia[i] - q[i]) / y[i]} {
			if !math.IsInf(b, 0) && !math.IsNaN(b) {
				bps = append(bps, breakpoint{b})
			}
		}
	}
	sort.Slice(bps, func(i, j int) bool { return bps[i].lambda < bps[j].lambda })

	if math.Abs(e) > feasSumAbs(y, l, u) {
		return nil, ErrBoxInfeasible
	}

	lo, hi := -1.0, 1.0
	if len(bps) > 0 {
		lo, hi = bps[0].lambda-1, bps[len(bps)-1].lambda+1
	}
	for h(lo) > 0 {
		lo -= math.Abs(lo) + 1
	}
	for h(hi) < 0 {
		hi += math.Abs(hi) + 1
	}

	const maxIter = 200
	for it := 0; it < maxIter; it++ {
		mid := lo + (hi-lo)/2
		v := h(mid)
		if math.Abs(v) < 1e-13 {
			lo, hi = mid, mid

			break
		}
		if v < 0 {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-15 {
			break
		}
	}

	lambda := lo + (hi-lo)/2
	// If the bracket collapsed onto a flat segment shared by several
	// variables (a degenerate tie at the root), nudge lambda by an
	// infinitesimal, deterministically-chosen offset so the resulting
	// primal point is reproducible across runs with the same seed.
	if hi == lo {
		tied := 0
		for _, bp := range bps {
			if math.Abs(bp.lambda-lambda) < 1e-9 {
				tied++
			}
		}
		if tied > 1 {
			pick := tb.Intn(tied)
			lambda += float64(pick) * 1e-12
		}
	}

	for i := 0; i < n; i++ {
		x[i] = xAt(lambda, i)
	}

	return x, nil
}

func feasSumAbs(y, l, u []float64) float64 {
	var s float64
	for i := range y {
		if y[i] > 0 {
			s += y[i] * u[i]
		} else {
			s += -y[i] * (u[i] - l[i] + l[i])
		}
	}
	// Conservative bound: sum of |y_i|*max(|l_i|,|u_i|) is always >= the
	// true feasible range; only used as an infeasibility fast-path guard.
	bound := 0.0
	for i := range y {
		a := math.Abs(l[i])
		b := math.Abs(u[i])
		if b > a {
			a = b
		}
		bound += math.Abs(y[i]) * a
	}

	return bound
}
