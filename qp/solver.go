// Package qp implements the inner box-and-equality-constrained QP solver
// that the outer SVM decomposition loop (svm) calls once per working-set
// iteration (spec.md §4.2): a generalized variable projection method (GVPM,
// adaptive or fixed BB-steplength switching) and a Dai-Fletcher nonmonotone
// line search, both built on the same Pardalos-Kovoor box-equality
// projector.
//
// Grounded on the teacher's iterative refinement loops (dtw/dtw.go's
// bounded DP sweep, tsp/branch_bound.go's bounded search with an explicit
// stopping predicate) for the shape of "small, fixed-size numeric loop with
// an explicit, testable termination condition", generalized here to
// continuous optimization.
package qp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/svmcore/internal/randtb"
	"github.com/katalvlaran/svmcore/internal/solverctx"
)

// Solve finds x minimizing the QP in prob subject to its box and equality
// constraints, starting from prob.X (or the origin-adjacent feasible point
// if prob.X is nil). sc supplies the deterministic tie-breaker used by the
// box-equality projector (spec §9 design note: SolverContext replaces a
// global solver-environment singleton).
//
// Errors: ErrInvalidProblem for malformed dimensions, ErrBoxInfeasible if
// the equality target cannot be met within the box, ErrMaxIterations if
// params.MaxVPM is exhausted — in the last case Result still holds the last
// iterate, so callers may choose to proceed with a warning rather
// than treat it as fatal (spec §7: inner-solver non-convergence is a
// recoverable condition for the outer loop, not an abort).
func Solve(sc *solverctx.SolverContext, prob *Problem, params Params) (Result, error) {
	if err := prob.validate(); err != nil {
		return Result{}, err
	}
	n := prob.N
	tb := sc.TieBreaker()
	if params.Seed != 0 {
		tb = randtb.New(params.Seed)
	}

	l := make([]float64, n)
	u := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		u[i] = prob.C
		y[i] = float64(prob.Y[i])
	}

	x := make([]float64, n)
	if prob.X != nil {
		copy(x, prob.X)
	}
	dia1 := onesVec(n)
	x, err := projectBoxEquality(dia1, x, y, l, u, prob.E, tb)
	if err != nil {
		return Result{}, fmt.Errorf("qp.Solve: initial projection: %w", err)
	}

	g := make([]float64, n)
	computeGradient(prob, x, g)

	row := make([]float64, n)
	alpha := initialSteplength(g)
	gvpm := newGVPMState(params.Switch)
	ls := newDFLineSearch(2)

	var lastX, lastG []float64
	tol := prob.tol()
	maxIter := params.maxVPM()

	result := Result{X: x}
	for iter := 0; iter < maxIter; iter++ {
		step := make([]float64, n)
		for i := 0; i < n; i++ {
			step[i] = x[i] - alpha*g[i]
		}
		proj, err := projectBoxEquality(dia1, step, y, l, u, prob.E, tb)
		if err != nil {
			return Result{}, fmt.Errorf("qp.Solve: projection at iter %d: %w", iter, err)
		}

		d := make([]float64, n)
		gDotD := 0.0
		for i := 0; i < n; i++ {
			d[i] = proj[i] - x[i]
			gDotD += g[i] * d[i]
		}

		gap := math.Abs(gDotD)
		result.DualityGap = gap
		result.Iterations = iter
		if gap < tol {
			result.Status = Converged
			result.X = x
			if prob.X != nil {
				copy(prob.X, x)
			}

			return result, nil
		}

		hd := make([]float64, n)
		dDotHd := 0.0
		for i := 0; i < n; i++ {
			hRow(prob, i, row)
			s := 0.0
			for j := 0; j < n; j++ {
				s += row[j] * d[j]
			}
			hd[i] = s
			dDotHd += d[i] * hd[i]
		}

		lambda := 1.0
		if dDotHd > 1e-14 {
			lambda = -gDotD / dDotHd
		}
		if lambda < 0 {
			lambda = 0
		} else if lambda > 1 {
			lambda = 1
		}

		newX := make([]float64, n)
		newG := make([]float64, n)
		for i := 0; i < n; i++ {
			newX[i] = x[i] + lambda*d[i]
			newG[i] = g[i] + lambda*hd[i]
		}

		if params.Algo == DaiFletcher {
			slope := gDotD
			evalObj := func(beta float64) float64 {
				tmp := make([]float64, n)
				for i := 0; i < n; i++ {
					tmp[i] = x[i] + beta*d[i]
				}

				return objective(prob, tmp)
			}
			beta, _ := ls.accept(slope, evalObj)
			for i := 0; i < n; i++ {
				newX[i] = x[i] + beta*d[i]
			}
			computeGradient(prob, newX, newG)
		}

		if lastX != nil {
			s := make([]float64, n)
			r := make([]float64, n)
			for i := 0; i < n; i++ {
				s[i] = newX[i] - lastX[i]
				r[i] = newG[i] - lastG[i]
			}
			alpha = gvpm.next(s, r, iter)
		}
		lastX, lastG = x, g
		x, g = newX, newG
	}

	result.Status = MaxIterReached
	result.X = x
	if prob.X != nil {
		copy(prob.X, x)
	}

	return result, ErrMaxIterations
}

func computeGradient(prob *Problem, x, g []float64) {
	row := make([]float64, prob.N)
	for i := 0; i < prob.N; i++ {
		hRow(prob, i, row)
		s := prob.B[i]
		for j := 0; j < prob.N; j++ {
			s += row[j] * x[j]
		}
		g[i] = s
	}
}

func objective(prob *Problem, x []float64) float64 {
	row := make([]float64, prob.N)
	f := 0.0
	for i := 0; i < prob.N; i++ {
		hRow(prob, i, row)
		s := 0.0
		for j := 0; j < prob.N; j++ {
			s += row[j] * x[j]
		}
		f += 0.5*x[i]*s + prob.B[i]*x[i]
	}

	return f
}

func initialSteplength(g []float64) float64 {
	norm := 0.0
	for _, v := range g {
		if a := math.Abs(v); a > norm {
			norm = a
		}
	}
	if norm < 1e-12 {
		return 1.0
	}

	return 1.0 / norm
}

func onesVec(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}

	return v
}
