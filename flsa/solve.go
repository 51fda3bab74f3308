package flsa

import "math"

// Solve finds the fused-lasso proximal point of v at regularization weight
// lambda (spec §4.6). See the package doc for the primal/dual formulation.
func Solve(v []float64, lambda float64, params Params) (Result, error) {
	n := len(v)
	if n < 2 {
		return Result{}, ErrEmptyInput
	}
	if lambda <= 0 {
		return Result{}, ErrInvalidLambda
	}
	p := params.normalize()
	m := n - 1 // dual dimension

	av := make([]float64, m)
	for i := 0; i < m; i++ {
		av[i] = v[i+1] - v[i]
	}

	z := make([]float64, m)
	y := make([]float64, m)
	t := 1.0
	const step = 0.25 // 1 / Lipschitz(A A^T) = 1/4, spec §4.6

	var lastActive []bool
	result := Result{Flag: p.Regime}

	for iter := 0; iter < p.MaxIter; iter++ {
		grad := applyAAt(y)
		for i := range grad {
			grad[i] -= av[i]
		}
		zNew := make([]float64, m)
		for i := 0; i < m; i++ {
			zNew[i] = clip(y[i]-step*grad[i], -lambda, lambda)
		}

		tNext := (1 + math.Sqrt(1+4*t*t)) / 2
		beta := (t - 1) / tNext
		yNext := make([]float64, m)
		change := 0.0
		for i := 0; i < m; i++ {
			yNext[i] = zNew[i] + beta*(zNew[i]-z[i])
			d := zNew[i] - z[i]
			change += d * d
		}
		change = math.Sqrt(change)

		z, y, t = zNew, yNext, tNext

		restart := p.Regime == RestartDualityGap && (iter+1)%p.RestartEvery == 0
		active := activeSet(z, lambda)
		if restart {
			z = snapToFreeBlocks(z, av, active, p.Tridiag)
			y = append([]float64(nil), z...)
			t = 1
		}

		x := primalFromDual(v, z)
		gap := dualityGap(v, x, z, av, lambda)
		result.X = x
		result.DualGap = gap
		result.Iterations = iter + 1
		result.ActiveSetSize = countActive(active)

		switch p.Regime {
		case AbsoluteChange:
			if change < p.TolAbs {
				result.Flag = AbsoluteChange
				return result, nil
			}
		case AbsoluteDualityGap:
			if gap < p.TolAbs {
				result.Flag = AbsoluteDualityGap
				return result, nil
			}
		case RelativeDualityGap:
			if gap < p.TolRel*math.Max(math.Abs(primalObjective(v, x, lambda)), 1e-12) {
				result.Flag = RelativeDualityGap
				return result, nil
			}
		default: // RestartDualityGap
			if restart && (gap < p.TolAbs || gap < p.TolRel*math.Max(math.Abs(primalObjective(v, x, lambda)), 1e-12)) {
				result.Flag = RestartDualityGap
				return result, nil
			}
		}
		lastActive = active
	}
	_ = lastActive

	return result, nil
}

// applyAAt multiplies the constant tridiagonal(-1,2,-1) matrix A A^T by z.
func applyAAt(z []float64) []float64 {
	m := len(z)
	out := make([]float64, m)
	for i := 0; i < m; i++ {
		v := 2 * z[i]
		if i > 0 {
			v -= z[i-1]
		}
		if i < m-1 {
			v -= z[i+1]
		}
		out[i] = v
	}

	return out
}

// applyAT computes A^T z (length n = len(z)+1), the adjoint of the
// first-difference operator.
func applyAT(z []float64) []float64 {
	m := len(z)
	n := m + 1
	x := make([]float64, n)
	x[0] = -z[0]
	for i := 1; i < m; i++ {
		x[i] = z[i-1] - z[i]
	}
	x[n-1] = z[m-1]

	return x
}

// primalFromDual recovers the primal x = v - A^T z.
func primalFromDual(v, z []float64) []float64 {
	at := applyAT(z)
	x := make([]float64, len(v))
	for i := range x {
		x[i] = v[i] - at[i]
	}

	return x
}

func activeSet(z []float64, lambda float64) []bool {
	const eps = 1e-9
	active := make([]bool, len(z))
	for i, zi := range z {
		active[i] = lambda-math.Abs(zi) < eps
	}

	return active
}

func countActive(active []bool) int {
	n := 0
	for _, a := range active {
		if a {
			n++
		}
	}

	return n
}

// snapToFreeBlocks recovers the support-set implied by active, then
// re-solves each maximal run of free dual coordinates exactly via the
// tridiagonal factorization (spec §4.6 restart step), leaving pinned
// (active) coordinates at +-lambda.
func snapToFreeBlocks(z, av []float64, active []bool, method TridiagMethod) []float64 {
	lambda := 0.0
	for i, a := range active {
		if a {
			if z[i] > 0 {
				lambda = z[i]
			} else {
				lambda = -z[i]
			}
		}
	}
	out := append([]float64(nil), z...)
	for _, blk := range freeBlocks(active) {
		rhs := append([]float64(nil), av[blk.lo:blk.hi]...)
		left, right := 0.0, 0.0
		if blk.lo > 0 {
			left = z[blk.lo-1]
		}
		if blk.hi < len(z) {
			right = z[blk.hi]
		}
		sol := solveFreeBlock(rhs, left, right, method)
		for k, v := range sol {
			if v > lambda {
				v = lambda
			} else if v < -lambda && lambda > 0 {
				v = -lambda
			}
			out[blk.lo+k] = v
		}
	}

	return out
}

func primalObjective(v, x []float64, lambda float64) float64 {
	obj := 0.0
	for i := range v {
		d := x[i] - v[i]
		obj += 0.5 * d * d
	}
	for i := 0; i+1 < len(x); i++ {
		obj += lambda * math.Abs(x[i+1]-x[i])
	}

	return obj
}

func dualityGap(v, x, z, av []float64, lambda float64) float64 {
	p := primalObjective(v, x, lambda)
	aatz := applyAAt(z)
	dualF := 0.0
	for i := range z {
		dualF += 0.5*z[i]*aatz[i] - z[i]*av[i]
	}
	d := -dualF
	gap := p - d
	if gap < 0 {
		gap = 0
	}

	return gap
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
