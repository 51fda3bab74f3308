package qp

import "github.com/katalvlaran/svmcore/internal/randtb"

// ProjectGrouped generalizes the single-equality Pardalos-Kovoor box
// projector to a partition of the variables into independent groups, each
// with its own sum-equality target (spec.md §4.4 "monotonic group-sum
// constraints", exercised by package bundle's P3BMRM master QP where each
// group is one parallel model's simplex). Variables not named by any group
// are left untouched at q's clamped value.
//
// Because the groups are disjoint, the projection decomposes exactly:
// each group is solved as its own single-equality box projection (y=+1 for
// every member, since a plain sum constraint carries no sign), reusing
// projectBoxEquality per group.
func ProjectGrouped(dia, q, l, u []float64, groups [][]int, targets []float64, tb *randtb.TieBreaker) ([]float64, error) {
	if len(groups) != len(targets) {
		return nil, ErrInvalidProblem
	}
	out := make([]float64, len(q))
	copy(out, q)

	for gi, members := range groups {
		n := len(members)
		if n == 0 {
			continue
		}
		gd := make([]float64, n)
		gq := make([]float64, n)
		gy := make([]float64, n)
		gl := make([]float64, n)
		gu := make([]float64, n)
		for k, idx := range members {
			gd[k] = dia[idx]
			gq[k] = q[idx]
			gy[k] = 1
			gl[k] = l[idx]
			gu[k] = u[idx]
		}
		sub, err := projectBoxEquality(gd, gq, gy, gl, gu, targets[gi], tb)
		if err != nil {
			return nil, err
		}
		for k, idx := range members {
			out[idx] = sub[k]
		}
	}

	return out, nil
}
