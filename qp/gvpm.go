package qp

import "math"

// gvpmState tracks the two Barzilai-Borwein candidate steplengths and the
// alternation policy driving GVPM's adaptive or fixed switching rule
// (spec §4.2 design note, spec §9 open question: Params.Switch exposes the
// knob rather than hiding it behind a build tag).
type gvpmState struct {
	rule    SwitchRule
	useBB1  bool // which candidate is currently active
	lastBB1 float64
	lastBB2 float64
}

func newGVPMState(rule SwitchRule) *gvpmState {
	return &gvpmState{rule: rule, useBB1: true}
}

// next computes the steplength candidates from consecutive gradient steps
// (s = x_k - x_{k-1}, r = g_k - g_{k-1}) and returns the one selected by the
// switching rule, clamped to [alphaMin, alphaMax]. iter is the outer VPM
// iteration counter driving the Fixed rule's `iter%6<3` split (spec §9 open
// question, original_source/src/classifier/svm/gpm.cpp).
func (g *gvpmState) next(s, r []float64, iter int) float64 {
	sDotS, sDotR, rDotR := 0.0, 0.0, 0.0
	for i := range s {
		sDotS += s[i] * s[i]
		sDotR += s[i] * r[i]
		rDotR += r[i] * r[i]
	}
	const eps = 1e-14
	bb1 := sDotS / math.Max(sDotR, eps) // long steplength
	bb2 := sDotR / math.Max(rDotR, eps) // short steplength
	g.lastBB1, g.lastBB2 = bb1, bb2

	var alpha float64
	switch g.rule {
	case Fixed:
		// gpm.cpp: "if ((iter % 6) < 3)" - three consecutive iterations on
		// the long steplength, then three on the short one, repeating.
		g.useBB1 = (iter % 6) < 3
		if g.useBB1 {
			alpha = bb1
		} else {
			alpha = bb2
		}
	default: // Adaptive
		// Switch to the short steplength whenever it undercuts the long one
		// by more than half; otherwise keep alternating. This tracks GPDT's
		// adaptive rule of preferring BB2 once curvature estimates diverge.
		if bb2 > 0 && bb2 < 0.5*bb1 {
			g.useBB1 = false
		} else {
			g.useBB1 = !g.useBB1
		}
		if g.useBB1 {
			alpha = bb1
		} else {
			alpha = bb2
		}
	}

	const alphaMin, alphaMax = 1e-10, 1e10
	if !(alpha > alphaMin) {
		alpha = alphaMin
	}
	if alpha > alphaMax {
		alpha = alphaMax
	}

	return alpha
}
