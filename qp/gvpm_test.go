package qp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGVPMStateFixedRuleSplitsThreeAndThree(t *testing.T) {
	g := newGVPMState(Fixed)
	s := []float64{1, 0}
	r := []float64{2, 0}

	// iter%6<3: iterations 0,1,2 use the long (BB1) steplength, 3,4,5 the
	// short one, then the pattern repeats at 6.
	var used []bool
	for iter := 0; iter < 7; iter++ {
		alpha := g.next(s, r, iter)
		used = append(used, g.useBB1)
		assert.Greater(t, alpha, 0.0)
	}

	assert.Equal(t, []bool{true, true, true, false, false, false, true}, used)
}

func TestGVPMStateClampsSteplength(t *testing.T) {
	g := newGVPMState(Adaptive)
	// s.r near zero drives bb1 toward the clamp ceiling.
	s := []float64{1e8, 0}
	r := []float64{1e-12, 0}
	alpha := g.next(s, r, 0)
	assert.LessOrEqual(t, alpha, 1e10)
	assert.GreaterOrEqual(t, alpha, 1e-10)
}
