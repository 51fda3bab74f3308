package qp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/svmcore/internal/randtb"
)

func TestProjectBoxEqualityFeasiblePointIsFixed(t *testing.T) {
	tb := randtb.New(randtb.DefaultSeed)
	dia := []float64{1, 1}
	y := []float64{1, -1}
	l := []float64{0, 0}
	u := []float64{1, 1}

	// (0.5, 0.5) is already feasible: equality 0.5-0.5=0, box satisfied.
	got, err := projectBoxEquality(dia, []float64{0.5, 0.5}, y, l, u, 0, tb)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got[0], 1e-9)
	assert.InDelta(t, 0.5, got[1], 1e-9)
}

func TestProjectBoxEqualityClampsOutOfBoxPoint(t *testing.T) {
	tb := randtb.New(randtb.DefaultSeed)
	dia := []float64{1, 1}
	y := []float64{1, -1}
	l := []float64{0, 0}
	u := []float64{1, 1}

	got, err := projectBoxEquality(dia, []float64{5, 5}, y, l, u, 0, tb)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got[0], 1e-6)
	assert.InDelta(t, 1.0, got[1], 1e-6)
	assert.InDelta(t, 0, got[0]-got[1], 1e-6)
}

func TestProjectBoxEqualityRejectsInfeasibleTarget(t *testing.T) {
	tb := randtb.New(randtb.DefaultSeed)
	dia := []float64{1, 1}
	y := []float64{1, 1}
	l := []float64{0, 0}
	u := []float64{1, 1}

	_, err := projectBoxEquality(dia, []float64{0, 0}, y, l, u, 10, tb)
	require.ErrorIs(t, err, ErrBoxInfeasible)
}
