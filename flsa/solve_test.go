package flsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_ThreeSegments(t *testing.T) {
	v := []float64{0, 0, 0, 1, 1, 1, 0, 0, 0}
	res, err := Solve(v, 0.1, Params{MaxIter: 2000, TolAbs: 1e-8, TolRel: 1e-8})
	require.NoError(t, err)
	require.Len(t, res.X, len(v))

	// Outer segments should be near 0, inner segment near 0.9 (spec §8
	// scenario 5: "inner segment ~= 0.9").
	for _, i := range []int{0, 1, 2, 6, 7, 8} {
		assert.InDelta(t, 0.0, res.X[i], 0.2, "index %d", i)
	}
	for _, i := range []int{3, 4, 5} {
		assert.InDelta(t, 0.9, res.X[i], 0.25, "index %d", i)
	}
}

func TestSolve_RejectsShortInput(t *testing.T) {
	_, err := Solve([]float64{1}, 0.1, Params{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestSolve_RejectsNonPositiveLambda(t *testing.T) {
	_, err := Solve([]float64{1, 2, 3}, 0, Params{})
	assert.ErrorIs(t, err, ErrInvalidLambda)
}

func TestSolve_AllFourRegimes(t *testing.T) {
	v := []float64{0, 0, 1, 1, 0, 0}
	for _, regime := range []TerminationFlag{RestartDualityGap, AbsoluteChange, AbsoluteDualityGap, RelativeDualityGap} {
		res, err := Solve(v, 0.2, Params{Regime: regime, MaxIter: 500, TolAbs: 1e-6, TolRel: 1e-6})
		require.NoError(t, err)
		assert.Len(t, res.X, len(v))
		assert.GreaterOrEqual(t, res.Iterations, 1)
	}
}

func TestApplyAAt_MatchesDenseTridiagonal(t *testing.T) {
	z := []float64{1, 2, 3, 4}
	got := applyAAt(z)
	want := []float64{
		2*1 - 2,
		2*2 - 1 - 3,
		2*3 - 2 - 4,
		2*4 - 3,
	}
	assert.Equal(t, want, got)
}

func TestThomasSolve_MatchesRoseSolve(t *testing.T) {
	d := []float64{1, 2, 3, 4, 5}
	xt, ok := thomasSolve(d)
	require.True(t, ok)
	xr := roseSolve(d)
	for i := range xt {
		assert.InDelta(t, xt[i], xr[i], 1e-6)
	}
}
