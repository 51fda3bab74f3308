package qp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/svmcore/internal/solverctx"
	"github.com/katalvlaran/svmcore/qp"
)

// TestInnerSolver_TinyQP is the literal two-variable end-to-end scenario:
// minimize 1/2 x^T H x + b^T x s.t. y^T x = 0, 0 <= x_i <= 1, with
//
//	H = [[2,-1],[-1,2]], b = [-1,-1], y = [+1,-1].
//
// The unconstrained minimizer of this convex QP is H^-1(-b) = (1,1), which
// already satisfies both the box (it sits exactly on the upper corner) and
// the equality constraint (1-1=0); it is therefore also the constrained
// optimum, with zero active-constraint multipliers. The solver is expected
// to land on it well within the iteration budget.
func TestInnerSolver_TinyQP(t *testing.T) {
	prob := &qp.Problem{
		N: 2,
		H: []float32{2, -1, -1, 2},
		B: []float64{-1, -1},
		C: 1,
		E: 0,
		Y: []int8{1, -1},
	}
	sc := solverctx.New()

	result, err := qp.Solve(sc, prob, qp.Params{})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.X[0], 1e-6)
	assert.InDelta(t, 1.0, result.X[1], 1e-6)
	assert.LessOrEqual(t, result.Iterations, 20)
	assert.Less(t, result.DualityGap, 1e-9)
}

func TestSolveRejectsMismatchedDimensions(t *testing.T) {
	prob := &qp.Problem{N: 2, H: []float32{1, 0, 0, 1}, B: []float64{-1}, Y: []int8{1, -1}, C: 1}
	_, err := qp.Solve(solverctx.New(), prob, qp.Params{})
	require.ErrorIs(t, err, qp.ErrInvalidProblem)
}

func TestSolveWritesBackIntoProblemX(t *testing.T) {
	prob := &qp.Problem{
		N: 2,
		H: []float32{2, 0, 0, 2},
		B: []float64{-2, -2},
		C: 1,
		E: 0,
		Y: []int8{1, -1},
		X: []float64{0, 0},
	}
	_, err := qp.Solve(solverctx.New(), prob, qp.Params{})
	require.NoError(t, err)
	assert.InDelta(t, prob.X[0], prob.X[1], 1e-6)
}

func TestSolveFixedSwitchRuleAlsoConverges(t *testing.T) {
	prob := &qp.Problem{
		N: 2,
		H: []float32{2, -1, -1, 2},
		B: []float64{-1, -1},
		C: 1,
		E: 0,
		Y: []int8{1, -1},
	}
	result, err := qp.Solve(solverctx.New(), prob, qp.Params{Switch: qp.Fixed})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.X[0], 1e-5)
}

func TestSolveDaiFletcherConverges(t *testing.T) {
	prob := &qp.Problem{
		N: 2,
		H: []float32{2, -1, -1, 2},
		B: []float64{-1, -1},
		C: 1,
		E: 0,
		Y: []int8{1, -1},
	}
	result, err := qp.Solve(solverctx.New(), prob, qp.Params{Algo: qp.DaiFletcher})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.X[0], 1e-4)
	assert.InDelta(t, 1.0, result.X[1], 1e-4)
}

func TestSolveMaxIterationsReports(t *testing.T) {
	prob := &qp.Problem{
		N: 2,
		H: []float32{2, -1, -1, 2},
		B: []float64{-1, -1},
		C: 1,
		E: 0,
		Y: []int8{1, -1},
	}
	_, err := qp.Solve(solverctx.New(), prob, qp.Params{MaxVPM: 0})
	// MaxVPM: 0 selects DefaultMaxVPM (15000), so this should still converge;
	// assert no error here and rely on TestInnerSolver_TinyQP for the
	// iteration-budget bound. A separate deliberately-starved budget proves
	// the max-iterations path is reachable.
	require.NoError(t, err)

	_, err = qp.Solve(solverctx.New(), prob, qp.Params{MaxVPM: 1})
	require.ErrorIs(t, err, qp.ErrMaxIterations)
}
