package cart_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/svmcore/cart"
)

// xorDataset labels each row x0 XOR x1. The {0,0} cell is repeated so the
// first greedy split has strictly positive Gini gain; with every cell equally
// weighted no single-attribute split reduces impurity and the root would
// stay a leaf.
func xorDataset() cart.Dataset {
	return cart.Dataset{
		X: [][]float64{
			{0, 0}, {0, 0}, {0, 0}, {0, 1}, {1, 0}, {1, 1},
		},
		Y: []float64{0, 0, 0, 1, 1, 0},
	}
}

func TestFit_RejectsEmptyDataset(t *testing.T) {
	_, err := cart.Fit(cart.Dataset{}, cart.Params{MinNodeSize: 1})
	require.ErrorIs(t, err, cart.ErrEmptyDataset)
}

func TestFit_RejectsInvalidMinNodeSize(t *testing.T) {
	_, err := cart.Fit(xorDataset(), cart.Params{MinNodeSize: 0})
	require.ErrorIs(t, err, cart.ErrInvalidMinNodeSize)
}

func TestFit_ClassificationSeparatesXOR(t *testing.T) {
	tree, err := cart.Fit(xorDataset(), cart.Params{MinNodeSize: 1, Task: cart.TaskClassification})
	require.NoError(t, err)

	ds := xorDataset()
	for i, x := range ds.X {
		pred, err := tree.Predict(x)
		require.NoError(t, err)
		assert.Equal(t, ds.Y[i], pred, "row %d", i)
	}
}

func TestFit_RootSmallerThanMinNodeSizeIsSingleLeaf(t *testing.T) {
	ds := cart.Dataset{X: [][]float64{{1}, {2}}, Y: []float64{1, 2}}
	tree, err := cart.Fit(ds, cart.Params{MinNodeSize: 10, Task: cart.TaskRegression})
	require.NoError(t, err)
	assert.Equal(t, 1, tree.NumLeaves())
}

func TestFit_RegressionPredictsWeightedMean(t *testing.T) {
	ds := cart.Dataset{
		X: [][]float64{{0}, {0}, {0}, {10}, {10}, {10}},
		Y: []float64{1, 2, 3, 100, 101, 102},
	}
	tree, err := cart.Fit(ds, cart.Params{MinNodeSize: 1, Task: cart.TaskRegression})
	require.NoError(t, err)

	pred, err := tree.Predict([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, pred, 1e-9)

	pred, err = tree.Predict([]float64{10})
	require.NoError(t, err)
	assert.InDelta(t, 101.0, pred, 1e-9)
}

func TestFit_NominalAttributeSplits(t *testing.T) {
	ds := cart.Dataset{
		X: [][]float64{{0}, {1}, {2}, {0}, {1}, {2}},
		Y: []float64{0, 0, 1, 0, 0, 1},
	}
	params := cart.Params{
		MinNodeSize: 1,
		Task:        cart.TaskClassification,
		AttrTypes:   []cart.AttrType{cart.Nominal},
	}
	tree, err := cart.Fit(ds, params)
	require.NoError(t, err)
	for i, x := range ds.X {
		pred, err := tree.Predict(x)
		require.NoError(t, err)
		assert.Equal(t, ds.Y[i], pred, "row %d", i)
	}
}

func TestFit_TooManyNominalLevelsErrors(t *testing.T) {
	x := make([][]float64, 0)
	y := make([]float64, 0)
	for i := 0; i < 30; i++ {
		x = append(x, []float64{float64(i)})
		y = append(y, float64(i % 2))
	}
	params := cart.Params{
		MinNodeSize:      1,
		AttrTypes:        []cart.AttrType{cart.Nominal},
		MaxNominalLevels: 5,
	}
	_, err := cart.Fit(cart.Dataset{X: x, Y: y}, params)
	require.ErrorIs(t, err, cart.ErrTooManyNominalLevels)
}

func TestFit_MissingValueRoutesViaSurrogate(t *testing.T) {
	// attribute 0 perfectly predicts the label; attribute 1 agrees with it
	// on every present sample and stands in whenever attribute 0 is missing.
	ds := cart.Dataset{
		X: [][]float64{
			{0, 0}, {0, 0}, {0, 0}, {0, 0},
			{1, 1}, {1, 1}, {1, 1}, {1, 1},
		},
		Y: []float64{0, 0, 0, 0, 1, 1, 1, 1},
	}
	tree, err := cart.Fit(ds, cart.Params{MinNodeSize: 1, Task: cart.TaskClassification})
	require.NoError(t, err)

	pred, err := tree.Predict([]float64{math.NaN(), 1})
	require.NoError(t, err)
	assert.Equal(t, 1.0, pred)

	pred, err = tree.Predict([]float64{math.NaN(), 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, pred)
}

func TestFit_CostComplexityPruningShrinksTree(t *testing.T) {
	ds := cart.Dataset{
		X: [][]float64{
			{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9},
			{0}, {1}, {2}, {3}, {4}, {5}, {6}, {7}, {8}, {9},
		},
		Y: []float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1},
	}
	full, err := cart.Fit(ds, cart.Params{MinNodeSize: 1, Task: cart.TaskClassification})
	require.NoError(t, err)

	pruned, err := cart.Fit(ds, cart.Params{MinNodeSize: 1, Task: cart.TaskClassification, EnableCV: true, CVFolds: 4})
	require.NoError(t, err)

	assert.LessOrEqual(t, pruned.NumLeaves(), full.NumLeaves())
}

func TestTree_PredictBeforeFitReturnsError(t *testing.T) {
	var tree cart.Tree
	_, err := tree.Predict([]float64{1})
	require.ErrorIs(t, err, cart.ErrNotFitted)
}
