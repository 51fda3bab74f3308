package wdkernel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/svmcore/features"
	"github.com/katalvlaran/svmcore/features/fixtures"
	"github.com/katalvlaran/svmcore/wdkernel"
)

func betas3() []float64 { return []float64{3.0 / 6, 2.0 / 6, 1.0 / 6} }

func TestKernel_SetSides_RejectsNonDNA(t *testing.T) {
	k, err := wdkernel.New(wdkernel.Params{Degree: 3, Betas: betas3()}, nil)
	require.NoError(t, err)

	side := fixtures.NewDenseFloat64([][]float64{{1, 2}})
	err = k.SetSides(side, side)
	assert.ErrorIs(t, err, wdkernel.ErrIncompatibleAlphabet)
}

func TestKernel_K_SelfMatchIsPositive(t *testing.T) {
	k, err := wdkernel.New(wdkernel.Params{Degree: 3, Betas: betas3()}, nil)
	require.NoError(t, err)

	seqs := fixtures.NewStringFeatures([][]byte{[]byte("ACGTACGTACGTACGTACGT")}, features.AlphabetDNA)
	require.NoError(t, k.SetSides(seqs, seqs))
	assert.Greater(t, k.K(0, 0), 0.0)
}

func TestForest_LinearAdditivity(t *testing.T) {
	// Spec §8 scenario 6: build a trie from two examples, degree 3,
	// weights [3,2,1]/6; compute_by_tree(x3) equals
	// alpha_1*K(x1,x3) + alpha_2*K(x2,x3) exactly (no normalizer).
	x1 := []byte("ACGTACGTACGTACGTACGT")
	x2 := []byte("TTTTAAAACCCCGGGGTTTT")
	x3 := []byte("ACGTTTTTACGTAAAACCCC")
	betas := betas3()

	forest, err := wdkernel.NewForest(len(x1), 3, betas, 0, 0)
	require.NoError(t, err)

	a1, a2 := 0.7, -0.4
	forest.Add(x1, a1)
	forest.Add(x2, a2)

	got := forest.ComputeByTree(x3)

	k, err := wdkernel.New(wdkernel.Params{Degree: 3, Betas: betas}, nil)
	require.NoError(t, err)
	seqs := fixtures.NewStringFeatures([][]byte{x1, x2, x3}, features.AlphabetDNA)
	require.NoError(t, k.SetSides(seqs, seqs))

	want := a1*k.K(0, 2) + a2*k.K(1, 2)
	assert.InDelta(t, want, got, 1e-9)
}

func TestForest_WithShifts_LinearAdditivity(t *testing.T) {
	x1 := []byte("ACGTACGTACGT")
	x2 := []byte("ACGTACGTACGT")
	betas := betas3()

	forest, err := wdkernel.NewForest(len(x1), 3, betas, 2, 0)
	require.NoError(t, err)
	forest.Add(x1, 1.0)

	got := forest.ComputeByTree(x2)
	assert.Greater(t, got, 0.0)

	k, err := wdkernel.New(wdkernel.Params{Degree: 3, Betas: betas, MaxShift: 2}, nil)
	require.NoError(t, err)
	seqs := fixtures.NewStringFeatures([][]byte{x1, x2}, features.AlphabetDNA)
	require.NoError(t, k.SetSides(seqs, seqs))
	assert.InDelta(t, k.K(0, 1), got, 1e-9)
}

func TestBatchEvaluate_MatchesSequentialComputeByTree(t *testing.T) {
	x1 := []byte("ACGTACGTACGT")
	betas := betas3()
	forest, err := wdkernel.NewForest(len(x1), 3, betas, 0, 0)
	require.NoError(t, err)
	forest.Add(x1, 1.0)

	seqs := [][]byte{x1, x1, x1}
	got, err := wdkernel.BatchEvaluate(context.Background(), forest, seqs, 2)
	require.NoError(t, err)
	want := forest.ComputeByTree(x1)
	for _, v := range got {
		assert.InDelta(t, want, v, 1e-12)
	}
}

func TestExtractConsensus_ReturnsFullLengthSequence(t *testing.T) {
	x1 := []byte("ACGTACGT")
	betas := betas3()
	forest, err := wdkernel.NewForest(len(x1), 3, betas, 0, 0)
	require.NoError(t, err)
	forest.Add(x1, 1.0)

	out := wdkernel.ExtractConsensus(forest)
	assert.Len(t, out, len(x1))
}

func TestComputePOIM_DegreeOneMatchesDirectWeights(t *testing.T) {
	x1 := []byte("ACGTACGT")
	betas := betas3()
	forest, err := wdkernel.NewForest(len(x1), 3, betas, 0, 0)
	require.NoError(t, err)
	forest.Add(x1, 1.0)

	res, err := wdkernel.ComputePOIM(forest, [4]float64{0.25, 0.25, 0.25, 0.25}, 2, wdkernel.POIMDebugOff)
	require.NoError(t, err)
	assert.Equal(t, 2, res.MaxDegree)
	assert.Equal(t, len(x1), res.Positions)
	assert.Len(t, res.C, 2)
	// Degree 1 at position p holds alpha*beta_1 for the symbol x1[p], which
	// is symbol p%4 in "ACGTACGT".
	for p := range x1 {
		assert.InDelta(t, betas[0], res.C[0][p*4+p%4], 1e-12)
	}
}
