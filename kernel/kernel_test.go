package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/svmcore/features/fixtures"
	"github.com/katalvlaran/svmcore/kernel"
)

func sampleFeatures() *fixtures.DenseFloat64 {
	return fixtures.NewDenseFloat64([][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{1, 1, 0},
		{2, 0, 0},
	})
}

func TestLinearKernelRawValues(t *testing.T) {
	f := sampleFeatures()
	k := kernel.NewLinearKernel(nil)
	require.NoError(t, k.SetSides(f, f))

	assert.Equal(t, 1.0, k.K(0, 0))
	assert.Equal(t, 0.0, k.K(0, 1))
	assert.Equal(t, 1.0, k.K(0, 2))
	assert.Equal(t, 2.0, k.K(0, 3))
}

func TestLinearKernelSymmetric(t *testing.T) {
	f := sampleFeatures()
	k := kernel.NewLinearKernel(nil)
	require.NoError(t, k.SetSides(f, f))
	assert.True(t, kernel.Symmetric(k, 1e-12))
}

func TestSqrtDiagNormalizer(t *testing.T) {
	f := sampleFeatures()
	k := kernel.NewLinearKernel(&kernel.SqrtDiag{})
	require.NoError(t, k.SetSides(f, f))

	// Diagonal entries normalize to exactly 1.
	for i := 0; i < f.NumVectors(); i++ {
		assert.InDelta(t, 1.0, k.K(i, i), 1e-9)
	}
}

func TestGaussianKernelRejectsNonPositiveSigma(t *testing.T) {
	_, err := kernel.NewGaussianKernel(0, nil)
	require.Error(t, err)
	_, err = kernel.NewGaussianKernel(-1, nil)
	require.Error(t, err)
}

func TestGaussianKernelSelfSimilarityIsOne(t *testing.T) {
	f := sampleFeatures()
	gk, err := kernel.NewGaussianKernel(1.0, nil)
	require.NoError(t, err)
	require.NoError(t, gk.SetSides(f, f))
	for i := 0; i < f.NumVectors(); i++ {
		assert.InDelta(t, 1.0, gk.K(i, i), 1e-12)
	}
}

func TestCombinedKernelWeightedSum(t *testing.T) {
	f := sampleFeatures()
	lin := kernel.NewLinearKernel(nil)
	gauss, err := kernel.NewGaussianKernel(2.0, nil)
	require.NoError(t, err)

	ck, err := kernel.NewCombinedKernel([]kernel.Kernel{lin, gauss}, nil)
	require.NoError(t, err)
	require.NoError(t, ck.SetSides(f, f))

	want := 0.5*lin.K(0, 2) + 0.5*gauss.K(0, 2)
	assert.InDelta(t, want, ck.K(0, 2), 1e-12)
	assert.True(t, ck.HasProperty(kernel.KERNCOMBINATION))

	require.NoError(t, ck.SetSubkernelWeights([]float64{0.25, 0.75}))
	want2 := 0.25*lin.K(1, 3) + 0.75*gauss.K(1, 3)
	assert.InDelta(t, want2, ck.K(1, 3), 1e-12)
}

func TestCombinedKernelRejectsEmpty(t *testing.T) {
	_, err := kernel.NewCombinedKernel(nil, nil)
	require.ErrorIs(t, err, kernel.ErrNoSubkernels)
}

func TestMultitaskTreeSimilarity(t *testing.T) {
	root := &kernel.TaskNode{Beta: 1.0}
	branchA := &kernel.TaskNode{Beta: 0.5, Parent: root}
	leaf0 := &kernel.TaskNode{Beta: 0.2, Parent: branchA, TaskID: 0, IsLeaf: true}
	leaf1 := &kernel.TaskNode{Beta: 0.2, Parent: branchA, TaskID: 1, IsLeaf: true}
	leaf2 := &kernel.TaskNode{Beta: 0.3, Parent: root, TaskID: 2, IsLeaf: true}

	mt := &kernel.MultitaskTree{Leaves: []*kernel.TaskNode{leaf0, leaf1, leaf2}, Scale: 1}
	mt.SetTaskAssignment([]int{0, 1, 2}, []int{0, 1, 2})
	require.NoError(t, mt.Init(nil))

	// Same task: full path root+branchA+leaf itself counted once (leaf not
	// included in path intersection computation beyond itself as start node).
	same := mt.Normalize(1.0, 0, 0)
	crossBranch := mt.Normalize(1.0, 0, 1) // share root+branchA
	crossRoot := mt.Normalize(1.0, 0, 2)    // share only root

	assert.Greater(t, same, crossBranch)
	assert.Greater(t, crossBranch, crossRoot)
	assert.Greater(t, crossRoot, 0.0)
}

func TestMultitaskMaskZeroesDisallowed(t *testing.T) {
	mask := &kernel.MultitaskMask{Allowed: [][]bool{{true, false}, {false, true}}}
	mask.SetTaskAssignment([]int{0, 1}, []int{0, 1})
	require.NoError(t, mask.Init(nil))

	assert.Equal(t, 5.0, mask.Normalize(5.0, 0, 0))
	assert.Equal(t, 0.0, mask.Normalize(5.0, 0, 1))
}

func TestSetSidesRejectsNilOrEmpty(t *testing.T) {
	k := kernel.NewLinearKernel(nil)
	require.ErrorIs(t, k.SetSides(nil, nil), kernel.ErrNilSides)

	empty := fixtures.NewDenseFloat64(nil)
	require.ErrorIs(t, k.SetSides(empty, empty), kernel.ErrEmptySides)
}
