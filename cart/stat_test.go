package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeStat_GiniOfPureNodeIsZero(t *testing.T) {
	var s nodeStat
	s.add(1, 3)
	assert.InDelta(t, 0.0, s.score(TaskClassification), 1e-12)
}

func TestNodeStat_GiniOfBalancedBinaryNode(t *testing.T) {
	var s nodeStat
	s.add(0, 1)
	s.add(1, 1)
	assert.InDelta(t, 0.5, s.score(TaskClassification), 1e-12)
}

func TestNodeStat_RegressionVarianceMatchesDirectComputation(t *testing.T) {
	var s nodeStat
	vals := []float64{1, 2, 3, 4}
	for _, v := range vals {
		s.add(v, 1)
	}
	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	var want float64
	for _, v := range vals {
		d := v - mean
		want += d * d
	}
	want /= float64(len(vals))
	assert.InDelta(t, want, s.score(TaskRegression), 1e-9)
}

func TestNodeStat_AddRemoveIsInverse(t *testing.T) {
	var s nodeStat
	s.add(1, 2)
	s.add(2, 3)
	before := s.clone()
	s.add(5, 1)
	s.remove(5, 1)
	assert.InDelta(t, before.weight, s.weight, 1e-12)
	assert.InDelta(t, before.sum, s.sum, 1e-12)
}

func TestNodeStat_MajorityLabelPicksHeaviestClass(t *testing.T) {
	var s nodeStat
	s.add(0, 1)
	s.add(1, 5)
	assert.Equal(t, 1.0, s.majorityLabel(TaskClassification))
}
