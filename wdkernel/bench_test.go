package wdkernel_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/svmcore/wdkernel"
)

func randDNA(n int, rng *rand.Rand) []byte {
	const symbols = "ACGT"
	out := make([]byte, n)
	for i := range out {
		out[i] = symbols[rng.Intn(4)]
	}

	return out
}

func BenchmarkForest_ComputeByTree(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	seq := randDNA(200, rng)
	betas := []float64{5, 4, 3, 2, 1}
	forest, err := wdkernel.NewForest(len(seq), 5, betas, 1, 0)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		forest.Add(randDNA(200, rng), rng.Float64())
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		forest.ComputeByTree(seq)
	}
}
