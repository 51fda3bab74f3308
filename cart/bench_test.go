package cart_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/svmcore/cart"
)

func randomDataset(n, features int, rng *rand.Rand) cart.Dataset {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, features)
		for j := range row {
			row[j] = rng.Float64()
		}
		x[i] = row
		if row[0] > 0.5 {
			y[i] = 1
		}
	}

	return cart.Dataset{X: x, Y: y}
}

func BenchmarkFit(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	ds := randomDataset(500, 10, rng)
	params := cart.Params{MinNodeSize: 5, Task: cart.TaskClassification, Workers: 4}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cart.Fit(ds, params)
	}
}
