package wdkernel_test

import (
	"fmt"

	"github.com/katalvlaran/svmcore/wdkernel"
)

func ExampleForest_ComputeByTree() {
	x1 := []byte("ACGTACGTACGT")
	x2 := []byte("ACGTACGTACGT")
	betas := []float64{3.0 / 6, 2.0 / 6, 1.0 / 6}

	forest, err := wdkernel.NewForest(len(x1), 3, betas, 0, 0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	forest.Add(x1, 1.0)
	score := forest.ComputeByTree(x2)
	fmt.Println(score > 0)
	// Output:
	// true
}
