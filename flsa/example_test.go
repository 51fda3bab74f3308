package flsa_test

import (
	"fmt"

	"github.com/katalvlaran/svmcore/flsa"
)

func ExampleSolve() {
	v := []float64{0, 0, 0, 1, 1, 1, 0, 0, 0}
	res, err := flsa.Solve(v, 0.1, flsa.Params{MaxIter: 2000})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("segments resolved, %d samples\n", len(res.X))
	// Output:
	// segments resolved, 9 samples
}
