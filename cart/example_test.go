package cart_test

import (
	"fmt"

	"github.com/katalvlaran/svmcore/cart"
)

func ExampleFit() {
	ds := cart.Dataset{
		X: [][]float64{{0}, {1}, {2}, {8}, {9}, {10}},
		Y: []float64{0, 0, 0, 1, 1, 1},
	}
	tree, err := cart.Fit(ds, cart.Params{MinNodeSize: 1, Task: cart.TaskClassification})
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	pred, err := tree.Predict([]float64{9.5})
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	fmt.Println(pred)
	// Output: 1
}
