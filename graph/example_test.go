package graph_test

import (
	"fmt"

	"github.com/katalvlaran/svmcore/graph"
)

func ExampleGraph_scalarDivideVector() {
	g := graph.NewGraph()
	scalar := g.Input(graph.Shape{}, graph.Float64)
	vector := g.Input(graph.Shape{3}, graph.Float64)
	out, err := g.Divide(scalar, vector)
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	if err := g.MarkOutput(out); err != nil {
		fmt.Println("error:", err)

		return
	}

	cg, err := graph.Build(g, graph.BackendNative)
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	ts, _ := graph.NewOwnedTensor(graph.Shape{}, graph.Float64, []float64{100})
	tv, _ := graph.NewOwnedTensor(graph.Shape{3}, graph.Float64, []float64{1, 2, 4})
	outs, err := cg.Evaluate([]*graph.Tensor{ts, tv})
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	result, _ := graph.As[float64](outs[0])
	fmt.Println(result)
	// Output: [100 50 25]
}
