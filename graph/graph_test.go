package graph_test

import (
	"testing"

	"github.com/katalvlaran/svmcore/graph"
)

func vec(xs []float64) (graph.Shape, []float64) {
	return graph.Shape{len(xs)}, xs
}

func TestGraph_VectorEqual(t *testing.T) {
	x1 := make([]float64, 10)
	x2 := make([]float64, 10)
	for i := range x1 {
		x1[i] = float64(i)
		x2[i] = float64(i)
	}

	g := graph.NewGraph()
	shape, _ := vec(x1)
	a := g.Input(shape, graph.Float64)
	b := g.Input(shape, graph.Float64)
	out, err := g.Equal(a, b)
	if err != nil {
		t.Fatalf("Equal: %v", err)
	}
	if err := g.MarkOutput(out); err != nil {
		t.Fatalf("MarkOutput: %v", err)
	}

	cg, err := graph.Build(g, graph.BackendNative)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ta, err := graph.NewOwnedTensor(shape, graph.Float64, x1)
	if err != nil {
		t.Fatalf("NewOwnedTensor a: %v", err)
	}
	tb, err := graph.NewOwnedTensor(shape, graph.Float64, x2)
	if err != nil {
		t.Fatalf("NewOwnedTensor b: %v", err)
	}
	outs, err := cg.Evaluate([]*graph.Tensor{ta, tb})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(outs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(outs))
	}
	if outs[0].DType() != graph.Bool {
		t.Fatalf("expected bool output dtype, got %s", outs[0].DType())
	}
	got, err := graph.As[bool](outs[0])
	if err != nil {
		t.Fatalf("As[bool]: %v", err)
	}
	for i, v := range got {
		if !v {
			t.Fatalf("index %d: expected true, got false", i)
		}
	}
}

func TestGraph_ScalarDivideVector(t *testing.T) {
	x2 := []float64{1, 2, 4, 5, 10, 20, 25, 50, 100}
	want := []float64{100, 50, 25, 20, 10, 5, 4, 2, 1}

	g := graph.NewGraph()
	scalar := g.Input(graph.Shape{}, graph.Float64)
	vector := g.Input(graph.Shape{len(x2)}, graph.Float64)
	out, err := g.Divide(scalar, vector)
	if err != nil {
		t.Fatalf("Divide: %v", err)
	}
	if err := g.MarkOutput(out); err != nil {
		t.Fatalf("MarkOutput: %v", err)
	}

	cg, err := graph.Build(g, graph.BackendNative)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ts, err := graph.NewOwnedTensor(graph.Shape{}, graph.Float64, []float64{100})
	if err != nil {
		t.Fatalf("scalar tensor: %v", err)
	}
	tv, err := graph.NewOwnedTensor(graph.Shape{len(x2)}, graph.Float64, x2)
	if err != nil {
		t.Fatalf("vector tensor: %v", err)
	}
	outs, err := cg.Evaluate([]*graph.Tensor{ts, tv})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	got, err := graph.As[float64](outs[0])
	if err != nil {
		t.Fatalf("As[float64]: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestGraph_MatrixDotMatrix(t *testing.T) {
	// B (3x2) . A (2x3) -> 3x3, per the literal scenario's expected output.
	a := []float64{1, 3, 5, 2, 4, 6}
	b := []float64{1, 2, 3, 4, 5, 6}
	want := []float64{5, 11, 17, 11, 25, 39, 17, 39, 61}

	g := graph.NewGraph()
	an := g.Input(graph.Shape{2, 3}, graph.Float64)
	bn := g.Input(graph.Shape{3, 2}, graph.Float64)
	out, err := g.Dot(bn, an)
	if err != nil {
		t.Fatalf("Dot: %v", err)
	}
	if err := g.MarkOutput(out); err != nil {
		t.Fatalf("MarkOutput: %v", err)
	}

	cg, err := graph.Build(g, graph.BackendNative)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ta, err := graph.NewOwnedTensor(graph.Shape{2, 3}, graph.Float64, a)
	if err != nil {
		t.Fatalf("tensor a: %v", err)
	}
	tb, err := graph.NewOwnedTensor(graph.Shape{3, 2}, graph.Float64, b)
	if err != nil {
		t.Fatalf("tensor b: %v", err)
	}
	outs, err := cg.Evaluate([]*graph.Tensor{ta, tb})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := outs[0].Shape(); got.Rank() != 2 || got[0] != 3 || got[1] != 3 {
		t.Fatalf("unexpected output shape %v", got)
	}
	got, err := graph.As[float64](outs[0])
	if err != nil {
		t.Fatalf("As[float64]: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestGraph_BuildFailsOnUnsupportedCombination(t *testing.T) {
	g := graph.NewGraph()
	a := g.Input(graph.Shape{3}, graph.Uint8)
	b := g.Input(graph.Shape{3}, graph.Uint8)
	out, err := g.Add(a, b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.MarkOutput(out); err != nil {
		t.Fatalf("MarkOutput: %v", err)
	}

	if _, err := graph.Build(g, graph.BackendNative); err == nil {
		t.Fatal("expected Build to fail for an unregistered (native, Add, uint8) combination")
	}
}

func TestGraph_EvaluateRejectsInputCountMismatch(t *testing.T) {
	g := graph.NewGraph()
	a := g.Input(graph.Shape{3}, graph.Float64)
	out, err := g.Exp(a)
	if err != nil {
		t.Fatalf("Exp: %v", err)
	}
	if err := g.MarkOutput(out); err != nil {
		t.Fatalf("MarkOutput: %v", err)
	}
	cg, err := graph.Build(g, graph.BackendNative)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := cg.Evaluate(nil); err == nil {
		t.Fatal("expected Evaluate to reject zero inputs against one declared input")
	}
}
