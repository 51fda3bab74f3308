package graph_test

import (
	"testing"

	"github.com/katalvlaran/svmcore/graph"
)

func TestGraph_LogicalAndRejectsNonBoolOperands(t *testing.T) {
	g := graph.NewGraph()
	a := g.Input(graph.Shape{3}, graph.Float64)
	b := g.Input(graph.Shape{3}, graph.Float64)
	if _, err := g.LogicalAnd(a, b); err == nil {
		t.Fatal("expected LogicalAnd to reject non-bool operands at build time")
	}
}

func TestGraph_SignRejectsUnsignedInput(t *testing.T) {
	g := graph.NewGraph()
	a := g.Input(graph.Shape{3}, graph.Uint32)
	if _, err := g.Sign(a); err == nil {
		t.Fatal("expected Sign to reject an unsigned dtype at build time")
	}
}

func TestGraph_ReshapeRejectsIncompatibleElementCount(t *testing.T) {
	g := graph.NewGraph()
	a := g.Input(graph.Shape{2, 3}, graph.Float64)
	if _, err := g.Reshape(a, graph.Shape{4, 2}); err == nil {
		t.Fatal("expected Reshape to refuse an incompatible target shape at build time")
	}
}

func TestGraph_CastThenEvaluateConvertsElements(t *testing.T) {
	g := graph.NewGraph()
	a := g.Input(graph.Shape{3}, graph.Float64)
	out, err := g.Cast(a, graph.Int64)
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if err := g.MarkOutput(out); err != nil {
		t.Fatalf("MarkOutput: %v", err)
	}

	cg, err := graph.Build(g, graph.BackendNative)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ta, err := graph.NewOwnedTensor(graph.Shape{3}, graph.Float64, []float64{1.0, 2.0, 3.0})
	if err != nil {
		t.Fatalf("tensor: %v", err)
	}
	outs, err := cg.Evaluate([]*graph.Tensor{ta})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	got, err := graph.As[int64](outs[0])
	if err != nil {
		t.Fatalf("As[int64]: %v", err)
	}
	want := []int64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %d want %d", i, got[i], want[i])
		}
	}
}

func TestGraph_CastFromSameSourceToDifferentTargetsDoNotCollide(t *testing.T) {
	// float64 -> int64 and float64 -> float32 share a source dtype; both
	// must resolve correctly at Build time rather than one overwriting the
	// other in the backend registry.
	g := graph.NewGraph()
	a := g.Input(graph.Shape{2}, graph.Float64)
	toInt, err := g.Cast(a, graph.Int64)
	if err != nil {
		t.Fatalf("Cast to int64: %v", err)
	}
	toFloat32, err := g.Cast(a, graph.Float32)
	if err != nil {
		t.Fatalf("Cast to float32: %v", err)
	}
	if err := g.MarkOutput(toInt); err != nil {
		t.Fatalf("MarkOutput: %v", err)
	}
	if err := g.MarkOutput(toFloat32); err != nil {
		t.Fatalf("MarkOutput: %v", err)
	}

	cg, err := graph.Build(g, graph.BackendNative)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ta, err := graph.NewOwnedTensor(graph.Shape{2}, graph.Float64, []float64{2.0, 3.0})
	if err != nil {
		t.Fatalf("tensor: %v", err)
	}
	outs, err := cg.Evaluate([]*graph.Tensor{ta})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	ints, err := graph.As[int64](outs[0])
	if err != nil {
		t.Fatalf("As[int64]: %v", err)
	}
	if ints[0] != 2 || ints[1] != 3 {
		t.Fatalf("got %v", ints)
	}
	floats, err := graph.As[float32](outs[1])
	if err != nil {
		t.Fatalf("As[float32]: %v", err)
	}
	if floats[0] != 2 || floats[1] != 3 {
		t.Fatalf("got %v", floats)
	}
}

func TestGraph_CloneIsIndependent(t *testing.T) {
	g := graph.NewGraph()
	a := g.Input(graph.Shape{3}, graph.Float64)
	b := g.Input(graph.Shape{3}, graph.Float64)
	out, err := g.Add(a, b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.MarkOutput(out); err != nil {
		t.Fatalf("MarkOutput: %v", err)
	}

	clone := g.Clone()
	if _, err := clone.Add(a, b); err != nil {
		t.Fatalf("Add on clone: %v", err)
	}
	// The clone gained an extra node; the original graph must be unaffected.
	if _, err := graph.Build(g, graph.BackendNative); err != nil {
		t.Fatalf("original graph still builds: %v", err)
	}
}

func TestTensor_AsRejectsDTypeMismatch(t *testing.T) {
	tn, err := graph.NewOwnedTensor(graph.Shape{2}, graph.Float64, []float64{1, 2})
	if err != nil {
		t.Fatalf("NewOwnedTensor: %v", err)
	}
	if _, err := graph.As[int64](tn); err == nil {
		t.Fatal("expected As[int64] to fail against a float64 tensor")
	}
}

func TestTensor_NewOwnedTensorRejectsShapeMismatch(t *testing.T) {
	if _, err := graph.NewOwnedTensor(graph.Shape{3}, graph.Float64, []float64{1, 2}); err == nil {
		t.Fatal("expected shape/data length mismatch to fail")
	}
}
