package graph

import "testing"

func TestBroadcastShapes_ScalarBroadcastsToAnyRank(t *testing.T) {
	out, err := broadcastShapes(Shape{}, Shape{2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.equal(Shape{2, 3, 4}) {
		t.Fatalf("got %v", out)
	}
}

func TestBroadcastShapes_DynamicMatchesAnySize(t *testing.T) {
	out, err := broadcastShapes(Shape{Dynamic, 4}, Shape{7, Dynamic})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.equal(Shape{7, 4}) {
		t.Fatalf("got %v", out)
	}
}

func TestBroadcastShapes_RankMismatchFails(t *testing.T) {
	if _, err := broadcastShapes(Shape{2, 3}, Shape{2, 3, 4}); err == nil {
		t.Fatal("expected rank mismatch error")
	}
}

func TestBroadcastShapes_IncompatibleDimsFail(t *testing.T) {
	if _, err := broadcastShapes(Shape{2, 3}, Shape{2, 4}); err == nil {
		t.Fatal("expected incompatible dims error")
	}
}

func TestDotShape_AllFourRankCombinations(t *testing.T) {
	cases := []struct {
		a, b, want Shape
	}{
		{Shape{3}, Shape{3}, Shape{}},
		{Shape{2, 3}, Shape{3}, Shape{2}},
		{Shape{3}, Shape{3, 4}, Shape{4}},
		{Shape{2, 3}, Shape{3, 4}, Shape{2, 4}},
	}
	for _, c := range cases {
		got, err := dotShape(c.a, c.b)
		if err != nil {
			t.Fatalf("dotShape(%v, %v): %v", c.a, c.b, err)
		}
		if !got.equal(c.want) {
			t.Fatalf("dotShape(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestDotShape_InnerDimMismatchFails(t *testing.T) {
	if _, err := dotShape(Shape{2, 3}, Shape{4, 5}); err == nil {
		t.Fatal("expected inner dim mismatch error")
	}
}

func TestDotShape_DynamicInnerDimSkipsCheck(t *testing.T) {
	got, err := dotShape(Shape{2, Dynamic}, Shape{5, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.equal(Shape{2, 4}) {
		t.Fatalf("got %v", got)
	}
}

func TestReshapeShape_RejectsElementCountChange(t *testing.T) {
	if _, err := reshapeShape(Shape{2, 3}, Shape{4, 2}); err == nil {
		t.Fatal("expected element count mismatch error")
	}
}

func TestReshapeShape_AllowsDeferredDynamicCheck(t *testing.T) {
	out, err := reshapeShape(Shape{2, 3}, Shape{Dynamic, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.equal(Shape{Dynamic, 3}) {
		t.Fatalf("got %v", out)
	}
}

func TestResolveAgainstActual_FillsDynamicDims(t *testing.T) {
	out, err := resolveAgainstActual(Shape{Dynamic, 3}, Shape{5, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.equal(Shape{5, 3}) {
		t.Fatalf("got %v", out)
	}
}

func TestResolveAgainstActual_RejectsDimMismatch(t *testing.T) {
	if _, err := resolveAgainstActual(Shape{2, 3}, Shape{2, 4}); err == nil {
		t.Fatal("expected dim mismatch error")
	}
}

func TestResolveDynamicReshape_InfersSingleMissingDim(t *testing.T) {
	out := resolveDynamicReshape(Shape{2, 6}, Shape{Dynamic, 4})
	if !out.equal(Shape{3, 4}) {
		t.Fatalf("got %v", out)
	}
}
