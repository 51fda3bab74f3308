package graph

import "fmt"

// broadcastDim unifies one pair of dimensions: Dynamic matches any size,
// otherwise the dims must agree or one of them must be 1 (spec §4.8
// "broadcast of a and b where Dynamic matches any size").
func broadcastDim(a, b int) (int, error) {
	switch {
	case a == Dynamic && b == Dynamic:
		return Dynamic, nil
	case a == Dynamic:
		return b, nil
	case b == Dynamic:
		return a, nil
	case a == b:
		return a, nil
	case a == 1:
		return b, nil
	case b == 1:
		return a, nil
	default:
		return 0, fmt.Errorf("%w: dims %d and %d", ErrShapeMismatch, a, b)
	}
}

// broadcastShapes implements elementwise binary shape inference: a scalar
// broadcasts to any rank (spec §4.8); otherwise ranks must match and are
// unified dimension by dimension.
func broadcastShapes(a, b Shape) (Shape, error) {
	if a.isScalar() {
		return b.clone(), nil
	}
	if b.isScalar() {
		return a.clone(), nil
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: rank %d vs %d", ErrShapeMismatch, len(a), len(b))
	}
	out := make(Shape, len(a))
	for i := range a {
		d, err := broadcastDim(a[i], b[i])
		if err != nil {
			return nil, err
		}
		out[i] = d
	}

	return out, nil
}

// dotShape implements spec §4.8's Dot rule: vector·vector -> scalar,
// matrix·vector -> vector, vector·matrix -> vector, matrix·matrix -> matrix,
// with compatible inner dimension (Dynamic matches any size).
func dotShape(a, b Shape) (Shape, error) {
	matchInner := func(x, y int) error {
		if x == Dynamic || y == Dynamic || x == y {
			return nil
		}

		return fmt.Errorf("%w: Dot inner dims %d and %d", ErrShapeMismatch, x, y)
	}

	switch {
	case a.Rank() == 1 && b.Rank() == 1:
		if err := matchInner(a[0], b[0]); err != nil {
			return nil, err
		}

		return Shape{}, nil
	case a.Rank() == 2 && b.Rank() == 1:
		if err := matchInner(a[1], b[0]); err != nil {
			return nil, err
		}

		return Shape{a[0]}, nil
	case a.Rank() == 1 && b.Rank() == 2:
		if err := matchInner(a[0], b[0]); err != nil {
			return nil, err
		}

		return Shape{b[1]}, nil
	case a.Rank() == 2 && b.Rank() == 2:
		if err := matchInner(a[1], b[0]); err != nil {
			return nil, err
		}

		return Shape{a[0], b[1]}, nil
	default:
		return nil, fmt.Errorf("%w: Dot undefined for ranks %d and %d", ErrShapeMismatch, a.Rank(), b.Rank())
	}
}

// reshapeShape validates target against input per spec §4.8: when both are
// fully resolved, their element counts must match; a Dynamic dimension on
// either side defers the check to evaluate time.
func reshapeShape(input, target Shape) (Shape, error) {
	if input.resolved() && target.resolved() {
		if input.NumElements() != target.NumElements() {
			return nil, fmt.Errorf("%w: reshape %v -> %v changes element count", ErrShapeMismatch, []int(input), []int(target))
		}
	}

	return target.clone(), nil
}

// resolveAgainstActual reconciles a node's declared (possibly Dynamic)
// shape with an actual concrete tensor shape supplied at evaluate time.
func resolveAgainstActual(declared, actual Shape) (Shape, error) {
	if len(declared) != len(actual) {
		return nil, fmt.Errorf("%w: declared rank %d, got %d", ErrUnresolvedShape, len(declared), len(actual))
	}
	out := make(Shape, len(declared))
	for i := range declared {
		if declared[i] != Dynamic && declared[i] != actual[i] {
			return nil, fmt.Errorf("%w: dim %d declared %d, got %d", ErrUnresolvedShape, i, declared[i], actual[i])
		}
		out[i] = actual[i]
	}

	return out, nil
}
