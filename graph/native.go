package graph

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// native.go implements the default "Shogun native" backend (spec §4.8).
// Float64/Float32/Int32/Int64 cover the arithmetic/Dot/Exp/Sign surface;
// Bool covers the logical ops and is always the Equal output dtype.

type numeric interface {
	~int32 | ~int64 | ~float32 | ~float64
}

func strides(shape Shape) []int {
	s := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shape[i]
	}

	return s
}

// broadcastIndex maps a flat index into outShape to the flat index into a
// tensor of shape inShape (len(inShape) == len(outShape), each dim either
// equal or 1), per row-major strides with zero stride on broadcast dims.
func broadcastIndex(flat int, outShape, inShape Shape, inStrides []int) int {
	rem := flat
	idx := 0
	for d := 0; d < len(outShape); d++ {
		outStride := 1
		for k := d + 1; k < len(outShape); k++ {
			outStride *= outShape[k]
		}
		coord := rem / outStride
		rem -= coord * outStride
		if inShape[d] != 1 {
			idx += coord * inStrides[d]
		}
	}

	return idx
}

func elementwiseBinary[T numeric](node *Node, inputs []*Tensor, op func(a, b T) T) (*Tensor, error) {
	a, err := As[T](inputs[0])
	if err != nil {
		return nil, err
	}
	b, err := As[T](inputs[1])
	if err != nil {
		return nil, err
	}
	outShape, err := broadcastShapes(inputs[0].Shape(), inputs[1].Shape())
	if err != nil {
		return nil, err
	}
	n := outShape.NumElements()
	out := make([]T, n)

	aRank, bRank := padRank(inputs[0].Shape(), len(outShape)), padRank(inputs[1].Shape(), len(outShape))
	aStrides, bStrides := strides(aRank), strides(bRank)
	for i := 0; i < n; i++ {
		ai := broadcastIndex(i, outShape, aRank, aStrides)
		bi := broadcastIndex(i, outShape, bRank, bStrides)
		out[i] = op(a[ai], b[bi])
	}

	return NewOwnedTensor(outShape, node.dtype, out)
}

// padRank left-pads a scalar (rank 0) shape with 1s so every operand shares
// the output's rank, matching broadcastShapes' "scalar broadcasts to any
// rank" rule.
func padRank(s Shape, rank int) Shape {
	if len(s) == rank {
		return s
	}
	out := make(Shape, rank)
	for i := range out {
		out[i] = 1
	}

	return out
}

func registerArithmetic[T numeric](dtype ElemType, zeroDiv func() T) {
	register(BackendNative, OpAdd, dtype, func(n *Node, in []*Tensor) (*Tensor, error) {
		return elementwiseBinary[T](n, in, func(a, b T) T { return a + b })
	})
	register(BackendNative, OpSubtract, dtype, func(n *Node, in []*Tensor) (*Tensor, error) {
		return elementwiseBinary[T](n, in, func(a, b T) T { return a - b })
	})
	register(BackendNative, OpMultiply, dtype, func(n *Node, in []*Tensor) (*Tensor, error) {
		return elementwiseBinary[T](n, in, func(a, b T) T { return a * b })
	})
	register(BackendNative, OpDivide, dtype, func(n *Node, in []*Tensor) (*Tensor, error) {
		return elementwiseBinary[T](n, in, func(a, b T) T {
			if b == 0 {
				return zeroDiv()
			}

			return a / b
		})
	})
	register(BackendNative, OpEqual, dtype, func(n *Node, in []*Tensor) (*Tensor, error) {
		a, err := As[T](in[0])
		if err != nil {
			return nil, err
		}
		b, err := As[T](in[1])
		if err != nil {
			return nil, err
		}
		outShape, err := broadcastShapes(in[0].Shape(), in[1].Shape())
		if err != nil {
			return nil, err
		}
		n := outShape.NumElements()
		out := make([]bool, n)
		aRank, bRank := padRank(in[0].Shape(), len(outShape)), padRank(in[1].Shape(), len(outShape))
		aStrides, bStrides := strides(aRank), strides(bRank)
		for i := 0; i < n; i++ {
			out[i] = a[broadcastIndex(i, outShape, aRank, aStrides)] == b[broadcastIndex(i, outShape, bRank, bStrides)]
		}

		return NewOwnedTensor(outShape, Bool, out)
	})
	register(BackendNative, OpSign, dtype, func(n *Node, in []*Tensor) (*Tensor, error) {
		a, err := As[T](in[0])
		if err != nil {
			return nil, err
		}
		out := make([]T, len(a))
		for i, v := range a {
			switch {
			case v > 0:
				out[i] = 1
			case v < 0:
				out[i] = -1
			default:
				out[i] = 0
			}
		}

		return NewOwnedTensor(in[0].Shape(), n.dtype, out)
	})
	register(BackendNative, OpExp, dtype, func(n *Node, in []*Tensor) (*Tensor, error) {
		a, err := As[T](in[0])
		if err != nil {
			return nil, err
		}
		out := make([]T, len(a))
		for i, v := range a {
			out[i] = T(math.Exp(float64(v)))
		}

		return NewOwnedTensor(in[0].Shape(), n.dtype, out)
	})
	registerReshape[T](dtype)
}

// registerReshape is dtype-agnostic (reshape never touches element values),
// so it is registered for Bool as well as every numeric dtype, unlike the
// arithmetic ops above.
func registerReshape[T any](dtype ElemType) {
	register(BackendNative, OpReshape, dtype, func(n *Node, in []*Tensor) (*Tensor, error) {
		a, err := As[T](in[0])
		if err != nil {
			return nil, err
		}
		target := n.reshapeTarget
		if !target.resolved() {
			resolved, rerr := reshapeShape(in[0].Shape(), resolveDynamicReshape(in[0].Shape(), target))
			if rerr != nil {
				return nil, rerr
			}
			target = resolved
		}

		return NewOwnedTensor(target, n.dtype, append([]T(nil), a...))
	})
}

// resolveDynamicReshape fills a single Dynamic dimension in target from the
// input's total element count, standard reshape(-1) inference.
func resolveDynamicReshape(input, target Shape) Shape {
	if target.resolved() {
		return target
	}
	total := input.NumElements()
	known := 1
	dynIdx := -1
	for i, d := range target {
		if d == Dynamic {
			dynIdx = i

			continue
		}
		known *= d
	}
	if dynIdx == -1 || known == 0 {
		return target
	}
	out := target.clone()
	out[dynIdx] = total / known

	return out
}

func registerDot[T numeric](dtype ElemType) {
	register(BackendNative, OpDot, dtype, func(n *Node, in []*Tensor) (*Tensor, error) {
		a, err := As[T](in[0])
		if err != nil {
			return nil, err
		}
		b, err := As[T](in[1])
		if err != nil {
			return nil, err
		}
		shape, err := dotShape(in[0].Shape(), in[1].Shape())
		if err != nil {
			return nil, err
		}
		switch {
		case in[0].Shape().Rank() == 1 && in[1].Shape().Rank() == 1:
			var sum T
			for i := range a {
				sum += a[i] * b[i]
			}

			return NewOwnedTensor(shape, dtype, []T{sum})
		case in[0].Shape().Rank() == 2 && in[1].Shape().Rank() == 1:
			rows, cols := in[0].Shape()[0], in[0].Shape()[1]
			out := make([]T, rows)
			for r := 0; r < rows; r++ {
				var sum T
				for c := 0; c < cols; c++ {
					sum += a[r*cols+c] * b[c]
				}
				out[r] = sum
			}

			return NewOwnedTensor(shape, dtype, out)
		case in[0].Shape().Rank() == 1 && in[1].Shape().Rank() == 2:
			rows, cols := in[1].Shape()[0], in[1].Shape()[1]
			out := make([]T, cols)
			for c := 0; c < cols; c++ {
				var sum T
				for r := 0; r < rows; r++ {
					sum += a[r] * b[r*cols+c]
				}
				out[c] = sum
			}

			return NewOwnedTensor(shape, dtype, out)
		default:
			aRows, aCols := in[0].Shape()[0], in[0].Shape()[1]
			bCols := in[1].Shape()[1]
			out := make([]T, aRows*bCols)
			for r := 0; r < aRows; r++ {
				for c := 0; c < bCols; c++ {
					var sum T
					for k := 0; k < aCols; k++ {
						sum += a[r*aCols+k] * b[k*bCols+c]
					}
					out[r*bCols+c] = sum
				}
			}

			return NewOwnedTensor(shape, dtype, out)
		}
	})
}

// registerDotFloat64 overrides registerDot's float64 registration for the
// rank-2 cases: matrix·vector and matrix·matrix route through gonum/mat
// rather than hand-rolled loops, vector·vector stays a direct sum (gonum's
// Dense has no vector type worth the conversion overhead there).
func registerDotFloat64() {
	register(BackendNative, OpDot, Float64, func(n *Node, in []*Tensor) (*Tensor, error) {
		a, err := As[float64](in[0])
		if err != nil {
			return nil, err
		}
		b, err := As[float64](in[1])
		if err != nil {
			return nil, err
		}
		shape, err := dotShape(in[0].Shape(), in[1].Shape())
		if err != nil {
			return nil, err
		}

		aRank, bRank := in[0].Shape().Rank(), in[1].Shape().Rank()
		if aRank == 1 && bRank == 1 {
			var sum float64
			for i := range a {
				sum += a[i] * b[i]
			}

			return NewOwnedTensor(shape, Float64, []float64{sum})
		}

		// A rank-1 operand is a row vector when it leads the product
		// (vector·matrix) and a column vector when it trails (matrix·vector).
		aMat := denseAs(a, in[0].Shape(), true)
		bMat := denseAs(b, in[1].Shape(), false)
		var out mat.Dense
		out.Mul(aMat, bMat)

		return NewOwnedTensor(shape, Float64, append([]float64(nil), out.RawMatrix().Data...))
	})
}

func denseAs(data []float64, shape Shape, leading bool) *mat.Dense {
	cp := append([]float64(nil), data...)
	if shape.Rank() == 1 {
		if leading {
			return mat.NewDense(1, len(cp), cp)
		}

		return mat.NewDense(len(cp), 1, cp)
	}

	return mat.NewDense(shape[0], shape[1], cp)
}

func registerLogical(op OpKind, fn func(a, b bool) bool) {
	register(BackendNative, op, Bool, func(n *Node, in []*Tensor) (*Tensor, error) {
		a, err := As[bool](in[0])
		if err != nil {
			return nil, err
		}
		b, err := As[bool](in[1])
		if err != nil {
			return nil, err
		}
		outShape, err := broadcastShapes(in[0].Shape(), in[1].Shape())
		if err != nil {
			return nil, err
		}
		n := outShape.NumElements()
		out := make([]bool, n)
		aRank, bRank := padRank(in[0].Shape(), len(outShape)), padRank(in[1].Shape(), len(outShape))
		aStrides, bStrides := strides(aRank), strides(bRank)
		for i := 0; i < n; i++ {
			out[i] = fn(a[broadcastIndex(i, outShape, aRank, aStrides)], b[broadcastIndex(i, outShape, bRank, bStrides)])
		}

		return NewOwnedTensor(outShape, Bool, out)
	})
}

// registerCastFrom registers one OpCast implementation per source dtype; it
// switches on the node's castTo at call time to reach any supported target,
// so multiple destination types never collide on the same registry key the
// way separate per-(From,To) registrations would.
func registerCastFrom[From numeric](srcType ElemType) {
	register(BackendNative, OpCast, srcType, func(n *Node, in []*Tensor) (*Tensor, error) {
		a, err := As[From](in[0])
		if err != nil {
			return nil, err
		}
		switch n.castTo {
		case Float64:
			return NewOwnedTensor(in[0].Shape(), Float64, convertSlice[From, float64](a))
		case Float32:
			return NewOwnedTensor(in[0].Shape(), Float32, convertSlice[From, float32](a))
		case Int64:
			return NewOwnedTensor(in[0].Shape(), Int64, convertSlice[From, int64](a))
		case Int32:
			return NewOwnedTensor(in[0].Shape(), Int32, convertSlice[From, int32](a))
		default:
			return nil, fmt.Errorf("%w: Cast from %s to %s unsupported", ErrDTypeMismatch, srcType, n.castTo)
		}
	})
}

func convertSlice[From, To numeric](a []From) []To {
	out := make([]To, len(a))
	for i, v := range a {
		out[i] = To(v)
	}

	return out
}

func init() {
	registerArithmetic[float64](Float64, func() float64 { return math.NaN() })
	registerArithmetic[float32](Float32, func() float32 { return float32(math.NaN()) })
	registerArithmetic[int64](Int64, func() int64 { return 0 })
	registerArithmetic[int32](Int32, func() int32 { return 0 })

	registerDotFloat64()
	registerDot[float32](Float32)
	registerDot[int64](Int64)
	registerDot[int32](Int32)

	registerLogical(OpLogicalAnd, func(a, b bool) bool { return a && b })
	registerLogical(OpLogicalXor, func(a, b bool) bool { return a != b })

	register(BackendNative, OpEqual, Bool, func(n *Node, in []*Tensor) (*Tensor, error) {
		a, err := As[bool](in[0])
		if err != nil {
			return nil, err
		}
		b, err := As[bool](in[1])
		if err != nil {
			return nil, err
		}
		outShape, err := broadcastShapes(in[0].Shape(), in[1].Shape())
		if err != nil {
			return nil, err
		}
		nn := outShape.NumElements()
		out := make([]bool, nn)
		aRank, bRank := padRank(in[0].Shape(), len(outShape)), padRank(in[1].Shape(), len(outShape))
		aStrides, bStrides := strides(aRank), strides(bRank)
		for i := 0; i < nn; i++ {
			out[i] = a[broadcastIndex(i, outShape, aRank, aStrides)] == b[broadcastIndex(i, outShape, bRank, bStrides)]
		}

		return NewOwnedTensor(outShape, Bool, out)
	})

	registerReshape[bool](Bool)

	registerCastFrom[float64](Float64)
	registerCastFrom[float32](Float32)
	registerCastFrom[int64](Int64)
	registerCastFrom[int32](Int32)
}
