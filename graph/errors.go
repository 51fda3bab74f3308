package graph

import "errors"

var (
	// ErrUnknownNode is returned when a NodeID does not belong to the graph
	// it is used against.
	ErrUnknownNode = errors.New("graph: unknown node id")

	// ErrShapeMismatch is a build-time shape inference failure: broadcast
	// incompatibility, Dot inner-dimension mismatch, or Reshape element
	// count mismatch.
	ErrShapeMismatch = errors.New("graph: incompatible shapes")

	// ErrDTypeMismatch is a build-time dtype failure: LogicalAnd/LogicalXor
	// on non-bool operands, or Sign on an unsigned operand.
	ErrDTypeMismatch = errors.New("graph: incompatible element types")

	// ErrOpNotSupported is returned by Build when no implementation is
	// registered for a (backend, op, dtype) combination.
	ErrOpNotSupported = errors.New("graph: operation not supported by backend")

	// ErrInputCountMismatch is returned by Evaluate when the number of
	// supplied tensors does not equal the graph's declared inputs.
	ErrInputCountMismatch = errors.New("graph: input count mismatch")

	// ErrUnresolvedShape is returned at evaluate time when a Dynamic
	// dimension cannot be resolved from the actual input tensors.
	ErrUnresolvedShape = errors.New("graph: dynamic shape could not be resolved")

	// ErrDowncast is returned by As[T] when the tensor's dtype or backing
	// slice does not match the requested static type.
	ErrDowncast = errors.New("graph: tensor downcast mismatch")

	// ErrNilGraph guards against operating on a nil *Graph.
	ErrNilGraph = errors.New("graph: nil graph")
)
