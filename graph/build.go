package graph

import "fmt"

// opFunc computes one node's output tensor from its already-evaluated
// input tensors.
type opFunc func(node *Node, inputs []*Tensor) (*Tensor, error)

type opKey struct {
	backend Backend
	op      OpKind
	dtype   ElemType
}

// registry maps (backend, op, dtype) to an implementation, exactly the
// resolution builder.BuildGraph performs for (name -> Constructor), just
// keyed on a triple instead of a string.
var registry = map[opKey]opFunc{}

func register(backend Backend, op OpKind, dtype ElemType, fn opFunc) {
	registry[opKey{backend, op, dtype}] = fn
}

// CompiledGraph is a Graph with every node's op implementation resolved
// against one backend; Evaluate runs the forward pass.
type CompiledGraph struct {
	g       *Graph
	backend Backend
	impls   []opFunc // parallel to g.nodes, nil for OpInput
}

// Build resolves one op implementation per (backend, op, dtype) across
// every node and fails immediately -- no partial result -- on the first
// unsupported combination (spec §4.8 "missing combinations fail at build
// time"; mirrors builder.BuildGraph's single-pass, no-cleanup-on-error
// orchestration).
func Build(g *Graph, backend Backend) (*CompiledGraph, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	impls := make([]opFunc, len(g.nodes))
	for i, n := range g.nodes {
		if n.op == OpInput {
			continue
		}
		dtype := dispatchDType(g, &n)
		fn, ok := registry[opKey{backend, n.op, dtype}]
		if !ok {
			return nil, fmt.Errorf("%w: backend %q, op %s, dtype %s", ErrOpNotSupported, backend, n.op, dtype)
		}
		impls[i] = fn
	}

	return &CompiledGraph{g: g, backend: backend, impls: impls}, nil
}

// dispatchDType is the dtype an op implementation is registered under. For
// most ops this is the node's own (input-and-output) dtype; Equal and Cast
// instead dispatch on their first operand's dtype, since their output
// dtype (bool for Equal, the cast target for Cast) does not identify which
// implementation can read the input.
func dispatchDType(g *Graph, n *Node) ElemType {
	switch n.op {
	case OpEqual, OpCast:
		return g.nodes[n.inputs[0]].dtype
	default:
		return n.dtype
	}
}
