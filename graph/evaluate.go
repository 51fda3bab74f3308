package graph

import "fmt"

// Evaluate runs the forward pass against one set of input tensors, bound to
// the graph's Input nodes in declaration order (spec §4.8 "Evaluate(graph,
// inputs) -> outputs"). Every node is computed exactly once, in arena
// (insertion) order, which is always a valid topological order since a node
// can only reference inputs appended before it.
func (cg *CompiledGraph) Evaluate(inputs []*Tensor) ([]*Tensor, error) {
	cg.g.mu.RLock()
	defer cg.g.mu.RUnlock()

	if len(inputs) != len(cg.g.inputs) {
		return nil, fmt.Errorf("%w: graph declares %d inputs, got %d", ErrInputCountMismatch, len(cg.g.inputs), len(inputs))
	}

	values := make([]*Tensor, len(cg.g.nodes))
	for i, id := range cg.g.inputs {
		n := &cg.g.nodes[id]
		if _, err := resolveAgainstActual(n.shape, inputs[i].Shape()); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		if inputs[i].DType() != n.dtype {
			return nil, fmt.Errorf("input %d: %w: declared %s, got %s", i, ErrDTypeMismatch, n.dtype, inputs[i].DType())
		}
		values[id] = inputs[i]
	}

	for i, n := range cg.g.nodes {
		if n.op == OpInput {
			continue
		}
		in := make([]*Tensor, len(n.inputs))
		for j, id := range n.inputs {
			if values[id] == nil {
				return nil, fmt.Errorf("%w: node %d evaluated before its input %d", ErrUnknownNode, i, id)
			}
			in[j] = values[id]
		}
		out, err := cg.impls[i](&cg.g.nodes[i], in)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", i, n.op, err)
		}
		values[i] = out
	}

	outputs := make([]*Tensor, len(cg.g.outputs))
	for i, id := range cg.g.outputs {
		outputs[i] = values[id]
	}

	return outputs, nil
}
