package graph

import (
	"fmt"
	"sync"
)

// NodeID indexes into Graph's node arena (spec §9 design note: arena + u32
// index instead of pointers/cycles-by-construction, same shape as the
// trie and cutting-plane list).
type NodeID int32

// Node is one operation in the graph (spec §4.8). It plays the role the
// teacher's core.Vertex plays in a general graph: Shape/DType/Op replace
// free-form Metadata, and Inputs (rather than a separate Edge type) record
// the data-flow edges into this node.
type Node struct {
	id     NodeID
	op     OpKind
	shape  Shape
	dtype  ElemType
	inputs []NodeID

	// reshapeTarget is only populated for OpReshape.
	reshapeTarget Shape
	// castTo is only populated for OpCast.
	castTo ElemType
}

func (n *Node) ID() NodeID      { return n.id }
func (n *Node) Op() OpKind      { return n.op }
func (n *Node) Shape() Shape    { return n.shape.clone() }
func (n *Node) DType() ElemType { return n.dtype }

// Graph is an eagerly-typed, not-yet-compiled computation graph under
// construction. Mirrors core.Graph's RWMutex-guarded arena + Clone shape,
// adapted from general vertices/edges to typed tensor nodes.
type Graph struct {
	mu      sync.RWMutex
	nodes   []Node
	inputs  []NodeID
	outputs []NodeID
}

// NewGraph returns an empty graph ready to accept Input nodes and
// operations built on them.
func NewGraph() *Graph {
	return &Graph{}
}

func (g *Graph) node(id NodeID) (*Node, error) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, ErrUnknownNode
	}

	return &g.nodes[id], nil
}

func (g *Graph) append(n Node) NodeID {
	n.id = NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)

	return n.id
}

// Input declares a graph input of the given shape and dtype (spec §4.8
// "Input(shape, dtype)").
func (g *Graph) Input(shape Shape, dtype ElemType) NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.append(Node{op: OpInput, shape: shape.clone(), dtype: dtype})
	g.inputs = append(g.inputs, id)

	return id
}

// MarkOutput declares id as one of the graph's declared outputs, in order.
func (g *Graph) MarkOutput(id NodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.node(id); err != nil {
		return err
	}
	g.outputs = append(g.outputs, id)

	return nil
}

func (g *Graph) binaryElementwise(op OpKind, a, b NodeID) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	na, err := g.node(a)
	if err != nil {
		return 0, err
	}
	nb, err := g.node(b)
	if err != nil {
		return 0, err
	}
	if na.dtype != nb.dtype {
		return 0, fmt.Errorf("%w: %s operand dtypes %s vs %s", ErrDTypeMismatch, op, na.dtype, nb.dtype)
	}
	shape, err := broadcastShapes(na.shape, nb.shape)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return g.append(Node{op: op, shape: shape, dtype: na.dtype, inputs: []NodeID{a, b}}), nil
}

// Add, Subtract, Multiply, Divide implement spec §4.8's elementwise binary
// ops with broadcast shape inference.
func (g *Graph) Add(a, b NodeID) (NodeID, error)      { return g.binaryElementwise(OpAdd, a, b) }
func (g *Graph) Subtract(a, b NodeID) (NodeID, error) { return g.binaryElementwise(OpSubtract, a, b) }
func (g *Graph) Multiply(a, b NodeID) (NodeID, error) { return g.binaryElementwise(OpMultiply, a, b) }
func (g *Graph) Divide(a, b NodeID) (NodeID, error)   { return g.binaryElementwise(OpDivide, a, b) }

// Dot implements spec §4.8's Dot shape rule (vector/matrix combinations).
func (g *Graph) Dot(a, b NodeID) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	na, err := g.node(a)
	if err != nil {
		return 0, err
	}
	nb, err := g.node(b)
	if err != nil {
		return 0, err
	}
	if na.dtype != nb.dtype {
		return 0, fmt.Errorf("%w: Dot operand dtypes %s vs %s", ErrDTypeMismatch, na.dtype, nb.dtype)
	}
	shape, err := dotShape(na.shape, nb.shape)
	if err != nil {
		return 0, err
	}

	return g.append(Node{op: OpDot, shape: shape, dtype: na.dtype, inputs: []NodeID{a, b}}), nil
}

// Equal always outputs bool regardless of input dtype (spec §4.8).
func (g *Graph) Equal(a, b NodeID) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	na, err := g.node(a)
	if err != nil {
		return 0, err
	}
	nb, err := g.node(b)
	if err != nil {
		return 0, err
	}
	if na.dtype != nb.dtype {
		return 0, fmt.Errorf("%w: Equal operand dtypes %s vs %s", ErrDTypeMismatch, na.dtype, nb.dtype)
	}
	shape, err := broadcastShapes(na.shape, nb.shape)
	if err != nil {
		return 0, fmt.Errorf("Equal: %w", err)
	}

	return g.append(Node{op: OpEqual, shape: shape, dtype: Bool, inputs: []NodeID{a, b}}), nil
}

// Cast converts a to dtype `to` (spec §4.8: the only legal way to change
// dtype; implicit narrowing elsewhere is forbidden).
func (g *Graph) Cast(a NodeID, to ElemType) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	na, err := g.node(a)
	if err != nil {
		return 0, err
	}

	return g.append(Node{op: OpCast, shape: na.shape.clone(), dtype: to, inputs: []NodeID{a}, castTo: to}), nil
}

// Exp applies elementwise exponential; shape and dtype are unchanged.
func (g *Graph) Exp(a NodeID) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	na, err := g.node(a)
	if err != nil {
		return 0, err
	}

	return g.append(Node{op: OpExp, shape: na.shape.clone(), dtype: na.dtype, inputs: []NodeID{a}}), nil
}

// Sign refuses unsigned inputs at build time (spec §4.8).
func (g *Graph) Sign(a NodeID) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	na, err := g.node(a)
	if err != nil {
		return 0, err
	}
	if na.dtype.isUnsigned() {
		return 0, fmt.Errorf("%w: Sign refuses unsigned dtype %s", ErrDTypeMismatch, na.dtype)
	}

	return g.append(Node{op: OpSign, shape: na.shape.clone(), dtype: na.dtype, inputs: []NodeID{a}}), nil
}

// Reshape refuses incompatible target shapes at build time when both
// shapes are fully resolved (spec §4.8).
func (g *Graph) Reshape(a NodeID, target Shape) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	na, err := g.node(a)
	if err != nil {
		return 0, err
	}
	shape, err := reshapeShape(na.shape, target)
	if err != nil {
		return 0, err
	}

	return g.append(Node{op: OpReshape, shape: shape, dtype: na.dtype, inputs: []NodeID{a}, reshapeTarget: target.clone()}), nil
}

func (g *Graph) logical(op OpKind, a, b NodeID) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	na, err := g.node(a)
	if err != nil {
		return 0, err
	}
	nb, err := g.node(b)
	if err != nil {
		return 0, err
	}
	if na.dtype != Bool || nb.dtype != Bool {
		return 0, fmt.Errorf("%w: %s requires bool operands, got %s and %s", ErrDTypeMismatch, op, na.dtype, nb.dtype)
	}
	shape, err := broadcastShapes(na.shape, nb.shape)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return g.append(Node{op: op, shape: shape, dtype: Bool, inputs: []NodeID{a, b}}), nil
}

// LogicalAnd and LogicalXor require bool operands (spec §4.8).
func (g *Graph) LogicalAnd(a, b NodeID) (NodeID, error) { return g.logical(OpLogicalAnd, a, b) }
func (g *Graph) LogicalXor(a, b NodeID) (NodeID, error) { return g.logical(OpLogicalXor, a, b) }

// Clone returns a deep copy of the graph, safe to mutate independently
// (mirrors core.Graph.Clone()).
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := &Graph{
		nodes:   make([]Node, len(g.nodes)),
		inputs:  append([]NodeID(nil), g.inputs...),
		outputs: append([]NodeID(nil), g.outputs...),
	}
	copy(out.nodes, g.nodes)
	for i := range out.nodes {
		out.nodes[i].shape = g.nodes[i].shape.clone()
		out.nodes[i].inputs = append([]NodeID(nil), g.nodes[i].inputs...)
		out.nodes[i].reshapeTarget = g.nodes[i].reshapeTarget.clone()
	}

	return out
}
