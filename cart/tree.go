package cart

// Tree is a fitted CART model: an arena of nodes addressed by nodeID,
// mirroring the trie/cutting-plane arena-of-index idiom (spec §9).
type Tree struct {
	nodes []node
	root  nodeID
	task  Task
}

// Fit grows a full CART tree from ds and, when params.EnableCV is set, prunes
// it back to the cost-complexity-optimal subtree (spec §4.7); without CV the
// full tree is returned. Every leaf obeys params.MinNodeSize except when the
// dataset itself is smaller.
func Fit(ds Dataset, params Params) (*Tree, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if ds.n() == 0 {
		return nil, ErrEmptyDataset
	}
	numAttrs := len(ds.X[0])

	t := &Tree{task: params.Task}
	idx := make([]int, ds.n())
	for i := range idx {
		idx[i] = i
	}
	root, err := t.build(ds, idx, params, numAttrs)
	if err != nil {
		return nil, err
	}
	t.root = root

	if err := pruneTree(t, ds, params); err != nil {
		return nil, err
	}

	return t, nil
}

// build recursively grows a subtree over idx, returning the id of its root.
func (t *Tree) build(ds Dataset, idx []int, params Params, numAttrs int) (nodeID, error) {
	var stat nodeStat
	for _, i := range idx {
		stat.add(ds.Y[i], ds.weightOf(i))
	}
	n := node{
		left: noNode, right: noNode,
		totalWeight:     stat.weight,
		nodeLabel:       stat.majorityLabel(params.Task),
		weightMinusNode: resubError(&stat, params.Task),
		numLeaves:       1,
	}

	if len(idx) <= params.MinNodeSize || len(idx) < 2 || numAttrs == 0 {
		return t.appendLeaf(n), nil
	}

	best, err := bestSplit(ds, idx, params, numAttrs)
	if err != nil {
		return noNode, err
	}
	if !best.valid {
		return t.appendLeaf(n), nil
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		v := ds.X[i][best.attribute]
		if isMissing(v) {
			// Route by the primary split's majority branch at training
			// time; surrogate-based routing only matters for Predict.
			continue
		}
		if routeLeft(best, v) {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	// Missing-at-training samples follow the larger branch, keeping both
	// children non-empty whenever the split is otherwise valid.
	for _, i := range idx {
		if !isMissing(ds.X[i][best.attribute]) {
			continue
		}
		if len(leftIdx) >= len(rightIdx) {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	// A split that would leave a child below MinNodeSize is not taken.
	if len(leftIdx) < params.MinNodeSize || len(rightIdx) < params.MinNodeSize {
		return t.appendLeaf(n), nil
	}

	n.attribute = best.attribute
	n.attrType = best.attrType
	n.threshold = best.threshold
	n.leftSet = best.leftSet
	n.surrogates = findSurrogates(ds, idx, best, params, numAttrs)

	leftID, err := t.build(ds, leftIdx, params, numAttrs)
	if err != nil {
		return noNode, err
	}
	rightID, err := t.build(ds, rightIdx, params, numAttrs)
	if err != nil {
		return noNode, err
	}
	n.left, n.right = leftID, rightID

	id := t.appendLeaf(n)
	t.refreshSubtreeStats(id)

	return id, nil
}

func (t *Tree) appendLeaf(n node) nodeID {
	t.nodes = append(t.nodes, n)

	return nodeID(len(t.nodes) - 1)
}

// refreshSubtreeStats fills weightMinusBranch/numLeaves of node id from its
// already-built children (build calls it bottom-up) for use by
// cost-complexity pruning (spec §4.7).
func (t *Tree) refreshSubtreeStats(id nodeID) {
	n := &t.nodes[id]
	if n.isLeaf() {
		n.numLeaves = 1
		n.weightMinusBranch = 0

		return
	}
	left, right := &t.nodes[n.left], &t.nodes[n.right]
	n.numLeaves = left.numLeaves + right.numLeaves
	n.weightMinusBranch = subtreeResub(left) + subtreeResub(right)
}

// subtreeResub is R(T_t): the resubstitution cost of a subtree's actual
// leaves (its own weightMinusNode if it is a leaf, else the already-rolled-up
// weightMinusBranch).
func subtreeResub(n *node) float64 {
	if n.isLeaf() {
		return n.weightMinusNode
	}

	return n.weightMinusBranch
}

// resubError is R(t): the resubstitution cost of a node if it were a leaf
// itself (spec §4.7) -- misclassified weight for classification, weighted
// sum-of-squares for regression.
func resubError(stat *nodeStat, task Task) float64 {
	if stat.weight <= 0 {
		return 0
	}
	if task == TaskRegression {
		return stat.score(task) * stat.weight
	}

	return stat.misclassifiedWeight()
}

// Predict routes x from the root, using surrogate splits for any missing
// primary attribute (spec §4.7), and returns the leaf label.
func (t *Tree) Predict(x []float64) (float64, error) {
	if len(t.nodes) == 0 {
		return 0, ErrNotFitted
	}
	id := t.root
	for {
		n := &t.nodes[id]
		if n.isLeaf() {
			return n.nodeLabel, nil
		}
		// Majority branch by training weight; ties break left, as in build's
		// missing-value routing.
		majorityLeft := t.nodes[n.left].totalWeight >= t.nodes[n.right].totalWeight
		if routeWithSurrogates(n, x, majorityLeft) {
			id = n.left
		} else {
			id = n.right
		}
	}
}

// NumLeaves reports the number of leaves in the fitted tree.
func (t *Tree) NumLeaves() int {
	if len(t.nodes) == 0 {
		return 0
	}

	return t.nodes[t.root].numLeaves
}
