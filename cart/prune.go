package cart

import "math"

// pruneTree collapses t to the cost-complexity-optimal subtree (spec §4.7)
// when params.EnableCV is set: it computes the weakest-link alpha sequence
// and uses V-fold cross-validation to pick the alpha whose pruned subtree
// minimizes estimated risk. Without CV it leaves t unpruned.
func pruneTree(t *Tree, ds Dataset, params Params) error {
	if !params.EnableCV {
		// Cost-complexity selection only matters once a target alpha (from
		// CV) is known; without CV, Fit returns the full tree build grew.
		return nil
	}

	alphas := weakestLinkAlphas(t)
	if len(alphas) == 0 {
		return nil
	}

	k := params.cvFolds()
	folds := makeFolds(ds.n(), k)
	risk := make([]float64, len(alphas))
	for f := 0; f < k; f++ {
		trainIdx, testIdx := foldSplit(ds.n(), folds, f)
		trainDS := subsetDataset(ds, trainIdx)
		foldTree, err := Fit(trainDS, noCV(params))
		if err != nil {
			return err
		}
		foldAlphas := weakestLinkAlphas(foldTree)
		for ai, alpha := range alphas {
			collapsed := foldTree.clone()
			collapseToAlpha(&collapsed, nearestAlpha(foldAlphas, alpha))
			risk[ai] += estimateRisk(&collapsed, ds, testIdx, params.Task)
		}
	}

	bestIdx := 0
	for i := 1; i < len(risk); i++ {
		if risk[i] < risk[bestIdx] {
			bestIdx = i
		}
	}
	collapseToAlpha(t, alphas[bestIdx])

	return nil
}

func noCV(p Params) Params {
	p.EnableCV = false

	return p
}

// weakestLinkAlphas computes the sequence of nested subtrees' pruning
// thresholds (spec §4.7 "weakest link"): at each step the internal node
// with the smallest alpha = (R(t) - R(T_t)) / (numLeaves(T_t) - 1) is the
// next one collapsed.
func weakestLinkAlphas(t *Tree) []float64 {
	work := t.clone()
	var alphas []float64
	for {
		id, alpha, ok := weakestLink(&work)
		if !ok {
			break
		}
		alphas = append(alphas, alpha)
		collapseNode(&work, id)
		if work.nodes[work.root].isLeaf() {
			break
		}
	}

	return alphas
}

func weakestLink(t *Tree) (nodeID, float64, bool) {
	best := noNode
	bestAlpha := math.Inf(1)
	var walk func(id nodeID)
	walk = func(id nodeID) {
		n := &t.nodes[id]
		if n.isLeaf() {
			return
		}
		denom := float64(n.numLeaves - 1)
		if denom > 0 {
			alpha := (n.weightMinusNode - n.weightMinusBranch) / denom
			if alpha < bestAlpha {
				bestAlpha = alpha
				best = id
			}
		}
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	if best == noNode {
		return noNode, 0, false
	}

	return best, bestAlpha, true
}

// collapseNode turns an internal node into a leaf, discarding its subtree's
// contribution to ancestor weightMinusBranch sums (recomputed right away by
// recomputeAncestors).
func collapseNode(t *Tree, id nodeID) {
	n := &t.nodes[id]
	n.left, n.right = noNode, noNode
	n.numLeaves = 1
	n.weightMinusBranch = n.weightMinusNode
	n.alpha = 0
	recomputeAncestors(t)
}

// recomputeAncestors refreshes numLeaves/weightMinusBranch bottom-up for
// the whole tree; simple and correct, at the cost of a full pass per
// collapse (the weakest-link sequence has at most numLeaves-1 steps).
func recomputeAncestors(t *Tree) {
	var walk func(id nodeID)
	walk = func(id nodeID) {
		n := &t.nodes[id]
		if n.isLeaf() {
			n.numLeaves = 1

			return
		}
		walk(n.left)
		walk(n.right)
		left, right := &t.nodes[n.left], &t.nodes[n.right]
		n.numLeaves = left.numLeaves + right.numLeaves
		n.weightMinusBranch = subtreeResub(left) + subtreeResub(right)
	}
	walk(t.root)
}

// collapseToAlpha prunes t in place down to the smallest subtree whose
// weakest link exceeds alpha.
func collapseToAlpha(t *Tree, alpha float64) {
	for {
		id, a, ok := weakestLink(t)
		if !ok || a > alpha {
			return
		}
		collapseNode(t, id)
	}
}

func nearestAlpha(alphas []float64, target float64) float64 {
	if len(alphas) == 0 {
		return target
	}
	best := alphas[0]
	for _, a := range alphas {
		if a <= target {
			best = a
		}
	}

	return best
}

func (t *Tree) clone() Tree {
	out := Tree{task: t.task, root: t.root, nodes: make([]node, len(t.nodes))}
	copy(out.nodes, t.nodes)
	for i := range out.nodes {
		out.nodes[i].leftSet = append([]float64(nil), t.nodes[i].leftSet...)
		out.nodes[i].surrogates = append([]surrogate(nil), t.nodes[i].surrogates...)
	}

	return out
}

func makeFolds(n, k int) []int {
	fold := make([]int, n)
	for i := range fold {
		fold[i] = i % k
	}

	return fold
}

func foldSplit(n int, fold []int, f int) (train, test []int) {
	for i := 0; i < n; i++ {
		if fold[i] == f {
			test = append(test, i)
		} else {
			train = append(train, i)
		}
	}

	return train, test
}

func subsetDataset(ds Dataset, idx []int) Dataset {
	out := Dataset{X: make([][]float64, len(idx)), Y: make([]float64, len(idx))}
	if ds.Weights != nil {
		out.Weights = make([]float64, len(idx))
	}
	for i, j := range idx {
		out.X[i] = ds.X[j]
		out.Y[i] = ds.Y[j]
		if ds.Weights != nil {
			out.Weights[i] = ds.Weights[j]
		}
	}

	return out
}

func estimateRisk(t *Tree, ds Dataset, testIdx []int, task Task) float64 {
	var risk float64
	for _, i := range testIdx {
		pred, err := t.Predict(ds.X[i])
		if err != nil {
			continue
		}
		if task == TaskRegression {
			d := pred - ds.Y[i]
			risk += d * d * ds.weightOf(i)
		} else if pred != ds.Y[i] {
			risk += ds.weightOf(i)
		}
	}

	return risk
}
