package kernel

import "math"

// multitaskBase holds the task assignment shared by every Multitask*
// normalizer: which task each bound-side index belongs to.
type multitaskBase struct {
	taskLHS []int
	taskRHS []int
}

// SetTaskAssignment records which task each left/right example belongs to.
// Must be called before Init (i.e. before SetSides on the owning kernel).
func (m *multitaskBase) SetTaskAssignment(lhs, rhs []int) {
	m.taskLHS = lhs
	m.taskRHS = rhs
}

func (m *multitaskBase) taskOf(side []int, idx int) int {
	if idx < len(side) {
		return side[idx]
	}

	return 0
}

// MultitaskFlat scales k(i,j) by a precomputed MxM task-similarity matrix,
// the simplest multitask variant: same task -> Sim[t][t] (typically 1),
// different tasks -> an externally supplied cross-task similarity.
type MultitaskFlat struct {
	multitaskBase
	Sim [][]float64
}

func (n *MultitaskFlat) Init(Kernel) error { return nil }

func (n *MultitaskFlat) Normalize(v float64, i, j int) float64 {
	tl, tr := n.taskOf(n.taskLHS, i), n.taskOf(n.taskRHS, j)
	if tl >= len(n.Sim) || tr >= len(n.Sim[tl]) {
		return v
	}

	return v * n.Sim[tl][tr]
}
func (n *MultitaskFlat) NormalizeLHS(v float64, _ int) float64 { return v }
func (n *MultitaskFlat) NormalizeRHS(v float64, _ int) float64 { return v }
func (n *MultitaskFlat) Name() string                          { return "MultitaskFlat" }

// MultitaskMkl scales k(i,j) by sqrt(w[taskL] * w[taskR]), mirroring the
// per-task mixing weight a wrapping MKL optimizer would assign (the MKL
// optimizer itself is a non-goal per spec §1; only the normalizer contract
// it would drive is implemented here).
type MultitaskMkl struct {
	multitaskBase
	TaskWeights []float64
}

func (n *MultitaskMkl) Init(Kernel) error { return nil }

func (n *MultitaskMkl) Normalize(v float64, i, j int) float64 {
	tl, tr := n.taskOf(n.taskLHS, i), n.taskOf(n.taskRHS, j)
	if tl >= len(n.TaskWeights) || tr >= len(n.TaskWeights) {
		return v
	}
	wl, wr := n.TaskWeights[tl], n.TaskWeights[tr]
	if wl < 0 {
		wl = 0
	}
	if wr < 0 {
		wr = 0
	}

	return v * math.Sqrt(wl*wr)
}
func (n *MultitaskMkl) NormalizeLHS(v float64, _ int) float64 { return v }
func (n *MultitaskMkl) NormalizeRHS(v float64, _ int) float64 { return v }
func (n *MultitaskMkl) Name() string                          { return "MultitaskMkl" }

// MultitaskMask zeroes out similarity between task pairs not present in
// Allowed, otherwise passes the value through unchanged.
type MultitaskMask struct {
	multitaskBase
	Allowed [][]bool
}

func (n *MultitaskMask) Init(Kernel) error { return nil }

func (n *MultitaskMask) Normalize(v float64, i, j int) float64 {
	tl, tr := n.taskOf(n.taskLHS, i), n.taskOf(n.taskRHS, j)
	if tl >= len(n.Allowed) || tr >= len(n.Allowed[tl]) || !n.Allowed[tl][tr] {
		return 0
	}

	return v
}
func (n *MultitaskMask) NormalizeLHS(v float64, _ int) float64 { return v }
func (n *MultitaskMask) NormalizeRHS(v float64, _ int) float64 { return v }
func (n *MultitaskMask) Name() string                          { return "MultitaskMask" }

// TaskNode is one node of the task taxonomy tree used by MultitaskTree,
// grounded on original_source's MultitaskKernelTreeNormalizer.h CNode: a
// weighted edge (Beta) to its Parent, with leaves identified by TaskID.
type TaskNode struct {
	Beta     float64
	Parent   *TaskNode
	TaskID   int
	IsLeaf   bool
}

// pathToRoot returns the set of ancestor nodes from n up to (and including)
// the root, keyed by node pointer identity.
func (n *TaskNode) pathToRoot() map[*TaskNode]struct{} {
	path := make(map[*TaskNode]struct{})
	for cur := n; cur != nil; cur = cur.Parent {
		path[cur] = struct{}{}
	}

	return path
}

// MultitaskTree scales k(i,j) by the sum of Beta weights along the path
// shared by the two tasks' leaves up to their lowest common ancestor,
// following original_source's compute_node_similarity.
type MultitaskTree struct {
	multitaskBase
	Leaves []*TaskNode // Leaves[taskID] -> leaf node
	Scale  float64

	simCache map[[2]int]float64
}

func (n *MultitaskTree) Init(Kernel) error {
	if n.Scale == 0 {
		n.Scale = 1
	}
	n.simCache = make(map[[2]int]float64)

	return nil
}

// similarity computes (and memoizes) the task-pair similarity by summing
// Beta over the intersection of root paths.
func (n *MultitaskTree) similarity(ta, tb int) float64 {
	key := [2]int{ta, tb}
	if v, ok := n.simCache[key]; ok {
		return v
	}
	if ta < 0 || tb < 0 || ta >= len(n.Leaves) || tb >= len(n.Leaves) {
		return 0
	}
	la, lb := n.Leaves[ta], n.Leaves[tb]
	if la == nil || lb == nil {
		return 0
	}
	pathA := la.pathToRoot()
	var gamma float64
	for cur := lb; cur != nil; cur = cur.Parent {
		if _, ok := pathA[cur]; ok {
			gamma += cur.Beta
		}
	}
	n.simCache[key] = gamma

	return gamma
}

func (n *MultitaskTree) Normalize(v float64, i, j int) float64 {
	tl, tr := n.taskOf(n.taskLHS, i), n.taskOf(n.taskRHS, j)

	return (v / n.Scale) * n.similarity(tl, tr)
}
func (n *MultitaskTree) NormalizeLHS(v float64, _ int) float64 { return v / n.Scale }
func (n *MultitaskTree) NormalizeRHS(v float64, _ int) float64 { return v / n.Scale }
func (n *MultitaskTree) Name() string                          { return "MultitaskTree" }
