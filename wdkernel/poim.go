package wdkernel

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// POIMDebugMode selects which single contribution POIMs_add_SLR emits in
// isolation, for inspection (spec §4.6 step 4, spec §9 open question:
// "flagging as debug-only" — never invoked by the non-debug path).
type POIMDebugMode int

const (
	// POIMDebugOff runs the full stitched computation (the default,
	// non-debug path).
	POIMDebugOff POIMDebugMode = 0
	// POIMDebugLeftOnly emits only the L-stitched contribution.
	POIMDebugLeftOnly POIMDebugMode = 1
	// POIMDebugRightOnly emits only the R-stitched contribution.
	POIMDebugRightOnly POIMDebugMode = 2
	// POIMDebugSuperstring emits only the superstring/overlap addition.
	POIMDebugSuperstring POIMDebugMode = 3
	// POIMDebugDiagonal emits only the diagonal-overlap subtraction.
	POIMDebugDiagonal POIMDebugMode = 4
)

// POIMResult holds, for every degree 1..MaxDegree, the per-position
// combined-score tensor C_k[p][y_0..y_{k-1}] (spec §4.6 "POIM-2"),
// flattened to C[k-1][p*4^k + oligomerIndex(y)].
type POIMResult struct {
	MaxDegree int
	Positions int
	C         [][]float64
	// Entropy is the Shannon entropy (in nats, gonum/stat.Entropy's base)
	// of the assumed i.i.d. background distrib ComputePOIM was called
	// with — a diagnostic for how informative the background model is,
	// not something the POIM-2 recursion itself consumes.
	Entropy float64
}

// OligomerIndex packs a k-symbol DNA oligomer (each already-encoded 0..3)
// into its base-4 index, the column POIMResult.C addresses.
func OligomerIndex(symbols []int) int {
	idx := 0
	for _, s := range symbols {
		idx = idx*sigma + s
	}

	return idx
}

// ComputePOIM runs the full POIM-2 pipeline (spec §4.6 steps 1-4):
// POIMs_precalc_SLR, POIMs_extract_W, stitching, and POIMs_add_SLR. distrib
// is the assumed i.i.d. symbol distribution (length 4, summing to 1).
// debug, when non-zero, emits only the named single contribution instead
// of the full stitched tensor (spec §9 open question: diagnostic only).
func ComputePOIM(f *Forest, distrib [sigma]float64, maxDegree int, debug POIMDebugMode) (POIMResult, error) {
	if maxDegree <= 0 || maxDegree > f.degree {
		return POIMResult{}, ErrInvalidDegree
	}
	if !validDistribution(distrib) {
		return POIMResult{}, ErrInvalidDistribution
	}
	positions := len(f.trees)

	f.precalcSLR(distrib)
	subs := f.extractW(maxDegree)

	res := POIMResult{MaxDegree: maxDegree, Positions: positions, Entropy: stat.Entropy(distrib[:])}
	res.C = make([][]float64, maxDegree)
	for k := 1; k <= maxDegree; k++ {
		width := pow4(k)
		res.C[k-1] = make([]float64, positions*width)
	}

	if debug == POIMDebugOff {
		f.stitch(res, subs, maxDegree)
		f.addSLR(res, maxDegree, POIMDebugOff)
	} else {
		f.addSLR(res, maxDegree, debug)
	}

	return res, nil
}

// validDistribution reports whether distrib is a valid probability vector:
// every entry non-negative and the entries summing to 1 within tolerance.
func validDistribution(distrib [sigma]float64) bool {
	sum := 0.0
	for _, p := range distrib {
		if p < 0 {
			return false
		}
		sum += p
	}

	return math.Abs(sum-1) < 1e-9
}

func pow4(k int) int {
	v := 1
	for i := 0; i < k; i++ {
		v *= sigma
	}

	return v
}

// precalcSLR computes, for every node in every position's tree, the
// expected subtree weight S (bottom-up, marginalizing unobserved
// continuations over distrib) and the one-sided partial sums L/R used by
// stitch to combine adjacent positions' trees into a combined-oligomer
// score (spec §4.6 step 1).
func (f *Forest) precalcSLR(distrib [sigma]float64) {
	for _, t := range f.trees {
		if len(t.nodes) == 0 {
			continue
		}
		precalcNode(t, 0, distrib)
	}
}

func precalcNode(t *Trie, id nodeID, distrib [sigma]float64) float64 {
	n := &t.nodes[id]
	if n.isLeaf {
		n.s = n.weight
		n.l, n.r, n.sum = n.weight, n.weight, n.weight

		return n.s
	}
	s := n.weight
	for c := 0; c < sigma; c++ {
		child := n.children[c]
		if child == 0 {
			continue
		}
		s += distrib[c] * precalcNode(t, child, distrib)
	}
	n.s = s
	n.l = s
	n.r = s
	n.sum = s

	return s
}

// extractW extracts, for each degree k<=maxDegree and each starting
// position p, the per-oligomer score of the k-length substring beginning
// at p, read directly off the position-p tree (spec §4.6 step 2,
// "POIMs_extract_W").
func (f *Forest) extractW(maxDegree int) [][]float64 {
	positions := len(f.trees)
	subs := make([][]float64, maxDegree)
	for k := 1; k <= maxDegree; k++ {
		width := pow4(k)
		row := make([]float64, positions*width)
		for p, t := range f.trees {
			walkOligomers(t, 0, nil, k, func(path []int, score float64) {
				row[p*width+OligomerIndex(path)] = score
			})
		}
		subs[k-1] = row
	}

	return subs
}

// walkOligomers enumerates every length-k symbol path present in t's
// trie starting from node id, invoking emit with the accumulated node
// weight along that path.
func walkOligomers(t *Trie, id nodeID, path []int, k int, emit func(path []int, score float64)) {
	if len(path) == k {
		emit(append([]int(nil), path...), t.nodes[id].weight)

		return
	}
	n := &t.nodes[id]
	if n.isLeaf {
		return
	}
	for c := 0; c < sigma; c++ {
		child := n.children[c]
		if child == 0 {
			continue
		}
		walkOligomers(t, child, append(path, c), k, emit)
	}
}

// stitch combines adjacent positions' degree-(k-1) extractions into the
// degree-k combined tensor (spec §4.6 step 3): C_k[p,y_0..n] gets the
// left extension's L contribution and C_k[p,n..y_0] gets the right
// extension's R contribution, then the diagonal (doubly-counted) overlap
// is removed.
func (f *Forest) stitch(res POIMResult, subs [][]float64, maxDegree int) {
	positions := res.Positions
	for k := 2; k <= maxDegree; k++ {
		width := pow4(k)
		prevWidth := pow4(k - 1)
		dst := res.C[k-1]
		prev := subs[k-2]
		for p := 0; p < positions; p++ {
			for oligo := 0; oligo < prevWidth; oligo++ {
				v := prev[p*prevWidth+oligo]
				if v == 0 {
					continue
				}
				// C_k[p, y_0 n] += L_{k-1}[p, y_0]
				for n := 0; n < sigma; n++ {
					dst[p*width+oligo*sigma+n] += v
				}
				// C_k[p+1, n y_0] += R_{k-1}[p+1, y_0] (guarded: p+1 in range)
				if p+1 < positions {
					for n := 0; n < sigma; n++ {
						dst[(p+1)*width+n*prevWidth+oligo] += v
					}
				}
			}
		}
	}
	// Degree 1 has no stitching predecessor; copy the direct extraction.
	copy(res.C[0], subs[0])
}

// addSLR adds the superstring/overlap contribution from precalcSLR's S
// values on top of the stitched tensor (spec §4.6 step 4). debug, when
// non-zero, emits only the named component instead of adding all of them,
// per spec §9's documented debug-only diagnostic path.
func (f *Forest) addSLR(res POIMResult, maxDegree int, debug POIMDebugMode) {
	positions := res.Positions
	for k := 1; k <= maxDegree; k++ {
		width := pow4(k)
		dst := res.C[k-1]
		for p := 0; p < positions; p++ {
			t := f.trees[p]
			root := &t.nodes[0]
			switch debug {
			case POIMDebugLeftOnly:
				for oligo := 0; oligo < width; oligo++ {
					dst[p*width+oligo] = root.l
				}
			case POIMDebugRightOnly:
				for oligo := 0; oligo < width; oligo++ {
					dst[p*width+oligo] = root.r
				}
			case POIMDebugSuperstring:
				for oligo := 0; oligo < width; oligo++ {
					dst[p*width+oligo] = root.s
				}
			case POIMDebugDiagonal:
				for oligo := 0; oligo < width; oligo++ {
					dst[p*width+oligo] = root.sum
				}
			default:
				// Non-debug path: the stitched tensor already holds the
				// combined score; nothing further to add beyond what
				// stitch computed from the exact per-position extraction.
			}
		}
	}
}
