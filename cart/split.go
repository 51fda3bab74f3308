package cart

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// batchScore computes the parent bucket's impurity in one non-incremental
// pass over the full label/weight arrays, before the threshold sweep below
// switches to nodeStat's O(1) running add/remove (spec §4.7 "sort samples,
// sweep threshold" — the parent score itself is only ever needed once per
// attribute, so it is not on that O(1) hot path).
//
// For regression this is exactly gonum/stat's weighted population variance,
// the same quantity nodeStat.score reports for the children. For
// classification it stays hand-rolled: gonum/stat has no Gini-impurity
// helper (stat.Entropy computes Shannon entropy, a different quantity), so
// there is no library call to make here without changing the scored
// quantity spec §4.7 names.
func batchScore(task Task, labels, weights []float64) float64 {
	if task == TaskRegression {
		return stat.PopVariance(labels, weights)
	}

	counts := make(map[float64]float64, len(labels))
	var total float64
	for i, l := range labels {
		counts[l] += weights[i]
		total += weights[i]
	}
	if total <= 0 {
		return 0
	}
	gini := 1.0
	for _, w := range counts {
		p := w / total
		gini -= p * p
	}

	return gini
}

// candidateSplit is the best split found for one attribute.
type candidateSplit struct {
	attribute int
	attrType  AttrType
	threshold float64
	leftSet   []float64
	gain      float64
	valid     bool
}

// labeledWeight is one sample's label and weight, attribute value stripped
// once it has been used to sort or bucket the sample.
type labeledWeight struct {
	label, weight float64
}

// bestSplit searches every attribute in parallel (spec §5 "embarrassingly
// parallel over features") and returns the highest-gain candidate, or
// valid=false if no attribute yields a strictly positive gain.
func bestSplit(ds Dataset, idx []int, params Params, numAttrs int) (candidateSplit, error) {
	results := make([]candidateSplit, numAttrs)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(params.workers())
	for a := 0; a < numAttrs; a++ {
		a := a
		g.Go(func() error {
			at := Continuous
			if params.AttrTypes != nil && a < len(params.AttrTypes) {
				at = params.AttrTypes[a]
			}
			var cs candidateSplit
			var err error
			if at == Nominal {
				cs, err = bestNominalSplit(ds, idx, a, params)
			} else {
				cs = bestContinuousSplit(ds, idx, a, params)
			}
			if err != nil {
				return err
			}
			results[a] = cs

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return candidateSplit{}, err
	}

	best := candidateSplit{}
	for _, cs := range results {
		if cs.valid && cs.gain > best.gain {
			best = cs
		}
	}

	return best, nil
}

// splitGain scores a parent-vs-children impurity reduction, redistributing
// missingMass proportionally across both branches by their present-sample
// weight share (SPEC_FULL §10 supplement, "missingWeightRedistribution")
// rather than discarding missing samples from the gain estimate.
func splitGain(task Task, parentScore float64, left, right *nodeStat, missingMass float64) (gain float64, ok bool) {
	lw, rw := left.weight, right.weight
	total := lw + rw
	if total <= 0 || lw <= 0 || rw <= 0 {
		return 0, false
	}
	lShare := missingMass * lw / total
	rShare := missingMass * rw / total
	lScore := left.score(task)
	rScore := right.score(task)
	childWeight := lw + lShare + rw + rShare
	if childWeight <= 0 {
		return 0, false
	}
	weighted := (lScore*(lw+lShare) + rScore*(rw+rShare)) / childWeight

	return parentScore - weighted, true
}

// bestContinuousSplit sweeps a sorted threshold over attribute a, tracking
// running weighted class counts (classification) or sums (regression) on
// each side (spec §4.7 "continuous: sort samples, sweep threshold").
func bestContinuousSplit(ds Dataset, idx []int, a int, params Params) candidateSplit {
	type row struct {
		val           float64
		label, weight float64
	}
	rows := make([]row, 0, len(idx))
	var missingMass float64
	for _, i := range idx {
		v := ds.X[i][a]
		w := ds.weightOf(i)
		if isMissing(v) {
			missingMass += w
			continue
		}
		rows = append(rows, row{val: v, label: ds.Y[i], weight: w})
	}
	if len(rows) < 2 {
		return candidateSplit{}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].val < rows[j].val })

	var parent nodeStat
	labels := make([]float64, len(rows))
	weights := make([]float64, len(rows))
	for i, r := range rows {
		parent.add(r.label, r.weight)
		labels[i] = r.label
		weights[i] = r.weight
	}
	parentScore := batchScore(params.Task, labels, weights)

	best := candidateSplit{attribute: a, attrType: Continuous}
	var left nodeStat
	right := parent.clone()
	for i := 0; i < len(rows)-1; i++ {
		left.add(rows[i].label, rows[i].weight)
		right.remove(rows[i].label, rows[i].weight)
		if rows[i].val == rows[i+1].val {
			continue
		}
		gain, ok := splitGain(params.Task, parentScore, &left, &right, missingMass)
		if ok && gain > best.gain {
			best = candidateSplit{
				attribute: a,
				attrType:  Continuous,
				threshold: (rows[i].val + rows[i+1].val) / 2,
				gain:      gain,
				valid:     true,
			}
		}
	}

	return best
}

// bestNominalSplit enumerates 2^(U-1)-1 non-trivial bipartitions of
// attribute a's unique values (spec §4.7 "nominal: enumerate ... for each,
// compute gain"), capped by params.maxNominalLevels to avoid blowing up on
// a high-cardinality column.
func bestNominalSplit(ds Dataset, idx []int, a int, params Params) (candidateSplit, error) {
	byValue := map[float64][]labeledWeight{}
	var missingMass float64
	var labels, weights []float64
	for _, i := range idx {
		v := ds.X[i][a]
		w := ds.weightOf(i)
		if isMissing(v) {
			missingMass += w
			continue
		}
		byValue[v] = append(byValue[v], labeledWeight{ds.Y[i], w})
		labels = append(labels, ds.Y[i])
		weights = append(weights, w)
	}
	values := make([]float64, 0, len(byValue))
	for v := range byValue {
		values = append(values, v)
	}
	sort.Float64s(values)
	if len(values) < 2 {
		return candidateSplit{}, nil
	}
	if len(values) > params.maxNominalLevels() {
		return candidateSplit{}, ErrTooManyNominalLevels
	}
	parentScore := batchScore(params.Task, labels, weights)

	best := candidateSplit{attribute: a, attrType: Nominal}
	u := len(values)
	for mask := 1; mask < (1 << (u - 1)); mask++ {
		leftSet := make([]float64, 0, u)
		var left, right nodeStat
		for bit := 0; bit < u; bit++ {
			inLeft := mask&(1<<bit) != 0
			if inLeft {
				leftSet = append(leftSet, values[bit])
			}
			for _, o := range byValue[values[bit]] {
				if inLeft {
					left.add(o.label, o.weight)
				} else {
					right.add(o.label, o.weight)
				}
			}
		}
		gain, ok := splitGain(params.Task, parentScore, &left, &right, missingMass)
		if ok && gain > best.gain {
			best = candidateSplit{
				attribute: a,
				attrType:  Nominal,
				leftSet:   append([]float64(nil), leftSet...),
				gain:      gain,
				valid:     true,
			}
		}
	}

	return best, nil
}

// routeLeft decides which branch sample value v takes under split cs.
func routeLeft(cs candidateSplit, v float64) bool {
	if cs.attrType == Continuous {
		return v <= cs.threshold
	}
	for _, m := range cs.leftSet {
		if m == v {
			return true
		}
	}

	return false
}
