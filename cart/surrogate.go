package cart

// findSurrogates computes backup split rules for every attribute other
// than the primary split's, ranked by association index lambda (spec §4.7):
// lambda measures how well a candidate surrogate's own majority-routing
// agrees with the primary split's routing, relative to always guessing the
// primary's majority branch. Surrogates with lambda <= 0 (no better than
// guessing majority) are discarded.
func findSurrogates(ds Dataset, idx []int, primary candidateSplit, params Params, numAttrs int) []surrogate {
	// majority branch of the primary split, used as the lambda baseline.
	var primaryLeftWeight, primaryRightWeight float64
	rows := make([]struct {
		i        int
		leftGoes bool
	}, 0, len(idx))
	for _, i := range idx {
		v := ds.X[i][primary.attribute]
		if isMissing(v) {
			continue
		}
		left := routeLeft(primary, v)
		rows = append(rows, struct {
			i        int
			leftGoes bool
		}{i, left})
		w := ds.weightOf(i)
		if left {
			primaryLeftWeight += w
		} else {
			primaryRightWeight += w
		}
	}
	if len(rows) == 0 {
		return nil
	}
	majorityIsLeft := primaryLeftWeight >= primaryRightWeight
	baselineMiss := primaryLeftWeight
	if majorityIsLeft {
		baselineMiss = primaryRightWeight
	}

	var surrogates []surrogate
	for a := 0; a < numAttrs; a++ {
		if a == primary.attribute {
			continue
		}
		at := Continuous
		if params.AttrTypes != nil && a < len(params.AttrTypes) {
			at = params.AttrTypes[a]
		}
		cand, ok := bestSurrogateForAttr(ds, rows, a, at, baselineMiss)
		if ok {
			surrogates = append(surrogates, cand)
		}
	}

	// Highest association first: the node walks the list and uses the
	// first surrogate whose attribute is present.
	for i := 1; i < len(surrogates); i++ {
		for j := i; j > 0 && surrogates[j].lambda > surrogates[j-1].lambda; j-- {
			surrogates[j], surrogates[j-1] = surrogates[j-1], surrogates[j]
		}
	}

	return surrogates
}

func bestSurrogateForAttr(ds Dataset, rows []struct {
	i        int
	leftGoes bool
}, a int, at AttrType, baselineMiss float64) (surrogate, bool) {
	if at == Nominal {
		return bestNominalSurrogate(ds, rows, a, baselineMiss)
	}

	return bestContinuousSurrogate(ds, rows, a, baselineMiss)
}

func bestContinuousSurrogate(ds Dataset, rows []struct {
	i        int
	leftGoes bool
}, a int, baselineMiss float64) (surrogate, bool) {
	type obs = struct {
		val      float64
		weight   float64
		leftGoes bool
	}
	obsList := make([]obs, 0, len(rows))
	for _, r := range rows {
		v := ds.X[r.i][a]
		if isMissing(v) {
			continue
		}
		obsList = append(obsList, obs{val: v, weight: ds.weightOf(r.i), leftGoes: r.leftGoes})
	}
	if len(obsList) < 2 {
		return surrogate{}, false
	}
	sortObs(obsList)

	var total, totalRight float64
	for _, o := range obsList {
		total += o.weight
		if !o.leftGoes {
			totalRight += o.weight
		}
	}

	best := surrogate{attribute: a, attrType: Continuous}
	found := false
	var leftAgreeW, leftDisagreeW float64
	for i := 0; i < len(obsList)-1; i++ {
		// Assign obsList[i] to the surrogate's left branch.
		if obsList[i].leftGoes {
			leftAgreeW += obsList[i].weight
		} else {
			leftDisagreeW += obsList[i].weight
		}
		if obsList[i].val == obsList[i+1].val {
			continue
		}
		// Agreement: primary-left samples sent left plus primary-right
		// samples sent right by this threshold.
		miss := total - (leftAgreeW + totalRight - leftDisagreeW)
		lambda := (baselineMiss - miss) / maxf(baselineMiss, 1e-12)
		if !found || lambda > best.lambda {
			best = surrogate{
				attribute: a,
				attrType:  Continuous,
				threshold: (obsList[i].val + obsList[i+1].val) / 2,
				lambda:    lambda,
			}
			found = true
		}
	}
	if !found || best.lambda <= 0 {
		return surrogate{}, false
	}

	return best, true
}

func bestNominalSurrogate(ds Dataset, rows []struct {
	i        int
	leftGoes bool
}, a int, baselineMiss float64) (surrogate, bool) {
	valueAgreeWeight := map[float64]float64{}
	valueTotalWeight := map[float64]float64{}
	var total float64
	for _, r := range rows {
		v := ds.X[r.i][a]
		if isMissing(v) {
			continue
		}
		w := ds.weightOf(r.i)
		total += w
		valueTotalWeight[v] += w
		if r.leftGoes {
			valueAgreeWeight[v] += w
		}
	}
	if len(valueTotalWeight) < 2 {
		return surrogate{}, false
	}

	// Greedy: a value joins the surrogate's left set iff most of its
	// weight agrees with the primary's left branch.
	var leftSet []float64
	var agree float64
	for v, tw := range valueTotalWeight {
		if valueAgreeWeight[v] >= tw/2 {
			leftSet = append(leftSet, v)
			agree += valueAgreeWeight[v]
		} else {
			agree += tw - valueAgreeWeight[v]
		}
	}
	miss := total - agree
	lambda := (baselineMiss - miss) / maxf(baselineMiss, 1e-12)
	if lambda <= 0 {
		return surrogate{}, false
	}

	return surrogate{attribute: a, attrType: Nominal, leftSet: leftSet, lambda: lambda}, true
}

func sortObs(obsList []struct {
	val      float64
	weight   float64
	leftGoes bool
}) {
	for i := 1; i < len(obsList); i++ {
		for j := i; j > 0 && obsList[j].val < obsList[j-1].val; j-- {
			obsList[j], obsList[j-1] = obsList[j-1], obsList[j]
		}
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}

	return b
}

// routeWithSurrogates walks the surrogate list, using the first whose
// attribute is present on this sample; falls back to the primary split's
// majority branch if every surrogate (and the primary attribute) is
// missing (spec §4.7 missing-value routing).
func routeWithSurrogates(n *node, x []float64, primaryMajorityLeft bool) bool {
	v := x[n.attribute]
	if !isMissing(v) {
		return routeLeft(candidateSplit{attrType: n.attrType, threshold: n.threshold, leftSet: n.leftSet}, v)
	}
	for _, s := range n.surrogates {
		sv := x[s.attribute]
		if isMissing(sv) {
			continue
		}

		return routeLeft(candidateSplit{attrType: s.attrType, threshold: s.threshold, leftSet: s.leftSet}, sv)
	}

	return primaryMajorityLeft
}
