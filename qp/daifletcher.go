package qp

// dfLineSearch implements the Dai-Fletcher nonmonotone line search with a
// short reference-value memory (spec §4.2: "memory L=2"): the step is
// accepted once the new objective no longer exceeds the maximum of the last
// L accepted objective values by more than the Armijo-style margin, rather
// than requiring strict monotone decrease.
type dfLineSearch struct {
	memory []float64 // ring of the last L accepted objective values
	cap    int
}

func newDFLineSearch(l int) *dfLineSearch {
	if l < 1 {
		l = 2
	}

	return &dfLineSearch{memory: make([]float64, 0, l), cap: l}
}

func (ls *dfLineSearch) reference() float64 {
	ref := ls.memory[0]
	for _, v := range ls.memory[1:] {
		if v > ref {
			ref = v
		}
	}

	return ref
}

func (ls *dfLineSearch) push(f float64) {
	if len(ls.memory) < ls.cap {
		ls.memory = append(ls.memory, f)

		return
	}
	copy(ls.memory, ls.memory[1:])
	ls.memory[len(ls.memory)-1] = f
}

// accept runs a backtracking search on steplength beta in direction d from x
// with directional derivative slope = g.d (expected negative), halving beta
// until the nonmonotone Armijo condition holds or betaMin is reached.
// evalObj(beta) must return the objective value at x + beta*d.
func (ls *dfLineSearch) accept(slope float64, evalObj func(beta float64) float64) (beta, fNew float64) {
	const (
		sigma1  = 1e-4
		betaMin = 1e-12
		shrink  = 0.5
	)
	if len(ls.memory) == 0 {
		ls.memory = append(ls.memory, evalObj(0))
	}
	ref := ls.reference()

	beta = 1.0
	for beta > betaMin {
		fNew = evalObj(beta)
		if fNew <= ref+sigma1*beta*slope {
			ls.push(fNew)

			return beta, fNew
		}
		beta *= shrink
	}
	fNew = evalObj(beta)
	ls.push(fNew)

	return beta, fNew
}
