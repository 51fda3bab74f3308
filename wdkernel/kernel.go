package wdkernel

import (
	"github.com/katalvlaran/svmcore/features"
	"github.com/katalvlaran/svmcore/kernel"
)

// Kernel computes the Weighted-Degree-with-Shifts score (spec §4.6). It
// implements kernel.Kernel so it can plug into svm/bundle/cart like any
// other static-dispatch kernel (spec §9 design note).
type Kernel struct {
	params    Params
	betaCum   []float64
	normalize kernel.Normalizer

	lhs, rhs features.StringSequence
	length   int

	posWeightsGlobal  []float64          // per-position weight, length L, or nil
	posWeightsMatrix  []float64          // weights[i*d+j] matrix form, or nil
	posWeightsPerEx   map[int][]float64  // per-example position weight override
	posWeightsPerExR  map[int][]float64  // rhs-side per-example override
}

// New constructs a Kernel. Returns an error for an invalid Params.
func New(p Params, normalizer kernel.Normalizer) (*Kernel, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	return &Kernel{
		params:    p,
		betaCum:   betaCumsum(p.Betas),
		normalize: normalizer,
	}, nil
}

// SetSides binds the two string sides (spec §3 "set_sides"). Both sides
// must share the DNA alphabet and a common sequence length L.
func (k *Kernel) SetSides(l, r features.Features) error {
	ls, ok := l.(features.StringSequence)
	if !ok {
		return ErrIncompatibleAlphabet
	}
	rs, ok := r.(features.StringSequence)
	if !ok {
		return ErrIncompatibleAlphabet
	}
	if ls.Alphabet() != features.AlphabetDNA || rs.Alphabet() != features.AlphabetDNA {
		return ErrIncompatibleAlphabet
	}
	if ls.Length() != rs.Length() {
		return ErrSequenceLengthMismatch
	}
	k.lhs, k.rhs = ls, rs
	k.length = ls.Length()
	if k.normalize != nil {
		return k.normalize.Init(k)
	}

	return nil
}

func (k *Kernel) NumLHS() int {
	if k.lhs == nil {
		return 0
	}

	return k.lhs.NumVectors()
}

func (k *Kernel) NumRHS() int {
	if k.rhs == nil {
		return 0
	}

	return k.rhs.NumVectors()
}

// SubkernelWeights returns the degree-decay weight vector (spec §3
// "subkernel_weights").
func (k *Kernel) SubkernelWeights() []float64 {
	return append([]float64(nil), k.params.Betas...)
}

// HasProperty reports LINADD (the trie supports it) and BATCH.
func (k *Kernel) HasProperty(p kernel.Property) bool {
	return p&(kernel.LINADD|kernel.BATCH) != 0
}

// K returns k(i,j) = Score(lhs[i], rhs[j]) with the bound normalizer
// applied, if any.
func (k *Kernel) K(i, j int) float64 {
	v := k.rawScore(k.lhs.Sequence(i), i, k.rhs.Sequence(j), j)
	if k.normalize != nil {
		return k.normalize.Normalize(v, i, j)
	}

	return v
}

// SetPositionWeightsGlobal sets a single length-L position weight vector
// shared by every example (spec §4.6 "optional position weights ... or
// global").
func (k *Kernel) SetPositionWeightsGlobal(w []float64) error {
	if len(w) != k.length && k.length != 0 {
		return ErrPositionWeightLengthMismatch
	}
	k.posWeightsGlobal = w

	return nil
}

// SetPositionWeightsMatrix sets the matrix-form position-specific weights
// weights[i*d+j] (spec §4.6 "matrix-form variant").
func (k *Kernel) SetPositionWeightsMatrix(w []float64) error {
	if len(w) != k.length*k.params.Degree {
		return ErrPositionWeightLengthMismatch
	}
	k.posWeightsMatrix = w

	return nil
}

// SetPositionWeightsPerExample sets per-example position weights for the
// left side, multiplying the global/matrix weight for that one example
// (spec §9 SPEC_FULL supplement, grounded on
// original_source/WeightedDegreePositionStringKernel.cpp: per-example
// weights multiply the position factor before the degree sum, rather than
// replacing it).
func (k *Kernel) SetPositionWeightsPerExample(idx int, w []float64) error {
	if len(w) != k.length {
		return ErrPositionWeightLengthMismatch
	}
	if k.posWeightsPerEx == nil {
		k.posWeightsPerEx = make(map[int][]float64)
	}
	k.posWeightsPerEx[idx] = w

	return nil
}

// SetPositionWeightsPerExampleRHS is the right-side counterpart of
// SetPositionWeightsPerExample.
func (k *Kernel) SetPositionWeightsPerExampleRHS(idx int, w []float64) error {
	if len(w) != k.length {
		return ErrPositionWeightLengthMismatch
	}
	if k.posWeightsPerExR == nil {
		k.posWeightsPerExR = make(map[int][]float64)
	}
	k.posWeightsPerExR[idx] = w

	return nil
}

// posWeight returns p_side(example, pos): the matrix weight if set, else
// the global vector, else 1.0, multiplied by the example's per-example
// weight when one is set (spec supplement: "multiply ... before the degree
// sum").
func (k *Kernel) posWeightLHS(ex, pos, degreeK int) float64 {
	return k.posWeight(k.posWeightsPerEx, ex, pos, degreeK)
}

func (k *Kernel) posWeightRHS(ex, pos, degreeK int) float64 {
	return k.posWeight(k.posWeightsPerExR, ex, pos, degreeK)
}

func (k *Kernel) posWeight(perEx map[int][]float64, ex, pos, degreeK int) float64 {
	base := 1.0
	if k.posWeightsMatrix != nil {
		base = k.posWeightsMatrix[pos*k.params.Degree+degreeK-1]
	} else if k.posWeightsGlobal != nil {
		base = k.posWeightsGlobal[pos]
	}
	if perEx != nil {
		if w, ok := perEx[ex]; ok {
			return base * w[pos]
		}
	}

	return base
}

// rawScore implements the WDS scoring formula of spec §4.6: direct k-mer
// matches at every position, plus shifted alignments on the lhs and rhs,
// each shift s weighted 1/(2s) as in Forest.Add.
func (k *Kernel) rawScore(x []byte, xi int, xp []byte, xj int) float64 {
	d := k.params.Degree
	L := len(x)
	score := 0.0

	maxMatch := func(a []byte, ai int, b []byte, bi int) int {
		m := 0
		for m < d && ai+m < len(a) && bi+m < len(b) && a[ai+m] == b[bi+m] {
			m++
		}

		return m
	}

	for i := 0; i < L; i++ {
		m := maxMatch(x, i, xp, i)
		if m > 0 {
			score += k.posWeightLHS(xi, i, m) * k.posWeightRHS(xj, i, m) * k.matchTerm(m)
		}

		if k.params.MaxShift <= 0 {
			continue
		}
		for s := 1; s <= k.params.MaxShift && i+s < L; s++ {
			sw := 1 / (2 * float64(s))
			// Shifted on lhs: x[i..] aligned against x'[i+s..].
			ms := maxMatch(x, i, xp, i+s)
			if ms > 0 {
				score += sw * k.posWeightLHS(xi, i, ms) * k.posWeightRHS(xj, i+s, ms) * k.matchTerm(ms)
			}
			// Shifted on rhs: x[i+s..] aligned against x'[i..].
			mr := maxMatch(x, i+s, xp, i)
			if mr > 0 {
				score += sw * k.posWeightLHS(xi, i+s, mr) * k.posWeightRHS(xj, i, mr) * k.matchTerm(mr)
			}
		}
	}

	return score
}

// matchTerm returns sum_{k=1}^{min(d,m)} beta_k for a match of length m, or
// the mismatch-extended score when MaxMismatch>0 (spec §4.6 "Mismatch
// extension").
func (k *Kernel) matchTerm(m int) float64 {
	if k.params.MaxMismatch <= 0 {
		if m > k.params.Degree {
			m = k.params.Degree
		}
		if m <= 0 {
			return 0
		}

		return k.betaCum[m-1]
	}

	return k.mismatchTerm(m)
}

// mismatchTerm sums beta_{k,hamming} over every degree k<=min(d,m) — since
// rawScore only calls this with m = exact-match length, the Hamming
// distance for any k<=m is 0, matching the no-mismatch path when
// MismatchBetas[k-1][0] == Betas[k-1]. K-mers at Hamming distance 1 or
// more are not scored anywhere in this package.
func (k *Kernel) mismatchTerm(m int) float64 {
	d := k.params.Degree
	if m > d {
		m = d
	}
	s := 0.0
	for kk := 1; kk <= m; kk++ {
		if kk-1 < len(k.params.MismatchBetas) && len(k.params.MismatchBetas[kk-1]) > 0 {
			s += k.params.MismatchBetas[kk-1][0]
		}
	}

	return s
}
