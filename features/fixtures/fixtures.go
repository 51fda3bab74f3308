// Package fixtures provides minimal, in-memory implementations of the
// features.Features / features.StringSequence contracts for exercising the
// core in tests and examples. It is deliberately not a production feature
// container: no persistence, no validation beyond bounds, no sparse
// storage. Concrete feature containers are a non-goal of this module
// (spec.md §1); these types exist only so the kernel/SVM/CART/WD-kernel
// packages can be driven end-to-end without an external dependency.
package fixtures

import "github.com/katalvlaran/svmcore/features"

// DenseFloat64 is a row-major dense numeric feature container.
type DenseFloat64 struct {
	rows [][]float64
}

// NewDenseFloat64 wraps rows (not copied) as a Features implementation.
func NewDenseFloat64(rows [][]float64) *DenseFloat64 {
	return &DenseFloat64{rows: rows}
}

func (d *DenseFloat64) NumVectors() int { return len(d.rows) }

func (d *DenseFloat64) FeatureVector(i int) []float64 { return d.rows[i] }

func (d *DenseFloat64) Alphabet() features.Alphabet { return features.AlphabetNone }

func (d *DenseFloat64) WithSubset(perm []int) features.Features {
	sub := make([][]float64, len(perm))
	for i, p := range perm {
		sub[i] = d.rows[p]
	}

	return &DenseFloat64{rows: sub}
}

// StringFeatures is a fixed-length byte-sequence container over a small
// alphabet (default DNA), used to exercise wdkernel.
type StringFeatures struct {
	seqs [][]byte
	alph features.Alphabet
}

// NewStringFeatures wraps seqs (not copied); all sequences must share the
// same length for the fixed-length string kernel contract.
func NewStringFeatures(seqs [][]byte, alph features.Alphabet) *StringFeatures {
	return &StringFeatures{seqs: seqs, alph: alph}
}

func (s *StringFeatures) NumVectors() int { return len(s.seqs) }

func (s *StringFeatures) FeatureVector(i int) []float64 {
	raw := s.seqs[i]
	out := make([]float64, len(raw))
	for j, b := range raw {
		out[j] = float64(b)
	}

	return out
}

func (s *StringFeatures) Alphabet() features.Alphabet { return s.alph }

func (s *StringFeatures) Sequence(i int) []byte { return s.seqs[i] }

func (s *StringFeatures) Length() int {
	if len(s.seqs) == 0 {
		return 0
	}

	return len(s.seqs[0])
}

func (s *StringFeatures) WithSubset(perm []int) features.Features {
	sub := make([][]byte, len(perm))
	for i, p := range perm {
		sub[i] = s.seqs[p]
	}

	return &StringFeatures{seqs: sub, alph: s.alph}
}
