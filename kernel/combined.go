package kernel

import "github.com/katalvlaran/svmcore/features"

// CombinedKernel linearly combines several subkernels with a weight vector,
// the dynamic-dispatch fallback named in spec §9 ("fall back to dynamic
// dispatch only when combining kernels"). It also implements the Kernel
// interface itself, so a CombinedKernel can be nested.
type CombinedKernel struct {
	subs    []Kernel
	weights []float64
	nrm     Normalizer
}

// NewCombinedKernel builds a CombinedKernel from subs with equal initial
// weights (1/len(subs)); use SetSubkernelWeights to override.
func NewCombinedKernel(subs []Kernel, nrm Normalizer) (*CombinedKernel, error) {
	if len(subs) == 0 {
		return nil, ErrNoSubkernels
	}
	w := make([]float64, len(subs))
	for i := range w {
		w[i] = 1.0 / float64(len(subs))
	}

	return &CombinedKernel{subs: subs, weights: w, nrm: nrm}, nil
}

// SetSubkernelWeights replaces the combination weights; len(w) must equal
// the number of subkernels.
func (ck *CombinedKernel) SetSubkernelWeights(w []float64) error {
	if len(w) != len(ck.subs) {
		return ErrWeightLengthMismatch
	}
	ck.weights = append([]float64(nil), w...)

	return nil
}

func (ck *CombinedKernel) SubkernelWeights() []float64 {
	return append([]float64(nil), ck.weights...)
}

func (ck *CombinedKernel) SetSides(l, r features.Features) error {
	for _, s := range ck.subs {
		if err := s.SetSides(l, r); err != nil {
			return err
		}
	}
	if ck.nrm != nil {
		return ck.nrm.Init(ck)
	}

	return nil
}

func (ck *CombinedKernel) raw(i, j int) float64 {
	var sum float64
	for k, s := range ck.subs {
		sum += ck.weights[k] * s.K(i, j)
	}

	return sum
}

func (ck *CombinedKernel) K(i, j int) float64 {
	v := ck.raw(i, j)
	if ck.nrm != nil {
		return ck.nrm.Normalize(v, i, j)
	}

	return v
}

func (ck *CombinedKernel) HasProperty(p Property) bool {
	if p == KERNCOMBINATION {
		return true
	}
	// A combination exposes LINADD/BATCH only if every subkernel does.
	for _, s := range ck.subs {
		if !s.HasProperty(p) {
			return false
		}
	}

	return true
}

func (ck *CombinedKernel) NumLHS() int {
	if len(ck.subs) == 0 {
		return 0
	}

	return ck.subs[0].NumLHS()
}

func (ck *CombinedKernel) NumRHS() int {
	if len(ck.subs) == 0 {
		return 0
	}

	return ck.subs[0].NumRHS()
}
