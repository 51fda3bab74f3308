package kernel

// LinearKernel computes k(i,j) = <x_i, x_j'> over dense numeric features.
// It is the canonical "known at compile time" kernel from spec §9: no
// interface indirection inside its own K method, only at the point a
// caller stores it behind the Kernel interface.
type LinearKernel struct {
	baseKernel
}

// NewLinearKernel constructs a LinearKernel with an optional Normalizer.
func NewLinearKernel(nrm Normalizer) *LinearKernel {
	lk := &LinearKernel{}
	lk.nrm = nrm
	lk.rawFn = lk.raw

	return lk
}

func (lk *LinearKernel) raw(i, j int) float64 {
	a := lk.lhs.FeatureVector(i)
	b := lk.rhs.FeatureVector(j)
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for k := 0; k < n; k++ {
		sum += a[k] * b[k]
	}

	return sum
}

func (lk *LinearKernel) K(i, j int) float64 { return lk.value(i, j) }

func (lk *LinearKernel) SubkernelWeights() []float64 { return []float64{1} }

func (lk *LinearKernel) HasProperty(p Property) bool { return (LINADD | BATCH).HasProperty(p) }
