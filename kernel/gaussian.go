package kernel

import "math"

// GaussianKernel computes k(i,j) = exp(-||x_i - x_j'||^2 / (2*sigma^2)).
type GaussianKernel struct {
	baseKernel
	Sigma float64
}

// NewGaussianKernel constructs a GaussianKernel; sigma must be > 0.
func NewGaussianKernel(sigma float64, nrm Normalizer) (*GaussianKernel, error) {
	if sigma <= 0 {
		return nil, ErrBadSigma
	}
	gk := &GaussianKernel{Sigma: sigma}
	gk.nrm = nrm
	gk.rawFn = gk.raw

	return gk, nil
}

func (gk *GaussianKernel) raw(i, j int) float64 {
	a := gk.lhs.FeatureVector(i)
	b := gk.rhs.FeatureVector(j)
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sq float64
	for k := 0; k < n; k++ {
		d := a[k] - b[k]
		sq += d * d
	}

	return math.Exp(-sq / (2 * gk.Sigma * gk.Sigma))
}

func (gk *GaussianKernel) K(i, j int) float64 { return gk.value(i, j) }

func (gk *GaussianKernel) SubkernelWeights() []float64 { return []float64{1} }

func (gk *GaussianKernel) HasProperty(p Property) bool { return BATCH.HasProperty(p) }
