package kernel

import "math"

// SqrtDiag rescales k(i,j) by 1/sqrt(k(i,i)*k(j,j)), the canonical
// "cosine-normalized" kernel variant and the default per spec §4.6.
type SqrtDiag struct {
	diagL, diagR []float64
}

func (n *SqrtDiag) Init(k Kernel) error {
	n.diagL = diagonal(k, k.NumLHS(), true)
	n.diagR = diagonal(k, k.NumRHS(), false)

	return nil
}

func (n *SqrtDiag) Normalize(v float64, i, j int) float64 {
	d := math.Sqrt(n.diagL[i] * n.diagR[j])
	if d == 0 {
		return 0
	}

	return v / d
}

func (n *SqrtDiag) NormalizeLHS(v float64, i int) float64 {
	d := math.Sqrt(n.diagL[i])
	if d == 0 {
		return 0
	}

	return v / d
}

func (n *SqrtDiag) NormalizeRHS(v float64, j int) float64 {
	d := math.Sqrt(n.diagR[j])
	if d == 0 {
		return 0
	}

	return v / d
}

func (n *SqrtDiag) Name() string { return "SqrtDiag" }

// AvgDiag rescales by the average of k(i,i) over the left side, a cheaper
// single-pass alternative to SqrtDiag used when diag(R) is unavailable.
type AvgDiag struct {
	avg float64
}

func (n *AvgDiag) Init(k Kernel) error {
	d := diagonal(k, k.NumLHS(), true)
	var sum float64
	for _, x := range d {
		sum += x
	}
	if len(d) > 0 {
		n.avg = sum / float64(len(d))
	}

	return nil
}

func (n *AvgDiag) Normalize(v float64, _, _ int) float64 {
	if n.avg == 0 {
		return v
	}

	return v / n.avg
}
func (n *AvgDiag) NormalizeLHS(v float64, _ int) float64 { return n.Normalize(v, 0, 0) }
func (n *AvgDiag) NormalizeRHS(v float64, _ int) float64 { return n.Normalize(v, 0, 0) }
func (n *AvgDiag) Name() string                          { return "AvgDiag" }

// FirstElement rescales every value by k(0,0), matching the original's
// cheapest normalizer variant (assumes a roughly constant diagonal).
type FirstElement struct {
	first float64
}

func (n *FirstElement) Init(k Kernel) error {
	if k.NumLHS() > 0 && k.NumRHS() > 0 {
		n.first = k.K(0, 0)
	}

	return nil
}

func (n *FirstElement) Normalize(v float64, _, _ int) float64 {
	if n.first == 0 {
		return v
	}

	return v / n.first
}
func (n *FirstElement) NormalizeLHS(v float64, _ int) float64 { return n.Normalize(v, 0, 0) }
func (n *FirstElement) NormalizeRHS(v float64, _ int) float64 { return n.Normalize(v, 0, 0) }
func (n *FirstElement) Name() string                          { return "FirstElement" }

// Ridge adds a small positive constant to the diagonal (i==j, same side
// identity) to improve conditioning of the Gram matrix, a cheap alternative
// to explicit regularization inside the QP solver.
type Ridge struct {
	Lambda float64
}

func (n *Ridge) Init(Kernel) error { return nil }
func (n *Ridge) Normalize(v float64, i, j int) float64 {
	if i == j {
		return v + n.Lambda
	}

	return v
}
func (n *Ridge) NormalizeLHS(v float64, _ int) float64 { return v }
func (n *Ridge) NormalizeRHS(v float64, _ int) float64 { return v }
func (n *Ridge) Name() string                          { return "Ridge" }

// Tanimoto computes the Tanimoto (Jaccard-like) coefficient
// v / (k(i,i) + k(j,j) - v), meaningful when k is a set-overlap measure.
type Tanimoto struct {
	diagL, diagR []float64
}

func (n *Tanimoto) Init(k Kernel) error {
	n.diagL = diagonal(k, k.NumLHS(), true)
	n.diagR = diagonal(k, k.NumRHS(), false)

	return nil
}

func (n *Tanimoto) Normalize(v float64, i, j int) float64 {
	denom := n.diagL[i] + n.diagR[j] - v
	if denom == 0 {
		return 0
	}

	return v / denom
}
func (n *Tanimoto) NormalizeLHS(v float64, _ int) float64 { return v }
func (n *Tanimoto) NormalizeRHS(v float64, _ int) float64 { return v }
func (n *Tanimoto) Name() string                          { return "Tanimoto" }

// Dice computes the Dice coefficient 2v / (k(i,i) + k(j,j)).
type Dice struct {
	diagL, diagR []float64
}

func (n *Dice) Init(k Kernel) error {
	n.diagL = diagonal(k, k.NumLHS(), true)
	n.diagR = diagonal(k, k.NumRHS(), false)

	return nil
}

func (n *Dice) Normalize(v float64, i, j int) float64 {
	denom := n.diagL[i] + n.diagR[j]
	if denom == 0 {
		return 0
	}

	return 2 * v / denom
}
func (n *Dice) NormalizeLHS(v float64, _ int) float64 { return v }
func (n *Dice) NormalizeRHS(v float64, _ int) float64 { return v }
func (n *Dice) Name() string                          { return "Dice" }

// ZeroMeanCenter centers the kernel so that the implicit feature map has
// zero mean: k'(i,j) = k(i,j) - mean_i(k(i,.)) - mean_j(k(.,j)) + grandMean.
type ZeroMeanCenter struct {
	rowMean, colMean []float64
	grandMean        float64
}

func (n *ZeroMeanCenter) Init(k Kernel) error {
	nl, nr := k.NumLHS(), k.NumRHS()
	n.rowMean = make([]float64, nl)
	n.colMean = make([]float64, nr)
	var grand float64
	for i := 0; i < nl; i++ {
		var rs float64
		for j := 0; j < nr; j++ {
			v := k.K(i, j)
			rs += v
			grand += v
		}
		if nr > 0 {
			n.rowMean[i] = rs / float64(nr)
		}
	}
	for j := 0; j < nr; j++ {
		var cs float64
		for i := 0; i < nl; i++ {
			cs += k.K(i, j)
		}
		if nl > 0 {
			n.colMean[j] = cs / float64(nl)
		}
	}
	if nl > 0 && nr > 0 {
		n.grandMean = grand / float64(nl*nr)
	}

	return nil
}

func (n *ZeroMeanCenter) Normalize(v float64, i, j int) float64 {
	return v - n.rowMean[i] - n.colMean[j] + n.grandMean
}
func (n *ZeroMeanCenter) NormalizeLHS(v float64, i int) float64 { return v - n.rowMean[i] }
func (n *ZeroMeanCenter) NormalizeRHS(v float64, j int) float64 { return v - n.colMean[j] }
func (n *ZeroMeanCenter) Name() string                          { return "ZeroMeanCenter" }

// diagonal computes k(i,i) for i in [0,n). Diagonal-based normalizers
// assume a square, symmetric binding (L==R), per spec §3's symmetry
// contract; the sameSide flag documents call-site intent even though both
// sides share one diagonal in that case.
func diagonal(k Kernel, n int, sameSide bool) []float64 {
	_ = sameSide
	d := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = k.K(i, i)
	}

	return d
}
