// Package kernel defines the polymorphic Kernel abstraction (spec.md §3/§4.1)
// and its optional Normalizer, the common collaborator consumed by svm,
// bundle, and cart wherever a Gram-matrix entry k(i,j) is needed.
//
// Dispatch strategy (spec §9 design note): kernels known at build time
// (Linear, Gaussian) are concrete structs with an inlined K method — no
// interface indirection on the hot path when the caller holds the concrete
// type directly. CombinedKernel is the dynamic-dispatch fallback used only
// when subkernels are combined at runtime (KERNCOMBINATION).
package kernel

import "github.com/katalvlaran/svmcore/features"

// Property is a bitmask describing optional capabilities a Kernel exposes.
type Property int

const (
	// LINADD marks kernels that support constructing an explicit normal
	// vector for O(1) amortized per-example updates during SVM training.
	LINADD Property = 1 << iota
	// BATCH marks kernels with an optimized batch-evaluation path.
	BATCH
	// KERNCOMBINATION marks a kernel that is itself a weighted combination
	// of subkernels (dynamic dispatch).
	KERNCOMBINATION
)

// HasProperty reports whether p is set in the receiver bitmask.
func (p Property) HasProperty(q Property) bool { return p&q != 0 }

// Kernel is the polymorphic capability set from spec §3: evaluate k(i,j),
// bind the two sides, expose per-subkernel weights (1 for a non-combined
// kernel), and report optional properties.
type Kernel interface {
	// K returns k(i,j) for i in [0,NumLHS()) and j in [0,NumRHS()).
	K(i, j int) float64

	// SetSides binds the left/right feature sides. Must be called before K.
	// Re-binding re-initializes any attached Normalizer exactly once.
	SetSides(l, r features.Features) error

	// SubkernelWeights returns the weight vector over subkernels; a simple
	// kernel returns []float64{1}.
	SubkernelWeights() []float64

	// HasProperty reports whether the kernel exposes the given Property.
	HasProperty(p Property) bool

	// NumLHS/NumRHS report the bound side sizes; 0 before SetSides.
	NumLHS() int
	NumRHS() int
}

// Normalizer rescales raw kernel values. Init is called exactly once per
// bound (L,R) pair before any Normalize* call; implementations compute
// whatever per-pair state they need (diagonal norms, means, ...) there.
type Normalizer interface {
	// Init precomputes normalizer state against the kernel's currently
	// bound sides. Returns an error if the sides are incompatible with this
	// normalizer.
	Init(k Kernel) error

	// Normalize rescales a raw value v = k(i,j).
	Normalize(v float64, i, j int) float64

	// NormalizeLHS optionally rescales based on the left side alone (used
	// by normalizers that need asymmetric treatment, e.g. during batch
	// precomputation); default implementations may return v unchanged.
	NormalizeLHS(v float64, i int) float64

	// NormalizeRHS is the right-side counterpart of NormalizeLHS.
	NormalizeRHS(v float64, j int) float64

	// Name reports the normalizer's identifier, used in diagnostics.
	Name() string
}

// baseKernel holds the state common to every concrete Kernel: the bound
// sides, an optional normalizer, and the raw-value callback each concrete
// kernel supplies. It is embedded, not used directly.
type baseKernel struct {
	lhs features.Features
	rhs features.Features
	nrm Normalizer

	rawFn func(i, j int) float64 // set by the embedding concrete kernel
}

func (b *baseKernel) SetSides(l, r features.Features) error {
	if l == nil || r == nil {
		return ErrNilSides
	}
	if l.NumVectors() == 0 || r.NumVectors() == 0 {
		return ErrEmptySides
	}
	b.lhs, b.rhs = l, r
	if b.nrm != nil {
		// Init is called exactly once per (L,R) binding, per spec §3.
		return b.nrm.Init(kernelFacade{b})
	}

	return nil
}

func (b *baseKernel) NumLHS() int {
	if b.lhs == nil {
		return 0
	}

	return b.lhs.NumVectors()
}

func (b *baseKernel) NumRHS() int {
	if b.rhs == nil {
		return 0
	}

	return b.rhs.NumVectors()
}

// value evaluates the raw callback and applies the normalizer, if any.
func (b *baseKernel) value(i, j int) float64 {
	v := b.rawFn(i, j)
	if b.nrm != nil {
		return b.nrm.Normalize(v, i, j)
	}

	return v
}

// kernelFacade exposes a *baseKernel's raw (un-normalized) values through
// the Kernel interface so a Normalizer.Init can probe k(i,j) for diagonal
// or statistical precomputation without triggering recursive normalization.
type kernelFacade struct{ b *baseKernel }

func (f kernelFacade) K(i, j int) float64            { return f.b.rawFn(i, j) }
func (f kernelFacade) SetSides(features.Features, features.Features) error { return nil }
func (f kernelFacade) SubkernelWeights() []float64   { return []float64{1} }
func (f kernelFacade) HasProperty(Property) bool     { return false }
func (f kernelFacade) NumLHS() int                   { return f.b.NumLHS() }
func (f kernelFacade) NumRHS() int                    { return f.b.NumRHS() }

// Symmetric reports whether k(i,j) == k(j,i) for all sampled pairs when the
// kernel is bound with identical L and R. It is a debug/test probe, not a
// runtime invariant check (spec §3 states symmetry is a contract, not
// something to discover at runtime).
func Symmetric(k Kernel, tol float64) bool {
	n := k.NumLHS()
	if n != k.NumRHS() {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if abs(k.K(i, j)-k.K(j, i)) > tol {
				return false
			}
		}
	}

	return true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}
