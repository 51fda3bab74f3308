package svm

import (
	"github.com/katalvlaran/svmcore/kernel"
	"github.com/katalvlaran/svmcore/qp"
)

// Params configures one decomposition Train run (spec.md §4.1).
type Params struct {
	C float64 // box upper bound for every alpha_i

	// WorkingSetSize is q, the number of variables optimized per inner QP
	// subproblem, drawn in pairs from the two ends of the gradient order; an
	// odd value is rounded up to the next even one. Zero selects
	// DefaultWorkingSetSize.
	WorkingSetSize int

	// MaxOuterIter bounds the decomposition loop. Zero selects
	// DefaultMaxOuterIter.
	MaxOuterIter int

	// CacheMB bounds the kernel row cache (kernel/cache). Zero selects
	// DefaultCacheMB.
	CacheMB float64

	// DeltaVPMFloor and DeltaKinFloor are two separate floors (spec §9 open
	// question: kept distinct rather than collapsed into one knob).
	// DeltaVPMFloor bounds how far the adaptive DeltaVPM, which starts at
	// 10*DeltaVPMFloor, is halved when outer progress stalls; the tightened
	// value is not passed to the inner solver. DeltaKinFloor bounds how far
	// DeltaKin (starting at 0.1) is halved when no working set can be
	// selected, before Train reports StatusStalled. Neither changes the outer
	// stopping test, which uses Tol. Zero selects the matching Default*
	// constant.
	DeltaVPMFloor float64
	DeltaKinFloor float64

	QPAlgo   qp.Algorithm
	QPSwitch qp.SwitchRule

	// Tol is the outer whole-gradient KKT stopping tolerance. Zero selects
	// DefaultTol.
	Tol float64

	// Preprocess selects the optional warm-start accelerator (spec §4.3
	// "Preprocessing (optional)"): splitting the data into sqrt(n) blocks,
	// solving each block's QP once with the inner solver at a coarser
	// tolerance, and seeding alpha from the results. The outer loop still
	// runs to Tol afterward.
	Preprocess Preprocess

	Seed int64
}

// Preprocess selects a decomposition warm-start strategy.
type Preprocess int

const (
	// PreprocessNone performs no warm start; the working set begins at the
	// sort order of the raw gradient.
	PreprocessNone Preprocess = iota
	// PreprocessBlock splits the data into sqrt(ell) blocks, solves each
	// block's QP once, and seeds alpha from the results (spec §4.3;
	// supplemented per SPEC_FULL §6 from gpdtsolve.cpp).
	PreprocessBlock
)

const (
	DefaultWorkingSetSize = 10
	DefaultMaxOuterIter   = 10000
	DefaultCacheMB        = 40.0
	DefaultDeltaVPMFloor  = 1e-6
	DefaultDeltaKinFloor  = 1e-6
	DefaultTol            = 1e-3
)

func (p Params) normalize() Params {
	if p.WorkingSetSize <= 0 {
		p.WorkingSetSize = DefaultWorkingSetSize
	}
	if p.WorkingSetSize%2 != 0 {
		p.WorkingSetSize++
	}
	if p.MaxOuterIter <= 0 {
		p.MaxOuterIter = DefaultMaxOuterIter
	}
	if p.CacheMB <= 0 {
		p.CacheMB = DefaultCacheMB
	}
	if p.DeltaVPMFloor <= 0 {
		p.DeltaVPMFloor = DefaultDeltaVPMFloor
	}
	if p.DeltaKinFloor <= 0 {
		p.DeltaKinFloor = DefaultDeltaKinFloor
	}
	if p.Tol <= 0 {
		p.Tol = DefaultTol
	}

	return p
}

// tol returns the normalized outer KKT tolerance.
func (p Params) tol() float64 { return p.Tol }

// Callback is invoked once per outer decomposition iteration, after the
// KKT gap has been recomputed; returning true stops training early with
// the current iterate retained as the model (spec §4.1 "Callback hook").
type Callback func(iter int, kktGap float64) (stop bool)

// Model is a trained binary SVM: the dual variables, the bias, and enough
// of the original problem (kernel + training labels/indices) to score new
// points via Decide/Score.
type Model struct {
	Kernel  kernel.Kernel
	Y       []int8
	Alpha   []float64
	Bias    float64
	C       float64
	N       int
	trained bool
}

// SupportVectors returns the indices with alpha_i > 0 (the dual-active
// training points).
func (m *Model) SupportVectors() []int {
	out := make([]int, 0)
	for i, a := range m.Alpha {
		if a > 0 {
			out = append(out, i)
		}
	}

	return out
}

// Score returns the raw decision value sum_i y_i alpha_i K(i, idx) + bias
// for training-set index idx (spec §4.1); callers scoring out-of-sample
// points extend the kernel's right-hand side via kernel.SetSides first.
func (m *Model) Score(idx int) (float64, error) {
	if !m.trained {
		return 0, ErrNotTrained
	}
	s := m.Bias
	for i := 0; i < m.N; i++ {
		if m.Alpha[i] == 0 {
			continue
		}
		s += float64(m.Y[i]) * m.Alpha[i] * m.Kernel.K(i, idx)
	}

	return s, nil
}

// Decide returns the predicted label sign for training-set index idx.
func (m *Model) Decide(idx int) (int8, error) {
	s, err := m.Score(idx)
	if err != nil {
		return 0, err
	}
	if s >= 0 {
		return 1, nil
	}

	return -1, nil
}
