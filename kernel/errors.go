package kernel

import "errors"

// Sentinel errors for the kernel package. Callers branch with errors.Is.
var (
	// ErrNilSides indicates SetSides was called with a nil side.
	ErrNilSides = errors.New("kernel: sides must not be nil")

	// ErrIndexOutOfRange indicates K(i,j) was called outside [0,nL)x[0,nR).
	ErrIndexOutOfRange = errors.New("kernel: index out of range")

	// ErrIncompatibleAlphabet indicates two string feature sides disagree on
	// alphabet; a configuration error per spec §7.
	ErrIncompatibleAlphabet = errors.New("kernel: incompatible alphabet")

	// ErrNormalizerNotInit indicates Normalize was invoked before Init.
	ErrNormalizerNotInit = errors.New("kernel: normalizer not initialized")

	// ErrEmptySides indicates a kernel was asked to operate with zero-length sides.
	ErrEmptySides = errors.New("kernel: empty side")

	// ErrNoSubkernels indicates CombinedKernel was built with zero subkernels.
	ErrNoSubkernels = errors.New("kernel: combined kernel needs at least one subkernel")

	// ErrBadSigma indicates a non-positive Gaussian kernel bandwidth.
	ErrBadSigma = errors.New("kernel: sigma must be positive")

	// ErrWeightLengthMismatch indicates CombinedKernel weights don't match subkernels.
	ErrWeightLengthMismatch = errors.New("kernel: weight vector length mismatch")
)
