package wdkernel

import "errors"

var (
	// ErrInvalidDegree indicates a non-positive degree d.
	ErrInvalidDegree = errors.New("wdkernel: degree must be positive")

	// ErrWeightLengthMismatch indicates the degree-decay weight vector beta
	// does not have length d.
	ErrWeightLengthMismatch = errors.New("wdkernel: weight vector length must equal degree")

	// ErrIncompatibleAlphabet indicates a sequence side uses an alphabet
	// other than the 4-symbol DNA alphabet this package supports.
	ErrIncompatibleAlphabet = errors.New("wdkernel: only the DNA alphabet is supported")

	// ErrSequenceLengthMismatch indicates sequences of different lengths,
	// e.g. the two sides passed to SetSides.
	ErrSequenceLengthMismatch = errors.New("wdkernel: sequences must have equal length")

	// ErrTrieNotBuilt indicates a trie with no examples added. No function
	// in this package returns it; ComputeByTree on an empty Forest returns 0.
	ErrTrieNotBuilt = errors.New("wdkernel: trie has not been built")

	// ErrPositionWeightLengthMismatch indicates a per-example or global
	// position-weight vector has the wrong length.
	ErrPositionWeightLengthMismatch = errors.New("wdkernel: position weight vector length mismatch")

	// ErrInvalidDistribution indicates a background symbol distribution
	// passed to ComputePOIM has a negative entry or does not sum to 1.
	ErrInvalidDistribution = errors.New("wdkernel: distribution must be non-negative and sum to 1")
)
