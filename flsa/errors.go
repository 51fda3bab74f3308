package flsa

import "errors"

var (
	// ErrEmptyInput is returned when v has fewer than 2 samples (a single
	// sample has no first-difference to penalize).
	ErrEmptyInput = errors.New("flsa: input must have at least 2 samples")

	// ErrInvalidLambda is returned for a non-positive regularization weight.
	ErrInvalidLambda = errors.New("flsa: lambda must be positive")
)
