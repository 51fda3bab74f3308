package cart

import "errors"

var (
	// ErrEmptyDataset is returned when Fit is called with zero samples.
	ErrEmptyDataset = errors.New("cart: empty dataset")

	// ErrInvalidMinNodeSize is returned for a non-positive MinNodeSize.
	ErrInvalidMinNodeSize = errors.New("cart: min_node_size must be at least 1")

	// ErrTooManyNominalLevels is returned when a nominal attribute's
	// unique-value count exceeds the fail-safe enumeration cap (spec §4.7:
	// "exponential in U ... enforce a fail-safe cap in practice").
	ErrTooManyNominalLevels = errors.New("cart: nominal attribute has too many unique levels for bipartition enumeration")

	// ErrNotFitted is returned by Tree methods called before a successful Fit.
	ErrNotFitted = errors.New("cart: tree has not been fitted")
)
