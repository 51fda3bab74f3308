package bundle

import "errors"

var (
	// ErrInvalidParams indicates a non-positive Dim, Lambda, or BufSize.
	ErrInvalidParams = errors.New("bundle: invalid params")

	// ErrNoOracles indicates Solve was called with zero risk oracles.
	ErrNoOracles = errors.New("bundle: at least one risk oracle is required")

	// ErrOracleFailed wraps an error returned by a RiskOracle; the core
	// propagates it immediately without consuming more iteration budget
	// (spec §7 "Oracle errors").
	ErrOracleFailed = errors.New("bundle: risk oracle failed")
)
