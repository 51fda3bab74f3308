package qp

import "errors"

var (
	// ErrInvalidProblem is returned when a Problem's dimensions are
	// internally inconsistent (H not n*n, b/y/x length mismatch, n<=0).
	ErrInvalidProblem = errors.New("qp: invalid problem dimensions")

	// ErrBoxInfeasible is returned when the equality target e cannot be
	// reached within the box [0, c]^n (e.g. |e| exceeds the sum of c).
	ErrBoxInfeasible = errors.New("qp: equality target infeasible for box bounds")

	// ErrMaxIterations is returned when Solve exhausts Params.MaxVPM
	// without satisfying either termination test (spec §4.2 "both
	// termination tests"); Result still holds the last iterate.
	ErrMaxIterations = errors.New("qp: maximum iterations reached without convergence")
)
