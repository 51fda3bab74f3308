// Package bundle implements BMRM, PPBMRM, and P3BMRM cutting-plane solvers
// for structured-output risk minimization (spec.md §4.4). See types.go for
// the package doc comment and solve.go for the algorithm.
package bundle
