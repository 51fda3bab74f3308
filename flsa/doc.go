// Package flsa implements the Subgradient Finding Algorithm (SFA) for the
// Fused-Lasso Signal Approximator proximal step (spec.md §4.6, GLOSSARY
// "SFA"):
//
//	minimize_x  1/2 ||x - v||^2 + lambda * ||A x||_1
//
// where A is the first-difference operator. The problem is solved in its
// box-constrained dual
//
//	minimize_z  1/2 z^T (A A^T) z - <z, A v>,   |z_i| <= lambda
//
// by Nesterov's accelerated projected-gradient method with a fixed step of
// 1/4 (the reciprocal of the Lipschitz constant of A A^T, which is
// tridiagonal with diagonal 2 and off-diagonal -1), periodically restarted
// by recovering the active/free index partition implied by the current
// iterate and re-solving the free blocks' tridiagonal system exactly (spec
// §4.6 "restart technique ... re-solves the tridiagonal system").
//
// Grounded on the teacher's dtw.go banded-DP sweep (a tridiagonal-adjacent
// structure solved left-to-right with an explicit stop test), adapted here
// to the Thomas/Rose tridiagonal factorization pair named in spec.md.
package flsa
