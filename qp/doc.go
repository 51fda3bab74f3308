// Package qp solves the small box-and-equality-constrained quadratic
// subproblems that arise inside one SVM decomposition iteration. See
// solver.go for the GVPM/Dai-Fletcher scaffold and pardalos.go for the
// shared projection primitive.
package qp
