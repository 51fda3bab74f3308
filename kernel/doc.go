// Package kernel supplies the Kernel/Normalizer abstraction consumed by
// svm, bundle, and cart (spec.md §3/§4.1). See kernel/cache for the
// bounded-size row cache that sits between a Kernel and the SVM
// decomposition loop.
package kernel
