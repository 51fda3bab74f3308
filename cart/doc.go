// Package cart implements the CART learner (spec.md §4.7): greedy split
// search over continuous (threshold sweep) and nominal (bipartition
// enumeration) attributes, surrogate splits for missing-value handling,
// and cost-complexity pruning with optional V-fold cross-validation.
//
// Grounded on matrix/impl_statistics.go's running weighted-variance sweep
// for the continuous split search, and tsp/bb.go's recursive
// collapse-weakest-link shape for cost-complexity pruning.
// gonum.org/v1/gonum/stat backs the one-time parent-bucket variance
// computed per attribute search (batchScore in split.go); the O(1)
// incremental left/right sweep that follows stays hand-rolled since it
// updates per threshold step, not once per attribute, and Gini impurity
// (classification) has no gonum/stat equivalent to call.
// golang.org/x/sync/errgroup parallelizes per-feature split search
// (spec §5, DOMAIN STACK).
package cart
