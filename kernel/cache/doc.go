// Package cache implements the LRU-managed kernel row cache that sits
// between kernel.Kernel and the SVM decomposition loop (svm), bounded by an
// MB budget rather than a fixed row count. See cache.go for the eviction
// policy and scratch-row fallback.
package cache
