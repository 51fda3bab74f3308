// Package wdkernel implements the Weighted-Degree-with-Shifts (WDS) string
// kernel (spec.md §4.6, GLOSSARY "WD kernel"/"WDS kernel"): a position-aware
// k-mer match kernel with shifted alignments, backed by a compact
// u32-indexed trie arena for its linear-additive ("linadd") optimization,
// POIM-2 positional importance extraction, and consensus-sequence
// backtracking.
//
// Grounded on the teacher's core/adjacency_list.go arena-with-free-list
// idiom (spec §9 design note: "trie ... implement as Vec<Node> with
// NodeId(u32)"), adapted here to a fixed alphabet-4 branching factor, and
// on gridgraph/expand.go's dense-grid DP sweep for the consensus
// backtracking table.
package wdkernel
