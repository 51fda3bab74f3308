// Package graph implements a small, typed, eagerly-evaluated computation
// graph: a node vocabulary of arithmetic/logical/shape operations, shape
// inference (including a Dynamic placeholder dimension), and dispatch to
// one of several execution backends.
//
// Grounded structurally on the teacher's core.Graph/core.Vertex/core.Edge
// (arena-style adjacency, RWMutex-protected mutation, Clone): a Node plays
// the role of Vertex (it carries Shape/ElemType/OpKind instead of free-form
// Metadata), and a node's Inputs list plays the role of Edge (no Weight).
// Build mirrors builder.BuildGraph's single-orchestrator pattern: it
// resolves one op implementation per (backend, op, dtype) and fails
// immediately, with no partial cleanup, on the first unsupported
// combination.
package graph
