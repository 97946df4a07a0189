// Package depgraph resolves a target provider's declared inputs by building
// a dependency graph and evaluating it.
//
// This repository implements graph-based dependency resolution around three
// pieces:
//
//   - a graph builder that discovers a target's declared dependencies
//     (recursively) and computes a topological evaluation order
//   - a resolution engine with two execution disciplines (blocking and
//     suspending) sharing one traversal and one cache model
//   - a lifecycle ledger that releases every acquired resource exactly once,
//     in reverse acquisition order, on every exit path
//
// Wiring stays explicit: providers declare their own parameters, nothing is
// discovered by struct-field reflection, and resolution never mutates a
// built graph.
//
// See subpackages:
//   - depgraph: the library
//   - examples/*: runnable wiring demos
package depgraph
