// Package dag provides a DAG (Directed Acyclic Graph) orchestration engine
// for running pluggable analysis units in dependency order.
//
// A Graph declares nodes and edges; Kahn's algorithm resolves them into
// levels of parallel-safe batches. Per level the Engine spawns one task per
// node behind a join barrier, resolves each node's input from its
// producers' recorded outputs via declarative input mappings, and contains
// every node failure as data: units never raise errors out of the engine.
// Once any node has failed, no later level starts; results already produced
// are retained and aggregated.
//
// Units resolve through a Registry of constructor closures keyed by
// capability locator, built once per node id for the engine's lifetime.
package dag
