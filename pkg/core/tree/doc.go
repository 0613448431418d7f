// Package tree reconstructs the import hierarchy from a flat trace.
//
// # Overview
//
// The interpreter reports a module after all of its own imports have
// finished, so a trace lists children before their parent. [Build] walks the
// records from last to first with a stack of open nodes, attaching each
// record to the nearest open node one level shallower. Sibling order is the
// order of first appearance in the trace and is never changed afterwards.
//
// # Storage
//
// A [Tree] is an arena: every [Node] lives in one slice and refers to its
// parent and children by [NodeID]. ID 0 is a synthetic root that owns all
// top-level imports and whose cumulative time is the trace total. Node IDs
// follow pre-order, so the layout can emit boxes in ID order.
//
// # Invariants
//
// For every node, Cumulative >= Self and Cumulative >= the sum of its
// children's cumulative times. [Build] rejects traces that break either
// rule, and [Tree.Validate] re-derives both from a finished tree.
//
// # Order Preservation
//
// [Tree.Records] visits children before their parent, which yields the
// input records in their original order.
package tree
