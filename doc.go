// Package workcopy implements a working-copy engine: it materializes
// tree objects onto a real (or go-billy-backed) filesystem, snapshots an
// on-disk directory back into a tree object, and reconciles both against
// a narrowing or widening sparse-checkout scope, all while tracking
// per-path file state cheaply enough to avoid re-hashing unchanged
// content on every operation.
//
// A Workspace owns exactly one on-disk tree-state file and accepts at
// most one in-flight Mutation at a time; every write path — Checkout,
// Snapshot, Reset, SetSparsePatterns — goes through a Mutation acquired
// with Workspace.StartMutation. Checkout and SetSparsePatterns touch the
// filesystem to match a target tree; Reset only repoints the tracked
// tree and index, leaving whatever is already on disk alone.
package workcopy
