// Package ledger persists the identifiers of already-processed source items
// in SQLite and answers "is this new?" for the pipeline.
//
// The Store is the sole authority on at-most-once processing: an identifier is
// recorded exactly once, on first acceptance, and entries are never mutated or
// deleted. Accept is idempotent and MarkNew performs the atomic
// check-and-record claim the orchestrator relies on, so concurrent runs cannot
// double-claim an item even without an external run lock.
//
// The database is long-lived, unlike staging state; treat this package as the
// single source of truth for dedup semantics. Schema changes bump the version
// in schema.go.
package ledger
