// Package pipeline orchestrates one end-to-end run: list candidate
// articles, filter and claim them against the ledger, normalize each into
// bilingual content blocks, splice the blocks into the document template,
// render the result to PDF, and deliver it.
//
// Runs are serialized with a file lock and every temporary file lives in a
// per-run staging directory that is removed on all exit paths.
package pipeline
