// Package document mutates ODT templates by splicing content blocks between
// the START_CONTENT and END_CONTENT marker paragraphs.
//
// A Template wraps the ODF zip package and an XML tree for content.xml. The
// Insert operation is deliberately two-pass: markers are located first
// without mutation, the span between them is removed in reverse index order,
// and the mapped block nodes are inserted in a single deliberate pass. If
// either marker is missing the document is left untouched and
// ErrPlaceholderMissing is returned.
//
// A loaded Template supports exactly one Insert: the markers are emptied as
// the final step, so running Insert twice on the same instance fails with
// ErrPlaceholderMissing by construction. Reload the template for another run.
package document
