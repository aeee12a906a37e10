// Package gktoday resolves article listings and article bodies from the
// GKToday current-affairs site.
//
// ListCandidates walks a bounded number of listing pages and returns article
// URLs best-effort: a failed page is logged and skipped, partial results are
// returned. Resolve fetches one article and extracts its title and raw
// content segments; a page without the expected content root or heading is a
// per-item not-found failure, never a run-fatal one.
package gktoday
