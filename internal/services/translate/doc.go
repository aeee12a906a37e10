// Package translate provides the bilingual annotation step: a text-to-text
// translator into a configured target language.
//
// The Translate contract is total: it never surfaces an error to the caller.
// Any transport failure, unexpected payload, or empty result degrades to
// returning the input text unchanged, so a translation outage can never fail
// an item or a run.
package translate
