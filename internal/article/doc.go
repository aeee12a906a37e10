// Package article defines the content-block model and the normalizer that
// turns one resolved source item into an ordered, bilingual block sequence.
//
// A resolved article is a title plus raw segments (paragraphs, subheadings,
// minor headings, list groups). The normalizer emits one block per required
// language per segment: the translated variant immediately before its
// original-language counterpart, with the title's two variants always first.
// Translation failures degrade to identity passthrough and never fail an
// item. Block order is the contract consumers rely on; the template engine
// inserts blocks exactly in slice order.
package article
