package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// bulletGlyph prefixes every expanded list entry.
const bulletGlyph = "• "

// SourceLanguage tags the untranslated block variants. The supported source
// publishes in English.
const SourceLanguage = "en"

// nonContentMarkers identify segment classes that carry no article content
// (share widgets, prev/next navigation) and must contribute no blocks.
var nonContentMarkers = []string{
	"sharethis-inline-share-buttons",
	"prenext",
}

// Resolver resolves an item identifier into a title and raw segments.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*Article, error)
}

// Translator converts text into the target language. Implementations never
// fail: on any internal error they return the input unchanged.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Normalizer converts one resolved item into an ordered bilingual block
// sequence.
type Normalizer struct {
	resolver       Resolver
	translator     Translator
	targetLanguage string
}

// NewNormalizer constructs a normalizer for the given target language.
func NewNormalizer(resolver Resolver, translator Translator, targetLanguage string) (*Normalizer, error) {
	if resolver == nil {
		return nil, errors.New("resolver required")
	}
	if translator == nil {
		return nil, errors.New("translator required")
	}
	targetLanguage = strings.TrimSpace(targetLanguage)
	if targetLanguage == "" {
		return nil, errors.New("target language required")
	}
	return &Normalizer{
		resolver:       resolver,
		translator:     translator,
		targetLanguage: targetLanguage,
	}, nil
}

// Normalize resolves the identifier and emits its blocks. The translated
// variant of each segment precedes its original; the title pair is always
// first. Resolver failures surface to the caller as per-item errors.
func (n *Normalizer) Normalize(ctx context.Context, identifier string) ([]Block, error) {
	resolved, err := n.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", identifier, err)
	}

	var blocks []Block
	emit := func(kind Kind, text string) {
		blocks = append(blocks,
			Block{Kind: kind, Language: n.targetLanguage, Text: n.translator.Translate(ctx, text), Order: len(blocks)},
			Block{Kind: kind, Language: SourceLanguage, Text: text, Order: len(blocks) + 1},
		)
	}

	emit(KindTitle, resolved.Title)

	for _, segment := range resolved.Segments {
		if isNonContent(segment.Class) {
			continue
		}
		switch segment.Kind {
		case SegmentParagraph:
			if text := strings.TrimSpace(segment.Text); text != "" {
				emit(KindParagraph, text)
			}
		case SegmentSubheading:
			if text := strings.TrimSpace(segment.Text); text != "" {
				emit(KindSubheading, text)
			}
		case SegmentMinorHeading:
			if text := strings.TrimSpace(segment.Text); text != "" {
				emit(KindMinorHeading, text)
			}
		case SegmentListGroup:
			// The bullet is presentation, not content: translate the entry
			// text alone, then prefix both variants.
			for _, item := range segment.Items {
				text := strings.TrimSpace(item)
				if text == "" {
					continue
				}
				blocks = append(blocks,
					Block{Kind: KindListItem, Language: n.targetLanguage, Text: bulletGlyph + n.translator.Translate(ctx, text), Order: len(blocks)},
					Block{Kind: KindListItem, Language: SourceLanguage, Text: bulletGlyph + text, Order: len(blocks) + 1},
				)
			}
		}
	}

	return blocks, nil
}

func isNonContent(class string) bool {
	for _, marker := range nonContentMarkers {
		if strings.Contains(class, marker) {
			return true
		}
	}
	return false
}
