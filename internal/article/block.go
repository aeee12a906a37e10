package article

// Kind classifies one rendered content block.
type Kind string

const (
	KindTitle        Kind = "title"
	KindParagraph    Kind = "paragraph"
	KindSubheading   Kind = "subheading"
	KindMinorHeading Kind = "minor_heading"
	KindListItem     Kind = "list_item"
)

// Block is one unit of rendered content tagged with language and position.
// Order is zero-based within the item's block sequence and is stable: any
// concurrent processing must restore this ordering before rendering.
type Block struct {
	Kind     Kind
	Language string
	Text     string
	Order    int
}

// SegmentKind classifies one raw segment returned by the resolver.
type SegmentKind string

const (
	SegmentParagraph    SegmentKind = "paragraph"
	SegmentSubheading   SegmentKind = "subheading"
	SegmentMinorHeading SegmentKind = "minor_heading"
	SegmentListGroup    SegmentKind = "list_group"
)

// Segment is one raw content unit from the source page. List groups carry
// their entries in Items; all other kinds carry Text. Class preserves the
// source markup class attribute so the normalizer can drop known
// non-content segments.
type Segment struct {
	Kind  SegmentKind
	Text  string
	Items []string
	Class string
}

// Article is the resolver output for a single item.
type Article struct {
	Title    string
	Segments []Segment
}
