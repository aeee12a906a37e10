package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"

	"gazette/internal/article"
)

const (
	// StartMarker and EndMarker are the literal sentinel values the template
	// must contain, each in its own paragraph.
	StartMarker = "START_CONTENT"
	EndMarker   = "END_CONTENT"

	contentEntry  = "content.xml"
	mimetypeEntry = "mimetype"
)

// ErrPlaceholderMissing indicates the template does not contain both markers
// in order. Fatal for the run; the document is never partially mutated.
var ErrPlaceholderMissing = errors.New("placeholder not found")

type zipEntry struct {
	name string
	data []byte
}

// Template is a loaded ODT document. It is not safe for concurrent use and
// supports a single Insert per load.
type Template struct {
	entries []zipEntry
	content *etree.Document
}

// Load reads an ODT package from r.
func Load(r io.Reader) (*Template, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("template is empty")
	}

	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open template package: %w", err)
	}

	tpl := &Template{}
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file.Name, err)
		}
		tpl.entries = append(tpl.entries, zipEntry{name: file.Name, data: data})
	}

	contentData, ok := tpl.entry(contentEntry)
	if !ok {
		return nil, fmt.Errorf("template package missing %s", contentEntry)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(contentData); err != nil {
		return nil, fmt.Errorf("parse %s: %w", contentEntry, err)
	}
	tpl.content = doc
	if tpl.bodyText() == nil {
		return nil, errors.New("template content has no office:text body")
	}
	return tpl, nil
}

// LoadFile reads an ODT package from disk.
func LoadFile(path string) (*Template, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template file: %w", err)
	}
	defer file.Close()
	return Load(file)
}

// Paragraphs returns the text of every paragraph-like node in document order.
func (t *Template) Paragraphs() []string {
	nodes := t.paragraphNodes()
	texts := make([]string, len(nodes))
	for i, node := range nodes {
		texts[i] = collectText(node)
	}
	return texts
}

// Insert replaces the span between the START_CONTENT and END_CONTENT markers
// with the given blocks, in order, then empties both marker paragraphs. The
// rest of the document is untouched. Precondition: the template was freshly
// loaded; Insert consumes the markers and cannot run twice on one instance.
func (t *Template) Insert(blocks []article.Block) error {
	nodes := t.paragraphNodes()

	startIdx, endIdx := -1, -1
	for i, node := range nodes {
		text := collectText(node)
		if startIdx < 0 && strings.Contains(text, StartMarker) {
			startIdx = i
			continue
		}
		if startIdx >= 0 && strings.Contains(text, EndMarker) {
			endIdx = i
			break
		}
	}
	if startIdx < 0 || endIdx < 0 {
		return fmt.Errorf("%w: need %s before %s", ErrPlaceholderMissing, StartMarker, EndMarker)
	}

	parent := t.bodyText()

	// Remove the existing span in reverse so earlier indices stay valid.
	for i := endIdx - 1; i > startIdx; i-- {
		parent.RemoveChild(nodes[i])
	}

	// Build replacement nodes and splice them in directly after the start
	// marker, preserving block order.
	startToken := nodes[startIdx].Index()
	for i, block := range blocks {
		parent.InsertChildAt(startToken+1+i, newBlockNode(block))
	}

	clearNode(nodes[startIdx])
	clearNode(nodes[endIdx])
	return nil
}

// WriteTo serializes the mutated package. The mimetype entry is written
// first and uncompressed, per ODF packaging rules.
func (t *Template) WriteTo(w io.Writer) error {
	contentData, err := t.content.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serialize %s: %w", contentEntry, err)
	}

	zw := zip.NewWriter(w)
	if mimetype, ok := t.entry(mimetypeEntry); ok {
		header := &zip.FileHeader{Name: mimetypeEntry, Method: zip.Store}
		entry, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("write mimetype: %w", err)
		}
		if _, err := entry.Write(mimetype); err != nil {
			return fmt.Errorf("write mimetype: %w", err)
		}
	}
	for _, e := range t.entries {
		if e.name == mimetypeEntry {
			continue
		}
		data := e.data
		if e.name == contentEntry {
			data = contentData
		}
		entry, err := zw.Create(e.name)
		if err != nil {
			return fmt.Errorf("write %s: %w", e.name, err)
		}
		if _, err := entry.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", e.name, err)
		}
	}
	return zw.Close()
}

// SaveFile serializes the mutated package to disk.
func (t *Template) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	if err := t.WriteTo(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (t *Template) entry(name string) ([]byte, bool) {
	for _, e := range t.entries {
		if e.name == name {
			return e.data, true
		}
	}
	return nil, false
}

func (t *Template) bodyText() *etree.Element {
	root := t.content.Root()
	if root == nil {
		return nil
	}
	body := findChild(root, "body")
	if body == nil {
		return nil
	}
	return findChild(body, "text")
}

func (t *Template) paragraphNodes() []*etree.Element {
	parent := t.bodyText()
	if parent == nil {
		return nil
	}
	var nodes []*etree.Element
	for _, child := range parent.ChildElements() {
		if child.Tag == "p" || child.Tag == "h" {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

func newBlockNode(block article.Block) *etree.Element {
	switch block.Kind {
	case article.KindTitle:
		return newHeading("1", block.Text)
	case article.KindSubheading:
		return newHeading("2", block.Text)
	case article.KindMinorHeading:
		return newHeading("4", block.Text)
	default:
		node := etree.NewElement("text:p")
		node.SetText(block.Text)
		return node
	}
}

func newHeading(level, text string) *etree.Element {
	node := etree.NewElement("text:h")
	node.CreateAttr("text:outline-level", level)
	node.SetText(text)
	return node
}

func clearNode(node *etree.Element) {
	for len(node.Child) > 0 {
		node.RemoveChildAt(0)
	}
}

func findChild(parent *etree.Element, tag string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

func collectText(node *etree.Element) string {
	var builder strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.Child {
			switch token := child.(type) {
			case *etree.CharData:
				builder.WriteString(token.Data)
			case *etree.Element:
				walk(token)
			}
		}
	}
	walk(node)
	return builder.String()
}
