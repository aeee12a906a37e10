package document_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"gazette/internal/article"
	"gazette/internal/document"
)

func buildTemplate(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var content strings.Builder
	content.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	content.WriteString(`<office:document-content`)
	content.WriteString(` xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"`)
	content.WriteString(` xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">`)
	content.WriteString(`<office:body><office:text>`)
	for _, p := range paragraphs {
		content.WriteString(`<text:p>` + p + `</text:p>`)
	}
	content.WriteString(`</office:text></office:body></office:document-content>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	mimetype, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("create mimetype: %v", err)
	}
	if _, err := io.WriteString(mimetype, "application/vnd.oasis.opendocument.text"); err != nil {
		t.Fatalf("write mimetype: %v", err)
	}
	entry, err := zw.Create("content.xml")
	if err != nil {
		t.Fatalf("create content.xml: %v", err)
	}
	if _, err := io.WriteString(entry, content.String()); err != nil {
		t.Fatalf("write content.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func standardTemplate(t *testing.T) *document.Template {
	t.Helper()
	raw := buildTemplate(t, "Daily Digest", "START_CONTENT", "stale one", "stale two", "END_CONTENT", "Footer")
	tpl, err := document.Load(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return tpl
}

func digestBlocks() []article.Block {
	return []article.Block{
		{Kind: article.KindTitle, Language: "gu", Text: "શીર્ષક", Order: 0},
		{Kind: article.KindTitle, Language: "en", Text: "Title", Order: 1},
		{Kind: article.KindSubheading, Language: "en", Text: "Section", Order: 2},
		{Kind: article.KindMinorHeading, Language: "en", Text: "Detail", Order: 3},
		{Kind: article.KindParagraph, Language: "en", Text: "Body text.", Order: 4},
		{Kind: article.KindListItem, Language: "en", Text: "• Entry", Order: 5},
	}
}

func TestInsertReplacesSpanExactly(t *testing.T) {
	tpl := standardTemplate(t)
	blocks := digestBlocks()

	if err := tpl.Insert(blocks); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got := tpl.Paragraphs()
	want := []string{"Daily Digest", "", "શીર્ષક", "Title", "Section", "Detail", "Body text.", "• Entry", "", "Footer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected paragraph sequence:\n got %q\nwant %q", got, want)
	}
}

func TestInsertEmptyBlocksLeavesMarkersCleared(t *testing.T) {
	tpl := standardTemplate(t)
	if err := tpl.Insert(nil); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	got := tpl.Paragraphs()
	want := []string{"Daily Digest", "", "", "Footer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected paragraph sequence: %q", got)
	}
}

func TestInsertMissingMarkerLeavesDocumentUnmodified(t *testing.T) {
	cases := []struct {
		name       string
		paragraphs []string
	}{
		{"no start", []string{"Intro", "body", "END_CONTENT"}},
		{"no end", []string{"Intro", "START_CONTENT", "body"}},
		{"end before start", []string{"END_CONTENT", "body", "START_CONTENT"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := buildTemplate(t, tc.paragraphs...)
			tpl, err := document.Load(bytes.NewReader(raw))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			before := tpl.Paragraphs()

			err = tpl.Insert(digestBlocks())
			if !errors.Is(err, document.ErrPlaceholderMissing) {
				t.Fatalf("expected ErrPlaceholderMissing, got %v", err)
			}
			if !reflect.DeepEqual(tpl.Paragraphs(), before) {
				t.Fatalf("document mutated on failed insert: %q", tpl.Paragraphs())
			}
		})
	}
}

func TestInsertIsSingleUse(t *testing.T) {
	tpl := standardTemplate(t)
	if err := tpl.Insert(digestBlocks()); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	if err := tpl.Insert(digestBlocks()); !errors.Is(err, document.ErrPlaceholderMissing) {
		t.Fatalf("expected second insert to fail with ErrPlaceholderMissing, got %v", err)
	}
}

func TestWriteToRoundTripsAndKeepsMimetypeFirst(t *testing.T) {
	tpl := standardTemplate(t)
	if err := tpl.Insert(digestBlocks()); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	var out bytes.Buffer
	if err := tpl.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	if err != nil {
		t.Fatalf("reopen package: %v", err)
	}
	if len(reader.File) == 0 || reader.File[0].Name != "mimetype" {
		t.Fatalf("expected mimetype as first entry, got %+v", reader.File)
	}
	if reader.File[0].Method != zip.Store {
		t.Fatalf("expected mimetype stored uncompressed, got method %d", reader.File[0].Method)
	}

	reloaded, err := document.Load(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got := reloaded.Paragraphs()
	for _, fragment := range []string{"શીર્ષક", "Body text.", "• Entry"} {
		if !containsString(got, fragment) {
			t.Fatalf("expected %q in reloaded paragraphs %q", fragment, got)
		}
	}

	contentXML := readEntry(t, reader, "content.xml")
	for _, want := range []string{`text:outline-level="1"`, `text:outline-level="2"`, `text:outline-level="4"`} {
		if !strings.Contains(contentXML, want) {
			t.Fatalf("expected heading level marker %s in content.xml", want)
		}
	}
}

func TestLoadRejectsEmptyAndNonZipInput(t *testing.T) {
	if _, err := document.Load(bytes.NewReader(nil)); err == nil {
		t.Fatal("expected error for empty template")
	}
	if _, err := document.Load(strings.NewReader("not a zip")); err == nil {
		t.Fatal("expected error for corrupt template")
	}
}

func readEntry(t *testing.T, reader *zip.Reader, name string) string {
	t.Helper()
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

func containsString(values []string, fragment string) bool {
	for _, value := range values {
		if strings.Contains(value, fragment) {
			return true
		}
	}
	return false
}
