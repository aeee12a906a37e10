package testsupport

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// TemplateODT builds a minimal ODT document whose body holds the given
// paragraphs. Callers typically include the content markers.
func TemplateODT(t testing.TB, paragraphs ...string) []byte {
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

// WriteTemplateODT writes a marker-bearing template document to path.
func WriteTemplateODT(t testing.TB, path string) {
	t.Helper()

	raw := TemplateODT(t, "Daily Digest", "START_CONTENT", "placeholder", "END_CONTENT")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
