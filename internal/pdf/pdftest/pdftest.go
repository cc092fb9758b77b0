// Package pdftest writes small single-font PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

// Write creates dir/name with one page per entry of pages, each showing its
// text in Helvetica with WinAnsi encoding, and returns the file path. An
// empty entry produces a page without text.
func Write(tb testing.TB, dir, name string, pages ...string) string {
	tb.Helper()

	data, err := Build(pages...)
	if err != nil {
		tb.Fatalf("build pdf: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write pdf: %v", err)
	}
	return path
}

// Build returns the bytes of a PDF with the given page texts. Text must be
// representable in Windows-1252.
func Build(pages ...string) ([]byte, error) {
	if len(pages) == 0 {
		pages = []string{""}
	}

	var objects []string
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)

	for i, text := range pages {
		content, err := contentStream(text)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes(), nil
}

func contentStream(text string) (string, error) {
	if text == "" {
		return "", nil
	}

	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		return "", fmt.Errorf("text is not Windows-1252: %w", err)
	}

	escaped := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(encoded)
	return fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escaped), nil
}
