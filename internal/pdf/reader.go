package pdf

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Reader extracts plain text from PDF files
type Reader struct {
	maxTextSize int
}

// NewReader creates a new PDF reader
func NewReader() *Reader {
	return &Reader{
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ReadPages returns the plain text of every page that has any. Any page
// that fails to decode fails the whole document.
func (r *Reader) ReadPages(path string) (pages []string, pageCount int, err error) {
	defer func() {
		// The decoder panics on some malformed streams
		if rec := recover(); rec != nil {
			pages, pageCount = nil, 0
			err = inputError(path, "decode", fmt.Errorf("malformed PDF: %v", rec))
		}
	}()

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, 0, inputError(path, "open", err)
	}
	defer f.Close()

	pageCount = pdfReader.NumPage()
	totalLength := 0

	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return nil, 0, inputError(path, fmt.Sprintf("page %d", pageNum), err)
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		// Check if adding this content would exceed the limit
		if totalLength+len(content) > r.maxTextSize {
			remaining := r.maxTextSize - totalLength
			if cut := truncateText(content, remaining); cut != "" {
				pages = append(pages, cut)
			}
			break
		}

		pages = append(pages, content)
		totalLength += len(content)
	}

	return pages, pageCount, nil
}

// truncateText returns at most limit bytes of s without splitting a
// multi-byte character.
func truncateText(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
