package pdf

import "strings"

// TextResult is the plain text of a document. Pages without text are not
// included.
type TextResult struct {
	Path      string   `json:"path"`
	Size      int64    `json:"size"`
	PageCount int      `json:"page_count"`
	Pages     []string `json:"pages"`
}

// Text joins the pages, each followed by a newline.
func (r *TextResult) Text() string {
	var b strings.Builder
	for _, p := range r.Pages {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// FileInfo describes a document found in the import directory.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// SearchResult lists the documents matching a query.
type SearchResult struct {
	Directory  string     `json:"directory"`
	Query      string     `json:"query"`
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	Truncated  bool       `json:"truncated"`
}
