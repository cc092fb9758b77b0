package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Search finds policy documents under the import directory
type Search struct {
	directory string
	validator *Validator
}

// NewSearch creates a search rooted at directory
func NewSearch(directory string, maxFileSize int64) *Search {
	return &Search{
		directory: directory,
		validator: NewValidator(maxFileSize),
	}
}

// FindDocuments walks the directory and returns the PDF files whose name
// matches query. An empty query matches every file; limit <= 0 means no
// limit. Hidden directories are skipped.
func (s *Search) FindDocuments(ctx context.Context, query string, limit int) (*SearchResult, error) {
	if s.directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if _, err := os.Stat(s.directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", s.directory)
	}

	query = foldFileName(strings.TrimSpace(query))
	result := &SearchResult{Directory: s.directory, Query: query}

	err := filepath.WalkDir(s.directory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.directory {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 || !isPDFFile(d.Name()) {
			return nil
		}

		if !matchesQuery(d.Name(), query) {
			return nil
		}

		size, err := s.validator.CheckFile(path)
		if err != nil {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		if limit > 0 && len(result.Files) >= limit {
			result.Truncated = true
			return filepath.SkipAll
		}

		result.Files = append(result.Files, FileInfo{
			Path:         path,
			Name:         d.Name(),
			Size:         size,
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	result.TotalCount = len(result.Files)
	return result, nil
}

func isPDFFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// matchesQuery matches when every query word is part of some word of the
// file name. query must already be folded.
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	name := strings.TrimSuffix(foldFileName(filename), ".pdf")
	if strings.Contains(name, query) {
		return true
	}

	words := splitIntoWords(name)
	for _, queryWord := range splitIntoWords(query) {
		found := false
		for _, word := range words {
			if strings.Contains(word, queryWord) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.', '(', ')', '[', ']':
			return true
		}
		return false
	})
}

// foldFileName lowercases with Turkish rules and merges dotted and dotless
// i, so "ALİ" and "ali" find the same file.
func foldFileName(s string) string {
	return strings.ReplaceAll(cases.Lower(language.Turkish).String(s), "ı", "i")
}
