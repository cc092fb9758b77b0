package pdf

import (
	"context"
	"fmt"

	"github.com/a3tai/policy-tracker/internal/logging"
	"github.com/a3tai/policy-tracker/internal/pdf/security"
)

// Service turns policy documents into text by orchestrating the path
// check, the validator and the reader
type Service struct {
	maxFileSize   int64
	validator     *Validator
	reader        *Reader
	search        *Search
	pathValidator *security.PathValidator
	logger        logging.Logger
}

// NewService creates a new PDF service that only reads files under
// importDirectory
func NewService(maxFileSize int64, importDirectory string, logger logging.Logger) (*Service, error) {
	if maxFileSize <= 0 {
		return nil, fmt.Errorf("maxFileSize must be greater than 0")
	}

	pathValidator, err := security.NewPathValidator(importDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	if logger == nil {
		logger = logging.NewNop()
	}

	return &Service{
		maxFileSize:   maxFileSize,
		validator:     NewValidator(maxFileSize),
		reader:        NewReader(),
		search:        NewSearch(pathValidator.ImportDirectory(), maxFileSize),
		pathValidator: pathValidator,
		logger:        logger.Named("pdf"),
	}, nil
}

// ExtractText returns the per-page text of the document at path. Every
// failure is an *ExtractionInputError.
func (s *Service) ExtractText(ctx context.Context, path string) (*TextResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, inputError(path, "cancelled", err)
	}

	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return nil, inputError(path, "resolve", err)
	}

	size, err := s.validator.Validate(resolved)
	if err != nil {
		s.logger.Warn("rejected document", logging.String("path", resolved), logging.Err(err))
		return nil, err
	}

	pages, pageCount, err := s.reader.ReadPages(resolved)
	if err != nil {
		s.logger.Warn("text extraction failed", logging.String("path", resolved), logging.Err(err))
		return nil, err
	}

	s.logger.Debug("extracted text",
		logging.String("path", resolved),
		logging.Int("pages", pageCount),
		logging.Int("text_pages", len(pages)))

	return &TextResult{
		Path:      resolved,
		Size:      size,
		PageCount: pageCount,
		Pages:     pages,
	}, nil
}

// FindDocuments lists the PDF files in the import directory whose names
// match query
func (s *Service) FindDocuments(ctx context.Context, query string, limit int) (*SearchResult, error) {
	return s.search.FindDocuments(ctx, query, limit)
}

// ImportDirectory returns the directory documents are read from
func (s *Service) ImportDirectory() string {
	return s.pathValidator.ImportDirectory()
}

// MaxFileSize returns the maximum file size limit
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}
