package pdf

import "fmt"

// ExtractionInputError means a document could not be turned into text:
// it is missing, not a PDF, too large, or corrupt. The import is aborted and
// no candidate record is produced.
type ExtractionInputError struct {
	Path string
	Op   string
	Err  error
}

func (e *ExtractionInputError) Error() string {
	return fmt.Sprintf("cannot read PDF %s (%s): %v", e.Path, e.Op, e.Err)
}

func (e *ExtractionInputError) Unwrap() error {
	return e.Err
}

func inputError(path, op string, err error) error {
	return &ExtractionInputError{Path: path, Op: op, Err: err}
}
