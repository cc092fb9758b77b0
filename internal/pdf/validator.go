package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator checks that a file is a PDF worth handing to the reader
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// CheckFile performs the cheap file-system checks and returns the file size.
func (v *Validator) CheckFile(filePath string) (int64, error) {
	if filePath == "" {
		return 0, inputError(filePath, "stat", fmt.Errorf("path cannot be empty"))
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return 0, inputError(filePath, "stat", fmt.Errorf("file does not exist"))
	}
	if err != nil {
		return 0, inputError(filePath, "stat", fmt.Errorf("cannot access file: %w", err))
	}

	if fileInfo.IsDir() {
		return 0, inputError(filePath, "stat", fmt.Errorf("path is a directory, not a file"))
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return 0, inputError(filePath, "stat", fmt.Errorf("file is not a PDF"))
	}

	if fileInfo.Size() == 0 {
		return 0, inputError(filePath, "stat", fmt.Errorf("file is empty"))
	}

	if fileInfo.Size() > v.maxFileSize {
		return 0, inputError(filePath, "stat", fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize))
	}

	return fileInfo.Size(), nil
}

// Validate runs CheckFile and then a relaxed structural validation with
// pdfcpu, so corrupt files are rejected before text extraction.
func (v *Validator) Validate(filePath string) (int64, error) {
	size, err := v.CheckFile(filePath)
	if err != nil {
		return 0, err
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(filePath, conf); err != nil {
		return 0, inputError(filePath, "validate", err)
	}

	return size, nil
}

// IsValidPDF performs a quick check to see if a file is a valid PDF
func (v *Validator) IsValidPDF(filePath string) bool {
	_, err := v.Validate(filePath)
	return err == nil
}
