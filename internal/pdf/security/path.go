// Package security keeps policy imports inside the configured document
// directory.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator resolves user-supplied document paths against the
// configured import directory.
type PathValidator struct {
	importDirectory string
}

// NewPathValidator creates a new path validator for the given directory
func NewPathValidator(importDirectory string) (*PathValidator, error) {
	if importDirectory == "" {
		return nil, fmt.Errorf("import directory cannot be empty")
	}
	return &PathValidator{importDirectory: importDirectory}, nil
}

// ImportDirectory returns the configured directory
func (v *PathValidator) ImportDirectory() string {
	return v.importDirectory
}

// Resolve turns path into a cleaned absolute path inside the import
// directory. Relative paths are taken relative to that directory.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.importDirectory, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	within, err := v.IsWithin(absPath)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("path is outside the import directory: %s", path)
	}

	return absPath, nil
}

// IsWithin reports whether path, and its symlink target if it has one,
// lie inside the import directory.
func (v *PathValidator) IsWithin(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absDir, err := filepath.Abs(v.importDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve import directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	dirs := []string{filepath.Clean(absDir)}
	if resolved, err := filepath.EvalSymlinks(absDir); err == nil && resolved != dirs[0] {
		dirs = append(dirs, resolved)
	}

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(cleanPath)
		if err != nil {
			return false, fmt.Errorf("failed to resolve symlink: %w", err)
		}
		realPath = resolved
	}

	return underAny(cleanPath, dirs) && underAny(realPath, dirs), nil
}

func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
