// Package validation provides file-level preflight checks shared by the
// ingestion tools.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileValidator checks data files and directories before ingestion touches
// them, so loaders can assume readable input.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputDirectory validates that the input directory exists and, when
// a glob pattern is given, reports how many candidate files it holds. An
// empty match set is not an error, just nothing to process.
func (v *FileValidator) ValidateInputDirectory(dir string, requiredPattern string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if requiredPattern != "" {
		matches, err := filepath.Glob(filepath.Join(dir, requiredPattern))
		if err != nil {
			return fmt.Errorf("failed to check for files: %w", err)
		}
		v.logger.Info("input directory validated",
			slog.String("directory", dir),
			slog.String("pattern", requiredPattern),
			slog.Int("files_found", len(matches)))
	}
	return nil
}

// ValidateOutputDirectory ensures the output directory exists, creating it
// when missing, and verifies it is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)
	return nil
}

// ValidateFile checks that a path names a readable regular file.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateBarFile checks that a path names a readable bar data file in one
// of the supported formats. Editor lock files (~$...) are rejected.
func (v *FileValidator) ValidateBarFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("file %s is a temporary editor file", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx":
		return nil
	default:
		return fmt.Errorf("file %s is not a supported bar file (.csv or .xlsx)", path)
	}
}

// CountFiles counts regular files matching a glob pattern in a directory.
func (v *FileValidator) CountFiles(dir string, pattern string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}

	fileCount := 0
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && !info.IsDir() {
			fileCount++
		}
	}
	return fileCount, nil
}
