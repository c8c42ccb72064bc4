// Package validation checks input files before the pipeline spends time
// parsing them.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// maxInputSize caps input files at 50MB; grade sheets are small and
// anything larger is almost certainly the wrong file.
const maxInputSize = 50 << 20

// supportedExtensions are the input formats the loader understands.
var supportedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
}

// FileValidator validates dataset input files.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputFile checks that path points at a readable, non-empty CSV
// or XLSX file of sane size. It does not parse the content.
func (v *FileValidator) ValidateInputFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		v.logger.Error("unsupported input format",
			slog.String("path", path),
			slog.String("extension", ext))
		return fmt.Errorf("unsupported input format %q: want .csv or .xlsx", ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat input file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not an input file", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("input file %s is empty", path)
	}
	if info.Size() > maxInputSize {
		return fmt.Errorf("input file %s is %d bytes; refusing files over %d bytes",
			path, info.Size(), int64(maxInputSize))
	}

	v.logger.Debug("input file validated",
		slog.String("path", path),
		slog.Int64("size", info.Size()))

	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created, and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	os.Remove(probe)

	return nil
}
