package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"censuscli/internal/config"
)

// snapshotExtensions are the raw snapshot formats the pipeline can ingest.
var snapshotExtensions = map[string]bool{
	config.SnapshotExtCSV:  true,
	config.SnapshotExtData: true,
	config.SnapshotExtXLSX: true,
}

// FileValidator runs the preflight path checks shared by the executables.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a validator. A nil logger falls back to the
// process default.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateOutputDirectory creates the directory when missing and probes it
// for writability, so a run fails before cleaning instead of after.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Output directory unusable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFile checks that path names an existing, readable regular file.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		v.logger.Error("Input file missing", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	case err != nil:
		v.logger.Error("Input file stat failed",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	case info.IsDir():
		v.logger.Error("Input path is a directory", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	probe, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	probe.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateSnapshotFile checks that path is a readable snapshot in one of the
// ingestible formats (.csv, .data or .xlsx). Excel lock files are rejected
// before touching the filesystem.
func (v *FileValidator) ValidateSnapshotFile(path string) error {
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Excel lock file rejected", slog.String("file", path))
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}

	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if ext := strings.ToLower(filepath.Ext(path)); !snapshotExtensions[ext] {
		v.logger.Error("Unsupported snapshot format",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not a recognized snapshot format (extension: %s)", path, ext)
	}
	return nil
}
