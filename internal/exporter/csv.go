package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"censuscli/internal/config"
)

// CSVWriter provides CSV export functionality. Writes are all-or-nothing:
// records go to a temporary file in the destination directory and the file
// is renamed over the target only after a clean flush, so a failed run never
// leaves a partial artifact behind.
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter returns a writer anchored at the application's directory layout
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions carries the headers and rows for one whole-table write
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility; the cleaned artifact stays BOM-free
}

// WriteCSV persists headers and records to filePath in one atomic step
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV artifact",
		slog.String("path", fullPath),
		slog.Int("records", len(options.Records)))

	stream, err := newStreamWriter(fullPath, options.Headers, options.BOMPrefix)
	if err != nil {
		return err
	}

	for i, record := range options.Records {
		if err := stream.WriteRecord(record); err != nil {
			stream.Abort()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return stream.Close()
}

// StreamWriter provides streaming CSV writing for large datasets. Records
// accumulate in a temporary file; Close moves it over the destination,
// Abort discards it.
type StreamWriter struct {
	file      *os.File
	writer    *csv.Writer
	finalPath string
}

// CreateStreamWriter opens a record-at-a-time writer for large tables
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	slog.Info("Opening CSV stream",
		slog.String("path", fullPath),
		slog.Int("columns", len(headers)))

	return newStreamWriter(fullPath, headers, false)
}

func newStreamWriter(fullPath string, headers []string, bom bool) (*StreamWriter, error) {
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// The temporary file lives in the destination directory so the final
	// rename stays on one filesystem.
	file, err := os.CreateTemp(dir, filepath.Base(fullPath)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	if bom {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			file.Close()
			os.Remove(file.Name())
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			os.Remove(file.Name())
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{
		file:      file,
		writer:    writer,
		finalPath: fullPath,
	}, nil
}

// WriteRecord appends one record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes the stream and moves the temporary file over the
// destination. The destination is untouched until every record has been
// flushed successfully.
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		os.Remove(s.file.Name())
		return err
	}
	if err := s.file.Close(); err != nil {
		os.Remove(s.file.Name())
		return err
	}
	if err := os.Rename(s.file.Name(), s.finalPath); err != nil {
		os.Remove(s.file.Name())
		return fmt.Errorf("failed to move temporary file into place: %w", err)
	}
	return nil
}

// Abort closes and removes the temporary file, leaving the destination
// untouched.
func (s *StreamWriter) Abort() error {
	s.file.Close()
	return os.Remove(s.file.Name())
}

// resolvePath anchors relative paths in the processed-data directory,
// which is where cleaned datasets belong. Absolute paths pass through.
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return w.paths.GetProcessedPath(filePath)
}
