package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pipeerrors "censuscli/internal/errors"
)

// ingestStage names the pipeline stage reported by ingestion errors.
const ingestStage = "ingest"

// ReadSnapshot reads a raw snapshot into a table, dispatching on the file
// extension: .xlsx snapshots go through the workbook reader, everything else
// is treated as header-less delimited text.
func ReadSnapshot(path string, schema *Schema, sentinel string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadWorkbook(path, schema, sentinel)
	}
	return ReadCSV(path, schema, sentinel)
}

// ReadCSV reads a header-less delimited snapshot from path. Each cell is
// trimmed of incidental whitespace and cells equal to the sentinel token are
// rewritten to Null. A row whose cell count differs from the schema fails
// with a schema-mismatch error before any table is returned.
func ReadCSV(path string, schema *Schema, sentinel string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer file.Close()

	table, err := ReadCSVFrom(file, schema, sentinel)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return table, nil
}

// ReadCSVFrom reads a header-less delimited snapshot from r.
func ReadCSVFrom(r io.Reader, schema *Schema, sentinel string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Column count enforcement is ours so mismatches surface as typed
	// schema errors with a row number rather than csv.ErrFieldCount.
	reader.FieldsPerRecord = -1

	var rows [][]string
	rowNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse row %d: %w", rowNum+1, err)
		}
		rowNum++

		if len(record) != schema.Len() {
			return nil, pipeerrors.NewSchemaMismatch(ingestStage, rowNum, schema.Len(), len(record))
		}

		row := make([]string, len(record))
		for i, cell := range record {
			row[i] = normalizeCell(cell, sentinel)
		}
		rows = append(rows, row)
	}

	return New(schema, rows)
}

// normalizeCell trims incidental whitespace and maps the sentinel token to
// the Null marker.
func normalizeCell(cell, sentinel string) string {
	cell = strings.TrimSpace(cell)
	if cell == sentinel {
		return Null
	}
	return cell
}
