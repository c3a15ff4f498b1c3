package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	pipeerrors "censuscli/internal/errors"
)

// ReadWorkbook reads a raw snapshot from the first sheet of an Excel
// workbook. Cells are trimmed and sentinel-mapped exactly like delimited
// text ingestion, so everything downstream of the reader is format
// agnostic. Fully empty rows (a common artifact of exported workbooks) are
// skipped; any other row whose cell count differs from the schema fails
// with a schema-mismatch error.
func ReadWorkbook(path string, schema *Schema, sentinel string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, path, err)
	}

	var rows [][]string
	rowNum := 0

	for _, record := range raw {
		rowNum++

		if isEmptyRow(record) {
			continue
		}
		if len(record) != schema.Len() {
			return nil, fmt.Errorf("read snapshot %s: %w", path,
				pipeerrors.NewSchemaMismatch(ingestStage, rowNum, schema.Len(), len(record)))
		}

		row := make([]string, len(record))
		for i, cell := range record {
			row[i] = normalizeCell(cell, sentinel)
		}
		rows = append(rows, row)
	}

	return New(schema, rows)
}

func isEmptyRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
