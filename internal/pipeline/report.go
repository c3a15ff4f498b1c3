package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StageResult records the table geometry around one stage execution.
type StageResult struct {
	ID          string `json:"id"`
	RowsIn      int    `json:"rows_in"`
	RowsOut     int    `json:"rows_out"`
	RowsRemoved int    `json:"rows_removed"`
	ColumnsIn   int    `json:"columns_in"`
	ColumnsOut  int    `json:"columns_out"`
	DurationMS  int64  `json:"duration_ms"`
}

// Violation is one non-fatal data-quality finding, aggregated per stage and
// column with a count rather than one entry per cell.
type Violation struct {
	Stage  string `json:"stage"`
	Column string `json:"column"`
	Count  int    `json:"count"`
	Detail string `json:"detail"`
}

// Report is the run report artifact written alongside the cleaned table.
// The cleaned table carries the byte-identical determinism guarantee; the
// report deliberately embeds run-scoped identifiers and timings.
type Report struct {
	RunID           string         `json:"run_id"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	Input           string         `json:"input"`
	Output          string         `json:"output"`
	CodebookVersion string         `json:"codebook_version"`
	Stages          []StageResult  `json:"stages"`
	Violations      []Violation    `json:"violations"`
	NullCounts      map[string]int `json:"null_counts"`
}

// NewReport starts a report for one run.
func NewReport(runID string) *Report {
	return &Report{
		RunID:      runID,
		StartedAt:  time.Now().UTC(),
		Stages:     []StageResult{},
		Violations: []Violation{},
	}
}

// AddStage appends one stage entry, preserving execution order.
func (r *Report) AddStage(result StageResult) {
	r.Stages = append(r.Stages, result)
}

// AddViolation appends one aggregated data-quality finding.
func (r *Report) AddViolation(stage, column string, count int, detail string) {
	r.Violations = append(r.Violations, Violation{
		Stage:  stage,
		Column: column,
		Count:  count,
		Detail: detail,
	})
}

// Finish stamps the end time and captures the final per-column null counts.
func (r *Report) Finish(nullCounts map[string]int) {
	r.FinishedAt = time.Now().UTC()
	r.NullCounts = nullCounts
}

// Save writes the report as indented JSON, creating the target directory
// when missing.
func (r *Report) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
