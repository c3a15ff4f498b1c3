package pipeline

import (
	"context"
	"fmt"
	"time"

	"censuscli/internal/codebook"
	"censuscli/internal/dataset"
	"censuscli/internal/exporter"
	"censuscli/internal/infrastructure"
)

// Runner executes the fixed cleaning pipeline for one codebook.
type Runner struct {
	codebook *codebook.Codebook
	schema   *dataset.Schema
	stages   []Stage
	writer   *exporter.CSVWriter
}

// NewRunner validates the codebook and builds the stage sequence. A codebook
// that fails validation never reaches ingestion.
func NewRunner(cb *codebook.Codebook, writer *exporter.CSVWriter) (*Runner, error) {
	if err := cb.Validate(); err != nil {
		return nil, fmt.Errorf("validate codebook: %w", err)
	}
	schema, err := cb.Schema()
	if err != nil {
		return nil, fmt.Errorf("codebook schema: %w", err)
	}
	return &Runner{
		codebook: cb,
		schema:   schema,
		stages:   StagesFromCodebook(cb),
		writer:   writer,
	}, nil
}

// RunOptions names the artifacts of one run.
type RunOptions struct {
	// InputPath is the raw snapshot to clean (.csv, .data or .xlsx).
	InputPath string

	// OutputPath is the destination of the cleaned table.
	OutputPath string

	// ReportPath is the destination of the run report. Empty skips the
	// report artifact; findings still reach the returned report value.
	ReportPath string
}

// Run ingests the snapshot, applies the stage sequence, and serializes the
// cleaned table. Any fatal error aborts the run before the output artifact
// is written. The returned report carries per-stage geometry and every
// accumulated violation; violations alone never fail a run.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	logger := infrastructure.LoggerWithContext(ctx)

	report := NewReport(infrastructure.GetRunID(ctx))
	report.Input = opts.InputPath
	report.Output = opts.OutputPath
	report.CodebookVersion = r.codebook.Version

	logger.InfoContext(ctx, "pipeline_started",
		"input", opts.InputPath,
		"output", opts.OutputPath,
		"codebook_version", r.codebook.Version,
	)

	start := time.Now()
	table, err := dataset.ReadSnapshot(opts.InputPath, r.schema, r.codebook.Sentinel)
	if err != nil {
		logger.ErrorContext(ctx, "stage_failed", "stage", StageIngest, "error", err.Error())
		return nil, fmt.Errorf("ingest: %w", err)
	}
	ingest := StageResult{
		ID:         StageIngest,
		RowsIn:     table.NumRows(),
		RowsOut:    table.NumRows(),
		ColumnsIn:  table.NumColumns(),
		ColumnsOut: table.NumColumns(),
		DurationMS: time.Since(start).Milliseconds(),
	}
	report.AddStage(ingest)
	logger.InfoContext(ctx, "stage_completed",
		"stage", StageIngest,
		"rows_out", ingest.RowsOut,
		"columns_out", ingest.ColumnsOut,
		"duration_ms", ingest.DurationMS,
	)

	state := &State{Table: table, Report: report}

	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline canceled before %s: %w", stage.ID(), err)
		}

		rowsIn := state.Table.NumRows()
		columnsIn := state.Table.NumColumns()
		stageStart := time.Now()

		if err := stage.Apply(ctx, state); err != nil {
			logger.ErrorContext(ctx, "stage_failed", "stage", stage.ID(), "error", err.Error())
			return nil, fmt.Errorf("stage %s: %w", stage.ID(), err)
		}

		result := StageResult{
			ID:          stage.ID(),
			RowsIn:      rowsIn,
			RowsOut:     state.Table.NumRows(),
			RowsRemoved: rowsIn - state.Table.NumRows(),
			ColumnsIn:   columnsIn,
			ColumnsOut:  state.Table.NumColumns(),
			DurationMS:  time.Since(stageStart).Milliseconds(),
		}
		report.AddStage(result)
		logger.InfoContext(ctx, "stage_completed",
			"stage", result.ID,
			"rows_in", result.RowsIn,
			"rows_out", result.RowsOut,
			"rows_removed", result.RowsRemoved,
			"columns_out", result.ColumnsOut,
			"duration_ms", result.DurationMS,
		)
	}

	start = time.Now()
	if err := r.writer.WriteCSV(opts.OutputPath, exporter.WriteOptions{
		Headers: state.Table.Header(),
		Records: state.Table.Rows(),
	}); err != nil {
		logger.ErrorContext(ctx, "stage_failed", "stage", StageSerialize, "error", err.Error())
		return nil, fmt.Errorf("serialize: %w", err)
	}
	serialize := StageResult{
		ID:         StageSerialize,
		RowsIn:     state.Table.NumRows(),
		RowsOut:    state.Table.NumRows(),
		ColumnsIn:  state.Table.NumColumns(),
		ColumnsOut: state.Table.NumColumns(),
		DurationMS: time.Since(start).Milliseconds(),
	}
	report.AddStage(serialize)
	logger.InfoContext(ctx, "stage_completed",
		"stage", serialize.ID,
		"rows_out", serialize.RowsOut,
		"columns_out", serialize.ColumnsOut,
		"duration_ms", serialize.DurationMS,
	)

	report.Finish(state.Table.NullCounts())

	if opts.ReportPath != "" {
		if err := report.Save(opts.ReportPath); err != nil {
			logger.ErrorContext(ctx, "report_write_failed", "path", opts.ReportPath, "error", err.Error())
			return nil, fmt.Errorf("save report: %w", err)
		}
	}

	logger.InfoContext(ctx, "pipeline_completed",
		"rows_written", state.Table.NumRows(),
		"columns_written", state.Table.NumColumns(),
		"violations", len(report.Violations),
		"duration_ms", time.Since(report.StartedAt).Milliseconds(),
	)

	return report, nil
}
