package pipeline

import (
	"context"

	"censuscli/internal/dataset"
)

// State is the shared run state threaded through the stages: the current
// table value and the report accumulating stage results and violations.
// Stages never mutate the table they receive; they replace state.Table with
// a new value.
type State struct {
	Table  *dataset.Table
	Report *Report
}

// Stage is one step of the cleaning pipeline. Apply consumes state.Table
// and replaces it with the transformed table; non-fatal findings go on
// state.Report, fatal conditions are returned and abort the run.
type Stage interface {
	// ID returns the stable identifier used in logs and the run report.
	ID() string

	// Name returns the human-readable stage name.
	Name() string

	// Apply runs the stage against the current state.
	Apply(ctx context.Context, state *State) error
}
