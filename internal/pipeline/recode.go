package pipeline

import (
	"fmt"

	"censuscli/internal/dataset"
)

// Collapse rewrites the named column in place through mapping: values
// present as keys are replaced, values absent PASS THROUGH unchanged. An
// unmapped value is policy, not an error; partial maps are how open
// residual categories survive consolidation.
//
// Collapse and Derive deliberately carry different unmapped-value policies.
// Keeping them as two named operations is what prevents the policies from
// bleeding into each other.
func Collapse(t *dataset.Table, column string, mapping map[string]string) (*dataset.Table, error) {
	out, err := t.MapColumn(column, func(value string) string {
		if mapped, ok := mapping[value]; ok {
			return mapped
		}
		return value
	})
	if err != nil {
		return nil, fmt.Errorf("collapse %q: %w", column, err)
	}
	return out, nil
}

// Derive computes target from source through mapping: source values present
// as keys yield their mapped value, values absent yield NULL in the target
// column (not a pass-through). The map is intentionally partial and lossy;
// a miss is policy, not an error.
//
// The target column is appended on first use and overwritten when it
// already exists, so re-running a derive is idempotent while the source
// column is unchanged.
func Derive(t *dataset.Table, source, target string, mapping map[string]string) (*dataset.Table, error) {
	values, err := t.Column(source)
	if err != nil {
		return nil, fmt.Errorf("derive %q from %q: %w", target, source, err)
	}

	derived := make([]string, len(values))
	for i, value := range values {
		if mapped, ok := mapping[value]; ok {
			derived[i] = mapped
		} else {
			derived[i] = dataset.Null
		}
	}

	var out *dataset.Table
	if t.Schema().Has(target) {
		out, err = t.SetColumn(target, derived)
	} else {
		out, err = t.AppendColumn(dataset.Column{Name: target, Kind: dataset.KindCategorical}, derived)
	}
	if err != nil {
		return nil, fmt.Errorf("derive %q from %q: %w", target, source, err)
	}
	return out, nil
}

// Drop removes the named columns, failing with an unknown-column error when
// a name is absent from the current schema. The orchestrator only runs the
// prune stage after every derive that reads a to-be-dropped source has
// already executed.
func Drop(t *dataset.Table, columns []string) (*dataset.Table, error) {
	out, err := t.DropColumns(columns...)
	if err != nil {
		return nil, fmt.Errorf("drop columns: %w", err)
	}
	return out, nil
}
