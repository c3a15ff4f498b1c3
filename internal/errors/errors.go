// Package errors defines the typed error taxonomy shared by the cleaning
// pipeline, the codebook, and the dataset layer.
//
// Four kinds cover every failure class the pipeline distinguishes:
//
//   - SchemaMismatch: the raw source column count differs from the schema;
//     fatal, raised before any mutation.
//   - InvalidBinSpec: malformed bin boundaries or labels; fatal, raised at
//     codebook validation and again before any row is processed.
//   - UnknownColumn: a transform references a column absent from the current
//     schema; fatal.
//   - DataAssumption: a non-fatal data-quality finding (residual nulls,
//     unparseable numerics); accumulated on the run report, never swallowed.
//
// Everything else wraps with fmt.Errorf("...: %w", err) at each boundary.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a pipeline error.
type Kind string

const (
	KindSchemaMismatch Kind = "schema_mismatch"
	KindInvalidBinSpec Kind = "invalid_bin_spec"
	KindUnknownColumn  Kind = "unknown_column"
	KindDataAssumption Kind = "data_assumption_violation"
)

// Error represents a pipeline-specific error
type Error struct {
	Kind    Kind   `json:"kind"`
	Stage   string `json:"stage,omitempty"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	switch {
	case e.Stage != "" && e.Column != "":
		return fmt.Sprintf("[%s] %s: column %q: %s", e.Kind, e.Stage, e.Column, e.Message)
	case e.Stage != "":
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Stage, e.Message)
	case e.Column != "":
		return fmt.Sprintf("[%s] column %q: %s", e.Kind, e.Column, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewSchemaMismatch creates a schema mismatch error for a row whose column
// count differs from the expected schema width.
func NewSchemaMismatch(stage string, row, expected, actual int) *Error {
	return &Error{
		Kind:    KindSchemaMismatch,
		Stage:   stage,
		Message: fmt.Sprintf("row %d has %d columns, expected %d", row, actual, expected),
	}
}

// NewInvalidBinSpec creates an invalid bin spec error
func NewInvalidBinSpec(column, message string) *Error {
	return &Error{
		Kind:    KindInvalidBinSpec,
		Column:  column,
		Message: message,
	}
}

// NewUnknownColumn creates an unknown column error
func NewUnknownColumn(stage, column string) *Error {
	return &Error{
		Kind:    KindUnknownColumn,
		Stage:   stage,
		Column:  column,
		Message: "column not present in current schema",
	}
}

// NewDataAssumption creates a non-fatal data assumption error
func NewDataAssumption(stage, column, message string) *Error {
	return &Error{
		Kind:    KindDataAssumption,
		Stage:   stage,
		Column:  column,
		Message: message,
	}
}

// GetKind returns the kind of the error, or the empty Kind for nil and
// untyped errors.
func GetKind(err error) Kind {
	if err == nil {
		return ""
	}
	var pErr *Error
	if stderrors.As(err, &pErr) {
		return pErr.Kind
	}
	return ""
}

// IsSchemaMismatch reports whether err is a schema mismatch error
func IsSchemaMismatch(err error) bool {
	return GetKind(err) == KindSchemaMismatch
}

// IsInvalidBinSpec reports whether err is an invalid bin spec error
func IsInvalidBinSpec(err error) bool {
	return GetKind(err) == KindInvalidBinSpec
}

// IsUnknownColumn reports whether err is an unknown column error
func IsUnknownColumn(err error) bool {
	return GetKind(err) == KindUnknownColumn
}

// IsDataAssumption reports whether err is a non-fatal data assumption error
func IsDataAssumption(err error) bool {
	return GetKind(err) == KindDataAssumption
}

// IsFatal reports whether err must abort the run. Every kind except
// DataAssumption is fatal; untyped errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var pErr *Error
	if stderrors.As(err, &pErr) {
		return pErr.Kind != KindDataAssumption
	}
	return true
}
