// Package dataset provides the in-memory table model for the census
// cleaning pipeline and the readers that build it from raw snapshots.
//
// A Table couples an ordered, typed Schema with row data and is never
// mutated in place: every transform (Dedup, MapColumn, AppendColumn,
// DropColumns, ...) returns a new table value, which keeps each pipeline
// stage a pure function over its input and makes reruns byte-deterministic.
//
// Ingestion accepts two snapshot formats through one contract:
//
//	table, err := dataset.ReadSnapshot("data/raw/adult.data", schema, "?")
//
// Header-less delimited text goes through ReadCSV and Excel workbooks go
// through ReadWorkbook; both trim incidental whitespace, rewrite the
// missing-value sentinel to the Null marker, and enforce the expected
// column count with a typed schema-mismatch error.
package dataset
