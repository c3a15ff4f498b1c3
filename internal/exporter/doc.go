// Package exporter persists the cleaned census table as a CSV artifact.
//
// All writes are all-or-nothing: records land in a temporary file inside the
// destination directory and the file is renamed over the target only after a
// clean flush. A run that fails mid-serialization leaves the previous
// artifact (or nothing) behind, never a partial table.
//
// CSVWriter covers whole-table writes; StreamWriter is the record-at-a-time
// variant backing it. The canonical cleaned artifact is UTF-8 without a BOM;
// WriteOptions.BOMPrefix exists for exports aimed at Excel.
package exporter
