// Package pipeline orchestrates the census cleaning run: ingest, missing
// value resolution, two deduplication passes, categorical normalization,
// recoding, binning, pruning, and serialization, in that fixed order.
//
// The order is load-bearing. Collapsing categories and binning numerics can
// turn previously distinct rows into exact duplicates, so a second dedup
// pass must run after recoding and pruning; moving it changes the final row
// count. Stages exchange an immutable table value through State and record
// non-fatal findings on the run Report: a data-assumption violation is
// reported and logged, never swallowed and never fatal, while schema
// mismatches, invalid bin specs, and unknown column references abort the
// run before any artifact is written.
//
// Collapse and Derive implement deliberately different unmapped-value
// policies: a value missing from a collapse map passes through unchanged,
// a value missing from a derive map yields null in the target column. Both
// are documented policy, not errors.
package pipeline
