// Package codebook holds the versioned, externally-loadable configuration
// data driving the census cleaning pipeline: the raw column schema, the
// missing-value sentinel and per-column defaults, the category collapse
// maps, the derived-column maps, the numeric bin specs, and the drop list.
//
// The maps are data, not logic. The pipeline stages consume whatever the
// codebook declares, so vocabulary changes are made by editing (or
// swapping) a codebook, never by touching transform code. A compiled-in
// Default carries the canonical adult-census vocabulary; Load reads a YAML
// codebook with strict key checking, and every load path validates both
// structure (via struct tags) and semantics (sentinel shape, column
// references, target collisions, bin boundary ordering) before the
// pipeline is allowed to ingest anything.
package codebook
