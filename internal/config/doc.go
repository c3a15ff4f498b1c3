// Package config owns the cleaner's runtime settings and its on-disk
// directory layout.
//
// Load assembles a Config from three sources. CENSUS_* environment
// variables win, a config.yaml discovered near the working directory or
// the executable fills whatever the environment left empty, and built-in
// defaults cover the rest. The merged result is validated and the logging
// section normalized before any caller sees it.
//
//	CENSUS_LOGGING_LEVEL=debug
//	CENSUS_LOGGING_OUTPUT=both
//	CENSUS_PIPELINE_INPUT_FILE=/data/raw/adult.data
//	CENSUS_PIPELINE_CODEBOOK_FILE=/docs/codebook.yaml
//
// The Paths type is the single authority on where artifacts live. Every
// directory is anchored at the executable rather than the working
// directory, so the cleaner behaves the same no matter where it is
// invoked from:
//
//	paths, err := config.GetPaths()
//	input := paths.GetRawPath("adult.data")
//	output := paths.GetCleanedCSVPath()
//
// EnsureDirectories creates the fixed tree (data/raw, data/processed,
// results, docs, logs) at startup so later stages never race on mkdir.
package config
