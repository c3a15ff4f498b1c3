package config

// Application constants - all hardcoded values for the census cleaner
const (
	// Application identity
	AppName    = "Census Cleaner"
	AppVersion = "1.2.0"

	// Directory layout (relative to executable)
	DefaultDataDir      = "data"
	DefaultRawDir       = "data/raw"
	DefaultProcessedDir = "data/processed"
	DefaultResultsDir   = "results"
	DefaultDocsDir      = "docs"
	DefaultLogsDir      = "logs"

	// Well-known artifact file names
	CleanedCSVName    = "census_clean.csv"
	ReportJSONName    = "clean_report.json"
	CodebookYAMLName  = "codebook.yaml"
	DictionaryMDName  = "data_dictionary.md"

	// Raw snapshot discovery
	SnapshotExtCSV  = ".csv"
	SnapshotExtData = ".data"
	SnapshotExtXLSX = ".xlsx"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/cleaner.log"
)
