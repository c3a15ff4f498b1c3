package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the directory layout and well-known artifact locations.
// All file access in the application goes through these fields
type Paths struct {
	ExecutableDir string
	DataDir       string
	RawDir        string
	ProcessedDir  string
	ResultsDir    string
	DocsDir       string
	LogsDir       string

	// Well-known artifact files
	CleanedCSV   string
	ReportJSON   string
	CodebookYAML string
	DictionaryMD string
}

// GetPaths resolves the directory layout anchored at the running executable.
// The working directory is never consulted, so runs behave the same from anywhere
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Follow symlinks so the layout anchors at the real binary
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// All paths are relative to the executable directory.
	// Directory structure:
	// dist/
	//   ├── data/
	//   │   ├── raw/         (raw census snapshots, .csv/.data/.xlsx)
	//   │   └── processed/   (cleaned dataset)
	//   ├── results/         (run reports)
	//   ├── docs/            (codebook exports, data dictionary)
	//   └── logs/            (application logs)

	return PathsIn(exeDir), nil
}

// PathsIn returns the application paths rooted at the given base directory.
// Used directly by tests and by GetPaths for the executable directory.
func PathsIn(baseDir string) *Paths {
	processedDir := filepath.Join(baseDir, DefaultProcessedDir)
	resultsDir := filepath.Join(baseDir, DefaultResultsDir)
	docsDir := filepath.Join(baseDir, DefaultDocsDir)

	return &Paths{
		ExecutableDir: baseDir,
		DataDir:       filepath.Join(baseDir, DefaultDataDir),
		RawDir:        filepath.Join(baseDir, DefaultRawDir),
		ProcessedDir:  processedDir,
		ResultsDir:    resultsDir,
		DocsDir:       docsDir,
		LogsDir:       filepath.Join(baseDir, DefaultLogsDir),

		CleanedCSV:   filepath.Join(processedDir, CleanedCSVName),
		ReportJSON:   filepath.Join(resultsDir, ReportJSONName),
		CodebookYAML: filepath.Join(docsDir, CodebookYAMLName),
		DictionaryMD: filepath.Join(docsDir, DictionaryMDName),
	}
}

// EnsureDirectories makes sure the full directory layout exists on disk
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.RawDir,
		p.ProcessedDir,
		p.ResultsDir,
		p.DocsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetRawPath returns the path for a raw snapshot file
func (p *Paths) GetRawPath(filename string) string {
	return filepath.Join(p.RawDir, filename)
}

// GetProcessedPath returns the path for a processed dataset file
func (p *Paths) GetProcessedPath(filename string) string {
	return filepath.Join(p.ProcessedDir, filename)
}

// GetResultsPath returns the path for a run report file
func (p *Paths) GetResultsPath(filename string) string {
	return filepath.Join(p.ResultsDir, filename)
}

// GetDocsPath returns the path for a documentation artifact
func (p *Paths) GetDocsPath(filename string) string {
	return filepath.Join(p.DocsDir, filename)
}

// GetLogPath returns the path for an application log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetCleanedCSVPath returns the path for the cleaned dataset artifact
func (p *Paths) GetCleanedCSVPath() string {
	return p.CleanedCSV
}

// GetReportJSONPath returns the path for the run report artifact
func (p *Paths) GetReportJSONPath() string {
	return p.ReportJSON
}

// GetCodebookYAMLPath returns the path for the exported codebook
func (p *Paths) GetCodebookYAMLPath() string {
	return p.CodebookYAML
}

// GetDictionaryMDPath returns the path for the data dictionary
func (p *Paths) GetDictionaryMDPath() string {
	return p.DictionaryMD
}

// LogPathResolution records the resolved layout for troubleshooting startup issues
func (p *Paths) LogPathResolution() {
	slog.Default().Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("raw", p.RawDir),
			slog.String("processed", p.ProcessedDir),
			slog.String("results", p.ResultsDir),
			slog.String("docs", p.DocsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("artifacts",
			slog.String("cleaned_csv", p.CleanedCSV),
			slog.String("report_json", p.ReportJSON),
			slog.String("codebook_yaml", p.CodebookYAML),
			slog.String("dictionary_md", p.DictionaryMD),
		))
}
