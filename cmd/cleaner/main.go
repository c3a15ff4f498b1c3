package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"censuscli/internal/codebook"
	"censuscli/internal/config"
	"censuscli/internal/exporter"
	"censuscli/internal/files"
	"censuscli/internal/infrastructure"
	"censuscli/internal/pipeline"
	"censuscli/internal/validation"
)

func main() {
	in := flag.String("in", "", "input snapshot (.csv, .data or .xlsx; defaults to the newest file in data/raw)")
	out := flag.String("out", "", "cleaned CSV path (defaults to data/processed/cleaned.csv)")
	codebookPath := flag.String("codebook", "", "codebook YAML path (defaults to the compiled-in codebook)")
	reportPath := flag.String("report", "", "run report JSON path (defaults to results/report.json)")
	logLevel := flag.String("loglevel", "", "log level: debug | info | warn | error")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", config.AppName, config.AppVersion)
		return
	}

	// Resolve the directory layout before anything else needs it
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	// Create the on-disk layout up front
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("cleaner.log")
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	// Flags win over config; config wins over the well-known locations.
	input := firstNonEmpty(*in, cfg.Pipeline.InputFile)
	output := firstNonEmpty(*out, cfg.Pipeline.OutputFile, paths.GetCleanedCSVPath())
	report := firstNonEmpty(*reportPath, cfg.Pipeline.ReportFile, paths.GetReportJSONPath())
	cbPath := firstNonEmpty(*codebookPath, cfg.Pipeline.CodebookFile)

	input, err = resolveInput(logger, paths.RawDir, input)
	if err != nil {
		logger.Error("Snapshot discovery failed",
			slog.String("raw_dir", paths.RawDir),
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateSnapshotFile(input); err != nil {
		logger.Error("Input validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(filepath.Dir(output)); err != nil {
		logger.Error("Output validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cb, err := codebook.LoadOrDefault(cbPath)
	if err != nil {
		logger.Error("Codebook rejected", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting census cleaning",
		slog.String("input", input),
		slog.String("output", output),
		slog.String("codebook_version", cb.Version),
		slog.String("executable_dir", paths.ExecutableDir))

	runner, err := pipeline.NewRunner(cb, exporter.NewCSVWriter(paths))
	if err != nil {
		logger.Error("Pipeline construction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.ContextWithRunID(ctx)

	result, err := runner.Run(ctx, pipeline.RunOptions{
		InputPath:  input,
		OutputPath: output,
		ReportPath: report,
	})
	if err != nil {
		logger.Error("Pipeline failed",
			slog.String("run_id", infrastructure.GetRunID(ctx)),
			slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "cleaning failed: %v\n", err)
		os.Exit(1)
	}

	final := result.Stages[len(result.Stages)-1]
	logger.Info("Census cleaning completed",
		slog.String("run_id", result.RunID),
		slog.Int("rows", final.RowsOut),
		slog.Int("columns", final.ColumnsOut),
		slog.Int("violations", len(result.Violations)),
		slog.String("output", output),
		slog.String("report", report))

	// Violations are findings, not failures; surface them on stdout too.
	for _, v := range result.Violations {
		fmt.Printf("violation: stage=%s column=%s count=%d (%s)\n", v.Stage, v.Column, v.Count, v.Detail)
	}
	fmt.Printf("Cleaning complete: %d rows, %d columns -> %s\n", final.RowsOut, final.ColumnsOut, output)
}

// resolveInput returns the explicit snapshot path when given, otherwise the
// newest snapshot in the raw directory.
func resolveInput(logger *slog.Logger, rawDir, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	snapshot, ok, err := files.NewDiscovery(rawDir).LatestSnapshot()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no snapshot files (.csv, .data, .xlsx) in %s", rawDir)
	}

	logger.Info("Discovered snapshot",
		slog.String("file", snapshot.Name),
		slog.Int64("size", snapshot.Size),
		slog.Time("mod_time", snapshot.ModTime))
	return snapshot.Path, nil
}

// firstNonEmpty returns the first non-empty value, so flag > config > default.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
