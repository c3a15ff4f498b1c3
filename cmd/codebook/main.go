package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"censuscli/internal/codebook"
	"censuscli/internal/config"
	"censuscli/internal/infrastructure"
)

func main() {
	out := flag.String("out", "", "destination for the default codebook YAML (defaults to docs/codebook.yaml)")
	check := flag.String("check", "", "load and validate a codebook YAML file, then exit")
	dict := flag.Bool("dict", false, "also write the data dictionary markdown (docs/data_dictionary.md)")
	flag.Parse()

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
		cfg.Logging.FilePath = paths.GetLogPath("codebook.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	// Check mode validates a file and reports; it never writes anything.
	if *check != "" {
		cb, err := codebook.Load(*check)
		if err != nil {
			logger.Error("Codebook rejected",
				slog.String("path", *check),
				slog.String("error", err.Error()))
			fmt.Fprintf(os.Stderr, "codebook rejected: %v\n", err)
			os.Exit(1)
		}
		logger.Info("Codebook validated",
			slog.String("path", *check),
			slog.String("version", cb.Version))
		fmt.Printf("codebook OK: version %s, %d columns, %d collapses, %d derives, %d bins, %d drops\n",
			cb.Version, len(cb.Columns), len(cb.Collapses), len(cb.Derives), len(cb.Bins), len(cb.Drop))
		return
	}

	cb := codebook.Default()
	dest := *out
	if dest == "" {
		dest = paths.GetCodebookYAMLPath()
	}

	if err := cb.Export(dest); err != nil {
		logger.Error("Codebook export failed",
			slog.String("path", dest),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Codebook exported",
		slog.String("path", dest),
		slog.String("version", cb.Version))
	fmt.Printf("wrote codebook %s -> %s\n", cb.Version, dest)

	if *dict {
		dictPath := paths.GetDictionaryMDPath()
		if err := os.WriteFile(dictPath, []byte(cb.Dictionary()), 0644); err != nil {
			logger.Error("Data dictionary write failed",
				slog.String("path", dictPath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Data dictionary written", slog.String("path", dictPath))
		fmt.Printf("wrote data dictionary -> %s\n", dictPath)
	}
}
