package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"

	"bdcli/internal/config"
	"bdcli/internal/infrastructure"
	"bdcli/internal/pipeline"
	"bdcli/internal/tablestore"
)

func main() {
	os.Exit(run())
}

func run() int {
	workbook := flag.String("in", "", "input .xlsx workbook (defaults to the configured path)")
	outDir := flag.String("out", "", "output directory for CSV artifacts (defaults to the configured reports dir)")
	traceOut := flag.Bool("trace", false, "emit per-stage trace spans to stderr")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		return 1
	}

	if *workbook != "" {
		cfg.Paths.Workbook = *workbook
	}
	if *outDir != "" {
		cfg.Paths.ReportsDir = *outDir
	}

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()

	tracingCfg := infrastructure.TracingConfig{Enabled: *traceOut}
	if *traceOut {
		tracingCfg.Writer = os.Stderr
	}
	tracing, err := infrastructure.InitializeTracing(tracingCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", slog.String("error", err.Error()))
		return 1
	}
	defer tracing.Shutdown(ctx)

	logger.Info("Starting business demography processing",
		slog.String("workbook", paths.Workbook),
		slog.String("output_dir", paths.ReportsDir),
		slog.Int("year_from", cfg.Pipeline.YearFrom),
		slog.Int("year_to", cfg.Pipeline.YearTo),
		slog.Int("groups", len(cfg.Pipeline.Groups)))

	f, err := excelize.OpenFile(paths.Workbook)
	if err != nil {
		logger.Error("Failed to open workbook",
			slog.String("path", paths.Workbook),
			slog.String("error", err.Error()))
		return 1
	}
	defer f.Close()

	store := tablestore.NewCSVStore(paths.ReportsDir, logger)
	state := pipeline.NewState(f, store)
	stages := pipeline.DefaultStages(logger, cfg.Pipeline.YearFrom, cfg.Pipeline.YearTo, cfg.Pipeline.Groups)

	runner := pipeline.NewRunner(logger, tracing.Tracer)
	manifest, runErr := runner.Run(ctx, stages, state)

	// The manifest is written for failed runs too.
	manifestPath := paths.GetReportPath(config.ManifestJSON)
	if err := manifest.Save(manifestPath); err != nil {
		logger.Error("Failed to save run manifest",
			slog.String("path", manifestPath),
			slog.String("error", err.Error()))
		if runErr == nil {
			return 1
		}
	}

	if runErr != nil {
		logger.Error("Processing failed", slog.String("error", runErr.Error()))
		return 1
	}

	logger.Info("Processing complete",
		slog.String("manifest", manifestPath),
		slog.Int("stages", len(manifest.Stages)))
	return 0
}
