package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"housingcli/internal/config"
	"housingcli/internal/infrastructure"
	"housingcli/internal/operations"
	"housingcli/pkg/contracts"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// options are the command line overrides of the config file
type options struct {
	configFile string
	data       string
	rates      string
	out        string
	backend    string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "config file (defaults to housing.yaml or configs/housing.yaml when present)")
	fs.StringVar(&opts.data, "data", "", "transactions table, .csv or .xlsx (relative paths resolve against the data directory)")
	fs.StringVar(&opts.rates, "rates", "", "mortgage rate CSV with DATE and MORTGAGE30US columns")
	fs.StringVar(&opts.out, "out", "", "output directory for charts and reports")
	fs.StringVar(&opts.backend, "backend", "", "chart backend: gochart or gonum")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// loadConfig merges the flags over the loaded config and validates the result
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	if opts.data != "" {
		cfg.Analysis.TransactionsFile = opts.data
	}
	if opts.rates != "" {
		cfg.Analysis.RatesFile = opts.rates
	}
	if opts.out != "" {
		cfg.Paths.OutputDir = opts.out
	}
	if opts.backend != "" {
		cfg.Render.Backend = opts.backend
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(args []string, stdout io.Writer) int {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	paths, err := config.GetPaths(cfg.Paths, cfg.Analysis)
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		return 1
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create directories", "error", err)
		return 1
	}

	if cfg.Logging.FilePath != "" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = paths.GetLogPath(filepath.Base(cfg.Logging.FilePath))
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		return 1
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution(logger)
	logger = infrastructure.WithComponent(logger, config.AppName)

	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:    infrastructure.ServiceName,
		ServiceVersion: contracts.Version,
		Environment:    cfg.Telemetry.Environment,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		logger.Error("Failed to create tracer", "error", err)
		return 1
	}

	steps, err := operations.StageFactory(&operations.StageOptions{
		Config:  cfg,
		Paths:   paths,
		Summary: stdout,
		Logger:  logger,
		Metrics: tracer.Metrics(),
	})
	if err != nil {
		logger.Error("Failed to build pipeline", "error", err)
		return 1
	}

	manager, err := operations.NewManager(tracer, steps...)
	if err != nil {
		logger.Error("Failed to create manager", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := infrastructure.NewRunID()
	ctx = infrastructure.WithRunID(ctx, runID)
	state := operations.NewOperationState(runID)

	runErr := manager.Run(ctx, state)

	if err := providers.WriteMetrics(paths.MetricsFile); err != nil {
		logger.Warn("Failed to write metrics", "path", paths.MetricsFile, "error", err)
	}

	if runErr != nil {
		infrastructure.WithError(logger, runErr).ErrorContext(ctx, "Housing report failed",
			slog.String(infrastructure.StepAttr, operations.FailedStep(runErr)))
		return 1
	}

	logger.InfoContext(ctx, "Housing report complete",
		slog.Duration("duration", state.Duration()),
		slog.Int("charts", len(state.Charts())),
		slog.Int("files", len(state.Files())),
		slog.String("charts_dir", paths.ChartsDir),
		slog.String("reports_dir", paths.ReportsDir))
	fmt.Fprintf(stdout, "\nWrote %d charts to %s and %d reports to %s\n",
		len(state.Charts()), paths.ChartsDir, len(state.Files()), paths.ReportsDir)
	return 0
}
