package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in a run
type Paths struct {
	BaseDir    string
	DataDir    string
	OutputDir  string
	ChartsDir  string
	ReportsDir string
	LogsDir    string

	// Well-known files
	TransactionsFile string
	RatesFile        string
	WorkbookFile     string
	MetricsFile      string
}

// GetPaths resolves the run paths. Relative directories are resolved
// against BaseDir, which itself defaults to the working directory.
// Relative input files are resolved against the data directory.
func GetPaths(pc PathsConfig, ac AnalysisConfig) (*Paths, error) {
	base := pc.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	dataDir := resolve(base, pc.DataDir)
	outputDir := resolve(base, pc.OutputDir)
	reportsDir := filepath.Join(outputDir, DefaultReportsDir)

	paths := &Paths{
		BaseDir:    base,
		DataDir:    dataDir,
		OutputDir:  outputDir,
		ChartsDir:  filepath.Join(outputDir, DefaultChartsDir),
		ReportsDir: reportsDir,
		LogsDir:    resolve(base, pc.LogsDir),

		TransactionsFile: resolve(dataDir, ac.TransactionsFile),
		WorkbookFile:     filepath.Join(reportsDir, WorkbookFileName),
		MetricsFile:      filepath.Join(reportsDir, MetricsFileName),
	}
	if ac.RatesFile != "" {
		paths.RatesFile = resolve(dataDir, ac.RatesFile)
	}

	return paths, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates every output directory of the run
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.OutputDir,
		p.ChartsDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetChartPath returns the full path for a chart file
func (p *Paths) GetChartPath(filename string) string {
	return resolve(p.ChartsDir, filename)
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return resolve(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return resolve(p.LogsDir, filename)
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Info("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("charts_dir", p.ChartsDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("transactions_file", p.TransactionsFile),
		slog.String("rates_file", p.RatesFile))
}
