package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"housingcli/internal/config"
	apperrors "housingcli/internal/errors"
)

// The process has one JSON logger. It is installed as the slog default so
// library code logging through slog ends up in the same stream.
var (
	logMu         sync.Mutex
	runLogger     *slog.Logger
	runLogFile    *os.File
	defaultLogger = slog.Default()
)

// InitializeLogger builds the run logger from cfg and installs it as the slog
// default. Later calls return the logger built first.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	logMu.Lock()
	defer logMu.Unlock()

	if runLogger != nil {
		return runLogger, nil
	}

	out, file, err := logOutput(cfg)
	if err != nil {
		return nil, err
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLogLevel(cfg.Level),
	})
	runLogFile = file
	runLogger = slog.New(&runHandler{Handler: handler})
	slog.SetDefault(runLogger)
	return runLogger, nil
}

// GetLogger returns the run logger, or the slog default before
// InitializeLogger ran.
func GetLogger() *slog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	if runLogger == nil {
		return slog.Default()
	}
	return runLogger
}

// logOutput picks the writer for cfg.Output. file is the opened log file, if any.
func logOutput(cfg config.LoggingConfig) (out io.Writer, file *os.File, err error) {
	mode := strings.ToLower(cfg.Output)
	if mode != config.LogOutputFile && mode != config.LogOutputBoth {
		return os.Stdout, nil, nil
	}

	file, err = openLogFile(cfg.FilePath)
	if err != nil {
		return nil, nil, apperrors.NewStorageError("failed to open log file", err).
			WithContext("path", cfg.FilePath)
	}
	if mode == config.LogOutputFile {
		return file, file, nil
	}
	return io.MultiWriter(os.Stdout, file), file, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// runHandler stamps records logged with a run context with the run id.
type runHandler struct {
	slog.Handler
}

func (h *runHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetRunID(ctx); id != "" {
		r.AddAttrs(slog.String(RunIDAttr, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *runHandler) WithGroup(name string) slog.Handler {
	return &runHandler{Handler: h.Handler.WithGroup(name)}
}

// parseLogLevel maps the configured level name. Unknown names log at info.
func parseLogLevel(name string) slog.Level {
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// CloseLogFile closes the run log file, if one is open.
func CloseLogFile() error {
	logMu.Lock()
	defer logMu.Unlock()
	return closeLogFileLocked()
}

func closeLogFileLocked() error {
	if runLogFile == nil {
		return nil
	}
	err := runLogFile.Close()
	runLogFile = nil
	return err
}

// ResetLoggerForTesting drops the run logger, closes its file and restores
// the slog default found at startup.
func ResetLoggerForTesting() {
	logMu.Lock()
	defer logMu.Unlock()
	_ = closeLogFileLocked()
	runLogger = nil
	slog.SetDefault(defaultLogger)
}
