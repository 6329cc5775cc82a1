package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey string

const (
	runIDKey contextKey = "run_id"
	stepKey  contextKey = "step"
)

// Log attribute names shared by every package of a run.
const (
	RunIDAttr     = "run_id"
	StepAttr      = "step"
	ComponentAttr = "component"
)

// NewRunID returns a fresh run id.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID attaches the run id to ctx. The run logger adds it to every
// record logged with ctx.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// GetRunID returns the run id of ctx, or "".
func GetRunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// EnsureRunID returns ctx with a run id, generating one when ctx has none.
func EnsureRunID(ctx context.Context) context.Context {
	if GetRunID(ctx) != "" {
		return ctx
	}
	return WithRunID(ctx, NewRunID())
}

// WithStep marks ctx as belonging to the pipeline step stepID.
func WithStep(ctx context.Context, stepID string) context.Context {
	return context.WithValue(ctx, stepKey, stepID)
}

// GetStep returns the step of ctx, or "".
func GetStep(ctx context.Context) string {
	step, _ := ctx.Value(stepKey).(string)
	return step
}

// LoggerWithContext returns the run logger, tagged with the step of ctx when
// there is one.
func LoggerWithContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()
	if step := GetStep(ctx); step != "" {
		logger = logger.With(slog.String(StepAttr, step))
	}
	return logger
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx).InfoContext(ctx, msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx).WarnContext(ctx, msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerWithContext(ctx).ErrorContext(ctx, msg, args...)
}

// WithComponent tags logger with the part of the program logging through it.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String(ComponentAttr, component))
}

// WithError adds err to logger. A nil err leaves logger unchanged.
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With(slog.String("error", err.Error()))
}
