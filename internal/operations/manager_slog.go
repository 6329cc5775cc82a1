package operations

import (
	"context"
	"log/slog"
	"time"

	"housingcli/internal/infrastructure"
)

// logOperationStart logs the start of a run
func (m *Manager) logOperationStart(ctx context.Context, operationID string, steps []Step) {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID()
	}
	infrastructure.InfoContext(ctx, "operation_start",
		slog.String("operation_id", operationID),
		slog.Any("steps", ids))
}

// logOperationComplete logs the completion of a run
func (m *Manager) logOperationComplete(ctx context.Context, state *OperationState) {
	infrastructure.InfoContext(ctx, "operation_complete",
		slog.String("operation_id", state.ID),
		slog.String("status", string(state.GetStatus())),
		slog.Duration("duration", state.Duration()),
		slog.Int("charts", len(state.Charts())),
		slog.Int("files", len(state.Files())))
}

// logOperationError logs a failed run
func (m *Manager) logOperationError(ctx context.Context, operationID string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	infrastructure.ErrorContext(ctx, "operation_error",
		slog.String("operation_id", operationID),
		slog.String(infrastructure.StepAttr, FailedStep(err)),
		slog.String("error_type", string(GetErrorType(err))),
		slog.String("error", errorMsg))
}

// Stage events are logged with the step context, which tags them with the step.

// logStageStart logs the start of a step
func (m *Manager) logStageStart(ctx context.Context, operationID string, number, total int) {
	infrastructure.InfoContext(ctx, "stage_start",
		slog.String("operation_id", operationID),
		slog.Int("stage_number", number),
		slog.Int("total_stages", total))
}

// logStageComplete logs the completion of a step with its counters
func (m *Manager) logStageComplete(ctx context.Context, operationID string, st *StepState, duration time.Duration) {
	attrs := []any{
		slog.String("operation_id", operationID),
		slog.Duration("duration", duration),
	}
	st.mu.RLock()
	for k, v := range st.Metadata {
		attrs = append(attrs, slog.Any(k, v))
	}
	st.mu.RUnlock()
	infrastructure.InfoContext(ctx, "stage_complete", attrs...)
}

// logStageError logs a step error
func (m *Manager) logStageError(ctx context.Context, operationID string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	infrastructure.ErrorContext(ctx, "stage_error",
		slog.String("operation_id", operationID),
		slog.String("error_type", string(GetErrorType(err))),
		slog.String("error", errorMsg))
}

// logStageSkipped logs a step left out after an earlier failure
func (m *Manager) logStageSkipped(ctx context.Context, operationID, stageID, reason string) {
	infrastructure.WarnContext(ctx, "stage_skipped",
		slog.String("operation_id", operationID),
		slog.String(infrastructure.StepAttr, stageID),
		slog.String("reason", reason))
}
