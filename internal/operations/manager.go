package operations

import (
	"context"
	"fmt"

	"housingcli/internal/infrastructure"
)

// Manager runs the steps of a report in order. The first failing step ends
// the run; the steps after it are marked skipped.
type Manager struct {
	steps  []Step
	tracer *OperationTracer
}

// NewManager creates a manager for steps. A nil tracer records nothing.
func NewManager(tracer *OperationTracer, steps ...Step) (*Manager, error) {
	if tracer == nil {
		var err error
		tracer, err = NewOperationTracer(nil)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(steps))
	for _, s := range steps {
		if seen[s.ID()] {
			return nil, NewFatalError(fmt.Sprintf("duplicate step %q", s.ID()), nil)
		}
		seen[s.ID()] = true
	}

	return &Manager{steps: steps, tracer: tracer}, nil
}

// Steps returns the registered steps in run order
func (m *Manager) Steps() []Step {
	return append([]Step(nil), m.steps...)
}

// Run executes every step against state
func (m *Manager) Run(ctx context.Context, state *OperationState) error {
	ctx = infrastructure.EnsureRunID(ctx)

	for _, s := range m.steps {
		state.SetStage(s.ID(), NewStepState(s.ID(), s.Name()))
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, state.ID, len(m.steps))
	defer span.End()

	m.logOperationStart(ctx, state.ID, m.steps)
	state.Start()

	err := m.executeSequential(ctx, state)
	switch {
	case err == nil:
		state.Complete()
		m.logOperationComplete(ctx, state)
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
		m.logOperationError(ctx, state.ID, err)
	default:
		state.Fail(err)
		m.logOperationError(ctx, state.ID, err)
	}

	m.tracer.RecordOperationCompletion(span, state.GetStatus(), state.Duration(), err)
	return err
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState) error {
	for i, step := range m.steps {
		if err := ctx.Err(); err != nil {
			m.skipRemaining(ctx, state, i, "operation cancelled")
			return NewCancellationError(step.ID(), err)
		}

		stepCtx := infrastructure.WithStep(ctx, step.ID())
		m.logStageStart(stepCtx, state.ID, i+1, len(m.steps))
		if err := m.executeStage(stepCtx, state, step); err != nil {
			m.logStageError(stepCtx, state.ID, err)
			m.skipRemaining(ctx, state, i+1, fmt.Sprintf("previous step %s failed", step.ID()))
			return err
		}
	}
	return nil
}

// executeStage validates and runs a single step inside its own span
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	ctx, span := m.tracer.TraceStageExecution(ctx, state.ID, step.ID())
	defer span.End()

	stepState.Start()

	var err error
	if verr := step.Validate(state); verr != nil {
		err = NewValidationError(step.ID(), verr)
	} else if eerr := step.Execute(ctx, state); eerr != nil {
		if ctx.Err() != nil {
			err = NewCancellationError(step.ID(), eerr)
		} else {
			err = NewExecutionError(step.ID(), eerr)
		}
	}

	if err != nil {
		stepState.Fail(err)
	} else {
		stepState.Complete()
	}
	duration := stepState.Duration()
	m.tracer.RecordStageCompletion(ctx, span, step.ID(), duration, err)

	if err == nil {
		m.logStageComplete(ctx, state.ID, stepState, duration)
	}
	return err
}

// skipRemaining marks every step from index from on as skipped
func (m *Manager) skipRemaining(ctx context.Context, state *OperationState, from int, reason string) {
	for _, step := range m.steps[from:] {
		if st := state.GetStage(step.ID()); st != nil && st.GetStatus() == StepStatusPending {
			st.Skip(reason)
			m.logStageSkipped(ctx, state.ID, step.ID(), reason)
		}
	}
}
