// Package operations runs the housing report as an ordered list of steps.
//
// A run moves through five steps, each reading the OperationState left by
// the previous one:
//
//   - load: the transactions table and the mortgage rate series
//   - clean: typed transactions from the raw table
//   - aggregate: per-region and per-month metrics
//   - render: one chart file per metric, drawn concurrently
//   - export: CSV files, the workbook and the console summary
//
// Manager executes the steps sequentially and stops at the first failure,
// marking the remaining steps skipped. Every step gets its own span and its
// duration is recorded on the run metrics.
//
// Example usage:
//
//	steps, err := operations.StageFactory(&operations.StageOptions{Config: cfg, Paths: paths})
//	manager, err := operations.NewManager(tracer, steps...)
//	err = manager.Run(ctx, operations.NewOperationState(runID))
package operations
