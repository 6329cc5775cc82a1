// Package shared holds helpers used across packages that belong to no single
// layer of the housing report.
//
// The testutil subpackage captures slog output so tests can assert on what a
// step logged:
//
//	logger, logs := testutil.NewTestLogger(t)
//	stage := operations.NewLoadStage(&operations.StageOptions{Logger: logger, ...})
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Transactions loaded")
package shared
