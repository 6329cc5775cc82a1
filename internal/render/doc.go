// Package render turns aggregated housing metrics into chart files.
//
// Plot functions build a backend independent Chart and hand it to a Sink.
// GoChartSink (go-chart) handles every chart kind, GonumSink (gonum/plot)
// handles line and bar charts, and MemorySink records charts for tests.
//
// Functions taking a color list check that it has one color per series
// before any sink is called and fail with errors.ErrLengthMismatch otherwise.
package render
