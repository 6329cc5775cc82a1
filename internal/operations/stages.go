package operations

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"housingcli/internal/config"
	"housingcli/internal/dataprocessing"
	apperrors "housingcli/internal/errors"
	"housingcli/internal/exporter"
	"housingcli/internal/infrastructure"
	"housingcli/internal/render"
	"housingcli/internal/validation"
)

// StageOptions are the dependencies shared by the report steps
type StageOptions struct {
	Config *config.Config
	Paths  *config.Paths

	// Sink receives the charts. nil selects the configured file backend
	// writing into Paths.ChartsDir.
	Sink render.Sink

	// Summary receives the console tables. nil disables them.
	Summary io.Writer

	Logger  *slog.Logger
	Metrics *infrastructure.RunMetrics
}

// StageFactory returns the report steps in run order
func StageFactory(opts *StageOptions) ([]Step, error) {
	if opts == nil || opts.Config == nil || opts.Paths == nil {
		return nil, NewFatalError("stage options need a config and paths", nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		tracer, err := NewOperationTracer(nil)
		if err != nil {
			return nil, err
		}
		opts.Metrics = tracer.Metrics()
	}

	return []Step{
		NewLoadStage(opts),
		NewCleanStage(opts),
		NewAggregateStage(opts),
		NewRenderStage(opts),
		NewExportStage(opts),
	}, nil
}

// LoadStage reads the transactions table and the mortgage rate series
type LoadStage struct {
	BaseStage
	opts   *StageOptions
	logger *slog.Logger
}

// NewLoadStage creates the load step
func NewLoadStage(opts *StageOptions) *LoadStage {
	return &LoadStage{
		BaseStage: NewBaseStage(StageIDLoad, StageNameLoad),
		opts:      opts,
		logger:    opts.Logger.With(slog.String(infrastructure.StepAttr, StageIDLoad)),
	}
}

// Validate checks that the input files exist and have a known format
func (s *LoadStage) Validate(state *OperationState) error {
	v := validation.NewFileValidator(s.logger)
	if err := v.ValidateTableFile(s.opts.Paths.TransactionsFile); err != nil {
		return err
	}
	if s.opts.Paths.RatesFile != "" {
		return v.ValidateTableFile(s.opts.Paths.RatesFile)
	}
	return nil
}

// Execute loads the raw table and rates into state
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	path := s.opts.Paths.TransactionsFile
	df, err := dataprocessing.LoadTable(path)
	if err != nil {
		return err
	}
	state.Raw = df
	s.opts.Metrics.RowsLoaded.Add(ctx, int64(df.Nrow()),
		metric.WithAttributes(attribute.String("input", "transactions")))

	s.logger.InfoContext(ctx, "Transactions loaded",
		slog.String("file", path),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))

	stepState := state.GetStage(s.ID())
	stepState.SetMetadata(MetaRowsLoaded, df.Nrow())

	if s.opts.Paths.RatesFile == "" {
		s.logger.WarnContext(ctx, "No mortgage rate file configured, rate chart will be empty")
		stepState.SetMetadata(MetaRatesLoaded, 0)
		return nil
	}

	rates, err := dataprocessing.LoadRates(s.opts.Paths.RatesFile)
	if err != nil {
		return err
	}
	state.Rates = rates
	s.opts.Metrics.RowsLoaded.Add(ctx, int64(len(rates)),
		metric.WithAttributes(attribute.String("input", "rates")))
	stepState.SetMetadata(MetaRatesLoaded, len(rates))
	return nil
}

// CleanStage turns the raw table into typed transactions
type CleanStage struct {
	BaseStage
	opts *StageOptions
}

// NewCleanStage creates the clean step
func NewCleanStage(opts *StageOptions) *CleanStage {
	return &CleanStage{
		BaseStage: NewBaseStage(StageIDClean, StageNameClean),
		opts:      opts,
	}
}

// Validate requires a loaded raw table
func (s *CleanStage) Validate(state *OperationState) error {
	if state.Raw.Ncol() == 0 {
		return apperrors.NewAppValidationError("no raw table loaded")
	}
	return nil
}

// Execute cleans the raw table
func (s *CleanStage) Execute(ctx context.Context, state *OperationState) error {
	table, err := dataprocessing.Clean(state.Raw)
	if err != nil {
		return err
	}
	state.Table = table
	s.opts.Metrics.RowsCleaned.Add(ctx, int64(table.Len()))

	stepState := state.GetStage(s.ID())
	stepState.SetMetadata(MetaRowsCleaned, table.Len())
	stepState.SetMetadata(MetaRegions, len(table.Regions()))
	return nil
}

// AggregateStage computes every metric of the report
type AggregateStage struct {
	BaseStage
	opts *StageOptions
}

// NewAggregateStage creates the aggregate step
func NewAggregateStage(opts *StageOptions) *AggregateStage {
	return &AggregateStage{
		BaseStage: NewBaseStage(StageIDAggregate, StageNameAggregate),
		opts:      opts,
	}
}

// Validate requires a cleaned table
func (s *AggregateStage) Validate(state *OperationState) error {
	if state.Table == nil {
		return apperrors.NewAppValidationError("no cleaned table")
	}
	return nil
}

// Execute fills state.Results
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	ac := s.opts.Config.Analysis
	t := state.Table

	shares, err := dataprocessing.MonthlySaleShare(t, allMonths(), dataprocessing.ShareOptionsFrom(ac))
	if err != nil {
		return err
	}

	state.Results = &Results{
		SidePpsf:        dataprocessing.MultiAreaPpsfByYear(t, ac.SideRegions),
		SideChange:      dataprocessing.MultiAreaPercentByYear(t, ac.SideRegions),
		CommunityPpsf:   dataprocessing.MultiAreaPpsfByYear(t, ac.CommunityRegions),
		CommunityChange: dataprocessing.MultiAreaPercentByYear(t, ac.CommunityRegions),
		Season:          dataprocessing.SeasonActivity(t, ac.BaseRegion),
		SaleShares:      shares,
		UnitsSold:       dataprocessing.MonthlyUnitSoldByYear(t, ac.BaseRegion),
		BasePpsf:        dataprocessing.AreaPpsfByYear(t, ac.BaseRegion),
	}

	if len(state.Results.BasePpsf) == 0 {
		infrastructure.WarnContext(ctx, "Base region has no rows",
			slog.String("region", ac.BaseRegion))
	}
	return nil
}

func allMonths() []int {
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}
	return months
}

// RenderStage draws every chart. Charts are independent and may be drawn
// in parallel up to the configured limit.
type RenderStage struct {
	BaseStage
	opts *StageOptions
}

// NewRenderStage creates the render step
func NewRenderStage(opts *StageOptions) *RenderStage {
	return &RenderStage{
		BaseStage: NewBaseStage(StageIDRender, StageNameRender),
		opts:      opts,
	}
}

// Validate requires computed results
func (s *RenderStage) Validate(state *OperationState) error {
	if state.Results == nil {
		return apperrors.NewAppValidationError("no aggregated results")
	}
	return nil
}

// Execute renders the charts into the sink
func (s *RenderStage) Execute(ctx context.Context, state *OperationState) error {
	sink := s.opts.Sink
	if sink == nil {
		var err error
		sink, err = render.SinkFor(s.opts.Config.Render, s.opts.Paths.ChartsDir)
		if err != nil {
			return err
		}
	}
	sink = render.ObservedSink{
		Next: sink,
		OnWrite: func(ctx context.Context, c render.Chart, dest string) {
			state.AddChart(dest)
			s.opts.Metrics.ChartsRendered.Add(ctx, 1,
				metric.WithAttributes(attribute.String("kind", c.Kind.String())))
		},
	}

	limit := s.opts.Config.Render.Parallelism
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, job := range s.jobs(sink, state.Results, state) {
		g.Go(func() error { return job(gctx) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	state.GetStage(s.ID()).SetMetadata(MetaCharts, len(state.Charts()))
	return nil
}

// jobs lists one function per chart family
func (s *RenderStage) jobs(sink render.Sink, r *Results, state *OperationState) []func(context.Context) error {
	ac := s.opts.Config.Analysis
	ext := "." + s.opts.Config.Render.Format
	if ext == "." {
		ext = "." + config.DefaultChartFormat
	}
	variants := ChartVariants + ext

	return []func(context.Context) error{
		func(ctx context.Context) error {
			return render.PlotPpsfByYear(ctx, sink, r.SidePpsf, ac.SideColors, TitleSidePpsf, ChartSidePpsf+ext)
		},
		func(ctx context.Context) error {
			return render.PlotPercentByYear(ctx, sink, r.SideChange, ac.SideColors, TitleSideChange, variants)
		},
		func(ctx context.Context) error {
			return render.PlotPpsfByYear(ctx, sink, r.CommunityPpsf, ac.CommunityColors, TitleCommunityPpsf, ChartCommunityPpsf+ext)
		},
		func(ctx context.Context) error {
			return render.PlotPercentByYear(ctx, sink, r.CommunityChange, ac.CommunityColors, TitleCommunityChange, variants)
		},
		func(ctx context.Context) error {
			return render.PlotSeasonByMonth(ctx, sink, r.Season, ac.SeasonColors, TitleSeason, variants)
		},
		func(ctx context.Context) error {
			return render.PlotMonthlySaleShare(ctx, sink, r.SaleShares, TitleSaleShare, ChartSaleShare+ext)
		},
		func(ctx context.Context) error {
			return render.PlotMonthlyUnitSold(ctx, sink, r.UnitsSold, unitsSoldTitle(r, ac.BaseRegion), ChartUnitsSold+ext)
		},
		func(ctx context.Context) error {
			return render.PlotMortgageVsPpsf(ctx, sink, r.BasePpsf, state.Rates, TitleMortgage, ChartMortgage+ext)
		},
	}
}

func unitsSoldTitle(r *Results, region string) string {
	if len(r.UnitsSold) == 0 {
		return fmt.Sprintf("Avg Monthly Unit Sold in %s", region)
	}
	first, last := r.UnitsSold[0].Key, r.UnitsSold[len(r.UnitsSold)-1].Key
	return fmt.Sprintf("Avg Monthly Unit Sold from %d - %d in %s", first, last, region)
}

// ExportStage writes the metric tables as CSV files and one workbook, then
// prints the console summary
type ExportStage struct {
	BaseStage
	opts *StageOptions
}

// NewExportStage creates the export step
func NewExportStage(opts *StageOptions) *ExportStage {
	return &ExportStage{
		BaseStage: NewBaseStage(StageIDExport, StageNameExport),
		opts:      opts,
	}
}

// Validate requires computed results and a cleaned table
func (s *ExportStage) Validate(state *OperationState) error {
	if state.Results == nil || state.Table == nil {
		return apperrors.NewAppValidationError("nothing to export")
	}
	return nil
}

// Execute writes every export
func (s *ExportStage) Execute(ctx context.Context, state *OperationState) error {
	r := state.Results
	w := exporter.NewCSVWriter(s.opts.Paths)

	written := func(path string) {
		state.AddFile(path)
		s.opts.Metrics.FilesExported.Add(ctx, 1)
	}

	export := func(name string, write func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := write(); err != nil {
			return err
		}
		written(s.opts.Paths.GetReportPath(name))
		return nil
	}

	if err := export(ExportSidePpsf, func() error {
		return w.ExportRegionSeries(ExportSidePpsf, HeaderYear, HeaderPpsf, r.SidePpsf)
	}); err != nil {
		return err
	}
	if err := export(ExportSideChange, func() error {
		return w.ExportRegionSeries(ExportSideChange, HeaderYear, HeaderChange, r.SideChange)
	}); err != nil {
		return err
	}
	if err := export(ExportCommunityPpsf, func() error {
		return w.ExportRegionSeries(ExportCommunityPpsf, HeaderYear, HeaderPpsf, r.CommunityPpsf)
	}); err != nil {
		return err
	}
	if err := export(ExportCommunityChange, func() error {
		return w.ExportRegionSeries(ExportCommunityChange, HeaderYear, HeaderChange, r.CommunityChange)
	}); err != nil {
		return err
	}
	if err := export(ExportSeason, func() error {
		return w.ExportSeasonal(ExportSeason, r.Season)
	}); err != nil {
		return err
	}
	if err := export(ExportSaleShare, func() error {
		return w.ExportShares(ExportSaleShare, render.MonthLabels, r.SaleShares)
	}); err != nil {
		return err
	}
	if err := export(ExportUnitsSold, func() error {
		return w.ExportSeries(ExportUnitsSold, HeaderYear, HeaderUnitsSold, r.UnitsSold)
	}); err != nil {
		return err
	}

	if _, err := w.ExportTransactions(ExportTransactions, state.Table.Rows()); err != nil {
		return err
	}
	written(s.opts.Paths.GetReportPath(ExportTransactions))

	if err := s.writeWorkbook(r); err != nil {
		return err
	}
	written(s.opts.Paths.WorkbookFile)

	if s.opts.Summary != nil {
		s.writeSummary(r)
	}

	state.GetStage(s.ID()).SetMetadata(MetaFiles, len(state.Files()))
	return nil
}

func (s *ExportStage) writeWorkbook(r *Results) (err error) {
	wb, err := exporter.NewWorkbook()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := wb.Close(); cerr != nil && err == nil {
			err = apperrors.NewStorageError("failed to close workbook", cerr)
		}
	}()

	if err := wb.AddRegionSeries("Ppsf by side", HeaderYear, HeaderPpsf, r.SidePpsf); err != nil {
		return err
	}
	if err := wb.AddRegionSeries("Change by side", HeaderYear, HeaderChange, r.SideChange); err != nil {
		return err
	}
	if err := wb.AddRegionSeries("Ppsf by community", HeaderYear, HeaderPpsf, r.CommunityPpsf); err != nil {
		return err
	}
	if err := wb.AddRegionSeries("Change by community", HeaderYear, HeaderChange, r.CommunityChange); err != nil {
		return err
	}
	if err := wb.AddSeasonal("Seasonal activity", r.Season); err != nil {
		return err
	}
	if err := wb.AddShares("Sale share", render.MonthLabels, r.SaleShares); err != nil {
		return err
	}
	if err := wb.AddSeries("Units sold", HeaderYear, HeaderUnitsSold, r.UnitsSold); err != nil {
		return err
	}
	return wb.SaveAs(s.opts.Paths.WorkbookFile)
}

func (s *ExportStage) writeSummary(r *Results) {
	out := s.opts.Summary
	exporter.WriteRegionSummary(out, "Median Sale Ppsf by side", exporter.SummarizeRegions(r.SidePpsf, r.SideChange))
	if len(r.CommunityPpsf) > 0 {
		exporter.WriteRegionSummary(out, "Median Sale Ppsf by community", exporter.SummarizeRegions(r.CommunityPpsf, r.CommunityChange))
	}
	exporter.WriteShareSummary(out, TitleSaleShare, render.MonthLabels, r.SaleShares)
}
