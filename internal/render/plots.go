package render

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	apperrors "housingcli/internal/errors"
	"housingcli/pkg/contracts/domain"
)

// Axis titles.
const (
	YearAxisTitle      = "Year"
	PpsfAxisTitle      = "Ppsf($)"
	PercentAxisTitle   = "percentage change (%)"
	UnitsAxisTitle     = "Avg Monthly Homes Sold in Unit"
	RateAxisTitle      = "mortgage 30-year fixed rate (%)"
	PpsfRateAxisTitle  = "median sale price per square feet ($)"
	defaultChartFormat = ".png"
)

// MonthLabels and MonthColors are the fixed labels and slice colors of the
// sale share pie.
var (
	MonthLabels = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	MonthColors = []string{
		"#1f77b4", "#ff7f0e", "#9467bd", "#2ca02c", "#d62728", "#e377c2",
		"#FDB603", "#639702", "#dacde6", "#faec72", "#9ab973", "#87cefa",
	}
)

const (
	unitsColor = "green"
	ppsfColor  = "orange"
	rateColor  = "#1f77b4"
)

// checkColors validates the series/color pairing before anything is drawn.
func checkColors(series int, colors []string) error {
	if series != len(colors) {
		return apperrors.NewLengthMismatchError(series, len(colors))
	}
	if err := ValidateColors(colors); err != nil {
		return apperrors.NewRenderError("invalid chart color", err)
	}
	return nil
}

// VariantName derives the file name of one chart of a family: the label is
// appended to base with an underscore. base keeps its extension, or gets .png.
func VariantName(base, label string) string {
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	if ext == "" {
		ext = defaultChartFormat
	}
	return fmt.Sprintf("%s_%s%s", stem, SafeFileName(label), ext)
}

// seriesTrace builds a line trace from the valid points of s.
func seriesTrace(name, color string, s domain.Series) Trace {
	valid := s.ValidPoints()
	tr := Trace{Name: name, Color: color, Kind: KindLine}
	tr.X = make([]float64, len(valid))
	tr.Y = make([]float64, len(valid))
	for i, p := range valid {
		tr.X[i] = float64(p.Key)
		tr.Y[i] = p.Value
	}
	return tr
}

// PlotPpsfByYear draws every region of rs as one line of a single chart.
func PlotPpsfByYear(ctx context.Context, sink Sink, rs domain.RegionSeries, colors []string, title, filename string) error {
	if err := checkColors(len(rs), colors); err != nil {
		return err
	}

	c := Chart{Kind: KindLine, Title: title, XTitle: YearAxisTitle, YTitle: PpsfAxisTitle}
	for i, l := range rs {
		c.Traces = append(c.Traces, seriesTrace(l.Region, colors[i], l.Series))
	}
	return sink.Write(ctx, c, filename)
}

// PlotPercentByYear draws one chart per region, written to base_<region>.
// Missing points are left out of the lines.
func PlotPercentByYear(ctx context.Context, sink Sink, rs domain.RegionSeries, colors []string, title, base string) error {
	if err := checkColors(len(rs), colors); err != nil {
		return err
	}

	for i, l := range rs {
		c := Chart{
			Kind:   KindLine,
			Title:  title + " - " + l.Region,
			XTitle: YearAxisTitle,
			YTitle: PercentAxisTitle,
			Traces: []Trace{seriesTrace(l.Region, colors[i], l.Series)},
		}
		if err := sink.Write(ctx, c, VariantName(base, l.Region)); err != nil {
			return err
		}
	}
	return nil
}

// PlotSeasonByMonth draws one bar chart per value column of frame, indexed
// by period end, written to base_<column>. Missing values get no bar.
func PlotSeasonByMonth(ctx context.Context, sink Sink, frame domain.SeasonalFrame, colors []string, title, base string) error {
	columns := frame.Columns()
	if err := checkColors(len(columns), colors); err != nil {
		return err
	}

	first, last, ok := frame.YearSpan()
	index := frame.Index()
	for i, col := range columns {
		values, _ := frame.Column(col)
		tr := Trace{Name: col, Color: colors[i], Kind: KindBar, Times: index, Y: values}

		chartTitle := title + " - " + col
		if ok {
			chartTitle = fmt.Sprintf("%s from %d - %d", chartTitle, first, last)
		}
		c := Chart{
			Kind:   KindBar,
			Title:  chartTitle,
			YTitle: col,
			Traces: []Trace{tr.Finite()},
		}
		if err := sink.Write(ctx, c, VariantName(base, col)); err != nil {
			return err
		}
	}
	return nil
}

// PlotMonthlySaleShare draws the monthly shares as a pie with fixed month
// labels and colors. shares must hold one value per month.
func PlotMonthlySaleShare(ctx context.Context, sink Sink, shares []float64, title, filename string) error {
	if len(shares) != len(MonthLabels) {
		return apperrors.NewLengthMismatchError(len(shares), len(MonthColors))
	}

	c := Chart{
		Kind:  KindPie,
		Title: title,
		Traces: []Trace{{
			Kind:   KindPie,
			Labels: MonthLabels,
			Colors: MonthColors,
			Y:      append([]float64(nil), shares...),
		}},
	}
	return sink.Write(ctx, c, filename)
}

// PlotMonthlyUnitSold draws the yearly average of monthly units sold as a green line.
func PlotMonthlyUnitSold(ctx context.Context, sink Sink, s domain.Series, title, filename string) error {
	c := Chart{
		Kind:   KindLine,
		Title:  title,
		XTitle: YearAxisTitle,
		YTitle: UnitsAxisTitle,
		Traces: []Trace{seriesTrace("Avg Monthly Homes Sold", unitsColor, s)},
	}
	return sink.Write(ctx, c, filename)
}

// PlotMortgageVsPpsf overlays the mortgage rate (bars, primary axis) and the
// yearly median price per square foot (orange line, secondary axis). Yearly
// values are placed at mid-year.
func PlotMortgageVsPpsf(ctx context.Context, sink Sink, ppsf domain.Series, rates []domain.RatePoint, title, filename string) error {
	rateTrace := Trace{Kind: KindBar, Color: rateColor, Name: "30-year fixed mortgage rate"}
	for _, r := range rates {
		rateTrace.Times = append(rateTrace.Times, r.Date)
		rateTrace.Y = append(rateTrace.Y, r.Rate)
	}
	if len(rates) > 0 {
		rateTrace.Name += yearSpan(rates[0].Date.Year(), rates[len(rates)-1].Date.Year())
	}

	valid := ppsf.ValidPoints()
	ppsfTrace := Trace{Kind: KindLine, Color: ppsfColor, Name: "Median Sale Ppsf", Secondary: true}
	for _, p := range valid {
		ppsfTrace.Times = append(ppsfTrace.Times, time.Date(p.Key, time.July, 1, 0, 0, 0, 0, time.UTC))
		ppsfTrace.Y = append(ppsfTrace.Y, p.Value)
	}
	if len(valid) > 0 {
		ppsfTrace.Name += yearSpan(valid[0].Key, valid[len(valid)-1].Key)
	}

	c := Chart{
		Kind:    KindCombo,
		Title:   title,
		XTitle:  YearAxisTitle,
		YTitle:  RateAxisTitle,
		Y2Title: PpsfRateAxisTitle,
		Traces:  []Trace{rateTrace, ppsfTrace},
	}
	return sink.Write(ctx, c, filename)
}

func yearSpan(first, last int) string {
	return fmt.Sprintf(" (%d - %d)", first, last)
}
