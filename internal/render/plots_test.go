package render

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "housingcli/internal/errors"
	"housingcli/pkg/contracts/domain"
)

func yearly(values ...float64) domain.Series {
	s := make(domain.Series, len(values))
	for i, v := range values {
		s[i] = domain.Point{Key: 2012 + i, Value: v, Valid: true}
	}
	return s
}

func twoRegions() domain.RegionSeries {
	var rs domain.RegionSeries
	rs.Set("Chicago, IL", yearly(100, 110, 120))
	rs.Set("Chicago, IL - North Side", yearly(200, 190))
	return rs
}

func TestPlotPpsfByYear(t *testing.T) {
	sink := NewMemorySink()
	err := PlotPpsfByYear(context.Background(), sink, twoRegions(), []string{"firebrick", "#1f77b4"}, "Median Sale Price Psf in Chicago (by side)", "fig1.png")
	require.NoError(t, err)

	c, ok := sink.Get("fig1.png")
	require.True(t, ok)
	assert.Equal(t, KindLine, c.Kind)
	assert.Equal(t, "Median Sale Price Psf in Chicago (by side)", c.Title)
	assert.Equal(t, "Year", c.XTitle)
	assert.Equal(t, "Ppsf($)", c.YTitle)
	require.Len(t, c.Traces, 2)
	assert.Equal(t, "Chicago, IL", c.Traces[0].Name)
	assert.Equal(t, "firebrick", c.Traces[0].Color)
	assert.Equal(t, []float64{2012, 2013, 2014}, c.Traces[0].X)
	assert.Equal(t, []float64{100, 110, 120}, c.Traces[0].Y)
}

func TestPlot_LengthMismatch(t *testing.T) {
	frame := domain.SeasonalFrame{Region: "Chicago, IL"}

	tests := []struct {
		name string
		plot func(Sink) error
	}{
		{"ppsf", func(s Sink) error {
			return PlotPpsfByYear(context.Background(), s, twoRegions(), []string{"red", "green", "blue"}, "t", "f.png")
		}},
		{"percent", func(s Sink) error {
			return PlotPercentByYear(context.Background(), s, twoRegions(), []string{"red"}, "t", "fig")
		}},
		{"season", func(s Sink) error {
			return PlotSeasonByMonth(context.Background(), s, frame, []string{"firebrick", "pink", "green"}, "t", "fig")
		}},
		{"share", func(s Sink) error {
			return PlotMonthlySaleShare(context.Background(), s, []float64{0.5, 0.5}, "t", "fig_share.png")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := NewMemorySink()
			err := tt.plot(sink)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrLengthMismatch))
			assert.Contains(t, err.Error(), "Length of series and colors must be equal")
			assert.Empty(t, sink.Charts(), "nothing may be written on mismatch")
		})
	}
}

func TestPlot_InvalidColor(t *testing.T) {
	sink := NewMemorySink()
	err := PlotPpsfByYear(context.Background(), sink, twoRegions(), []string{"firebrick", "notacolor"}, "t", "f.png")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeRender, appErr.Type)
	assert.Empty(t, sink.Charts())
}

func TestPlotPercentByYear(t *testing.T) {
	rs := domain.RegionSeries{
		{Region: "Chicago, IL", Series: domain.Series{
			{Key: 2012},
			{Key: 2013, Value: 10, Valid: true},
		}},
		{Region: "Chicago, IL - The Loop", Series: domain.Series{{Key: 2012}}},
	}

	sink := NewMemorySink()
	err := PlotPercentByYear(context.Background(), sink, rs, []string{"pink", "green"}, "% Change of House Price in Chicago (by side)", "fig")
	require.NoError(t, err)

	assert.Equal(t, []string{"fig_Chicago, IL - The Loop.png", "fig_Chicago, IL.png"}, sink.Dests())

	c, ok := sink.Get("fig_Chicago, IL.png")
	require.True(t, ok)
	assert.Equal(t, "% Change of House Price in Chicago (by side) - Chicago, IL", c.Title)
	assert.Equal(t, "percentage change (%)", c.YTitle)
	require.Len(t, c.Traces, 1)
	assert.Equal(t, []float64{2013}, c.Traces[0].X, "missing first point is left out")
	assert.Equal(t, []float64{10}, c.Traces[0].Y)

	loop, ok := sink.Get("fig_Chicago, IL - The Loop.png")
	require.True(t, ok)
	assert.Zero(t, loop.Points())
}

func TestPlotSeasonByMonth(t *testing.T) {
	frame := domain.SeasonalFrame{
		Region: "Chicago, IL",
		Rows: []domain.SeasonalRow{
			{PeriodEnd: time.Date(2013, 1, 31, 0, 0, 0, 0, time.UTC), MedianSalePpsf: 150, HomesSold: 1200},
			{PeriodEnd: time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC), MedianSalePpsf: 210, HomesSold: 1500},
		},
	}

	sink := NewMemorySink()
	err := PlotSeasonByMonth(context.Background(), sink, frame, []string{"orange", "lightblue"}, "Seasonal Activity", "fig")
	require.NoError(t, err)

	ppsf, ok := sink.Get("fig_Median Sale Ppsf.png")
	require.True(t, ok)
	assert.Equal(t, KindBar, ppsf.Kind)
	assert.Equal(t, "Seasonal Activity - Median Sale Ppsf from 2013 - 2018", ppsf.Title)
	assert.Equal(t, []float64{150, 210}, ppsf.Traces[0].Y)
	assert.Equal(t, "orange", ppsf.Traces[0].Color)

	sold, ok := sink.Get("fig_Homes Sold.png")
	require.True(t, ok)
	assert.Equal(t, []float64{1200, 1500}, sold.Traces[0].Y)
	assert.Equal(t, "lightblue", sold.Traces[0].Color)
}

func TestPlotSeasonByMonth_MissingPpsf(t *testing.T) {
	jan := time.Date(2013, 1, 31, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2013, 2, 28, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2013, 3, 31, 0, 0, 0, 0, time.UTC)
	frame := domain.SeasonalFrame{
		Region: "Chicago, IL",
		Rows: []domain.SeasonalRow{
			{PeriodEnd: jan, MedianSalePpsf: 150, HomesSold: 1200},
			{PeriodEnd: feb, MedianSalePpsf: math.NaN(), HomesSold: 1300},
			{PeriodEnd: mar, MedianSalePpsf: 160, HomesSold: 1400},
		},
	}

	sink := NewMemorySink()
	require.NoError(t, PlotSeasonByMonth(context.Background(), sink, frame, []string{"orange", "lightblue"}, "Seasonal Activity", "fig"))

	ppsf, ok := sink.Get("fig_Median Sale Ppsf.png")
	require.True(t, ok)
	assert.Equal(t, []float64{150, 160}, ppsf.Traces[0].Y)
	assert.Equal(t, []time.Time{jan, mar}, ppsf.Traces[0].Times)

	sold, ok := sink.Get("fig_Homes Sold.png")
	require.True(t, ok)
	assert.Len(t, sold.Traces[0].Y, 3)
}

func TestTrace_Finite(t *testing.T) {
	tr := Trace{
		X:      []float64{1, 2, 3, 4},
		Y:      []float64{10, math.NaN(), math.Inf(-1), 40},
		Labels: []string{"a", "b", "c", "d"},
	}
	got := tr.Finite()
	assert.Equal(t, []float64{1, 4}, got.X)
	assert.Equal(t, []float64{10, 40}, got.Y)
	assert.Equal(t, []string{"a", "d"}, got.Labels)
	assert.Len(t, tr.Y, 4)
}

func TestPlotMonthlySaleShare(t *testing.T) {
	shares := make([]float64, 12)
	for i := range shares {
		shares[i] = 1.0 / 12
	}

	sink := NewMemorySink()
	require.NoError(t, PlotMonthlySaleShare(context.Background(), sink, shares, "Share of Homes Sale in Unit by Month", "fig_share.png"))

	c, ok := sink.Get("fig_share.png")
	require.True(t, ok)
	assert.Equal(t, KindPie, c.Kind)
	assert.Equal(t, MonthLabels, c.Traces[0].Labels)
	assert.Equal(t, MonthColors, c.Traces[0].Colors)
	assert.Equal(t, "#FDB603", c.Traces[0].Colors[6])
}

func TestPlotMonthlyUnitSold(t *testing.T) {
	sink := NewMemorySink()
	require.NoError(t, PlotMonthlyUnitSold(context.Background(), sink, yearly(1724, 1800), "Avg Monthly Unit Sold from 2012 - 2019 in Chicago, IL", "fig_sale.png"))

	c, ok := sink.Get("fig_sale.png")
	require.True(t, ok)
	assert.Equal(t, "green", c.Traces[0].Color)
	assert.Equal(t, "Avg Monthly Homes Sold in Unit", c.YTitle)
}

func TestPlotMortgageVsPpsf(t *testing.T) {
	rates := []domain.RatePoint{
		{Date: time.Date(2012, 1, 5, 0, 0, 0, 0, time.UTC), Rate: 3.91},
		{Date: time.Date(2013, 1, 3, 0, 0, 0, 0, time.UTC), Rate: 3.34},
	}

	sink := NewMemorySink()
	require.NoError(t, PlotMortgageVsPpsf(context.Background(), sink, yearly(150, 160), rates, "Mortgage Rate vs. House Price in Chicago", "fig_mortgage.png"))

	c, ok := sink.Get("fig_mortgage.png")
	require.True(t, ok)
	assert.Equal(t, KindCombo, c.Kind)
	assert.Equal(t, "mortgage 30-year fixed rate (%)", c.YTitle)
	assert.Equal(t, "median sale price per square feet ($)", c.Y2Title)
	require.Len(t, c.Traces, 2)

	assert.Equal(t, KindBar, c.Traces[0].Kind)
	assert.False(t, c.Traces[0].Secondary)
	assert.Equal(t, "30-year fixed mortgage rate (2012 - 2013)", c.Traces[0].Name)

	assert.Equal(t, KindLine, c.Traces[1].Kind)
	assert.True(t, c.Traces[1].Secondary)
	assert.Equal(t, "orange", c.Traces[1].Color)
	assert.Equal(t, time.Date(2012, time.July, 1, 0, 0, 0, 0, time.UTC), c.Traces[1].Times[0])
}

func TestPlot_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := NewMemorySink()
	err := PlotMonthlyUnitSold(ctx, sink, yearly(1), "t", "f.png")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.Charts())
}

func TestVariantName(t *testing.T) {
	assert.Equal(t, "fig_Chicago, IL.png", VariantName("fig", "Chicago, IL"))
	assert.Equal(t, "out/fig_Homes Sold.svg", VariantName("out/fig.svg", "Homes Sold"))
	assert.Equal(t, "fig_a-b.png", VariantName("fig", "a/b"))
}
