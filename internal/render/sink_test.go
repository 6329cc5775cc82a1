package render

import (
	"context"
	"errors"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"housingcli/internal/config"
	apperrors "housingcli/internal/errors"
	"housingcli/pkg/contracts/domain"
)

var pngMagic = []byte("\x89PNG")

func lineChart() Chart {
	return Chart{
		Kind:   KindLine,
		Title:  "Median Sale Price Psf",
		XTitle: YearAxisTitle,
		YTitle: PpsfAxisTitle,
		Traces: []Trace{
			{Name: "Chicago, IL", Color: "firebrick", X: []float64{2012, 2013, 2014}, Y: []float64{100, 110, 120}},
			{Name: "Chicago, IL - The Loop", Color: "navy", X: []float64{2012}, Y: []float64{300}},
		},
	}
}

func barChart() Chart {
	start := time.Date(2013, 1, 31, 0, 0, 0, 0, time.UTC)
	var times []time.Time
	var ys []float64
	for i := 0; i < 30; i++ {
		times = append(times, start.AddDate(0, i, 0))
		ys = append(ys, float64(1000+i*10))
	}
	return Chart{
		Kind:   KindBar,
		Title:  "Seasonal Activity - Homes Sold",
		Traces: []Trace{{Name: "Homes Sold", Color: "lightblue", Kind: KindBar, Times: times, Y: ys}},
	}
}

func readHead(t *testing.T, path string, n int) []byte {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(content), n)
	return content[:n]
}

func TestGoChartSink(t *testing.T) {
	shares := make([]float64, 12)
	shares[0], shares[5] = 0.4, 0.6

	tests := []struct {
		name  string
		chart Chart
		dest  string
	}{
		{"line png", lineChart(), "fig1.png"},
		{"line svg", lineChart(), "fig1.svg"},
		{"bar", barChart(), "fig_Homes Sold.png"},
		{"pie", Chart{Kind: KindPie, Title: "Share", Traces: []Trace{{Kind: KindPie, Labels: MonthLabels, Colors: MonthColors, Y: shares}}}, "fig_share.png"},
		{"empty pie", Chart{Kind: KindPie, Title: "Share", Traces: []Trace{{Kind: KindPie, Labels: MonthLabels, Colors: MonthColors, Y: make([]float64, 12)}}}, "fig_empty_share.png"},
		{"empty line", Chart{Kind: KindLine, Title: "Nothing", Traces: []Trace{{Name: "none"}}}, "fig_empty.png"},
		{"combo", Chart{
			Kind:    KindCombo,
			Title:   "Mortgage Rate vs. House Price in Chicago",
			YTitle:  RateAxisTitle,
			Y2Title: PpsfRateAxisTitle,
			Traces: []Trace{
				{Kind: KindBar, Color: "#1f77b4", Times: []time.Time{time.Date(2012, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(2013, 1, 3, 0, 0, 0, 0, time.UTC)}, Y: []float64{3.91, 3.34}},
				{Kind: KindLine, Color: "orange", Secondary: true, Times: []time.Time{time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2013, 7, 1, 0, 0, 0, 0, time.UTC)}, Y: []float64{150, 160}},
			},
		}, "fig_mortgage.png"},
	}

	dir := t.TempDir()
	sink := &GoChartSink{Dir: dir, Width: 640, Height: 360}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, sink.Write(context.Background(), tt.chart, tt.dest))

			path := filepath.Join(dir, tt.dest)
			if filepath.Ext(tt.dest) == ".svg" {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Contains(t, string(content), "<svg")
				return
			}
			assert.Equal(t, pngMagic, readHead(t, path, len(pngMagic)))
		})
	}
}

func TestGoChartSink_UnsupportedFormat(t *testing.T) {
	sink := &GoChartSink{Dir: t.TempDir()}
	err := sink.Write(context.Background(), lineChart(), "fig1.bmp")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeRender, appErr.Type)
}

func TestGonumSink(t *testing.T) {
	dir := t.TempDir()
	sink := &GonumSink{Dir: dir, Width: 640, Height: 360}

	require.NoError(t, sink.Write(context.Background(), lineChart(), "fig1.png"))
	assert.Equal(t, pngMagic, readHead(t, filepath.Join(dir, "fig1.png"), len(pngMagic)))

	require.NoError(t, sink.Write(context.Background(), barChart(), "nested/fig_bar.svg"))
	content, err := os.ReadFile(filepath.Join(dir, "nested", "fig_bar.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "<svg")
}

func TestGonumSink_UnsupportedKinds(t *testing.T) {
	sink := &GonumSink{Dir: t.TempDir()}

	for _, kind := range []Kind{KindPie, KindCombo} {
		err := sink.Write(context.Background(), Chart{Kind: kind}, "fig.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), kind.String())
	}
}

func TestSinkFor(t *testing.T) {
	s, err := SinkFor(config.RenderConfig{Backend: config.BackendGoChart, Width: 800, Height: 600}, "charts")
	require.NoError(t, err)
	assert.IsType(t, &GoChartSink{}, s)

	s, err = SinkFor(config.RenderConfig{Backend: config.BackendGonum}, "charts")
	require.NoError(t, err)
	require.IsType(t, KindSink{}, s)
	ks := s.(KindSink)
	assert.IsType(t, &GonumSink{}, ks.Default)
	assert.IsType(t, &GoChartSink{}, ks.ByKind[KindPie])
	assert.IsType(t, &GoChartSink{}, ks.ByKind[KindCombo])
	_, ok := ks.ByKind[KindBar]
	assert.False(t, ok)

	_, err = SinkFor(config.RenderConfig{Backend: "plotly"}, "charts")
	require.Error(t, err)
}

func TestMultiAndObservedSink(t *testing.T) {
	first, second := NewMemorySink(), NewMemorySink()
	var observed []string

	sink := ObservedSink{
		Next: MultiSink{first, second},
		OnWrite: func(_ context.Context, _ Chart, dest string) {
			observed = append(observed, dest)
		},
	}

	require.NoError(t, sink.Write(context.Background(), lineChart(), "fig1.png"))
	assert.Len(t, first.Charts(), 1)
	assert.Len(t, second.Charts(), 1)
	assert.Equal(t, []string{"fig1.png"}, observed)
}

func TestKindSink(t *testing.T) {
	lines, pies := NewMemorySink(), NewMemorySink()
	sink := KindSink{Default: lines, ByKind: map[Kind]Sink{KindPie: pies}}

	require.NoError(t, sink.Write(context.Background(), lineChart(), "fig1.png"))
	require.NoError(t, sink.Write(context.Background(), Chart{Kind: KindPie}, "fig_share.png"))

	assert.Equal(t, []string{"fig1.png"}, lines.Dests())
	assert.Equal(t, []string{"fig_share.png"}, pies.Dests())
}

func TestGonumBackend_AllKinds(t *testing.T) {
	dir := t.TempDir()
	sink, err := SinkFor(config.RenderConfig{Backend: config.BackendGonum, Width: 640, Height: 360}, dir)
	require.NoError(t, err)

	shares := make([]float64, 12)
	shares[0], shares[6] = 0.3, 0.7
	ctx := context.Background()
	require.NoError(t, PlotMonthlySaleShare(ctx, sink, shares, "Share", "fig_share.png"))
	require.NoError(t, PlotMortgageVsPpsf(ctx, sink, yearly(150, 160),
		[]domain.RatePoint{{Date: time.Date(2012, 1, 5, 0, 0, 0, 0, time.UTC), Rate: 3.91}}, "Mortgage", "fig_mortgage.png"))
	require.NoError(t, sink.Write(ctx, barChart(), "fig_bar.png"))

	for _, name := range []string{"fig_share.png", "fig_mortgage.png", "fig_bar.png"} {
		assert.Equal(t, pngMagic, readHead(t, filepath.Join(dir, name), len(pngMagic)), name)
	}
}

func TestSinks_SkipMissingBarValues(t *testing.T) {
	nan := barChart()
	nan.Traces[0].Y[4] = math.NaN()
	nan.Traces[0].Y[9] = math.Inf(1)

	tests := []struct {
		name string
		sink func(dir string) Sink
	}{
		{"gochart", func(dir string) Sink { return &GoChartSink{Dir: dir, Width: 640, Height: 360} }},
		{"gonum", func(dir string) Sink { return &GonumSink{Dir: dir, Width: 640, Height: 360} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()

			done := make(chan error, 1)
			go func() { done <- tt.sink(dir).Write(ctx, nan, "fig_nan.png") }()

			select {
			case err := <-done:
				require.NoError(t, err)
			case <-ctx.Done():
				t.Fatal("bar chart with missing values did not finish rendering")
			}
			assert.Equal(t, pngMagic, readHead(t, filepath.Join(dir, "fig_nan.png"), len(pngMagic)))
		})
	}
}

// halfRendered writes a few bytes and then fails.
type halfRendered struct{}

func (halfRendered) Render(_ chart.RendererProvider, w io.Writer) error {
	_, _ = w.Write(pngMagic)
	return errors.New("canvas too small")
}

func TestRenderFile_NoFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fig1.png")

	err := renderFile(halfRendered{}, chart.PNG, path)
	require.NotNil(t, err)
	assert.Equal(t, apperrors.ErrTypeRender, err.Type)
	assert.NoFileExists(t, path)

	require.Nil(t, renderFile(chart.Chart{
		Series: []chart.Series{chart.ContinuousSeries{XValues: []float64{1, 2}, YValues: []float64{1, 2}}},
	}, chart.PNG, path))
	assert.Equal(t, pngMagic, readHead(t, path, len(pngMagic)))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "firebrick", want: color.RGBA{R: 0xb2, G: 0x22, B: 0x22, A: 0xff}},
		{in: "LawnGreen", want: color.RGBA{R: 0x7c, G: 0xfc, B: 0x00, A: 0xff}},
		{in: "#1f77b4", want: color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}},
		{in: "#FDB603", want: color.RGBA{R: 0xfd, G: 0xb6, B: 0x03, A: 0xff}},
		{in: "#zzzzzz", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "plaid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
