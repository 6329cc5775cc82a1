package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"housingcli/internal/config"
	apperrors "housingcli/internal/errors"
)

var placeholderColor = drawing.ColorFromHex("cccccc")

// goChartRenderable is implemented by chart.Chart, chart.BarChart and chart.PieChart.
type goChartRenderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// GoChartSink renders charts with go-chart. The output format follows the
// destination extension: .png or .svg.
type GoChartSink struct {
	Dir    string
	Width  int
	Height int
}

func (s *GoChartSink) Write(ctx context.Context, c Chart, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	provider, err := goChartProvider(dest)
	if err != nil {
		return err
	}

	renderable, err := s.build(c)
	if err != nil {
		return apperrors.NewRenderError("failed to build chart", err).
			WithContext("dest", dest).
			WithContext("kind", c.Kind.String())
	}

	path, err := resolveDest(s.Dir, dest)
	if err != nil {
		return err
	}

	if err := renderFile(renderable, provider, path); err != nil {
		return err.WithContext("dest", dest).WithContext("kind", c.Kind.String())
	}
	return nil
}

// renderFile renders into memory and writes path only when rendering
// succeeded.
func renderFile(r goChartRenderable, provider chart.RendererProvider, path string) *apperrors.AppError {
	var buf bytes.Buffer
	if err := r.Render(provider, &buf); err != nil {
		return apperrors.NewRenderError("failed to render chart", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return apperrors.NewStorageError("failed to write chart file", err).WithContext("path", path)
	}
	return nil
}

func goChartProvider(dest string) (chart.RendererProvider, error) {
	switch strings.ToLower(filepath.Ext(dest)) {
	case ".png":
		return chart.PNG, nil
	case ".svg":
		return chart.SVG, nil
	default:
		return nil, apperrors.NewRenderError(
			fmt.Sprintf("unsupported chart format %q", filepath.Ext(dest)), nil).
			WithContext("dest", dest)
	}
}

func (s *GoChartSink) size() (int, int) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = config.DefaultChartWidth
	}
	if h <= 0 {
		h = config.DefaultChartHeight
	}
	return w, h
}

func (s *GoChartSink) build(c Chart) (goChartRenderable, error) {
	switch c.Kind {
	case KindLine, KindCombo:
		return s.xyChart(c)
	case KindBar:
		return s.barChart(c)
	case KindPie:
		return s.pieChart(c)
	default:
		return nil, fmt.Errorf("unsupported chart kind %s", c.Kind)
	}
}

func titlePadding() chart.Style {
	return chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}}
}

// xyChart draws line and combo charts. Bar traces of a combo chart are drawn
// as filled series.
func (s *GoChartSink) xyChart(c Chart) (goChartRenderable, error) {
	w, h := s.size()
	ch := chart.Chart{
		Title:      c.Title,
		Width:      w,
		Height:     h,
		Background: titlePadding(),
		XAxis:      chart.XAxis{Name: c.XTitle},
		YAxis:      chart.YAxis{Name: c.YTitle},
	}

	var xs, ys, y2s []float64
	timeAxis := false
	for i, tr := range c.Traces {
		tr = tr.Finite()
		if tr.Len() == 0 {
			continue
		}
		col, err := drawingColor(tr.Color, chart.GetDefaultColor(i))
		if err != nil {
			return nil, err
		}

		style := chart.Style{StrokeColor: col, StrokeWidth: 2}
		if tr.Kind == KindBar {
			style.FillColor = col.WithAlpha(128)
			style.StrokeWidth = 1
		}
		axis := chart.YAxisPrimary
		if tr.Secondary {
			axis = chart.YAxisSecondary
			y2s = append(y2s, tr.Y...)
		} else {
			ys = append(ys, tr.Y...)
		}

		if len(tr.Times) > 0 {
			timeAxis = true
			for _, t := range tr.Times {
				xs = append(xs, chart.TimeToFloat64(t))
			}
			ch.Series = append(ch.Series, chart.TimeSeries{
				Name:    tr.Name,
				XValues: tr.Times,
				YValues: tr.Y,
				Style:   style,
				YAxis:   axis,
			})
			continue
		}

		xs = append(xs, tr.X...)
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Name:    tr.Name,
			XValues: tr.X,
			YValues: tr.Y,
			Style:   style,
			YAxis:   axis,
		})
	}

	if len(ch.Series) == 0 {
		ch.Series = []chart.Series{chart.ContinuousSeries{
			Name:    "no data",
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: placeholderColor, StrokeWidth: 1},
		}}
		xs, ys = []float64{0, 1}, []float64{0}
	}

	if timeAxis {
		ch.XAxis.Range = paddedRange(xs, float64(24*time.Hour), 0)
	} else {
		ch.XAxis.Range = paddedRange(xs, 1, 0)
		ch.XAxis.ValueFormatter = integerFormatter
		ch.XAxis.Ticks = integerTicks(xs)
	}
	ch.YAxis.Range = paddedRange(ys, 1, 0.05)
	if len(y2s) > 0 {
		ch.YAxisSecondary = chart.YAxis{Name: c.Y2Title, Range: paddedRange(y2s, 1, 0.05)}
	}

	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, nil
}

func (s *GoChartSink) barChart(c Chart) (goChartRenderable, error) {
	w, h := s.size()
	bc := chart.BarChart{
		Title:      c.Title,
		Width:      w,
		Height:     h,
		Background: titlePadding(),
	}

	var ys []float64
	for i, tr := range c.Traces {
		// A NaN bar height never finishes rasterizing.
		tr = tr.Finite()
		col, err := drawingColor(tr.Color, chart.GetDefaultColor(i))
		if err != nil {
			return nil, err
		}
		every := labelStride(tr.Len())
		for j, y := range tr.Y {
			label := ""
			if j%every == 0 {
				label = pointLabel(tr, j)
			}
			bc.Bars = append(bc.Bars, chart.Value{
				Label: label,
				Value: y,
				Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 0},
			})
			ys = append(ys, y)
		}
	}

	if len(bc.Bars) == 0 {
		bc.Bars = []chart.Value{{Label: "no data", Value: 0, Style: chart.Style{FillColor: placeholderColor}}}
		ys = []float64{0}
	}

	// Bars share the canvas width left of the y axis.
	per := (w - 120) / len(bc.Bars)
	if per < 2 {
		per = 2
	}
	bc.BarSpacing = per / 5
	bc.BarWidth = per - bc.BarSpacing

	r := paddedRange(append(ys, 0), 1, 0.05)
	bc.YAxis = chart.YAxis{Name: c.YTitle, Range: r}
	return bc, nil
}

func (s *GoChartSink) pieChart(c Chart) (goChartRenderable, error) {
	w, h := s.size()
	pc := chart.PieChart{
		Title:      c.Title,
		Width:      w,
		Height:     h,
		Background: titlePadding(),
	}

	var total float64
	for _, tr := range c.Traces {
		for _, v := range tr.Y {
			total += v
		}
	}

	for _, tr := range c.Traces {
		for i, v := range tr.Y {
			if v <= 0 {
				continue
			}
			colorName := ""
			if i < len(tr.Colors) {
				colorName = tr.Colors[i]
			}
			col, err := drawingColor(colorName, chart.GetDefaultColor(i))
			if err != nil {
				return nil, err
			}
			label := ""
			if i < len(tr.Labels) {
				label = tr.Labels[i]
			}
			pc.Values = append(pc.Values, chart.Value{
				Label: fmt.Sprintf("%s %.1f%%", label, v/total*100),
				Value: v,
				Style: chart.Style{FillColor: col},
			})
		}
	}

	if len(pc.Values) == 0 {
		pc.Values = []chart.Value{{Label: "no data", Value: 1, Style: chart.Style{FillColor: placeholderColor}}}
	}
	return pc, nil
}

// paddedRange spans values, widened by pad*span on both ends. A degenerate
// span is widened by minSpan.
func paddedRange(values []float64, minSpan, pad float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return &chart.ContinuousRange{Min: 0, Max: minSpan}
	}
	if hi-lo == 0 {
		return &chart.ContinuousRange{Min: lo - minSpan, Max: hi + minSpan}
	}
	margin := (hi - lo) * pad
	return &chart.ContinuousRange{Min: lo - margin, Max: hi + margin}
}

func integerFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(math.Round(f), 'f', 0, 64)
	}
	return ""
}

// integerTicks places ticks on whole numbers, at most about a dozen of them.
func integerTicks(xs []float64) []chart.Tick {
	r := paddedRange(xs, 1, 0)
	lo, hi := math.Ceil(r.Min), math.Floor(r.Max)
	step := math.Max(1, math.Ceil((hi-lo)/12))
	var ticks []chart.Tick
	for v := lo; v <= hi; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: integerFormatter(v)})
	}
	return ticks
}

// labelStride keeps roughly a dozen bar labels.
func labelStride(n int) int {
	if n <= 12 {
		return 1
	}
	return int(math.Ceil(float64(n) / 12))
}

func pointLabel(tr Trace, i int) string {
	if i < len(tr.Times) {
		return tr.Times[i].Format("Jan 2006")
	}
	if i < len(tr.X) {
		return integerFormatter(tr.X[i])
	}
	if i < len(tr.Labels) {
		return tr.Labels[i]
	}
	return strconv.Itoa(i + 1)
}
