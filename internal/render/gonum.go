package render

import (
	"context"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"housingcli/internal/config"
	apperrors "housingcli/internal/errors"
)

// GonumSink renders line and bar charts with gonum/plot. The format follows
// the destination extension (png, svg, pdf, ...). Pie and combo charts are
// not supported.
type GonumSink struct {
	Dir    string
	Width  int
	Height int
}

func (s *GonumSink) Write(ctx context.Context, c Chart, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		p   *plot.Plot
		err error
	)
	switch c.Kind {
	case KindLine:
		p, err = s.linePlot(c)
	case KindBar:
		p, err = s.barPlot(c)
	default:
		return apperrors.NewRenderError(fmt.Sprintf("gonum backend does not support %s charts", c.Kind), nil).
			WithContext("dest", dest).
			WithContext("kind", c.Kind.String())
	}
	if err != nil {
		return apperrors.NewRenderError("failed to build plot", err).WithContext("dest", dest)
	}

	path, err := resolveDest(s.Dir, dest)
	if err != nil {
		return err
	}

	w, h := s.size()
	if err := p.Save(w, h, path); err != nil {
		return apperrors.NewRenderError("failed to save plot", err).WithContext("path", path)
	}
	return nil
}

// size converts the configured pixel size to points at 96 dpi.
func (s *GonumSink) size() (vg.Length, vg.Length) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = config.DefaultChartWidth
	}
	if h <= 0 {
		h = config.DefaultChartHeight
	}
	return vg.Points(float64(w) * 0.75), vg.Points(float64(h) * 0.75)
}

func newPlot(c Chart) *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XTitle
	p.Y.Label.Text = c.YTitle
	p.Add(plotter.NewGrid())
	return p
}

func gonumColor(name string, index int) (color.Color, error) {
	if name == "" {
		return plotutil.Color(index), nil
	}
	return ParseColor(name)
}

func (s *GonumSink) linePlot(c Chart) (*plot.Plot, error) {
	p := newPlot(c)
	timeAxis := false

	for i, tr := range c.Traces {
		tr = tr.Finite()
		if tr.Len() == 0 {
			continue
		}
		xys := make(plotter.XYs, tr.Len())
		for j := range xys {
			switch {
			case j < len(tr.Times):
				xys[j].X = float64(tr.Times[j].Unix())
				timeAxis = true
			case j < len(tr.X):
				xys[j].X = tr.X[j]
			default:
				xys[j].X = float64(j)
			}
			xys[j].Y = tr.Y[j]
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		col, err := gonumColor(tr.Color, i)
		if err != nil {
			return nil, err
		}
		line.Color = col
		line.Width = vg.Points(2)

		p.Add(line)
		if tr.Name != "" {
			p.Legend.Add(tr.Name, line)
		}
	}

	if timeAxis {
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	} else {
		p.X.Tick.Marker = yearTicks{}
	}
	p.Legend.Top = true
	return p, nil
}

func (s *GonumSink) barPlot(c Chart) (*plot.Plot, error) {
	p := newPlot(c)
	w, _ := s.size()

	// plotter rejects NaN bar values
	traces := make([]Trace, len(c.Traces))
	n := 0
	for i, tr := range c.Traces {
		traces[i] = tr.Finite()
		n = max(n, traces[i].Len())
	}
	if n == 0 {
		return p, nil
	}
	barWidth := w * 0.8 / vg.Length(n*max(1, len(traces)))

	for i, tr := range traces {
		if tr.Len() == 0 {
			continue
		}
		bars, err := plotter.NewBarChart(plotter.Values(append([]float64(nil), tr.Y...)), barWidth)
		if err != nil {
			return nil, err
		}
		col, err := gonumColor(tr.Color, i)
		if err != nil {
			return nil, err
		}
		bars.Color = col
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(i) * barWidth

		p.Add(bars)
		if tr.Name != "" {
			p.Legend.Add(tr.Name, bars)
		}
	}

	labels := make([]string, n)
	every := labelStride(n)
	for j := 0; j < n; j += every {
		labels[j] = pointLabel(traces[0], j)
	}
	p.NominalX(labels...)
	p.Legend.Top = true
	return p, nil
}

// yearTicks labels whole numbers only, for year keyed axes.
type yearTicks struct{}

func (yearTicks) Ticks(lo, hi float64) []plot.Tick {
	var ticks []plot.Tick
	for _, t := range integerTicks([]float64{lo, hi}) {
		ticks = append(ticks, plot.Tick{Value: t.Value, Label: t.Label})
	}
	return ticks
}
