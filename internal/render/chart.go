package render

import (
	"math"
	"time"
)

// Kind is the chart type.
type Kind int

const (
	KindLine Kind = iota
	KindBar
	KindPie
	// KindCombo overlays bar and line traces on primary and secondary y axes.
	KindCombo
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindBar:
		return "bar"
	case KindPie:
		return "pie"
	case KindCombo:
		return "combo"
	default:
		return "unknown"
	}
}

// Trace is one data series of a chart.
//
// Line and bar traces use X (numeric keys such as years) or Times (dates);
// Times wins when both are set. Pie traces use Labels with Y and Colors.
type Trace struct {
	Name  string
	Color string
	Kind  Kind

	X     []float64
	Times []time.Time
	Y     []float64

	Labels []string
	Colors []string

	// Secondary draws the trace against the secondary y axis (combo charts).
	Secondary bool
}

// Len returns the number of points of the trace.
func (t Trace) Len() int {
	return len(t.Y)
}

// Finite returns a copy of t without the points whose value is NaN or
// infinite. The X, Times, Labels and Colors entries of a dropped point go
// with it.
func (t Trace) Finite() Trace {
	out := t
	out.X, out.Times, out.Y, out.Labels, out.Colors = nil, nil, nil, nil, nil
	for i, y := range t.Y {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		out.Y = append(out.Y, y)
		if i < len(t.X) {
			out.X = append(out.X, t.X[i])
		}
		if i < len(t.Times) {
			out.Times = append(out.Times, t.Times[i])
		}
		if i < len(t.Labels) {
			out.Labels = append(out.Labels, t.Labels[i])
		}
		if i < len(t.Colors) {
			out.Colors = append(out.Colors, t.Colors[i])
		}
	}
	return out
}

// Chart is a backend independent chart description.
type Chart struct {
	Kind    Kind
	Title   string
	XTitle  string
	YTitle  string
	Y2Title string
	Traces  []Trace
}

// Points returns the total number of points across traces.
func (c Chart) Points() int {
	n := 0
	for _, t := range c.Traces {
		n += t.Len()
	}
	return n
}
