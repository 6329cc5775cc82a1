package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"housingcli/internal/config"
	apperrors "housingcli/internal/errors"
)

// Sink receives finished chart descriptions. dest is a file name, resolved
// by the sink.
type Sink interface {
	Write(ctx context.Context, c Chart, dest string) error
}

// SinkFor returns the file sink of the configured backend writing into dir.
// gonum/plot has no pie or dual axis charts, so with the gonum backend those
// two kinds are drawn by go-chart.
func SinkFor(rc config.RenderConfig, dir string) (Sink, error) {
	goChart := &GoChartSink{Dir: dir, Width: rc.Width, Height: rc.Height}
	switch rc.Backend {
	case config.BackendGoChart, "":
		return goChart, nil
	case config.BackendGonum:
		return KindSink{
			Default: &GonumSink{Dir: dir, Width: rc.Width, Height: rc.Height},
			ByKind:  map[Kind]Sink{KindPie: goChart, KindCombo: goChart},
		}, nil
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown render backend %q", rc.Backend), nil).
			WithContext("backend", rc.Backend)
	}
}

// resolveDest joins dest to dir unless it is absolute and makes sure the
// parent directory exists.
func resolveDest(dir, dest string) (string, error) {
	path := dest
	if !filepath.IsAbs(dest) && dir != "" {
		path = filepath.Join(dir, dest)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create chart directory", err).
			WithContext("path", path)
	}
	return path, nil
}

// Recorded is a chart captured by MemorySink.
type Recorded struct {
	Dest  string
	Chart Chart
}

// MemorySink keeps charts in memory. Safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	charts []Recorded
}

// NewMemorySink creates an empty memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Write(ctx context.Context, c Chart, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charts = append(m.charts, Recorded{Dest: dest, Chart: c})
	return nil
}

// Charts returns the recorded charts in write order.
func (m *MemorySink) Charts() []Recorded {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Recorded(nil), m.charts...)
}

// Get returns the last chart written to dest.
func (m *MemorySink) Get(dest string) (Chart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.charts) - 1; i >= 0; i-- {
		if m.charts[i].Dest == dest {
			return m.charts[i].Chart, true
		}
	}
	return Chart{}, false
}

// Dests returns the sorted destinations written so far.
func (m *MemorySink) Dests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	dests := make([]string, len(m.charts))
	for i, r := range m.charts {
		dests[i] = r.Dest
	}
	sort.Strings(dests)
	return dests
}

// MultiSink writes every chart to each sink in order and stops at the first error.
type MultiSink []Sink

func (ms MultiSink) Write(ctx context.Context, c Chart, dest string) error {
	for _, s := range ms {
		if err := s.Write(ctx, c, dest); err != nil {
			return err
		}
	}
	return nil
}

// KindSink sends each chart to the sink registered for its kind, or to
// Default.
type KindSink struct {
	Default Sink
	ByKind  map[Kind]Sink
}

func (ks KindSink) Write(ctx context.Context, c Chart, dest string) error {
	if s, ok := ks.ByKind[c.Kind]; ok {
		return s.Write(ctx, c, dest)
	}
	return ks.Default.Write(ctx, c, dest)
}

// ObservedSink calls OnWrite after every successful write of Next.
type ObservedSink struct {
	Next    Sink
	OnWrite func(ctx context.Context, c Chart, dest string)
}

func (o ObservedSink) Write(ctx context.Context, c Chart, dest string) error {
	if err := o.Next.Write(ctx, c, dest); err != nil {
		return err
	}
	if o.OnWrite != nil {
		o.OnWrite(ctx, c, dest)
	}
	return nil
}

// SafeFileName replaces path separators in a label used inside a file name.
func SafeFileName(label string) string {
	return strings.NewReplacer("/", "-", `\`, "-").Replace(label)
}
