package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
}

func TestInitializeOTel_DisabledUsesNoop(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: ServiceName}, quietLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.Registry)
	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)

	// Instruments on the no-op meter are usable
	m, err := CreateRunMetrics(providers.Meter)
	require.NoError(t, err)
	m.RowsLoaded.Add(context.Background(), 10)

	// Writing metrics without a registry does nothing
	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetrics(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_MetricsTextfile(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: "test",
		Environment:    "test",
		EnableMetrics:  true,
	}, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	m, err := CreateRunMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.RowsLoaded.Add(ctx, 42)
	m.ChartsRendered.Add(ctx, 3)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, providers.WriteMetrics(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "housing_rows_loaded")
	assert.Contains(t, string(content), "housing_charts_rendered")
}

func TestInitializeOTel_TracingToWriter(t *testing.T) {
	var buf bytes.Buffer
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:   ServiceName,
		EnableTracing: true,
		TraceWriter:   &buf,
	}, quietLogger())
	require.NoError(t, err)

	_, span := providers.Tracer.Start(context.Background(), "clean")
	RecordSpanError(span, errors.New("bad price"))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name": "clean"`)
	assert.Contains(t, buf.String(), "bad price")
}

func TestOTelProviders_NilSafe(t *testing.T) {
	var p *OTelProviders
	assert.NoError(t, p.WriteMetrics("ignored"))
	assert.NoError(t, p.Shutdown(context.Background()))
}
