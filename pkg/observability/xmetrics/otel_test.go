package xmetrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestObserver(t *testing.T) (Observer, *tracetest.InMemoryExporter, *sdkmetric.ManualReader) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	obs, err := NewOTelObserver(
		WithInstrumentationName("test"),
		WithTracerProvider(tp),
		WithMeterProvider(mp),
	)
	require.NoError(t, err)
	return obs, exporter, reader
}

func collectTotals(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != MetricOperationTotal {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value(attribute.Key("operation"))
				st, _ := dp.Attributes.Value(attribute.Key("status"))
				totals[op.AsString()+"/"+st.AsString()] += dp.Value
			}
		}
	}
	return totals
}

func TestNewOTelObserver_Defaults(t *testing.T) {
	obs, err := NewOTelObserver(nil, WithInstrumentationName(""), WithTracerProvider(nil), WithMeterProvider(nil))
	require.NoError(t, err)
	require.NotNil(t, obs)
}

func TestOTelObserver_RecordsSpanAndMetrics(t *testing.T) {
	obs, exporter, reader := newTestObserver(t)

	_, span := obs.Start(context.Background(), SpanOptions{
		Component: "xmutex",
		Operation: "lock",
		Attrs:     []Attr{String("name", "orders"), {Key: "", Value: "dropped"}},
	})
	span.End(Result{})

	_, span = obs.Start(context.Background(), SpanOptions{Component: "xmutex", Operation: "lock"})
	span.End(Result{Err: assert.AnError})

	_, span = obs.Start(context.Background(), SpanOptions{Component: "xmutex", Operation: "try_lock"})
	span.End(Result{Status: "contended"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "xmutex.lock", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.String("name", "orders"))
	assert.Len(t, spans[0].Attributes, 3)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, assert.AnError.Error(), spans[1].Status.Description)
	assert.Equal(t, codes.Ok, spans[2].Status.Code)

	totals := collectTotals(t, reader)
	assert.Equal(t, int64(1), totals["lock/ok"])
	assert.Equal(t, int64(1), totals["lock/error"])
	assert.Equal(t, int64(1), totals["try_lock/contended"])
}

func TestOTelObserver_RecordsDuration(t *testing.T) {
	obs, _, reader := newTestObserver(t)

	_, span := obs.Start(context.Background(), SpanOptions{Component: "xmutex", Operation: "lock"})
	time.Sleep(5 * time.Millisecond)
	span.End(Result{})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != MetricOperationDuration {
				continue
			}
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			require.Len(t, hist.DataPoints, 1)
			assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
			assert.GreaterOrEqual(t, hist.DataPoints[0].Sum, 0.005)
			found = true
		}
	}
	assert.True(t, found)
}

func TestOTelSpan_EndIdempotent(t *testing.T) {
	obs, exporter, reader := newTestObserver(t)

	_, span := obs.Start(nil, SpanOptions{}) //nolint:staticcheck // nil ctx
	span.End(Result{})
	span.End(Result{Err: assert.AnError})

	require.Len(t, exporter.GetSpans(), 1)
	assert.Equal(t, "unknown.unknown", exporter.GetSpans()[0].Name)
	assert.Equal(t, map[string]int64{"unknown/ok": 1}, collectTotals(t, reader))
}
