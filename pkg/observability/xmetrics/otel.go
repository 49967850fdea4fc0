package xmetrics

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// 指标名。
const (
	MetricOperationTotal    = "xsync.operation.total"
	MetricOperationDuration = "xsync.operation.duration"
)

const (
	defaultScope = "github.com/omeyang/xsync/xmetrics"
	unknown      = "unknown"
)

// Option OTel Observer 选项。
type Option func(*otelObserverConfig)

type otelObserverConfig struct {
	scope  string
	tracer trace.TracerProvider
	meter  metric.MeterProvider
}

// WithInstrumentationName 设置 instrumentation scope 名称。空值被忽略。
func WithInstrumentationName(name string) Option {
	return func(c *otelObserverConfig) {
		if name != "" {
			c.scope = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider，默认取 otel 全局。nil 被忽略。
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *otelObserverConfig) {
		if tp != nil {
			c.tracer = tp
		}
	}
}

// WithMeterProvider 设置 MeterProvider，默认取 otel 全局。nil 被忽略。
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *otelObserverConfig) {
		if mp != nil {
			c.meter = mp
		}
	}
}

type otelObserver struct {
	tracer   trace.Tracer
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewOTelObserver 创建 OpenTelemetry Observer。
func NewOTelObserver(opts ...Option) (Observer, error) {
	c := otelObserverConfig{
		scope:  defaultScope,
		tracer: otel.GetTracerProvider(),
		meter:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	meter := c.meter.Meter(c.scope)
	total, err := meter.Int64Counter(MetricOperationTotal,
		metric.WithDescription("lock operations"), metric.WithUnit("{operation}"))
	if err != nil {
		return nil, fmt.Errorf("xmetrics: %s: %w", MetricOperationTotal, err)
	}
	duration, err := meter.Float64Histogram(MetricOperationDuration,
		metric.WithDescription("lock operation latency"), metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("xmetrics: %s: %w", MetricOperationDuration, err)
	}

	return &otelObserver{
		tracer:   c.tracer.Tracer(c.scope),
		total:    total,
		duration: duration,
	}, nil
}

func (o *otelObserver) Start(ctx context.Context, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	component, operation := orUnknown(opts.Component), orUnknown(opts.Operation)

	attrs := make([]attribute.KeyValue, 0, len(opts.Attrs)+2)
	attrs = append(attrs,
		attribute.String("component", component),
		attribute.String("operation", operation),
	)
	for _, a := range opts.Attrs {
		if a.Key != "" {
			attrs = append(attrs, attribute.String(a.Key, a.Value))
		}
	}

	ctx, span := o.tracer.Start(ctx, component+"."+operation, trace.WithAttributes(attrs...))
	return ctx, &otelSpan{
		o:         o,
		ctx:       ctx,
		span:      span,
		component: component,
		operation: operation,
		begin:     time.Now(),
	}
}

type otelSpan struct {
	o         *otelObserver
	ctx       context.Context
	span      trace.Span
	component string
	operation string
	begin     time.Time
	ended     atomic.Bool
}

func (s *otelSpan) End(r Result) {
	if s.ended.Swap(true) {
		return
	}
	elapsed := time.Since(s.begin)
	status := r.status()

	if r.Err != nil {
		s.span.RecordError(r.Err)
		s.span.SetStatus(codes.Error, r.Err.Error())
	} else if status != StatusError {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()

	ctx := context.WithoutCancel(s.ctx)
	set := metric.WithAttributeSet(attribute.NewSet(
		attribute.String("component", s.component),
		attribute.String("operation", s.operation),
		attribute.String("status", string(status)),
	))
	s.o.total.Add(ctx, 1, set)
	s.o.duration.Record(ctx, elapsed.Seconds(), set)
}

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}
