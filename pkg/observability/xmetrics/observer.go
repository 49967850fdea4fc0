package xmetrics

import "context"

// Status 操作结果状态。组件可以定义自己的状态值（如 "contended"）。
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Attr 字符串属性，附加到跨度上。
type Attr struct {
	Key   string
	Value string
}

// String 创建属性。
func String(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// SpanOptions 描述一次被观测的操作。空的 Component/Operation 记为 "unknown"。
type SpanOptions struct {
	Component string
	Operation string
	Attrs     []Attr
}

// Result 操作结果。Status 为空时由 Err 推导：有错误为 error，否则为 ok。
type Result struct {
	Status Status
	Err    error
}

func (r Result) status() Status {
	switch {
	case r.Status != "":
		return r.Status
	case r.Err != nil:
		return StatusError
	default:
		return StatusOK
	}
}

// Span 一次操作的观测跨度。End 只有第一次调用生效。
type Span interface {
	End(result Result)
}

// Observer 观测器。
type Observer interface {
	Start(ctx context.Context, opts SpanOptions) (context.Context, Span)
}

// NoopSpan 不做任何记录。
type NoopSpan struct{}

// End 空实现。
func (NoopSpan) End(Result) {}

// Start 通过 observer 开始观测。observer 为 nil 时返回 [NoopSpan]；
// 返回值总是非 nil。
func Start(ctx context.Context, observer Observer, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if observer == nil {
		return ctx, NoopSpan{}
	}
	next, span := observer.Start(ctx, opts)
	if next == nil {
		next = ctx
	}
	if span == nil {
		span = NoopSpan{}
	}
	return next, span
}
