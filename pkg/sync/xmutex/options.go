package xmutex

import (
	"context"
	"log/slog"

	"github.com/omeyang/xsync/pkg/observability/xlog"
	"github.com/omeyang/xsync/pkg/observability/xmetrics"
)

const component = "xmutex"

// 观测使用的操作名。
const (
	opCreate  = "create"
	opLock    = "lock"
	opUnlock  = "unlock"
	opTryLock = "try_lock"
)

// statusContended 标记 TryLock 因锁被占用而失败，区别于真正的错误。
const statusContended xmetrics.Status = "contended"

// Option 定义锁的可选配置。
type Option func(*options)

type options struct {
	name     string
	logger   xlog.Logger
	observer xmetrics.Observer
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithName 设置锁名称，仅用于日志与观测属性，不影响底层对象（始终匿名）。
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger 设置日志记录器。
// 创建、加锁、解锁失败时以 Warn 级别记录。默认不记录。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver 设置观测器，记录 lock/unlock/try_lock 的次数与耗时。
// lock 的耗时即等待时间。默认不观测。
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

func (o *options) start(op string) xmetrics.Span {
	if o.observer == nil {
		return xmetrics.NoopSpan{}
	}
	var attrs []xmetrics.Attr
	if o.name != "" {
		attrs = []xmetrics.Attr{xmetrics.String("name", o.name)}
	}
	_, span := xmetrics.Start(context.Background(), o.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: op,
		Attrs:     attrs,
	})
	return span
}

func (o *options) logFailure(op string, err error) {
	if o.logger == nil {
		return
	}
	o.logger.Warn(context.Background(), "lock operation failed",
		xlog.Component(component),
		xlog.Operation(op),
		slog.String("name", o.name),
		xlog.Err(err),
	)
}
