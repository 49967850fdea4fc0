// Package xmetrics 是锁操作的观测接口，默认实现基于 OpenTelemetry。
//
// 被观测的组件只依赖 [Observer] 与 [Span]。每次操作调用 [Start] 得到一个跨度，
// 结束时以 [Result] 报告状态；未配置 Observer 时得到 [NoopSpan]。
//
//	_, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "xmutex",
//		Operation: "lock",
//	})
//	err := acquire()
//	span.End(xmetrics.Result{Err: err})
//
// [NewOTelObserver] 为每次操作记录一个 trace span，以及两个指标，
// 属性均为 component / operation / status：
//
//   - [MetricOperationTotal]: 次数
//   - [MetricOperationDuration]: 耗时（秒），对 lock 而言即等待时间
package xmetrics
