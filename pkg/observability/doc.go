// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog
//   - xrotate: 日志文件轮转
//   - xmetrics: 统一观测接口，OpenTelemetry 实现
package observability
