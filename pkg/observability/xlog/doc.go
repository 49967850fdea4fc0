// Package xlog 基于 log/slog 的结构化日志库。
//
// # 创建 Logger
//
// 使用 Builder（first-error-wins：遇到第一个配置错误后，Build 返回该错误）：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/app.log", xrotate.WithMaxSize(100)).
//		Build()
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
// # 全局 Logger
//
// 适用于命令行工具等简单场景：[Default]、[SetDefault]、[ResetDefault]，
// 以及 [Debug]、[Info]、[Warn]、[Error] 便利函数。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)。
// [ParseLevel] 从字符串解析；Level 实现 TextMarshaler/TextUnmarshaler，
// 可直接出现在配置结构体中。
//
// # 便捷属性
//
// [Err]、[Duration]、[Component]、[Operation]、[Count]。
package xlog
