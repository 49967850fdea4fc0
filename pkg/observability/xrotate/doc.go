// Package xrotate 提供日志文件轮转，基于 gopkg.in/natefinch/lumberjack.v2。
//
// [Rotator] 是 io.WriteCloser 的超集，可直接作为 xlog 的输出目标：
//
//	r, err := xrotate.NewLumberjack("/var/log/xmutexctl.log",
//		xrotate.WithMaxSize(50),
//		xrotate.WithMaxBackups(3),
//	)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
// 至少需要一种清理策略（MaxBackups 或 MaxAgeDays 非零），否则拒绝创建。
package xrotate
