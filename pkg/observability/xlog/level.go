package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，数值与 slog.Level 相同。
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// levelNames 配置中可写的级别名（小写）。
var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// String 与 slog 一致：标准级别为大写名，其余形如 "INFO+2"。
func (l Level) String() string {
	return slog.Level(l).String()
}

// MarshalText 输出 String 的结果。
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 按 [ParseLevel] 解析；失败时 l 不变。
func (l *Level) UnmarshalText(data []byte) error {
	v, err := ParseLevel(string(data))
	if err == nil {
		*l = v
	}
	return err
}

// ParseLevel 解析 debug/info/warn/warning/error，忽略大小写与首尾空白。
// 无法识别时返回 LevelInfo 和错误。
func ParseLevel(s string) (Level, error) {
	if v, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return v, nil
	}
	return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
}
