package xmutex

import "github.com/omeyang/xsync/internal/xfail"

// SilentFailures 表示当前是否以静默模式编译（构建标签 xsync_silent）。
// 为 true 时所有失败都不会以错误形式返回。
const SilentFailures = xfail.Silent

// Locker 是 Mutex 与 RecursiveMutex 的公共接口。
//
// 与 sync.Locker 不同，Lock/Unlock 返回错误，用于上报系统级失败。
type Locker interface {
	// Lock 阻塞直到获得锁。
	Lock() error

	// Unlock 释放锁。
	Unlock() error

	// TryLock 非阻塞尝试获取锁，成功返回 true。从不阻塞，也不返回错误。
	TryLock() bool
}

// 编译期接口检查。
var (
	_ Locker = (*Mutex)(nil)
	_ Locker = (*RecursiveMutex)(nil)
)
