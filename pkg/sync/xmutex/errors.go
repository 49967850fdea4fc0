package xmutex

import "errors"

// 预定义错误，使用 errors.Is 匹配。
// 操作系统返回的原因通过 %w 一并包装。
var (
	// ErrCreate 表示操作系统无法创建互斥对象。
	ErrCreate = errors.New("xmutex: failed to create mutex")

	// ErrLock 表示阻塞等待没有以"干净地获得所有权"结束。
	ErrLock = errors.New("xmutex: failed to lock mutex")

	// ErrUnlock 表示释放失败，通常是调用方并不持有该锁。
	ErrUnlock = errors.New("xmutex: failed to release mutex")

	// ErrAbandoned 表示上一任持有者未释放即退出。
	// 总是与 [ErrLock] 一同出现。
	ErrAbandoned = errors.New("xmutex: mutex abandoned")

	// ErrNotOwner 表示调用方不是当前持有者。
	// 总是与 [ErrUnlock] 一同出现。
	ErrNotOwner = errors.New("xmutex: mutex not owned by caller")

	// ErrClosed 表示互斥对象已关闭。
	ErrClosed = errors.New("xmutex: mutex closed")

	// ErrUnsupportedPlatform 表示当前平台没有可用的内核互斥对象。
	ErrUnsupportedPlatform = errors.New("xmutex: unsupported platform")
)
