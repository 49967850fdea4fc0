// Package xmutex 提供基于操作系统原生对象的互斥锁与可重入锁。
//
// # 锁类型
//
//	类型              底层对象                          可重入   失败
//	─────────────────────────────────────────────────────────────────
//	Mutex            内核互斥对象（windows: Mutex，      否       返回错误
//	                 unix: 预置令牌的非阻塞 pipe）
//	RecursiveMutex   进程内临界区记录（windows:          是       不会失败
//	                 CRITICAL_SECTION，其他: goroutine 持有）
//
// 两者都实现 [Locker]，可交给 xguard 的作用域守卫使用。
//
// # 所有权
//
// 所有权以 goroutine 为单位。持有者以外的 goroutine 调用 [Mutex.Unlock]
// 会返回 [ErrUnlock]（包装 [ErrNotOwner]），锁状态不变。
// windows 下持有期间 goroutine 被绑定到当前 OS 线程（runtime.LockOSThread），
// 因为内核对象与临界区都按线程记录所有者。
//
// # 阻塞与取消
//
// Lock 无限期阻塞，不支持超时与取消；需要非阻塞语义时使用 TryLock。
// 等待者之间的获取顺序完全由底层原语决定，本包不做额外的公平性保证。
//
// # 错误上报
//
// 所有失败都在检测到的调用处同步返回，不重试。
// 使用构建标签 xsync_silent 编译时，错误在 API 边界被吞掉（见 [SilentFailures]），
// 调用看起来总是成功。
//
// # 原生句柄
//
// [Mutex.NativeHandle] 与 [RecursiveMutex.NativeHandle] 暴露底层句柄/记录，
// 供需要直接调用系统 API 的场景使用。绕过本包直接操作会破坏包装层的不变量。
package xmutex
