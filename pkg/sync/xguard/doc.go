// Package xguard 提供绑定在 [xmutex.Locker] 上的作用域守卫。
//
// # 守卫类型
//
//   - [Scoped]: 构造即加锁，Close 时无条件解锁一次。配合 defer 使用，
//     或使用 [Do] 把临界区写成闭包，任何退出路径（返回、错误、panic）都会解锁。
//   - [Unique]: 可转移所有权的守卫。记录"是否持有"，支持延迟加锁、重试、
//     提前解锁、脱离（[Unique.Release]）以及在守卫之间转移（[Unique.Move]、
//     [Unique.Assign]）。
//
// 守卫本身不是并发安全的，只能在单个 goroutine 内使用；被引用的锁才是共享对象。
//
// # 使用顺序错误
//
// 对已持有的 Unique 再次 Lock/TryLock 返回 [ErrAlreadyOwned]；
// 未持有时 Unlock 返回 [ErrNotOwned]；没有关联锁时加锁返回 [ErrNoMutex]。
// 这些检查在发现问题时立即返回，守卫状态不变。
// 静默模式（构建标签 xsync_silent）下这些错误同样不可见。
//
// # 使用示例
//
//	mu, _ := xmutex.New()
//	defer mu.Close()
//
//	err := xguard.Do(mu, func() error {
//	    // 临界区
//	    return nil
//	})
package xguard

//go:generate mockgen -destination=mock_locker_test.go -package=xguard github.com/omeyang/xsync/pkg/sync/xmutex Locker
