package xmutex

import (
	"sync"

	"github.com/omeyang/xsync/pkg/observability/xmetrics"
)

// RecursiveMutex 是基于进程内临界区的可重入锁。
//
// 持有者 goroutine 可以重复获取，每次 Lock/成功的 TryLock 都需要一次对应的
// Unlock；深度归零后锁才对其他 goroutine 可用。
//
// 所有操作都不会失败：Lock/Unlock 的错误返回值恒为 nil，仅为满足 [Locker]。
// Unlock 次数多于获取次数属于未定义行为，不做防护。
type RecursiveMutex struct {
	cs        CriticalSection
	opts      options
	closeOnce sync.Once
}

// NewRecursive 创建并初始化一个可重入锁。
// 使用完毕后调用 [RecursiveMutex.Close]。
func NewRecursive(opts ...Option) *RecursiveMutex {
	r := &RecursiveMutex{opts: applyOptions(opts)}
	r.cs.init()
	return r
}

// Lock 阻塞直到可用，或调用方已持有时立即返回（深度加一）。恒返回 nil。
func (r *RecursiveMutex) Lock() error {
	span := r.opts.start(opLock)
	r.cs.enter()
	span.End(xmetrics.Result{})
	return nil
}

// Unlock 深度减一，归零时释放给其他 goroutine。恒返回 nil。
func (r *RecursiveMutex) Unlock() error {
	span := r.opts.start(opUnlock)
	r.cs.leave()
	span.End(xmetrics.Result{})
	return nil
}

// TryLock 非阻塞尝试获取。持有者重入总是成功。
func (r *RecursiveMutex) TryLock() bool {
	span := r.opts.start(opTryLock)
	ok := r.cs.tryEnter()
	if ok {
		span.End(xmetrics.Result{})
	} else {
		span.End(xmetrics.Result{Status: statusContended})
	}
	return ok
}

// Depth 返回调用方持有的重入深度，非持有者得到 0。仅用于诊断。
func (r *RecursiveMutex) Depth() int {
	return r.cs.depth()
}

// NativeHandle 返回内嵌的临界区记录。
// 直接操作该记录会破坏 RecursiveMutex 的不变量。
func (r *RecursiveMutex) NativeHandle() *CriticalSection {
	return &r.cs
}

// Close 销毁临界区记录。幂等，总是返回 nil。
// Close 之后不得再使用该锁。
func (r *RecursiveMutex) Close() error {
	r.closeOnce.Do(r.cs.delete)
	return nil
}
