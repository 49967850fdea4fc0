package xmutex

import (
	"fmt"
	"sync/atomic"

	"github.com/omeyang/xsync/internal/xfail"
	"github.com/omeyang/xsync/pkg/observability/xmetrics"
)

// Mutex 是基于内核互斥对象的非可重入锁。
//
// 必须通过 [New] 创建，使用完毕后调用 [Mutex.Close] 释放系统资源。
// 所有方法都是并发安全的。
type Mutex struct {
	obj    *kernelObject
	opts   options
	closed atomic.Bool
}

// New 创建一个匿名、初始无人持有的内核互斥对象。
// 系统无法分配对象时返回 [ErrCreate]。
//
// 静默模式下创建失败不返回错误，得到的 Mutex 上所有操作都会静默失败。
func New(opts ...Option) (*Mutex, error) {
	m := &Mutex{opts: applyOptions(opts)}
	obj, err := newKernelObject()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrCreate, err)
		m.opts.logFailure(opCreate, err)
		if err := xfail.Report(err); err != nil {
			return nil, err
		}
		return m, nil
	}
	m.obj = obj
	return m, nil
}

// Lock 阻塞直到调用方 goroutine 获得锁。
//
// 等待没有以正常获得所有权结束时返回 [ErrLock]：上一任持有者未释放即退出时
// 同时包装 [ErrAbandoned]，锁在等待期间被关闭时同时包装 [ErrClosed]。
// 同一 goroutine 重复 Lock 会使自身死锁（windows 内核对象除外，保留系统语义）。
func (m *Mutex) Lock() error {
	span := m.opts.start(opLock)
	err := m.lock()
	span.End(xmetrics.Result{Err: err})
	if err != nil {
		m.opts.logFailure(opLock, err)
	}
	return xfail.Report(err)
}

func (m *Mutex) lock() error {
	if m.obj == nil || m.closed.Load() {
		return fmt.Errorf("%w: %w", ErrLock, ErrClosed)
	}
	if err := m.obj.acquire(); err != nil {
		return fmt.Errorf("%w: %w", ErrLock, err)
	}
	return nil
}

// Unlock 释放锁，使其他等待者可以获得。
// 调用方不持有该锁时返回 [ErrUnlock]（包装 [ErrNotOwner]），锁状态保持不变。
func (m *Mutex) Unlock() error {
	span := m.opts.start(opUnlock)
	err := m.unlock()
	span.End(xmetrics.Result{Err: err})
	if err != nil {
		m.opts.logFailure(opUnlock, err)
	}
	return xfail.Report(err)
}

func (m *Mutex) unlock() error {
	if m.obj == nil || m.closed.Load() {
		return fmt.Errorf("%w: %w", ErrUnlock, ErrClosed)
	}
	if err := m.obj.release(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnlock, err)
	}
	return nil
}

// TryLock 以零等待尝试获取锁，成功返回 true。从不阻塞。
func (m *Mutex) TryLock() bool {
	span := m.opts.start(opTryLock)
	ok := m.obj != nil && !m.closed.Load() && m.obj.tryAcquire()
	if ok {
		span.End(xmetrics.Result{})
	} else {
		span.End(xmetrics.Result{Status: statusContended})
	}
	return ok
}

// NativeHandle 返回底层系统句柄，用于与系统 API 互操作。
// 不保证句柄当前的状态；直接操作句柄会破坏 Mutex 的不变量。
// 创建失败（静默模式）或已关闭时返回无效句柄。
func (m *Mutex) NativeHandle() NativeHandle {
	if m.obj == nil || m.closed.Load() {
		return invalidHandle
	}
	return m.obj.handle()
}

// Close 释放系统资源。幂等，总是返回 nil。
// unix 上阻塞在 Lock 中的等待者会被唤醒并返回 [ErrLock]；
// windows 上关闭仍有等待者的锁属于误用。
func (m *Mutex) Close() error {
	if m.obj == nil || !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.obj.close()
	return nil
}
