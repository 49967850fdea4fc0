package xguard

import (
	"github.com/omeyang/xsync/internal/xfail"
	"github.com/omeyang/xsync/pkg/sync/xmutex"
)

// Unique 是可转移所有权的锁守卫。
//
// 零值未关联任何锁，也不持有锁。owns 准确反映 Close 时是否需要解锁；
// 同一时刻只有一个守卫认为自己负责释放某次加锁。
//
// Unique 不是并发安全的，不要在多个 goroutine 间共享同一个守卫。
type Unique[L xmutex.Locker] struct {
	l    L
	has  bool
	owns bool
}

// NewUnique 阻塞获取 l 并返回持有状态的守卫。
// 加锁失败时返回错误，不返回守卫。
func NewUnique[L xmutex.Locker](l L) (*Unique[L], error) {
	if err := l.Lock(); err != nil {
		return nil, err
	}
	return &Unique[L]{l: l, has: true, owns: true}, nil
}

// Defer 关联 l 但不加锁，之后通过 Lock/TryLock 获取。
func Defer[L xmutex.Locker](l L) *Unique[L] {
	return &Unique[L]{l: l, has: true}
}

// Lock 阻塞获取关联的锁。
// 已持有时返回 [ErrAlreadyOwned]，未关联时返回 [ErrNoMutex]。
// 底层加锁失败时守卫保持未持有状态并返回该错误。
func (u *Unique[L]) Lock() error {
	if u.owns {
		return xfail.Report(ErrAlreadyOwned)
	}
	if !u.has {
		return xfail.Report(ErrNoMutex)
	}
	if err := u.l.Lock(); err != nil {
		u.owns = false
		return err
	}
	u.owns = true
	return nil
}

// TryLock 非阻塞尝试获取关联的锁，当且仅当成功时进入持有状态。
// 已持有时返回 (false, [ErrAlreadyOwned])，未关联时返回 (false, [ErrNoMutex])。
func (u *Unique[L]) TryLock() (bool, error) {
	if u.owns {
		return false, xfail.Report(ErrAlreadyOwned)
	}
	if !u.has {
		return false, xfail.Report(ErrNoMutex)
	}
	u.owns = u.l.TryLock()
	return u.owns, nil
}

// Unlock 释放持有的锁并进入未持有状态。
// 未持有时返回 [ErrNotOwned]。底层解锁失败时守卫仍视为持有。
func (u *Unique[L]) Unlock() error {
	if !u.owns {
		return xfail.Report(ErrNotOwned)
	}
	if err := u.l.Unlock(); err != nil {
		return err
	}
	u.owns = false
	return nil
}

// Release 解除关联而不解锁，返回原先关联的锁（未关联时为零值）。
// 调用方从此负责该锁的状态。
func (u *Unique[L]) Release() L {
	l := u.l
	u.reset()
	return l
}

// Move 把守卫的全部状态转移给一个新守卫并返回它。
// 原守卫变为未关联、未持有，Close 时不再做任何事。
func (u *Unique[L]) Move() *Unique[L] {
	dst := &Unique[L]{l: u.l, has: u.has, owns: u.owns}
	u.reset()
	return dst
}

// Assign 接管 src 的状态（移动赋值）。
//
// 若 u 当前持有锁，先将其解锁；解锁错误会被返回，但转移仍然完成。
// src 变为未关联、未持有。u 与 src 相同时什么也不做。
func (u *Unique[L]) Assign(src *Unique[L]) error {
	if u == src {
		return nil
	}
	var err error
	if u.owns {
		err = u.l.Unlock()
	}
	u.l, u.has, u.owns = src.l, src.has, src.owns
	src.reset()
	return err
}

// Close 在持有锁时解锁，之后守卫不再关联任何锁。
// 多次调用安全，未持有时直接返回 nil。
func (u *Unique[L]) Close() error {
	if !u.owns {
		u.reset()
		return nil
	}
	err := u.l.Unlock()
	u.reset()
	return err
}

// OwnsLock 报告守卫当前是否持有锁。
func (u *Unique[L]) OwnsLock() bool {
	return u.owns
}

// Mutex 返回关联的锁，未关联时返回零值。
func (u *Unique[L]) Mutex() L {
	return u.l
}

func (u *Unique[L]) reset() {
	var zero L
	u.l, u.has, u.owns = zero, false, false
}
