package xguard

import (
	"errors"

	"github.com/omeyang/xsync/pkg/sync/xmutex"
)

// Scoped 在整个生命周期内持有锁，Close 时解锁恰好一次。
// 不可复制，也不能转移。
type Scoped[L xmutex.Locker] struct {
	l    L
	done bool
}

// Lock 阻塞获取 l 并返回守卫。加锁失败时不返回守卫。
//
//	g, err := xguard.Lock(mu)
//	if err != nil {
//	    return err
//	}
//	defer g.Close()
func Lock[L xmutex.Locker](l L) (*Scoped[L], error) {
	if err := l.Lock(); err != nil {
		return nil, err
	}
	return &Scoped[L]{l: l}, nil
}

// Close 解锁。只有第一次调用会真正解锁，之后返回 nil。
func (g *Scoped[L]) Close() error {
	if g.done {
		return nil
	}
	g.done = true
	return g.l.Unlock()
}

// Do 在持有 l 的情况下执行 fn。
//
// 无论 fn 正常返回、返回错误还是 panic，l 都会被解锁恰好一次；
// panic 在解锁后继续向上传播。返回 fn 的错误与解锁错误的合并。
func Do[L xmutex.Locker](l L, fn func() error) (err error) {
	g, err := Lock(l)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, g.Close())
	}()
	return fn()
}
