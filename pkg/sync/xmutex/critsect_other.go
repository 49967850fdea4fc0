//go:build !windows

package xmutex

import (
	"sync"
	"sync/atomic"
)

// CriticalSection 是进程内可重入临界区记录，按 goroutine 记录所有者。
// 不可复制。
type CriticalSection struct {
	mu    sync.Mutex
	owner atomic.Int64
	// count 只由持有者读写，持有权的交接经由 mu 建立 happens-before。
	count int
}

func (cs *CriticalSection) init()   {}
func (cs *CriticalSection) delete() {}

func (cs *CriticalSection) enter() {
	me := currentOwner()
	if cs.owner.Load() == me {
		cs.count++
		return
	}
	cs.mu.Lock()
	cs.owner.Store(me)
	cs.count = 1
}

func (cs *CriticalSection) tryEnter() bool {
	me := currentOwner()
	if cs.owner.Load() == me {
		cs.count++
		return true
	}
	if !cs.mu.TryLock() {
		return false
	}
	cs.owner.Store(me)
	cs.count = 1
	return true
}

func (cs *CriticalSection) leave() {
	cs.count--
	if cs.count == 0 {
		cs.owner.Store(noOwner)
		cs.mu.Unlock()
	}
}

func (cs *CriticalSection) depth() int {
	if cs.owner.Load() != currentOwner() {
		return 0
	}
	return cs.count
}
