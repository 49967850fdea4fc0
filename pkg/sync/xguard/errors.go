package xguard

import "errors"

// 使用顺序错误。
var (
	// ErrAlreadyOwned 表示守卫已持有锁，不能再次加锁。
	ErrAlreadyOwned = errors.New("xguard: lock already owned")

	// ErrNotOwned 表示守卫未持有锁，没有可释放的锁。
	ErrNotOwned = errors.New("xguard: no lock to release")

	// ErrNoMutex 表示守卫没有关联任何锁。
	ErrNoMutex = errors.New("xguard: no associated mutex")
)
