package xmutex

import "github.com/petermattis/goid"

// noOwner 表示无人持有。goroutine id 从 1 开始分配。
const noOwner int64 = 0

// currentOwner 返回调用方 goroutine 的标识。
func currentOwner() int64 {
	return goid.Get()
}
