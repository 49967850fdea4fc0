// Package sync 提供跨平台互斥原语。
//
// 子包列表：
//   - xmutex: 内核互斥对象（Mutex）与进程内可重入锁（RecursiveMutex）
//   - xguard: 绑定在锁上的作用域守卫（Scoped、Unique）
package sync
