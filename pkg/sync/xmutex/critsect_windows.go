//go:build windows

package xmutex

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

// CriticalSection 与 Win32 CRITICAL_SECTION（RTL_CRITICAL_SECTION）布局一致。
// 不可复制；初始化后其地址会被系统记录，必须保持在原位置。
type CriticalSection struct {
	DebugInfo      uintptr
	LockCount      int32
	RecursionCount int32
	OwningThread   windows.Handle
	LockSemaphore  windows.Handle
	SpinCount      uintptr
}

var (
	modkernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procInitializeCriticalSection = modkernel32.NewProc("InitializeCriticalSection")
	procDeleteCriticalSection     = modkernel32.NewProc("DeleteCriticalSection")
	procEnterCriticalSection      = modkernel32.NewProc("EnterCriticalSection")
	procTryEnterCriticalSection   = modkernel32.NewProc("TryEnterCriticalSection")
	procLeaveCriticalSection      = modkernel32.NewProc("LeaveCriticalSection")
)

// 临界区按线程记录所有者。持有期间 goroutine 绑定在当前线程上；
// LockOSThread 可嵌套，与重入深度一一对应。

func (cs *CriticalSection) init() {
	procInitializeCriticalSection.Call(uintptr(unsafe.Pointer(cs))) //nolint:errcheck // 无返回值
}

func (cs *CriticalSection) delete() {
	procDeleteCriticalSection.Call(uintptr(unsafe.Pointer(cs))) //nolint:errcheck // 无返回值
}

func (cs *CriticalSection) enter() {
	runtime.LockOSThread()
	procEnterCriticalSection.Call(uintptr(unsafe.Pointer(cs))) //nolint:errcheck // 无返回值
}

func (cs *CriticalSection) tryEnter() bool {
	runtime.LockOSThread()
	r, _, _ := procTryEnterCriticalSection.Call(uintptr(unsafe.Pointer(cs)))
	if r == 0 {
		runtime.UnlockOSThread()
		return false
	}
	return true
}

func (cs *CriticalSection) leave() {
	procLeaveCriticalSection.Call(uintptr(unsafe.Pointer(cs))) //nolint:errcheck // 无返回值
	runtime.UnlockOSThread()
}

func (cs *CriticalSection) depth() int {
	if cs.OwningThread != windows.Handle(windows.GetCurrentThreadId()) {
		return 0
	}
	return int(cs.RecursionCount)
}
