//go:build windows

package xmutex

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

// NativeHandle 是内核 Mutex 对象的句柄。
type NativeHandle = windows.Handle

const invalidHandle NativeHandle = windows.InvalidHandle

// WaitForSingleObject 返回值。
const (
	waitObject0   uint32 = 0x00000000
	waitAbandoned uint32 = 0x00000080
	waitTimeout   uint32 = 0x00000102
	infinite      uint32 = 0xFFFFFFFF
)

// 系统调用函数变量，支持测试中 mock 替换以覆盖错误路径。
var (
	createMutex         = windows.CreateMutex
	waitForSingleObject = windows.WaitForSingleObject
	releaseMutex        = windows.ReleaseMutex
)

// kernelObject 包装匿名内核 Mutex。
//
// 内核 Mutex 按线程记录所有者，而 goroutine 会在线程间迁移，
// 因此获得锁后将 goroutine 绑定到当前线程，释放后解绑。
type kernelObject struct {
	h windows.Handle
}

func newKernelObject() (*kernelObject, error) {
	h, err := createMutex(nil, false, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateMutex: %w", err)
	}
	return &kernelObject{h: h}, nil
}

// wait 等待对象，返回是否获得所有权。
func (k *kernelObject) wait(ms uint32) (bool, error) {
	runtime.LockOSThread()
	ev, err := waitForSingleObject(k.h, ms)
	switch ev {
	case waitObject0:
		return true, nil
	case waitAbandoned:
		// 所有权已转到本线程，但受保护的状态可能不一致。归还后报告失败。
		_ = releaseMutex(k.h)
		runtime.UnlockOSThread()
		return false, ErrAbandoned
	case waitTimeout:
		runtime.UnlockOSThread()
		return false, nil
	default:
		runtime.UnlockOSThread()
		if err == nil {
			err = fmt.Errorf("WaitForSingleObject: unexpected result %#x", ev)
		}
		return false, err
	}
}

func (k *kernelObject) acquire() error {
	ok, err := k.wait(infinite)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("WaitForSingleObject: timed out on infinite wait")
	}
	return nil
}

func (k *kernelObject) tryAcquire() bool {
	ok, _ := k.wait(0)
	return ok
}

func (k *kernelObject) release() error {
	if err := releaseMutex(k.h); err != nil {
		if errors.Is(err, windows.ERROR_NOT_OWNER) {
			return fmt.Errorf("%w: %w", ErrNotOwner, err)
		}
		return fmt.Errorf("ReleaseMutex: %w", err)
	}
	runtime.UnlockOSThread()
	return nil
}

func (k *kernelObject) close() {
	_ = windows.CloseHandle(k.h)
}

func (k *kernelObject) handle() NativeHandle {
	return k.h
}
