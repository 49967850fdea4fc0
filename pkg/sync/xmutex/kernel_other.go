//go:build !unix && !windows

package xmutex

// NativeHandle 在不支持的平台上没有意义。
type NativeHandle = uintptr

const invalidHandle NativeHandle = 0

type kernelObject struct{}

func newKernelObject() (*kernelObject, error) {
	return nil, ErrUnsupportedPlatform
}

func (*kernelObject) acquire() error       { return ErrUnsupportedPlatform }
func (*kernelObject) tryAcquire() bool     { return false }
func (*kernelObject) release() error       { return ErrUnsupportedPlatform }
func (*kernelObject) close()               {}
func (*kernelObject) handle() NativeHandle { return invalidHandle }
