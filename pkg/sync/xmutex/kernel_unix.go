//go:build unix

package xmutex

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

// NativeHandle 是 pipe 读端的文件描述符。
// 管道中有一个字节的令牌时锁空闲；读走令牌即获得锁，写回令牌即释放。
type NativeHandle = int

const invalidHandle NativeHandle = -1

// 系统调用函数变量，支持测试中 mock 替换以覆盖错误路径。
// 注意：mock 测试不可使用 t.Parallel()。
var (
	newPipe = unix.Pipe
	readFd  = unix.Read
)

var token = [1]byte{1}

// errOwnerMismatch 拿到令牌时所有者槽位非空，令牌被绕过包装层写入。
var errOwnerMismatch = errors.New("token acquired while owner is set")

// kernelObject 用非阻塞 pipe 模拟内核互斥对象。
// 读端注册在 runtime poller 上，阻塞等待只挂起 goroutine，不占用线程。
type kernelObject struct {
	r, w   *os.File
	rc     syscall.RawConn
	fd     int
	owner  atomic.Int64
	closed atomic.Bool
}

func newKernelObject() (*kernelObject, error) {
	var p [2]int
	if err := newPipe(p[:]); err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	for _, fd := range p {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			_ = unix.Close(p[0])
			_ = unix.Close(p[1])
			return nil, fmt.Errorf("set nonblock: %w", err)
		}
	}

	k := &kernelObject{
		r:  os.NewFile(uintptr(p[0]), "xmutex"),
		w:  os.NewFile(uintptr(p[1]), "xmutex"),
		fd: p[0],
	}
	rc, err := k.r.SyscallConn()
	if err == nil {
		k.rc = rc
		_, err = k.w.Write(token[:])
	}
	if err != nil {
		k.close()
		return nil, err
	}
	return k, nil
}

// take 非阻塞地读走令牌。令牌不在时返回 (false, nil)。
func (k *kernelObject) take(fd int) (bool, error) {
	var b [1]byte
	for {
		n, err := readFd(fd, b[:])
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return false, nil
		case err != nil:
			return false, err
		case n == 0:
			// 写端已关闭，令牌再也不会回来。
			return false, ErrAbandoned
		}
		return true, nil
	}
}

func (k *kernelObject) acquire() error {
	var (
		got  bool
		terr error
	)
	// 多个阻塞等待者在读端的 fd 锁上排队，只有队首在 poller 上等待。
	err := k.rc.Read(func(fd uintptr) bool {
		got, terr = k.take(int(fd))
		return got || terr != nil
	})
	if err != nil {
		if k.closed.Load() {
			return ErrClosed
		}
		return err
	}
	if terr != nil {
		return terr
	}
	return k.claim()
}

// tryAcquire 经 Control 对 fd 做一次非阻塞读。Control 只持有 fd 引用计数，
// 不取读锁，因此不会排在阻塞等待者后面；Close 之后返回错误而不会读到复用的 fd。
func (k *kernelObject) tryAcquire() bool {
	var ok bool
	if err := k.rc.Control(func(fd uintptr) {
		ok, _ = k.take(int(fd))
	}); err != nil {
		return false
	}
	return ok && k.claim() == nil
}

// claim 在拿到令牌后登记所有者。与 release 中的 CompareAndSwap 配对，
// 使上一任持有者在临界区内的写入对本持有者可见。
func (k *kernelObject) claim() error {
	if !k.owner.CompareAndSwap(noOwner, currentOwner()) {
		return errOwnerMismatch
	}
	return nil
}

func (k *kernelObject) release() error {
	me := currentOwner()
	if !k.owner.CompareAndSwap(me, noOwner) {
		return ErrNotOwner
	}
	if _, err := k.w.Write(token[:]); err != nil {
		if k.closed.Load() {
			return ErrClosed
		}
		return err
	}
	return nil
}

func (k *kernelObject) close() {
	k.closed.Store(true)
	// 先关读端：在 poller 上等待的 Lock 立即返回 ErrClosed。
	_ = k.r.Close()
	_ = k.w.Close()
}

func (k *kernelObject) handle() NativeHandle {
	return k.fd
}
