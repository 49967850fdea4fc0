//go:build (unix || windows) && !xsync_silent

package xmutex

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMutex(t *testing.T, opts ...Option) *Mutex {
	t.Helper()
	m, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMutex_LockUnlock(t *testing.T) {
	m := newTestMutex(t)

	require.NoError(t, m.Lock())
	require.NoError(t, m.Unlock())
	require.NoError(t, m.Lock())
	require.NoError(t, m.Unlock())
}

func TestMutex_UnlockNotOwned(t *testing.T) {
	m := newTestMutex(t)

	err := m.Unlock()
	assert.ErrorIs(t, err, ErrUnlock)
	assert.ErrorIs(t, err, ErrNotOwner)

	// 锁状态不变：仍可获取
	assert.True(t, m.TryLock())
	require.NoError(t, m.Unlock())
}

func TestMutex_UnlockByOtherGoroutine(t *testing.T) {
	m := newTestMutex(t)
	require.NoError(t, m.Lock())

	var err error
	inGoroutine(func() { err = m.Unlock() })
	assert.ErrorIs(t, err, ErrUnlock)
	assert.ErrorIs(t, err, ErrNotOwner)

	// 持有者不受影响
	var got bool
	inGoroutine(func() { got = m.TryLock() })
	assert.False(t, got)
	require.NoError(t, m.Unlock())
}

func TestMutex_TryLockHandOff(t *testing.T) {
	m := newTestMutex(t)

	require.NoError(t, m.Lock())

	var first bool
	inGoroutine(func() { first = m.TryLock() })
	assert.False(t, first, "TryLock must fail while another goroutine holds the lock")

	require.NoError(t, m.Unlock())

	var second bool
	var unlockErr error
	inGoroutine(func() {
		second = m.TryLock()
		if second {
			unlockErr = m.Unlock()
		}
	})
	assert.True(t, second)
	assert.NoError(t, unlockErr)
}

func TestMutex_MutualExclusion(t *testing.T) {
	m := newTestMutex(t)

	const (
		workers    = 8
		iterations = 200
	)
	var (
		wg      sync.WaitGroup
		counter int
		errs    = make(chan error, workers*iterations*2)
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				if err := m.Lock(); err != nil {
					errs <- err
					return
				}
				counter++
				if err := m.Unlock(); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, workers*iterations, counter)
}

func TestMutex_LockBlocksUntilUnlock(t *testing.T) {
	m := newTestMutex(t)
	require.NoError(t, m.Lock())

	acquired := make(chan error, 1)
	go func() {
		err := m.Lock()
		if err == nil {
			err = m.Unlock()
		}
		acquired <- err
	}()

	select {
	case <-acquired:
		t.Fatal("Lock returned while the mutex was held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, m.Unlock())
	select {
	case err := <-acquired:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter was not woken by Unlock")
	}
}

func TestMutex_Closed(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	err = m.Lock()
	assert.ErrorIs(t, err, ErrLock)
	assert.ErrorIs(t, err, ErrClosed)

	err = m.Unlock()
	assert.ErrorIs(t, err, ErrUnlock)
	assert.ErrorIs(t, err, ErrClosed)

	assert.False(t, m.TryLock())
	assert.Equal(t, invalidHandle, m.NativeHandle())
}

func TestMutex_NativeHandle(t *testing.T) {
	m := newTestMutex(t)
	assert.NotEqual(t, invalidHandle, m.NativeHandle())
	assert.Equal(t, m.NativeHandle(), m.NativeHandle())
}

func TestSilentFailures_Default(t *testing.T) {
	assert.False(t, SilentFailures)
}
