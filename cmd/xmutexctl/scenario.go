package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/omeyang/xsync/pkg/observability/xlog"
	"github.com/omeyang/xsync/pkg/sync/xguard"
	"github.com/omeyang/xsync/pkg/sync/xmutex"
)

// recursiveDepth 可重入场景的嵌套层数。
const recursiveDepth = 3

// errScenario 场景中某一步的结果与预期不符。
var errScenario = errors.New("scenario step failed")

// stepper 逐步打印场景进度并记录第一个不符合预期的步骤。
type stepper struct {
	out    io.Writer
	logger xlog.Logger
	name   string
	n      int
	err    error
}

func (s *stepper) check(ctx context.Context, desc string, got, want bool) {
	s.n++
	mark := "ok"
	if got != want {
		mark = "FAIL"
		if s.err == nil {
			s.err = fmt.Errorf("%w: %s step %d: %s: got %t, want %t", errScenario, s.name, s.n, desc, got, want)
		}
		s.logger.Error(ctx, "scenario step failed",
			slog.String("scenario", s.name),
			slog.Int("step", s.n),
			slog.String("desc", desc),
		)
	}
	fmt.Fprintf(s.out, "  [%s] %d. %s: %t\n", mark, s.n, desc, got)
}

// onOther 在另一个 goroutine 中执行 fn 并等待其完成。
// 锁的所有权绑定在 goroutine 上，借此模拟另一个线程。
func onOther[T any](fn func() T) T {
	ch := make(chan T, 1)
	go func() { ch <- fn() }()
	return <-ch
}

func cmdScenario(ctx context.Context, logger xlog.Logger, out io.Writer) error {
	return errors.Join(
		tryLockHandOff(ctx, logger, out),
		recursiveReleaseCount(ctx, logger, out),
	)
}

// tryLockHandOff: A 持有锁时 B 的 TryLock 失败；A 释放后 B 的 TryLock 成功。
func tryLockHandOff(ctx context.Context, logger xlog.Logger, out io.Writer) error {
	fmt.Fprintln(out, "try-lock hand-off:")
	s := &stepper{out: out, logger: logger, name: "try-lock hand-off"}

	mu, err := xmutex.New(xmutex.WithName("hand-off"), xmutex.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = mu.Close() }()

	a := xguard.Defer(mu)
	s.check(ctx, "A locks", a.Lock() == nil, true)
	s.check(ctx, "B try-locks while A holds", onOther(func() bool {
		if mu.TryLock() {
			_ = mu.Unlock()
			return true
		}
		return false
	}), false)
	s.check(ctx, "A unlocks", a.Unlock() == nil, true)

	b := onOther(func() bool {
		ok := mu.TryLock()
		if ok {
			ok = mu.Unlock() == nil
		}
		return ok
	})
	s.check(ctx, "B try-locks after A released", b, true)
	return s.err
}

// recursiveReleaseCount: k 次获取需要恰好 k 次释放，第 k-1 次释放后锁仍被持有。
func recursiveReleaseCount(ctx context.Context, logger xlog.Logger, out io.Writer) error {
	fmt.Fprintln(out, "recursive release count:")
	s := &stepper{out: out, logger: logger, name: "recursive release count"}

	r := xmutex.NewRecursive(xmutex.WithName("recursive"))
	defer func() { _ = r.Close() }()

	guards := make([]*xguard.Unique[*xmutex.RecursiveMutex], 0, recursiveDepth)
	for i := 1; i <= recursiveDepth; i++ {
		g, err := xguard.NewUnique(r)
		if err != nil {
			return err
		}
		guards = append(guards, g)
		s.check(ctx, fmt.Sprintf("acquire #%d, depth %d", i, r.Depth()), r.Depth() == i, true)
	}

	otherTry := func() bool {
		return onOther(func() bool {
			if r.TryLock() {
				_ = r.Unlock()
				return true
			}
			return false
		})
	}

	for i := len(guards) - 1; i >= 1; i-- {
		_ = guards[i].Close()
		s.check(ctx, fmt.Sprintf("release to depth %d, other goroutine acquires", i), otherTry(), false)
	}
	_ = guards[0].Close()
	s.check(ctx, "final release, other goroutine acquires", otherTry(), true)
	return s.err
}
