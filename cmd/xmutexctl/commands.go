package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xsync/pkg/observability/xlog"
	"github.com/omeyang/xsync/pkg/observability/xmetrics"
	"github.com/omeyang/xsync/pkg/sync/xguard"
	"github.com/omeyang/xsync/pkg/sync/xmutex"
)

// errCounterMismatch 计数器与期望值不一致，说明互斥失效。
var errCounterMismatch = errors.New("counter mismatch")

func createContendCommand() *cli.Command {
	return &cli.Command{
		Name:  "contend",
		Usage: "多个 goroutine 通过同一把锁累加共享计数器",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagKind, Aliases: []string{"k"}, Usage: "锁类型: basic | recursive"},
			&cli.StringFlag{Name: flagGuard, Aliases: []string{"g"}, Usage: "守卫: scoped | unique | manual"},
			&cli.IntFlag{Name: flagWorkers, Aliases: []string{"w"}, Usage: "并发 goroutine 数"},
			&cli.IntFlag{Name: flagIterations, Aliases: []string{"n"}, Usage: "每个 goroutine 的临界区次数"},
			&cli.IntFlag{Name: flagDepth, Aliases: []string{"d"}, Usage: "每次临界区的嵌套加锁层数（仅 recursive）"},
		},
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, cleanup, err := newLogger(cfg.Log, cmd.Root().ErrWriter)
			if err != nil {
				return &usageError{err: err}
			}
			defer func() { _ = cleanup() }()
			return cmdContend(ctx, cfg.Contend, logger, cmd.Root().Writer)
		},
	}
}

func createScenarioCommand() *cli.Command {
	return &cli.Command{
		Name:         "scenario",
		Usage:        "逐步演示 TryLock 交接与可重入锁的释放计数",
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, cleanup, err := newLogger(cfg.Log, cmd.Root().ErrWriter)
			if err != nil {
				return &usageError{err: err}
			}
			defer func() { _ = cleanup() }()
			return cmdScenario(ctx, logger, cmd.Root().Writer)
		},
	}
}

func newLogger(cfg logConfig, stderr io.Writer) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetOutput(stderr).
		SetLevelString(cfg.Level).
		SetFormat(cfg.Format)
	if cfg.File != "" {
		b.SetRotation(cfg.File)
	}
	return b.Build()
}

// newLocker 按类型创建锁，返回的 close 函数释放系统资源。
func newLocker(kind string, opts ...xmutex.Option) (xmutex.Locker, func() error, error) {
	if kind == kindRecursive {
		r := xmutex.NewRecursive(opts...)
		return r, r.Close, nil
	}
	m, err := xmutex.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	return m, m.Close, nil
}

// enter 通过指定守卫嵌套加锁 depth 层后执行 body。
func enter[L xmutex.Locker](l L, guard string, depth int, body func()) error {
	if depth == 0 {
		body()
		return nil
	}
	next := func() error { return enter(l, guard, depth-1, body) }

	switch guard {
	case guardScoped:
		return xguard.Do(l, next)
	case guardUnique:
		u, err := xguard.NewUnique(l)
		if err != nil {
			return err
		}
		err = next()
		return errors.Join(err, u.Close())
	default:
		if err := l.Lock(); err != nil {
			return err
		}
		err := next()
		return errors.Join(err, l.Unlock())
	}
}

// telemetry 进程内收集锁指标，结束时汇总输出。
type telemetry struct {
	reader *sdkmetric.ManualReader
	mp     *sdkmetric.MeterProvider
	tp     *sdktrace.TracerProvider
	obs    xmetrics.Observer
}

func newTelemetry() (*telemetry, error) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	tp := sdktrace.NewTracerProvider()
	obs, err := xmetrics.NewOTelObserver(
		xmetrics.WithInstrumentationName("xmutexctl"),
		xmetrics.WithMeterProvider(mp),
		xmetrics.WithTracerProvider(tp),
	)
	if err != nil {
		return nil, err
	}
	return &telemetry{reader: reader, mp: mp, tp: tp, obs: obs}, nil
}

// opStats 按 "operation/status" 汇总的次数与累计耗时。
type opStats struct {
	count map[string]int64
	secs  map[string]float64
}

func (t *telemetry) collect(ctx context.Context) (opStats, error) {
	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &rm); err != nil {
		return opStats{}, err
	}
	st := opStats{count: make(map[string]int64), secs: make(map[string]float64)}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if m.Name != xmetrics.MetricOperationTotal {
					continue
				}
				for _, dp := range data.DataPoints {
					st.count[opKey(dp.Attributes)] += dp.Value
				}
			case metricdata.Histogram[float64]:
				if m.Name != xmetrics.MetricOperationDuration {
					continue
				}
				for _, dp := range data.DataPoints {
					st.secs[opKey(dp.Attributes)] += dp.Sum
				}
			}
		}
	}
	return st, nil
}

func opKey(set attribute.Set) string {
	op, _ := set.Value("operation")
	status, _ := set.Value("status")
	return op.AsString() + "/" + status.AsString()
}

func (t *telemetry) shutdown(ctx context.Context) error {
	return errors.Join(t.mp.Shutdown(ctx), t.tp.Shutdown(ctx))
}

func cmdContend(ctx context.Context, cfg contendConfig, logger xlog.Logger, out io.Writer) (err error) {
	runID := uuid.NewString()
	logger = logger.With(slog.String("run_id", runID))

	tel, err := newTelemetry()
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, tel.shutdown(context.WithoutCancel(ctx))) }()

	lock, closeLock, err := newLocker(cfg.Kind,
		xmutex.WithName("contend"),
		xmutex.WithLogger(logger),
		xmutex.WithObserver(tel.obs),
	)
	if err != nil {
		return err
	}
	defer func() { _ = closeLock() }()

	logger.Info(ctx, "contend started",
		slog.String("kind", cfg.Kind),
		slog.String("guard", cfg.Guard),
		slog.Int("workers", cfg.Workers),
		xlog.Count(cfg.Iterations),
	)

	var (
		counter    int
		violations atomic.Int64
		inside     atomic.Int32
	)
	body := func() {
		if inside.Add(1) != 1 {
			violations.Add(1)
		}
		counter++
		inside.Add(-1)
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for range cfg.Workers {
		g.Go(func() error {
			for range cfg.Iterations {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := enter(lock, cfg.Guard, cfg.Depth, body); err != nil {
					return err
				}
			}
			return nil
		})
	}
	runErr := g.Wait()
	elapsed := time.Since(start)

	expected := cfg.Workers * cfg.Iterations
	fmt.Fprintf(out, "run_id:      %s\n", runID)
	fmt.Fprintf(out, "lock:        %s (guard: %s, depth: %d)\n", cfg.Kind, cfg.Guard, cfg.Depth)
	fmt.Fprintf(out, "workers:     %d x %d iterations\n", cfg.Workers, cfg.Iterations)
	fmt.Fprintf(out, "counter:     %d (expected %d)\n", counter, expected)
	fmt.Fprintf(out, "violations:  %d\n", violations.Load())
	fmt.Fprintf(out, "elapsed:     %s\n", elapsed)

	stats, err := tel.collect(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}
	printStats(out, stats)

	if runErr != nil {
		logger.Error(ctx, "contend failed", xlog.Err(runErr))
		return runErr
	}
	if counter != expected || violations.Load() != 0 {
		logger.Error(ctx, "contend failed",
			xlog.Count(counter),
			slog.Int64("violations", violations.Load()),
		)
		return fmt.Errorf("%w: got %d, want %d", errCounterMismatch, counter, expected)
	}
	logger.Info(ctx, "contend finished", xlog.Count(counter), xlog.Duration(elapsed))
	return nil
}

func printStats(out io.Writer, st opStats) {
	keys := make([]string, 0, len(st.count))
	for k := range st.count {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(out, "lock operations:")
	for _, k := range keys {
		fmt.Fprintf(out, "  %-24s %d\n", k, st.count[k])
	}
	if n := st.count["lock/ok"]; n > 0 {
		mean := time.Duration(st.secs["lock/ok"] / float64(n) * float64(time.Second))
		fmt.Fprintf(out, "mean wait:   %s\n", mean)
	}
}
