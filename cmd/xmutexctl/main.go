// xmutexctl 演示并压测 xmutex 锁与 xguard 守卫。
//
// 用法:
//
//	xmutexctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      YAML/JSON 配置文件
//	    --log-level   日志级别 (debug/info/warn/error)
//	    --log-format  日志格式 (text/json)
//	    --log-file    日志写入按大小轮转的文件
//
// 命令:
//
//	contend    多个 goroutine 通过同一把锁累加共享计数器，并校验结果
//	scenario   逐步演示 TryLock 交接与可重入锁的释放计数
//
// 命令行参数覆盖配置文件中的同名配置。
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（计数不一致、锁操作出错、场景断言失败）
//	2: 参数错误
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// usageError 参数或配置错误，对应退出码 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xmutexctl",
		Usage:     "xmutex 锁演示与压测工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "配置文件路径（.yaml/.yml/.json）",
			},
			&cli.StringFlag{Name: flagLogLevel, Usage: "日志级别"},
			&cli.StringFlag{Name: flagLogFormat, Usage: "日志格式"},
			&cli.StringFlag{Name: flagLogFile, Usage: "日志文件（按大小轮转）"},
		},
		Commands: []*cli.Command{
			createContendCommand(),
			createScenarioCommand(),
		},
		OnUsageError: onUsageError,
		// 退出码统一由 run 映射，不让 cli 直接 os.Exit。
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{err: err}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := createApp(stdout, stderr).Run(ctx, args)
	if err == nil {
		return 0
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", uerr)
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}
