package main

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xsync/pkg/config/xconf"
)

const (
	flagConfig     = "config"
	flagLogLevel   = "log-level"
	flagLogFormat  = "log-format"
	flagLogFile    = "log-file"
	flagKind       = "kind"
	flagGuard      = "guard"
	flagWorkers    = "workers"
	flagIterations = "iterations"
	flagDepth      = "depth"
)

const (
	kindBasic     = "basic"
	kindRecursive = "recursive"

	guardScoped = "scoped"
	guardUnique = "unique"
	guardManual = "manual"
)

// flagKeys 命令行参数到配置键的映射。
var flagKeys = map[string]string{
	flagLogLevel:   "log.level",
	flagLogFormat:  "log.format",
	flagLogFile:    "log.file",
	flagKind:       "contend.kind",
	flagGuard:      "contend.guard",
	flagWorkers:    "contend.workers",
	flagIterations: "contend.iterations",
	flagDepth:      "contend.depth",
}

type config struct {
	Log     logConfig     `koanf:"log"`
	Contend contendConfig `koanf:"contend"`
}

type logConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

type contendConfig struct {
	Kind       string `koanf:"kind"`
	Guard      string `koanf:"guard"`
	Workers    int    `koanf:"workers"`
	Iterations int    `koanf:"iterations"`
	Depth      int    `koanf:"depth"`
}

func defaultConfig() config {
	return config{
		Log: logConfig{Level: "info", Format: "text"},
		Contend: contendConfig{
			Kind:       kindBasic,
			Guard:      guardScoped,
			Workers:    8,
			Iterations: 1000,
			Depth:      1,
		},
	}
}

// loadConfig 依次合并默认值、配置文件与显式设置的命令行参数。
func loadConfig(cmd *cli.Command) (config, error) {
	cfg := defaultConfig()

	var (
		src *xconf.Config
		err error
	)
	if path := cmd.String(flagConfig); path != "" {
		src, err = xconf.New(path)
	} else {
		src, err = xconf.NewFromBytes(nil, xconf.FormatYAML)
	}
	if err != nil {
		return cfg, &usageError{err: err}
	}

	for flag, key := range flagKeys {
		if !cmd.IsSet(flag) {
			continue
		}
		if err := src.Set(key, cmd.Value(flag)); err != nil {
			return cfg, err
		}
	}

	if err := src.Unmarshal("", &cfg); err != nil {
		return cfg, &usageError{err: err}
	}
	if err := cfg.validate(); err != nil {
		return cfg, &usageError{err: err}
	}
	return cfg, nil
}

func (c *config) validate() error {
	cc := c.Contend
	switch cc.Kind {
	case kindBasic, kindRecursive:
	default:
		return fmt.Errorf("contend.kind: unknown %q", cc.Kind)
	}
	switch cc.Guard {
	case guardScoped, guardUnique, guardManual:
	default:
		return fmt.Errorf("contend.guard: unknown %q", cc.Guard)
	}
	if cc.Workers < 1 {
		return fmt.Errorf("contend.workers: must be >= 1, got %d", cc.Workers)
	}
	if cc.Iterations < 0 {
		return fmt.Errorf("contend.iterations: must be >= 0, got %d", cc.Iterations)
	}
	if cc.Depth < 1 {
		return fmt.Errorf("contend.depth: must be >= 1, got %d", cc.Depth)
	}
	if cc.Depth > 1 && cc.Kind != kindRecursive {
		return fmt.Errorf("contend.depth: %d requires kind %q", cc.Depth, kindRecursive)
	}
	return nil
}
