package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xmanse/pkg/business/xmanse"
)

// 退出码。
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitUnavailable = 3
)

// exitError 表示需要非零退出码但已完成输出的场景。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 参数错误，退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xmansectl",
		Usage:     "만세력 四柱查询工具",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径",
				Sources: cli.EnvVars("XMANSE_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Usage:   "数据集文件，覆盖 dataset.path",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 debug/info/warn/error，覆盖 log.level",
			},
		},
		Commands: []*cli.Command{
			queryCommand(),
			verifyCommand(),
			benchCommand(),
			watchCommand(),
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，由 run() 统一映射退出码。
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// exitCode 把命令错误映射为退出码，必要时向 stderr 输出原因。
func exitCode(err error, stderr io.Writer) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	switch {
	case errors.Is(err, xmanse.ErrServiceUnavailable):
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return exitUnavailable
	case xmanse.IsClientError(err):
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return exitUsage
	}

	var ue *usageError
	if errors.As(err, &ue) || isCLIUsageError(err) {
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return exitUsage
	}

	fmt.Fprintf(stderr, "错误: %v\n", err)
	return exitFailure
}

// isCLIUsageError 识别 urfave/cli 自身产生的参数错误（未知 flag、flag 取值无法解析等）。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"flag provided but not defined",
		"invalid value",
		"Required flag",
		"No help topic",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
