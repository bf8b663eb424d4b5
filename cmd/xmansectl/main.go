// xmansectl 是 xmanse 만세력服务的命令行工具。
//
// 用法:
//
//	xmansectl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config     配置文件（.yaml/.yml/.json），缺省时使用默认值与 XMANSE_ 环境变量
//	-d, --dataset    数据集文件，覆盖配置中的 dataset.path
//	    --log-level  日志级别，覆盖配置中的 log.level
//
// 命令:
//
//	query          查询某日（可选某时）的四柱
//	verify         检查数据集完整性
//	bench          压测查询路径并输出缓存统计
//	watch          监视数据集与配置文件，热加载
//
// 退出码:
//
//	0: 成功
//	1: 运行失败（数据集检查不通过、内部错误）
//	2: 参数错误（缺参、越界、非法日期、未收录的日期、未知 flag）
//	3: 数据集不可用
//
// 示例:
//
//	xmansectl -d data/manseryeok.json query --year 1990 --month 5 --day 15 --hour 14
//	xmansectl -c xmanse.yaml query --year 2024 --month 2 --day 29 --json
//	xmansectl -d data/manseryeok.json.gz verify
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run 执行命令并返回退出码。
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		return exitCode(err, stderr)
	}
	return exitOK
}
