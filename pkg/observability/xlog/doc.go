// Package xlog 基于 log/slog 的结构化日志。
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins：遇到第一个配置错误后，Build 返回该错误）：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/xmanse/xmanse.log", xlog.WithMaxSize(100)).
//		Build()
//	defer cleanup()
//
// 所有日志方法强制传入 context，并且只接受 slog.Attr。
//
// # 上下文字段
//
// EnrichHandler 在写出前从 context 提取字段：
//   - OpenTelemetry span 的 trace_id、span_id
//   - 通过 [ContextWith] 挂在 context 上的请求级属性（如查询日期）
//
// # 动态级别
//
// Build 返回 [LoggerWithLevel]，SetLevel 运行时生效，派生 logger 共享同一 LevelVar。
// xconf.Watch 借此在配置文件变更时调整级别。
//
// # 全局 Logger
//
// [Default] 惰性初始化（stderr、Info、text），[SetDefault] 替换。
// 服务端代码推荐显式注入 Logger；[Discard] 返回丢弃所有输出的实现，作为组件的默认值。
package xlog
