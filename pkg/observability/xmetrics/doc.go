// Package xmetrics 提供统一的观测接口（Observer/Span）与 OpenTelemetry 实现。
//
// 业务代码只依赖 [Observer]：
//
//	ctx, span := xmetrics.Start(ctx, observer, xmetrics.SpanOptions{
//		Component: "xmanse",
//		Operation: "query",
//	})
//	defer func() { span.End(xmetrics.Result{Err: err}) }()
//
// [NewOTelObserver] 每次 End 记录一次 trace span，并累加两个指标：
//   - xmanse.operation.total（counter，按 component/operation/status 分组）
//   - xmanse.operation.duration（histogram，单位秒）
//
// [RegisterCacheStats] 把缓存统计快照导出为 observable 指标，采集时才读取快照。
package xmetrics
