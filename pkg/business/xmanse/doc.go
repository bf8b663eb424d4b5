// Package xmanse 提供만세력（四柱干支）查询服务。
//
// 给定公历日期与可选的小时，[Service.Query] 返回年、月、日、时四柱：
//   - 年柱、日柱取自预计算数据集（[xpillar.DayRecord]）
//   - 月柱、时柱由 [xganji] 按公式推导
//
// # 查询流程
//
//  1. 必填参数检查（year/month/day），缺失返回 [*MissingParameterError]
//  2. 范围检查：year ∈ [1841,2100]、month ∈ [1,12]、day ∈ [1,31]、hour ∈ [0,23]，越界返回 [*OutOfRangeError]
//  3. 公历日期合法性（如 2 月 30 日），非法返回 [*InvalidDateError]
//  4. 结果缓存读取，命中直接返回
//  5. 数据集查询：未收录返回 [*DataNotFoundError]，数据集不可用返回 [*UnavailableError]
//  6. 推导月柱、时柱，写入缓存后返回
//
// 相同键的并发未命中经 singleflight 合并，数据集只查询一次。
//
// # 缓存
//
// 结果缓存是注入的 [xexpire.Cache] 实例（默认 2000 条、TTL 24h），不使用包级全局状态。
// 过期条目在读取时惰性清理，另外每 N 次查询（[WithSweepEvery]）顺带执行一次 Sweep，
// 不依赖后台定时器。
//
// # 错误
//
// 所有错误以值返回，服务内部不重试。[IsClientError] 区分请求错误与部署故障：
// 前者对应 HTTP 4xx，[ErrServiceUnavailable] 对应 503。
package xmanse
