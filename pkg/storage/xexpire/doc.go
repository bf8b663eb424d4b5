// Package xexpire 提供带条目级 TTL 与容量上限的泛型缓存。
//
// xexpire 基于 github.com/hashicorp/golang-lru/v2/simplelru 封装，由单把互斥锁保护，
// 作为结果缓存与纯函数记忆化的统一存储。
//
// # 核心特性
//
//   - 泛型支持：任意 comparable 键类型和任意值类型
//   - 条目级 TTL：每次 Set 可指定 TTL，未指定时使用 Config.DefaultTTL
//   - 惰性过期：Get 命中已过期条目时立即删除并返回 miss
//   - 按写入时间淘汰：缓存满且写入新键时，淘汰 CreatedAt 最早的一个条目
//   - 显式清扫：Sweep 删除所有已过期条目，不启动后台 goroutine
//   - 统计：命中、未命中、淘汰、过期计数与当前条目数
//
// # 淘汰顺序
//
// 读操作不改变淘汰顺序（内部使用 Peek），因此淘汰顺序即写入顺序。
// 对已存在的键再次 Set 会刷新其 CreatedAt 与 ExpireAt，并移到队尾。
//
// # 清扫时机
//
// Sweep 由调用方按需触发（如每 N 次请求一次），宿主环境可能不支持常驻定时器。
// 不调用 Sweep 也不影响正确性：过期条目在 Get 时被过滤，在容量压力下被淘汰。
//
// # 注意事项
//
//   - 淘汰是尽力而为的：容量不足时可能淘汰尚未过期的条目，调用方应将 miss 视为"重新计算"
//   - 淘汰回调在锁内执行，严禁在回调中调用 Cache 自身方法
//   - MaxSize 是条目数量，不是内存大小
package xexpire
