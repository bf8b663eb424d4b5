// Package xconf 加载 xmanse 的运行配置，基于 koanf 实现。
//
// # 配置来源
//
// 按以下顺序合并，后者覆盖前者：
//
//  1. Default() 给出的默认值
//  2. 配置文件（.yaml/.yml 或 .json，也可以是字节数据）
//  3. XMANSE_ 前缀的环境变量，层级以双下划线分隔：
//     XMANSE_CACHE__MAX_SIZE=500 覆盖 cache.max_size
//
// 时长字段接受 "24h"、"200ms" 这样的字符串。
//
// # 校验
//
// Load/Parse 在合并后调用 Validate，所有非法字段合并为一个错误返回，
// 每一项都可以用 errors.Is(err, ErrInvalid) 判断。
//
// # 监视
//
// Watch 在配置文件变化时重新加载并回调，典型用法是运行时调整日志级别。
// 数据集文件的监视由 xpillar.Reloader 负责，与此处无关。
package xconf
