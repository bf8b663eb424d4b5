// Package xpillar 加载并查询预计算的日柱数据集（만세력 日表）。
//
// 数据集是一个 JSON 文档，按 年 → 月 → 日 三层嵌套：
//
//	{ "1990": { "5": { "15": {"ys":"경","yb":"오","yg":"경오","ds":"경","db":"진","dg":"경진","lm":4,"ld":21,"lp":false} } } }
//
// 字段含义：ys/yb 年干/年支，ds/db 日干/日支（韩文音节或汉字），yg/dg 可选的年柱/日柱文本，
// lm/ld 农历月/日，lp 是否闰月。
//
// 数据集被视为构建产物而非计算结果：日柱无法由公式可靠推导，年柱以立春为界，
// 均原样取自数据文件。覆盖范围为公历 1841–2100 年。
//
// # 容错
//
// 单条记录的键或字段非法（非数字键、不存在的日期、未知干支）时跳过并计入 [Dataset.Skipped]，
// 不影响其余记录。整个文档无法解码返回 [ErrCorrupt]，没有任何有效记录返回 [ErrEmptyDataset]。
//
// # 加载与热更新
//
// [Load] 读取文件（自动识别 gzip），读取失败按配置重试，解析失败不重试。
// [Holder] 以原子指针持有当前数据集，未加载成功时 Lookup 快速返回 [ErrUnavailable]。
// [Reloader] 监视数据文件，变更后重新加载并替换 Holder 中的数据集；加载失败保留旧数据集。
//
// Dataset 加载后只读，可无锁并发查询。
package xpillar
