package xexpire

// Stats 缓存统计快照。
type Stats struct {
	// Size 当前条目数（可能包含已过期但尚未清理的条目）。
	Size int

	// MaxSize 容量上限。
	MaxSize int

	// Hits 命中次数。
	Hits uint64

	// Misses 未命中次数（包括命中已过期条目）。
	Misses uint64

	// Evictions 容量淘汰次数。
	Evictions uint64

	// Expirations 因过期被删除的条目数（Get 惰性删除与 Sweep 之和）。
	Expirations uint64
}

// HitRatio 返回命中率 (0.0 - 1.0)，无请求时返回 0。
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
