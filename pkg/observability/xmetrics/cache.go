package xmetrics

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CacheSnapshot 缓存统计快照。
type CacheSnapshot struct {
	Size        int
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
}

// RegisterCacheStats 把缓存统计导出为 observable 指标：
//
//	xmanse.cache.hits / misses / evictions / expirations（counter）
//	xmanse.cache.size（gauge）
//
// 每条数据点带 cache=name 属性。fn 在每次采集时调用，须并发安全。
// 不再需要时调用返回值的 Unregister。
func RegisterCacheStats(meter metric.Meter, name string, fn func() CacheSnapshot) (metric.Registration, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if fn == nil {
		return nil, ErrNilStatsFunc
	}

	counter := func(n, desc string) (metric.Int64ObservableCounter, error) {
		c, err := meter.Int64ObservableCounter(n, metric.WithDescription(desc), metric.WithUnit("1"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, n, err)
		}
		return c, nil
	}

	hits, err := counter("xmanse.cache.hits", "cache hits")
	if err != nil {
		return nil, err
	}
	misses, err := counter("xmanse.cache.misses", "cache misses")
	if err != nil {
		return nil, err
	}
	evictions, err := counter("xmanse.cache.evictions", "capacity evictions")
	if err != nil {
		return nil, err
	}
	expirations, err := counter("xmanse.cache.expirations", "expired entries removed")
	if err != nil {
		return nil, err
	}
	size, err := meter.Int64ObservableGauge("xmanse.cache.size",
		metric.WithDescription("current entries"), metric.WithUnit("1"))
	if err != nil {
		return nil, fmt.Errorf("%w: xmanse.cache.size: %w", ErrCreateInstrument, err)
	}

	attrs := metric.WithAttributes(attribute.String("cache", name))
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := fn()
		o.ObserveInt64(hits, clamp(s.Hits), attrs)
		o.ObserveInt64(misses, clamp(s.Misses), attrs)
		o.ObserveInt64(evictions, clamp(s.Evictions), attrs)
		o.ObserveInt64(expirations, clamp(s.Expirations), attrs)
		o.ObserveInt64(size, int64(s.Size), attrs)
		return nil
	}, hits, misses, evictions, expirations, size)
}

func clamp(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
