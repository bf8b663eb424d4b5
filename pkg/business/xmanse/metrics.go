package xmanse

import (
	"errors"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/embedded"

	"github.com/omeyang/xmanse/pkg/observability/xmetrics"
	"github.com/omeyang/xmanse/pkg/storage/xexpire"
)

// 导出的缓存名，作为 cache 属性值。
const (
	CacheResults   = "results"
	CacheMonthMemo = "month_memo"
	CacheHourMemo  = "hour_memo"
	CacheDaysMemo  = "days_memo"
)

// RegisterMetrics 把结果缓存与计算器子缓存的统计注册为可观测指标。
// 返回的 Registration 注销全部回调。
func (s *Service) RegisterMetrics(meter metric.Meter) (metric.Registration, error) {
	sources := []struct {
		name  string
		stats func() xexpire.Stats
	}{
		{CacheResults, s.cache.Stats},
		{CacheMonthMemo, func() xexpire.Stats { return s.calc.Stats().Month }},
		{CacheHourMemo, func() xexpire.Stats { return s.calc.Stats().Hour }},
		{CacheDaysMemo, func() xexpire.Stats { return s.calc.Stats().Days }},
	}

	regs := &registrations{}
	for _, src := range sources {
		stats := src.stats
		reg, err := xmetrics.RegisterCacheStats(meter, src.name, func() xmetrics.CacheSnapshot {
			return snapshot(stats())
		})
		if err != nil {
			return nil, errors.Join(err, regs.Unregister())
		}
		regs.list = append(regs.list, reg)
	}
	return regs, nil
}

func snapshot(st xexpire.Stats) xmetrics.CacheSnapshot {
	return xmetrics.CacheSnapshot{
		Size:        st.Size,
		Hits:        st.Hits,
		Misses:      st.Misses,
		Evictions:   st.Evictions,
		Expirations: st.Expirations,
	}
}

type registrations struct {
	embedded.Registration
	list []metric.Registration
}

func (r *registrations) Unregister() error {
	errs := make([]error, 0, len(r.list))
	for _, reg := range r.list {
		errs = append(errs, reg.Unregister())
	}
	return errors.Join(errs...)
}
