package xmetrics

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRegisterCacheStats(t *testing.T) {
	mp, reader := newTestMeterProvider(t)
	meter := mp.Meter(InstrumentationName)

	var hits atomic.Uint64
	reg, err := RegisterCacheStats(meter, "result", func() CacheSnapshot {
		return CacheSnapshot{Size: 7, Hits: hits.Load(), Misses: 2, Evictions: 1, Expirations: 3}
	})
	require.NoError(t, err)

	hits.Store(10)
	metrics := collect(t, reader)

	sum, ok := metrics["xmanse.cache.hits"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(10), sum.DataPoints[0].Value)
	cache, _ := sum.DataPoints[0].Attributes.Value("cache")
	assert.Equal(t, "result", cache.AsString())

	gauge, ok := metrics["xmanse.cache.size"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Equal(t, int64(7), gauge.DataPoints[0].Value)

	for _, name := range []string{"xmanse.cache.misses", "xmanse.cache.evictions", "xmanse.cache.expirations"} {
		assert.Contains(t, metrics, name)
	}

	require.NoError(t, reg.Unregister())
	hits.Store(20)
	if m, ok := collect(t, reader)["xmanse.cache.hits"]; ok {
		s, _ := m.Data.(metricdata.Sum[int64])
		for _, dp := range s.DataPoints {
			assert.NotEqual(t, int64(20), dp.Value)
		}
	}
}

func TestRegisterCacheStats_Validation(t *testing.T) {
	_, err := RegisterCacheStats(nil, "x", func() CacheSnapshot { return CacheSnapshot{} })
	assert.ErrorIs(t, err, ErrNilMeter)

	mp, _ := newTestMeterProvider(t)
	_, err = RegisterCacheStats(mp.Meter("t"), "x", nil)
	assert.ErrorIs(t, err, ErrNilStatsFunc)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, int64(5), clamp(5))
	assert.Equal(t, int64(1<<63-1), clamp(^uint64(0)))
}
