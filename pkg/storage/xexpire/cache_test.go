package xexpire

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 可手动推进的测试时钟。
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(t *testing.T, size int, clock *fakeClock) *Cache[string, int] {
	t.Helper()
	c, err := New(Config{MaxSize: size, DefaultTTL: time.Hour}, WithNow[string, int](clock.Now))
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"valid", Config{MaxSize: 10, DefaultTTL: time.Minute}, nil},
		{"zero ttl", Config{MaxSize: 10}, nil},
		{"zero size", Config{MaxSize: 0}, ErrInvalidSize},
		{"negative size", Config{MaxSize: -1}, ErrInvalidSize},
		{"size too large", Config{MaxSize: maxSize + 1}, ErrSizeExceedsMax},
		{"negative ttl", Config{MaxSize: 10, DefaultTTL: -time.Second}, ErrInvalidTTL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New[string, int](tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c := newTestCache(t, 10, newFakeClock())

	c.Set("a", 1, 0)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 2, 0)
	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())

	st := c.Stats()
	assert.Equal(t, uint64(2), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.InDelta(t, 2.0/3.0, st.HitRatio(), 1e-9)
}

func TestCache_TTLWithClock(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, 10, clock)

	c.Set("k", 7, 100*time.Millisecond)

	clock.Advance(100 * time.Millisecond)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry is still valid at exactly expireAt")

	clock.Advance(time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry must be purged on read")
	assert.Equal(t, uint64(1), c.Stats().Expirations)
}

func TestCache_TTLRealTime(t *testing.T) {
	c, err := New[string, int](Config{MaxSize: 10, DefaultTTL: time.Hour})
	require.NoError(t, err)

	c.Set("k", 1, 100*time.Millisecond)
	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(150 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_DefaultTTL(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, 10, clock)

	c.Set("k", 1, 0)
	ent, ok := c.Peek("k")
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(time.Hour), ent.ExpireAt)

	noTTL, err := New(Config{MaxSize: 10}, WithNow[string, int](clock.Now))
	require.NoError(t, err)
	noTTL.Set("k", 1, 0)
	clock.Advance(24 * 365 * time.Hour)
	_, ok = noTTL.Get("k")
	assert.True(t, ok, "zero DefaultTTL never expires")
}

func TestCache_EvictsOldestByCreatedAt(t *testing.T) {
	clock := newFakeClock()
	var evicted []string
	c, err := New(Config{MaxSize: 3, DefaultTTL: time.Hour},
		WithNow[string, int](clock.Now),
		WithOnEvicted(func(k string, _ int) { evicted = append(evicted, k) }),
	)
	require.NoError(t, err)

	for i, k := range []string{"k1", "k2", "k3"} {
		assert.False(t, c.Set(k, i, 0))
		clock.Advance(time.Millisecond)
	}

	// 读取不影响淘汰顺序
	_, _ = c.Get("k1")

	assert.True(t, c.Set("k4", 4, 0))
	assert.Equal(t, []string{"k1"}, evicted)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"k2", "k3", "k4"}, c.Keys())
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, 2, clock)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	assert.False(t, c.Set("a", 10, 0))
	assert.Equal(t, 2, c.Len())

	// a 被重新写入，最旧的变为 b
	c.Set("c", 3, 0)
	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestCache_FillToCapacity(t *testing.T) {
	const size = 100
	c := newTestCache(t, size, newFakeClock())

	for i := range size {
		c.Set(fmt.Sprintf("key-%d", i), i, 0)
	}
	before := c.Keys()
	require.Len(t, before, size)

	c.Set("extra", -1, 0)

	st := c.Stats()
	assert.Equal(t, size, st.Size)
	assert.Equal(t, uint64(1), st.Evictions)
	_, ok := c.Peek("key-0")
	assert.False(t, ok)
	for _, k := range before[1:] {
		_, ok := c.Peek(k)
		assert.True(t, ok, k)
	}
}

func TestCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, 10, clock)

	c.Set("short1", 1, time.Second)
	c.Set("long", 2, time.Hour)
	c.Set("short2", 3, time.Second)

	assert.Equal(t, 0, c.Sweep())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 2, c.Sweep())
	assert.Equal(t, []string{"long"}, c.Keys())
	assert.Equal(t, uint64(2), c.Stats().Expirations)
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := newTestCache(t, 10, newFakeClock())
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, uint64(0), c.Stats().Evictions, "Clear is not a capacity eviction")
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c, err := New[int, int](Config{MaxSize: 256, DefaultTTL: time.Minute})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := range 32 {
		wg.Go(func() {
			for i := range 1000 {
				k := (g*1000 + i) % 512
				c.Set(k, k, 0)
				if v, ok := c.Get(k); ok {
					assert.Equal(t, k, v)
				}
				if i%100 == 0 {
					c.Sweep()
				}
			}
		})
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 256)
}
