package xexpire

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// maxSize 缓存最大条目数上限。
const maxSize = 1 << 24 // 16,777,216

// Config 定义缓存配置。
type Config struct {
	// MaxSize 缓存最大条目数。
	// 必须大于 0 且不超过 16,777,216。
	MaxSize int

	// DefaultTTL Set 未指定 TTL（ttl <= 0）时使用的过期时间。
	// 0 表示永不过期，不允许负值。
	DefaultTTL time.Duration
}

// Entry 是缓存条目的只读快照。
type Entry[V any] struct {
	Value     V
	CreatedAt time.Time
	ExpireAt  time.Time // 零值表示永不过期
}

// Expired 判断条目在 now 时刻是否已过期。
func (e Entry[V]) Expired(now time.Time) bool {
	return !e.ExpireAt.IsZero() && now.After(e.ExpireAt)
}

// Cache 是带条目级 TTL 的定容缓存。
// 必须通过 [New] 创建，零值不可用。所有方法都是并发安全的。
type Cache[K comparable, V any] struct {
	mu         sync.Mutex
	lru        *simplelru.LRU[K, Entry[V]]
	maxSize    int
	defaultTTL time.Duration
	now        func() time.Time
	onEvicted  func(key K, value V)

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

// New 创建缓存。
// 如果 cfg.MaxSize <= 0，返回 ErrInvalidSize。
// 如果 cfg.MaxSize > 16,777,216，返回 ErrSizeExceedsMax。
// 如果 cfg.DefaultTTL < 0，返回 ErrInvalidTTL。
func New[K comparable, V any](cfg Config, opts ...Option[K, V]) (*Cache[K, V], error) {
	if cfg.MaxSize <= 0 {
		return nil, ErrInvalidSize
	}
	if cfg.MaxSize > maxSize {
		return nil, ErrSizeExceedsMax
	}
	if cfg.DefaultTTL < 0 {
		return nil, ErrInvalidTTL
	}

	o := &options[K, V]{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	// 设计决策: 不向 simplelru 注册淘汰回调。simplelru 在 Remove/Purge 时同样触发回调，
	// 无法区分容量淘汰与主动删除；容量淘汰由 Set 显式调用 RemoveOldest 完成。
	lru, err := simplelru.NewLRU[K, Entry[V]](cfg.MaxSize, nil)
	if err != nil {
		return nil, err
	}

	return &Cache[K, V]{
		lru:        lru,
		maxSize:    cfg.MaxSize,
		defaultTTL: cfg.DefaultTTL,
		now:        o.now,
		onEvicted:  o.onEvicted,
	}, nil
}

// Get 获取缓存值。
// 键不存在或已过期时返回零值和 false；已过期条目会被立即删除。
// Get 不改变淘汰顺序。
func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	ent, found := c.lru.Peek(key)
	if !found {
		c.misses++
		return value, false
	}
	if ent.Expired(now) {
		c.lru.Remove(key)
		c.expirations++
		c.misses++
		return value, false
	}
	c.hits++
	return ent.Value, true
}

// Peek 返回条目快照，不计入命中统计，也不删除已过期条目。
func (c *Cache[K, V]) Peek(key K) (Entry[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Peek(key)
}

// Set 写入缓存值。ttl <= 0 时使用 Config.DefaultTTL。
// 返回值表示本次写入是否触发了容量淘汰。
//
//   - 键已存在：覆盖值并刷新 CreatedAt/ExpireAt，不触发淘汰
//   - 键不存在且缓存已满：先淘汰 CreatedAt 最早的一个条目，再写入
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) (evicted bool) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := c.now()
	ent := Entry[V]{Value: value, CreatedAt: now}
	if ttl > 0 {
		ent.ExpireAt = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lru.Contains(key) && c.lru.Len() >= c.maxSize {
		if k, old, ok := c.lru.RemoveOldest(); ok {
			c.evictions++
			evicted = true
			if c.onEvicted != nil {
				c.onEvicted(k, old.Value)
			}
		}
	}
	c.lru.Add(key, ent)
	return evicted
}

// Delete 删除条目，返回 true 表示键存在并被删除。
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Remove(key)
}

// Sweep 删除所有已过期条目，返回删除数量。
func (c *Cache[K, V]) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, k := range c.lru.Keys() {
		ent, ok := c.lru.Peek(k)
		if ok && ent.Expired(now) {
			c.lru.Remove(k)
			removed++
		}
	}
	c.expirations += uint64(removed)
	return removed
}

// Len 返回当前条目数。
//
// 注意：返回值可能包含已过期但尚未被 Get/Sweep 清理的条目。
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Keys 返回所有键，按写入时间从旧到新排列。
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Keys()
}

// Clear 清空所有条目，统计计数保留。
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Stats 返回统计快照。
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:        c.lru.Len(),
		MaxSize:     c.maxSize,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
}
