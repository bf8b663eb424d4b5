package xmanse

import (
	"time"

	"github.com/omeyang/xmanse/pkg/calendar/xganji"
	"github.com/omeyang/xmanse/pkg/observability/xlog"
	"github.com/omeyang/xmanse/pkg/observability/xmetrics"
	"github.com/omeyang/xmanse/pkg/storage/xexpire"
)

// 默认值。
const (
	DefaultCacheSize  = 2000
	DefaultTTL        = 24 * time.Hour
	DefaultSweepEvery = 1024
)

// Option Service 配置选项。
type Option func(*options)

type options struct {
	cache      *xexpire.Cache[Key, Result]
	cacheSize  int
	ttl        time.Duration
	sweepEvery uint64
	calc       *xganji.Calculator
	logger     xlog.Logger
	observer   xmetrics.Observer
}

func defaultOptions() options {
	return options{
		cacheSize:  DefaultCacheSize,
		ttl:        DefaultTTL,
		sweepEvery: DefaultSweepEvery,
		logger:     xlog.Discard(),
		observer:   xmetrics.NoopObserver{},
	}
}

// WithCache 注入结果缓存。注入后 WithCacheSize 不再生效，缓存由调用方与服务共享。
func WithCache(c *xexpire.Cache[Key, Result]) Option {
	return func(o *options) { o.cache = c }
}

// WithCacheSize 设置默认结果缓存的容量。
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithTTL 设置结果缓存条目的 TTL，d <= 0 忽略。
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithSweepEvery 每 n 次查询顺带清理一次过期条目。
func WithSweepEvery(n uint64) Option {
	return func(o *options) { o.sweepEvery = n }
}

// WithCalculator 注入记忆化计算器。
func WithCalculator(c *xganji.Calculator) Option {
	return func(o *options) { o.calc = c }
}

// WithLogger 设置日志记录器，nil 忽略。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver 设置观测器，nil 忽略。
func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}
