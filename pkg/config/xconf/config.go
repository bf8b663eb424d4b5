package xconf

import (
	"errors"
	"fmt"
	"time"
)

// Config xmanse 运行配置。
type Config struct {
	Dataset DatasetConfig `koanf:"dataset"`
	Cache   CacheConfig   `koanf:"cache"`
	Log     LogConfig     `koanf:"log"`
}

// DatasetConfig 日表数据集。
type DatasetConfig struct {
	// Path 数据集文件，JSON 或 gzip 压缩的 JSON。
	Path string `koanf:"path"`

	// LoadAttempts 加载失败时的总尝试次数。
	LoadAttempts uint `koanf:"load_attempts"`

	// LoadDelay 首次重试前的等待，之后指数退避。
	LoadDelay time.Duration `koanf:"load_delay"`

	// Watch 为 true 时文件变化后热替换数据集。
	Watch bool `koanf:"watch"`

	// WatchDebounce 文件事件防抖间隔。
	WatchDebounce time.Duration `koanf:"watch_debounce"`
}

// CacheConfig 结果缓存与计算器记忆化。
type CacheConfig struct {
	MaxSize    int           `koanf:"max_size"`
	TTL        time.Duration `koanf:"ttl"`
	SweepEvery uint64        `koanf:"sweep_every"`

	// MemoSize 计算器子缓存容量，0 表示各自的默认值。
	MemoSize int `koanf:"memo_size"`
}

// LogConfig 日志输出。File 为空时写 stderr，否则按大小轮转。
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	AddSource  bool   `koanf:"add_source"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// 默认值。
const (
	DefaultDatasetPath   = "data/manseryeok.json"
	DefaultLoadAttempts  = 3
	DefaultLoadDelay     = 200 * time.Millisecond
	DefaultWatchDebounce = 100 * time.Millisecond
	DefaultCacheMaxSize  = 2000
	DefaultCacheTTL      = 24 * time.Hour
	DefaultSweepEvery    = 1024
)

// Default 返回默认配置。
func Default() Config {
	return Config{
		Dataset: DatasetConfig{
			Path:          DefaultDatasetPath,
			LoadAttempts:  DefaultLoadAttempts,
			LoadDelay:     DefaultLoadDelay,
			WatchDebounce: DefaultWatchDebounce,
		},
		Cache: CacheConfig{
			MaxSize:    DefaultCacheMaxSize,
			TTL:        DefaultCacheTTL,
			SweepEvery: DefaultSweepEvery,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 7,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// Validate 检查取值，返回所有问题合并后的错误。
func (c Config) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s %s", ErrInvalid, field, fmt.Sprintf(format, args...)))
	}

	if c.Dataset.Path == "" {
		bad("dataset.path", "is empty")
	}
	if c.Dataset.LoadAttempts == 0 {
		bad("dataset.load_attempts", "must be at least 1")
	}
	if c.Dataset.LoadDelay < 0 {
		bad("dataset.load_delay", "must not be negative, got %s", c.Dataset.LoadDelay)
	}
	if c.Dataset.WatchDebounce < 0 {
		bad("dataset.watch_debounce", "must not be negative, got %s", c.Dataset.WatchDebounce)
	}

	if c.Cache.MaxSize <= 0 {
		bad("cache.max_size", "must be positive, got %d", c.Cache.MaxSize)
	}
	if c.Cache.TTL <= 0 {
		bad("cache.ttl", "must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.SweepEvery == 0 {
		bad("cache.sweep_every", "must be positive")
	}
	if c.Cache.MemoSize < 0 {
		bad("cache.memo_size", "must not be negative, got %d", c.Cache.MemoSize)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		bad("log.format", "must be text or json, got %q", c.Log.Format)
	}
	if c.Log.File != "" {
		if c.Log.MaxSizeMB <= 0 {
			bad("log.max_size_mb", "must be positive, got %d", c.Log.MaxSizeMB)
		}
		if c.Log.MaxBackups < 0 {
			bad("log.max_backups", "must not be negative, got %d", c.Log.MaxBackups)
		}
		if c.Log.MaxAgeDays < 0 {
			bad("log.max_age_days", "must not be negative, got %d", c.Log.MaxAgeDays)
		}
	}

	return errors.Join(errs...)
}
