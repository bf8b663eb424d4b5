package xlog

import (
	"fmt"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 轮转默认值。
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 7
	DefaultMaxAgeDays = 30

	maxSizeMB  = 10240
	maxBackups = 1024
	maxAgeDays = 3650
)

type rotationConfig struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	localTime  bool
}

// RotationOption 日志轮转选项。
type RotationOption func(*rotationConfig)

// WithMaxSize 单个日志文件最大大小（MB），范围 1~10240。
func WithMaxSize(mb int) RotationOption {
	return func(c *rotationConfig) { c.maxSizeMB = mb }
}

// WithMaxBackups 保留的备份数量，0 表示不按数量清理。
func WithMaxBackups(n int) RotationOption {
	return func(c *rotationConfig) { c.maxBackups = n }
}

// WithMaxAge 备份保留天数，0 表示不按天数清理。
func WithMaxAge(days int) RotationOption {
	return func(c *rotationConfig) { c.maxAgeDays = days }
}

// WithCompress 是否 gzip 压缩备份。
func WithCompress(on bool) RotationOption {
	return func(c *rotationConfig) { c.compress = on }
}

// WithLocalTime 备份文件名是否使用本地时间，默认 UTC。
func WithLocalTime(on bool) RotationOption {
	return func(c *rotationConfig) { c.localTime = on }
}

func newRotator(filename string, opts ...RotationOption) (*lumberjack.Logger, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	cfg := rotationConfig{
		maxSizeMB:  DefaultMaxSizeMB,
		maxBackups: DefaultMaxBackups,
		maxAgeDays: DefaultMaxAgeDays,
		compress:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	switch {
	case cfg.maxSizeMB < 1 || cfg.maxSizeMB > maxSizeMB:
		return nil, fmt.Errorf("%w: max size %d MB", ErrInvalidRotation, cfg.maxSizeMB)
	case cfg.maxBackups < 0 || cfg.maxBackups > maxBackups:
		return nil, fmt.Errorf("%w: max backups %d", ErrInvalidRotation, cfg.maxBackups)
	case cfg.maxAgeDays < 0 || cfg.maxAgeDays > maxAgeDays:
		return nil, fmt.Errorf("%w: max age %d days", ErrInvalidRotation, cfg.maxAgeDays)
	case cfg.maxBackups == 0 && cfg.maxAgeDays == 0:
		// 两者都为 0 时备份永不清理，磁盘会被写满
		return nil, fmt.Errorf("%w: no cleanup policy", ErrInvalidRotation)
	}

	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.maxSizeMB,
		MaxBackups: cfg.maxBackups,
		MaxAge:     cfg.maxAgeDays,
		Compress:   cfg.compress,
		LocalTime:  cfg.localTime,
	}, nil
}
