package xexpire

import "errors"

var (
	// ErrInvalidSize 表示缓存容量配置无效。
	ErrInvalidSize = errors.New("xexpire: max size must be greater than 0")

	// ErrSizeExceedsMax 表示缓存容量超过上限 (16,777,216)。
	ErrSizeExceedsMax = errors.New("xexpire: max size must not exceed 16777216")

	// ErrInvalidTTL 表示默认 TTL 配置无效。
	ErrInvalidTTL = errors.New("xexpire: default TTL must not be negative")
)
