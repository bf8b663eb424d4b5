package xpillar

import "errors"

var (
	// ErrEmptyDataset 数据集中没有任何有效记录。
	ErrEmptyDataset = errors.New("xpillar: empty dataset")

	// ErrCorrupt 数据文件无法解码（非法 JSON 或损坏的 gzip）。
	ErrCorrupt = errors.New("xpillar: corrupt dataset")

	// ErrLoadFailed 数据文件读取或解析失败。
	ErrLoadFailed = errors.New("xpillar: load failed")

	// ErrUnavailable 数据集未能加载，无法应答查询。
	ErrUnavailable = errors.New("xpillar: dataset unavailable")

	// ErrEmptyPath 数据文件路径为空。
	ErrEmptyPath = errors.New("xpillar: empty path")

	// ErrNilHolder Reloader 的 Holder 为 nil。
	ErrNilHolder = errors.New("xpillar: nil holder")
)
