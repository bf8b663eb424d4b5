package xmetrics

import "errors"

var (
	// ErrCreateInstrument 创建 OTel 指标仪表失败。
	ErrCreateInstrument = errors.New("xmetrics: create instrument failed")

	// ErrNilMeter 传入的 metric.Meter 为 nil。
	ErrNilMeter = errors.New("xmetrics: nil meter")

	// ErrNilStatsFunc 缓存统计快照函数为 nil。
	ErrNilStatsFunc = errors.New("xmetrics: nil stats func")
)
