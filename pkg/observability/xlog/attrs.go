package xlog

import (
	"fmt"
	"log/slog"
	"time"
)

// 常用字段 key。
const (
	KeyError       = "error"
	KeyDuration    = "duration"
	KeyCount       = "count"
	KeyComponent   = "component"
	KeyOperation   = "operation"
	KeyPath        = "path"
	KeyDate        = "date"
	KeyHour        = "hour"
	KeyFingerprint = "fingerprint"
	KeyTraceID     = "trace_id"
	KeySpanID      = "span_id"
)

// Err 创建错误属性；err 为 nil 时返回空属性（slog 会忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建耗时属性，输出如 "1.5ms"。
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 标识日志来源组件。
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 标识当前操作。
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Count 创建计数属性。
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// Path 创建文件路径属性。
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Date 以 YYYY-MM-DD 格式记录公历日期。
func Date(year, month, day int) slog.Attr {
	return slog.String(KeyDate, fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}

// Hour 记录小时；hour 为 nil 时返回空属性。
func Hour(hour *int) slog.Attr {
	if hour == nil {
		return slog.Attr{}
	}
	return slog.Int(KeyHour, *hour)
}

// Fingerprint 以 16 位十六进制记录数据指纹。
func Fingerprint(fp uint64) slog.Attr {
	return slog.String(KeyFingerprint, fmt.Sprintf("%016x", fp))
}
