package xmanse

import (
	"errors"
	"fmt"
)

// 构造错误。
var (
	// ErrNilDataset New 的 dataset 为 nil。
	ErrNilDataset = errors.New("xmanse: nil dataset")

	// ErrInvalidSweepEvery sweepEvery 为 0。
	ErrInvalidSweepEvery = errors.New("xmanse: sweep interval must be positive")
)

// 查询错误类别，配合 errors.Is 使用。
var (
	// ErrMissingParameter 必填参数缺失。
	ErrMissingParameter = errors.New("xmanse: missing parameter")

	// ErrOutOfRange 参数超出支持范围。
	ErrOutOfRange = errors.New("xmanse: parameter out of range")

	// ErrInvalidDate 不存在的公历日期。
	ErrInvalidDate = errors.New("xmanse: invalid date")

	// ErrDataNotFound 日期合法但数据集未收录。
	ErrDataNotFound = errors.New("xmanse: data not found")

	// ErrServiceUnavailable 数据集不可用，属于部署故障而非请求错误。
	ErrServiceUnavailable = errors.New("xmanse: service unavailable")
)

// MissingParameterError 必填参数缺失。
type MissingParameterError struct {
	Field string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("xmanse: missing required parameter %q", e.Field)
}

func (e *MissingParameterError) Is(target error) bool { return target == ErrMissingParameter }

// OutOfRangeError 参数超出 [Min, Max]。
type OutOfRangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("xmanse: %s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// InvalidDateError 不存在的公历日期，如 2023-02-30。
type InvalidDateError struct {
	Year, Month, Day int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("xmanse: invalid date %04d-%02d-%02d", e.Year, e.Month, e.Day)
}

func (e *InvalidDateError) Is(target error) bool { return target == ErrInvalidDate }

// DataNotFoundError 日期合法但数据集中没有记录（覆盖范围之外或数据缺口）。
type DataNotFoundError struct {
	Year, Month, Day int
}

func (e *DataNotFoundError) Error() string {
	return fmt.Sprintf("xmanse: no data for %04d-%02d-%02d", e.Year, e.Month, e.Day)
}

func (e *DataNotFoundError) Is(target error) bool { return target == ErrDataNotFound }

// UnavailableError 数据集不可用。Cause 为加载失败的原因，可经 errors.Is/As 匹配。
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	if e.Cause == nil {
		return ErrServiceUnavailable.Error()
	}
	return ErrServiceUnavailable.Error() + ": " + e.Cause.Error()
}

func (e *UnavailableError) Is(target error) bool { return target == ErrServiceUnavailable }

func (e *UnavailableError) Unwrap() error { return e.Cause }

// IsClientError 报告 err 是否为请求本身的问题（缺参、越界、非法日期、未收录）。
// ServiceUnavailable 与未知错误返回 false。
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingParameter) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrDataNotFound)
}
