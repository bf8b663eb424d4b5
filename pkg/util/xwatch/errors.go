package xwatch

import "errors"

var (
	// ErrEmptyPath 表示监视路径为空。
	ErrEmptyPath = errors.New("xwatch: empty path")

	// ErrNilCallback 表示回调函数为 nil。
	ErrNilCallback = errors.New("xwatch: nil callback")
)
