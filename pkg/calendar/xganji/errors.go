package xganji

import "errors"

var (
	// ErrUnknownStem 表示无法识别的天干符号。
	ErrUnknownStem = errors.New("xganji: unknown stem")

	// ErrUnknownBranch 表示无法识别的地支符号。
	ErrUnknownBranch = errors.New("xganji: unknown branch")

	// ErrInvalidPillar 表示干支字符串格式无效。
	ErrInvalidPillar = errors.New("xganji: invalid pillar")
)
