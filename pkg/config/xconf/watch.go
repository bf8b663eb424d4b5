package xconf

import (
	"github.com/omeyang/xmanse/pkg/util/xwatch"
)

// Watch 监视配置文件，变化后重新 Load 并回调。
// 加载失败时 cfg 为零值、err 非 nil，调用方应继续使用旧配置。
// 返回的 Watcher 需调用 Start/StartAsync 启动，Stop 停止。
func Watch(path string, onChange func(cfg Config, err error), opts ...xwatch.Option) (*xwatch.Watcher, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if onChange == nil {
		return nil, ErrNilCallback
	}
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}
	return xwatch.New(path, func() {
		onChange(Load(path))
	}, opts...)
}
