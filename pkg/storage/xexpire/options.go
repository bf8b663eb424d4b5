package xexpire

import "time"

// Option 定义缓存可选配置函数类型。
type Option[K comparable, V any] func(*options[K, V])

type options[K comparable, V any] struct {
	now       func() time.Time
	onEvicted func(key K, value V)
}

// WithNow 注入时钟，主要用于测试。nil 会被忽略。
func WithNow[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(o *options[K, V]) {
		if now != nil {
			o.now = now
		}
	}
}

// WithOnEvicted 设置容量淘汰回调。
//
// 仅在写入新键触发容量淘汰时调用；Delete、Clear、过期删除不会触发。
// 回调在缓存锁内同步执行，严禁在回调中调用 Cache 自身的任何方法。
func WithOnEvicted[K comparable, V any](fn func(key K, value V)) Option[K, V] {
	return func(o *options[K, V]) {
		o.onEvicted = fn
	}
}
