// Package xwatch 监视单个文件的变更，并在防抖后回调。
//
// 监视的是文件所在目录而非文件本身：编辑器与部署工具常以"写临时文件再 rename"
// 的方式原子替换文件，直接监视文件会在替换后丢失事件。
//
// Write、Create、Rename 事件都会触发回调；短时间内的多次事件按 WithDebounce
// 合并为一次回调（默认 100ms）。
//
// xconf 用它热加载配置文件，xpillar 用它热加载干支数据集。
package xwatch
