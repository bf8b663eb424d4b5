// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xwatch: 单文件变更监视，目录级 fsnotify 与防抖
package util
