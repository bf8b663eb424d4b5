// Package storage 提供数据存储相关的子包。
//
// 子包列表：
//   - xexpire: 进程内定容缓存，条目级 TTL，按写入时间淘汰
package storage
