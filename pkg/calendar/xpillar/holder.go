package xpillar

import (
	"fmt"
	"sync/atomic"
)

type holderState struct {
	ds  *Dataset
	err error // 最近一次加载失败的原因
}

// Holder 原子持有当前数据集，供查询方并发读取、Reloader 替换。
// 零值不可用，须通过 NewHolder 或 NewFailedHolder 创建。
type Holder struct {
	state atomic.Pointer[holderState]
}

// NewHolder 以已加载的数据集创建 Holder。ds 为 nil 时等同于加载失败。
func NewHolder(ds *Dataset) *Holder {
	h := &Holder{}
	st := &holderState{ds: ds}
	if ds == nil {
		st.err = ErrEmptyDataset
	}
	h.state.Store(st)
	return h
}

// NewFailedHolder 创建处于不可用状态的 Holder，cause 为加载失败原因。
func NewFailedHolder(cause error) *Holder {
	h := &Holder{}
	h.state.Store(&holderState{err: cause})
	return h
}

// Store 替换当前数据集并清除失败记录。nil 被忽略。
func (h *Holder) Store(ds *Dataset) {
	if ds == nil {
		return
	}
	h.state.Store(&holderState{ds: ds})
}

// Fail 记录一次加载失败。已有数据集时继续提供服务。
func (h *Holder) Fail(cause error) {
	for {
		old := h.state.Load()
		next := &holderState{ds: old.ds, err: cause}
		if h.state.CompareAndSwap(old, next) {
			return
		}
	}
}

// Dataset 返回当前数据集，未加载时为 nil。
func (h *Holder) Dataset() *Dataset { return h.state.Load().ds }

// Err 返回最近一次加载失败的原因，成功加载后为 nil。
func (h *Holder) Err() error { return h.state.Load().err }

// Available 报告是否有可用数据集。
func (h *Holder) Available() bool { return h.state.Load().ds != nil }

// Lookup 查询某日记录。没有可用数据集时返回包装 ErrUnavailable 的错误。
func (h *Holder) Lookup(year, month, day int) (DayRecord, bool, error) {
	st := h.state.Load()
	if st.ds == nil {
		if st.err != nil {
			return DayRecord{}, false, fmt.Errorf("%w: %w", ErrUnavailable, st.err)
		}
		return DayRecord{}, false, ErrUnavailable
	}
	rec, ok := st.ds.Lookup(year, month, day)
	return rec, ok, nil
}
