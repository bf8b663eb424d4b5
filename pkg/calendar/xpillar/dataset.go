package xpillar

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/omeyang/xmanse/pkg/calendar/xganji"
)

// 数据集覆盖的公历年份。
const (
	FirstYear = 1841
	LastYear  = 2100
)

// Coverage 数据集实际覆盖的范围。
type Coverage struct {
	FirstYear int
	LastYear  int
	Days      int
}

// Dataset 只读的日表。通过 [Parse] 或 [Load] 创建。
type Dataset struct {
	records     map[int32]DayRecord
	coverage    Coverage
	skipped     int
	fingerprint uint64
}

// Parse 解析 JSON 文档为数据集。
//
// 非法记录被跳过并计数；整体无法解码返回 ErrCorrupt；没有有效记录返回 ErrEmptyDataset。
func Parse(data []byte) (*Dataset, error) {
	var years map[string]json.RawMessage
	if err := json.Unmarshal(data, &years); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	ds := &Dataset{
		records:     make(map[int32]DayRecord, len(years)*366),
		fingerprint: xxhash.Sum64(data),
	}
	for yk, yraw := range years {
		year, ok := parseKey(yk)
		if !ok || year < 1 || year > 9999 {
			ds.skipped++
			continue
		}
		var months map[string]json.RawMessage
		if err := json.Unmarshal(yraw, &months); err != nil {
			ds.skipped++
			continue
		}
		for mk, mraw := range months {
			ds.addMonth(year, mk, mraw)
		}
	}

	if len(ds.records) == 0 {
		return nil, ErrEmptyDataset
	}
	ds.coverage.Days = len(ds.records)
	return ds, nil
}

func (ds *Dataset) addMonth(year int, mk string, mraw json.RawMessage) {
	month, ok := parseKey(mk)
	if !ok || month < 1 || month > 12 {
		ds.skipped++
		return
	}
	var days map[string]json.RawMessage
	if err := json.Unmarshal(mraw, &days); err != nil {
		ds.skipped++
		return
	}
	for dk, draw := range days {
		day, ok := parseKey(dk)
		if !ok || !xganji.IsValidGregorianDate(year, month, day) {
			ds.skipped++
			continue
		}
		rec, err := decodeRecord(draw)
		if err != nil {
			ds.skipped++
			continue
		}
		ds.records[dateKey(year, month, day)] = rec
		ds.extend(year)
	}
}

func (ds *Dataset) extend(year int) {
	if ds.coverage.FirstYear == 0 || year < ds.coverage.FirstYear {
		ds.coverage.FirstYear = year
	}
	if year > ds.coverage.LastYear {
		ds.coverage.LastYear = year
	}
}

// Lookup 查询某日记录。未覆盖的日期返回 found=false，不会 panic。
func (ds *Dataset) Lookup(year, month, day int) (DayRecord, bool) {
	if ds == nil || month < 1 || month > 12 || day < 1 || day > 31 || year < 1 || year > 9999 {
		return DayRecord{}, false
	}
	rec, ok := ds.records[dateKey(year, month, day)]
	return rec, ok
}

// Coverage 返回实际覆盖范围。
func (ds *Dataset) Coverage() Coverage { return ds.coverage }

// Len 返回有效记录数。
func (ds *Dataset) Len() int { return len(ds.records) }

// Skipped 返回解析时跳过的条目数。
func (ds *Dataset) Skipped() int { return ds.skipped }

// Fingerprint 返回原始 JSON（解压后）的 xxhash，用于比对不同部署的数据是否一致。
func (ds *Dataset) Fingerprint() uint64 { return ds.fingerprint }
