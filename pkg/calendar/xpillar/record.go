package xpillar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/omeyang/xmanse/pkg/calendar/xganji"
)

// DayRecord 一日的预计算数据。值类型，按值复制。
type DayRecord struct {
	YearStem   xganji.Stem
	YearBranch xganji.Branch
	DayStem    xganji.Stem
	DayBranch  xganji.Branch

	// YearGanji、DayGanji 数据文件提供的柱文本；缺省时由干支拼出。
	YearGanji string
	DayGanji  string

	LunarMonth  int
	LunarDay    int
	IsLeapMonth bool
}

// YearPillar 返回年柱。
func (r DayRecord) YearPillar() xganji.StemBranch {
	return xganji.StemBranch{Stem: r.YearStem, Branch: r.YearBranch}
}

// DayPillar 返回日柱。
func (r DayRecord) DayPillar() xganji.StemBranch {
	return xganji.StemBranch{Stem: r.DayStem, Branch: r.DayBranch}
}

// rawRecord 数据文件中单条记录的线上格式。
type rawRecord struct {
	YS string   `json:"ys"`
	YB string   `json:"yb"`
	YG string   `json:"yg"`
	DS string   `json:"ds"`
	DB string   `json:"db"`
	DG string   `json:"dg"`
	LM int      `json:"lm"`
	LD int      `json:"ld"`
	LP flexBool `json:"lp"`
}

// flexBool 兼容 true/false 与 0/1 两种写法。
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*b = true
	case "false", "0", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

func decodeRecord(data json.RawMessage) (DayRecord, error) {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return DayRecord{}, err
	}

	var rec DayRecord
	var err error
	if rec.YearStem, err = xganji.ParseStem(raw.YS); err != nil {
		return DayRecord{}, err
	}
	if rec.YearBranch, err = xganji.ParseBranch(raw.YB); err != nil {
		return DayRecord{}, err
	}
	if rec.DayStem, err = xganji.ParseStem(raw.DS); err != nil {
		return DayRecord{}, err
	}
	if rec.DayBranch, err = xganji.ParseBranch(raw.DB); err != nil {
		return DayRecord{}, err
	}

	rec.YearGanji = raw.YG
	if rec.YearGanji == "" {
		rec.YearGanji = rec.YearPillar().String()
	}
	rec.DayGanji = raw.DG
	if rec.DayGanji == "" {
		rec.DayGanji = rec.DayPillar().String()
	}
	rec.LunarMonth = raw.LM
	rec.LunarDay = raw.LD
	rec.IsLeapMonth = bool(raw.LP)
	return rec, nil
}

// dateKey 把日期压成一个整数键 YYYYMMDD。
func dateKey(year, month, day int) int32 {
	return int32(year*10000 + month*100 + day)
}

func parseKey(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}
