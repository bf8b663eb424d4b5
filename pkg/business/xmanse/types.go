package xmanse

import (
	"encoding/json"
	"fmt"

	"github.com/omeyang/xmanse/pkg/calendar/xganji"
	"github.com/omeyang/xmanse/pkg/calendar/xpillar"
)

// 参数取值范围。
const (
	MinYear  = xpillar.FirstYear
	MaxYear  = xpillar.LastYear
	MinMonth = 1
	MaxMonth = 12
	MinDay   = 1
	MaxDay   = 31
	MinHour  = 0
	MaxHour  = 23
)

// Request 查询参数。nil 表示调用方未提供；Hour 可选。
type Request struct {
	Year  *int
	Month *int
	Day   *int
	Hour  *int
}

// NewRequest 由已知日期构造 Request，hour 可为 nil。
func NewRequest(year, month, day int, hour *int) Request {
	return Request{Year: &year, Month: &month, Day: &day, Hour: hour}
}

// Key 结果缓存键。Hour 为 -1 表示未指定小时。
type Key struct {
	Year, Month, Day, Hour int
}

func (k Key) String() string {
	if k.Hour < 0 {
		return fmt.Sprintf("%04d-%02d-%02d", k.Year, k.Month, k.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02dT%02d", k.Year, k.Month, k.Day, k.Hour)
}

// Result 四柱查询结果。值类型，缓存与调用方各持一份拷贝。
type Result struct {
	Year, Month, Day int

	// HasHour 为 false 时 Hour、HourPillar 无意义。
	HasHour bool
	Hour    int

	YearPillar  xganji.StemBranch
	MonthPillar xganji.StemBranch
	DayPillar   xganji.StemBranch
	HourPillar  xganji.StemBranch

	// YearGanji、DayGanji 数据集中的柱文本。
	YearGanji string
	DayGanji  string

	LunarMonth  int
	LunarDay    int
	IsLeapMonth bool
}

// Flat 平铺的结果视图，字段与对外 JSON 一一对应。
type Flat struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	Hour        *int   `json:"hour,omitempty"`
	YearGanji   string `json:"yearGanji"`
	MonthGanji  string `json:"monthGanji"`
	DayGanji    string `json:"dayGanji"`
	HourGanji   string `json:"hourGanji,omitempty"`
	YearStem    string `json:"yearStem"`
	YearBranch  string `json:"yearBranch"`
	MonthStem   string `json:"monthStem"`
	MonthBranch string `json:"monthBranch"`
	DayStem     string `json:"dayStem"`
	DayBranch   string `json:"dayBranch"`
	HourStem    string `json:"hourStem,omitempty"`
	HourBranch  string `json:"hourBranch,omitempty"`
	LunarMonth  int    `json:"lunarMonth"`
	LunarDay    int    `json:"lunarDay"`
	IsLeapMonth bool   `json:"isLeapMonth"`
}

// Flat 返回平铺视图，未指定小时时省略 hour 相关字段。
func (r Result) Flat() Flat {
	f := Flat{
		Year:        r.Year,
		Month:       r.Month,
		Day:         r.Day,
		YearGanji:   r.YearGanji,
		MonthGanji:  r.MonthPillar.String(),
		DayGanji:    r.DayGanji,
		YearStem:    r.YearPillar.Stem.String(),
		YearBranch:  r.YearPillar.Branch.String(),
		MonthStem:   r.MonthPillar.Stem.String(),
		MonthBranch: r.MonthPillar.Branch.String(),
		DayStem:     r.DayPillar.Stem.String(),
		DayBranch:   r.DayPillar.Branch.String(),
		LunarMonth:  r.LunarMonth,
		LunarDay:    r.LunarDay,
		IsLeapMonth: r.IsLeapMonth,
	}
	if r.HasHour {
		hour := r.Hour
		f.Hour = &hour
		f.HourGanji = r.HourPillar.String()
		f.HourStem = r.HourPillar.Stem.String()
		f.HourBranch = r.HourPillar.Branch.String()
	}
	return f
}

// MarshalJSON 以平铺格式序列化。
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Flat())
}

// CacheStats 结果缓存统计。
type CacheStats struct {
	Size      int    `json:"size"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}
