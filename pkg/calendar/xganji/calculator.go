package xganji

import (
	"github.com/omeyang/xmanse/pkg/storage/xexpire"
)

// 子缓存默认容量：月柱、时柱覆盖全部输入组合（12 月 × 10 天干，24 小时 × 10 天干），
// 月天数覆盖数据集的 260 年。
const (
	DefaultMonthMemoSize = 12 * StemCount
	DefaultHourMemoSize  = 24 * StemCount
	DefaultDaysMemoSize  = 260 * 12
)

type yearMonth struct {
	year, month int
}

type monthKey struct {
	month int
	stem  Stem
}

type hourKey struct {
	hour int
	stem Stem
}

// CalculatorStats 记忆化子缓存统计。
type CalculatorStats struct {
	Month xexpire.Stats
	Hour  xexpire.Stats
	Days  xexpire.Stats
}

// Calculator 为 IsValidGregorianDate、MonthPillar、HourPillar 提供记忆化。
// 所有方法并发安全；零值不可用，需通过 NewCalculator 创建。
type Calculator struct {
	months *xexpire.Cache[monthKey, StemBranch]
	hours  *xexpire.Cache[hourKey, StemBranch]
	days   *xexpire.Cache[yearMonth, int]
}

// NewCalculator 创建记忆化计算器。memoSize <= 0 时使用各子缓存的默认容量，
// 否则三个子缓存都使用 memoSize。记忆条目永不过期：结果只依赖输入。
func NewCalculator(memoSize int) (*Calculator, error) {
	monthSize, hourSize, daysSize := DefaultMonthMemoSize, DefaultHourMemoSize, DefaultDaysMemoSize
	if memoSize > 0 {
		monthSize, hourSize, daysSize = memoSize, memoSize, memoSize
	}
	months, err := xexpire.New[monthKey, StemBranch](xexpire.Config{MaxSize: monthSize})
	if err != nil {
		return nil, err
	}
	hours, err := xexpire.New[hourKey, StemBranch](xexpire.Config{MaxSize: hourSize})
	if err != nil {
		return nil, err
	}
	days, err := xexpire.New[yearMonth, int](xexpire.Config{MaxSize: daysSize})
	if err != nil {
		return nil, err
	}
	return &Calculator{months: months, hours: hours, days: days}, nil
}

// IsValidGregorianDate 同包级 IsValidGregorianDate，月天数经子缓存记忆。
func (c *Calculator) IsValidGregorianDate(year, month, day int) bool {
	if month < 1 || month > 12 {
		return false
	}
	k := yearMonth{year: year, month: month}
	n, ok := c.days.Get(k)
	if !ok {
		n = DaysIn(year, month)
		c.days.Set(k, n, 0)
	}
	return day >= 1 && day <= n
}

// MonthPillar 同包级 MonthPillar，结果经子缓存记忆。
func (c *Calculator) MonthPillar(month int, yearStem Stem) StemBranch {
	k := monthKey{month: month, stem: yearStem}
	if p, ok := c.months.Get(k); ok {
		return p
	}
	p := MonthPillar(month, yearStem)
	c.months.Set(k, p, 0)
	return p
}

// HourPillar 同包级 HourPillar，结果经子缓存记忆。
func (c *Calculator) HourPillar(hour int, dayStem Stem) StemBranch {
	k := hourKey{hour: hour, stem: dayStem}
	if p, ok := c.hours.Get(k); ok {
		return p
	}
	p := HourPillar(hour, dayStem)
	c.hours.Set(k, p, 0)
	return p
}

// Stats 返回三个子缓存的统计快照。
func (c *Calculator) Stats() CalculatorStats {
	return CalculatorStats{Month: c.months.Stats(), Hour: c.hours.Stats(), Days: c.days.Stats()}
}
