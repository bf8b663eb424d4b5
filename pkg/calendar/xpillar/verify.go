package xpillar

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"
)

// Date 公历日期。
type Date struct {
	Year, Month, Day int
}

func (d Date) String() string { return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day) }

func (d Date) key() int32 { return dateKey(d.Year, d.Month, d.Day) }

// next 返回次日。
func (d Date) next() Date {
	t := time.Date(d.Year, time.Month(d.Month), d.Day+1, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func dateOf(k int32) Date {
	n := int(k)
	return Date{Year: n / 10000, Month: n / 100 % 100, Day: n % 100}
}

// All 按日期升序遍历全部记录。
func (ds *Dataset) All() iter.Seq2[Date, DayRecord] {
	return func(yield func(Date, DayRecord) bool) {
		if ds == nil {
			return
		}
		for _, k := range slices.Sorted(maps.Keys(ds.records)) {
			if !yield(dateOf(k), ds.records[k]) {
				return
			}
		}
	}
}

// Report 数据集一致性检查结果。
type Report struct {
	Days int

	// NonCanonical 年柱或日柱不是六十甲子组合的日期。
	NonCanonical []Date

	// Discontinuous 与前一日都有记录、但日柱序号没有前进 1 的日期。
	Discontinuous []Date

	// Gaps 覆盖范围内缺失的日期段数。
	Gaps int
}

// OK 没有发现任何问题。
func (r Report) OK() bool {
	return len(r.NonCanonical) == 0 && len(r.Discontinuous) == 0
}

// Verify 检查所有记录：干支阴阳一致，相邻两日的日柱在六十甲子中连续。
// 缺口不算错误，只计数。
func (ds *Dataset) Verify() Report {
	var (
		rep     Report
		prev    Date
		prevRec DayRecord
		first   = true
	)
	for d, rec := range ds.All() {
		rep.Days++
		if !rec.YearPillar().Canonical() || !rec.DayPillar().Canonical() {
			rep.NonCanonical = append(rep.NonCanonical, d)
		}
		if !first {
			if prev.next() == d {
				want := (prevRec.DayPillar().Index() + 1) % 60
				if prevRec.DayPillar().Index() >= 0 && rec.DayPillar().Index() != want {
					rep.Discontinuous = append(rep.Discontinuous, d)
				}
			} else {
				rep.Gaps++
			}
		}
		prev, prevRec, first = d, rec, false
	}
	return rep
}
