package xganji

// 公历日期校验与月柱、时柱推算。均为纯函数，不校验取值范围。

// IsLeapYear 判断公历闰年：能被 4 整除且不能被 100 整除，或能被 400 整除。
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn 返回公历 year 年 month 月的天数；month 不在 1..12 时返回 0。
func DaysIn(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthDays[month-1]
}

// IsValidGregorianDate 判断 (year, month, day) 是否为真实存在的公历日期。
func IsValidGregorianDate(year, month, day int) bool {
	return day >= 1 && day <= DaysIn(year, month)
}

// SolarMonth 将公历月平移为节气月序号 1..12（1 为 인 月，约始于立春）。
func SolarMonth(month int) int {
	if month <= 2 {
		return month + 10
	}
	return month - 2
}

// MonthPillar 由公历月与年干推算月柱。
func MonthPillar(month int, yearStem Stem) StemBranch {
	solar := SolarMonth(month)
	stem := mod(int(yearStem)*2+(solar-1)/2, StemCount)
	// 月支从 인 起算，인 在 자 序中位于 2
	branch := mod(solar-1+int(In), BranchCount)
	return StemBranch{Stem: Stem(stem), Branch: Branch(branch)}
}

// HourBranch 返回小时（0..23）所属时辰的地支，23 点归入次日 자 时。
func HourBranch(hour int) Branch {
	return Branch(mod((hour+1)/2, BranchCount))
}

// HourPillar 由小时与日干推算时柱。
func HourPillar(hour int, dayStem Stem) StemBranch {
	idx := int(HourBranch(hour))
	start := mod(int(dayStem), 5) * 2
	return StemBranch{Stem: Stem(mod(start+idx, StemCount)), Branch: Branch(idx)}
}
