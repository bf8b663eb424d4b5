// Package xganji 提供六十甲子（干支）运算：天干、地支、柱（干支对）以及
// 月柱、时柱推算和公历日期校验。
//
// # 基本类型
//
//   - Stem：十天干，갑(0) … 계(9)
//   - Branch：十二地支，자(0) … 해(11)
//   - StemBranch：一柱，由天干和地支组成
//
// # 推算规则
//
// 月柱以节气月为准，公历月先平移：solarMonth = month<=2 ? month+10 : month-2。
//
//	月干 = (年干*2 + (solarMonth-1)/2) mod 10
//	月支 = 인 起算的第 solarMonth 个地支
//
// 时柱以两小时为一时辰，자时覆盖 23:00–01:00：
//
//	hourIndex = ((hour+1)/2) mod 12
//	时干 = ((日干 mod 5)*2 + hourIndex) mod 10
//
// 以上公式与既有数据集逐位一致，不做天文学意义上的"修正"。
//
// # 纯函数约定
//
// MonthPillar、HourPillar 不校验输入范围，范围校验由调用方（xmanse）负责。
// IsValidGregorianDate 使用公历闰年规则精确判断。
//
// # 记忆化
//
// Calculator 持有三个有界的 xexpire 子缓存，分别记忆月天数、月柱与时柱结果。
package xganji
