package xganji

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// 周期长度。
const (
	StemCount   = 10
	BranchCount = 12
	CycleLength = 60 // lcm(10, 12)
)

// Stem 天干，取值 0..9。
type Stem int

// 十天干。
const (
	Gap Stem = iota
	Eul
	Byeong
	Jeong
	Mu
	Gi
	Gyeong
	Sin
	Im
	Gye
)

// Branch 地支，取值 0..11，자 为 0。
type Branch int

// 十二地支。
const (
	Ja Branch = iota
	Chuk
	In
	Myo
	Jin
	Sa
	O
	Mi
	Shin
	Yu
	Sul
	Hae
)

// Element 五行。
type Element int

// 五行。
const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

var (
	stemNames   = [StemCount]string{"갑", "을", "병", "정", "무", "기", "경", "신", "임", "계"}
	stemHanja   = [StemCount]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
	branchNames = [BranchCount]string{"자", "축", "인", "묘", "진", "사", "오", "미", "신", "유", "술", "해"}
	branchHanja = [BranchCount]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

	branchAnimals = [BranchCount]string{"쥐", "소", "호랑이", "토끼", "용", "뱀", "말", "양", "원숭이", "닭", "개", "돼지"}
	elementNames  = [...]string{"목", "화", "토", "금", "수"}

	branchElements = [BranchCount]Element{Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water}

	stemIndex   = buildIndex(stemNames[:], stemHanja[:])
	branchIndex = buildIndex(branchNames[:], branchHanja[:])
)

func buildIndex(names ...[]string) map[string]int {
	m := make(map[string]int, len(names)*len(names[0]))
	for _, list := range names {
		for i, n := range list {
			m[n] = i
		}
	}
	return m
}

// Valid 判断天干是否在 0..9 范围内。
func (s Stem) Valid() bool { return s >= 0 && s < StemCount }

// String 返回天干的韩文音节，非法值返回 "Stem(n)"。
func (s Stem) String() string {
	if !s.Valid() {
		return "Stem(" + strconv.Itoa(int(s)) + ")"
	}
	return stemNames[s]
}

// Hanja 返回天干的汉字写法。
func (s Stem) Hanja() string {
	if !s.Valid() {
		return ""
	}
	return stemHanja[s]
}

// Element 返回天干所属五行。
func (s Stem) Element() Element { return Element(mod(int(s), StemCount) / 2) }

// IsYang 判断天干是否为阳干。
func (s Stem) IsYang() bool { return mod(int(s), 2) == 0 }

// Valid 判断地支是否在 0..11 范围内。
func (b Branch) Valid() bool { return b >= 0 && b < BranchCount }

// String 返回地支的韩文音节，非法值返回 "Branch(n)"。
func (b Branch) String() string {
	if !b.Valid() {
		return "Branch(" + strconv.Itoa(int(b)) + ")"
	}
	return branchNames[b]
}

// Hanja 返回地支的汉字写法。
func (b Branch) Hanja() string {
	if !b.Valid() {
		return ""
	}
	return branchHanja[b]
}

// Animal 返回地支对应的生肖。
func (b Branch) Animal() string { return branchAnimals[mod(int(b), BranchCount)] }

// Element 返回地支所属五行。
func (b Branch) Element() Element { return branchElements[mod(int(b), BranchCount)] }

// String 返回五行名称。
func (e Element) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return "Element(" + strconv.Itoa(int(e)) + ")"
	}
	return elementNames[e]
}

// ParseStem 解析天干，支持韩文音节与汉字。
func ParseStem(s string) (Stem, error) {
	i, ok := stemIndex[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStem, s)
	}
	return Stem(i), nil
}

// ParseBranch 解析地支，支持韩文音节与汉字。
func ParseBranch(s string) (Branch, error) {
	i, ok := branchIndex[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBranch, s)
	}
	return Branch(i), nil
}

// StemBranch 一柱（干支对）。
type StemBranch struct {
	Stem   Stem
	Branch Branch
}

// FromIndex 返回六十甲子中第 i 个干支（i 按 60 取模）。
func FromIndex(i int) StemBranch {
	i = mod(i, CycleLength)
	return StemBranch{Stem: Stem(i % StemCount), Branch: Branch(i % BranchCount)}
}

// ParseStemBranch 解析两字干支，如 "갑자" 或 "甲子"。
func ParseStemBranch(s string) (StemBranch, error) {
	if utf8.RuneCountInString(s) != 2 {
		return StemBranch{}, fmt.Errorf("%w: %q", ErrInvalidPillar, s)
	}
	_, size := utf8.DecodeRuneInString(s)
	stem, err := ParseStem(s[:size])
	if err != nil {
		return StemBranch{}, err
	}
	branch, err := ParseBranch(s[size:])
	if err != nil {
		return StemBranch{}, err
	}
	return StemBranch{Stem: stem, Branch: branch}, nil
}

// String 返回韩文干支，如 "갑자"。
func (p StemBranch) String() string { return p.Stem.String() + p.Branch.String() }

// Hanja 返回汉字干支，如 "甲子"。
func (p StemBranch) Hanja() string { return p.Stem.Hanja() + p.Branch.Hanja() }

// InRange 判断天干、地支索引均在合法范围内。
func (p StemBranch) InRange() bool { return p.Stem.Valid() && p.Branch.Valid() }

// Canonical 判断干支是否为六十甲子之一（干支阴阳一致）。
func (p StemBranch) Canonical() bool {
	return p.InRange() && int(p.Stem)%2 == int(p.Branch)%2
}

// Index 返回干支在六十甲子中的序号 0..59；非六十甲子组合返回 -1。
func (p StemBranch) Index() int {
	if !p.Canonical() {
		return -1
	}
	return mod(6*int(p.Stem)-5*int(p.Branch), CycleLength)
}

// MarshalText 以韩文干支序列化。
func (p StemBranch) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText 从韩文或汉字干支反序列化。
func (p *StemBranch) UnmarshalText(data []byte) error {
	parsed, err := ParseStemBranch(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
