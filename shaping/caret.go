// Package shaping 将泰文与阿拉伯文的逻辑文本转换为可直接生成字形的簇，并保留指回源字符的光标映射。
package shaping

import (
	"errors"
	"fmt"
)

// ErrCaretMismatch 是致命的一致性错误：成形后文本段的光标单元未能恰好划分其源文本。
var ErrCaretMismatch = errors.New("caret units do not cover the source text")

// CaretUnit 将一个成形簇映射到逻辑区间 [Start, Start+Len)。
type CaretUnit struct {
	Start int `json:"start"`
	Len   int `json:"len"`
}

// End 返回区间的开区间终点。
func (c CaretUnit) End() int { return c.Start + c.Len }

// CheckCarets 校验 units 无空隙、无重叠地划分 [start, start+n)。
func CheckCarets(units []CaretUnit, start, n int) error {
	pos := start
	for i, u := range units {
		if u.Start != pos || u.Len <= 0 {
			return fmt.Errorf("%w: unit %d covers [%d,%d), expected start %d", ErrCaretMismatch, i, u.Start, u.End(), pos)
		}
		pos = u.End()
	}
	if pos != start+n {
		return fmt.Errorf("%w: covered %d of %d characters", ErrCaretMismatch, pos-start, n)
	}
	return nil
}

// CaretAt 返回包含逻辑偏移 off 的单元下标。
func CaretAt(units []CaretUnit, off int) (int, bool) {
	lo, hi := 0, len(units)
	for lo < hi {
		mid := (lo + hi) / 2
		switch u := units[mid]; {
		case off < u.Start:
			hi = mid
		case off >= u.End():
			lo = mid + 1
		default:
			return mid, true
		}
	}
	return 0, false
}
