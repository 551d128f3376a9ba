package runs

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// 本文件定义标记属性使用的带单位长度，布局内部统一使用 pt。

// Unit 表示标记中书写的长度原始单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位数值，按 pt 处理
	UnitMM               // 毫米
	UnitCM               // 厘米
	UnitIN               // 英寸
	UnitPT               // 磅
)

// pt 与 mm 之间的换算常量。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length 保存数值及其单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPT 将长度换算为 pt。
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

// ParseLength 解析 "12"、"12pt"、"4.5mm"、"1cm" 或 "0.5in"。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	unit := UnitNone
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !finite(f) {
		return Length{}, fmt.Errorf("invalid length %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// finite 拒绝 NaN 与 Inf，strconv 会把它们当作数字接受。
func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// LineHeightKind 区分倍数行高与绝对行高。
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec 是字体行高的倍数（1.2x）或绝对长度（18pt）。
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// Resolve 返回自然行高为 natural 的字体对应的行距（pt）。
func (s LineHeightSpec) Resolve(natural float64) float64 {
	switch s.Kind {
	case LineHeightAbsolute:
		return s.Len.ToPT()
	default:
		if s.Factor <= 0 {
			return natural
		}
		return natural * s.Factor
	}
}

// ParseLineHeight 将 "1.2x" 解析为倍数，其余按 Length 解析。
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if num, ok := strings.CutSuffix(v, "x"); ok {
		f, err := strconv.ParseFloat(num, 64)
		if err != nil || !finite(f) || f <= 0 {
			return LineHeightSpec{}, fmt.Errorf("invalid line height %q", value)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}

// ParseColor 解析 #rgb、#rrggbb 与 #rrggbbaa。书写的数值为非预乘 alpha，
// 返回值与所有 color.RGBA 一样是预乘的。
func ParseColor(value string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(value), "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("color %q must start with #", value)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q has invalid length", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q is not hexadecimal", value)
	}
	n := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}
