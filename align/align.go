// Package align 计算行的水平偏移与两端对齐时的字形位移。
package align

import (
	"fmt"
	"strings"
)

// Alignment 是段落的水平对齐方式。
type Alignment uint8

const (
	Left Alignment = iota
	Center
	Right
	// Justify 分配剩余宽度，段落末行除外。
	Justify
	// JustifyAll 末行同样分配。
	JustifyAll
)

var alignmentNames = [...]string{"left", "center", "right", "justify", "justify-all"}

func (a Alignment) String() string {
	if int(a) < len(alignmentNames) {
		return alignmentNames[a]
	}
	return fmt.Sprintf("Alignment(%d)", a)
}

// Justified 报告 a 是否在分词单元之间分配宽度。
func (a Alignment) Justified() bool { return a == Justify || a == JustifyAll }

// Parse 解析对齐名称，start/end 分别等同 left/right。
func Parse(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start":
		return Left, nil
	case "center", "centre":
		return Center, nil
	case "right", "end":
		return Right, nil
	case "justify":
		return Justify, nil
	case "justify-all", "justifyall":
		return JustifyAll, nil
	}
	return Left, fmt.Errorf("unknown alignment %q", s)
}

// Strategy 决定两端对齐的行如何切分为分词单元。
type Strategy uint8

const (
	// InterCharacter 每个非空白字形自成一个单元。
	InterCharacter Strategy = iota
	// InterWord 在空白处切分。
	InterWord
	// Auto 在空白处以及字母数字与其他字符的边界处切分。
	Auto
)

var strategyNames = [...]string{"inter-character", "inter-word", "auto"}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", s)
}

// ParseStrategy 解析策略名称。
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inter-character", "character", "char":
		return InterCharacter, nil
	case "inter-word", "word":
		return InterWord, nil
	case "auto", "":
		return Auto, nil
	}
	return Auto, fmt.Errorf("unknown justify strategy %q", s)
}

// Offset 返回宽度为 lineWidth 的行在容器内的 X。
// 两端对齐的行从 0 开始。
func Offset(a Alignment, container, lineWidth float64) float64 {
	switch a {
	case Center:
		return (container - lineWidth) / 2
	case Right:
		return container - lineWidth
	default:
		return 0
	}
}
