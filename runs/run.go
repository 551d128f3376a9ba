package runs

import (
	"errors"
	"image/color"
	"strings"

	"github.com/ByLCY/richtext/align"
	"github.com/ByLCY/richtext/glyph"
)

var (
	// ErrLineBreakInCharacters 表示 Characters 中出现了换行。
	ErrLineBreakInCharacters = errors.New("characters run cannot contain a line break")
	// ErrEndOfSource 表示越过最后一个文本段继续前进。
	ErrEndOfSource = errors.New("pointer is at end of source")
	// ErrStartOfSource 表示在第一个文本段之前继续后退。
	ErrStartOfSource = errors.New("pointer is at start of source")
)

// Kind 标识 Run 的具体类型。
type Kind uint8

const (
	CharactersKind Kind = iota
	RubyKind
	ModifierKind
	AlignKind
	LineBreakKind
	ImageKind
)

var kindNames = [...]string{"Characters", "Ruby", "Modifier", "Align", "LineBreak", "Image"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Run 是展平文本中的一个元素：Characters、RubyGroup、Modifier、AlignModifier、LineBreak 或 InlineImage。
type Run interface {
	Kind() Kind
	// Len 是可读位置数，修饰符与换行长度为 0。
	Len() int
	// At 返回位置 i < Len() 处的字符。
	At(i int) rune
	isRun()
}

// Characters 是不含换行的一段码位。
type Characters struct {
	runes []rune
}

// NewCharacters 包装 text，含换行时报错。
func NewCharacters(text string) (Characters, error) {
	if IsLineBreak(text) {
		return Characters{}, ErrLineBreakInCharacters
	}
	return Characters{runes: []rune(text)}, nil
}

// IsLineBreak 报告 s 是否包含结束段落的字符。
func IsLineBreak(s string) bool {
	return strings.ContainsAny(s, "\n\r\u2028\u2029")
}

func (c Characters) Kind() Kind { return CharactersKind }
func (c Characters) Len() int { return len(c.runes) }
func (c Characters) At(i int) rune { return c.runes[i] }
func (c Characters) Text() string { return string(c.runes) }
func (c Characters) Runes() []rune { return c.runes }
func (Characters) isRun() {}
func (c Characters) String() string { return c.Text() }

// RubyGroup 是带注音的基文本，注音绘制在其上方。
type RubyGroup struct {
	Base       []rune
	Annotation []rune
}

// NewRubyGroup 创建注音组，两部分都不能包含换行。
func NewRubyGroup(base, annotation string) (RubyGroup, error) {
	if IsLineBreak(base) || IsLineBreak(annotation) {
		return RubyGroup{}, ErrLineBreakInCharacters
	}
	return RubyGroup{Base: []rune(base), Annotation: []rune(annotation)}, nil
}

func (r RubyGroup) Kind() Kind { return RubyKind }
func (r RubyGroup) Len() int { return len(r.Base) }
func (r RubyGroup) At(i int) rune { return r.Base[i] }
func (RubyGroup) isRun() {}

// Case 是大小写变换。
type Case uint8

const (
	CaseNone Case = iota
	CaseUpper
	CaseLower
	CaseSmallCaps
)

// ColorChange 设置字形颜色，Override 为 nil 时恢复默认颜色。
type ColorChange struct {
	Override *color.RGBA
}

// RubyStyle 是注音样式。Size 为 0 时使用默认注音比例，Color 为 nil 时沿用基文本颜色。
type RubyStyle struct {
	Size  float64
	Color *color.RGBA
}

// Modifier 是长度为 0 的格式变化。nil 字段不改变对应属性，FontSize 0 与 Font "" 恢复默认值。
type Modifier struct {
	Spacing  *float64
	FontSize *float64
	Style    *glyph.FontStyle
	Color    *ColorChange
	Case     *Case
	Ruby     *RubyStyle
	Font     *string
}

func (Modifier) Kind() Kind { return ModifierKind }
func (Modifier) Len() int { return 0 }
func (Modifier) At(int) rune { panic("runs: modifier has no characters") }
func (Modifier) isRun() {}

// Empty 报告修饰符是否不做任何修改。
func (m Modifier) Empty() bool {
	return m.Spacing == nil && m.FontSize == nil && m.Style == nil && m.Color == nil &&
		m.Case == nil && m.Ruby == nil && m.Font == nil
}

// AlignModifier 从此处起切换段落对齐方式，Reset 恢复引擎默认值。
type AlignModifier struct {
	Alignment align.Alignment
	Reset     bool
}

func (AlignModifier) Kind() Kind { return AlignKind }
func (AlignModifier) Len() int { return 0 }
func (AlignModifier) At(int) rune { panic("runs: align modifier has no characters") }
func (AlignModifier) isRun() {}

// LineBreak 结束当前段落。
type LineBreak struct{}

func (LineBreak) Kind() Kind { return LineBreakKind }
func (LineBreak) Len() int { return 0 }
func (LineBreak) At(int) rune { panic("runs: line break has no characters") }
func (LineBreak) isRun() {}

// InlineImage 在文字流中放置图片。Width 或 Height 为 0 时取图片源报告的尺寸，单位 pt。
type InlineImage struct {
	ID     string
	Width  float64
	Height float64
	Offset float64
}

func (InlineImage) Kind() Kind { return ImageKind }
func (InlineImage) Len() int { return 1 }
func (InlineImage) At(int) rune { return glyph.Placeholder }
func (InlineImage) isRun() {}

// Text 拼接 runs 中的可读字符。
func Text(rs []Run) string {
	var sb strings.Builder
	for _, r := range rs {
		for i := range r.Len() {
			sb.WriteRune(r.At(i))
		}
	}
	return sb.String()
}
