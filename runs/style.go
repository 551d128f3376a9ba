package runs

import (
	"image/color"

	"github.com/ByLCY/richtext/glyph"
)

// Style 是文本段序列某一位置上生效的格式状态。
type Style struct {
	Spacing  float64
	FontSize float64 // 0 表示默认字号
	Flags    glyph.FontStyle
	Color    *color.RGBA
	Case     Case
	Ruby     RubyStyle
	Font     string // "" 表示默认字体族
}

// Apply 返回应用 m 之后的 s。
func (s Style) Apply(m Modifier) Style {
	if m.Spacing != nil {
		s.Spacing = *m.Spacing
	}
	if m.FontSize != nil {
		s.FontSize = *m.FontSize
	}
	if m.Style != nil {
		s.Flags = *m.Style
	}
	if m.Color != nil {
		s.Color = m.Color.Override
	}
	if m.Case != nil {
		s.Case = *m.Case
	}
	if m.Ruby != nil {
		s.Ruby = *m.Ruby
	}
	if m.Font != nil {
		s.Font = *m.Font
	}
	return s
}

// Diff 返回把 s 变为 to 的修饰符。
func (s Style) Diff(to Style) Modifier {
	var m Modifier
	if s.Spacing != to.Spacing {
		m.Spacing = ptr(to.Spacing)
	}
	if s.FontSize != to.FontSize {
		m.FontSize = ptr(to.FontSize)
	}
	if s.Flags != to.Flags {
		m.Style = ptr(to.Flags)
	}
	if !sameColor(s.Color, to.Color) {
		m.Color = &ColorChange{Override: to.Color}
	}
	if s.Case != to.Case {
		m.Case = ptr(to.Case)
	}
	if s.Ruby.Size != to.Ruby.Size || !sameColor(s.Ruby.Color, to.Ruby.Color) {
		m.Ruby = ptr(to.Ruby)
	}
	if s.Font != to.Font {
		m.Font = ptr(to.Font)
	}
	return m
}

func sameColor(a, b *color.RGBA) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func ptr[T any](v T) *T { return &v }
