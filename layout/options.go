package layout

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ByLCY/richtext/align"
	"github.com/ByLCY/richtext/glyph"
	"github.com/ByLCY/richtext/runs"
)

// VerticalAlign 决定文本块在容器内的垂直位置。
type VerticalAlign uint8

const (
	Top VerticalAlign = iota
	Middle
	Bottom
)

func (v VerticalAlign) String() string {
	switch v {
	case Middle:
		return "middle"
	case Bottom:
		return "bottom"
	default:
		return "top"
	}
}

// ParseVerticalAlign 解析 top/middle/bottom。
func ParseVerticalAlign(s string) (VerticalAlign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "":
		return Top, nil
	case "middle", "center":
		return Middle, nil
	case "bottom":
		return Bottom, nil
	}
	return Top, fmt.Errorf("未知的垂直对齐方式 %q", s)
}

// Wrap 控制换行策略，取值与 CSS 的 white-space/word-break 大致对应。
type Wrap uint8

const (
	// WrapNormal 优先在空白处断行，过长的词按字形拆分。
	WrapNormal Wrap = iota
	// WrapNone 只在显式换行处断行。
	WrapNone
	// WrapBreakWord 忽略空白，纯按宽度拆分。
	WrapBreakWord
)

// ParseWrap 解析 normal/nowrap/break-word。
func ParseWrap(s string) (Wrap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "anywhere", "":
		return WrapNormal, nil
	case "nowrap":
		return WrapNone, nil
	case "break-word":
		return WrapBreakWord, nil
	}
	return WrapNormal, fmt.Errorf("未知的换行方式 %q", s)
}

// Options 配置一个布局引擎。所有长度单位均为 pt，坐标 Y 轴向上。
type Options struct {
	// Width/Height 为容器尺寸，<= 0 表示该方向不受限制。
	Width  float64
	Height float64

	Font       glyph.FontSpec
	Color      color.RGBA
	Align      align.Alignment
	Strategy   align.Strategy
	VAlign     VerticalAlign
	Wrap       Wrap
	LineHeight runs.LineHeightSpec

	// AutoSize 开启后在文本超出容器高度时逐步缩小字号。
	AutoSize   bool
	MinScale   float64 // 默认 0.5
	ShrinkStep float64 // 默认 0.05

	// RubyScale 为注音相对基字的字号比例，默认 0.5。
	RubyScale float64

	// MaxVisible 限制可见的逻辑字符数（打字机效果），<= 0 表示全部可见。
	MaxVisible int

	// CompressPunctuation 将行首的全角开括号压缩为半宽。
	CompressPunctuation bool

	Fonts  glyph.FontSource  // 必填
	Atlas  glyph.Atlas       // 可选，提供纹理坐标
	Images glyph.ImageSource // 可选，解析内联图片
	// Render 在 render 阶段被调用，用于把结果交给宿主绘制。
	Render func(*Frame) error
}

const (
	defaultFontSize   = 12
	defaultMinScale   = 0.5
	defaultShrinkStep = 0.05
	defaultRubyScale  = 0.5
)

func (o Options) withDefaults() Options {
	if o.Font.Size <= 0 {
		o.Font.Size = defaultFontSize
	}
	if o.MinScale <= 0 || o.MinScale > 1 {
		o.MinScale = defaultMinScale
	}
	if o.ShrinkStep <= 0 {
		o.ShrinkStep = defaultShrinkStep
	}
	if o.RubyScale <= 0 {
		o.RubyScale = defaultRubyScale
	}
	if o.Color == (color.RGBA{}) {
		o.Color = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	}
	return o
}
