package glyph

import (
	"image/color"
	"unicode"
)

// Kind 决定 Glyph 携带哪一种数据。
type Kind uint8

const (
	FontKind Kind = iota
	ImageKind
)

func (k Kind) String() string {
	if k == ImageKind {
		return "Image"
	}
	return "Font"
}

// Placeholder 是内联图片字形报告的字符。
const Placeholder = '\uFFFC'

// Glyph 是有尺寸的可渲染单元：字体字符或内联图片。
// Width/Height 为未缩放的四边形尺寸，Advance 为笔位前进量。
type Glyph struct {
	Kind    Kind
	Char    rune
	Width   float64
	Height  float64
	Advance float64
	UV      UVRect

	Font  FontData  // Kind == FontKind 时有效
	Image ImageData // Kind == ImageKind 时有效
}

// FontData 是字体字形的数据。
type FontData struct {
	Spec FontSpec
	// Color 非空时覆盖调用方提供的默认颜色。
	Color   *color.RGBA
	HScale  float64
	Bearing float64
	YOffset float64
}

// ImageData 是内联图片的数据。
type ImageData struct {
	ID             string
	VerticalOffset float64
}

// NewFont 由字体度量创建字体字形。
func NewFont(r rune, spec FontSpec, m Metrics) Glyph {
	return Glyph{
		Kind:    FontKind,
		Char:    r,
		Width:   m.Width,
		Height:  m.Height,
		Advance: m.Advance,
		Font: FontData{
			Spec:    spec,
			HScale:  1,
			Bearing: m.Bearing,
			YOffset: m.YOffset,
		},
	}
}

// NewImage 创建内联图片字形。
func NewImage(id string, width, height, offset float64) Glyph {
	return Glyph{
		Kind:    ImageKind,
		Char:    Placeholder,
		Width:   width,
		Height:  height,
		Advance: width,
		Image:   ImageData{ID: id, VerticalOffset: offset},
	}
}

// VisibleChar 返回字形显示的字符，图片返回 Placeholder。
func (g *Glyph) VisibleChar() rune {
	if g.Kind == ImageKind {
		return Placeholder
	}
	return g.Char
}

// IsWhitespaceOrControl 报告字形本身是否不绘制任何内容。
func (g *Glyph) IsWhitespaceOrControl() bool {
	if g.Kind == ImageKind {
		return false
	}
	return unicode.IsSpace(g.Char) || unicode.IsControl(g.Char)
}

// FontSpec 返回字体字形所属的字体面。
func (g *Glyph) FontSpec() (FontSpec, bool) {
	if g.Kind != FontKind {
		return FontSpec{}, false
	}
	return g.Font.Spec, true
}

func (g *Glyph) hscale() float64 {
	if g.Kind != FontKind || g.Font.HScale == 0 {
		return 1
	}
	return g.Font.HScale
}

// InkOffset 是笔位置到四边形左缘的距离。
func (g *Glyph) InkOffset() float64 {
	if g.Kind != FontKind {
		return 0
	}
	return g.Font.Bearing * g.hscale()
}

// RightBearingDiff 是字形绕轴镜像时的修正量：(bearing + width - advance + bearing) * 水平缩放。
func (g *Glyph) RightBearingDiff() float64 {
	if g.Kind != FontKind {
		return 0
	}
	b := g.Font.Bearing
	return (b + g.Width - g.Advance + b) * g.hscale()
}

// Scaled 返回所有度量乘以 f 后的副本。
func (g Glyph) Scaled(f float64) Glyph {
	g.Width *= f
	g.Height *= f
	g.Advance *= f
	switch g.Kind {
	case FontKind:
		g.Font.Spec.Size *= f
		g.Font.Bearing *= f
		g.Font.YOffset *= f
	case ImageKind:
		g.Image.VerticalOffset *= f
	}
	return g
}

// Point 是二维坐标，Y 轴向上。
type Point struct{ X, Y float64 }

// Box 是轴对齐的四边形。
type Box struct {
	Left, Bottom, Right, Top float64
}

// Corners 依次返回左下、左上、右上、右下。
func (b Box) Corners() [4]Point {
	return [4]Point{{b.Left, b.Bottom}, {b.Left, b.Top}, {b.Right, b.Top}, {b.Right, b.Bottom}}
}

// Bounds 返回笔位置在 (x, y) 时字形的四边形。
func (g *Glyph) Bounds(x, y float64) Box {
	switch g.Kind {
	case ImageKind:
		bottom := y + g.Image.VerticalOffset
		return Box{Left: x, Bottom: bottom, Right: x + g.Width, Top: bottom + g.Height}
	default:
		s := g.hscale()
		left := x + g.Font.Bearing*s
		bottom := y + g.Font.YOffset
		return Box{Left: left, Bottom: bottom, Right: left + g.Width*s, Top: bottom + g.Height}
	}
}

// MirroredBounds 返回绕 axis 镜像后的四边形。以四边形左缘为 position，
// 每条边为 -(position + offset - rightBearingDiff) + axis，原右缘（偏移为宽度）成为新的左缘。
func (g *Glyph) MirroredBounds(x, y, axis float64) Box {
	b := g.Bounds(x, y)
	rbd := g.RightBearingDiff()
	w := b.Right - b.Left
	return Box{
		Left:   -(b.Left + w - rbd) + axis,
		Bottom: b.Bottom,
		Right:  -(b.Left - rbd) + axis,
		Top:    b.Top,
	}
}
