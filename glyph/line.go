package glyph

import "image/color"

// Placement 在行内定位一个字形，X/Y 是相对行原点的笔位置。
// 附属字形（注音、泰文符号）挂在主字形上，坐标同样相对行原点。
type Placement struct {
	Glyph        *Glyph
	X, Y         float64
	Main         bool
	JustifyShift float64
	Subs         []Placement

	// Mirrored 的字形属于从右到左的文本段，输出时绕 Axis 翻转。
	Mirrored bool
	Axis     float64

	// HalfWidth 压缩行首的开标点。
	HalfWidth bool
	// Source 是字形对应的逻辑字符下标。
	Source int
}

// Box 返回相对行原点的四边形，包含对齐位移。
func (p *Placement) Box() Box {
	x := p.X + p.JustifyShift
	if p.Mirrored {
		return p.Glyph.MirroredBounds(x, p.Y, p.Axis+2*p.JustifyShift)
	}
	return p.Glyph.Bounds(x, p.Y)
}

// VisualLeft 是未加对齐位移时四边形的左缘，用于不分逻辑方向地按屏幕顺序排列字形。
func (p *Placement) VisualLeft() float64 {
	if p.Mirrored {
		return p.Glyph.MirroredBounds(p.X, p.Y, p.Axis).Left
	}
	return p.Glyph.Bounds(p.X, p.Y).Left
}

// SetShift 为字形及其全部附属字形设置相同的对齐位移。
func (p *Placement) SetShift(shift float64) {
	p.JustifyShift = shift
	for i := range p.Subs {
		p.Subs[i].SetShift(shift)
	}
}

// Count 返回包含附属字形在内的字形数。
func (p *Placement) Count() int {
	n := 1
	for i := range p.Subs {
		n += p.Subs[i].Count()
	}
	return n
}

// Emit 追加字形及其附属字形的顶点，并加上行原点偏移。
func (p *Placement) Emit(buf []Vertex, originX, originY float64, fallback color.RGBA) []Vertex {
	x := originX + p.X + p.JustifyShift
	y := originY + p.Y
	if p.Mirrored {
		// 轴相对行原点，轴移动 2*dx 时镜像后的四边形移动 dx
		buf = p.Glyph.EmitMirrored(buf, x, y, fallback, p.HalfWidth, p.Axis+2*originX+2*p.JustifyShift)
	} else {
		buf = p.Glyph.Emit(buf, x, y, fallback, p.HalfWidth)
	}
	for i := range p.Subs {
		buf = p.Subs[i].Emit(buf, originX, originY, fallback)
	}
	return buf
}

// Line 是段落中排好的一行。X 为对齐偏移，Y 为基线，均相对容器。
type Line struct {
	Placements      []Placement
	Width           float64
	X, Y            float64
	Ascent          float64
	Descent         float64
	LastInParagraph bool
	Paragraph       int
}

// Height 返回行框高度。
func (l *Line) Height() float64 { return l.Ascent + l.Descent }

// GlyphCount 统计行内包含附属字形在内的全部字形。
func (l *Line) GlyphCount() int {
	n := 0
	for i := range l.Placements {
		n += l.Placements[i].Count()
	}
	return n
}

// Emit 追加行内所有字形的顶点。
func (l *Line) Emit(buf []Vertex, fallback color.RGBA) []Vertex {
	for i := range l.Placements {
		buf = l.Placements[i].Emit(buf, l.X, l.Y, fallback)
	}
	return buf
}
