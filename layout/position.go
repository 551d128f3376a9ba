package layout

import (
	"github.com/ByLCY/richtext/align"
	"github.com/ByLCY/richtext/glyph"
)

// 以下四个阶段只依赖 place 的结果，彼此写入不同的字段。

// lineY 计算每行基线，相对文本块顶部向下为负。
func (e *Engine) lineY() {
	cursor := 0.0
	for i := range e.lines {
		l := &e.lines[i]
		if i > 0 {
			cursor += e.leading(l.Ascent, l.Descent, e.scale)
		}
		cursor += l.Ascent
		l.Y = -cursor
		cursor += l.Descent
	}
}

func (e *Engine) containerWidth() float64 {
	if e.opts.Width > 0 {
		return e.opts.Width
	}
	w := 0.0
	for i := range e.lines {
		w = max(w, e.lines[i].Width)
	}
	return w
}

func (e *Engine) alignOf(line int) align.Alignment {
	if line < len(e.lineAligns) && e.lineAligns[line] != nil {
		return *e.lineAligns[line]
	}
	return e.opts.Align
}

func (e *Engine) paragraphX() {
	container := e.containerWidth()
	for i := range e.lines {
		align.Apply(&e.lines[i], e.alignOf(i), e.opts.Strategy, container)
	}
}

func (e *Engine) visibleRange() {
	e.visible = e.textLen
	if e.maxVisible >= 0 && e.maxVisible < e.textLen {
		e.visible = e.maxVisible
	}
}

// verticalOffset 决定文本块顶部在容器中的 Y 坐标。
func (e *Engine) verticalOffset() {
	h := e.opts.Height
	if h <= 0 {
		e.yOffset = e.blockHeight
		return
	}
	switch e.opts.VAlign {
	case Middle:
		e.yOffset = h - (h-e.blockHeight)/2
	case Bottom:
		e.yOffset = e.blockHeight
	default:
		e.yOffset = h
	}
}

func (e *Engine) inlineImages() {
	e.images = nil
	for i := range e.lines {
		l := &e.lines[i]
		for j := range l.Placements {
			p := &l.Placements[j]
			if p.Glyph.Kind != glyph.ImageKind || p.Source >= e.visible {
				continue
			}
			b := p.Box()
			e.images = append(e.images, ImageBox{
				ID:     p.Glyph.Image.ID,
				X:      l.X + b.Left,
				Y:      l.Y + e.yOffset + b.Bottom,
				Width:  b.Right - b.Left,
				Height: b.Top - b.Bottom,
				UV:     p.Glyph.UV,
				Source: p.Source,
			})
		}
	}
}

// emitVertices 为可见字形生成顶点，quads[i] 记录第 i 个四边形对应的字形。
func (e *Engine) emitVertices() {
	e.verts, e.quads = e.verts[:0], e.quads[:0]
	all := e.visible >= e.textLen
	for i := range e.lines {
		l := e.lines[i]
		l.Y += e.yOffset
		if all {
			e.verts = l.Emit(e.verts, e.opts.Color)
			for j := range l.Placements {
				e.quads = collectGlyphs(e.quads, &l.Placements[j])
			}
			continue
		}
		for j := range l.Placements {
			p := &l.Placements[j]
			if p.Source >= e.visible {
				continue
			}
			e.verts = p.Emit(e.verts, l.X, l.Y, e.opts.Color)
			e.quads = collectGlyphs(e.quads, p)
		}
	}
}

// collectGlyphs 按 Placement.Emit 的顺序收集字形。
func collectGlyphs(dst []*glyph.Glyph, p *glyph.Placement) []*glyph.Glyph {
	dst = append(dst, p.Glyph)
	for i := range p.Subs {
		dst = collectGlyphs(dst, &p.Subs[i])
	}
	return dst
}

// updateUV 从图集读取字体字形的纹理坐标并改写已生成的顶点。
func (e *Engine) updateUV() {
	if e.opts.Atlas == nil {
		return
	}
	missing := 0
	for q, g := range e.quads {
		if g.Kind != glyph.FontKind {
			continue
		}
		uv, ok := e.opts.Atlas.GlyphUV(g.Char, g.Font.Spec)
		if !ok {
			if !g.IsWhitespaceOrControl() {
				missing++
			}
			continue
		}
		g.UV = uv
		g.ApplyUV(e.verts[4*q : 4*q+4])
	}
	if missing > 0 {
		e.log.Warn("layout: 图集缺少字形", "missing", missing)
	}
}

func (e *Engine) render() error {
	e.frame = e.buildFrame()
	if e.opts.Render != nil {
		return e.opts.Render(e.frame)
	}
	return nil
}

func (e *Engine) buildFrame() *Frame {
	f := &Frame{
		Width:    e.containerWidth(),
		Height:   max(e.opts.Height, e.blockHeight),
		Scale:    e.scale,
		Visible:  e.visible,
		Images:   append([]ImageBox(nil), e.images...),
		Carets:   append(e.carets[:0:0], e.carets...),
		Vertices: append([]glyph.Vertex(nil), e.verts...),
	}
	for i := range e.lines {
		l := &e.lines[i]
		box := LineBox{
			X:         l.X,
			Y:         l.Y + e.yOffset,
			Width:     l.Width,
			Ascent:    l.Ascent,
			Descent:   l.Descent,
			Align:     e.alignOf(i).String(),
			Paragraph: l.Paragraph,
			Last:      l.LastInParagraph,
		}
		for j := range l.Placements {
			p := &l.Placements[j]
			if p.Source >= e.visible {
				continue
			}
			box.Glyphs = e.appendGlyphBoxes(box.Glyphs, p, box.X, box.Y, false)
		}
		f.Lines = append(f.Lines, box)
	}
	return f
}

func (e *Engine) appendGlyphBoxes(dst []GlyphBox, p *glyph.Placement, x, y float64, sub bool) []GlyphBox {
	g := p.Glyph
	b := p.Box()
	if p.HalfWidth {
		shift := (b.Right - b.Left) / 2
		b.Left -= shift
		b.Right -= shift
	}
	gb := GlyphBox{
		Char:     string(g.VisibleChar()),
		Left:     x + b.Left,
		Bottom:   y + b.Bottom,
		Right:    x + b.Right,
		Top:      y + b.Top,
		Origin:   x + b.Left - g.InkOffset(),
		Baseline: y + p.Y,
		Color:    colorOf(e.opts.Color),
		Source:   p.Source,
		Sub:      sub,
	}
	switch g.Kind {
	case glyph.FontKind:
		gb.Font = g.Font.Spec
		if g.Font.Color != nil {
			gb.Color = colorOf(*g.Font.Color)
		}
	case glyph.ImageKind:
		gb.Image = g.Image.ID
	}
	dst = append(dst, gb)
	for i := range p.Subs {
		dst = e.appendGlyphBoxes(dst, &p.Subs[i], x, y, true)
	}
	return dst
}
