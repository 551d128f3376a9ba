package layout

import (
	"github.com/ByLCY/richtext/glyph"
)

// lineSpan 是一行在段落 units 中的下标区间。
type lineSpan struct{ start, end int }

// token 是贪心换行的最小单位：一个词、一段空白或一个宽字符。
type token struct {
	start, end int
	space      bool
}

func tokenize(units []unit, mode Wrap) []token {
	var out []token
	for i, u := range units {
		if n := len(out); n > 0 && mode != WrapBreakWord {
			last := &out[n-1]
			if last.space == u.space && (u.space || (!u.wide && !units[i-1].wide)) {
				last.end = i + 1
				continue
			}
		}
		out = append(out, token{start: i, end: i + 1, space: u.space})
	}
	return out
}

// wrapUnits 用贪心算法把段落拆成不超过 limit 的行。行尾空白不计入宽度，
// 超过 limit 的词按单元拆分。limit <= 0 表示不限宽。
func wrapUnits(units []unit, limit, scale float64, mode Wrap) []lineSpan {
	if limit <= 0 || mode == WrapNone || len(units) == 0 {
		return []lineSpan{{0, len(units)}}
	}
	var (
		lines []lineSpan
		start int
		width float64
	)
	breakBefore := func(i int) {
		lines = append(lines, lineSpan{start, i})
		start, width = i, 0
	}
	for _, tok := range tokenize(units, mode) {
		w := 0.0
		for _, u := range units[tok.start:tok.end] {
			w += u.width * scale
		}
		if tok.space {
			// 空白挂在行尾，不触发换行
			width += w
			continue
		}
		if width > 0 && width+w > limit {
			breakBefore(tok.start)
		}
		if w <= limit {
			width += w
			continue
		}
		for i := tok.start; i < tok.end; i++ {
			uw := units[i].width * scale
			if width > 0 && width+uw > limit {
				breakBefore(i)
			}
			width += uw
		}
	}
	return append(lines, lineSpan{start, len(units)})
}

// leading 返回行前的额外间距，由行高设置决定。
func (e *Engine) leading(asc, desc, scale float64) float64 {
	natural := asc + desc
	target := e.opts.LineHeight.Resolve(natural/scale) * scale
	return max(target-natural, 0)
}

// wrapAll 以给定缩放比例换行全部段落，并返回文本块总高度。
func (e *Engine) wrapAll(scale float64) ([][]lineSpan, float64) {
	all := make([][]lineSpan, 0, len(e.glyphs))
	height := 0.0
	first := true
	for i := range e.glyphs {
		p := &e.glyphs[i]
		spans := wrapUnits(p.units, e.opts.Width, scale, e.opts.Wrap)
		for _, sp := range spans {
			asc, desc := p.lineMetrics(sp, scale)
			if !first {
				height += e.leading(asc, desc, scale)
			}
			height += asc + desc
			first = false
		}
		all = append(all, spans)
	}
	return all, height
}

// fit 在开启 AutoSize 时逐步缩小比例，直到文本块放得下或到达最小比例。
func (e *Engine) fit() {
	e.scale = 1
	if !e.opts.AutoSize || e.opts.Height <= 0 {
		return
	}
	for step := 0; ; step++ {
		s := 1 - float64(step)*e.opts.ShrinkStep
		if s <= e.opts.MinScale {
			e.scale = e.opts.MinScale
			break
		}
		if _, h := e.wrapAll(s); h <= e.opts.Height {
			e.scale = s
			break
		}
	}
	e.log.Debug("layout: 自动缩放", "scale", e.scale)
}

func (e *Engine) place() {
	spans, height := e.wrapAll(e.scale)
	e.blockHeight = height
	e.lines, e.lineAligns = nil, nil
	for pi := range e.glyphs {
		p := &e.glyphs[pi]
		for li, sp := range spans[pi] {
			line := e.buildLine(p, sp)
			line.Paragraph = pi
			line.LastInParagraph = li == len(spans[pi])-1
			e.lines = append(e.lines, line)
			e.lineAligns = append(e.lineAligns, p.align)
		}
	}
	e.log.Debug("layout: 排版完成", "paragraphs", len(e.glyphs), "lines", len(e.lines), "height", height)
}

// buildLine 把一行的单元放到笔位置上。连续的 RTL 单元先从左到右排列，
// 再整体绕 axis = 2*起点 + 段宽 镜像。
func (e *Engine) buildLine(p *paraGlyphs, sp lineSpan) glyph.Line {
	s := e.scale
	units := p.units[sp.start:sp.end]
	var line glyph.Line
	line.Ascent, line.Descent = p.lineMetrics(sp, s)
	pen := 0.0
	for i := 0; i < len(units); {
		u := &units[i]
		if !u.rtl {
			half := i == 0 && e.opts.CompressPunctuation && u.opening
			line.Placements = appendUnit(line.Placements, u, pen, s, false, 0, half)
			pen += u.width * s
			if half {
				pen -= u.mains[0].g.Width * s / 2
			}
			i++
			continue
		}
		j, groupWidth := i, 0.0
		for j < len(units) && units[j].rtl && units[j].seg == u.seg {
			groupWidth += units[j].width * s
			j++
		}
		axis := 2*pen + groupWidth
		for k := i; k < j; k++ {
			line.Placements = appendUnit(line.Placements, &units[k], pen, s, true, axis, false)
			pen += units[k].width * s
		}
		i = j
	}
	for k := len(units) - 1; k >= 0 && units[k].space && !units[k].rtl; k-- {
		pen -= units[k].width * s
	}
	line.Width = max(pen, 0)
	return line
}

func appendUnit(ps []glyph.Placement, u *unit, pen, s float64, mirrored bool, axis float64, half bool) []glyph.Placement {
	for _, m := range u.mains {
		g := m.g.Scaled(s)
		x := pen + m.x*s
		p := glyph.Placement{Glyph: &g, X: x, Main: true, Mirrored: mirrored, Axis: axis, HalfWidth: half, Source: m.source}
		for _, sub := range m.subs {
			sg := sub.g.Scaled(s)
			p.Subs = append(p.Subs, glyph.Placement{
				Glyph:    &sg,
				X:        x + sub.dx*s,
				Y:        sub.dy * s,
				Mirrored: mirrored,
				Axis:     axis,
				Source:   m.source,
			})
		}
		ps = append(ps, p)
		half = false
	}
	return ps
}
