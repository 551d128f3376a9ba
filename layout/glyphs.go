package layout

import (
	"fmt"
	"image/color"
	"unicode"

	"golang.org/x/text/width"

	"github.com/ByLCY/richtext/align"
	"github.com/ByLCY/richtext/glyph"
	"github.com/ByLCY/richtext/runs"
	"github.com/ByLCY/richtext/shaping"
)

const (
	smallCapsScale = 0.8
	// 双上标（上元音 + 声调）时声调上移的比例，相对字号
	thaiToneLift = 0.25
)

// unit 是换行时不可拆分的一组字形：一个字簇、一个注音组或一张图片。
// 所有尺寸都是缩放前的值。
type unit struct {
	mains   []mainGlyph
	width   float64
	ascent  float64
	descent float64
	space   bool // 可断行的空白
	wide    bool // 东亚宽字符或图片，前后都可断行
	opening bool // 全角开括号
	rtl     bool
	seg     int
}

type mainGlyph struct {
	g      glyph.Glyph
	x      float64 // 相对单元起点的笔位置
	source int
	subs   []subGlyph
}

// subGlyph 相对所属主字形的笔位置偏移。
type subGlyph struct {
	g      glyph.Glyph
	dx, dy float64
}

type paraGlyphs struct {
	units   []unit
	align   *align.Alignment
	ascent  float64 // 空行使用的字体度量
	descent float64
}

// lineMetrics 返回 units[sp] 缩放后的上升与下降高度。
func (p *paraGlyphs) lineMetrics(sp lineSpan, scale float64) (float64, float64) {
	if sp.start == sp.end {
		return p.ascent * scale, p.descent * scale
	}
	var asc, desc float64
	for _, u := range p.units[sp.start:sp.end] {
		asc = max(asc, u.ascent)
		desc = max(desc, u.descent)
	}
	return asc * scale, desc * scale
}

func (e *Engine) createGlyphs() error {
	e.glyphs = make([]paraGlyphs, 0, len(e.paras))
	for _, para := range e.paras {
		fm, err := e.opts.Fonts.FontMetrics(e.spec(para.style))
		if err != nil {
			return fmt.Errorf("读取字体度量失败: %w", err)
		}
		pg := paraGlyphs{align: para.align, ascent: fm.Ascent, descent: fm.Descent}
		for _, it := range para.items {
			var (
				u   unit
				err error
			)
			switch it.kind {
			case itemCluster:
				u, err = e.clusterUnit(it.cluster, it.style)
				u.rtl, u.seg = it.rtl, it.seg
			case itemRuby:
				u, err = e.rubyUnit(it)
			case itemImage:
				u, err = e.imageUnit(it)
			}
			if err != nil {
				return err
			}
			pg.units = append(pg.units, u)
		}
		e.glyphs = append(e.glyphs, pg)
	}
	return nil
}

// spec 把文本样式解析为具体字体。
func (e *Engine) spec(s runs.Style) glyph.FontSpec {
	spec := e.opts.Font
	if s.Font != "" {
		spec.Family = s.Font
	}
	if s.FontSize > 0 {
		spec.Size = s.FontSize
	}
	spec.Style |= s.Flags
	return spec
}

func (e *Engine) fontGlyph(r rune, spec glyph.FontSpec, c *color.RGBA) (glyph.Glyph, error) {
	m, err := e.opts.Fonts.GlyphMetrics(r, spec)
	if err != nil {
		return glyph.Glyph{}, fmt.Errorf("读取字形 %q 的度量失败: %w", r, err)
	}
	g := glyph.NewFont(r, spec, m)
	g.Font.Color = c
	return g, nil
}

// applyCase 逐字符转换大小写，保证字符数不变以维持光标映射。
func applyCase(r rune, c runs.Case, spec glyph.FontSpec) (rune, glyph.FontSpec) {
	switch c {
	case runs.CaseUpper:
		return unicode.ToUpper(r), spec
	case runs.CaseLower:
		return unicode.ToLower(r), spec
	case runs.CaseSmallCaps:
		if unicode.IsLower(r) {
			spec.Size *= smallCapsScale
			return unicode.ToUpper(r), spec
		}
	}
	return r, spec
}

func isMark(r rune) bool { return unicode.In(r, unicode.Mn, unicode.Me) }

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// clusterUnit 为一个字簇生成字形。非组合字符是主字形，组合符号挂在前一个主字形上。
func (e *Engine) clusterUnit(c shaping.Cluster, style runs.Style) (unit, error) {
	spec := e.spec(style)
	fm, err := e.opts.Fonts.FontMetrics(spec)
	if err != nil {
		return unit{}, fmt.Errorf("读取字体度量失败: %w", err)
	}
	u := unit{ascent: fm.Ascent, descent: fm.Descent}
	pen := 0.0
	for i, r := range c.Runes {
		shown, gspec := applyCase(r, style.Case, spec)
		g, err := e.fontGlyph(shown, gspec, style.Color)
		if err != nil {
			return unit{}, err
		}
		if isMark(r) && len(u.mains) > 0 {
			base := &u.mains[len(u.mains)-1]
			sub := subGlyph{g: g, dx: (base.g.Advance-g.Width)/2 - g.Font.Bearing}
			if c.Thai.Has(shaping.DoubleTopVowel) && shaping.Classify(r) == shaping.ToneMark {
				sub.dy = gspec.Size * thaiToneLift
			}
			base.subs = append(base.subs, sub)
			continue
		}
		u.mains = append(u.mains, mainGlyph{g: g, x: pen, source: c.Caret.Start + i})
		pen += g.Advance + style.Spacing
	}
	u.width = pen
	if len(u.mains) > 0 {
		first := c.Runes[0]
		u.space = len(u.mains) == 1 && unicode.IsSpace(first)
		u.wide = isWide(first)
		u.opening = u.wide && unicode.Is(unicode.Ps, first)
	}
	return u, nil
}

// rubyUnit 把基字与注音排成一个单元，二者按较宽者居中。
func (e *Engine) rubyUnit(it item) (unit, error) {
	spec := e.spec(it.style)
	fm, err := e.opts.Fonts.FontMetrics(spec)
	if err != nil {
		return unit{}, fmt.Errorf("读取字体度量失败: %w", err)
	}
	u := unit{ascent: fm.Ascent, descent: fm.Descent, wide: true}
	baseWidth := 0.0
	for _, c := range it.ruby.base {
		cu, err := e.clusterUnit(c, it.style)
		if err != nil {
			return unit{}, err
		}
		for _, m := range cu.mains {
			m.x += baseWidth
			u.mains = append(u.mains, m)
		}
		baseWidth += cu.width
	}

	rspec := spec
	rspec.Size = it.style.Ruby.Size
	if rspec.Size <= 0 {
		rspec.Size = spec.Size * e.opts.RubyScale
	}
	rcolor := it.style.Ruby.Color
	if rcolor == nil {
		rcolor = it.style.Color
	}
	rfm, err := e.opts.Fonts.FontMetrics(rspec)
	if err != nil {
		return unit{}, fmt.Errorf("读取注音字体度量失败: %w", err)
	}
	var (
		ann    []subGlyph
		annPen float64
	)
	for _, r := range it.ruby.annotation {
		g, err := e.fontGlyph(r, rspec, rcolor)
		if err != nil {
			return unit{}, err
		}
		ann = append(ann, subGlyph{g: g, dx: annPen, dy: fm.Ascent + rfm.Descent})
		annPen += g.Advance
	}

	u.width = max(baseWidth, annPen)
	for i := range u.mains {
		u.mains[i].x += (u.width - baseWidth) / 2
	}
	if len(u.mains) == 0 {
		return u, nil
	}
	first := &u.mains[0]
	annStart := (u.width - annPen) / 2
	for _, a := range ann {
		a.dx += annStart - first.x
		first.subs = append(first.subs, a)
	}
	if len(ann) > 0 {
		u.ascent = fm.Ascent + rfm.Descent + rfm.Ascent
	}
	return u, nil
}

// imageUnit 解析图片尺寸。只给出一边时按图片来源的宽高比推算另一边。
func (e *Engine) imageUnit(it item) (unit, error) {
	img := it.image
	w, h := img.Width, img.Height
	var uv glyph.UVRect
	if e.opts.Images != nil {
		if info, ok := e.opts.Images.Image(img.ID); ok {
			uv = info.UV
			switch {
			case w == 0 && h == 0:
				w, h = info.Width, info.Height
			case w == 0 && info.Height > 0:
				w = h * info.Width / info.Height
			case h == 0 && info.Width > 0:
				h = w * info.Height / info.Width
			}
		}
	}
	if w <= 0 || h <= 0 {
		return unit{}, fmt.Errorf("内联图片 %q 缺少尺寸", img.ID)
	}
	g := glyph.NewImage(img.ID, w, h, img.Offset)
	g.UV = uv
	return unit{
		mains:   []mainGlyph{{g: g, source: it.source}},
		width:   w,
		ascent:  max(h+img.Offset, 0),
		descent: max(-img.Offset, 0),
		wide:    true,
	}, nil
}
