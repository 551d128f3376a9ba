package layout

import (
	"fmt"

	"github.com/ByLCY/richtext/align"
	"github.com/ByLCY/richtext/runs"
	"github.com/ByLCY/richtext/shaping"
)

type itemKind uint8

const (
	itemCluster itemKind = iota
	itemRuby
	itemImage
	itemBreak
	itemAlign
)

// item 是整形后的流元素，按逻辑顺序排列。
type item struct {
	kind    itemKind
	style   runs.Style
	cluster shaping.Cluster
	rtl     bool
	seg     int // 同一个 RTL 段内的字簇共享编号
	ruby    rubyItem
	image   runs.InlineImage
	align   runs.AlignModifier
	source  int
}

type rubyItem struct {
	base       []shaping.Cluster
	annotation []rune
}

// paragraph 是两个硬换行之间的内容。align 为 nil 时使用引擎默认对齐。
type paragraph struct {
	items []item
	style runs.Style
	align *align.Alignment
}

func (e *Engine) shape() error {
	e.items, e.carets = nil, nil
	var (
		style   runs.Style
		pos     int
		seg     int
		prevRTL bool // 为真时下一个 RTL 段与前一个属于同一视觉段
	)
	p := runs.NewPointer(e.runs)
	for cur := p.Current(); cur != nil; cur = p.Current() {
		switch r := cur.(type) {
		case runs.Modifier:
			style = style.Apply(r)
		case runs.AlignModifier:
			e.items = append(e.items, item{kind: itemAlign, align: r})
		case runs.LineBreak:
			prevRTL = false
			e.items = append(e.items, item{kind: itemBreak, style: style, source: pos})
		case runs.InlineImage:
			prevRTL = false
			e.items = append(e.items, item{kind: itemImage, style: style, image: r, source: pos})
			e.carets = append(e.carets, shaping.CaretUnit{Start: pos, Len: 1})
			pos++
		case runs.Characters:
			segs, err := shaping.Shape(r.Runes(), shapingContext(p, e.runs))
			if err != nil {
				return err
			}
			for _, s := range segs {
				if !s.RTL || !prevRTL {
					seg++
				}
				prevRTL = s.RTL
				for _, c := range s.Clusters {
					c.Caret.Start += pos
					e.items = append(e.items, item{kind: itemCluster, style: style, cluster: c, rtl: s.RTL, seg: seg, source: c.Caret.Start})
					e.carets = append(e.carets, c.Caret)
				}
			}
			pos += r.Len()
		case runs.RubyGroup:
			segs, err := shaping.Shape(r.Base, shaping.Context{})
			if err != nil {
				return err
			}
			prevRTL = false
			ri := rubyItem{annotation: r.Annotation}
			for _, s := range segs {
				for _, c := range s.Clusters {
					c.Caret.Start += pos
					ri.base = append(ri.base, c)
					e.carets = append(e.carets, c.Caret)
				}
			}
			e.items = append(e.items, item{kind: itemRuby, style: style, ruby: ri, source: pos})
			pos += r.Len()
		}
		if p.NextRun() != nil {
			break
		}
	}
	if err := shaping.CheckCarets(e.carets, 0, pos); err != nil {
		return fmt.Errorf("字簇映射不完整: %w", err)
	}
	e.textLen = pos
	return nil
}

// shapingContext 取相邻文本段的边界字符作为阿拉伯文连写上下文。
// 硬换行、图片与注音会切断上下文，格式修饰不会。
func shapingContext(p *runs.Pointer, rs []runs.Run) shaping.Context {
	var ctx shaping.Context
	if neighbourIsText(rs, p.Index(), -1) {
		if s, ok := p.Lookback(1); ok {
			if r := []rune(s); len(r) > 0 {
				ctx.Before = r[len(r)-1]
			}
		}
	}
	if neighbourIsText(rs, p.Index(), 1) {
		if s, ok := p.Lookahead(1); ok {
			if r := []rune(s); len(r) > 0 {
				ctx.After = r[0]
			}
		}
	}
	return ctx
}

func neighbourIsText(rs []runs.Run, i, dir int) bool {
	for j := i + dir; j >= 0 && j < len(rs); j += dir {
		switch rs[j].Kind() {
		case runs.ModifierKind, runs.AlignKind:
			continue
		case runs.CharactersKind:
			return true
		}
		return false
	}
	return false
}

// paragraphs 在硬换行处切分。段落的对齐方式取其第一个内容元素处生效的值。
func (e *Engine) paragraphs() {
	e.paras = nil
	var (
		cur   *align.Alignment
		para  paragraph
		fixed bool
	)
	flush := func() {
		if !fixed {
			para.align = cur
		}
		e.paras = append(e.paras, para)
		para, fixed = paragraph{}, false
	}
	for _, it := range e.items {
		switch it.kind {
		case itemAlign:
			if it.align.Reset {
				cur = nil
			} else {
				a := it.align.Alignment
				cur = &a
			}
		case itemBreak:
			para.style = it.style
			flush()
		default:
			if !fixed {
				para.align, fixed = cur, true
			}
			para.style = it.style
			para.items = append(para.items, it)
		}
	}
	flush()
}
