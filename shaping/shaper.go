package shaping

import (
	"fmt"
	"unicode"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"
)

// Cluster 是可直接生成字形的单元。Runes[0] 为基字，其余字符绘制在同一簇上（符号或泰文簇的后续字母）。
type Cluster struct {
	Runes []rune
	Caret CaretUnit
	Thai  ThaiFlags
}

// Segment 是由同一成形器处理的最长片段。RTL 片段的簇保持逻辑顺序，由布局在放置时镜像。
type Segment struct {
	Script   language.Script
	RTL      bool
	Clusters []Cluster
}

// Context 携带相邻文本段中紧挨当前段的字符。
type Context struct {
	Before rune
	After  rune
}

// Shape 将文本按文字切分为片段，并对泰文和阿拉伯文片段成形。
// 其他文本原样通过，每个基字一个簇。光标范围相对文本起点。
func Shape(text []rune, ctx Context) ([]Segment, error) {
	var segs []Segment
	for _, sp := range splitScripts(text) {
		seg := Segment{Script: sp.script, RTL: sp.rtl}
		part := text[sp.start:sp.end]
		switch sp.script {
		case language.Thai:
			units, carets, err := ClusterThai(part, sp.start)
			if err != nil {
				return nil, err
			}
			for i, u := range units {
				c := carets[i]
				seg.Clusters = append(seg.Clusters, Cluster{
					Runes: text[c.Start:c.End()],
					Caret: c,
					Thai:  u.Flags,
				})
			}
		case language.Arabic:
			before, after := ctx.Before, ctx.After
			if sp.start > 0 {
				before = text[sp.start-1]
			}
			if sp.end < len(text) {
				after = text[sp.end]
			}
			clusters, err := ShapeArabic(part, before, after, sp.start)
			if err != nil {
				return nil, err
			}
			for _, c := range clusters {
				c.Runes[0] = Mirror(c.Runes[0])
				seg.Clusters = append(seg.Clusters, Cluster{Runes: c.Runes, Caret: c.Caret})
			}
		default:
			seg.Clusters = passThrough(part, sp.start)
		}
		segs = append(segs, seg)
	}
	if err := CheckCarets(Carets(segs), 0, len(text)); err != nil {
		return nil, fmt.Errorf("shape %q: %w", string(text), err)
	}
	return segs, nil
}

// Carets 按逻辑顺序返回所有片段的光标单元。
func Carets(segs []Segment) []CaretUnit {
	var out []CaretUnit
	for _, s := range segs {
		for _, c := range s.Clusters {
			out = append(out, c.Caret)
		}
	}
	return out
}

// Mirror 返回括号在从右到左显示时的镜像字符。
func Mirror(r rune) rune {
	p, _ := bidi.LookupRune(r)
	if !p.IsBracket() {
		return r
	}
	m := []rune(bidi.ReverseString(string(r)))
	if len(m) != 1 {
		return r
	}
	return m[0]
}

func passThrough(text []rune, base int) []Cluster {
	var out []Cluster
	for i, r := range text {
		if unicode.In(r, unicode.Mn, unicode.Me) && len(out) > 0 {
			last := &out[len(out)-1]
			last.Runes = text[last.Caret.Start-base : i+1]
			last.Caret.Len++
			continue
		}
		out = append(out, Cluster{Runes: text[i : i+1], Caret: CaretUnit{Start: base + i, Len: 1}})
	}
	return out
}

type span struct {
	start, end int
	script     language.Script
	rtl        bool
}

// splitScripts 为每个字符确定成形文字。符号跟随其基字，中性字符在两侧文字一致时归入该文字，
// 数字从不属于从右到左的片段。
func splitScripts(text []rune) []span {
	scripts := make([]language.Script, len(text))
	for i, r := range text {
		scripts[i] = shapingScript(r)
		if scripts[i] == language.Inherited && i > 0 {
			scripts[i] = scripts[i-1]
		}
	}
	for i := 0; i < len(text); {
		if scripts[i] != language.Common || isDigit(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && scripts[j] == language.Common && !isDigit(text[j]) {
			j++
		}
		if i > 0 && j < len(text) && scripts[i-1] == scripts[j] {
			for k := i; k < j; k++ {
				scripts[k] = scripts[j]
			}
		}
		i = j
	}

	var out []span
	for i, s := range scripts {
		if len(out) > 0 && out[len(out)-1].script == s {
			out[len(out)-1].end = i + 1
			continue
		}
		out = append(out, span{start: i, end: i + 1, script: s, rtl: s == language.Arabic})
	}
	return out
}

// shapingScript 将没有成形器的文字都归为 Common，使其作为一个片段直接通过。
func shapingScript(r rune) language.Script {
	if isDigit(r) {
		return language.Common
	}
	switch s := language.LookupScript(r); s {
	case language.Thai, language.Arabic, language.Inherited:
		return s
	}
	return language.Common
}

func isDigit(r rune) bool {
	p, _ := bidi.LookupRune(r)
	c := p.Class()
	return c == bidi.EN || c == bidi.AN
}
