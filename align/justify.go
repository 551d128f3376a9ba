package align

import (
	"sort"
	"unicode"

	"golang.org/x/text/width"

	"github.com/ByLCY/richtext/glyph"
)

// Apply 设置行的 X 以及每个字形的对齐位移，先清除上一次的位移。
func Apply(line *glyph.Line, a Alignment, s Strategy, container float64) {
	line.X = Offset(a, container, line.Width)
	for i := range line.Placements {
		line.Placements[i].SetShift(0)
	}
	if !a.Justified() || (a == Justify && line.LastInParagraph) {
		return
	}
	tokens := Tokens(line.Placements, s)
	if len(tokens) <= 1 {
		return
	}
	step := (container - line.Width) / float64(len(tokens)-1)
	for i, tok := range tokens {
		for _, idx := range tok {
			line.Placements[idx].SetShift(step * float64(i))
		}
	}
}

// ApplyAll 对齐多行，aligns[i] 对应 lines[i]。
func ApplyAll(lines []glyph.Line, aligns []Alignment, s Strategy, container float64) {
	for i := range lines {
		a := Left
		if i < len(aligns) {
			a = aligns[i]
		}
		Apply(&lines[i], a, s, container)
	}
}

type class uint8

const (
	classSpace class = iota
	classAlnum
	classOther
)

func classify(g *glyph.Glyph) class {
	if g.IsWhitespaceOrControl() {
		return classSpace
	}
	if g.Kind == glyph.ImageKind {
		return classOther
	}
	r := g.VisibleChar()
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return classOther
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
		return classAlnum
	}
	return classOther
}

// Tokens 按视觉顺序把一行的主字形划分为分词单元，每个单元记录字形下标。
// 空白并入其后的单元，行尾空白留在最后一个单元。
func Tokens(ps []glyph.Placement, s Strategy) [][]int {
	order := make([]int, 0, len(ps))
	for i := range ps {
		if ps[i].Main {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ps[order[a]].VisualLeft() < ps[order[b]].VisualLeft()
	})

	var (
		tokens  [][]int
		pending []int
		prev    = classSpace
	)
	for _, idx := range order {
		c := classify(ps[idx].Glyph)
		if c == classSpace {
			pending = append(pending, idx)
			prev = classSpace
			continue
		}
		split := len(tokens) == 0 || len(pending) > 0
		switch s {
		case InterCharacter:
			split = true
		case Auto:
			split = split || c == classOther || prev != c
		}
		if split {
			tokens = append(tokens, append(pending, idx))
		} else {
			last := len(tokens) - 1
			tokens[last] = append(tokens[last], idx)
		}
		pending = nil
		prev = c
	}
	if len(pending) > 0 && len(tokens) > 0 {
		last := len(tokens) - 1
		tokens[last] = append(tokens[last], pending...)
	}
	return tokens
}
