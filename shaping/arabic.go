package shaping

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/runenames"
)

const (
	formNone = -1
	formIsol = 0
	formFina = 1
	formInit = 2
	formMedi = 3
)

type joiningType uint8

const (
	joiningTypeU joiningType = iota
	joiningTypeR
	joiningTypeD
	joiningTypeT
	joiningTypeC
)

// presentationForms 依次保存独立形、尾形、首形、中形码位。
type presentationForms [4]rune

var presentationTable = buildPresentationFormMap()

const lam = '\u0644'

// lamAlef 将 lam 之后的 alef 映射到其独立形与尾形连字。
var lamAlef = map[rune][2]rune{
	'\u0622': {'\uFEF5', '\uFEF6'},
	'\u0623': {'\uFEF7', '\uFEF8'},
	'\u0625': {'\uFEF9', '\uFEFA'},
	'\u0627': {'\uFEFB', '\uFEFC'},
}

// ArabicCluster 是一个成形后的阿拉伯文单元：呈现形式（或 lam-alef 连字）加上附着的符号。
type ArabicCluster struct {
	Runes []rune
	Caret CaretUnit
}

// ShapeArabic 按逻辑顺序对文本做上下文连接。before/after 是相邻文本段的字符（无则为 0），
// 只影响连接形式。光标范围从 base 开始。
func ShapeArabic(text []rune, before, after rune, base int) ([]ArabicCluster, error) {
	cps := make([]rune, 0, len(text)+2)
	cps = append(cps, before)
	cps = append(cps, text...)
	cps = append(cps, after)
	forms := resolveJoiningForms(cps)[1 : len(cps)-1]

	var out []ArabicCluster
	for i := 0; i < len(text); i++ {
		r := text[i]
		if classifyJoiningType(r) == joiningTypeT && len(out) > 0 {
			last := &out[len(out)-1]
			last.Runes = append(last.Runes, r)
			last.Caret.Len++
			continue
		}
		if r == lam && i+1 < len(text) {
			if lig, ok := lamAlef[text[i+1]]; ok {
				shaped := lig[0]
				if forms[i] == formFina || forms[i] == formMedi {
					shaped = lig[1]
				}
				out = append(out, ArabicCluster{Runes: []rune{shaped}, Caret: CaretUnit{Start: base + i, Len: 2}})
				i++
				continue
			}
		}
		out = append(out, ArabicCluster{Runes: []rune{presentationForm(r, forms[i])}, Caret: CaretUnit{Start: base + i, Len: 1}})
	}

	carets := make([]CaretUnit, len(out))
	for i := range out {
		carets[i] = out[i].Caret
	}
	if err := CheckCarets(carets, base, len(text)); err != nil {
		return nil, err
	}
	return out, nil
}

func presentationForm(r rune, form int) rune {
	if form == formNone {
		return r
	}
	forms, ok := presentationTable[r]
	if !ok {
		return r
	}
	if f := forms[form]; f != 0 {
		return f
	}
	if f := forms[formIsol]; f != 0 {
		return f
	}
	return r
}

func resolveJoiningForms(cps []rune) []int {
	n := len(cps)
	forms := make([]int, n)
	types := make([]joiningType, n)
	for i, cp := range cps {
		forms[i] = formNone
		types[i] = classifyJoiningType(cp)
	}
	for i := range n {
		t := types[i]
		if t != joiningTypeD && t != joiningTypeR {
			continue
		}
		prev := previousJoinType(types, i)
		next := nextJoinType(types, i)

		joinPrev := prev >= 0 && canJoinFollowing(types[prev]) && canJoinPreceding(t)
		joinNext := next >= 0 && canJoinFollowing(t) && canJoinPreceding(types[next])

		switch {
		case joinPrev && joinNext:
			forms[i] = formMedi
		case joinPrev:
			forms[i] = formFina
		case joinNext:
			forms[i] = formInit
		default:
			forms[i] = formIsol
		}
	}
	return forms
}

func previousJoinType(types []joiningType, i int) int {
	for j := i - 1; j >= 0; j-- {
		if types[j] != joiningTypeT {
			return j
		}
	}
	return -1
}

func nextJoinType(types []joiningType, i int) int {
	for j := i + 1; j < len(types); j++ {
		if types[j] != joiningTypeT {
			return j
		}
	}
	return -1
}

func canJoinPreceding(t joiningType) bool {
	return t == joiningTypeD || t == joiningTypeR || t == joiningTypeC
}

func canJoinFollowing(t joiningType) bool {
	return t == joiningTypeD || t == joiningTypeC
}

func classifyJoiningType(cp rune) joiningType {
	switch {
	case cp == 0, cp == '\u200C', cp == '\u0621': // ZWNJ 断开连接，hamza 从不连接
		return joiningTypeU
	case cp == '\u200D' || cp == '\u0640': // ZWJ、tatweel
		return joiningTypeC
	case unicode.Is(unicode.M, cp):
		return joiningTypeT
	case isRightJoining(cp):
		return joiningTypeR
	case unicode.IsLetter(cp) && unicode.In(cp, unicode.Arabic):
		return joiningTypeD
	}
	return joiningTypeU
}

var rightJoiningRunes = map[rune]struct{}{
	'\u0622': {}, '\u0623': {}, '\u0624': {}, '\u0625': {}, '\u0627': {}, '\u0629': {},
	'\u062F': {}, '\u0630': {}, '\u0631': {}, '\u0632': {}, '\u0648': {},
	'\u0671': {}, '\u0672': {}, '\u0673': {}, '\u0675': {}, '\u0676': {}, '\u0677': {},
	'\u0688': {}, '\u0689': {}, '\u0691': {}, '\u0698': {},
	'\u06C0': {}, '\u06C3': {}, '\u06C4': {}, '\u06C5': {}, '\u06C6': {}, '\u06C7': {},
	'\u06C8': {}, '\u06C9': {}, '\u06CA': {}, '\u06CB': {}, '\u06CD': {},
}

func isRightJoining(cp rune) bool {
	_, ok := rightJoiningRunes[cp]
	return ok
}

// buildPresentationFormMap 根据呈现形式区块的 Unicode 名称推导每个字母的连接形式。
// 无法折叠回单个字母的条目（连字、tatweel 上的符号）被跳过。
func buildPresentationFormMap() map[rune]presentationForms {
	out := make(map[rune]presentationForms, 256)
	addRange := func(from, to rune) {
		for u := from; u <= to; u++ {
			form, ok := presentationFormFromName(u)
			if !ok {
				continue
			}
			base := presentationBaseRune(u)
			if base == 0 {
				continue
			}
			forms := out[base]
			if forms[form] == 0 {
				forms[form] = u
			}
			out[base] = forms
		}
	}
	addRange(0xFB50, 0xFDFF) // 阿拉伯文呈现形式 A
	addRange(0xFE70, 0xFEFF) // 阿拉伯文呈现形式 B
	return out
}

func presentationFormFromName(u rune) (int, bool) {
	name := runenames.Name(u)
	if name == "" || !strings.Contains(name, "ARABIC") || strings.Contains(name, "LIGATURE") {
		return 0, false
	}
	switch {
	case strings.Contains(name, "ISOLATED FORM"):
		return formIsol, true
	case strings.Contains(name, "FINAL FORM"):
		return formFina, true
	case strings.Contains(name, "INITIAL FORM"):
		return formInit, true
	case strings.Contains(name, "MEDIAL FORM"):
		return formMedi, true
	}
	return 0, false
}

func presentationBaseRune(u rune) rune {
	folded := []rune(norm.NFKC.String(string(u)))
	if len(folded) != 1 {
		return 0
	}
	x := folded[0]
	if unicode.Is(unicode.M, x) || !unicode.In(x, unicode.Arabic) {
		return 0
	}
	return x
}
