package runs

import (
	"errors"
	"testing"

	"github.com/ByLCY/richtext/align"
	"github.com/ByLCY/richtext/glyph"
	"github.com/ByLCY/richtext/markup"
)

func TestNewCharactersRejectsLineBreaks(t *testing.T) {
	for _, s := range []string{"a\nb", "a\rb", "a\u2028b", "\u2029"} {
		if _, err := NewCharacters(s); !errors.Is(err, ErrLineBreakInCharacters) {
			t.Fatalf("expected ErrLineBreakInCharacters for %q, got %v", s, err)
		}
	}
	c, err := NewCharacters("สวัสดี")
	if err != nil || c.Len() != 6 {
		t.Fatalf("unexpected result %v %d", err, c.Len())
	}
}

func TestFlattenPlainText(t *testing.T) {
	rs, err := FromString("hello world")
	if err != nil {
		t.Fatalf("flatten failed: %v", err)
	}
	if len(rs) != 1 {
		t.Fatalf("expected one run, got %d", len(rs))
	}
	c, ok := rs[0].(Characters)
	if !ok || c.Text() != "hello world" {
		t.Fatalf("expected characters run, got %#v", rs[0])
	}
}

func TestFlattenStyleModifiers(t *testing.T) {
	rs, err := FromString(`a<b>b<color value="#f00">c</color></b>d`)
	if err != nil {
		t.Fatalf("flatten failed: %v", err)
	}
	kinds := []Kind{CharactersKind, ModifierKind, CharactersKind, ModifierKind, CharactersKind, ModifierKind, ModifierKind, CharactersKind}
	if len(rs) != len(kinds) {
		t.Fatalf("expected %d runs, got %d: %#v", len(kinds), len(rs), rs)
	}
	for i, k := range kinds {
		if rs[i].Kind() != k {
			t.Fatalf("run %d kind = %s, want %s", i, rs[i].Kind(), k)
		}
	}
	style := Style{}
	for _, r := range rs[:4] {
		if m, ok := r.(Modifier); ok {
			style = style.Apply(m)
		}
	}
	if !style.Flags.Has(glyph.Bold) || style.Color == nil || style.Color.R != 255 {
		t.Fatalf("unexpected style inside color: %+v", style)
	}
	for _, r := range rs[4:] {
		if m, ok := r.(Modifier); ok {
			style = style.Apply(m)
		}
	}
	if style.Flags != 0 || style.Color != nil {
		t.Fatalf("style should be restored, got %+v", style)
	}
	if Text(rs) != "abcd" {
		t.Fatalf("text = %q", Text(rs))
	}
}

func TestFlattenLineBreaksAndVoidTags(t *testing.T) {
	rs, err := FromString("one\ntwo<br/>three<img src=\"star\" width=\"10\"/>")
	if err != nil {
		t.Fatalf("flatten failed: %v", err)
	}
	kinds := []Kind{CharactersKind, LineBreakKind, CharactersKind, LineBreakKind, CharactersKind, ImageKind}
	if len(rs) != len(kinds) {
		t.Fatalf("expected %d runs, got %d", len(kinds), len(rs))
	}
	for i, k := range kinds {
		if rs[i].Kind() != k {
			t.Fatalf("run %d kind = %s, want %s", i, rs[i].Kind(), k)
		}
	}
	img := rs[5].(InlineImage)
	if img.ID != "star" || img.Width != 10 || img.Height != 0 {
		t.Fatalf("unexpected image %+v", img)
	}
}

func TestFlattenRubyAndAlign(t *testing.T) {
	rs, err := FromString(`<align value="center"><ruby text="かん" color="#00f">漢</ruby></align>x`)
	if err != nil {
		t.Fatalf("flatten failed: %v", err)
	}
	if a, ok := rs[0].(AlignModifier); !ok || a.Alignment != align.Center {
		t.Fatalf("expected center align modifier first, got %#v", rs[0])
	}
	var group RubyGroup
	var found bool
	for _, r := range rs {
		if g, ok := r.(RubyGroup); ok {
			group, found = g, true
		}
	}
	if !found || string(group.Base) != "漢" || string(group.Annotation) != "かん" {
		t.Fatalf("ruby group missing or wrong: %#v", rs)
	}
	if a, ok := rs[len(rs)-2].(AlignModifier); !ok || !a.Reset {
		t.Fatalf("expected align reset before trailing text, got %#v", rs[len(rs)-2])
	}
}

func TestFlattenRejectsBadAttributes(t *testing.T) {
	cases := []string{
		`<color value="red">x</color>`,
		`<size value="big">x</size>`,
		`<size value="0">x</size>`,
		`<align value="diagonal">x</align>`,
		`<blink>x</blink>`,
		`<ruby>x</ruby>`,
		`<img width="3"/>`,
		`<size value="nan">x</size>`,
		`<space value="inf">ab</space>`,
		`<space value="-Inf">ab</space>`,
		`a<img src="x" width="NaN" height="10"/>b`,
	}
	for _, src := range cases {
		_, err := FromString(src)
		if err == nil {
			t.Fatalf("expected failure for %s", src)
		}
		if _, ok := markup.AsError(err); !ok {
			t.Fatalf("expected markup error for %s, got %T", src, err)
		}
	}
}

func TestPointerWalk(t *testing.T) {
	a, _ := NewCharacters("ab")
	c, _ := NewCharacters("c")
	rs := []Run{a, Modifier{}, c}
	p := NewPointer(rs)

	var read []rune
	steps := 0
	for {
		if p.CanRead() {
			read = append(read, p.Rune())
		}
		if p.EOS() {
			break
		}
		if err := p.Next(); err != nil {
			t.Fatalf("next failed: %v", err)
		}
		steps++
	}
	if string(read) != "abc" {
		t.Fatalf("read %q", string(read))
	}
	// a: 0,1,2(end)  modifier: 0(end)  c: 0,1(end)
	if steps != 5 {
		t.Fatalf("steps = %d, want 5", steps)
	}
	if err := p.Next(); !errors.Is(err, ErrEndOfSource) {
		t.Fatalf("expected ErrEndOfSource, got %v", err)
	}
	if text, ok := p.Lookback(1); !ok || text != "ab" {
		t.Fatalf("lookback = %q %v", text, ok)
	}
	if p.Previous().Kind() != ModifierKind {
		t.Fatalf("previous run should be the modifier")
	}

	for range steps {
		if err := p.Prev(); err != nil {
			t.Fatalf("prev failed: %v", err)
		}
	}
	if p.Index() != 0 || p.Offset() != 0 {
		t.Fatalf("expected start, got (%d,%d)", p.Index(), p.Offset())
	}
	if err := p.Prev(); !errors.Is(err, ErrStartOfSource) {
		t.Fatalf("expected ErrStartOfSource, got %v", err)
	}
	if text, ok := p.Lookahead(1); !ok || text != "c" {
		t.Fatalf("lookahead = %q %v", text, ok)
	}
}

func TestPointerEmpty(t *testing.T) {
	p := NewPointer(nil)
	if !p.EOS() || p.CanRead() || p.Current() != nil {
		t.Fatalf("empty pointer should be at EOS")
	}
	if err := p.Next(); !errors.Is(err, ErrEndOfSource) {
		t.Fatalf("expected ErrEndOfSource, got %v", err)
	}
}
