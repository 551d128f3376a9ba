package markup_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/richtext/markup"
)

func TestParsePlainText(t *testing.T) {
	const src = "just some plain text"
	doc, err := markup.Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Root.Children) != 1 {
		t.Fatalf("expected 1 root child, got %d", len(doc.Root.Children))
	}
	child := doc.Root.Children[0]
	if child.Kind != markup.TextNode || child.Text != src {
		t.Fatalf("unexpected child: %+v", child)
	}
}

func TestParseSimpleElement(t *testing.T) {
	doc, err := markup.Parse("<b>hi</b>")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Root.Children) != 1 {
		t.Fatalf("expected 1 root child, got %d", len(doc.Root.Children))
	}
	b := doc.Root.Children[0]
	if b.Kind != markup.ElementNode || b.Tag != "b" {
		t.Fatalf("expected element b, got %+v", b)
	}
	if len(b.Children) != 1 || b.Children[0].Text != "hi" {
		t.Fatalf("expected text hi inside b, got %+v", b.Children)
	}
}

func TestParseNestingAndOrder(t *testing.T) {
	doc, err := markup.Parse(`a<b>x<i>y</i></b>c<u>z</u>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var got []string
	for _, n := range doc.Root.Children {
		if n.Kind == markup.TextNode {
			got = append(got, n.Text)
		} else {
			got = append(got, "<"+n.Tag+">")
		}
	}
	if strings.Join(got, "|") != "a|<b>|c|<u>" {
		t.Fatalf("unexpected root order: %v", got)
	}
	b := doc.Root.Children[1]
	if len(b.Children) != 2 || b.Children[1].Tag != "i" {
		t.Fatalf("unexpected children of b: %+v", b.Children)
	}
}

func TestParseFailures(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"unterminated end tag", "<b>hi</b", "unterminated"},
		{"mismatched end tag", "<b>hi</i>", "<b>"},
		{"empty element", "<b></b>", "empty"},
		{"unexpected end tag", "hi</b>", "unexpected end tag"},
		{"missing end tag", "<b>hi", "missing end tag for <b>"},
		{"unquoted value", `<color value=red>x</color>`, "quoted"},
		{"bad reference", "a & b", "character reference"},
		{"unknown reference", "&nosuch;", "unknown character reference"},
		{"self closing non void", "<b/>", "empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := markup.Check(tc.src)
			if res.Success || res.Root != nil {
				t.Fatalf("expected failure without tree, got %+v", res)
			}
			if !strings.Contains(res.Message, tc.want) {
				t.Fatalf("message %q does not mention %q", res.Message, tc.want)
			}
		})
	}
}

func TestParseVoidTags(t *testing.T) {
	for _, src := range []string{"a<br></br>b", "a<br/>b", `<img src="star"/>`} {
		if _, err := markup.Parse(src); err != nil {
			t.Fatalf("parse %q failed: %v", src, err)
		}
	}
	_, err := markup.ParseWith("<hr></hr>", markup.Options{AllowEmpty: []string{"hr"}})
	if err != nil {
		t.Fatalf("custom allow-empty tag rejected: %v", err)
	}
}

func TestParseAttributesLastWins(t *testing.T) {
	doc, err := markup.Parse(`<color value="#f00" alpha='1' value="#0f0">x</color>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	el := doc.Root.Children[0]
	if el.Attrs.Len() != 2 {
		t.Fatalf("expected 2 attributes, got %d", el.Attrs.Len())
	}
	if got := el.Attrs.Value("value"); got != "#0f0" {
		t.Fatalf("expected last value to win, got %q", got)
	}
	if keys := el.Attrs.All(); keys[0].Key != "value" || keys[1].Key != "alpha" {
		t.Fatalf("attribute order not preserved: %+v", keys)
	}
}

func TestParseCharacterReferences(t *testing.T) {
	doc, err := markup.Parse(`1 &lt; 2 &amp;&#x41;<ruby text="&quot;q&quot;">x</ruby>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := doc.Root.Children[0].Text; got != "1 < 2 &A" {
		t.Fatalf("unexpected decoded text %q", got)
	}
	if got := doc.Root.Children[1].Attrs.Value("text"); got != `"q"` {
		t.Fatalf("unexpected decoded attribute %q", got)
	}
}

func TestErrorSnippetIsBounded(t *testing.T) {
	src := strings.Repeat("x", 40) + "<b>hi</i>" + strings.Repeat("y", 40)
	_, err := markup.ParseWith(src, markup.Options{ContextWindow: 5})
	e, ok := markup.AsError(err)
	if !ok {
		t.Fatalf("expected *markup.Error, got %v", err)
	}
	if e.Snippet != "...<b>hi[<]/i>yy..." {
		t.Fatalf("unexpected snippet %q", e.Snippet)
	}
	if e.Pos.Offset != 45 {
		t.Fatalf("unexpected offset %d", e.Pos.Offset)
	}
}
