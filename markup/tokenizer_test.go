package markup_test

import (
	"testing"

	"github.com/ByLCY/richtext/markup"
)

func TestTokenizeModes(t *testing.T) {
	tokens, err := markup.Tokenize(`a&amp;<color value="#fff">b</color><br/>`)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	want := []struct {
		kind  markup.Kind
		value string
	}{
		{markup.Text, "a"},
		{markup.CharacterReference, "&"},
		{markup.Tag, "color"},
		{markup.Attribute, "value"},
		{markup.AttributeValue, "#fff"},
		{markup.Text, "b"},
		{markup.EndTag, "color"},
		{markup.Tag, "br"},
		{markup.EndTag, "br"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		if tokens[i].Kind != w.kind || tokens[i].Value != w.value {
			t.Fatalf("token %d = %v, want %s(%q)", i, tokens[i], w.kind, w.value)
		}
	}
	if tokens[2].Pos.Offset != 6 {
		t.Fatalf("tag token should point at '<', got offset %d", tokens[2].Pos.Offset)
	}
}

func TestTokenizeRejectsMalformedTags(t *testing.T) {
	for _, src := range []string{"<>", "</>", "<b =\"x\">", "<b a=>", "</b c>", "<b"} {
		if _, err := markup.Tokenize(src); err == nil {
			t.Fatalf("expected tokenize error for %q", src)
		}
	}
}
