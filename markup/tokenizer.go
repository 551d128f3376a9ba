package markup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/net/html"
)

// 每个 lexer 状态对应一种分词模式：Root=Text，Tag=Tag/Attribute，Value=AttributeValue，EndTag=EndTag。
var (
	markupLexer = lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "CharRef", Pattern: `&(?:#[0-9]+|#[xX][0-9A-Fa-f]+|[A-Za-z][A-Za-z0-9]*);`},
			{Name: "EndTagOpen", Pattern: `</`, Action: lexer.Push("EndTag")},
			{Name: "TagOpen", Pattern: `<`, Action: lexer.Push("Tag")},
			{Name: "Text", Pattern: `[^<&]+`},
		},
		"Tag": {
			{Name: "Space", Pattern: `[ \t\r\n]+`},
			{Name: "SelfClose", Pattern: `/>`, Action: lexer.Pop()},
			{Name: "TagClose", Pattern: `>`, Action: lexer.Pop()},
			{Name: "Equals", Pattern: `=`, Action: lexer.Push("Value")},
			{Name: "Name", Pattern: `[A-Za-z_][A-Za-z0-9_:.\-]*`},
		},
		"Value": {
			{Name: "Space", Pattern: `[ \t\r\n]+`},
			{Name: "Quoted", Pattern: `"[^"]*"|'[^']*'`, Action: lexer.Pop()},
		},
		"EndTag": {
			{Name: "Space", Pattern: `[ \t\r\n]+`},
			{Name: "TagClose", Pattern: `>`, Action: lexer.Pop()},
			{Name: "Name", Pattern: `[A-Za-z_][A-Za-z0-9_:.\-]*`},
		},
	})

	charRefType    = mustTokenType("CharRef")
	endTagOpenType = mustTokenType("EndTagOpen")
	tagOpenType    = mustTokenType("TagOpen")
	textType       = mustTokenType("Text")
	spaceType      = mustTokenType("Space")
	selfCloseType  = mustTokenType("SelfClose")
	tagCloseType   = mustTokenType("TagClose")
	equalsType     = mustTokenType("Equals")
	nameType       = mustTokenType("Name")
	quotedType     = mustTokenType("Quoted")
)

// tokenizer 保存单次调用的扫描状态。
type tokenizer struct {
	src    string
	window int
	mode   Mode
	// open 是正在扫描的标签名，读到名字之前为空。
	open    string
	openPos lexer.Position
	tokens  []Token
}

// Tokenize 将 src 切分为标记 token。
func Tokenize(src string) ([]Token, error) {
	return tokenize(src, DefaultContextWindow)
}

func tokenize(src string, window int) ([]Token, error) {
	t := &tokenizer{src: src, window: window, mode: ModeText}
	lex, err := markupLexer.LexString("", src)
	if err != nil {
		return nil, t.lexError(err)
	}
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, t.lexError(err)
		}
		if tok.EOF() {
			if t.mode != ModeText {
				return nil, t.errorf(tok.Pos, "unterminated %s <%s", t.mode, t.open)
			}
			return t.tokens, nil
		}
		if err := t.step(tok); err != nil {
			return nil, err
		}
	}
}

func (t *tokenizer) step(tok lexer.Token) error {
	switch tok.Type {
	case textType:
		t.emit(Text, tok.Value, tok.Pos)
	case charRefType:
		t.mode = ModeCharacterReference
		decoded := html.UnescapeString(tok.Value)
		if decoded == tok.Value {
			return t.errorf(tok.Pos, "unknown character reference %s", tok.Value)
		}
		t.emit(CharacterReference, decoded, tok.Pos)
		t.mode = ModeText
	case tagOpenType:
		t.mode = ModeTag
		t.open = ""
		t.openPos = tok.Pos
	case endTagOpenType:
		t.mode = ModeEndTag
		t.open = ""
		t.openPos = tok.Pos
	case spaceType:
	case nameType:
		switch {
		case t.mode == ModeEndTag && t.open == "":
			t.open = tok.Value
			t.emit(EndTag, tok.Value, t.openPos)
		case t.mode == ModeEndTag:
			return t.errorf(tok.Pos, "unexpected %q in end tag </%s>", tok.Value, t.open)
		case t.open == "":
			t.open = tok.Value
			t.emit(Tag, tok.Value, t.openPos)
		default:
			t.mode = ModeAttribute
			t.emit(Attribute, tok.Value, tok.Pos)
		}
	case equalsType:
		if t.mode != ModeAttribute {
			return t.errorf(tok.Pos, "'=' without attribute name in <%s>", t.open)
		}
		t.mode = ModeAttributeValue
	case quotedType:
		value := html.UnescapeString(tok.Value[1 : len(tok.Value)-1])
		t.emit(AttributeValue, value, tok.Pos)
		t.mode = ModeTag
	case tagCloseType, selfCloseType:
		if t.open == "" {
			return t.errorf(tok.Pos, "missing tag name")
		}
		if t.mode == ModeAttributeValue {
			return t.errorf(tok.Pos, "missing value for attribute in <%s>", t.open)
		}
		if tok.Type == selfCloseType {
			t.emit(EndTag, t.open, tok.Pos)
		}
		t.mode = ModeText
		t.open = ""
	default:
		return t.errorf(tok.Pos, "unexpected token %q", tok.Value)
	}
	return nil
}

func (t *tokenizer) emit(kind Kind, value string, pos lexer.Position) {
	t.tokens = append(t.tokens, Token{Kind: kind, Value: value, Pos: pos})
}

func (t *tokenizer) errorf(pos lexer.Position, format string, args ...any) *Error {
	return newError(t.src, pos, t.window, format, args...)
}

// lexError 将词法错误转换为按当前状态描述的 Error。
func (t *tokenizer) lexError(err error) error {
	var positioned interface{ Position() lexer.Position }
	if !errors.As(err, &positioned) {
		return fmt.Errorf("markup: %w", err)
	}
	pos := positioned.Position()
	rest := ""
	if pos.Offset < len(t.src) {
		rest = t.src[pos.Offset:]
	}
	switch {
	case t.mode == ModeText && strings.HasPrefix(rest, "&"):
		return t.errorf(pos, "malformed character reference")
	case t.mode == ModeAttributeValue:
		return t.errorf(pos, "attribute value in <%s> must be quoted", t.open)
	default:
		return t.errorf(pos, "unexpected character in %s", t.mode)
	}
}

func mustTokenType(name string) lexer.TokenType {
	symbols := markupLexer.Symbols()
	tt, ok := symbols[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
