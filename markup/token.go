package markup

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Kind 标识标记 token 的类型。
type Kind int

const (
	Text Kind = iota
	Tag
	EndTag
	Attribute
	AttributeValue
	CharacterReference
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "Text"
	case Tag:
		return "Tag"
	case EndTag:
		return "EndTag"
	case Attribute:
		return "Attribute"
	case AttributeValue:
		return "AttributeValue"
	case CharacterReference:
		return "CharacterReference"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token 是分词器输出的一个单元。CharacterReference 与 AttributeValue 携带解码后的值。
type Token struct {
	Kind  Kind
	Value string
	Pos   lexer.Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Value, t.Pos.Line, t.Pos.Column)
}

// Mode 是分词器状态。
type Mode int

const (
	ModeText Mode = iota
	ModeCharacterReference
	ModeTag
	ModeEndTag
	ModeAttribute
	ModeAttributeValue
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeCharacterReference:
		return "character reference"
	case ModeTag:
		return "tag"
	case ModeEndTag:
		return "end tag"
	case ModeAttribute:
		return "attribute"
	case ModeAttributeValue:
		return "attribute value"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}
