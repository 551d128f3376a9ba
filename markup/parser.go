package markup

import (
	"errors"

	"github.com/alecthomas/participle/v2/lexer"
)

// DefaultAllowEmpty 列出可以不带子节点直接闭合的空标签。
var DefaultAllowEmpty = []string{"br", "img"}

// Options 配置解析。
type Options struct {
	// AllowEmpty 非 nil 时覆盖 DefaultAllowEmpty。
	AllowEmpty []string
	// ContextWindow 是出错位置两侧显示的字符数。
	ContextWindow int
}

// Result 是解析的诊断形式：要么是树，要么是错误信息。
type Result struct {
	Success bool
	Root    *Node
	Message string
}

// Check 解析 src 并报告结果，不返回 error。
func Check(src string) Result {
	doc, err := Parse(src)
	if err != nil {
		return Result{Message: err.Error()}
	}
	return Result{Success: true, Root: doc.Root}
}

// Parse 使用默认选项分词并解析 src。
func Parse(src string) (*Document, error) {
	return ParseWith(src, Options{})
}

// ParseWith 分词并解析 src，失败时不返回部分树。
func ParseWith(src string, opts Options) (*Document, error) {
	window := opts.ContextWindow
	if window <= 0 {
		window = DefaultContextWindow
	}
	tokens, err := tokenize(src, window)
	if err != nil {
		return nil, err
	}
	allow := opts.AllowEmpty
	if allow == nil {
		allow = DefaultAllowEmpty
	}
	p := &parser{
		doc:        &Document{Root: &Node{Kind: ElementNode}, Source: src, window: window},
		allowEmpty: make(map[string]bool, len(allow)),
	}
	for _, tag := range allow {
		p.allowEmpty[tag] = true
	}
	for _, tok := range tokens {
		if err := p.consume(tok); err != nil {
			return nil, err
		}
	}
	if n := len(p.stack); n > 0 {
		open := p.stack[n-1]
		return nil, p.doc.Errorf(open.Pos, "missing end tag for <%s>", open.Tag)
	}
	return p.doc, nil
}

// parser 是单次调用的解析上下文。
type parser struct {
	doc        *Document
	allowEmpty map[string]bool
	stack      []*Node
	// attr 是等待 AttributeValue 的属性名。
	attr string
}

func (p *parser) top() *Node {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) consume(tok Token) error {
	switch tok.Kind {
	case Text, CharacterReference:
		p.appendText(tok.Value, tok.Pos)
	case Tag:
		el := &Node{Kind: ElementNode, Tag: tok.Value, Pos: tok.Pos}
		if top := p.top(); top != nil {
			top.Children = append(top.Children, el)
		}
		p.stack = append(p.stack, el)
	case Attribute:
		top := p.top()
		if top == nil {
			return p.doc.Errorf(tok.Pos, "attribute %q outside of a tag", tok.Value)
		}
		top.Attrs.Set(tok.Value, "", tok.Pos)
		p.attr = tok.Value
	case AttributeValue:
		top := p.top()
		if top == nil || p.attr == "" {
			return p.doc.Errorf(tok.Pos, "attribute value without a key")
		}
		top.Attrs.Set(p.attr, tok.Value, tok.Pos)
		p.attr = ""
	case EndTag:
		return p.closeTag(tok.Value, tok.Pos)
	default:
		return p.doc.Errorf(tok.Pos, "unexpected %s token", tok.Kind)
	}
	return nil
}

func (p *parser) closeTag(name string, pos lexer.Position) error {
	p.attr = ""
	top := p.top()
	if top == nil {
		return p.doc.Errorf(pos, "unexpected end tag </%s>", name)
	}
	if top.Tag != name {
		return p.doc.Errorf(pos, "end tag </%s> does not match open tag <%s>", name, top.Tag)
	}
	if len(top.Children) == 0 && !p.allowEmpty[top.Tag] {
		return p.doc.Errorf(pos, "element <%s> is empty", top.Tag)
	}
	p.stack = p.stack[:len(p.stack)-1]
	if len(p.stack) == 0 {
		p.doc.Root.Children = append(p.doc.Root.Children, top)
	}
	return nil
}

// appendText 将文本挂到当前打开的元素上，并与前一个文本节点合并，避免字符引用把内容拆碎。
func (p *parser) appendText(text string, pos lexer.Position) {
	parent := p.top()
	if parent == nil {
		parent = p.doc.Root
	}
	if n := len(parent.Children); n > 0 && parent.Children[n-1].Kind == TextNode {
		parent.Children[n-1].Text += text
		return
	}
	parent.Children = append(parent.Children, &Node{Kind: TextNode, Text: text, Pos: pos})
}

// AsError 在 err 是 *Error 时返回它。
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
