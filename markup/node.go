package markup

import "github.com/alecthomas/participle/v2/lexer"

// NodeKind 区分元素与文本。
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
)

// Node 是标记树中的元素或文本。根节点是标签名为空的元素。
type Node struct {
	Kind     NodeKind
	Tag      string
	Attrs    Attributes
	Children []*Node
	Text     string
	Pos      lexer.Position
}

// Attr 是元素的一个属性。
type Attr struct {
	Key   string
	Value string
	Pos   lexer.Position
}

// Attributes 是按插入顺序保存的属性表，重复设置同一键时原位覆盖。
type Attributes struct {
	list  []Attr
	index map[string]int
}

// Set 保存 key 对应的值，以最后一次写入为准。
func (a *Attributes) Set(key, value string, pos lexer.Position) {
	if a.index == nil {
		a.index = map[string]int{}
	}
	if i, ok := a.index[key]; ok {
		a.list[i].Value = value
		a.list[i].Pos = pos
		return
	}
	a.index[key] = len(a.list)
	a.list = append(a.list, Attr{Key: key, Value: value, Pos: pos})
}

// Get 返回 key 对应的属性。
func (a Attributes) Get(key string) (Attr, bool) {
	i, ok := a.index[key]
	if !ok {
		return Attr{}, false
	}
	return a.list[i], true
}

// Value 返回 key 对应的值，不存在时返回 ""。
func (a Attributes) Value(key string) string {
	attr, _ := a.Get(key)
	return attr.Value
}

// All 按插入顺序返回属性。
func (a Attributes) All() []Attr { return a.list }

// Len 返回属性个数。
func (a Attributes) Len() int { return len(a.list) }

// Document 是解析后的标记树及其源文本，后续阶段可以用与解析器相同的形式报告错误。
type Document struct {
	Root   *Node
	Source string
	window int
}

// Errorf 构造指向文档源文本 pos 处的 Error。
func (d *Document) Errorf(pos lexer.Position, format string, args ...any) *Error {
	return newError(d.Source, pos, d.window, format, args...)
}
