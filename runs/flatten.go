package runs

import (
	"image/color"
	"strings"

	"github.com/ByLCY/richtext/align"
	"github.com/ByLCY/richtext/glyph"
	"github.com/ByLCY/richtext/markup"
)

// flattener 遍历标记树，借递归隐式维护样式栈，样式变化时输出 Modifier。
type flattener struct {
	doc *markup.Document
	out []Run

	// aligns 是由 <align> 打开的对齐方式栈。
	aligns []align.Alignment
}

// Flatten 将解析后的文档转换为文本段序列。非法属性值和未知标签返回 *markup.Error。
func Flatten(doc *markup.Document) ([]Run, error) {
	f := &flattener{doc: doc}
	if err := f.children(doc.Root, Style{}); err != nil {
		return nil, err
	}
	return f.out, nil
}

// FromString 一步完成 src 的解析与展平。
func FromString(src string) ([]Run, error) {
	doc, err := markup.Parse(src)
	if err != nil {
		return nil, err
	}
	return Flatten(doc)
}

func (f *flattener) children(n *markup.Node, style Style) error {
	for _, child := range n.Children {
		if err := f.node(child, style); err != nil {
			return err
		}
	}
	return nil
}

func (f *flattener) node(n *markup.Node, style Style) error {
	if n.Kind == markup.TextNode {
		f.text(n.Text)
		return nil
	}
	switch n.Tag {
	case "br":
		if len(n.Children) > 0 {
			return f.doc.Errorf(n.Pos, "element <br> cannot have children")
		}
		f.out = append(f.out, LineBreak{})
		return nil
	case "img":
		return f.image(n)
	case "ruby":
		return f.ruby(n, style)
	case "align":
		return f.align(n, style)
	}
	next, err := f.apply(n, style)
	if err != nil {
		return err
	}
	f.modify(style, next)
	if err := f.children(n, next); err != nil {
		return err
	}
	f.modify(next, style)
	return nil
}

func (f *flattener) modify(from, to Style) {
	if m := from.Diff(to); !m.Empty() {
		f.out = append(f.out, m)
	}
}

// text 按换行切分，\r\n 算作一次换行。
func (f *flattener) text(s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	start := 0
	for i, r := range s {
		if !IsLineBreak(string(r)) {
			continue
		}
		f.chars(s[start:i])
		f.out = append(f.out, LineBreak{})
		start = i + len(string(r))
	}
	f.chars(s[start:])
}

func (f *flattener) chars(s string) {
	if s == "" {
		return
	}
	c, _ := NewCharacters(s)
	f.out = append(f.out, c)
}

// apply 返回格式元素内部的样式。
func (f *flattener) apply(n *markup.Node, s Style) (Style, error) {
	switch n.Tag {
	case "b":
		s.Flags |= glyph.Bold
	case "i":
		s.Flags |= glyph.Italic
	case "u":
		s.Flags |= glyph.Underline
	case "s":
		s.Flags |= glyph.Strikethrough
	case "upper":
		s.Case = CaseUpper
	case "lower":
		s.Case = CaseLower
	case "smallcaps":
		s.Case = CaseSmallCaps
	case "color":
		c, err := f.color(n, "value", true)
		if err != nil {
			return s, err
		}
		s.Color = c
	case "size":
		v, err := f.length(n, "value", true)
		if err != nil {
			return s, err
		}
		if v <= 0 {
			attr, _ := n.Attrs.Get("value")
			return s, f.doc.Errorf(attr.Pos, "font size in <size> must be positive")
		}
		s.FontSize = v
	case "space":
		v, err := f.length(n, "value", true)
		if err != nil {
			return s, err
		}
		s.Spacing = v
	case "font":
		name, err := f.required(n, "name")
		if err != nil {
			return s, err
		}
		s.Font = name
	default:
		return s, f.doc.Errorf(n.Pos, "unknown tag <%s>", n.Tag)
	}
	return s, nil
}

func (f *flattener) ruby(n *markup.Node, style Style) error {
	annotation, err := f.required(n, "text")
	if err != nil {
		return err
	}
	next := style
	next.Ruby = RubyStyle{}
	if next.Ruby.Size, err = f.length(n, "size", false); err != nil {
		return err
	}
	if next.Ruby.Color, err = f.color(n, "color", false); err != nil {
		return err
	}
	var base strings.Builder
	for _, child := range n.Children {
		if child.Kind != markup.TextNode {
			return f.doc.Errorf(child.Pos, "<ruby> may only contain text")
		}
		base.WriteString(child.Text)
	}
	group, err := NewRubyGroup(base.String(), annotation)
	if err != nil {
		return f.doc.Errorf(n.Pos, "<ruby> %v", err)
	}
	f.modify(style, next)
	f.out = append(f.out, group)
	f.modify(next, style)
	return nil
}

func (f *flattener) align(n *markup.Node, style Style) error {
	attr, ok := n.Attrs.Get("value")
	if !ok {
		return f.doc.Errorf(n.Pos, "<align> requires attribute value")
	}
	a, err := align.Parse(attr.Value)
	if err != nil {
		return f.doc.Errorf(attr.Pos, "invalid value %q for align.value: %v", attr.Value, err)
	}
	f.out = append(f.out, AlignModifier{Alignment: a})
	f.aligns = append(f.aligns, a)
	if err := f.children(n, style); err != nil {
		return err
	}
	f.aligns = f.aligns[:len(f.aligns)-1]
	if len(f.aligns) == 0 {
		f.out = append(f.out, AlignModifier{Reset: true})
	} else {
		f.out = append(f.out, AlignModifier{Alignment: f.aligns[len(f.aligns)-1]})
	}
	return nil
}

func (f *flattener) image(n *markup.Node) error {
	if len(n.Children) > 0 {
		return f.doc.Errorf(n.Pos, "element <img> cannot have children")
	}
	src, err := f.required(n, "src")
	if err != nil {
		return err
	}
	img := InlineImage{ID: src}
	if img.Width, err = f.length(n, "width", false); err != nil {
		return err
	}
	if img.Height, err = f.length(n, "height", false); err != nil {
		return err
	}
	if img.Offset, err = f.length(n, "offset", false); err != nil {
		return err
	}
	if img.Width < 0 || img.Height < 0 {
		return f.doc.Errorf(n.Pos, "image size in <img> cannot be negative")
	}
	f.out = append(f.out, img)
	return nil
}

func (f *flattener) required(n *markup.Node, key string) (string, error) {
	attr, ok := n.Attrs.Get(key)
	if !ok || attr.Value == "" {
		return "", f.doc.Errorf(n.Pos, "<%s> requires attribute %s", n.Tag, key)
	}
	return attr.Value, nil
}

func (f *flattener) length(n *markup.Node, key string, required bool) (float64, error) {
	attr, ok := n.Attrs.Get(key)
	if !ok {
		if required {
			return 0, f.doc.Errorf(n.Pos, "<%s> requires attribute %s", n.Tag, key)
		}
		return 0, nil
	}
	l, err := ParseLength(attr.Value)
	if err != nil {
		return 0, f.doc.Errorf(attr.Pos, "invalid value %q for %s.%s: %v", attr.Value, n.Tag, key, err)
	}
	return l.ToPT(), nil
}

func (f *flattener) color(n *markup.Node, key string, required bool) (*color.RGBA, error) {
	attr, ok := n.Attrs.Get(key)
	if !ok {
		if required {
			return nil, f.doc.Errorf(n.Pos, "<%s> requires attribute %s", n.Tag, key)
		}
		return nil, nil
	}
	c, err := ParseColor(attr.Value)
	if err != nil {
		return nil, f.doc.Errorf(attr.Pos, "invalid value %q for %s.%s: %v", attr.Value, n.Tag, key, err)
	}
	return &c, nil
}
