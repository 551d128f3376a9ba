package markup

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// DefaultContextWindow 是出错位置每侧显示的字符数。
const DefaultContextWindow = 16

// Error 是分词、解析或属性错误。Snippet 显示 Pos 附近的源文本，出错字符用方括号标出。
type Error struct {
	Pos     lexer.Position
	Msg     string
	Snippet string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Pos.Line, e.Pos.Column, e.Msg, e.Snippet)
}

// Position 实现 participle 的错误位置接口。
func (e *Error) Position() lexer.Position { return e.Pos }

func newError(src string, pos lexer.Position, window int, format string, args ...any) *Error {
	return &Error{
		Pos:     pos,
		Msg:     fmt.Sprintf(format, args...),
		Snippet: snippet(src, pos.Offset, window),
	}
}

// snippet 输出 offset 前后各至多 window 个字符，offset 处的字符用方括号包裹。
// 超出输入末尾时显示 "[EOF]"。
func snippet(src string, offset, window int) string {
	if window <= 0 {
		window = DefaultContextWindow
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	start := len(before)
	for n := 0; n < window && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(before[:start])
		start -= size
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(before[start:])
	if offset >= len(src) {
		b.WriteString("[EOF]")
		return flatten(b.String())
	}
	r, size := utf8.DecodeRuneInString(src[offset:])
	b.WriteByte('[')
	b.WriteRune(r)
	b.WriteByte(']')
	rest := src[offset+size:]
	end := 0
	for n := 0; n < window && end < len(rest); n++ {
		_, s := utf8.DecodeRuneInString(rest[end:])
		end += s
	}
	b.WriteString(rest[:end])
	if end < len(rest) {
		b.WriteString("...")
	}
	return flatten(b.String())
}

func flatten(s string) string {
	return strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`).Replace(s)
}
