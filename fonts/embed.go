package fonts

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体名，均来自 Go 字体家族。
const (
	Regular    = "Go-Regular.ttf"
	Bold       = "Go-Bold.ttf"
	Italic     = "Go-Italic.ttf"
	BoldItalic = "Go-BoldItalic.ttf"
	Mono       = "Go-Mono.ttf"
)

var builtin = map[string][]byte{
	Regular:    goregular.TTF,
	Bold:       gobold.TTF,
	Italic:     goitalic.TTF,
	BoldItalic: gobolditalic.TTF,
	Mono:       gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:Go-Regular.ttf" 或直接 "Go-Regular.ttf"。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "embed:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}

// Names 返回全部内置字体名。
func Names() []string {
	return slices.Sorted(maps.Keys(builtin))
}

// ForStyle 返回与样式最接近的内置字体名。
func ForStyle(bold, italic bool) string {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	}
	return Regular
}
