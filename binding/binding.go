// Package binding 将 JSON 数据绑定到富文本标记中的 ${path} 占位符。
package binding

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// rawPrefix 标记的占位符原样插入，值可以携带标签。
const rawPrefix = "raw:"

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 插入的值会做转义，不会被当作标签解析；${raw:path} 跳过转义。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	out, _ := Bind(text, data)
	return out
}

// Bind 与 Interpolate 相同，但会汇总无法解析的路径作为错误返回。
func Bind(text string, data any) (string, error) {
	if data == nil {
		return text, nil
	}
	var errs []error
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		raw := strings.HasPrefix(path, rawPrefix)
		path = strings.TrimSpace(strings.TrimPrefix(path, rawPrefix))
		if path == "" {
			return match
		}
		val, ok := resolvePath(data, path)
		if !ok {
			errs = append(errs, fmt.Errorf("绑定路径 %s 不存在", path))
			return match
		}
		s := format(val)
		if raw {
			return s
		}
		return html.EscapeString(s)
	})
	return out, errors.Join(errs...)
}

// format 输出 JSON 解码后的标量；整数值的 float64 不带小数部分。
func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			if current, ok = descendMap(current, name); !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			if current, ok = descendArray(current, idx); !ok {
				return nil, false
			}
		}
	}
	return current, true
}

// parseSegment 拆分 name[0][1] 形式的路径段。
func parseSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, true
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for len(rest) > 0 {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
