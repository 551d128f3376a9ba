package binding

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("解析 JSON 失败: %v", err)
	}
	return v
}

func TestInterpolatePaths(t *testing.T) {
	data := decode(t, `{"user":{"name":"Ada","tags":["x","y"]},"count":3,"ratio":1.5}`)
	got := Interpolate("${user.name} ${user.tags[1]} ${count} ${ratio}", data)
	if got != "Ada y 3 1.5" {
		t.Fatalf("插值结果不正确: %q", got)
	}
}

func TestInterpolateEscapesMarkup(t *testing.T) {
	data := decode(t, `{"v":"<b>&"}`)
	if got := Interpolate("x${v}", data); got != "x&lt;b&gt;&amp;" {
		t.Fatalf("插入值应被转义: %q", got)
	}
	if got := Interpolate("${raw:v}", data); got != "<b>&" {
		t.Fatalf("raw 占位符不应转义: %q", got)
	}
}

func TestBindReportsMissing(t *testing.T) {
	data := decode(t, `{"a":[1]}`)
	got, err := Bind("${a[3]} ${b}", data)
	if err == nil {
		t.Fatalf("缺失路径应返回错误")
	}
	if got != "${a[3]} ${b}" {
		t.Fatalf("缺失路径应保留占位符: %q", got)
	}
	if out, err := Bind("${a}", nil); err != nil || out != "${a}" {
		t.Fatalf("无数据时应原样返回: %q %v", out, err)
	}
}
