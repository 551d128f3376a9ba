package fonts

import "testing"

func TestLoadBuiltin(t *testing.T) {
	for _, name := range Names() {
		data, err := Load("embed:" + name)
		if err != nil || len(data) == 0 {
			t.Fatalf("内置字体 %s 读取失败: %v", name, err)
		}
	}
	if _, err := Load("Inter-Regular.ttf"); err == nil {
		t.Fatalf("不存在的字体应返回错误")
	}
}

func TestForStyle(t *testing.T) {
	if ForStyle(true, true) != BoldItalic || ForStyle(false, false) != Regular || ForStyle(false, true) != Italic {
		t.Fatalf("样式到字体的映射不正确")
	}
}
