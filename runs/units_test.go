package runs

import (
	"image/color"
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestParseLength 覆盖常见单位到 pt 的换算以及非法输入。
func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{"12pt", 12},
		{"1in", 72},
		{"2.54cm", 72},
		{"25.4mm", 72},
		{" -3PT ", -3},
	}
	for _, tc := range cases {
		l, err := ParseLength(tc.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) error: %v", tc.in, err)
		}
		if got := l.ToPT(); math.Abs(got-tc.want) > 1e-3 {
			t.Fatalf("ParseLength(%q) = %gpt, want %g", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "pt", "abc", "12px", "NaN", "inf", "+Infpt", "-inf"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) should fail", bad)
		}
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种语义。
func TestLineHeightResolve(t *testing.T) {
	factor, err := ParseLineHeight("1.5x")
	if err != nil {
		t.Fatalf("parse factor: %v", err)
	}
	if got := factor.Resolve(10); math.Abs(got-15) > 1e-9 {
		t.Fatalf("1.5x of 10 = %g, want 15", got)
	}
	abs, err := ParseLineHeight("6mm")
	if err != nil {
		t.Fatalf("parse absolute: %v", err)
	}
	if got := abs.Resolve(10); math.Abs(got-6*MmToPt) > 1e-9 {
		t.Fatalf("6mm resolve = %g", got)
	}
	for _, bad := range []string{"0x", "nanx", "infx", "NaN"} {
		if _, err := ParseLineHeight(bad); err == nil {
			t.Fatalf("ParseLineHeight(%q) should be rejected", bad)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#0F62FE")
	if err != nil || c.R != 0x0f || c.G != 0x62 || c.B != 0xfe || c.A != 0xff {
		t.Fatalf("ParseColor = %+v, %v", c, err)
	}
	c, err = ParseColor("#f008")
	if err == nil {
		t.Fatalf("4-digit color should fail, got %+v", c)
	}
	c, err = ParseColor("#abc")
	if err != nil || c.R != 0xaa || c.B != 0xcc {
		t.Fatalf("short color = %+v, %v", c, err)
	}
	c, err = ParseColor("#ff000080")
	if err != nil || c != (color.RGBA{R: 0x80, A: 0x80}) {
		t.Fatalf("alpha color should be premultiplied, got %+v, %v", c, err)
	}
	if _, err := ParseColor("red"); err == nil {
		t.Fatalf("named colors are not supported")
	}
}
