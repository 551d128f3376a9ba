package canvasrenderer

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/ByLCY/richtext/glyph"
	"github.com/ByLCY/richtext/layout"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestGlyphMetricsFromFallbackFont(t *testing.T) {
	r := NewRenderer("")
	spec := glyph.FontSpec{Size: 12}

	wide, err := r.GlyphMetrics('W', spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	narrow, err := r.GlyphMetrics('i', spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wide.Advance <= 0 || narrow.Advance <= 0 {
		t.Fatalf("advance must be positive: W=%g i=%g", wide.Advance, narrow.Advance)
	}
	if narrow.Advance >= wide.Advance {
		t.Fatalf("expected 'i' narrower than 'W': %g >= %g", narrow.Advance, wide.Advance)
	}
	if wide.Height <= 0 || wide.Height > 12 {
		t.Fatalf("outline height out of range: %+v", wide)
	}
	desc, err := r.GlyphMetrics('g', spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.YOffset >= 0 {
		t.Fatalf("descender quad should start below the baseline: %+v", desc)
	}
}

// TestGlyphMetricsUseOutline 验证支距与墨迹宽度来自字形轮廓，镜像修正因此非零。
func TestGlyphMetricsUseOutline(t *testing.T) {
	r := NewRenderer("")
	regular := glyph.FontSpec{Size: 40}
	o, err := r.GlyphMetrics('o', regular)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Bearing <= 0 || o.Width <= 0 || o.Width >= o.Advance {
		t.Fatalf("'o' should have a left bearing and ink narrower than its advance: %+v", o)
	}

	italic := glyph.FontSpec{Size: 40, Style: glyph.Italic}
	corrected := false
	for _, ch := range "fjLr" {
		m, err := r.GlyphMetrics(ch, italic)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		g := glyph.NewFont(ch, italic, m)
		if g.RightBearingDiff() != 0 {
			corrected = true
		}
	}
	if !corrected {
		t.Fatalf("italic glyphs should yield a non-zero right bearing correction")
	}

	space, err := r.GlyphMetrics(' ', regular)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if space.Bearing != 0 || space.Width != space.Advance {
		t.Fatalf("glyphs without outline keep the advance box: %+v", space)
	}
}

// TestFontMetricsScaleWithSize 验证字号翻倍时上升部也翻倍（单位 pt）。
func TestFontMetricsScaleWithSize(t *testing.T) {
	r := NewRenderer("")
	small, err := r.FontMetrics(glyph.FontSpec{Size: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	large, err := r.FontMetrics(glyph.FontSpec{Size: 24})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if small.Ascent <= 0 || small.Descent <= 0 {
		t.Fatalf("invalid metrics: %+v", small)
	}
	if diff := math.Abs(large.Ascent - 2*small.Ascent); diff > 1e-3 {
		t.Fatalf("ascent does not scale: small=%g large=%g", small.Ascent, large.Ascent)
	}
}

func TestBoldFaceDiffersFromRegular(t *testing.T) {
	r := NewRenderer("")
	regular, err := r.GlyphMetrics('m', glyph.FontSpec{Size: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bold, err := r.GlyphMetrics('m', glyph.FontSpec{Size: 12, Style: glyph.Bold})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if regular.Advance == bold.Advance {
		t.Fatalf("expected bold fallback face, both advances are %g", regular.Advance)
	}
}

func TestUnknownFamilyFallsBack(t *testing.T) {
	r := NewRenderer("")
	m, err := r.GlyphMetrics('a', glyph.FontSpec{Family: "NoSuchFont", Size: 12})
	if err != nil {
		t.Fatalf("unknown family should fall back: %v", err)
	}
	if m.Advance <= 0 {
		t.Fatalf("invalid advance: %g", m.Advance)
	}
}

func TestImageSizeFromPixels(t *testing.T) {
	r := NewRendererWithOptions(Options{Images: map[string]Resource{"dot": {Bytes: pngBytes(t, 8, 4)}}})
	info, ok := r.Image("dot")
	if !ok {
		t.Fatalf("expected image dot")
	}
	if info.Width != 6 || info.Height != 3 {
		t.Fatalf("unexpected size: %gx%g", info.Width, info.Height)
	}
	if _, ok := r.Image("missing"); ok {
		t.Fatalf("missing image should not resolve")
	}
}

func TestLayoutAndRenderPDF(t *testing.T) {
	r := NewRendererWithOptions(Options{
		Images: map[string]Resource{"dot": {Bytes: pngBytes(t, 8, 8)}},
		Meta:   Meta{Title: "preview"},
	})
	e, err := layout.New(`hello <b>world</b> <u>again</u><img src="dot"/>`, layout.Options{
		Width:  80,
		Fonts:  r,
		Images: r,
	})
	if err != nil {
		t.Fatalf("layout.New error: %v", err)
	}
	frame, err := e.Layout()
	if err != nil {
		t.Fatalf("layout error: %v", err)
	}
	if len(frame.Lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(frame.Lines))
	}
	for i, line := range frame.Lines {
		if line.Width-80 > 1e-6 {
			t.Fatalf("line %d width exceeds limit: %g", i, line.Width)
		}
	}
	if len(frame.Images) != 1 {
		t.Fatalf("expected one inline image, got %d", len(frame.Images))
	}

	data, err := r.Render(frame)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderRejectsEmptyFrame(t *testing.T) {
	r := NewRenderer("")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("nil frame should fail")
	}
	if _, err := r.Render(&layout.Frame{}); err == nil {
		t.Fatalf("zero sized frame should fail")
	}
}
