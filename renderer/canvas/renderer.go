package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/richtext/fonts"
	"github.com/ByLCY/richtext/glyph"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/renderer"
	"github.com/ByLCY/richtext/runs"
)

// 下划线与删除线相对字号的位置和粗细。
const (
	underlineOffset = 0.12
	strikeOffset    = 0.3
	decorationWidth = 0.06
)

// pxToPt 按 96 DPI 将图片像素换算为点。
const pxToPt = 0.75

// Renderer 基于 github.com/tdewolff/canvas 测量字体并绘制布局结果。
// 它同时作为布局引擎的 glyph.FontSource 与 glyph.ImageSource，断行与绘制使用同一套度量。
type Renderer struct {
	baseDir string
	meta    Meta

	// 注入的资源
	fontBlobs  map[string][]byte // 按字体族名
	imageBlobs map[string][]byte // 按图片 id

	fontMu       sync.Mutex
	fontFamilies map[familyKey]*canvas.FontFamily
	faces        map[glyph.FontSpec]*canvas.FontFace
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ glyph.FontSource  = (*Renderer)(nil)
	_ glyph.ImageSource = (*Renderer)(nil)
)

type familyKey struct {
	name  string
	style canvas.FontStyle
}

// Options 配置 canvas 渲染器。
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // 按字体族名注入，FontSpec.Family 命中时使用
	Images  map[string]Resource // 按内联图片 id 注入
	Meta    Meta
}

// Meta 写入 PDF 文档信息。
type Meta struct {
	Title    string
	Subject  string
	Author   string
	Creator  string
	Keywords []string
}

// Resource 可以通过 Bytes 或 Path 提供。
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer 创建以 baseDir 为资源根目录的 canvas 渲染器。
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions 使用注入资源和可选 baseDir 创建渲染器。
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		meta:         opts.Meta,
		fontBlobs:    ingest(opts.Fonts),
		imageBlobs:   ingest(opts.Images),
		fontFamilies: map[familyKey]*canvas.FontFamily{},
		faces:        map[glyph.FontSpec]*canvas.FontFace{},
	}
	return r
}

func ingest(res map[string]Resource) map[string][]byte {
	blobs := make(map[string][]byte, len(res))
	for name, rs := range res {
		if name == "" {
			continue
		}
		if len(rs.Bytes) > 0 {
			blobs[name] = rs.Bytes
			continue
		}
		if rs.Path != "" {
			data, _ := os.ReadFile(rs.Path) // 读取失败在实际使用时回退或报错
			if len(data) > 0 {
				blobs[name] = data
			}
		}
	}
	return blobs
}

// FontMetrics 实现 glyph.FontSource。canvas 的度量单位为 mm，这里统一换算为 pt。
func (r *Renderer) FontMetrics(spec glyph.FontSpec) (glyph.FontMetrics, error) {
	face, err := r.face(spec)
	if err != nil {
		return glyph.FontMetrics{}, err
	}
	m := face.Metrics()
	return glyph.FontMetrics{
		Ascent:     toPt(m.Ascent),
		Descent:    toPt(m.Descent),
		LineHeight: toPt(m.LineHeight),
	}, nil
}

// GlyphMetrics 实现 glyph.FontSource。四边形取字形轮廓的包围盒（字体单位按 em 换算为 pt），
// 没有轮廓的字形（空格等）退回到整行框，宽度等于步进。
func (r *Renderer) GlyphMetrics(ch rune, spec glyph.FontSpec) (glyph.Metrics, error) {
	face, err := r.face(spec)
	if err != nil {
		return glyph.Metrics{}, err
	}
	m := face.Metrics()
	adv := toPt(face.TextWidth(string(ch)))
	gm := glyph.Metrics{
		Advance: adv,
		Width:   adv,
		Height:  toPt(m.Ascent + m.Descent),
		YOffset: -toPt(m.Descent),
	}
	sfnt := face.Font.SFNT
	if sfnt == nil || sfnt.Head.UnitsPerEm == 0 {
		return gm, nil
	}
	gid := sfnt.GlyphIndex(ch)
	if gid == 0 {
		return gm, nil
	}
	xMin, yMin, xMax, yMax := sfnt.GlyphBounds(gid)
	if xMax <= xMin || yMax <= yMin {
		return gm, nil
	}
	ptPerUnit := spec.Size / float64(sfnt.Head.UnitsPerEm)
	gm.Bearing = float64(xMin) * ptPerUnit
	gm.Width = (float64(xMax) - float64(xMin)) * ptPerUnit
	gm.YOffset = float64(yMin) * ptPerUnit
	gm.Height = (float64(yMax) - float64(yMin)) * ptPerUnit
	return gm, nil
}

// Image 实现 glyph.ImageSource，尺寸按 96 DPI 由像素换算。
func (r *Renderer) Image(id string) (glyph.ImageInfo, bool) {
	blob, err := r.imageBytes(id)
	if err != nil {
		return glyph.ImageInfo{}, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(blob))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return glyph.ImageInfo{}, false
	}
	return glyph.ImageInfo{
		Width:  float64(cfg.Width) * pxToPt,
		Height: float64(cfg.Height) * pxToPt,
		UV:     glyph.UVRect{U1: 1, V1: 1},
	}, true
}

// Render 将布局结果渲染为单页 PDF 字节。
func (r *Renderer) Render(frame *layout.Frame) ([]byte, error) {
	if frame == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	w, h := toMm(frame.Width), toMm(frame.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %gx%g", frame.Width, frame.Height)
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	r.applyMeta(writer)
	c := canvas.New(w, h)
	// 布局坐标以左下角为原点、Y 轴向上，与 canvas 默认坐标系一致
	ctx := canvas.NewContext(c)
	if err := r.drawLines(ctx, frame.Lines); err != nil {
		return nil, err
	}
	if err := r.drawImages(ctx, frame.Images); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	if writer == nil {
		return
	}
	keywords := strings.Join(r.meta.Keywords, ", ")
	writer.SetInfo(r.meta.Title, r.meta.Subject, keywords, r.meta.Author, r.meta.Creator)
}

func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.LineBox) error {
	for _, line := range lines {
		for _, g := range line.Glyphs {
			if g.Image != "" || strings.TrimSpace(g.Char) == "" {
				continue
			}
			if err := r.drawGlyph(ctx, g); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) drawGlyph(ctx *canvas.Context, g layout.GlyphBox) error {
	family, style, err := r.family(g.Font)
	if err != nil {
		return err
	}
	col := colorFromLayout(g.Color)
	face := family.Face(g.Font.Size, col, style, canvas.FontNormal)
	textLine := canvas.NewTextLine(face, g.Char, canvas.Left)
	ctx.DrawText(toMm(g.Origin), toMm(g.Baseline), textLine)

	width := toMm(g.Right - g.Left)
	thickness := toMm(g.Font.Size * decorationWidth)
	ctx.SetFillColor(col)
	if g.Font.Style.Has(glyph.Underline) {
		y := toMm(g.Baseline - g.Font.Size*underlineOffset)
		ctx.DrawPath(toMm(g.Left), y, canvas.Rectangle(width, thickness))
	}
	if g.Font.Style.Has(glyph.Strikethrough) {
		y := toMm(g.Baseline + g.Font.Size*strikeOffset)
		ctx.DrawPath(toMm(g.Left), y, canvas.Rectangle(width, thickness))
	}
	return nil
}

func (r *Renderer) drawImages(ctx *canvas.Context, images []layout.ImageBox) error {
	for _, img := range images {
		blob, err := r.imageBytes(img.ID)
		if err != nil {
			return err
		}
		data, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return fmt.Errorf("解码图片 %s 失败: %w", img.ID, err)
		}
		width := toMm(img.Width)
		dpmm := 1.0
		if width > 0 && data.Bounds().Dx() > 0 {
			dpmm = float64(data.Bounds().Dx()) / width
		}
		ctx.DrawImage(toMm(img.X), toMm(img.Y), data, canvas.DPMM(dpmm))
	}
	return nil
}

func (r *Renderer) imageBytes(id string) ([]byte, error) {
	if blob, ok := r.imageBlobs[id]; ok {
		return blob, nil
	}
	if r.baseDir == "" && !filepath.IsAbs(id) {
		return nil, fmt.Errorf("找不到图片资源 %s", id)
	}
	path := id
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", id, err)
	}
	return data, nil
}

// face 返回用于度量的字体面，按 FontSpec 缓存。
func (r *Renderer) face(spec glyph.FontSpec) (*canvas.FontFace, error) {
	family, style, err := r.family(spec)
	if err != nil {
		return nil, err
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	key := glyph.FontSpec{Family: spec.Family, Size: spec.Size, Style: spec.Style &^ (glyph.Underline | glyph.Strikethrough)}
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	f := family.Face(spec.Size, canvas.RGBA(0, 0, 0, 1), style, canvas.FontNormal)
	r.faces[key] = f
	return f, nil
}

// family 解析字体族：注入的字体优先，其次是内置字体与 baseDir 下的路径，都失败时回退到 Go 字体。
func (r *Renderer) family(spec glyph.FontSpec) (*canvas.FontFamily, canvas.FontStyle, error) {
	style := fontStyle(spec.Style)
	key := familyKey{name: spec.Family, style: style}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, style, nil
	}
	data, err := r.loadFontBytes(spec.Family)
	if err != nil {
		data, err = fonts.Load(fonts.ForStyle(style&canvas.FontBold != 0, style&canvas.FontItalic != 0))
		if err != nil {
			return nil, style, err
		}
	}
	name := spec.Family
	if name == "" {
		name = "richtext-fallback"
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, style, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.fontFamilies[key] = family
	return family, style, nil
}

func (r *Renderer) loadFontBytes(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("未指定字体")
	}
	if blob, ok := r.fontBlobs[name]; ok {
		return blob, nil
	}
	if strings.HasPrefix(name, "embed:") {
		return fonts.Load(name)
	}
	path := name
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用注入字体或 embed:）", name)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func fontStyle(s glyph.FontStyle) canvas.FontStyle {
	result := canvas.FontRegular
	if s.Has(glyph.Bold) {
		result = canvas.FontBold
	}
	if s.Has(glyph.Italic) {
		result |= canvas.FontItalic
	}
	return result
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * runs.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * runs.PtToMm }
