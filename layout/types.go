package layout

// 该文件定义 render 阶段交给宿主的结果，也是调试 JSON 的结构。

import (
	"image/color"

	"github.com/ByLCY/richtext/glyph"
	"github.com/ByLCY/richtext/shaping"
)

// Frame 是一次完整布局的输出。坐标单位为 pt，原点在容器左下角。
type Frame struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Scale   float64 `json:"scale"`
	Visible int     `json:"visible"`

	Lines  []LineBox           `json:"lines"`
	Images []ImageBox          `json:"images,omitempty"`
	Carets []shaping.CaretUnit `json:"carets"`

	// Vertices 按字形顺序排列，每 4 个顶点构成一个四边形。
	Vertices []glyph.Vertex `json:"-"`
}

// LineBox 描述一行。X 为对齐偏移，Y 为基线。
type LineBox struct {
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Width     float64    `json:"width"`
	Ascent    float64    `json:"ascent"`
	Descent   float64    `json:"descent"`
	Align     string     `json:"align"`
	Paragraph int        `json:"paragraph"`
	Last      bool       `json:"lastInParagraph"`
	Glyphs    []GlyphBox `json:"glyphs"`
}

// GlyphBox 是一个已定位字形的最终四边形。
type GlyphBox struct {
	Char     string         `json:"char"`
	Left     float64        `json:"left"`
	Bottom   float64        `json:"bottom"`
	Right    float64        `json:"right"`
	Top      float64        `json:"top"`
	Origin   float64        `json:"origin"`   // 绘制起点（笔位置），等于 Left 减去左侧支距
	Baseline float64        `json:"baseline"` // 字形所在基线，注音与附加符号含自身偏移
	Font     glyph.FontSpec `json:"font"`
	Color    Color          `json:"color"`
	Source   int            `json:"source"`
	Sub      bool           `json:"sub,omitempty"`
	Image    string         `json:"image,omitempty"`
}

// ImageBox 记录内联图片在容器中的位置。
type ImageBox struct {
	ID     string       `json:"id"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	UV     glyph.UVRect `json:"uv"`
	Source int          `json:"source"`
}

// Color 采用 0-255 的 RGBA 数值，颜色分量未预乘 alpha。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// colorOf 将预乘的 color.RGBA 还原为未预乘的分量。
func colorOf(c color.RGBA) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// RGBA 转回预乘的 image/color。
func (c Color) RGBA() color.RGBA {
	return color.RGBAModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}).(color.RGBA)
}
