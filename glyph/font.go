package glyph

import "strings"

// FontStyle 是作用于字体字形的样式位集合。
type FontStyle uint8

const (
	Bold FontStyle = 1 << iota
	Italic
	Underline
	Strikethrough
)

// Has 报告 flag 的所有位是否均已设置。
func (s FontStyle) Has(flag FontStyle) bool { return s&flag == flag }

func (s FontStyle) String() string {
	if s == 0 {
		return "Regular"
	}
	var parts []string
	for _, f := range []struct {
		flag FontStyle
		name string
	}{{Bold, "Bold"}, {Italic, "Italic"}, {Underline, "Underline"}, {Strikethrough, "Strikethrough"}} {
		if s.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// FontSpec 标识一个带字号的字体面，Size 单位为 pt。
type FontSpec struct {
	Family string    `json:"family"`
	Size   float64   `json:"size"`
	Style  FontStyle `json:"style"`
}

// FontMetrics 是字体面的纵向度量，Descent 为正值。
type FontMetrics struct {
	Ascent     float64
	Descent    float64
	LineHeight float64
}

// Metrics 描述字体面中的一个字形。YOffset 是四边形底边相对基线的偏移，Bearing 是左侧支距。
type Metrics struct {
	Advance float64
	Bearing float64
	Width   float64
	Height  float64
	YOffset float64
}

// FontSource 提供字体度量查询。字体是外部只读资源，布局从不修改。
type FontSource interface {
	FontMetrics(spec FontSpec) (FontMetrics, error)
	GlyphMetrics(r rune, spec FontSpec) (Metrics, error)
}

// UVRect 是归一化坐标下的纹理矩形。
type UVRect struct {
	U0, V0, U1, V1 float32
}

// Atlas 将字体字形映射到纹理坐标，字形（尚）不在图集中时 ok 为 false。
type Atlas interface {
	GlyphUV(r rune, spec FontSpec) (uv UVRect, ok bool)
}

// ImageInfo 描述宿主已知的内联图片。
type ImageInfo struct {
	Width  float64
	Height float64
	UV     UVRect
}

// ImageSource 解析内联图片 id。
type ImageSource interface {
	Image(id string) (ImageInfo, bool)
}
