package glyph

import "image/color"

// Vertex 是字形四边形的一个角。
type Vertex struct {
	X, Y  float64
	Color color.RGBA
	U, V  float32
}

// 顶点输出顺序。使用方按此顺序索引四边形，不得更改。
//
//	字体: 左下, 左上, 右上, 右下
//	图片: 左下, 右下, 右上, 左上
var (
	fontWinding  = [4]int{0, 1, 2, 3}
	imageWinding = [4]int{0, 3, 2, 1}
)

func (g *Glyph) winding() [4]int {
	if g.Kind == ImageKind {
		return imageWinding
	}
	return fontWinding
}

func (g *Glyph) color(fallback color.RGBA) color.RGBA {
	if g.Kind == FontKind && g.Font.Color != nil {
		return *g.Font.Color
	}
	return fallback
}

// Emit 追加放在 (x, y) 处的字形的四个顶点。halfWidth 将四边形左移半个宽度，用于压缩行首开标点。
func (g *Glyph) Emit(buf []Vertex, x, y float64, fallback color.RGBA, halfWidth bool) []Vertex {
	return g.emit(buf, g.Bounds(x, y), fallback, halfWidth)
}

// EmitMirrored 用于先从左到右排列、再绕 axis 翻转的文本段（从右到左的文字）。
func (g *Glyph) EmitMirrored(buf []Vertex, x, y float64, fallback color.RGBA, halfWidth bool, axis float64) []Vertex {
	return g.emit(buf, g.MirroredBounds(x, y, axis), fallback, halfWidth)
}

func (g *Glyph) emit(buf []Vertex, b Box, fallback color.RGBA, halfWidth bool) []Vertex {
	if halfWidth {
		shift := (b.Right - b.Left) / 2
		b.Left -= shift
		b.Right -= shift
	}
	c := g.color(fallback)
	corners := b.Corners()
	uv := g.UV.corners()
	for _, i := range g.winding() {
		buf = append(buf, Vertex{X: corners[i].X, Y: corners[i].Y, Color: c, U: uv[i][0], V: uv[i][1]})
	}
	return buf
}

// ApplyUV 改写 g 之前输出的四边形的纹理坐标。
func (g *Glyph) ApplyUV(quad []Vertex) {
	uv := g.UV.corners()
	for k, i := range g.winding() {
		if k >= len(quad) {
			return
		}
		quad[k].U, quad[k].V = uv[i][0], uv[i][1]
	}
}

// corners 按 Box.Corners 的顺序返回纹理坐标。
func (r UVRect) corners() [4][2]float32 {
	return [4][2]float32{{r.U0, r.V0}, {r.U0, r.V1}, {r.U1, r.V1}, {r.U1, r.V0}}
}
