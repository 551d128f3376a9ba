// Package layout 负责把富文本源码排成带坐标的字形行。
//
// Engine 拥有一份文档，流水线的每个阶段由 workflow 调度器按位掩码驱动：
// 修改输入只会重新要求受影响的阶段及其下游。
package layout

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/ByLCY/richtext/align"
	"github.com/ByLCY/richtext/glyph"
	"github.com/ByLCY/richtext/markup"
	"github.com/ByLCY/richtext/runs"
	"github.com/ByLCY/richtext/shaping"
	"github.com/ByLCY/richtext/workflow"
)

// ErrNoFonts 表示 Options 中缺少字体来源。
var ErrNoFonts = errors.New("layout: 缺少字体来源 Options.Fonts")

// Engine 是单个文档的增量布局引擎，非并发安全。
type Engine struct {
	opts       Options
	text       string
	maxVisible int // < 0 表示不限制
	model      *workflow.Model
	log        *slog.Logger

	doc     *markup.Document
	runs    []runs.Run
	items   []item
	carets  []shaping.CaretUnit
	textLen int
	paras   []paragraph
	glyphs  []paraGlyphs

	scale       float64
	lines       []glyph.Line
	lineAligns  []*align.Alignment
	blockHeight float64

	visible int
	yOffset float64
	images  []ImageBox
	verts   []glyph.Vertex
	quads   []*glyph.Glyph
	frame   *Frame
}

// New 创建引擎。此时只有 initialize 阶段被标记，调用 Update 或 Layout 才会真正排版。
func New(text string, opts Options) (*Engine, error) {
	if opts.Fonts == nil {
		return nil, ErrNoFonts
	}
	opts = opts.withDefaults()
	log := Logger()
	e := &Engine{
		opts:       opts,
		text:       text,
		maxVisible: -1,
		log:        log,
		scale:      1,
	}
	if opts.MaxVisible > 0 {
		e.maxVisible = opts.MaxVisible
	}
	e.model = workflow.NewModel(Pipeline, StageInitialize, log)
	return e, nil
}

// Update 最多执行 budget 个阶段（<= 0 表示直到完成），返回执行的阶段数。
// 失败的阶段保留其标记，下次调用会重试。
func (e *Engine) Update(budget int) (int, error) {
	return e.model.Drive(budget, e.run)
}

// Layout 执行全部待处理阶段并返回最新结果。
func (e *Engine) Layout() (*Frame, error) {
	if _, err := e.Update(0); err != nil {
		return nil, err
	}
	return e.frame, nil
}

// Model 返回调度模型，宿主可以借此查询或直接要求阶段。
func (e *Engine) Model() *workflow.Model { return e.model }

// Pending 报告是否还有未执行的阶段。
func (e *Engine) Pending() bool { return !e.model.Idle() }

// SetText 替换源码，从 parse 阶段开始重排。
func (e *Engine) SetText(text string) error {
	e.text = text
	return e.model.Require(StageParse)
}

// SetSize 修改容器尺寸，从 fit 阶段开始重排。
func (e *Engine) SetSize(width, height float64) error {
	e.opts.Width, e.opts.Height = width, height
	return e.model.Require(StageFit)
}

// SetAlignment 修改默认对齐方式，只重算行的水平位置。
func (e *Engine) SetAlignment(a align.Alignment, s align.Strategy) error {
	e.opts.Align, e.opts.Strategy = a, s
	return e.model.Require(StageParagraphX)
}

// SetVerticalAlign 修改垂直对齐方式。
func (e *Engine) SetVerticalAlign(v VerticalAlign) error {
	e.opts.VAlign = v
	return e.model.Require(StageVerticalOffset)
}

// SetMaxVisible 设置可见字符数，n < 0 表示全部可见。
func (e *Engine) SetMaxVisible(n int) error {
	e.maxVisible = n
	return e.model.Require(StageVisible)
}

// SetColor 修改默认颜色，只需重新生成顶点。
func (e *Engine) SetColor(c color.RGBA) error {
	e.opts.Color = c
	return e.model.Require(StageVertices)
}

// InvalidateAtlas 在图集重建后刷新纹理坐标。
func (e *Engine) InvalidateAtlas() error {
	return e.model.Require(StageUV)
}

// Document 返回最近一次成功解析的标记树。
func (e *Engine) Document() *markup.Document { return e.doc }

// Runs 返回展开后的文本段序列。
func (e *Engine) Runs() []runs.Run { return e.runs }

// Carets 返回字簇到逻辑字符区间的映射。
func (e *Engine) Carets() []shaping.CaretUnit { return e.carets }

// Lines 返回已定位的行，Y 为相对文本块顶部的基线。
func (e *Engine) Lines() []glyph.Line { return e.lines }

// Scale 返回 fit 阶段选定的缩放比例。
func (e *Engine) Scale() float64 { return e.scale }

// Vertices 返回可见字形的顶点。
func (e *Engine) Vertices() []glyph.Vertex { return e.verts }

// Frame 返回最近一次 render 阶段的结果。
func (e *Engine) Frame() *Frame { return e.frame }

func (e *Engine) run(s workflow.Stage) error {
	switch s {
	case StageInitialize:
		return e.initialize()
	case StageParse:
		return e.parse()
	case StageRuns:
		return e.flatten()
	case StageShape:
		return e.shape()
	case StageParagraphs:
		e.paragraphs()
		return nil
	case StageGlyphs:
		return e.createGlyphs()
	case StageFit:
		e.fit()
		return nil
	case StagePlace:
		e.place()
		return nil
	case StageLineY:
		e.lineY()
		return nil
	case StageParagraphX:
		e.paragraphX()
		return nil
	case StageVisible:
		e.visibleRange()
		return nil
	case StageVerticalOffset:
		e.verticalOffset()
		return nil
	case stageJoin:
		return nil
	case StageInlineImages:
		e.inlineImages()
		return nil
	case StageVertices:
		e.emitVertices()
		return nil
	case StageUV:
		e.updateUV()
		return nil
	case StageRender:
		return e.render()
	}
	return fmt.Errorf("bit %d: %w", s, workflow.ErrUnknownStage)
}

// initialize 清空所有派生状态，并要求整条流水线重新执行。
func (e *Engine) initialize() error {
	e.doc, e.runs, e.items, e.carets = nil, nil, nil, nil
	e.paras, e.glyphs, e.lines, e.lineAligns = nil, nil, nil, nil
	e.images, e.verts, e.quads, e.frame = nil, nil, nil, nil
	e.textLen, e.scale, e.blockHeight, e.visible, e.yOffset = 0, 1, 0, 0, 0
	return e.model.Require(StageParse)
}

func (e *Engine) parse() error {
	doc, err := markup.Parse(e.text)
	if err != nil {
		e.doc = nil
		return err
	}
	e.doc = doc
	return nil
}

func (e *Engine) flatten() error {
	rs, err := runs.Flatten(e.doc)
	if err != nil {
		e.runs = nil
		return err
	}
	e.runs = rs
	e.log.Debug("layout: 文本段展开完成", "runs", len(rs))
	return nil
}
