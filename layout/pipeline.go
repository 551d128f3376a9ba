package layout

import "github.com/ByLCY/richtext/workflow"

// 布局流水线的阶段，位序号越小越靠下游。
const (
	StageRender workflow.Stage = iota
	StageUV
	StageVertices
	StageInlineImages
	stageJoin
	StageVerticalOffset
	StageVisible
	StageParagraphX
	StageLineY
	StagePlace
	StageFit
	StageGlyphs
	StageParagraphs
	StageShape
	StageRuns
	StageParse
	StageInitialize
)

// Pipeline 是所有引擎共享的阶段依赖图。
// place 之后的四个阶段互不依赖，由内部的 join 阶段汇合。
var Pipeline = workflow.MustGraph(
	workflow.Def{Stage: StageInitialize, Name: "initialize"},
	workflow.Def{Stage: StageParse, Name: "parse", Upstream: []workflow.Stage{StageInitialize}},
	workflow.Def{Stage: StageRuns, Name: "runs", Upstream: []workflow.Stage{StageParse}},
	workflow.Def{Stage: StageShape, Name: "shape", Upstream: []workflow.Stage{StageRuns}},
	workflow.Def{Stage: StageParagraphs, Name: "paragraphs", Upstream: []workflow.Stage{StageShape}},
	workflow.Def{Stage: StageGlyphs, Name: "glyphs", Upstream: []workflow.Stage{StageParagraphs}},
	workflow.Def{Stage: StageFit, Name: "fit", Upstream: []workflow.Stage{StageGlyphs}},
	workflow.Def{Stage: StagePlace, Name: "place", Upstream: []workflow.Stage{StageFit}},
	workflow.Def{Stage: StageLineY, Name: "line-y", Upstream: []workflow.Stage{StagePlace}},
	workflow.Def{Stage: StageParagraphX, Name: "paragraph-x", Upstream: []workflow.Stage{StagePlace}},
	workflow.Def{Stage: StageVisible, Name: "visible-range", Upstream: []workflow.Stage{StagePlace}},
	workflow.Def{Stage: StageVerticalOffset, Name: "vertical-offset", Upstream: []workflow.Stage{StagePlace}},
	workflow.Def{
		Stage:    stageJoin,
		Name:     "join",
		Upstream: []workflow.Stage{StageLineY, StageParagraphX, StageVisible, StageVerticalOffset},
		Internal: true,
	},
	workflow.Def{Stage: StageInlineImages, Name: "inline-images", Upstream: []workflow.Stage{stageJoin}},
	workflow.Def{Stage: StageVertices, Name: "vertices", Upstream: []workflow.Stage{StageInlineImages}},
	workflow.Def{Stage: StageUV, Name: "uv", Upstream: []workflow.Stage{StageVertices}},
	workflow.Def{Stage: StageRender, Name: "render", Upstream: []workflow.Stage{StageUV}},
)
