package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/richtext/align"
	"github.com/ByLCY/richtext/binding"
	"github.com/ByLCY/richtext/glyph"
	"github.com/ByLCY/richtext/layout"
	canvasrenderer "github.com/ByLCY/richtext/renderer/canvas"
	"github.com/ByLCY/richtext/runs"
)

// config 收集命令行参数。
type config struct {
	input, output, data         string
	width, height, lineHeight   string
	alignment, strategy, valign string
	wrap, font, color           string
	size                        float64
	maxVisible                  int
	autoSize, compress, verbose bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "-", "富文本标记文件路径，- 表示标准输入")
	flag.StringVar(&cfg.output, "out", "", "输出路径：.pdf 输出预览，.json 输出布局帧；为空时向标准输出写 JSON")
	flag.StringVar(&cfg.data, "data", "", "绑定到 ${path} 占位符的 JSON 数据")
	flag.StringVar(&cfg.width, "width", "0", "容器宽度，例如 300、120mm，0 表示不限")
	flag.StringVar(&cfg.height, "height", "0", "容器高度，0 表示不限")
	flag.StringVar(&cfg.lineHeight, "line-height", "", "行高，例如 1.2x 或 18pt")
	flag.StringVar(&cfg.alignment, "align", "left", "默认对齐：left/center/right/justify/justify-all")
	flag.StringVar(&cfg.strategy, "justify", "inter-character", "两端对齐策略：inter-character/inter-word/auto")
	flag.StringVar(&cfg.valign, "valign", "top", "垂直对齐：top/middle/bottom")
	flag.StringVar(&cfg.wrap, "wrap", "normal", "换行模式：normal/nowrap/break-word")
	flag.StringVar(&cfg.font, "font", "", "默认字体族，可为注入路径或 embed:Go-Regular.ttf")
	flag.StringVar(&cfg.color, "color", "", "默认颜色，例如 #1e1e1e")
	flag.Float64Var(&cfg.size, "size", 12, "默认字号（pt）")
	flag.IntVar(&cfg.maxVisible, "visible", 0, "可见字符数，0 表示全部")
	flag.BoolVar(&cfg.autoSize, "autosize", false, "超出高度时自动缩小字号")
	flag.BoolVar(&cfg.compress, "compress-punct", false, "压缩行首全角开括号")
	flag.BoolVar(&cfg.verbose, "v", false, "输出调试日志")
	flag.Parse()

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	layout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("排版失败: %v", err)
	}
}

// run 串联读取、绑定、布局与输出。
func run(cfg config, stdout io.Writer) error {
	src, err := readInput(cfg.input)
	if err != nil {
		return err
	}
	if cfg.data != "" {
		var data any
		if err := json.Unmarshal([]byte(cfg.data), &data); err != nil {
			return fmt.Errorf("解析 data JSON 失败: %w", err)
		}
		if src, err = binding.Bind(src, data); err != nil {
			slog.Warn("部分占位符未绑定", "err", err)
		}
	}

	baseDir := "."
	if cfg.input != "-" {
		baseDir = filepath.Dir(cfg.input)
	}
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: baseDir,
		Meta:    canvasrenderer.Meta{Title: filepath.Base(cfg.input), Creator: "richtext"},
	})
	opts, err := buildOptions(cfg, r)
	if err != nil {
		return err
	}

	e, err := layout.New(src, opts)
	if err != nil {
		return err
	}
	frame, err := e.Layout()
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	switch strings.ToLower(filepath.Ext(cfg.output)) {
	case "":
		data, err := layout.MarshalDebugJSON(frame)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	case ".pdf":
		if err := os.MkdirAll(filepath.Dir(cfg.output), 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
		pdfBytes, err := r.Render(frame)
		if err != nil {
			return fmt.Errorf("渲染 PDF 失败: %w", err)
		}
		if err := os.WriteFile(cfg.output, pdfBytes, 0o644); err != nil {
			return fmt.Errorf("写入 PDF 文件失败: %w", err)
		}
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.output), 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(frame, cfg.output); err != nil {
			return fmt.Errorf("输出布局 JSON 失败: %w", err)
		}
	}
	fmt.Fprintf(os.Stderr, "已生成：%s\n", cfg.output)
	return nil
}

func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("无法读取输入 %s: %w", path, err)
	}
	return string(data), nil
}

func buildOptions(cfg config, r *canvasrenderer.Renderer) (layout.Options, error) {
	opts := layout.Options{
		Font:                glyph.FontSpec{Family: cfg.font, Size: cfg.size},
		MaxVisible:          cfg.maxVisible,
		AutoSize:            cfg.autoSize,
		CompressPunctuation: cfg.compress,
		Fonts:               r,
		Images:              r,
	}
	var err error
	if opts.Width, err = parsePt(cfg.width); err != nil {
		return opts, fmt.Errorf("width 无效: %w", err)
	}
	if opts.Height, err = parsePt(cfg.height); err != nil {
		return opts, fmt.Errorf("height 无效: %w", err)
	}
	if cfg.lineHeight != "" {
		if opts.LineHeight, err = runs.ParseLineHeight(cfg.lineHeight); err != nil {
			return opts, err
		}
	}
	if cfg.color != "" {
		if opts.Color, err = runs.ParseColor(cfg.color); err != nil {
			return opts, err
		}
	}
	if opts.Align, err = align.Parse(cfg.alignment); err != nil {
		return opts, err
	}
	if opts.Strategy, err = align.ParseStrategy(cfg.strategy); err != nil {
		return opts, err
	}
	if opts.VAlign, err = layout.ParseVerticalAlign(cfg.valign); err != nil {
		return opts, err
	}
	if opts.Wrap, err = layout.ParseWrap(cfg.wrap); err != nil {
		return opts, err
	}
	return opts, nil
}

func parsePt(s string) (float64, error) {
	l, err := runs.ParseLength(s)
	if err != nil {
		return 0, err
	}
	return l.ToPT(), nil
}
