package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/cannedtext/layout"
	canvasrenderer "github.com/ByLCY/cannedtext/renderer/canvas"
)

var fitFlags struct {
	width      string
	height     string
	padding    string
	size       string
	font       string
	style      string
	lineHeight string
	wrap       string
	nowrap     bool
}

var fitCmd = &cobra.Command{
	Use:   "fit <text>",
	Short: "Fit one piece of text into a box and print the result as JSON",
	Long: `Fit one piece of text into a box and print the chosen font size,
the binding direction and the measured content size as JSON.

Examples:
  cannedtext fit "Hello world" --width 120mm --height 30mm
  cannedtext fit "SALE" --width 80mm --height 80mm --nowrap --font go:bold`,
	Args: cobra.ExactArgs(1),
	RunE: runFit,
}

func init() {
	f := fitCmd.Flags()
	f.StringVar(&fitFlags.width, "width", "100mm", "框宽度")
	f.StringVar(&fitFlags.height, "height", "30mm", "框高度")
	f.StringVar(&fitFlags.padding, "padding", "", "内边距")
	f.StringVar(&fitFlags.size, "size", "12pt", "初始字号")
	f.StringVar(&fitFlags.font, "font", "go:regular", "字体 src（go:* 内置字体或文件路径）")
	f.StringVar(&fitFlags.style, "font-style", "", "字体样式，例如 bold italic")
	f.StringVar(&fitFlags.lineHeight, "line-height", "", "行高，例如 1.2x 或 18pt")
	f.StringVar(&fitFlags.wrap, "wrap", "anywhere", "折行方式：anywhere/break-word/nowrap")
	f.BoolVar(&fitFlags.nowrap, "nowrap", false, "只按显式换行分行")
}

// fitReport 是 fit 命令输出的 JSON。
type fitReport struct {
	FontSize      int      `json:"fontSize"`
	Direction     string   `json:"direction"`
	Steps         int      `json:"steps"`
	Capped        bool     `json:"capped"`
	Fits          bool     `json:"fits"`
	ContentWidth  float64  `json:"contentWidth"`
	ContentHeight float64  `json:"contentHeight"`
	Lines         []string `json:"lines"`
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	req, err := fitRequest(args[0])
	if err != nil {
		return err
	}
	if cfg.Canning.Nowrap {
		req.Nowrap = true
	}

	r := canvasrenderer.NewRenderer(cfg.Render.BaseDir)
	box, err := layout.FitText(req, layout.BuildOptions{
		Typesetter: r,
		Canning:    canningOptions(cfg.Canning, logger),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("罐装失败: %w", err)
	}
	return writeFitReport(cmd, box)
}

func fitRequest(text string) (layout.TextRequest, error) {
	width, ok := layout.ParseLength(fitFlags.width)
	if !ok {
		return layout.TextRequest{}, fmt.Errorf("--width %q 不是合法长度", fitFlags.width)
	}
	height, ok := layout.ParseLength(fitFlags.height)
	if !ok {
		return layout.TextRequest{}, fmt.Errorf("--height %q 不是合法长度", fitFlags.height)
	}
	size, ok := layout.ParseLength(fitFlags.size)
	if !ok || size.Value <= 0 {
		return layout.TextRequest{}, fmt.Errorf("--size %q 不是合法字号", fitFlags.size)
	}
	// 字号按 pt 理解，除非显式写了其它单位
	if size.Unit == layout.UnitNone {
		size.Unit = layout.UnitPT
	}
	var padding float64
	if fitFlags.padding != "" {
		l, ok := layout.ParseLength(fitFlags.padding)
		if !ok {
			return layout.TextRequest{}, fmt.Errorf("--padding %q 不是合法长度", fitFlags.padding)
		}
		padding = l.ToMM()
	}

	return layout.TextRequest{
		Content:    strings.ReplaceAll(text, `\n`, "\n"),
		Width:      width.ToMM(),
		Height:     height.ToMM(),
		Padding:    padding,
		Font:       layout.FontResource{Name: "Body", Src: fitFlags.font, Style: fitFlags.style},
		FontSize:   int(size.ToPT() + 0.5),
		LineHeight: fitFlags.lineHeight,
		Wrap:       fitFlags.wrap,
		Nowrap:     fitFlags.nowrap,
	}, nil
}

func writeFitReport(cmd *cobra.Command, box layout.CannedBox) error {
	report := fitReport{
		FontSize:      box.FontSize,
		Direction:     box.Fit.Direction,
		Steps:         box.Fit.Steps,
		Capped:        box.Fit.Capped,
		Fits:          box.Fit.Fits,
		ContentWidth:  box.Fit.ContentWidth,
		ContentHeight: box.Fit.ContentHeight,
		Lines:         make([]string, 0, len(box.Lines)),
	}
	for _, ln := range box.Lines {
		report.Lines = append(report.Lines, ln.Content)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
