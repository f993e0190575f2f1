package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/ByLCY/cannedtext/canning"
	"github.com/ByLCY/cannedtext/dsl"
	"github.com/ByLCY/cannedtext/layout"
	"github.com/ByLCY/cannedtext/renderer"
	canvasrenderer "github.com/ByLCY/cannedtext/renderer/canvas"
)

var renderFlags struct {
	input    string
	output   string
	data     string
	dataFile string
	debug    string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Can every box of a document and write the PDF",
	RunE:  runRender,
}

func init() {
	addDocumentFlags(renderCmd)
	renderCmd.Flags().StringVar(&renderFlags.debug, "debug", "", "布局调试 JSON 输出路径")
}

// addDocumentFlags 注册 render 与 watch 共用的输入输出参数。
func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&renderFlags.input, "in", "", "DSL 文件路径")
	cmd.Flags().StringVar(&renderFlags.output, "out", "", "PDF 输出路径（默认取配置 render.output）")
	cmd.Flags().StringVar(&renderFlags.data, "data", "", "绑定到 DSL 的 JSON 数据")
	cmd.Flags().StringVar(&renderFlags.dataFile, "data-file", "", "绑定数据 JSON 文件")
	_ = cmd.MarkFlagRequired("in")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, err := newPipeline(cfg.Render.BaseDir, canningOptions(cfg.Canning, logger), logger)
	if err != nil {
		return err
	}
	output := firstNonEmpty(renderFlags.output, cfg.Render.Output)
	debug := firstNonEmpty(renderFlags.debug, cfg.Render.Debug)
	p.data, p.dataFile = renderFlags.data, renderFlags.dataFile
	if err := p.run(renderFlags.input, output, debug); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "已生成 PDF：%s\n", output)
	return nil
}

// pipeline 串联解析、罐装与渲染。Session 在多次 run 之间保持，
// 内容未变的文本框在重新构建时只做线性调整。
type pipeline struct {
	session  *layout.Session
	renderer renderer.Renderer
	log      *zap.Logger

	data     string
	dataFile string
}

func newPipeline(baseDir string, opts canning.Options, logger *zap.Logger) (*pipeline, error) {
	r := canvasrenderer.NewRenderer(baseDir)
	return newPipelineWith(r, r, opts, logger)
}

func newPipelineWith(ts layout.Typesetter, r renderer.Renderer, opts canning.Options, logger *zap.Logger) (*pipeline, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	session, err := layout.NewSession(layout.BuildOptions{
		Typesetter: ts,
		Canning:    opts,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return &pipeline{session: session, renderer: r, log: logger}, nil
}

// run 每次都重新读取绑定数据，watch 模式下数据文件的修改同样生效。
func (p *pipeline) run(inputPath, outputPath, debugPath string) error {
	data, err := loadData(p.data, p.dataFile)
	if err != nil {
		return err
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	result, err := p.session.Build(doc, data)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := p.renderer.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	boxes := 0
	for _, page := range result.Pages {
		boxes += len(page.Boxes)
	}
	p.log.Info("document rendered",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.Int("pages", len(result.Pages)),
		zap.Int("boxes", boxes))
	return nil
}

// loadData 读取绑定数据；--data 优先于 --data-file。
func loadData(inline, path string) ([]byte, error) {
	var data []byte
	switch {
	case inline != "":
		data = []byte(inline)
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取 data 文件失败: %w", err)
		}
		data = b
	default:
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("解析 data JSON 失败：不是合法的 JSON")
	}
	return data, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
