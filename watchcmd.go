package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/cannedtext/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-can and re-render whenever the document or its data changes",
	Long: `watch keeps one fitting session alive: boxes whose text is unchanged are
re-fitted with small steps from their previous size when their dimensions
change, new or edited boxes get a fresh search.`,
	RunE: runWatch,
}

func init() {
	addDocumentFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, err := newPipeline(cfg.Render.BaseDir, canningOptions(cfg.Canning, logger), logger)
	if err != nil {
		return err
	}
	p.data, p.dataFile = renderFlags.data, renderFlags.dataFile
	input := renderFlags.input
	output := firstNonEmpty(renderFlags.output, cfg.Render.Output)

	// 首次构建失败不退出，修正文件后会再次触发
	if err := p.run(input, output, cfg.Render.Debug); err != nil {
		logger.Error("initial build failed", zap.Error(err))
	}

	paths := []string{input}
	if p.dataFile != "" {
		paths = append(paths, p.dataFile)
	}
	w, err := watch.New(paths, cfg.Watch.Debounce, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "正在监听 %s，按 Ctrl+C 退出\n", input)
	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		return p.run(input, output, cfg.Render.Debug)
	})
}
