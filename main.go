// Command cannedtext 把文本"罐装"进固定尺寸的框：自动搜索合适的字号并输出 PDF。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/cannedtext/canning"
	"github.com/ByLCY/cannedtext/config"
	"github.com/ByLCY/cannedtext/logging"
)

var (
	configPath string
	logLevel   string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cannedtext",
	Short: "Fit text into fixed-size boxes and render them to PDF",
	Long: `cannedtext searches, for every box of a .canned document, the largest
integer font size at which the text still fits, then renders the pages to PDF.

Examples:
  # Render a document
  cannedtext render --in poster.canned --out poster.pdf

  # Try a single box
  cannedtext fit "Hello world" --width 120mm --height 30mm

  # Re-render whenever the document changes
  cannedtext watch --in poster.canned --out poster.pdf`,
	Version:       version,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML 配置文件路径")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别（debug/info/warn/error），覆盖配置")
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup 加载配置并创建日志器，命令行参数优先于配置。
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func canningOptions(cfg config.CanningConfig, logger *zap.Logger) canning.Options {
	return canning.Options{
		Nowrap:      cfg.Nowrap,
		MaxSteps:    cfg.MaxSteps,
		MinFontSize: cfg.MinFontSize,
		Logger:      logger,
	}
}
