// Package config 负责加载 cannedtext 的运行配置。
//
// 优先级（高到低）：
//  1. 命令行参数（由 CLI 在加载后覆盖）
//  2. 环境变量（CANNEDTEXT_CANNING_MAX_STEPS 等）
//  3. YAML 配置文件
//  4. 内置默认值
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 是所有环境变量的前缀。
const EnvPrefix = "CANNEDTEXT_"

const maxConfigFileSize = 1024 * 1024 // 1MB

// ErrInvalid 表示配置值不合法，可用 errors.Is 判断。
var ErrInvalid = errors.New("配置无效")

// Config 是完整的运行配置。
type Config struct {
	Canning CanningConfig `koanf:"canning"`
	Render  RenderConfig  `koanf:"render"`
	Log     LogConfig     `koanf:"log"`
	Watch   WatchConfig   `koanf:"watch"`
}

// CanningConfig 对应 canning.Options 的可配置部分。
type CanningConfig struct {
	Nowrap      bool `koanf:"nowrap"`
	MaxSteps    int  `koanf:"max_steps"`
	MinFontSize int  `koanf:"min_font_size"`
}

// RenderConfig 控制渲染输出。
type RenderConfig struct {
	BaseDir string `koanf:"base_dir"`
	Output  string `koanf:"output"`
	Debug   string `koanf:"debug"`
}

// LogConfig 控制日志级别与格式。
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// WatchConfig 控制监听模式下的去抖间隔。
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Default 返回内置默认配置。
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load 读取 YAML 配置文件（path 为空时跳过），再用环境变量覆盖。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("读取环境变量失败: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("解码配置失败: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey 把 CANNEDTEXT_CANNING_MAX_STEPS 映射为 canning.max_steps：
// 去掉前缀后只按第一个下划线拆分 section 与字段名。
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开配置文件失败: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("读取配置文件信息失败: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("配置路径 %s 是目录", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("配置文件过大：%d 字节（上限 %d）", info.Size(), maxConfigFileSize)
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Canning.MaxSteps == 0 {
		cfg.Canning.MaxSteps = 512
	}
	if cfg.Canning.MinFontSize == 0 {
		cfg.Canning.MinFontSize = 1
	}
	if cfg.Render.Output == "" {
		cfg.Render.Output = "output/canned.pdf"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 200 * time.Millisecond
	}
}

// Validate 检查配置值，错误包装 ErrInvalid。
func (c *Config) Validate() error {
	if c.Canning.MaxSteps <= 0 {
		return fmt.Errorf("%w: canning.max_steps 必须为正数，当前 %d", ErrInvalid, c.Canning.MaxSteps)
	}
	if c.Canning.MinFontSize <= 0 {
		return fmt.Errorf("%w: canning.min_font_size 必须为正数，当前 %d", ErrInvalid, c.Canning.MinFontSize)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level 只能是 debug/info/warn/error，当前 %q", ErrInvalid, c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format 只能是 console 或 json，当前 %q", ErrInvalid, c.Log.Format)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce 不能为负数", ErrInvalid)
	}
	return nil
}
