package canning

import "go.uber.org/zap"

// 默认值与原插件保持一致：nowrap 关闭。
const (
	DefaultMaxSteps    = 512
	DefaultMinFontSize = 1
)

// Options 控制一次罐装（canning）搜索的行为。每次调用只读。
type Options struct {
	// Nowrap 为 true 时内容不允许折行，方向由宽高比决定。
	Nowrap bool
	// MaxSteps 是每个搜索阶段允许的最大迭代次数，<=0 时使用 DefaultMaxSteps。
	MaxSteps int
	// MinFontSize 是线性搜索缩小字号时的下限，<=0 时使用 DefaultMinFontSize。
	MinFontSize int
	Logger      *zap.Logger
}

// Option 以函数式选项的方式修改 Options。
type Option func(*Options)

// DefaultOptions 返回默认选项。
func DefaultOptions() Options {
	return Options{
		MaxSteps:    DefaultMaxSteps,
		MinFontSize: DefaultMinFontSize,
		Logger:      zap.NewNop(),
	}
}

// WithNowrap sets the nowrap flag.
func WithNowrap(nowrap bool) Option {
	return func(o *Options) { o.Nowrap = nowrap }
}

// WithMaxSteps caps the iterations of every search phase.
func WithMaxSteps(n int) Option {
	return func(o *Options) { o.MaxSteps = n }
}

// WithMinFontSize sets the smallest font size the linear search will commit.
func WithMinFontSize(n int) Option {
	return func(o *Options) { o.MinFontSize = n }
}

// WithLogger attaches a logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithOptions 直接覆盖为给定的 Options，再经 merge 补齐缺省值。
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func mergeOptions(opts []Option) Options {
	out := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	if out.MaxSteps <= 0 {
		out.MaxSteps = DefaultMaxSteps
	}
	if out.MinFontSize <= 0 {
		out.MinFontSize = DefaultMinFontSize
	}
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}
	return out
}
