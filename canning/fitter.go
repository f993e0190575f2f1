package canning

import "go.uber.org/zap"

// Fitter 绑定一个容器：初次罐装使用新建的 BinaryCanner，
// 之后每次尺寸变化都调用同一个 LinearCanner。
//
// Fitter 不做并发保护，同一容器同一时刻只能有一个搜索在进行，
// 由调用方（例如 watch 的串行回调）保证。
type Fitter struct {
	container Element
	content   Element
	opts      Options
	linear    *LinearCanner

	fitted    bool
	fontSize  int
	direction Dimension
	steps     int
	capped    bool
}

// New 为容器与内容创建 Fitter。
func New(container, content Element, opts ...Option) *Fitter {
	merged := mergeOptions(opts)
	return &Fitter{
		container: container,
		content:   content,
		opts:      merged,
		linear:    NewLinearCanner(container, content, WithOptions(merged)),
	}
}

// Fit 从容器当前字号出发做一次完整的二分搜索。
func (f *Fitter) Fit() bool {
	bc := NewBinaryCanner(f.container, f.content, WithOptions(f.opts))
	changed := bc.Can()
	f.fitted = true
	f.fontSize, f.direction = bc.FontSize(), bc.Direction()
	f.steps, f.capped = bc.Steps(), bc.Capped()
	f.linear.Sync(f.fontSize)
	f.opts.Logger.Debug("canning: fit",
		zap.Int("font_size", f.fontSize),
		zap.Stringer("direction", f.direction),
		zap.Bool("changed", changed))
	return changed
}

// Resize 是尺寸变化的重入点：复用同一个 LinearCanner 从上一次的字号继续。
// 尚未初次罐装时退化为 Fit。
func (f *Fitter) Resize() bool {
	if !f.fitted {
		return f.Fit()
	}
	changed := f.linear.Can()
	f.fontSize, f.direction = f.linear.FontSize(), f.linear.Direction()
	f.steps, f.capped = f.linear.Steps(), f.linear.Capped()
	return changed
}

// Fitted 报告是否已经完成初次罐装。
func (f *Fitter) Fitted() bool { return f.fitted }

// FontSize 返回最近一次搜索提交的字号（pt）。
func (f *Fitter) FontSize() int { return f.fontSize }

// Direction 返回最近一次搜索所受约束的方向。
func (f *Fitter) Direction() Dimension { return f.direction }

// Steps 返回最近一次搜索修改字号的次数。
func (f *Fitter) Steps() int { return f.steps }

// Capped 报告最近一次搜索是否因迭代上限而提前结束。
func (f *Fitter) Capped() bool { return f.capped }
