package canning

import "go.uber.org/zap"

// LinearCanner 以 ±1 的步长微调字号，用于窗口尺寸小幅变化后的重新罐装。
// 同一个容器在整个生命周期内复用一个实例，以保持字号的连续性。
type LinearCanner struct {
	container Element
	content   Element
	opts      Options

	fontSize  int
	direction Dimension
	steps     int
	capped    bool
}

// NewLinearCanner 创建线性搜索器。
func NewLinearCanner(container, content Element, opts ...Option) *LinearCanner {
	return &LinearCanner{
		container: container,
		content:   content,
		opts:      mergeOptions(opts),
	}
}

// Can 先在内容小于容器时逐一放大，再重置 tracker 并在内容大于容器时逐一缩小。
// 结束时内容不超出容器（除非测量停滞或字号已到下限）。
func (l *LinearCanner) Can() bool {
	l.steps, l.capped = 0, false
	if l.fontSize <= 0 {
		l.fontSize = l.container.FontSize()
	} else if l.container.FontSize() != l.fontSize {
		l.container.SetFontSize(l.fontSize)
	}
	l.direction = Decide(l.container, l.content, l.opts)

	probe := SizeProbe{Dimension: l.direction}
	containerSize := probe.Container(l.container)
	tracker := probe.Tracker(l.content)

	l.linearCan(containerSize, tracker, 1, contentSmaller)
	tracker.Reset()
	l.linearCan(containerSize, tracker, -1, contentLarger)

	l.opts.Logger.Debug("canning: linear adjust done",
		zap.Stringer("direction", l.direction),
		zap.Int("font_size", l.fontSize),
		zap.Int("steps", l.steps))
	return tracker.Changed()
}

func (l *LinearCanner) linearCan(containerSize float64, tracker *ChangeTracker, offset int, compare func(container, content float64) bool) {
	guard := newStepGuard(l.opts.MaxSteps)
	for canCondition(containerSize, tracker, compare) {
		next := l.fontSize + offset
		if next < l.opts.MinFontSize {
			return
		}
		if guard.exhausted() {
			l.capped = true
			l.opts.Logger.Warn("canning: linear phase hit step cap",
				zap.Int("font_size", l.fontSize),
				zap.Int("offset", offset),
				zap.Int("max_steps", l.opts.MaxSteps))
			return
		}
		l.fontSize = next
		l.container.SetFontSize(l.fontSize)
		l.steps++
	}
}

// FontSize 返回最近一次提交的字号；首次 Can 之前为 0。
func (l *LinearCanner) FontSize() int { return l.fontSize }

// Direction 返回最近一次 Can 使用的约束方向。
func (l *LinearCanner) Direction() Dimension { return l.direction }

// Steps 返回最近一次 Can 修改字号的次数。
func (l *LinearCanner) Steps() int { return l.steps }

// Capped 报告最近一次 Can 是否因迭代上限提前结束。
func (l *LinearCanner) Capped() bool { return l.capped }

// Sync 让下一次 Can 从给定字号继续，用于初次罐装之后交接。
func (l *LinearCanner) Sync(fontSize int) { l.fontSize = fontSize }

func canCondition(containerSize float64, tracker *ChangeTracker, compare func(container, content float64) bool) bool {
	contentSize := tracker.Update()
	if !tracker.Changed() {
		return false
	}
	return compare(containerSize, contentSize)
}

func contentSmaller(container, content float64) bool { return container > content }

func contentLarger(container, content float64) bool { return container < content }
