package canning

import "go.uber.org/zap"

// 倍增阶段的字号上限，避免测量永不稳定时整数溢出。
const maxGrowthFontSize = 1 << 20

// BinaryCanner 从任意初始字号快速逼近合适字号：先倍增，再二分收窄。
// 每次初次罐装都新建一个实例。
type BinaryCanner struct {
	container Element
	content   Element
	opts      Options

	fontSize  int
	direction Dimension
	steps     int
	capped    bool
}

// NewBinaryCanner 创建二分搜索器。
func NewBinaryCanner(container, content Element, opts ...Option) *BinaryCanner {
	return &BinaryCanner{
		container: container,
		content:   content,
		opts:      mergeOptions(opts),
	}
}

// Can 执行一次完整搜索，返回最后一次采样是否与前一次不同（即收窄阶段是否仍在移动）。
func (b *BinaryCanner) Can() bool {
	log := b.opts.Logger
	b.steps, b.capped = 0, false
	b.fontSize = b.container.FontSize()
	b.direction = Decide(b.container, b.content, b.opts)

	probe := SizeProbe{Dimension: b.direction}
	containerSize := probe.Container(b.container)
	tracker := probe.Tracker(b.content)

	// 倍增阶段
	guard := newStepGuard(b.opts.MaxSteps)
	for smallerThanContainer(containerSize, tracker) {
		if guard.exhausted() || b.fontSize > maxGrowthFontSize {
			b.capped = true
			log.Warn("canning: growth phase hit step cap",
				zap.Int("font_size", b.fontSize),
				zap.Int("max_steps", b.opts.MaxSteps))
			break
		}
		b.fontSize *= 2
		b.container.SetFontSize(b.fontSize)
		b.steps++
	}
	log.Debug("canning: growth phase done",
		zap.Stringer("direction", b.direction),
		zap.Int("font_size", b.fontSize),
		zap.Float64("container_size", containerSize))

	tracker.Reset()
	stepper := newBinaryStepper(b.container, containerSize, tracker, b.fontSize)

	guard = newStepGuard(b.opts.MaxSteps)
	for notCanned(containerSize, tracker) && !stepper.stopped() {
		if guard.exhausted() {
			b.capped = true
			log.Warn("canning: narrowing phase hit step cap",
				zap.Int("font_size", stepper.fontSize),
				zap.Int("max_steps", b.opts.MaxSteps))
			break
		}
		stepper.step()
		b.steps++
	}
	b.fontSize = stepper.fontSize
	log.Debug("canning: narrowing phase done",
		zap.Int("font_size", b.fontSize),
		zap.Int("steps", b.steps))

	return tracker.Changed()
}

// FontSize 返回最近一次 Can 提交的字号。
func (b *BinaryCanner) FontSize() int { return b.fontSize }

// Direction 返回最近一次 Can 使用的约束方向。
func (b *BinaryCanner) Direction() Dimension { return b.direction }

// Steps 返回最近一次 Can 修改字号的次数。
func (b *BinaryCanner) Steps() int { return b.steps }

// Capped 报告最近一次 Can 是否因迭代上限提前结束。
func (b *BinaryCanner) Capped() bool { return b.capped }

// binaryStepper 维护二分收窄的下界 base 与步长 offset。
// offset 从倍增后的字号开始，每步减半。
type binaryStepper struct {
	container     Element
	containerSize float64
	tracker       *ChangeTracker

	fontSize int
	offset   int
	base     int
}

func newBinaryStepper(container Element, containerSize float64, tracker *ChangeTracker, fontSize int) *binaryStepper {
	return &binaryStepper{
		container:     container,
		containerSize: containerSize,
		tracker:       tracker,
		fontSize:      fontSize,
		offset:        fontSize,
	}
}

func (s *binaryStepper) step() {
	if current, ok := s.tracker.Current(); ok && current < s.containerSize {
		s.base = s.fontSize
	}
	s.offset /= 2
	s.fontSize = s.base + s.offset
	s.container.SetFontSize(s.fontSize)
}

func (s *binaryStepper) stopped() bool {
	return s.offset <= 0
}

func smallerThanContainer(containerSize float64, tracker *ChangeTracker) bool {
	contentSize := tracker.Update()
	if !tracker.Changed() {
		return false
	}
	return contentSize < containerSize
}

func notCanned(containerSize float64, tracker *ChangeTracker) bool {
	contentSize := tracker.Update()
	if !tracker.Changed() {
		return false
	}
	return contentSize != containerSize
}

type stepGuard struct {
	left int
}

func newStepGuard(max int) *stepGuard {
	return &stepGuard{left: max}
}

func (g *stepGuard) exhausted() bool {
	if g.left <= 0 {
		return true
	}
	g.left--
	return false
}
