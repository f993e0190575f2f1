package canning

// ChangeTracker 包装一个测量函数，记住上一次与当前的采样值。
// 测量值不再变化（取整平台或来回振荡收敛）是所有搜索循环真正的停止信号。
type ChangeTracker struct {
	sample func() float64

	current     float64
	previous    float64
	hasCurrent  bool
	hasPrevious bool
}

// NewChangeTracker 创建一个尚未采样的 tracker。
func NewChangeTracker(sample func() float64) *ChangeTracker {
	return &ChangeTracker{sample: sample}
}

// Update 把当前值移入 previous，重新测量并返回新值。
// 这是新采样进入 tracker 的唯一途径。
func (t *ChangeTracker) Update() float64 {
	t.previous, t.hasPrevious = t.current, t.hasCurrent
	t.current, t.hasCurrent = t.sample(), true
	return t.current
}

// Changed 报告最近一次采样是否与上一次不同；从未设置到有值也算变化。
func (t *ChangeTracker) Changed() bool {
	if t.hasCurrent != t.hasPrevious {
		return true
	}
	return t.current != t.previous
}

// Reset 丢弃历史，不会重新测量。
func (t *ChangeTracker) Reset() {
	t.current, t.previous = 0, 0
	t.hasCurrent, t.hasPrevious = false, false
}

// Current 返回当前采样值以及它是否已设置。
func (t *ChangeTracker) Current() (float64, bool) {
	return t.current, t.hasCurrent
}
