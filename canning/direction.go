package canning

import "math"

// Decide 决定本次搜索由宽度还是高度约束。
//
// 允许折行时总是高度约束。nowrap 时比较宽高比：内容相对"更宽"则宽度约束，
// 否则高度约束。任一比值不是有限数（容器或内容存在 0 尺寸）时回退为 Vertical。
func Decide(container, content Element, opts Options) Dimension {
	if !opts.Nowrap {
		return Vertical
	}
	if container.Width() <= 0 || container.Height() <= 0 {
		return Vertical
	}
	containerRatio := container.Width() / container.Height()
	contentRatio := content.InnerWidth() / content.InnerHeight()
	if !finite(containerRatio) || !finite(contentRatio) {
		return Vertical
	}
	if contentRatio > containerRatio {
		return Horizontal
	}
	return Vertical
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
