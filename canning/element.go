// Package canning 在固定尺寸的容器中为文本寻找最合适的字号（"罐装"文本）。
//
// 搜索只通过 Element 读取尺寸、写入字号，不关心宿主是浏览器、PDF 排版器还是测试桩。
// 所有操作都是同步的：SetFontSize 之后的下一次测量必须已经反映新的字号。
package canning

// Element 是容器或内容的测量句柄，由调用方持有，搜索只读尺寸并修改字号。
type Element interface {
	// Width/Height 为外框尺寸（容器使用）。
	Width() float64
	Height() float64
	// InnerWidth/InnerHeight 为内框尺寸（内容使用）。
	InnerWidth() float64
	InnerHeight() float64
	FontSize() int
	SetFontSize(size int)
}

// Dimension 选择一次搜索中起约束作用的方向。
type Dimension int

const (
	Vertical Dimension = iota
	Horizontal
)

func (d Dimension) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// SizeProbe 按方向选择容器外框与内容内框的测量函数。
type SizeProbe struct {
	Dimension Dimension
}

// Container 返回容器在该方向上的外框尺寸。
func (p SizeProbe) Container(el Element) float64 {
	if p.Dimension == Horizontal {
		return el.Width()
	}
	return el.Height()
}

// Content 返回内容在该方向上的内框尺寸。
func (p SizeProbe) Content(el Element) float64 {
	if p.Dimension == Horizontal {
		return el.InnerWidth()
	}
	return el.InnerHeight()
}

// Tracker 构造一个对内容尺寸采样的 ChangeTracker。
func (p SizeProbe) Tracker(content Element) *ChangeTracker {
	return NewChangeTracker(func() float64 { return p.Content(content) })
}
