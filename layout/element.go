package layout

import (
	"math"

	"github.com/ByLCY/cannedtext/canning"
)

var _ canning.Element = (*boxElement)(nil)

// boxElement 把一个文本框适配为 canning.Element。
// 作为容器时报告内边距之内的框尺寸；作为内容时报告当前字号下排版出的文本块尺寸。
// 所有尺寸以整数点返回，字号变化后下一次测量即重新排版。
type boxElement struct {
	ts         Typesetter
	font       FontResource
	content    string
	wrap       string
	lineHeight LineHeightSpec

	width  float64 // mm，已扣除 padding
	height float64 // mm，已扣除 padding

	fontSize int // pt

	measured      bool
	lines         []TextLine
	contentWidth  float64 // mm
	contentHeight float64 // mm
	err           error
}

func (e *boxElement) Width() float64  { return roundPt(e.width) }
func (e *boxElement) Height() float64 { return roundPt(e.height) }

func (e *boxElement) InnerWidth() float64 {
	e.measure()
	return roundPt(e.contentWidth)
}

func (e *boxElement) InnerHeight() float64 {
	e.measure()
	return roundPt(e.contentHeight)
}

func (e *boxElement) FontSize() int { return e.fontSize }

func (e *boxElement) SetFontSize(size int) {
	if size == e.fontSize {
		return
	}
	e.fontSize = size
	e.measured = false
}

// resize 更新容器尺寸；内容只在折行宽度变化时需要重新排版。
func (e *boxElement) resize(width, height float64) {
	if width != e.width && e.wrap != "nowrap" {
		e.measured = false
	}
	e.width, e.height = width, height
}

func (e *boxElement) fontSizeMM() float64 {
	return float64(e.fontSize) * PtToMm
}

func (e *boxElement) measure() {
	if e.measured {
		return
	}
	e.measured = true
	e.lines, e.contentWidth, e.contentHeight = nil, 0, 0
	if e.fontSize <= 0 || e.ts == nil {
		return
	}
	sizeMM := e.fontSizeMM()
	lineHeight := e.lineHeight.Resolve(sizeMM)
	limit := e.width
	if e.wrap == "nowrap" {
		limit = 0
	}
	lines, err := e.ts.LayoutLines(e.content, limit, e.font, sizeMM, lineHeight, e.wrap)
	if err != nil {
		if e.err == nil {
			e.err = err
		}
		return
	}

	defaultLeading := math.Max(lineHeight-sizeMM, 0)
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = sizeMM
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = defaultLeading
		}
		e.contentHeight += lines[i].GapBefore + lines[i].Height
		e.contentWidth = math.Max(e.contentWidth, lines[i].Width)
	}
	e.lines = lines
}

// fits 报告内容是否在两个方向上都不超出容器（整数点比较）。
func (e *boxElement) fits() bool {
	return e.InnerWidth() <= e.Width() && e.InnerHeight() <= e.Height()
}
