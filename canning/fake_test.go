package canning

import "math"

// fakeContainer 模拟字号设置在容器上、内容继承字号的宿主。
type fakeContainer struct {
	width, height float64
	fontSize      int
	history       []int
}

func (c *fakeContainer) Width() float64       { return c.width }
func (c *fakeContainer) Height() float64      { return c.height }
func (c *fakeContainer) InnerWidth() float64  { return c.width }
func (c *fakeContainer) InnerHeight() float64 { return c.height }
func (c *fakeContainer) FontSize() int        { return c.fontSize }

func (c *fakeContainer) SetFontSize(size int) {
	c.fontSize = size
	c.history = append(c.history, size)
}

type fakeContent struct {
	container *fakeContainer
	width     func(fontSize int) float64
	height    func(fontSize int) float64
}

func (c *fakeContent) Width() float64       { return c.InnerWidth() }
func (c *fakeContent) Height() float64      { return c.InnerHeight() }
func (c *fakeContent) InnerWidth() float64  { return c.width(c.container.fontSize) }
func (c *fakeContent) InnerHeight() float64 { return c.height(c.container.fontSize) }
func (c *fakeContent) FontSize() int        { return c.container.fontSize }
func (c *fakeContent) SetFontSize(size int) { c.container.SetFontSize(size) }

func scaled(factor float64) func(int) float64 {
	return func(size int) float64 { return factor * float64(size) }
}

// stepped 模拟整数取整造成的测量平台：每 unit 个字号才变化一次。
func stepped(unit int) func(int) float64 {
	return func(size int) float64 { return math.Floor(float64(size)/float64(unit)) * float64(unit) }
}

func newFake(width, height float64, fontSize int, w, h func(int) float64) (*fakeContainer, *fakeContent) {
	container := &fakeContainer{width: width, height: height, fontSize: fontSize}
	return container, &fakeContent{container: container, width: w, height: h}
}
