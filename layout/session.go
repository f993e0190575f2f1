package layout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ByLCY/cannedtext/canning"
	"github.com/ByLCY/cannedtext/dsl"
)

// Session 在多次构建之间为每个文本框保留同一个 canning.Fitter。
// 首次出现的框做二分罐装；之后内容不变、只改尺寸的框复用线性搜索，从上次的字号继续。
//
// Session 不是并发安全的，Build 必须串行调用。
type Session struct {
	opts  BuildOptions
	log   *zap.Logger
	boxes map[string]*boxState
}

type boxState struct {
	element   *boxElement
	fitter    *canning.Fitter
	signature string
	nowrap    bool
}

// NewSession 创建会话。
func NewSession(opts BuildOptions) (*Session, error) {
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		opts:  opts,
		log:   log,
		boxes: map[string]*boxState{},
	}, nil
}

// Build 解析资源与页面并罐装所有文本框。
func (s *Session) Build(doc *dsl.Document, data []byte) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	specs, err := collectPages(doc, res, data, s.opts.Canning.Nowrap)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	pages := make([]Page, 0, len(specs))
	for _, spec := range specs {
		page := Page{
			Width:  spec.width,
			Height: spec.height,
			Margin: spec.margin,
			Rects:  spec.rects,
			Boxes:  make([]CannedBox, 0, len(spec.boxes)),
		}
		for _, bs := range spec.boxes {
			if seen[bs.id] {
				return nil, fmt.Errorf("box id %s 重复", bs.id)
			}
			seen[bs.id] = true
			box, err := s.can(bs)
			if err != nil {
				return nil, err
			}
			page.Boxes = append(page.Boxes, box)
		}
		pages = append(pages, page)
	}

	for id := range s.boxes {
		if !seen[id] {
			delete(s.boxes, id)
		}
	}

	return &Result{
		Pages:     pages,
		Resources: res,
		Meta:      collectMeta(doc),
	}, nil
}

// can 罐装单个文本框。已知且内容未变的框触发 Resize，其余触发 Fit。
func (s *Session) can(spec boxSpec) (CannedBox, error) {
	innerW := spec.width - 2*spec.padding
	innerH := spec.height - 2*spec.padding
	if innerW <= 0 || innerH <= 0 {
		return CannedBox{}, fmt.Errorf("box %s 的 padding 超出了框尺寸", spec.id)
	}

	sig := spec.signature()
	state, ok := s.boxes[spec.id]
	resized := ok && state.signature == sig && state.nowrap == spec.nowrap
	if resized {
		state.element.resize(innerW, innerH)
		state.element.err = nil
		state.fitter.Resize()
	} else {
		el := &boxElement{
			ts:         s.opts.Typesetter,
			font:       spec.font,
			content:    spec.content,
			wrap:       spec.wrap,
			lineHeight: spec.lineHeight,
			width:      innerW,
			height:     innerH,
			fontSize:   spec.fontSize,
		}
		copts := s.opts.Canning
		copts.Nowrap = spec.nowrap
		copts.Logger = s.log.With(zap.String("box", spec.id))
		state = &boxState{
			element:   el,
			fitter:    canning.New(el, el, canning.WithOptions(copts)),
			signature: sig,
			nowrap:    spec.nowrap,
		}
		s.boxes[spec.id] = state
		state.fitter.Fit()
	}

	el := state.element
	el.measure()
	if el.err != nil {
		delete(s.boxes, spec.id)
		return CannedBox{}, fmt.Errorf("box %s 排版失败: %w", spec.id, el.err)
	}

	f := state.fitter
	report := FitReport{
		Direction:     f.Direction().String(),
		Steps:         f.Steps(),
		Capped:        f.Capped(),
		Fits:          el.fits(),
		Resized:       resized,
		ContentWidth:  el.contentWidth,
		ContentHeight: el.contentHeight,
	}
	if !report.Fits {
		s.log.Warn("box content overflows container",
			zap.String("box", spec.id),
			zap.Int("font_size", el.fontSize),
			zap.Float64("content_width_pt", el.InnerWidth()),
			zap.Float64("content_height_pt", el.InnerHeight()),
			zap.Float64("container_width_pt", el.Width()),
			zap.Float64("container_height_pt", el.Height()))
	}
	s.log.Debug("box canned",
		zap.String("box", spec.id),
		zap.Int("font_size", el.fontSize),
		zap.String("direction", report.Direction),
		zap.Bool("resized", resized),
		zap.Int("steps", report.Steps))

	return CannedBox{
		ID:         spec.id,
		X:          spec.x,
		Y:          spec.y,
		Width:      spec.width,
		Height:     spec.height,
		Padding:    spec.padding,
		Content:    spec.content,
		Font:       spec.fontName,
		FontSize:   el.fontSize,
		LineHeight: spec.lineHeight.Resolve(el.fontSizeMM()),
		Color:      spec.color,
		Border:     spec.border,
		Align:      spec.align,
		VAlign:     spec.valign,
		Wrap:       spec.wrap,
		Nowrap:     spec.nowrap,
		Lines:      append([]TextLine(nil), el.lines...),
		Fit:        report,
	}, nil
}

// FontSize 返回会话中某个框当前的字号（pt）。
func (s *Session) FontSize(id string) (int, bool) {
	state, ok := s.boxes[id]
	if !ok {
		return 0, false
	}
	return state.element.fontSize, true
}

// TextRequest 描述一个脱离文档的独立文本框，尺寸单位为 mm。
type TextRequest struct {
	ID         string
	Content    string
	Width      float64
	Height     float64
	Padding    float64
	Font       FontResource
	FontSize   int    // pt，<=0 时使用 12pt
	LineHeight string // 与 DSL 的 line-height 写法相同
	Wrap       string
	Nowrap     bool
}

// FitText 对单个文本框做一次初次罐装，不需要 DSL 文档。
func FitText(req TextRequest, opts BuildOptions) (CannedBox, error) {
	s, err := NewSession(opts)
	if err != nil {
		return CannedBox{}, err
	}
	if req.Width <= 0 || req.Height <= 0 {
		return CannedBox{}, fmt.Errorf("文本框尺寸无效：%gmm × %gmm", req.Width, req.Height)
	}
	spec := boxSpec{
		id:         req.ID,
		width:      req.Width,
		height:     req.Height,
		padding:    req.Padding,
		content:    req.Content,
		font:       req.Font,
		fontName:   req.Font.Name,
		fontSize:   req.FontSize,
		lineHeight: ParseLineHeight(req.LineHeight),
		color:      Color{R: 30, G: 30, B: 30},
		wrap:       normalizeWrap(req.Wrap),
		nowrap:     req.Nowrap,
	}
	if spec.id == "" {
		spec.id = "text"
	}
	if spec.fontSize <= 0 {
		spec.fontSize = defaultFontSizePt
	}
	if spec.nowrap {
		spec.wrap = "nowrap"
	} else if spec.wrap == "nowrap" {
		spec.nowrap = true
	}
	return s.can(spec)
}
