package layout

// 该文件定义布局结果与资源描述，供布局计算、渲染与调试 JSON 共用。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录解析出的字体、颜色与样式定义。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]Color        `json:"colors"`
	Styles map[string]Style        `json:"styles"`
}

// FontResource 描述字体资源，src 可以是文件路径、go:* 内置字体或 built-in:* 注入字体。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Family   string `json:"family"`
	Fallback string `json:"fallback,omitempty"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Page 记录页面尺寸、边距与罐装后的文本框。
type Page struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Margin Margin      `json:"margin"`
	Boxes  []CannedBox `json:"boxes"`
	Rects  []Rect      `json:"rects,omitempty"`
}

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// CannedBox 是一个固定尺寸的容器及其罐装结果。坐标与尺寸单位为 mm，字号单位为 pt。
type CannedBox struct {
	ID         string     `json:"id"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Padding    float64    `json:"padding,omitempty"`
	Content    string     `json:"content"`
	Font       string     `json:"font"`
	FontSize   int        `json:"fontSize"`
	LineHeight float64    `json:"lineHeight"`
	Color      Color      `json:"color"`
	Border     *Color     `json:"border,omitempty"`
	Align      string     `json:"align,omitempty"`  // left/center/right
	VAlign     string     `json:"valign,omitempty"` // top/middle/bottom
	Wrap       string     `json:"wrap,omitempty"`
	Nowrap     bool       `json:"nowrap,omitempty"`
	Lines      []TextLine `json:"lines"`
	Fit        FitReport  `json:"fit"`
}

// FitReport 记录一次罐装搜索的结果。
type FitReport struct {
	Direction     string  `json:"direction"`
	Steps         int     `json:"steps"`
	Capped        bool    `json:"capped,omitempty"`
	Fits          bool    `json:"fits"`
	Resized       bool    `json:"resized,omitempty"` // 由 LinearCanner 重新罐装
	ContentWidth  float64 `json:"contentWidth"`       // mm
	ContentHeight float64 `json:"contentHeight"`      // mm
}

// TextLine 表示排版后的一行文本内容及其宽高（mm）。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// Rect 表示一个矩形背景（页面坐标，mm）。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"` // 为空表示不填充
}

// Style 用于描述可继承的文本样式。
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
