package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/cannedtext/binding"
	"github.com/ByLCY/cannedtext/dsl"
)

const defaultFontSizePt = 12

// ErrNoPages 表示文档中没有任何 page 段落。
var ErrNoPages = errors.New("文档中缺少 page 段落")

// Build 根据 DSL AST 生成页面与罐装文本框。每次调用都从零开始罐装；
// 需要在多次构建之间保持字号连续时使用 Session。
func Build(doc *dsl.Document, data []byte, opts BuildOptions) (*Result, error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	return s.Build(doc, data)
}

// boxSpec 是解析后的 box 声明，尚未罐装。
type boxSpec struct {
	id         string
	x, y       float64
	width      float64
	height     float64
	padding    float64
	content    string
	fontName   string
	font       FontResource
	fontSize   int
	lineHeight LineHeightSpec
	color      Color
	border     *Color
	align      string
	valign     string
	wrap       string
	nowrap     bool
}

// signature 标识内容相关的属性；相同签名的框在重新构建时只做线性调整。
func (b boxSpec) signature() string {
	return strings.Join([]string{
		b.content, b.font.Name, b.font.Src, b.font.Style, b.wrap,
		strconv.FormatFloat(b.lineHeight.Factor, 'f', -1, 64),
		strconv.FormatFloat(b.lineHeight.Len.ToMM(), 'f', -1, 64),
	}, "\x00")
}

type pageSpec struct {
	width, height float64
	margin        Margin
	boxes         []boxSpec
	rects         []Rect
}

// defaultNowrap 对应配置 canning.nowrap，仅作用于没有声明 nowrap 或 wrap 的框。
func collectPages(doc *dsl.Document, res ResourceSet, data []byte, defaultNowrap bool) ([]pageSpec, error) {
	sections := doc.Pages()
	if len(sections) == 0 {
		return nil, ErrNoPages
	}
	pages := make([]pageSpec, 0, len(sections))
	for i, section := range sections {
		page, err := collectPage(i, section, res, data, defaultNowrap)
		if err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", i+1, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func collectPage(index int, section *dsl.PageSection, res ResourceSet, data []byte, defaultNowrap bool) (pageSpec, error) {
	width, height, err := resolvePageSize(section.Spec)
	if err != nil {
		return pageSpec{}, err
	}
	page := pageSpec{
		width:  width,
		height: height,
		margin: resolveMargin(section.Spec.Params),
	}
	if section.Block == nil {
		return page, fmt.Errorf("page 段落缺少内容")
	}
	contentW := width - page.margin.Left - page.margin.Right
	contentH := height - page.margin.Top - page.margin.Bottom

	for _, stmt := range section.Block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		switch strings.ToLower(cmd.Name) {
		case "box":
			spec, err := parseBox(cmd, len(page.boxes), index, contentW, contentH, page.margin, res, data, defaultNowrap)
			if err != nil {
				return page, err
			}
			page.boxes = append(page.boxes, spec)
		case "rect":
			_, attrs := parseArgs(cmd.Args, false)
			if rc, ok := parseRectShape(attrs, res); ok {
				page.rects = append(page.rects, rc)
			}
		default:
			// 其余命令暂未实现，忽略即可
		}
	}
	return page, nil
}

func parseBox(cmd *dsl.Command, boxIndex, pageIndex int, contentW, contentH float64, margin Margin, res ResourceSet, data []byte, defaultNowrap bool) (boxSpec, error) {
	styleName, attrs := parseArgs(cmd.Args, true)
	attrs = mergeStyleAttributes(styleName, attrs, res.Styles)

	content := extractText(cmd.Block)
	if content == "" {
		return boxSpec{}, fmt.Errorf("box 语句缺少文本内容（第 %d 行）", cmd.Pos.Line)
	}
	content = binding.Interpolate(content, data)

	spec := boxSpec{
		id:      attrs["id"],
		content: content,
		padding: parseLength(attrs["padding"]),
		align:   normalizeAlign(attrs["align"]),
		valign:  normalizeVAlign(attrs["valign"]),
		wrap:    normalizeWrap(attrs["wrap"]),
		color:   resolveColor(attrs["color"], res),
	}
	if spec.id == "" {
		spec.id = fmt.Sprintf("p%d-box%d", pageIndex+1, boxIndex+1)
	}

	x := parseDimension(attrs["x"], contentW)
	y := parseDimension(attrs["y"], contentH)
	spec.x = margin.Left + x
	spec.y = margin.Top + y
	spec.width = parseDimension(attrs["width"], contentW)
	if spec.width <= 0 {
		spec.width = contentW - x
	}
	spec.height = parseDimension(attrs["height"], contentH)
	if spec.height <= 0 {
		spec.height = contentH - y
	}
	if spec.width <= 0 || spec.height <= 0 {
		return boxSpec{}, fmt.Errorf("box %s 尺寸无效：%gmm × %gmm", spec.id, spec.width, spec.height)
	}

	_, hasWrap := attrs["wrap"]
	if v, ok := attrs["nowrap"]; ok {
		spec.nowrap = parseBool(v)
	} else if !hasWrap {
		spec.nowrap = defaultNowrap
	}
	if spec.nowrap {
		spec.wrap = "nowrap"
	} else if spec.wrap == "nowrap" {
		spec.nowrap = true
	}

	spec.fontSize = defaultFontSizePt
	if l, ok := ParseLength(attrs["size"]); ok && l.Value > 0 {
		spec.fontSize = int(math.Round(l.ToPT()))
	}
	spec.lineHeight = ParseLineHeight(attrs["line-height"])

	spec.fontName = attrs["font"]
	if spec.fontName == "" {
		spec.fontName = styleName
	}
	font, err := resolveFontResource(spec.fontName, res)
	if err != nil {
		return boxSpec{}, err
	}
	spec.font = font
	spec.fontName = font.Name

	if v := attrs["border"]; v != "" && !strings.EqualFold(v, "none") && !strings.EqualFold(v, "false") {
		c := Color{R: 200, G: 200, B: 200}
		if !strings.EqualFold(v, "true") {
			c = resolveColor(v, res)
		}
		spec.border = &c
	}
	return spec, nil
}

func normalizeWrap(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "break-word", "word-break:break-word":
		return "break-word"
	case "nowrap", "no-wrap":
		return "nowrap"
	default:
		return "anywhere"
	}
}

func normalizeAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return "center"
	case "right", "end":
		return "right"
	case "left", "start":
		return "left"
	default:
		return ""
	}
}

func normalizeVAlign(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "middle", "center":
		return "middle"
	case "bottom", "end":
		return "bottom"
	case "top", "start":
		return "top"
	default:
		return ""
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return strings.EqualFold(strings.TrimSpace(v), "yes")
	}
	return b
}

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
		Styles: map[string]Style{},
	}
	rawStyles := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font := parseFontResource(stmt.Command)
				if font.Name != "" {
					res.Fonts[font.Name] = font
				}
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					continue
				}
				if c, err := parseColor(value); err == nil {
					res.Colors[name] = c
				}
			case "style":
				style := parseStyleResource(stmt.Command)
				if style.Name != "" {
					rawStyles[style.Name] = style
				}
			}
		}
	}

	if len(res.Fonts) == 0 {
		res.Fonts["Body"] = FontResource{
			Name:   "Body",
			Src:    "go:regular",
			Family: "Body",
		}
	}

	resolvedStyles, err := resolveStyles(rawStyles)
	if err != nil {
		return res, err
	}
	res.Styles = resolvedStyles
	return res, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{
		Creator: "cannedtext",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			value := stmt.Assignment.Value
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = value.Text()
			case "author":
				meta.Author = value.Text()
			case "subject":
				meta.Subject = value.Text()
			case "creator":
				meta.Creator = value.Text()
			case "keywords":
				meta.Keywords = value.Strings()
			}
		}
	}
	return meta
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{
		Name:   cmd.Args[0].Value,
		Family: cmd.Args[0].Value,
	}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		switch stmt.Assignment.Key {
		case "src":
			font.Src = stmt.Assignment.Value.Text()
		case "style":
			font.Style = stmt.Assignment.Value.Text()
		case "fallback":
			font.Fallback = stmt.Assignment.Value.Text()
		}
	}
	return font
}

func parseStyleResource(cmd *dsl.Command) Style {
	if len(cmd.Args) == 0 {
		return Style{}
	}
	style := Style{
		Name:  cmd.Args[0].Value,
		Props: map[string]string{},
	}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	if cmd.Block == nil {
		return style
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		if val := stmt.Assignment.Value.Text(); val != "" {
			style.Props[stmt.Assignment.Key] = val
		}
	}
	return style
}

func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

var pagePresets = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

func resolvePageSize(spec dsl.PageSpec) (float64, float64, error) {
	base, ok := pagePresets[strings.ToUpper(spec.Size)]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", spec.Size)
	}
	width, height := base[0], base[1]
	for _, token := range spec.Params {
		if token.Value == "landscape" {
			width, height = height, width
		}
	}
	return width, height, nil
}

// resolveMargin 按 CSS 语义解析 margin 后的 1~4 个长度，默认四边 10mm。
func resolveMargin(params []*dsl.Lexeme) Margin {
	margin := Margin{Top: 10, Right: 10, Bottom: 10, Left: 10}
	for i := 0; i < len(params); i++ {
		if params[i].Value != "margin" {
			continue
		}
		vals := []float64{}
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			l, ok := ParseLength(params[j].Value)
			if !ok {
				break
			}
			vals = append(vals, l.ToMM())
		}
		switch len(vals) {
		case 1:
			v := vals[0]
			margin = Margin{Top: v, Right: v, Bottom: v, Left: v}
		case 2:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
		case 3:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
		case 4:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
		}
	}
	return margin
}

func parseArgs(args []*dsl.Lexeme, allowStyle bool) (string, map[string]string) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result
	}

	cursor := 0
	var style string
	if allowStyle && args[0].Type == "Ident" && (len(args)%2 == 1) {
		style = args[0].Value
		cursor = 1
	}
	for cursor < len(args)-1 {
		result[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	return style, result
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := make(map[string]string)
	if s, ok := styles[style]; ok {
		for k, v := range s.Props {
			out[k] = v
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

func resolveFontResource(name string, res ResourceSet) (FontResource, error) {
	if font, ok := res.Fonts[name]; ok {
		return font, nil
	}
	if font, ok := res.Fonts["Body"]; ok {
		return font, nil
	}
	for _, font := range res.Fonts {
		return font, nil
	}
	return FontResource{}, fmt.Errorf("字体 %s 未定义，且没有可用的默认字体", name)
}

func resolveColor(value string, res ResourceSet) Color {
	if value == "" {
		return Color{R: 30, G: 30, B: 30}
	}
	if c, ok := res.Colors[value]; ok {
		return c
	}
	if strings.HasPrefix(value, "#") {
		if c, err := parseColor(value); err == nil {
			return c
		}
	}
	return Color{R: 30, G: 30, B: 30}
}

func parseColor(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	switch len(value) {
	case 3:
		return Color{
			R: mustHex(strings.Repeat(value[0:1], 2)),
			G: mustHex(strings.Repeat(value[1:2], 2)),
			B: mustHex(strings.Repeat(value[2:3], 2)),
		}, nil
	case 6, 8:
		return Color{
			R: mustHex(value[0:2]),
			G: mustHex(value[2:4]),
			B: mustHex(value[4:6]),
		}, nil
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
}

func parseRectShape(attrs map[string]string, res ResourceSet) (Rect, bool) {
	rc := Rect{
		X:      parseLength(attrs["x"]),
		Y:      parseLength(attrs["y"]),
		Width:  parseLength(attrs["width"]),
		Height: parseLength(attrs["height"]),
	}
	if rc.Width <= 0 || rc.Height <= 0 {
		return Rect{}, false
	}
	if v := attrs["stroke"]; v != "" {
		rc.StrokeColor = resolveColor(v, res)
	}
	if v := attrs["stroke-width"]; v != "" {
		rc.StrokeWidth = parseLength(v)
	}
	if v := attrs["fill"]; v != "" {
		c := resolveColor(v, res)
		rc.FillColor = &c
	}
	return rc, true
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}
