package canvasrenderer

import (
	"bytes"
	"math"
	"testing"

	"github.com/ByLCY/cannedtext/dsl"
	"github.com/ByLCY/cannedtext/fonts"
	"github.com/ByLCY/cannedtext/layout"
)

var bodyFont = layout.FontResource{Name: "Body", Src: "go:regular"}

func TestLayoutLinesGreedyWrapsText(t *testing.T) {
	r := NewRenderer(".")

	// 这里的宽度/字号/行高均为 mm
	fontSizeMM := 12 * layout.PtToMm
	lineHeightMM := fontSizeMM * 1.2

	lines, err := r.LayoutLines("hello world again", 10, bodyFont, fontSizeMM, lineHeightMM, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if ln.Content != "" && (ln.Content[0] == ' ' || ln.Content[len(ln.Content)-1] == ' ') {
			t.Fatalf("line %d keeps surrounding blanks: %q", i, ln.Content)
		}
	}
}

func TestGreedyWrapHonorsNewlines(t *testing.T) {
	r := NewRenderer(".")
	fontSizeMM := 12 * layout.PtToMm

	lines, err := r.LayoutLines("foo\n\nbar", 100, bodyFont, fontSizeMM, fontSizeMM*1.2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines including blank, got %d", len(lines))
	}
	if lines[1].Content != "" {
		t.Fatalf("expected middle line to be blank, got %q", lines[1].Content)
	}
}

func TestNowrapIgnoresWidth(t *testing.T) {
	r := NewRenderer(".")
	fontSizeMM := 12 * layout.PtToMm

	lines, err := r.LayoutLines("a rather long single line\nsecond", 5, bodyFont, fontSizeMM, fontSizeMM*1.4, "nowrap")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[0].Content != "a rather long single line" {
		t.Fatalf("nowrap must only break on newlines, got %+v", lines)
	}
	if lines[0].Width <= 5 {
		t.Fatalf("nowrap line width should exceed the limit, got %g", lines[0].Width)
	}
}

// TestLineHeightsInvariant 验证：
// 1) 首行 GapBefore == 0；
// 2) 其余行 GapBefore ≈ max(lineHeight - textHeight, 0)；
// 3) 各行的 Height 与 textHeight 一致。
func TestLineHeightsInvariant(t *testing.T) {
	r := NewRenderer(".")
	fontSizeMM := 12 * layout.PtToMm
	lineHeightMM := fontSizeMM * 1.3

	content := "longlonglong longlonglong longlonglong longlonglong longlonglong"
	lines, err := r.LayoutLines(content, 40, bodyFont, fontSizeMM, lineHeightMM, "")
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines, got %d", len(lines))
	}

	textHeight := lines[0].Height
	if textHeight <= 0 {
		t.Fatalf("invalid text height: %g", textHeight)
	}
	wantLeading := math.Max(lineHeightMM-textHeight, 0)

	if lines[0].GapBefore != 0 {
		t.Fatalf("first line GapBefore must be 0, got %g", lines[0].GapBefore)
	}
	const eps = 1e-6
	for i := 1; i < len(lines); i++ {
		if diff := math.Abs(lines[i].GapBefore - wantLeading); diff > eps {
			t.Fatalf("line %d GapBefore mismatch: got=%g want=%g", i, lines[i].GapBefore, wantLeading)
		}
		if diff := math.Abs(lines[i].Height - textHeight); diff > eps {
			t.Fatalf("line %d Height mismatch: got=%g want=%g", i, lines[i].Height, textHeight)
		}
	}
}

func TestGreedyWrapWidthLimit(t *testing.T) {
	r := NewRenderer(".")
	fontSizeMM := 12 * layout.PtToMm

	limit := 30.0 // mm
	content := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	for _, wrap := range []string{"anywhere", "break-word"} {
		lines, err := r.LayoutLines(content, limit, bodyFont, fontSizeMM, fontSizeMM*1.2, wrap)
		if err != nil {
			t.Fatalf("%s: LayoutLines error: %v", wrap, err)
		}
		if len(lines) < 2 {
			t.Fatalf("%s: expected the word to be split, got %d lines", wrap, len(lines))
		}
		for i, ln := range lines {
			if ln.Width-limit > 1e-6 {
				t.Fatalf("%s: line %d width exceeds limit: width=%g limit=%g", wrap, i, ln.Width, limit)
			}
		}
	}
}

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	r := NewRenderer(".")
	fontSizeMM := 12 * layout.PtToMm

	first := "SAMPLE-A"
	measured, err := r.LayoutLines(first, 0, bodyFont, fontSizeMM, fontSizeMM*1.2, "")
	if err != nil {
		t.Fatalf("measure error: %v", err)
	}
	if len(measured) != 1 {
		t.Fatalf("unexpected measured lines: %d", len(measured))
	}
	limit := measured[0].Width
	if limit <= 0 {
		t.Fatalf("invalid measured width: %g", limit)
	}

	lines, err := r.LayoutLines(first+"\nSAMPLE", limit, bodyFont, fontSizeMM, fontSizeMM*1.2, "")
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if got := len(lines); got != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", got)
	}
	if lines[0].Content != first || lines[1].Content != "SAMPLE" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestUnknownFontFallsBackToGoRegular(t *testing.T) {
	r := NewRenderer("")
	font := layout.FontResource{Name: "Missing", Src: "built-in:missing"}
	lines, err := r.LayoutLines("abc", 0, font, 4, 5, "")
	if err != nil {
		t.Fatalf("fallback font expected, got error: %v", err)
	}
	if len(lines) != 1 || lines[0].Width <= 0 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestInjectedFontIsMeasured(t *testing.T) {
	data, err := fonts.Load(fonts.Mono)
	if err != nil {
		t.Fatalf("load mono: %v", err)
	}
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{
		"mono":  {Bytes: data},
		"empty": {},
	}})
	if _, err := r.loadFontBytes("empty", "built-in:empty"); err == nil {
		t.Fatalf("empty resource must not be registered")
	}

	font := layout.FontResource{Name: "Code", Src: "built-in:mono"}
	narrow, err := r.LayoutLines("iii", 0, font, 4, 5, "nowrap")
	if err != nil {
		t.Fatalf("LayoutLines: %v", err)
	}
	wide, err := r.LayoutLines("WWW", 0, font, 4, 5, "nowrap")
	if err != nil {
		t.Fatalf("LayoutLines: %v", err)
	}
	if math.Abs(narrow[0].Width-wide[0].Width) > 1e-6 {
		t.Fatalf("monospaced font expected, got %g vs %g", narrow[0].Width, wide[0].Width)
	}
}

func TestRenderCannedDocument(t *testing.T) {
	doc, err := dsl.ParseString(`canned Poster v1 {
  meta { title: "Poster" }
  resources {
    font Heading { src: "go:bold" style: "bold" }
    style Title { font: Heading align: center valign: middle border: true padding: 2mm }
  }
  page A5 {
    rect x 0mm y 0mm width 128mm height 40mm fill #EEEEEE
    box Title id title width 128mm height 40mm { "Canned ${event}" }
    box id note y 50mm width 128mm height 40mm nowrap true { "one line only" }
  }
  page A5 landscape {
    box { "second page" }
  }
}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	r := NewRenderer(".")
	res, err := layout.Build(doc, []byte(`{"event":"Text"}`), layout.BuildOptions{Typesetter: r})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(res.Pages))
	}
	for _, page := range res.Pages {
		for _, box := range page.Boxes {
			if !box.Fit.Fits {
				t.Fatalf("box %s overflows: %+v", box.ID, box.Fit)
			}
			if box.FontSize <= 12 {
				t.Fatalf("box %s should grow past the default size, got %d", box.ID, box.FontSize)
			}
		}
	}
	if got := res.Pages[0].Boxes[1].Fit.Direction; got != "horizontal" {
		t.Fatalf("wide nowrap text should be width bound, got %s", got)
	}

	pdfBytes, err := r.Render(res)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderRejectsEmptyResult(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("expected error for result without pages")
	}
}
