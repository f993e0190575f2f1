package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/cannedtext/dsl"
)

const sampleDSL = `
canned Poster v1 {
  meta {
    title: "Poster"
    keywords: [
      "poster"
      "demo"
    ]
  }

  resources {
    font Body {
      src: "go:regular"
    }

    color Accent = #0F62FE
    style Headline extends Base { size: 18pt nowrap: true }
  }

  page A4 landscape margin 10mm {
    box Headline x 10mm y 10mm width 120mm height 30mm { "Hello, ${user.name}!" }
    rect x 5mm y 5mm width 200mm height 40mm stroke #ccc
  }

  page A5 {
    box Body x 10mm y 10mm width 50mm height 20mm {
      "second"
      " page"
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Poster" {
		t.Fatalf("expected document name Poster, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(doc.Sections))
	}
	for i, want := range []string{"meta", "resources", "page", "page"} {
		if got := doc.Sections[i].Kind(); got != want {
			t.Fatalf("section %d: expected kind %s, got %s", i, want, got)
		}
	}
	var missing *dsl.Section
	if got := missing.Kind(); got != "unknown" {
		t.Fatalf("nil section kind: got %s", got)
	}

	meta := doc.Sections[0].Meta
	if meta == nil {
		t.Fatalf("meta section missing")
	}
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	if got := title.Value.Text(); got != "Poster" {
		t.Fatalf("expected title Poster, got %s", got)
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil {
		t.Fatalf("expected keywords array assignment")
	}
	if got := keywords.Value.Strings(); len(got) != 2 || got[1] != "demo" {
		t.Fatalf("unexpected keywords: %v", got)
	}

	res := doc.Sections[1].Resources
	if res == nil || len(res.Block.Statements) != 3 {
		t.Fatalf("expected 3 resource statements")
	}
	colorCmd := res.Block.Statements[1].Command
	if colorCmd == nil || colorCmd.Name != "color" {
		t.Fatalf("expected color command, got %+v", res.Block.Statements[1])
	}
	last := colorCmd.Args[len(colorCmd.Args)-1]
	if last.Type != "Color" || last.Value != "#0F62FE" {
		t.Fatalf("six-digit color must lex as one token, got %+v", last)
	}
	styleCmd := res.Block.Statements[2].Command
	if styleCmd == nil || len(styleCmd.Args) != 3 || styleCmd.Args[1].Value != "extends" {
		t.Fatalf("unexpected style command: %+v", styleCmd)
	}
	nowrap := styleCmd.Block.Statements[1].Assignment
	if nowrap == nil || nowrap.Value.Ident == nil || nowrap.Value.Text() != "true" {
		t.Fatalf("expected identifier value for nowrap, got %+v", styleCmd.Block.Statements[1])
	}

	pages := doc.Pages()
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	page := pages[0]
	if page.Spec.Size != "A4" {
		t.Fatalf("expected page size A4, got %s", page.Spec.Size)
	}
	if len(page.Spec.Params) != 3 || page.Spec.Params[0].Value != "landscape" || page.Spec.Params[2].Value != "10mm" {
		t.Fatalf("unexpected page params: %+v", page.Spec.Params)
	}

	box := page.Block.Statements[0].Command
	if box == nil || box.Name != "box" {
		t.Fatalf("expected box command, got %+v", page.Block.Statements[0])
	}
	if got := argValues(box.Args); got != "Headline x 10mm y 10mm width 120mm height 30mm" {
		t.Fatalf("unexpected box args: %s", got)
	}
	if box.Block == nil || box.Block.Statements[0].Text == nil {
		t.Fatalf("box command missing literal content")
	}
	if got := string(box.Block.Statements[0].Text.Value); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}

	rect := page.Block.Statements[1].Command
	if rect == nil || rect.Name != "rect" || rect.Block != nil {
		t.Fatalf("expected block-less rect command, got %+v", page.Block.Statements[1])
	}

	second := pages[1].Block.Statements[0].Command
	if second == nil || len(second.Block.Statements) != 2 {
		t.Fatalf("expected two text literals on second page")
	}
}

func TestParseRejectsMissingRoot(t *testing.T) {
	if _, err := dsl.ParseString(`doc X v1 { }`); err == nil {
		t.Fatalf("expected error for non-canned root")
	}
}

func argValues(args []*dsl.Lexeme) string {
	values := make([]string, 0, len(args))
	for _, a := range args {
		values = append(values, a.Value)
	}
	return strings.Join(values, " ")
}
