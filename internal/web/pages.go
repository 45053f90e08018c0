package web

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alnah/go-journal/internal/assets"
	"github.com/alnah/go-journal/internal/roster"
)

// pages holds the parsed page templates. Each page is the layout cloned
// with its own "content" block.
type pages struct {
	index   *template.Template
	preview *template.Template
	style   template.CSS
}

func parsePages(ps *assets.PageSet) (*pages, error) {
	layout, err := template.New(assets.TemplateLayout).Parse(ps.Layout)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", assets.TemplateLayout, err)
	}

	page := func(name, src string) (*template.Template, error) {
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.Parse(src); err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		return t, nil
	}

	index, err := page(assets.TemplateIndex, ps.Index)
	if err != nil {
		return nil, err
	}
	preview, err := page(assets.TemplatePreview, ps.Preview)
	if err != nil {
		return nil, err
	}

	return &pages{
		index:   index,
		preview: preview,
		style:   template.CSS(ps.Style), // #nosec G203 -- stylesheet comes from embedded or operator assets
	}, nil
}

// layoutData is shared by every page.
type layoutData struct {
	Title     string
	SiteTitle string
	Style     template.CSS
}

type indexData struct {
	layoutData
	Intro   template.HTML
	Entries []roster.Entry
	Roster  map[string]string
}

type previewData struct {
	layoutData
	StudentID     string
	StudentName   string
	Raw           string
	Annotated     string
	AnnotatedHTML template.HTML
	Highlighted   template.HTML
	PDFEnabled    bool
}

func execute(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, assets.TemplateLayout, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}
