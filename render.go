package journal

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/alnah/go-journal/internal/assets"
)

// printPage renders a Document as a standalone HTML page for browser printing.
type printPage struct {
	tmpl *template.Template
	css  template.CSS
}

type printData struct {
	Title  string
	Style  template.CSS
	Blocks []printBlock
}

type printBlock struct {
	Tag   string // h1..h6, pre or p
	Text  string
	Style template.CSS
}

// newPrintPage loads the print template and stylesheet from loader.
func newPrintPage(loader assets.AssetLoader) (*printPage, error) {
	src, err := loader.LoadTemplate(assets.TemplatePrint)
	if err != nil {
		return nil, fmt.Errorf("loading print template: %w", err)
	}
	css, err := loader.LoadStyle(assets.StylePrint)
	if err != nil {
		return nil, fmt.Errorf("loading print style: %w", err)
	}
	tmpl, err := template.New(assets.TemplatePrint).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing print template: %w", err)
	}
	return &printPage{tmpl: tmpl, css: template.CSS(css)}, nil // #nosec G203 -- stylesheet is a trusted asset
}

// Render executes the template for doc.
func (p *printPage) Render(doc *Document) ([]byte, error) {
	data := printData{
		Title:  doc.Student.Title(),
		Style:  p.css,
		Blocks: make([]printBlock, 0, len(doc.Sections)),
	}
	for _, s := range doc.Sections {
		data.Blocks = append(data.Blocks, toPrintBlock(s))
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering print page: %w", err)
	}
	return buf.Bytes(), nil
}

func toPrintBlock(s Section) printBlock {
	switch s.Kind {
	case SectionHeading:
		level := min(s.Level+1, 6)
		return printBlock{Tag: "h" + strconv.Itoa(level), Text: s.Text}
	case SectionRun:
		return printBlock{Tag: "pre", Text: s.Text, Style: fontCSS(s.Font)}
	default:
		return printBlock{Tag: "p", Text: s.Text, Style: fontCSS(s.Font)}
	}
}

// fontCSS renders a Font as an inline declaration, e.g.
// font-family: "Times New Roman"; font-size: 12pt
func fontCSS(f Font) template.CSS {
	var b bytes.Buffer
	if f.Family != "" {
		b.WriteString("font-family: " + strconv.Quote(f.Family) + ";")
	}
	if f.SizePt > 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("font-size: " + strconv.FormatFloat(f.SizePt, 'f', -1, 64) + "pt")
	}
	return template.CSS(b.String()) // #nosec G203 -- built from numeric size and quoted family
}
