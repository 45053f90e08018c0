package journal

import (
	"fmt"
	"strings"

	"github.com/alnah/go-journal/internal/htmldoc"
)

// Section headings of every composed document.
const (
	CodeHeading   = "HTML Code"
	RenderHeading = "Rendered Output"
)

// textTags are the elements whose visible text becomes a paragraph.
var textTags = []string{"p", "div", "span", "h1", "h2", "h3", "h4", "h5"}

// Compose builds the journal Document for student from the raw upload and its
// annotated form.
//
// Layout:
//
//	Title     "{name} ({id})"
//	Heading 1 "HTML Code"
//	Run       raw, verbatim, 10pt
//	Heading 1 "Rendered Output"
//	Paragraph one per p/div/span/h1-h5 with non-blank text, 12pt
//
// Nested matches each contribute a paragraph, so text inside <div><p>..</p></div>
// appears twice. Fonts never come from the annotation.
func Compose(student Student, raw, annotated string) (*Document, error) {
	tree, err := htmldoc.Parse(annotated)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	doc := &Document{
		Student: student,
		Sections: []Section{
			{Kind: SectionHeading, Text: student.Title(), Level: 0},
			{Kind: SectionHeading, Text: CodeHeading, Level: 1},
			{Kind: SectionRun, Text: raw, Font: FontCode},
			{Kind: SectionHeading, Text: RenderHeading, Level: 1},
		},
	}

	for _, n := range tree.FindAll(textTags...) {
		text := strings.TrimSpace(htmldoc.Text(n))
		if text == "" {
			continue
		}
		doc.Sections = append(doc.Sections, Section{
			Kind: SectionParagraph,
			Text: text,
			Font: FontParagraph,
		})
	}

	return doc, nil
}

// Paragraphs returns the text of the body paragraphs in order.
func (d *Document) Paragraphs() []string {
	var out []string
	for _, s := range d.Sections {
		if s.Kind == SectionParagraph {
			out = append(out, s.Text)
		}
	}
	return out
}
