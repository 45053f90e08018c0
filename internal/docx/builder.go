package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxHeadingLevel is the deepest heading style declared in styles.xml.
const MaxHeadingLevel = 9

// ErrInvalidHeadingLevel is returned for levels outside 0..MaxHeadingLevel.
var ErrInvalidHeadingLevel = errors.New("invalid heading level")

// Font is a run font: family name and size in points (1pt = 1/72 inch).
type Font struct {
	Family string
	SizePt float64
}

// halfPoints converts the size to the w:sz unit.
func (f Font) halfPoints() string {
	return fmt.Sprintf("%d", int(f.SizePt*2+0.5))
}

// Builder accumulates body paragraphs. The zero value is not usable; call New.
type Builder struct {
	title      string
	paragraphs []xmlParagraph
	err        error
}

// New returns an empty document builder.
func New() *Builder {
	return &Builder{}
}

// SetTitle records the document title in docProps/core.xml.
func (b *Builder) SetTitle(title string) {
	b.title = title
}

// AddHeading appends a heading paragraph. Level 0 is the document title style.
// An invalid level is remembered and reported by WriteTo.
func (b *Builder) AddHeading(text string, level int) {
	if level < 0 || level > MaxHeadingLevel {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %d", ErrInvalidHeadingLevel, level)
		}
		return
	}
	style := "Title"
	if level > 0 {
		style = fmt.Sprintf("Heading%d", level)
	}
	b.paragraphs = append(b.paragraphs, xmlParagraph{
		Props: &xmlParaProps{Style: &xmlVal{Val: style}},
		Runs:  textRuns(text, nil),
	})
}

// AddRun appends an unstyled paragraph holding a single formatted run of
// text. Line breaks and tabs in text are preserved.
func (b *Builder) AddRun(text string, font Font) {
	b.paragraphs = append(b.paragraphs, xmlParagraph{
		Runs: textRuns(text, runProps(font)),
	})
}

// AddParagraph appends a "Normal" paragraph whose text uses font.
func (b *Builder) AddParagraph(text string, font Font) {
	b.paragraphs = append(b.paragraphs, xmlParagraph{
		Props: &xmlParaProps{Style: &xmlVal{Val: "Normal"}},
		Runs:  textRuns(text, runProps(font)),
	})
}

// Len returns the number of paragraphs added so far.
func (b *Builder) Len() int {
	return len(b.paragraphs)
}

// Bytes returns the serialized .docx archive.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the .docx archive to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	if b.err != nil {
		return 0, b.err
	}

	document, err := b.documentXML()
	if err != nil {
		return 0, err
	}
	core, err := coreXML(b.title)
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"docProps/core.xml", core},
		{"word/document.xml", document},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
	}
	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return cw.n, fmt.Errorf("creating %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return cw.n, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("closing archive: %w", err)
	}
	return cw.n, nil
}

func (b *Builder) documentXML() ([]byte, error) {
	doc := xmlDocument{
		W: nsW,
		R: nsR,
		Body: xmlBody{
			Paragraphs: b.paragraphs,
			Section:    defaultSection(),
		},
	}
	out, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document.xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func runProps(f Font) *xmlRunProps {
	if f.Family == "" && f.SizePt <= 0 {
		return nil
	}
	p := &xmlRunProps{}
	if f.Family != "" {
		p.Fonts = &xmlFonts{ASCII: f.Family, HAnsi: f.Family, CS: f.Family, EastAsia: f.Family}
	}
	if f.SizePt > 0 {
		p.Size = &xmlVal{Val: f.halfPoints()}
		p.SizeCS = &xmlVal{Val: f.halfPoints()}
	}
	return p
}

// textRuns splits text into runs so line breaks and tabs become w:br/w:tab.
// CRLF and lone CR count as one break.
func textRuns(text string, props *xmlRunProps) []xmlRun {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var runs []xmlRun
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			runs = append(runs, xmlRun{Props: props, Break: &struct{}{}})
		}
		for j, seg := range strings.Split(line, "\t") {
			if j > 0 {
				runs = append(runs, xmlRun{Props: props, Tab: &struct{}{}})
			}
			if seg != "" {
				runs = append(runs, xmlRun{Props: props, Text: &xmlText{Space: "preserve", Value: seg}})
			}
		}
	}
	return runs
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
