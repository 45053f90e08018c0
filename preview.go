package journal

import (
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightStyle is the chroma style used for the preview source listing.
const HighlightStyle = "github"

// Preview annotates raw and prepares everything the preview page displays.
func Preview(raw string) (*PreviewResult, error) {
	annotated, err := Annotate(raw)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		Raw:         raw,
		Annotated:   annotated,
		Highlighted: Highlight(raw),
	}, nil
}

// Highlight renders source as a syntax-highlighted HTML <pre> block with
// inline styles. If highlighting fails the escaped source is returned in a
// plain <pre>.
func Highlight(source string) string {
	lexer := lexers.Get("html")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return plainListing(source)
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(false),
		chromahtml.WithLineNumbers(true),
		chromahtml.TabWidth(4),
	)

	var b strings.Builder
	if err := formatter.Format(&b, styles.Get(HighlightStyle), it); err != nil {
		return plainListing(source)
	}
	return b.String()
}

func plainListing(source string) string {
	return "<pre>" + html.EscapeString(source) + "</pre>"
}
