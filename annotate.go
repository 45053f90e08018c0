package journal

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-journal/internal/htmldoc"
)

// Inline styles applied by Annotate.
const (
	HeadingStyle = "font-family: Times New Roman; font-size: 14pt"
	BodyStyle    = "font-family: Times New Roman; font-size: 12pt"
)

// StyleFor returns the inline style for a tag name.
// Any tag starting with "h" counts as a heading, so header, hr, html and head
// get the 14pt style too.
func StyleFor(tag string) string {
	if strings.HasPrefix(tag, "h") {
		return HeadingStyle
	}
	return BodyStyle
}

// Annotate sets a font style attribute on every start tag of raw and returns
// the result. An existing style attribute is overwritten in place; other
// attributes are left untouched. Text, comments, end tags and the doctype
// are copied byte for byte, and no element is added, dropped or moved, so
// unclosed or misnested markup stays as written. Annotate(Annotate(x)) ==
// Annotate(x).
func Annotate(raw string) (string, error) {
	out, err := htmldoc.RewriteStartTags(raw, func(tok *html.Token) {
		htmldoc.SetTokenAttr(tok, "style", StyleFor(tok.Data))
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	return out, nil
}
