// Package htmldoc is the tag-soup HTML capability used by the annotator and
// the composer, built on the golang.org/x/net/html tokenizer.
//
// Nothing here runs HTML5 tree construction: elements are never added,
// dropped or moved. A fragment keeps its head and body tags, tables get no
// tbody, and a div inside a p stays inside it.
package htmldoc

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrParse wraps the (rare) failures of the underlying tokenizer.
var ErrParse = errors.New("html parse failed")

// voidElements never have content, so their start tag does not open a scope.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

// RewriteStartTags streams src through fn, which may edit each start or
// self-closing tag. Tags are re-serialized from their token (lowercase
// name, quoted attributes); every other token is copied byte for byte.
func RewriteStartTags(src string, fn func(tok *html.Token)) (string, error) {
	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	b.Grow(len(src) + len(src)/2)

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: %v", ErrParse, err)
			}
			return b.String(), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			fn(&tok)
			b.WriteString(tok.String())
		default:
			b.Write(z.Raw())
		}
	}
}

// SetTokenAttr sets key on tok, replacing an existing value in place so
// attribute order is preserved.
func SetTokenAttr(tok *html.Token, key, val string) {
	tok.Attr = setAttr(tok.Attr, key, val)
}

// Tree is a parsed HTML source under a document node.
type Tree struct {
	root *html.Node
}

// Parse builds a tree from src the way a lenient tag-soup parser does:
// a start tag opens an element inside the current one, an end tag closes
// the nearest open element of that name (and everything opened after it),
// and an end tag with no open match is ignored. Unclosed elements stay open
// to the end of input. Malformed markup is never rejected.
func Parse(src string) (*Tree, error) {
	root := &html.Node{Type: html.DocumentNode}
	open := []*html.Node{root}
	z := html.NewTokenizer(strings.NewReader(src))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: %v", ErrParse, err)
			}
			return &Tree{root: root}, nil
		}

		tok := z.Token()
		current := open[len(open)-1]
		switch tt {
		case html.TextToken:
			current.AppendChild(&html.Node{Type: html.TextNode, Data: tok.Data})
		case html.CommentToken:
			current.AppendChild(&html.Node{Type: html.CommentNode, Data: tok.Data})
		case html.DoctypeToken:
			current.AppendChild(&html.Node{Type: html.DoctypeNode, Data: tok.Data})
		case html.StartTagToken, html.SelfClosingTagToken:
			n := &html.Node{Type: html.ElementNode, Data: tok.Data, DataAtom: tok.DataAtom, Attr: tok.Attr}
			current.AppendChild(n)
			if tt == html.StartTagToken && !voidElements[tok.DataAtom] {
				open = append(open, n)
			}
		case html.EndTagToken:
			for i := len(open) - 1; i > 0; i-- {
				if open[i].Data == tok.Data {
					open = open[:i]
					break
				}
			}
		}
	}
}

// Elements returns every element node in document order.
func (t *Tree) Elements() []*html.Node {
	var out []*html.Node
	walk(t.root, func(n *html.Node) {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
	})
	return out
}

// FindAll returns elements whose tag name is one of tags, in document order.
// Nested matches are all returned.
func (t *Tree) FindAll(tags ...string) []*html.Node {
	want := make(map[string]bool, len(tags))
	for _, tag := range tags {
		want[strings.ToLower(tag)] = true
	}
	var out []*html.Node
	for _, n := range t.Elements() {
		if want[n.Data] {
			out = append(out, n)
		}
	}
	return out
}

// Render serializes the tree back to HTML. Unclosed elements get end tags.
func (t *Tree) Render() (string, error) {
	var b strings.Builder
	for c := t.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("rendering html: %w", err)
		}
	}
	return b.String(), nil
}

// SetAttr sets key on n, replacing an existing value in place so attribute
// order is preserved.
func SetAttr(n *html.Node, key, val string) {
	n.Attr = setAttr(n.Attr, key, val)
}

func setAttr(attrs []html.Attribute, key, val string) []html.Attribute {
	for i := range attrs {
		if attrs[i].Namespace == "" && attrs[i].Key == key {
			attrs[i].Val = val
			return attrs
		}
	}
	return append(attrs, html.Attribute{Key: key, Val: val})
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Text concatenates the visible text below n. Script, style and template
// contents are not visible and are skipped, as are comments.
func Text(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template:
				return
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
