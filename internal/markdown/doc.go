// Package markdown renders the site introduction shown on the index page.
//
// The intro is operator-supplied Markdown from the site.intro config key.
// It is rendered once at startup into an HTML fragment with GitHub Flavored
// Markdown extensions and inline-styled code highlighting. Raw HTML in the
// source is dropped, so the fragment is safe to embed in the page as is.
package markdown
