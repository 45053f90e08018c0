// Package web serves the journal HTTP surface: the upload form, the styled
// preview and the DOCX/PDF downloads.
//
// Handlers are plain gin handlers over an immutable roster, a page set loaded
// once at startup and an Exporter. Every request is independent; the only
// filesystem effects are the persisted upload and the short-lived export
// files, which are removed after the response is streamed.
package web
