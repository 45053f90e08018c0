package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	journal "github.com/alnah/go-journal"
	"github.com/alnah/go-journal/internal/fileutil"
	"github.com/alnah/go-journal/internal/logger"
	"github.com/alnah/go-journal/internal/roster"
)

// Form field names shared by the pages and the handlers.
const (
	FieldStudentID   = "student_id"
	FieldStudentName = "student_name"
	FieldHTMLFile    = "html_file"
	FieldHTMLCode    = "html_code"
	FieldHTMLRender  = "html_render"
)

// UploadExtension is the required upload suffix. The match is case-sensitive.
const UploadExtension = ".html"

// Response bodies for client-visible failures.
const (
	msgBadExtension   = "Only .html files are allowed"
	msgTooLarge       = "Upload too large"
	msgMalformedForm  = "Malformed form body"
	msgBadHTML        = "Could not parse the HTML"
	msgUnavailable    = "PDF conversion is unavailable"
	msgExportFailed   = "Could not produce the document"
	msgInternalError  = "Internal Server Error"
	msgUploadRejected = "Invalid upload file name"
)

// Exporter produces downloadable files from a composed document.
// *journal.Exporter satisfies it.
type Exporter interface {
	ExportEditable(ctx context.Context, doc *journal.Document) (*journal.ExportedFile, error)
	ExportFixedLayout(ctx context.Context, doc *journal.Document) (*journal.ExportedFile, error)
}

// Handler serves the journal routes.
type Handler struct {
	log        *logger.Logger
	roster     *roster.Roster
	exporter   Exporter
	pages      *pages
	siteTitle  string
	intro      template.HTML
	uploadDir  string
	maxMemory  int64
	pdfEnabled bool
}

// Index renders the upload form with the roster.
func (h *Handler) Index(c *gin.Context) {
	h.render(c, h.pages.index, indexData{
		layoutData: h.layout(h.siteTitle),
		Intro:      h.intro,
		Entries:    h.roster.Entries(),
		Roster:     h.roster.Names(),
	})
}

// Preview persists the uploaded HTML file and renders its styled preview.
func (h *Handler) Preview(c *gin.Context) {
	if !h.parseForm(c) {
		return
	}
	studentID, ok := h.requireField(c, FieldStudentID)
	if !ok {
		return
	}
	studentName, ok := h.requireField(c, FieldStudentName)
	if !ok {
		return
	}
	fh, err := c.FormFile(FieldHTMLFile)
	if err != nil {
		h.missingField(c, FieldHTMLFile)
		return
	}

	if !strings.HasSuffix(fh.Filename, UploadExtension) {
		c.String(http.StatusBadRequest, msgBadExtension)
		return
	}
	base, err := fileutil.UploadName(fh.Filename)
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: %v", journal.ErrInvalidUpload, err))
		c.String(http.StatusBadRequest, msgUploadRejected)
		return
	}

	dst := filepath.Join(h.uploadDir, base)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		h.fail(c, fmt.Errorf("%w: saving upload: %v", journal.ErrIOFailure, err))
		return
	}
	raw, err := os.ReadFile(dst) // #nosec G304 -- dst is a base name joined under the upload dir
	if err != nil {
		h.fail(c, fmt.Errorf("%w: reading upload: %v", journal.ErrIOFailure, err))
		return
	}

	res, err := journal.Preview(string(raw))
	if err != nil {
		h.fail(c, err)
		return
	}

	student := journal.Student{ID: studentID, Name: studentName}
	h.render(c, h.pages.preview, previewData{
		layoutData:    h.layout(student.Title()),
		StudentID:     studentID,
		StudentName:   studentName,
		Raw:           res.Raw,
		Annotated:     res.Annotated,
		AnnotatedHTML: template.HTML(res.Annotated), // #nosec G203 -- the preview shows the student's own page
		Highlighted:   template.HTML(res.Highlighted), // #nosec G203 -- chroma escapes the source
		PDFEnabled:    h.pdfEnabled,
	})
}

// DownloadWord streams the composed document as DOCX.
func (h *Handler) DownloadWord(c *gin.Context) {
	h.download(c, h.exporter.ExportEditable)
}

// DownloadPDF streams the composed document as PDF.
func (h *Handler) DownloadPDF(c *gin.Context) {
	if !h.pdfEnabled {
		h.fail(c, fmt.Errorf("%w: converter was not found at startup", journal.ErrConversionUnavailable))
		return
	}
	h.download(c, h.exporter.ExportFixedLayout)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type exportFunc func(ctx context.Context, doc *journal.Document) (*journal.ExportedFile, error)

func (h *Handler) download(c *gin.Context, export exportFunc) {
	if !h.parseForm(c) {
		return
	}
	fields := make(map[string]string, 4)
	for _, name := range []string{FieldStudentID, FieldStudentName, FieldHTMLCode, FieldHTMLRender} {
		v, ok := h.requireField(c, name)
		if !ok {
			return
		}
		fields[name] = v
	}

	student := journal.Student{ID: fields[FieldStudentID], Name: fields[FieldStudentName]}
	doc, err := journal.Compose(student, fields[FieldHTMLCode], fields[FieldHTMLRender])
	if err != nil {
		h.fail(c, err)
		return
	}

	file, err := export(c.Request.Context(), doc)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer file.Cleanup()

	c.Header("Content-Type", file.ContentType())
	c.FileAttachment(file.Path, file.DownloadName)
}

// parseForm reads the request body once. False means a response was written.
func (h *Handler) parseForm(c *gin.Context) bool {
	err := c.Request.ParseMultipartForm(h.maxMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return true
	}
	_ = c.Error(fmt.Errorf("%w: %v", journal.ErrInvalidUpload, err))
	if isTooLarge(err) {
		c.String(http.StatusRequestEntityTooLarge, msgTooLarge)
	} else {
		c.String(http.StatusBadRequest, msgMalformedForm)
	}
	return false
}

// requireField returns the posted value of name. A missing field answers
// 400 naming it; an empty value is accepted.
func (h *Handler) requireField(c *gin.Context, name string) (string, bool) {
	v, ok := c.GetPostForm(name)
	if !ok {
		h.missingField(c, name)
	}
	return v, ok
}

func (h *Handler) missingField(c *gin.Context, name string) {
	_ = c.Error(fmt.Errorf("%w: missing form field %s", journal.ErrInvalidUpload, name))
	c.String(http.StatusBadRequest, "Missing form field: %s", name)
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

// fail maps err to a status and a short plain-text body. Details go to the
// log through c.Error, never to the client.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, journal.ErrConversionUnavailable):
		c.String(http.StatusServiceUnavailable, msgUnavailable)
	case errors.Is(err, journal.ErrParseFailure):
		c.String(http.StatusBadRequest, msgBadHTML)
	case errors.Is(err, journal.ErrIOFailure):
		c.String(http.StatusInternalServerError, msgExportFailed)
	default:
		c.String(http.StatusInternalServerError, msgInternalError)
	}
}

func (h *Handler) render(c *gin.Context, t *template.Template, data any) {
	body, err := execute(t, data)
	if err != nil {
		h.log.Error("page render failed", "path", c.Request.URL.Path, "error", err)
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

func (h *Handler) layout(title string) layoutData {
	return layoutData{
		Title:     title,
		SiteTitle: h.siteTitle,
		Style:     h.pages.style,
	}
}
