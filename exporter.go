package journal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-journal/internal/assets"
	"github.com/alnah/go-journal/internal/docx"
	"github.com/alnah/go-journal/internal/fileutil"
	"github.com/alnah/go-journal/internal/logger"
)

// Download names of exported files.
const (
	EditableDownloadName  = "journal.docx"
	fixedLayoutNameSuffix = "_journal.pdf"
)

// FixedLayoutDownloadName returns "{name}_journal.pdf".
func FixedLayoutDownloadName(name string) string {
	return name + fixedLayoutNameSuffix
}

// Exporter writes composed documents to DOCX and PDF files.
// Create with NewExporter and Close when done. Safe for concurrent use.
type Exporter struct {
	cfg    exporterConfig
	log    *logger.Logger
	runner CommandRunner
	pool   *ConverterPool
}

// NewExporter creates an Exporter. Defaults: soffice backend, "soffice"
// command, 60s timeout, os.TempDir(), files removed on Cleanup.
// The converter binary is not required to exist; see Check.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{
			timeout: defaultTimeout,
			backend: BackendSoffice,
			command: defaultCommand,
		},
		log:    logger.Nop(),
		runner: &ExecRunner{},
	}

	for _, opt := range opts {
		opt(e)
	}

	if !e.cfg.backend.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, e.cfg.backend)
	}

	factory, err := e.converterFactory()
	if err != nil {
		return nil, err
	}
	e.pool = newConverterPool(ResolvePoolSize(e.cfg.workers), factory)

	return e, nil
}

// converterFactory returns the constructor the pool uses for the backend.
func (e *Exporter) converterFactory() (func() (pdfConverter, error), error) {
	switch e.cfg.backend {
	case BackendChrome:
		loader, err := assets.NewAssetResolver(e.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("resolving assets: %w", err)
		}
		page, err := newPrintPage(loader)
		if err != nil {
			return nil, err
		}
		return func() (pdfConverter, error) {
			return &chromeConverter{
				renderer: newRodRenderer(e.cfg.timeout),
				page:     page,
				timeout:  e.cfg.timeout,
				log:      e.log,
			}, nil
		}, nil
	default:
		return func() (pdfConverter, error) {
			c, err := newSofficeConverter(e.runner, e.cfg.command, e.cfg.timeout, e.log)
			if err != nil {
				return nil, err
			}
			return c, nil
		}, nil
	}
}

// Backend returns the configured fixed-layout backend.
func (e *Exporter) Backend() Backend {
	return e.cfg.backend
}

// Workers returns the converter pool size.
func (e *Exporter) Workers() int {
	return e.pool.Size()
}

// Check reports whether the fixed-layout backend can run. The error wraps
// ErrConversionUnavailable.
func (e *Exporter) Check() error {
	if e.cfg.backend == BackendChrome {
		if _, ok := BrowserPath(); !ok {
			return fmt.Errorf("%w: no Chrome or Chromium installation found", ErrConversionUnavailable)
		}
		return nil
	}
	_, err := LookupCommand(e.cfg.command)
	return err
}

// Close releases converter resources.
func (e *Exporter) Close() error {
	return e.pool.Close()
}

// ExportEditable writes doc as a DOCX temp file.
func (e *Exporter) ExportEditable(ctx context.Context, doc *Document) (*ExportedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := BuildDOCX(doc)
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(e.cfg.tempDir, data, "docx")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	e.log.Debug("docx written", "path", path, "bytes", len(data))

	return e.newFile(path, EditableDownloadName, FormatDOCX, cleanup), nil
}

// ExportFixedLayout writes doc as DOCX, converts it to PDF and returns the PDF.
// Every converter failure wraps ErrConversionUnavailable; there is no retry and
// no fallback format.
func (e *Exporter) ExportFixedLayout(ctx context.Context, doc *Document) (*ExportedFile, error) {
	docxFile, err := e.ExportEditable(ctx, doc)
	if err != nil {
		return nil, err
	}

	// Waiting for a free converter counts against the converter timeout.
	acquireCtx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
	conv, err := e.pool.Acquire(acquireCtx)
	cancel()
	if err != nil {
		docxFile.Cleanup()
		return nil, fmt.Errorf("%w: %w", ErrConversionUnavailable, err)
	}
	pdfPath, err := conv.ToPDF(ctx, docxFile.Path, doc)
	e.pool.Release(conv)
	if err != nil {
		e.log.Warn("fixed-layout conversion failed", "backend", e.cfg.backend, "error", err)
		docxFile.Cleanup()
		return nil, err
	}

	removePDF := func() {
		if err := os.Remove(pdfPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			e.log.Warn("removing exported file", "path", pdfPath, "error", err)
		}
	}
	file := e.newFile(pdfPath, FixedLayoutDownloadName(doc.Student.Name), FormatPDF, removePDF)
	if !e.cfg.keepFiles {
		file.cleanup = append(file.cleanup, docxFile.Cleanup)
	}
	return file, nil
}

func (e *Exporter) newFile(path, downloadName string, format Format, cleanup func()) *ExportedFile {
	f := &ExportedFile{Path: path, DownloadName: downloadName, Format: format}
	if !e.cfg.keepFiles {
		f.cleanup = []func(){cleanup}
	}
	return f
}

// BuildDOCX serializes doc as an OOXML word-processing package.
func BuildDOCX(doc *Document) ([]byte, error) {
	b := docx.New()
	b.SetTitle(doc.Student.Title())

	for _, s := range doc.Sections {
		switch s.Kind {
		case SectionHeading:
			b.AddHeading(s.Text, s.Level)
		case SectionRun:
			b.AddRun(s.Text, docx.Font(s.Font))
		case SectionParagraph:
			b.AddParagraph(s.Text, docx.Font(s.Font))
		}
	}

	data, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("building docx: %w", err)
	}
	return data, nil
}
