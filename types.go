package journal

import (
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-journal/internal/logger"
)

// Student identifies who the journal entry belongs to.
// It is taken from the form as-is and never checked against the roster.
type Student struct {
	ID   string
	Name string
}

// Title is the top-level heading text: "{name} ({id})".
func (s Student) Title() string {
	return s.Name + " (" + s.ID + ")"
}

// Validate rejects a student with neither ID nor name. The web form path
// does not call it; empty values are accepted there.
func (s Student) Validate() error {
	if strings.TrimSpace(s.ID) == "" && strings.TrimSpace(s.Name) == "" {
		return ErrEmptyStudent
	}
	return nil
}

// Font is a typeface and size in points (1pt = 1/72 inch).
type Font struct {
	Family string
	SizePt float64
}

// Fonts used by the composer. They are fixed per section kind.
var (
	FontCode      = Font{Family: "Times New Roman", SizePt: 10}
	FontParagraph = Font{Family: "Times New Roman", SizePt: 12}
)

// SectionKind distinguishes the blocks of a composed document.
type SectionKind int

const (
	// SectionHeading is a heading at Section.Level (0 = title).
	SectionHeading SectionKind = iota
	// SectionRun is unstyled text kept verbatim, line breaks included.
	SectionRun
	// SectionParagraph is a body paragraph.
	SectionParagraph
)

func (k SectionKind) String() string {
	switch k {
	case SectionHeading:
		return "heading"
	case SectionRun:
		return "run"
	case SectionParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Section is one block of a composed document.
type Section struct {
	Kind  SectionKind
	Text  string
	Level int  // headings only
	Font  Font // zero for headings, which use the document's heading styles
}

// Document is the format-neutral composed journal entry.
type Document struct {
	Student  Student
	Sections []Section
}

// Format is an export target.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ExportedFile is a file on disk ready to be streamed to the client.
// Call Cleanup once the bytes have been sent.
type ExportedFile struct {
	Path         string
	DownloadName string
	Format       Format

	once    sync.Once
	cleanup []func()
}

// ContentType returns the MIME type of the file.
func (f *ExportedFile) ContentType() string {
	return f.Format.ContentType()
}

// Cleanup removes every temporary file backing f. Safe to call more than once.
func (f *ExportedFile) Cleanup() {
	f.once.Do(func() {
		for _, fn := range f.cleanup {
			fn()
		}
	})
}

// PreviewResult holds what the preview page shows.
type PreviewResult struct {
	Raw         string
	Annotated   string
	Highlighted string // raw source as highlighted HTML
}

// Backend names a fixed-layout converter implementation.
type Backend string

const (
	// BackendSoffice runs LibreOffice headless on the DOCX.
	BackendSoffice Backend = "soffice"
	// BackendChrome prints the document with headless Chrome.
	BackendChrome Backend = "chrome"
)

// Valid reports whether b names a known backend.
func (b Backend) Valid() bool {
	return b == BackendSoffice || b == BackendChrome
}

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout   time.Duration
	backend   Backend
	command   string
	tempDir   string
	keepFiles bool
	workers   int
	assetPath string
}

// Defaults used when no option overrides them.
const (
	defaultTimeout = 60 * time.Second
	defaultCommand = "soffice"
)

// WithTimeout sets the fixed-layout conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("journal: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithBackend selects the fixed-layout converter.
// Unknown names are reported by NewExporter.
func WithBackend(b Backend) Option {
	return func(e *Exporter) {
		e.cfg.backend = b
	}
}

// WithConverterCommand sets the LibreOffice binary, by name on PATH or by path.
func WithConverterCommand(command string) Option {
	return func(e *Exporter) {
		if command != "" {
			e.cfg.command = command
		}
	}
}

// WithTempDir sets where exported files are written (os.TempDir() by default).
func WithTempDir(dir string) Option {
	return func(e *Exporter) {
		e.cfg.tempDir = dir
	}
}

// WithKeepFiles disables removal of exported files by ExportedFile.Cleanup.
func WithKeepFiles(keep bool) Option {
	return func(e *Exporter) {
		e.cfg.keepFiles = keep
	}
}

// WithWorkers bounds concurrent converter invocations.
// Zero or negative selects a size from GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Exporter) {
		e.cfg.workers = n
	}
}

// WithAssetPath overrides the print page template and stylesheet used by the
// chrome backend with files from dir (see internal/assets for the layout).
func WithAssetPath(dir string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = dir
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRunner replaces the subprocess runner used by the soffice backend.
func WithRunner(r CommandRunner) Option {
	return func(e *Exporter) {
		if r != nil {
			e.runner = r
		}
	}
}
