package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-journal/internal/assets"
	"github.com/alnah/go-journal/internal/logger"
	"github.com/alnah/go-journal/internal/markdown"
	"github.com/alnah/go-journal/internal/roster"
)

// Route paths.
const (
	PathIndex        = "/"
	PathPreview      = "/preview"
	PathDownloadWord = "/download_word"
	PathDownloadPDF  = "/download_pdf"
	PathHealthz      = "/healthz"
)

// formOverhead is the body allowance on top of the upload itself for the
// multipart envelope and the text fields.
const formOverhead = 1 << 20

// downloadFactor sizes the download body cap: the raw source and its
// annotated copy travel form-encoded in one request.
const downloadFactor = 4

// ErrMissingDependency is returned by NewRouter when a required dependency
// is nil.
var ErrMissingDependency = errors.New("web: missing dependency")

// RouterConfig wires the handlers.
type RouterConfig struct {
	Log      *logger.Logger
	Roster   *roster.Roster
	Exporter Exporter
	Assets   assets.AssetLoader // defaults to the embedded assets

	SiteTitle      string
	Intro          string // Markdown shown above the upload form
	UploadDir      string
	MaxUploadBytes int64 // 0 disables the body cap
	CORSOrigins    []string

	// PDFEnabled toggles the PDF button on the preview page. The route stays
	// mounted and answers 503 when the converter is missing.
	PDFEnabled bool
}

// NewRouter builds the gin engine serving every journal route.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Roster == nil || cfg.Exporter == nil {
		return nil, fmt.Errorf("%w: roster and exporter are required", ErrMissingDependency)
	}
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	loader := cfg.Assets
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}

	ps, err := assets.LoadPageSet(loader)
	if err != nil {
		return nil, err
	}
	pg, err := parsePages(ps)
	if err != nil {
		return nil, err
	}
	intro, err := markdown.NewRenderer().ToHTML(context.Background(), cfg.Intro)
	if err != nil {
		return nil, fmt.Errorf("rendering site intro: %w", err)
	}

	h := &Handler{
		log:        log,
		roster:     cfg.Roster,
		exporter:   cfg.Exporter,
		pages:      pg,
		siteTitle:  cfg.SiteTitle,
		intro:      template.HTML(intro), // #nosec G203 -- goldmark output with raw HTML disabled
		uploadDir:  cfg.UploadDir,
		maxMemory:  cfg.MaxUploadBytes,
		pdfEnabled: cfg.PDFEnabled,
	}
	if h.maxMemory <= 0 {
		h.maxMemory = 32 << 20
	}

	r := gin.New()
	r.MaxMultipartMemory = h.maxMemory
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}

	r.GET(PathHealthz, h.Healthz)
	r.GET(PathIndex, h.Index)

	var uploadLimit, downloadLimit int64
	if cfg.MaxUploadBytes > 0 {
		uploadLimit = cfg.MaxUploadBytes + formOverhead
		downloadLimit = downloadFactor*cfg.MaxUploadBytes + formOverhead
	}
	r.POST(PathPreview, BodyLimit(uploadLimit), h.Preview)
	r.POST(PathDownloadWord, BodyLimit(downloadLimit), h.DownloadWord)
	r.POST(PathDownloadPDF, BodyLimit(downloadLimit), h.DownloadPDF)

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not Found")
	})

	return r, nil
}
