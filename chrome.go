package journal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-journal/internal/fileutil"
	"github.com/alnah/go-journal/internal/hints"
	"github.com/alnah/go-journal/internal/logger"
)

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

// Page geometry in inches: US Letter with one-inch margins, matching the DOCX section.
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 1
)

// chromeConverter prints the composed document with headless Chrome.
// The DOCX is not read; the document is rendered from its sections.
type chromeConverter struct {
	renderer pdfRenderer
	page     *printPage
	timeout  time.Duration
	log      *logger.Logger
}

func (c *chromeConverter) ToPDF(ctx context.Context, docxPath string, doc *Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	page, err := c.page.Render(doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConversionUnavailable, err)
	}

	htmlPath, cleanup, err := fileutil.WriteTempFile(filepath.Dir(docxPath), page, "html")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	defer cleanup()

	start := time.Now()
	pdf, err := c.renderer.RenderFromFile(ctx, htmlPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConversionUnavailable, err)
	}
	if !bytes.HasPrefix(pdf, pdfMagic) {
		return "", fmt.Errorf("%w: browser output is not a PDF", ErrConversionUnavailable)
	}
	c.log.Debug("chrome finished", "input", htmlPath, "duration_ms", time.Since(start).Milliseconds())

	pdfPath := fileutil.SiblingPath(docxPath, "pdf")
	if err := os.WriteFile(pdfPath, pdf, 0o600); err != nil {
		return "", fmt.Errorf("%w: writing PDF: %v", ErrIOFailure, err)
	}
	return pdfPath, nil
}

func (c *chromeConverter) Close() error {
	return c.renderer.Close()
}

// rodRenderer prints local HTML files with a lazily launched browser.
// Rod downloads Chromium on first use when none is installed.
type rodRenderer struct {
	browser *rod.Browser
	timeout time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// browserLauncher configures the launcher from ROD_BROWSER_BIN and the
// sandbox environment. Containers and CI runners usually lack the user
// namespaces the Chrome sandbox needs.
func browserLauncher() *launcher.Launcher {
	l := launcher.New()
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("ROD_NO_SANDBOX") == "1" || bin != "" || hints.InCI(os.Getenv) || hints.IsInContainer() {
		l = l.NoSandbox(true)
	}
	return l
}

func (r *rodRenderer) connect() error {
	if r.browser != nil {
		return nil
	}

	u, err := browserLauncher().Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	return nil
}

func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}

// letterPage prints US Letter with one-inch margins, like the DOCX section.
func letterPage() *proto.PagePrintToPDF {
	inches := func(v float64) *float64 { return &v }
	return &proto.PagePrintToPDF{
		PaperWidth:      inches(paperWidthInches),
		PaperHeight:     inches(paperHeightInches),
		MarginTop:       inches(marginInches),
		MarginBottom:    inches(marginInches),
		MarginLeft:      inches(marginInches),
		MarginRight:     inches(marginInches),
		PrintBackground: true,
	}
}

// RenderFromFile loads filePath and prints it. The page load shares the
// context deadline, or the renderer timeout when ctx has none.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.connect(); err != nil {
		return nil, err
	}

	wait := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if wait = time.Until(deadline); wait <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer func() { _ = page.Close() }()

	if err := page.Timeout(wait).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream, err := page.PDF(letterPage())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// BrowserPath returns the Chrome binary rod would launch, if one is installed.
func BrowserPath() (string, bool) {
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		return bin, fileutil.FileExists(bin)
	}
	return launcher.LookPath()
}

// Compile-time interface checks.
var (
	_ pdfConverter = (*chromeConverter)(nil)
	_ pdfConverter = (*sofficeConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)
