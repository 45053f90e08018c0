package web

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	journal "github.com/alnah/go-journal"
	"github.com/alnah/go-journal/internal/roster"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testRosterCSV = "ID,NAME\n1001,Ada Lovelace\n1002,Alan Turing\n"

// pdfRunner writes a minimal PDF where soffice would.
type pdfRunner struct{}

func (pdfRunner) Run(_ context.Context, _ string, args ...string) (string, string, error) {
	outDir, input := args[len(args)-2], args[len(args)-1]
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return "", "", os.WriteFile(filepath.Join(outDir, base+".pdf"), []byte("%PDF-1.4\n%%EOF\n"), 0o600)
}

// missingRunner behaves like a host without soffice.
type missingRunner struct{}

func (missingRunner) Run(context.Context, string, ...string) (string, string, error) {
	return "", "", errors.New(`exec: "soffice": executable file not found in $PATH`)
}

func testRoster(t *testing.T) *roster.Roster {
	t.Helper()

	ros, err := roster.Parse(strings.NewReader(testRosterCSV))
	if err != nil {
		t.Fatalf("roster.Parse() error: %v", err)
	}
	return ros
}

// stubExporter fails every export; for tests that never reach one.
type stubExporter struct{}

func (stubExporter) ExportEditable(context.Context, *journal.Document) (*journal.ExportedFile, error) {
	return nil, journal.ErrIOFailure
}

func (stubExporter) ExportFixedLayout(context.Context, *journal.Document) (*journal.ExportedFile, error) {
	return nil, journal.ErrConversionUnavailable
}

type testEnv struct {
	router    *gin.Engine
	uploadDir string
	tempDir   string
}

func newTestEnv(t *testing.T, runner journal.CommandRunner, mutate func(*RouterConfig)) *testEnv {
	t.Helper()

	env := &testEnv{
		uploadDir: filepath.Join(t.TempDir(), "uploads"),
		tempDir:   t.TempDir(),
	}

	exp, err := journal.NewExporter(journal.WithTempDir(env.tempDir), journal.WithRunner(runner))
	if err != nil {
		t.Fatalf("NewExporter() error: %v", err)
	}
	t.Cleanup(func() { _ = exp.Close() })

	cfg := RouterConfig{
		Roster:         testRoster(t),
		Exporter:       exp,
		SiteTitle:      "Student Journal",
		UploadDir:      env.uploadDir,
		MaxUploadBytes: 1 << 20,
		PDFEnabled:     true,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	env.router, err = NewRouter(cfg)
	if err != nil {
		t.Fatalf("NewRouter() error: %v", err)
	}
	return env
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// uploadRequest builds a /preview multipart request. A nil fields map sends
// the default student; an empty filename omits the file part.
func uploadRequest(t *testing.T, fields map[string]string, filename, content string) *http.Request {
	t.Helper()

	if fields == nil {
		fields = map[string]string{FieldStudentID: "1001", FieldStudentName: "Ada Lovelace"}
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField() error: %v", err)
		}
	}
	if filename != "" {
		part, err := w.CreateFormFile(FieldHTMLFile, filename)
		if err != nil {
			t.Fatalf("CreateFormFile() error: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("part.Write() error: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart Close() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, PathPreview, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func downloadForm() url.Values {
	return url.Values{
		FieldStudentID:   {"1001"},
		FieldStudentName: {"Ada Lovelace"},
		FieldHTMLCode:    {"<p>Hello</p>"},
		FieldHTMLRender:  {`<p style="font-family: Times New Roman; font-size: 12pt">Hello</p>`},
	}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatalf("ReadDir(%s) error: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
