package journal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-journal/internal/fileutil"
	"github.com/alnah/go-journal/internal/logger"
	"github.com/alnah/go-journal/internal/process"
)

// pdfMagic starts every PDF file.
var pdfMagic = []byte("%PDF-")

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren
// after the converter is killed.
const waitDelay = 5 * time.Second

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec. The child runs in its own
// process group, and the whole group is killed when ctx is done.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- command comes from trusted config
	process.Isolate(cmd)
	cmd.Cancel = func() error {
		return process.KillGroup(cmd.Process.Pid)
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// LookupCommand resolves command on PATH, or checks it when it is a path.
// Returns an error wrapping ErrConversionUnavailable if it cannot be run.
func LookupCommand(command string) (string, error) {
	path, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found: %v", ErrConversionUnavailable, command, err)
	}
	return path, nil
}

// sofficeConverter converts DOCX to PDF with LibreOffice in headless mode.
// Each converter owns a LibreOffice user profile, so pooled converters never
// contend for the profile lock.
type sofficeConverter struct {
	runner  CommandRunner
	command string
	timeout time.Duration
	profile string
	log     *logger.Logger
}

// newSofficeConverter creates a converter with a fresh profile directory
// under os.TempDir(). Close removes it.
func newSofficeConverter(runner CommandRunner, command string, timeout time.Duration, log *logger.Logger) (*sofficeConverter, error) {
	profile, err := os.MkdirTemp("", "journal-soffice-profile-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating profile: %v", ErrConversionUnavailable, err)
	}
	return &sofficeConverter{
		runner:  runner,
		command: command,
		timeout: timeout,
		profile: profile,
		log:     log,
	}, nil
}

// profileURL returns the file URL LibreOffice expects in -env:UserInstallation.
func profileURL(dir string) string {
	p := filepath.ToSlash(dir)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/x -> /C:/x
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// args returns the command line; the output dir and input always come last.
func (c *sofficeConverter) args(outDir, docxPath string) []string {
	return []string{
		"-env:UserInstallation=" + profileURL(c.profile),
		"--headless",
		"--norestore",
		"--nolockcheck",
		"--convert-to", "pdf",
		"--outdir", outDir,
		docxPath,
	}
}

// ToPDF runs `<command> -env:UserInstallation=<profile> --headless --norestore
// --nolockcheck --convert-to pdf --outdir <dir> <input>` and returns the path
// of the PDF written next to docxPath.
func (c *sofficeConverter) ToPDF(ctx context.Context, docxPath string, _ *Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	outDir := filepath.Dir(docxPath)
	args := c.args(outDir, docxPath)

	start := time.Now()
	_, stderr, err := c.runner.Run(ctx, c.command, args...)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return "", fmt.Errorf("%w: %s timed out after %s: %w", ErrConversionUnavailable, c.command, c.timeout, context.DeadlineExceeded)
		case ctx.Err() != nil:
			return "", fmt.Errorf("%w: %w", ErrConversionUnavailable, ctx.Err())
		}
		return "", fmt.Errorf("%w: %s: %v: %s", ErrConversionUnavailable, c.command, err, strings.TrimSpace(stderr))
	}
	c.log.Debug("soffice finished", "input", docxPath, "duration_ms", time.Since(start).Milliseconds())

	pdfPath := fileutil.SiblingPath(docxPath, "pdf")
	if err := verifyPDF(pdfPath); err != nil {
		_ = os.Remove(pdfPath)
		return "", err
	}
	return pdfPath, nil
}

// Close removes the converter's profile directory.
func (c *sofficeConverter) Close() error {
	if c.profile == "" {
		return nil
	}
	if err := os.RemoveAll(c.profile); err != nil {
		return fmt.Errorf("removing soffice profile: %w", err)
	}
	return nil
}

// verifyPDF checks that path exists and starts with the PDF magic.
// LibreOffice exits 0 on some failures without writing anything.
func verifyPDF(path string) error {
	f, err := os.Open(path) // #nosec G304 -- path is derived from our own temp file
	if err != nil {
		return fmt.Errorf("%w: no output produced: %v", ErrConversionUnavailable, err)
	}
	defer f.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return fmt.Errorf("%w: output is not a PDF: %s", ErrConversionUnavailable, path)
	}
	return nil
}
