package journal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// fakeRunner stands in for soffice. When output is set it writes it where
// LibreOffice would: <outdir>/<input base>.pdf.
type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	output []byte
	stderr string
	err    error
	block  bool
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", "", ctx.Err()
	}
	if f.err != nil {
		return "", f.stderr, f.err
	}
	if f.output != nil && len(args) >= 3 {
		outDir, input := args[len(args)-2], args[len(args)-1]
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if err := os.WriteFile(filepath.Join(outDir, base+".pdf"), f.output, 0o600); err != nil {
			return "", "", err
		}
	}
	return "", "", nil
}

func (f *fakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}
