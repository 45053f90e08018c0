package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-journal/internal/logger"
)

const testRosterCSV = "ID,NAME\n1001,Ada Lovelace\n1002,Alan Turing\n"

// fakeSoffice stands in for LibreOffice: it answers --version and writes a
// PDF next to the input for --convert-to.
type fakeSoffice struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (f *fakeSoffice) Run(_ context.Context, name string, args ...string) (string, string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.err != nil {
		return "", "soffice failed", f.err
	}
	if len(args) == 1 && args[0] == "--version" {
		return "LibreOffice 24.2.7.2 420(Build:2)\n", "", nil
	}
	outDir, input := args[len(args)-2], args[len(args)-1]
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return "", "", os.WriteFile(filepath.Join(outDir, base+".pdf"), []byte("%PDF-1.7\n%%EOF\n"), 0o600)
}

func (f *fakeSoffice) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

// testEnv is an Environment with captured output and a private variable set.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	vars   map[string]string
}

func newTestEnv(t *testing.T, vars map[string]string) *testEnv {
	t.Helper()

	if vars == nil {
		vars = map[string]string{}
	}
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		vars:   vars,
	}
	te.Environment = &Environment{
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return te.vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Runner: &fakeSoffice{},
		Logger: logger.Nop(),
	}
	return te
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

// fakeExecutable creates an executable file LookPath accepts.
func fakeExecutable(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "soffice")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o700); err != nil { // #nosec G306 -- test executable
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

// serviceVars points every path the service touches into dir.
func serviceVars(t *testing.T, dir string) map[string]string {
	t.Helper()

	return map[string]string{
		"JOURNAL_ROSTER":     writeFile(t, dir, "student.csv", testRosterCSV),
		"JOURNAL_UPLOAD_DIR": filepath.Join(dir, "uploads"),
		"JOURNAL_TEMP_DIR":   t.TempDir(),
	}
}
