package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	journal "github.com/alnah/go-journal"
)

const samplePage = "<html><body><h1>Week 1</h1><p>Hello, journal.</p></body></html>"

// ---------------------------------------------------------------------------
// runExport - success paths
// ---------------------------------------------------------------------------

func TestRunExport_DOCX(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "week1.html", samplePage)
	out := filepath.Join(dir, "out", "ada.docx")
	env := newTestEnv(t, map[string]string{"JOURNAL_TEMP_DIR": t.TempDir()})

	err := runExport(context.Background(), []string{
		"--id", "1001", "--name", "Ada Lovelace", "--in", in, "--out", out,
	}, env.Environment)
	if err != nil {
		t.Fatalf("runExport() error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("output is not a zip archive: %q", data[:min(len(data), 8)])
	}
	if !strings.Contains(env.stdout.String(), in+" -> "+out) {
		t.Errorf("stdout = %q", env.stdout.String())
	}
	if calls := env.Runner.(*fakeSoffice).Calls(); len(calls) != 0 {
		t.Errorf("DOCX export should not run the converter, got %v", calls)
	}
}

func TestRunExport_PDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "week1.html", samplePage)
	out := filepath.Join(dir, "ada.pdf")
	tempDir := t.TempDir()
	env := newTestEnv(t, map[string]string{"JOURNAL_TEMP_DIR": tempDir})

	err := runExport(context.Background(), []string{
		"--id", "1001", "--name", "Ada Lovelace", "--in", in, "--format", "PDF", "-o", out,
	}, env.Environment)
	if err != nil {
		t.Fatalf("runExport() error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", data)
	}

	calls := env.Runner.(*fakeSoffice).Calls()
	if len(calls) != 1 || !strings.Contains(strings.Join(calls[0], " "), "--convert-to pdf") {
		t.Errorf("converter calls = %v", calls)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir should be empty after export, has %d entries", len(entries))
	}
}

// ---------------------------------------------------------------------------
// runExport - rejected input
// ---------------------------------------------------------------------------

func TestRunExport_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	page := writeFile(t, dir, "week1.html", samplePage)
	notes := writeFile(t, dir, "notes.txt", "plain text")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"bad format", []string{"--id", "1", "--name", "A", "--in", page, "--format", "odt"}, ErrInvalidFlags},
		{"no input", []string{"--id", "1", "--name", "A"}, ErrNoInput},
		{"bad extension", []string{"--id", "1", "--name", "A", "--in", notes}, journal.ErrInvalidUpload},
		{"uppercase extension", []string{"--id", "1", "--name", "A", "--in", filepath.Join(dir, "PAGE.HTML")}, journal.ErrInvalidUpload},
		{"empty student", []string{"--in", page}, journal.ErrEmptyStudent},
		{"blank student", []string{"--id", " ", "--name", "  ", "--in", page}, journal.ErrEmptyStudent},
		{"missing file", []string{"--id", "1", "--name", "A", "--in", filepath.Join(dir, "absent.html")}, ErrReadInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, map[string]string{"JOURNAL_TEMP_DIR": t.TempDir()})
			err := runExport(context.Background(), tt.args, env.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("runExport() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunExport_ConverterFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "week1.html", samplePage)
	env := newTestEnv(t, map[string]string{"JOURNAL_TEMP_DIR": t.TempDir()})
	env.Runner = &fakeSoffice{err: errors.New("exit status 1")}

	code := runMain([]string{
		"journal", "export", "--id", "1001", "--name", "Ada", "--in", in,
		"--format", "pdf", "--out", filepath.Join(dir, "ada.pdf"),
	}, env.Environment)

	if code != ExitConverter {
		t.Errorf("runMain() = %d, want %d; stderr: %s", code, ExitConverter, env.stderr.String())
	}
	if !strings.Contains(env.stderr.String(), "hint:") {
		t.Errorf("stderr should carry a hint, got %q", env.stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "ada.pdf")); !os.IsNotExist(err) {
		t.Errorf("no output should be written on failure, stat error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// copyFile
// ---------------------------------------------------------------------------

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "src.bin", "payload")

	t.Run("creates parent", func(t *testing.T) {
		t.Parallel()

		dst := filepath.Join(t.TempDir(), "a", "b", "dst.bin")
		if err := copyFile(src, dst); err != nil {
			t.Fatalf("copyFile() error: %v", err)
		}
		got, err := os.ReadFile(dst)
		if err != nil {
			t.Fatalf("ReadFile() error: %v", err)
		}
		if string(got) != "payload" {
			t.Errorf("copied content = %q", got)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()

		err := copyFile(filepath.Join(dir, "absent"), filepath.Join(t.TempDir(), "dst"))
		if !errors.Is(err, ErrWriteOutput) {
			t.Errorf("copyFile() error = %v, want ErrWriteOutput", err)
		}
	})
}
