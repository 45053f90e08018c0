package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	journal "github.com/alnah/go-journal"
	"github.com/alnah/go-journal/internal/logger"
	"github.com/alnah/go-journal/internal/web"
)

// Sentinel errors for export.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadInput   = errors.New("failed to read input file")
	ErrWriteOutput = errors.New("failed to write output file")
)

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// runExport renders one HTML file into a DOCX or PDF journal without the
// web surface. The document is the one the download routes produce.
func runExport(ctx context.Context, args []string, env *Environment) error {
	flags, _, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	format := journal.Format(strings.ToLower(flags.format))
	if format != journal.FormatDOCX && format != journal.FormatPDF {
		return fmt.Errorf("%w: --format must be docx or pdf, got %q", ErrInvalidFlags, flags.format)
	}
	if flags.input == "" {
		return fmt.Errorf("%w: use --in page.html", ErrNoInput)
	}
	if !strings.HasSuffix(flags.input, web.UploadExtension) {
		return fmt.Errorf("%w: %s: only .html files are allowed", journal.ErrInvalidUpload, flags.input)
	}
	student := journal.Student{ID: flags.id, Name: flags.name}
	if err := student.Validate(); err != nil {
		return fmt.Errorf("%w: use --id and --name", err)
	}

	cfg, err := resolveConfig(flags.common, flags.converter, env)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(flags.input) // #nosec G304 -- input path is user-provided CLI argument
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	annotated, err := journal.Annotate(string(raw))
	if err != nil {
		return err
	}
	doc, err := journal.Compose(student, string(raw), annotated)
	if err != nil {
		return err
	}

	log := logger.Nop()
	if flags.common.verbose {
		if log, err = env.newLogger(cfg.Log.Mode); err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer log.Sync()
	}

	exp, err := newExporter(cfg, env, log)
	if err != nil {
		return fmt.Errorf("creating exporter: %w", err)
	}
	defer func() { _ = exp.Close() }()

	var file *journal.ExportedFile
	if format == journal.FormatPDF {
		file, err = exp.ExportFixedLayout(ctx, doc)
		if err != nil {
			return fmt.Errorf("%w%s", err, converterHint(err, cfg, env.Getenv))
		}
	} else {
		file, err = exp.ExportEditable(ctx, doc)
		if err != nil {
			return err
		}
	}
	defer file.Cleanup()

	out := flags.output
	if out == "" {
		out = file.DownloadName
	}
	if err := copyFile(file.Path, out); err != nil {
		return err
	}

	fmt.Fprintf(env.Stdout, "%s -> %s\n", flags.input, out)
	return nil
}

// copyFile writes the contents of src to dst, creating dst's directory.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src) // #nosec G304 -- src is an exporter temp file
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, uploadDirPermissions); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}
	if err := os.WriteFile(dst, data, filePermissions); err != nil { // #nosec G306 -- exported journals are meant to be shared
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
