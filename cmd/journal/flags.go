package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Sentinel errors for CLI argument handling.
var (
	ErrInvalidFlags   = errors.New("invalid flags")
	ErrUnexpectedArgs = errors.New("unexpected arguments")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	verbose bool
}

// converterFlags holds converter overrides shared by serve, export and doctor.
type converterFlags struct {
	backend string
	command string
	timeout string
	workers int
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common    commonFlags
	converter converterFlags
	addr      string
	roster    string
	uploadDir string
	assetPath string
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common    commonFlags
	converter converterFlags
	id        string
	name      string
	input     string
	format    string
	output    string
}

// doctorFlags holds all flags for the doctor command.
type doctorFlags struct {
	common    commonFlags
	converter converterFlags
	json      bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
}

// addConverterFlags adds converter flags to a FlagSet.
func addConverterFlags(fs *flag.FlagSet, f *converterFlags) {
	fs.StringVar(&f.backend, "converter", "", "PDF backend: soffice, chrome")
	fs.StringVar(&f.command, "converter-command", "", "soffice binary name or path")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF conversion timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent PDF conversions (0 = auto)")
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (host:port)")
	fs.StringVarP(&f.roster, "roster", "r", "", "student roster CSV")
	fs.StringVar(&f.uploadDir, "upload-dir", "", "directory uploads are saved to")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	addCommonFlags(fs, &f.common)
	addConverterFlags(fs, &f.converter)

	if err := parse(fs, args, stderr, printServeUsage); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// parseExportFlags parses export command flags.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f := &exportFlags{}

	fs.StringVar(&f.id, "id", "", "student ID")
	fs.StringVar(&f.name, "name", "", "student name")
	fs.StringVarP(&f.input, "in", "i", "", "HTML file to export")
	fs.StringVarP(&f.format, "format", "f", "docx", "output format: docx, pdf")
	fs.StringVarP(&f.output, "out", "o", "", "output file (default: download name in current directory)")
	addCommonFlags(fs, &f.common)
	addConverterFlags(fs, &f.converter)

	if err := parse(fs, args, stderr, printExportUsage); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	f := &doctorFlags{}

	fs.BoolVar(&f.json, "json", false, "machine-readable output")
	addCommonFlags(fs, &f.common)
	addConverterFlags(fs, &f.converter)

	if err := parse(fs, args, stderr, printDoctorUsage); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// parse runs fs.Parse and rejects positional arguments.
// flag.ErrHelp is returned unwrapped so callers can exit 0.
func parse(fs *flag.FlagSet, args []string, stderr io.Writer, usage func(io.Writer)) error {
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: %s", ErrUnexpectedArgs, strings.Join(fs.Args(), " "))
	}
	return nil
}
