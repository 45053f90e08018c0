package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: journal <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Run the journal web service")
	fmt.Fprintln(w, "  export     Export one HTML file to DOCX or PDF")
	fmt.Fprintln(w, "  doctor     Check roster, converter and directories")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'journal help <command>' for details on a specific command.")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: journal serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the upload form, the styled preview and the DOCX/PDF downloads.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>        Listen address (default 127.0.0.1:5000)")
	fmt.Fprintln(w, "  -r, --roster <path>           Student roster CSV (default student.csv)")
	fmt.Fprintln(w, "      --upload-dir <dir>        Upload directory (default static/uploads)")
	fmt.Fprintln(w, "      --asset-path <dir>        Custom templates and styles")
	fmt.Fprintln(w)
	printConverterFlags(w)
	printCommonFlags(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: journal export --id <id> --name <name> --in <file.html> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Produce the same journal document as the download buttons, without a browser.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --id <s>                  Student ID")
	fmt.Fprintln(w, "      --name <s>                Student name")
	fmt.Fprintln(w, "  -i, --in <file.html>          HTML file (must end in .html)")
	fmt.Fprintln(w, "  -f, --format <s>              docx (default) or pdf")
	fmt.Fprintln(w, "  -o, --out <path>              Output file (default journal.docx or <name>_journal.pdf)")
	fmt.Fprintln(w)
	printConverterFlags(w)
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: journal doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the roster, the PDF converter and the upload and temp directories.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --json                    Machine-readable output")
	fmt.Fprintln(w)
	printConverterFlags(w)
	printCommonFlags(w)
}

func printConverterFlags(w io.Writer) {
	fmt.Fprintln(w, "PDF converter:")
	fmt.Fprintln(w, "      --converter <s>           Backend: soffice (default), chrome")
	fmt.Fprintln(w, "      --converter-command <s>   soffice binary name or path")
	fmt.Fprintln(w, "  -t, --timeout <duration>      Conversion timeout (default 60s)")
	fmt.Fprintln(w, "  -w, --workers <n>             Concurrent conversions (0 = auto)")
	fmt.Fprintln(w)
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>           Config file name or path")
	fmt.Fprintln(w, "  -v, --verbose                 Debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  JOURNAL_CONFIG, JOURNAL_ADDR, JOURNAL_ROSTER, JOURNAL_UPLOAD_DIR,")
	fmt.Fprintln(w, "  JOURNAL_CONVERTER, JOURNAL_CONVERTER_COMMAND, JOURNAL_TIMEOUT,")
	fmt.Fprintln(w, "  JOURNAL_WORKERS, JOURNAL_TEMP_DIR, JOURNAL_KEEP_FILES,")
	fmt.Fprintln(w, "  JOURNAL_ASSET_PATH, JOURNAL_LOG_MODE, JOURNAL_SITE_TITLE")
	fmt.Fprintln(w, "  Flags override environment variables, which override the config file.")
}

// runHelp prints help for the named command, or the main usage.
func runHelp(args []string, w io.Writer) int {
	if len(args) == 0 {
		printUsage(w)
		return ExitSuccess
	}
	switch args[0] {
	case "serve":
		printServeUsage(w)
	case "export":
		printExportUsage(w)
	case "doctor":
		printDoctorUsage(w)
	case "version":
		fmt.Fprintln(w, "Usage: journal version")
	default:
		fmt.Fprintf(w, "unknown command: %s\n\n", args[0])
		printUsage(w)
		return ExitUsage
	}
	return ExitSuccess
}
