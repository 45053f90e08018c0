package main

import (
	"errors"
	"os"

	journal "github.com/alnah/go-journal"
	"github.com/alnah/go-journal/internal/assets"
	"github.com/alnah/go-journal/internal/config"
	"github.com/alnah/go-journal/internal/roster"
)

// Exit codes for the journal CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Command completed
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or input
	ExitIO        = 3 // File not found, permission denied, temp file failure
	ExitConverter = 4 // soffice or Chrome could not produce a PDF
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Converter errors (exit 4)
	if errors.Is(err, journal.ErrConversionUnavailable) ||
		errors.Is(err, journal.ErrBrowserConnect) ||
		errors.Is(err, journal.ErrPageLoad) ||
		errors.Is(err, journal.ErrPDFGeneration) {
		return ExitConverter
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrUnexpectedArgs) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, roster.ErrMissingColumn) ||
		errors.Is(err, journal.ErrInvalidUpload) ||
		errors.Is(err, journal.ErrEmptyStudent) ||
		errors.Is(err, journal.ErrUnknownBackend) ||
		errors.Is(err, journal.ErrParseFailure) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrStyleNotFound) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, journal.ErrIOFailure) ||
		errors.Is(err, roster.ErrRosterRead) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrUploadDir) {
		return ExitIO
	}

	return ExitGeneral
}
