package journal

import "errors"

// Sentinel errors for library operations.
var (
	ErrInvalidUpload         = errors.New("invalid upload")
	ErrParseFailure          = errors.New("HTML parse failed")
	ErrConversionUnavailable = errors.New("fixed-layout conversion unavailable")
	ErrIOFailure             = errors.New("temporary file I/O failed")

	// Student validation errors.
	ErrEmptyStudent = errors.New("student id and name cannot both be empty")

	// Option validation errors.
	ErrUnknownBackend = errors.New("unknown converter backend")
)

// Pool and browser errors. Conversion paths wrap these in
// ErrConversionUnavailable.
var (
	ErrPoolClosed     = errors.New("converter pool is closed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
