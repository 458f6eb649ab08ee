package ingestion_engine

import (
	"errors"
	"strings"
)

// Client errors, each answered with its own 400 message.
var (
	ErrNoFilePart          = errors.New("no 'file' part in request")
	ErrNoFileSelected      = errors.New("no file selected")
	ErrExtensionNotAllowed = errors.New("file type not allowed; accepted types: png, jpg, jpeg, pdf")
)

// ErrCapabilityUnavailable is returned for every upload when no engine was
// resolved at startup.
var ErrCapabilityUnavailable = errors.New("analysis system unavailable; check the server logs")

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"pdf":  true,
}

// IsValidationError reports whether err is caused by the client's upload.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoFilePart) || errors.Is(err, ErrNoFileSelected) || errors.Is(err, ErrExtensionNotAllowed)
}

// ValidateFilename checks the client-supplied name; the extension is the
// text after the last dot, compared case-insensitively.
func ValidateFilename(name string) error {
	if name == "" {
		return ErrNoFileSelected
	}
	i := strings.LastIndex(name, ".")
	if i < 0 || !allowedExtensions[strings.ToLower(name[i+1:])] {
		return ErrExtensionNotAllowed
	}
	return nil
}

// AnalysisError wraps an error raised by the engine call.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string { return e.Err.Error() }

func (e *AnalysisError) Unwrap() error { return e.Err }
