package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an extraction failure so callers can branch on the
// failure kind instead of inspecting message strings.
type ErrorKind string

const (
	KindUnsupportedFormat ErrorKind = "UNSUPPORTED_FORMAT"
	KindParseFailure      ErrorKind = "PARSE_FAILURE"
	KindEncodingFailure   ErrorKind = "ENCODING_FAILURE"
	KindOCRFailure        ErrorKind = "OCR_FAILURE"
	KindArchiveCorrupt    ErrorKind = "ARCHIVE_CORRUPT"
)

// ExtractionError is the typed failure carried on a per-file extraction
// result. No extraction error escapes the dispatcher boundary as a panic.
type ExtractionError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func NewExtractionError(kind ErrorKind, message string, cause error) *ExtractionError {
	return &ExtractionError{Kind: kind, Message: message, Cause: cause}
}

// AsExtractionError returns err as an *ExtractionError, wrapping it with the
// fallback kind when it is not one already.
func AsExtractionError(err error, fallback ErrorKind) *ExtractionError {
	var xe *ExtractionError
	if errors.As(err, &xe) {
		return xe
	}
	return &ExtractionError{Kind: fallback, Message: err.Error(), Cause: err}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
