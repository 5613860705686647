// Package failure classifies the errors a tracker action can end with. None of
// them is fatal to the process; each is terminal for the triggering action only.
package failure

import "errors"

type Kind string

const (
	KindFileFormat Kind = "file_format"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
)

// Failure is a user-facing error with a kind the caller can branch on.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	cause   error
}

func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.cause
}

// FileFormat wraps an unreadable or empty spreadsheet error.
func FileFormat(err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Kind: KindFileFormat, Message: err.Error(), cause: err}
}

func FileFormatFromString(msg string) error {
	return &Failure{Kind: KindFileFormat, Message: msg}
}

func Validation(msg string) error {
	return &Failure{Kind: KindValidation, Message: msg}
}

func NotFound(msg string) error {
	return &Failure{Kind: KindNotFound, Message: msg}
}

// Is reports whether err, or anything it wraps, is a Failure of the given kind.
func Is(err error, kind Kind) bool {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind == kind
	}
	return false
}
