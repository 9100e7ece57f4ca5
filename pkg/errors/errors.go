// Package errors defines the coded errors shared by the layout engine, the
// frame sources, the pipeline and the HTTP API.
//
// Every failure a caller may want to branch on carries a [Code]. The code
// decides the CLI exit status and the HTTP response status, so callers never
// match on message text:
//
//	l, err := layout.Compute(frames, params)
//	if errors.Is(err, errors.ErrCodeInvalidFrame) {
//	    var fe *errors.FrameError
//	    stderrors.As(err, &fe) // fe.Index is the offending frame
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code is a machine-readable failure category.
type Code string

const (
	// Caller mistakes. All INVALID_* codes map to 400.
	ErrCodeInvalidFrame      Code = "INVALID_FRAME"
	ErrCodeInvalidParameters Code = "INVALID_PARAMETERS"
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle      Code = "INVALID_STYLE"
	ErrCodeInvalidManifest   Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeFileNotFound: http.StatusNotFound,
	ErrCodeUnsupported:  http.StatusUnsupportedMediaType,
	ErrCodeTimeout:      http.StatusGatewayTimeout,
	ErrCodeInternal:     http.StatusInternalServerError,
}

// Invalid reports whether c blames the caller's input.
func (c Code) Invalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// HTTPStatus returns the response status for c. Unknown and empty codes
// are server errors.
func (c Code) HTTPStatus() int {
	if c.Invalid() {
		return http.StatusBadRequest
	}
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with an underlying cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// outermost finds the first *Error in err's chain.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost coded error in err's chain,
// or "" if there is none.
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// IsInvalid reports whether err carries an INVALID_* code.
func IsInvalid(err error) bool {
	return GetCode(err).Invalid()
}

// UserMessage returns the message without code prefix or cause, falling
// back to err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

// FrameError locates a frame with unusable geometry. It travels as the
// cause of an INVALID_FRAME error.
type FrameError struct {
	Index  int
	Width  float64
	Height float64
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d has invalid geometry %gx%g", e.Index, e.Width, e.Height)
}

// Code returns ErrCodeInvalidFrame.
func (e *FrameError) Code() Code { return ErrCodeInvalidFrame }
