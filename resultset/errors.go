package resultset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeMalformedInput indicates a document that could not be imported.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"
	// ErrCodeUnknownPrefix indicates a CURIE whose prefix is not registered.
	// It is never fatal: the literal string is kept.
	ErrCodeUnknownPrefix ErrorCode = "UNKNOWN_PREFIX"
	// ErrCodeDelegatedTransform indicates the linked-format transformer failed.
	ErrCodeDelegatedTransform ErrorCode = "DELEGATED_TRANSFORM_FAILURE"
	// ErrCodeEmptyAtomSkipped reports an empty literal or resource that was not serialized.
	ErrCodeEmptyAtomSkipped ErrorCode = "EMPTY_ATOM_SKIPPED"
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeInvalidQName indicates a URI that cannot be written as an XML qualified name.
	ErrCodeInvalidQName ErrorCode = "INVALID_QNAME"
	// ErrCodeDuplicateRecord reports a subject that already exists in its dataset bucket.
	ErrCodeDuplicateRecord ErrorCode = "DUPLICATE_RECORD"
	// ErrCodeIOError indicates an I/O error.
	ErrCodeIOError ErrorCode = "IO_ERROR"
)

var (
	// ErrMalformedInput indicates a document that could not be imported.
	ErrMalformedInput = errors.New("resultset: malformed input")
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("resultset: unsupported format")
	// ErrDelegatedTransform indicates the linked-format transformer failed.
	ErrDelegatedTransform = errors.New("resultset: delegated transform failed")
	// ErrNoTransformer is returned when a linked format is requested without a transformer.
	ErrNoTransformer = errors.New("resultset: no linked-format transformer configured")
)

// Error is the structured error value surfaced to endpoint layers. It carries
// enough detail to render a status/message/description triple.
type Error struct {
	Code      ErrorCode
	Format    Format
	Subject   string
	Predicate string
	// Status is the collaborator's status code for delegated failures.
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	var msg strings.Builder
	msg.WriteString(string(e.Code))
	if e.Format != "" {
		msg.WriteString(" (")
		msg.WriteString(string(e.Format))
		msg.WriteString(")")
	}
	if e.Subject != "" {
		fmt.Fprintf(&msg, " subject=%s", e.Subject)
	}
	if e.Predicate != "" {
		fmt.Fprintf(&msg, " predicate=%s", e.Predicate)
	}
	if e.Status != 0 {
		fmt.Fprintf(&msg, " status=%d", e.Status)
	}
	if e.Message != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Message)
	}
	if e.Err != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Err.Error())
	}
	return msg.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match the sentinel that corresponds to the code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMalformedInput:
		return e.Code == ErrCodeMalformedInput
	case ErrDelegatedTransform:
		return e.Code == ErrCodeDelegatedTransform
	case ErrUnsupportedFormat:
		return e.Code == ErrCodeUnsupportedFormat
	}
	return false
}

// Code returns the error code for an error. Returns empty string for nil errors.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var rsErr *Error
	if errors.As(err, &rsErr) {
		return rsErr.Code
	}
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrMalformedInput):
		return ErrCodeMalformedInput
	case errors.Is(err, ErrDelegatedTransform), errors.Is(err, ErrNoTransformer):
		return ErrCodeDelegatedTransform
	}
	return ErrCodeIOError
}

func malformed(format Format, msg string, err error) error {
	return &Error{Code: ErrCodeMalformedInput, Format: format, Message: msg, Err: err}
}

// Warning is a non-fatal condition collected while encoding or decoding.
type Warning struct {
	Code      ErrorCode
	Subject   string
	Predicate string
	Message   string
}

func (w Warning) String() string {
	var msg strings.Builder
	msg.WriteString(string(w.Code))
	if w.Subject != "" {
		fmt.Fprintf(&msg, " subject=%s", w.Subject)
	}
	if w.Predicate != "" {
		fmt.Fprintf(&msg, " predicate=%s", w.Predicate)
	}
	if w.Message != "" {
		msg.WriteString(": ")
		msg.WriteString(w.Message)
	}
	return msg.String()
}

// Warnings is the collected warning list of one encode or decode pass.
type Warnings []Warning

// Count returns how many warnings carry the given code.
func (ws Warnings) Count(code ErrorCode) int {
	n := 0
	for _, w := range ws {
		if w.Code == code {
			n++
		}
	}
	return n
}
