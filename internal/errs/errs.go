// Package errs defines the typed errors that travel up the pipeline call chain.
// Only the entry point turns a Code into a process exit status.
package errs

import (
	"errors"
	"strings"
)

// Code categorizes a failure.
type Code string

const (
	CodeInternal             Code = "INTERNAL"
	CodeMissingArgument      Code = "MISSING_ARGUMENT"
	CodeMissingTranscription Code = "MISSING_TRANSCRIPTION_KEY"
	CodeMissingGeneration    Code = "MISSING_GENERATION_KEY"
	CodeInvalidConfig        Code = "INVALID_CONFIG"
	CodeTranscriptionService Code = "TRANSCRIPTION_SERVICE_ERROR"
	CodeUpstream             Code = "UPSTREAM_ERROR"
	CodeMalformedUpstream    Code = "MALFORMED_UPSTREAM_RESPONSE"
	CodeIO                   Code = "IO_ERROR"
	CodeNotFound             Code = "NOT_FOUND"
)

// Error carries a Code, the failing operation and the underlying cause.
type Error struct {
	Code    Code
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		if e.Message != "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// E creates an error for op with the given code, message and cause.
func E(code Code, op, message string, err error) *Error {
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

// Wrap adds op and message to err. A code already present in the chain is kept;
// otherwise the error is classified as CodeInternal.
func Wrap(err error, op, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: CodeOf(err), Op: op, Message: message, Err: err}
}

// CodeOf returns the code of the outermost *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Kind returns a code-only sentinel usable with errors.Is.
func Kind(code Code) *Error {
	return &Error{Code: code}
}
