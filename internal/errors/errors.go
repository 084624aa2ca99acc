package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard library helpers, so callers need only this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

type appError struct {
	code    ErrorCode
	message string
	err     error
	data    any
}

// Error renders "message (code): data: cause", leaving out what is unset.
func (e *appError) Error() string {
	msg := e.message
	if msg == "" {
		msg = GetErrorMessage(e.code)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", msg, e.code)
	if e.data != nil {
		fmt.Fprintf(&b, ": %v", e.data)
	}
	if e.err != nil {
		fmt.Fprintf(&b, ": %v", e.err)
	}

	return b.String()
}

func (e *appError) Code() ErrorCode { return e.code }

func (e *appError) GetData() any { return e.data }

func (e *appError) Unwrap() error { return e.err }

// WithMessage and WithData return copies; a coded error is never mutated
// once returned.
func (e *appError) WithMessage(msg string) Error {
	c := *e
	c.message = msg
	return &c
}

func (e *appError) WithData(data any) Error {
	c := *e
	c.data = data
	return &c
}

type factory struct{}

// New returns the error factory.
func New() Factory {
	return factory{}
}

func (factory) New(code ErrorCode) Error {
	return &appError{code: code}
}

func (factory) Wrap(code ErrorCode, err error) Error {
	return &appError{code: code, err: err}
}

func (factory) WithMessage(code ErrorCode, msg string) Error {
	return &appError{code: code, message: msg}
}

func (factory) WithData(code ErrorCode, data any) Error {
	return &appError{code: code, data: data}
}

// CodeOf returns the code of the outermost coded error in err's chain, or
// an empty code when there is none.
func CodeOf(err error) ErrorCode {
	var appErr Error
	if As(err, &appErr) {
		return appErr.Code()
	}

	return ""
}

// HasCode reports whether the outermost coded error in err's chain has code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
