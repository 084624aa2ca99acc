package errors

// ErrorCode identifies a failure. Package-local codes are prefixed with the
// package name, e.g. "ring_invalid_capacity".
type ErrorCode string

// Error is a coded error that may wrap a cause and carry the offending value.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory builds coded errors. Callers take one with New() at the top of a
// function, as errFactory.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
