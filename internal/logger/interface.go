package logger

import "codeberg.org/mutker/cpugraph/internal/errors"

// Logger is what components log through. Default routes to the package
// logger; Nop discards.
type Logger interface {
	Trace() *LogEvent
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	ErrorWithCode(err errors.Error) *LogEvent
}
