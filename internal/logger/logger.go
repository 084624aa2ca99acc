package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"codeberg.org/mutker/cpugraph/internal/errors"
	"github.com/rs/zerolog"
)

var log = zerolog.New(io.Discard)

type LogLevel int8

const (
	TraceLevel LogLevel = iota - 1
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var levelNames = map[string]LogLevel{
	"trace":   TraceLevel,
	"debug":   DebugLevel,
	"info":    InfoLevel,
	"warn":    WarnLevel,
	"warning": WarnLevel,
	"error":   ErrorLevel,
}

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// ParseLevel maps a configured level name onto a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	if level, ok := levelNames[name]; ok {
		return level, nil
	}

	return WarnLevel, errors.New().WithData(errors.ErrInvalidLogLevel, name)
}

// Init initializes the logger writing to out at the given level.
func Init(level LogLevel, isService bool, out io.Writer) {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    isService,
	}

	if isService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	log = zerolog.New(output).With().Timestamp().Logger()

	SetLogLevel(level)
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService reports whether the process runs under a service manager
// rather than from an interactive shell.
func IsService() bool {
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}

	return os.Getppid() == 1
}

var (
	traceMu   sync.Mutex
	traceBase = time.Now()
	traceLast time.Duration
)

// Trace logs a developer trace message stamped with the monotonic time since
// startup and the delta since the previous trace.
func Trace() *LogEvent {
	if !traceEnabled() {
		return &LogEvent{log.Trace()}
	}

	traceMu.Lock()
	now := time.Since(traceBase)
	delta := now - traceLast
	traceLast = now
	traceMu.Unlock()

	return &LogEvent{log.Trace().Dur("mono", now).Dur("delta", delta)}
}

func traceEnabled() bool {
	return zerolog.GlobalLevel() <= zerolog.TraceLevel && log.GetLevel() <= zerolog.TraceLevel
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Error().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

// FatalWithCode logs err with its code and exits the program once the
// event is sent.
func FatalWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Fatal().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

type global struct{}

// Default returns a Logger backed by the package-level logger.
func Default() Logger {
	return global{}
}

func (global) Trace() *LogEvent                         { return Trace() }
func (global) Debug() *LogEvent                         { return Debug() }
func (global) Info() *LogEvent                          { return Info() }
func (global) Warn() *LogEvent                          { return Warn() }
func (global) Error() *LogEvent                         { return Error() }
func (global) ErrorWithCode(err errors.Error) *LogEvent { return ErrorWithCode(err) }

type nop struct {
	l zerolog.Logger
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nop{l: zerolog.Nop()}
}

func (n nop) Trace() *LogEvent                       { return &LogEvent{n.l.Trace()} }
func (n nop) Debug() *LogEvent                       { return &LogEvent{n.l.Debug()} }
func (n nop) Info() *LogEvent                        { return &LogEvent{n.l.Info()} }
func (n nop) Warn() *LogEvent                        { return &LogEvent{n.l.Warn()} }
func (n nop) Error() *LogEvent                       { return &LogEvent{n.l.Error()} }
func (n nop) ErrorWithCode(_ errors.Error) *LogEvent { return &LogEvent{n.l.Error()} }
