package cpustat

import "codeberg.org/mutker/cpugraph/internal/errors"

const (
	// ErrIOUnavailable covers every read or parse failure of a counters
	// source. Callers skip the current cycle.
	ErrIOUnavailable = errors.ErrorCode("cpustat_io_unavailable")

	ErrUnknownSource = errors.ErrorCode("cpustat_unknown_source")
)

type parseFailure struct {
	Reason string
	Line   string
}
