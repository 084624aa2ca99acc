package cpustat

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"codeberg.org/mutker/cpugraph/internal/errors"
	"github.com/shirou/gopsutil/v3/cpu"
)

const (
	DefaultStatPath = "/proc/stat"

	SourceProcfs   = "procfs"
	SourceGopsutil = "gopsutil"

	statLabel = "cpu"

	// userHZ is the kernel's exported tick rate; gopsutil reports seconds.
	userHZ = 100
)

// Counters are cumulative CPU ticks since boot.
type Counters struct {
	User   uint64
	Nice   uint64
	System uint64
	Idle   uint64
}

// Sub returns c - prev per counter with unsigned wraparound.
func (c Counters) Sub(prev Counters) Counters {
	return Counters{
		User:   c.User - prev.User,
		Nice:   c.Nice - prev.Nice,
		System: c.System - prev.System,
		Idle:   c.Idle - prev.Idle,
	}
}

// Busy is user+nice+system.
func (c Counters) Busy() uint64 {
	return c.User + c.Nice + c.System
}

// Source reads the current cumulative counters.
type Source interface {
	Read() (Counters, error)
}

// ProcSource reads the aggregate line of a /proc/stat style file.
type ProcSource struct {
	open func() (io.ReadCloser, error)
}

func NewProcSource(path string) *ProcSource {
	if path == "" {
		path = DefaultStatPath
	}

	return NewProcSourceFunc(func() (io.ReadCloser, error) {
		return os.Open(path)
	})
}

// NewProcSourceFunc builds a ProcSource around an arbitrary opener.
func NewProcSourceFunc(open func() (io.ReadCloser, error)) *ProcSource {
	return &ProcSource{open: open}
}

func (s *ProcSource) Read() (Counters, error) {
	errFactory := errors.New()

	f, err := s.open()
	if err != nil {
		return Counters{}, errFactory.Wrap(ErrIOUnavailable, err)
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return Counters{}, errFactory.Wrap(ErrIOUnavailable, err)
	}

	return ParseStatLine(line)
}

// ParseStatLine parses "cpu <user> <nice> <system> <idle> ...". Columns past
// the fourth counter are ignored.
func ParseStatLine(line string) (Counters, error) {
	errFactory := errors.New()

	fields := strings.Fields(line)
	if len(fields) < 5 {
		return Counters{}, errFactory.WithData(ErrIOUnavailable, parseFailure{
			Reason: "too few fields",
			Line:   line,
		})
	}
	if fields[0] != statLabel {
		return Counters{}, errFactory.WithData(ErrIOUnavailable, parseFailure{
			Reason: "unexpected label",
			Line:   line,
		})
	}

	var values [4]uint64
	for i := range values {
		v, err := strconv.ParseUint(fields[i+1], 10, 64)
		if err != nil {
			return Counters{}, errFactory.WithData(ErrIOUnavailable, parseFailure{
				Reason: "invalid counter " + strconv.Quote(fields[i+1]),
				Line:   line,
			})
		}
		values[i] = v
	}

	return Counters{
		User:   values[0],
		Nice:   values[1],
		System: values[2],
		Idle:   values[3],
	}, nil
}

// HostSource reads aggregate CPU times through gopsutil.
type HostSource struct {
	times func(percpu bool) ([]cpu.TimesStat, error)
}

func NewHostSource() *HostSource {
	return NewHostSourceFunc(cpu.Times)
}

// NewHostSourceFunc builds a HostSource around a gopsutil style times reader.
func NewHostSourceFunc(times func(percpu bool) ([]cpu.TimesStat, error)) *HostSource {
	return &HostSource{times: times}
}

func (s *HostSource) Read() (Counters, error) {
	errFactory := errors.New()

	times, err := s.times(false)
	if err != nil {
		return Counters{}, errFactory.Wrap(ErrIOUnavailable, err)
	}
	if len(times) == 0 {
		return Counters{}, errFactory.WithData(ErrIOUnavailable, "no aggregate cpu times")
	}

	t := times[0]
	return Counters{
		User:   secondsToTicks(t.User),
		Nice:   secondsToTicks(t.Nice),
		System: secondsToTicks(t.System),
		Idle:   secondsToTicks(t.Idle),
	}, nil
}

func secondsToTicks(seconds float64) uint64 {
	if seconds <= 0 {
		return 0
	}
	return uint64(seconds*userHZ + 0.5)
}

// NewSource builds the named counters source.
func NewSource(kind, statPath string) (Source, error) {
	switch kind {
	case "", SourceProcfs:
		return NewProcSource(statPath), nil
	case SourceGopsutil:
		return NewHostSource(), nil
	default:
		return nil, errors.New().WithData(ErrUnknownSource, kind)
	}
}
