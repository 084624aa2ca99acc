package cpustat

// Sampler turns successive counter readings into utilization fractions.
type Sampler struct {
	source   Source
	previous Counters
}

func NewSampler(source Source) *Sampler {
	return &Sampler{source: source}
}

// Sample reads the source and returns the busy fraction of the interval since
// the previous successful read. On error the previous counters are kept and
// no sample is produced.
func (s *Sampler) Sample() (float64, error) {
	current, err := s.source.Read()
	if err != nil {
		return 0, err
	}

	delta := current.Sub(s.previous)
	s.previous = current

	return Utilization(delta), nil
}

// Previous returns the counters of the last successful read.
func (s *Sampler) Previous() Counters {
	return s.previous
}

// Utilization is busy/(busy+idle), 0 when no ticks elapsed.
func Utilization(delta Counters) float64 {
	busy := float64(delta.Busy())
	total := busy + float64(delta.Idle)
	if total <= 0 {
		return 0
	}

	u := busy / total
	switch {
	case u < 0:
		return 0
	case u > 1:
		return 1
	}

	return u
}
