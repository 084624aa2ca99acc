// Package ring holds the sample history behind the graph: a fixed-capacity
// circular buffer whose cursor marks both the next write slot and the oldest
// sample.
package ring

import (
	"iter"
	"slices"

	"codeberg.org/mutker/cpugraph/internal/errors"
)

// Buffer is a circular store of samples. The zero value has no storage;
// Resize allocates it.
type Buffer struct {
	samples []float64
	cursor  int
}

func New(capacity int) (*Buffer, error) {
	b := &Buffer{}
	if err := b.Resize(capacity); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Buffer) Cap() int {
	return len(b.samples)
}

// Cursor is the index the next Insert writes to.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Insert overwrites the oldest sample and advances the cursor.
func (b *Buffer) Insert(sample float64) {
	if len(b.samples) == 0 {
		return
	}

	b.samples[b.cursor] = sample
	b.cursor++
	if b.cursor >= len(b.samples) {
		b.cursor = 0
	}
}

// At returns the i-th oldest sample.
func (b *Buffer) At(i int) float64 {
	return b.samples[(b.cursor+i)%len(b.samples)]
}

// Latest returns the most recently inserted sample.
func (b *Buffer) Latest() float64 {
	if len(b.samples) == 0 {
		return 0
	}

	return b.At(len(b.samples) - 1)
}

// All yields every slot from oldest to newest.
func (b *Buffer) All() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		n := len(b.samples)
		for i, idx := 0, b.cursor; i < n; i++ {
			if !yield(b.samples[idx]) {
				return
			}
			idx++
			if idx >= n {
				idx = 0
			}
		}
	}
}

// Values returns a copy of the samples from oldest to newest.
func (b *Buffer) Values() []float64 {
	return slices.Collect(b.All())
}

// Resize changes the capacity, keeping as many of the newest samples as fit
// in their original order. New slots count as older than anything present
// and are zero. The storage is always reallocated.
func (b *Buffer) Resize(capacity int) error {
	if capacity <= 0 {
		return errors.New().WithData(ErrInvalidCapacity, capacity)
	}

	oldCap := len(b.samples)
	if oldCap == capacity {
		return nil
	}

	next := make([]float64, capacity)
	switch {
	case oldCap == 0:
		b.cursor = 0

	case capacity > oldCap:
		// [0, cursor) stays put; [cursor, oldCap) moves to the top so the
		// zero gap sits right after the cursor.
		copy(next, b.samples[:b.cursor])
		copy(next[capacity-oldCap+b.cursor:], b.samples[b.cursor:])

	case b.cursor <= capacity:
		// Drop the oldest samples that follow the cursor.
		copy(next, b.samples[:b.cursor])
		copy(next[b.cursor:], b.samples[oldCap-capacity+b.cursor:])
		if b.cursor == capacity {
			b.cursor = 0
		}

	default:
		// Only the samples just before the cursor survive.
		copy(next, b.samples[b.cursor-capacity:b.cursor])
		b.cursor = 0
	}

	b.samples = next

	return nil
}
