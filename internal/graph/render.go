// Package graph draws the utilization history as one vertical bar per pixel
// column, oldest on the left.
package graph

import (
	"image"
	"image/color"
	"image/draw"
	"iter"
	"math"
)

var (
	DefaultForeground color.Color = color.NRGBA{R: 0x00, G: 0xff, B: 0x00, A: 0xff}
	DefaultBackground color.Color = color.Black
)

// Series yields samples in [0, 1] from oldest to newest.
type Series interface {
	All() iter.Seq[float64]
}

type Renderer struct {
	Foreground color.Color
	Background color.Color
}

// Render repaints the whole surface from samples. Zero samples leave their
// column empty.
func (r *Renderer) Render(s *Surface, samples Series) error {
	if err := s.validate(); err != nil {
		return err
	}

	fg := toNRGBA(r.Foreground, DefaultForeground)
	bg := toNRGBA(r.Background, DefaultBackground)

	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	x := 0
	for sample := range samples.All() {
		if x >= s.width {
			break
		}
		if sample != 0 {
			for y := s.height - BarHeight(sample, s.height); y < s.height; y++ {
				s.img.SetNRGBA(x, y, fg)
			}
		}
		x++
	}

	return s.validate()
}

// BarHeight converts a sample to a bar height in pixels. Any non-zero sample
// is at least one pixel tall.
func BarHeight(sample float64, height int) int {
	if sample <= 0 || math.IsNaN(sample) {
		return 0
	}

	h := int(math.Round(sample * float64(height)))
	if h < 1 {
		h = 1
	}
	if h > height {
		h = height
	}

	return h
}

func toNRGBA(c, fallback color.Color) color.NRGBA {
	if c == nil {
		c = fallback
	}

	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
