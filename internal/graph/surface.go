package graph

import (
	"image"
	"image/color"
	"image/draw"

	"codeberg.org/mutker/cpugraph/internal/errors"
	"github.com/disintegration/imaging"
)

// Surface is the off-screen image the graph is drawn into.
type Surface struct {
	img    *image.NRGBA
	width  int
	height int
}

func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New().WithData(ErrInvalidSize, image.Pt(width, height))
	}

	return &Surface{
		img:    imaging.New(width, height, color.Black),
		width:  width,
		height: height,
	}, nil
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

// Image exposes the backing image for reading.
func (s *Surface) Image() image.Image {
	return s.img
}

// Snapshot returns a copy of the current contents.
func (s *Surface) Snapshot() *image.NRGBA {
	return imaging.Clone(s.img)
}

// Blit copies the surface onto dst with its origin at offset, touching only
// pixels inside clip.
func (s *Surface) Blit(dst draw.Image, clip image.Rectangle, offset image.Point) {
	r := s.img.Bounds().Add(offset).Intersect(clip).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}

	draw.Draw(dst, r, s.img, r.Min.Sub(offset), draw.Src)
}

func (s *Surface) validate() error {
	if s == nil || s.img == nil {
		return errors.New().WithData(ErrSurfaceInvalid, "no surface")
	}
	if b := s.img.Bounds(); b.Dx() != s.width || b.Dy() != s.height {
		return errors.New().WithData(ErrSurfaceInvalid, b)
	}

	return nil
}
