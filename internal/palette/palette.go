// Package palette resolves configured color names for plugins.
package palette

import (
	"image/color"
	"strings"

	"codeberg.org/mutker/cpugraph/internal/errors"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

const ErrUnknownColor = errors.ErrorCode("palette_unknown_color")

// Resolve accepts "#rgb", "#rrggbb" or an SVG color name.
func Resolve(name string) (color.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	if strings.HasPrefix(name, "#") {
		hex := name
		if len(hex) == 4 {
			hex = string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
		}
		if len(hex) != 7 {
			return nil, errors.New().WithData(ErrUnknownColor, name)
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, errors.New().Wrap(ErrUnknownColor, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}

	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}

	return nil, errors.New().WithData(ErrUnknownColor, name)
}

// Hex formats c as "#rrggbb", dropping alpha.
func Hex(c color.Color) string {
	cf, _ := colorful.MakeColor(opaque(c))
	return cf.Hex()
}

func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}
