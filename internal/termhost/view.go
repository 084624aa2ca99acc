package termhost

import (
	"fmt"
	"image/color"
	"strings"

	"codeberg.org/mutker/cpugraph/internal/palette"
	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

var (
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type usageReporter interface {
	Usage() float64
}

// cell is one terminal character: the upper pixel drawn in the foreground
// and the lower one in the background.
type cell struct {
	top, bottom color.NRGBA
}

func (h *Host) View() string {
	if h.canvas == nil {
		return ""
	}

	var b strings.Builder
	for y := 0; y < h.height; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		h.renderRow(&b, y)
	}

	if h.showStatus {
		b.WriteByte('\n')
		b.WriteString(h.status())
	}

	return b.String()
}

// renderRow writes one text row, styling runs of identical cells together.
func (h *Host) renderRow(b *strings.Builder, y int) {
	run := 0
	var current cell

	flush := func() {
		if run == 0 {
			return
		}
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Hex(current.top))).
			Background(lipgloss.Color(palette.Hex(current.bottom)))
		b.WriteString(style.Render(strings.Repeat(halfBlock, run)))
		run = 0
	}

	for x := 0; x < h.width; x++ {
		c := cell{top: h.canvas.NRGBAAt(x, y)}
		if y+1 < h.height {
			c.bottom = h.canvas.NRGBAAt(x, y+1)
		} else {
			c.bottom = color.NRGBA{A: 0xff}
		}

		if run > 0 && c != current {
			flush()
		}
		current = c
		run++
	}
	flush()
}

func (h *Host) status() string {
	text := "CPU"
	if u, ok := h.plugin.(usageReporter); ok && !h.destroyed {
		text = fmt.Sprintf("CPU %3.0f%%", u.Usage()*100)
	}

	return statusStyle.Render(text) + "  " + subtleStyle.Render("q quit  s status")
}
