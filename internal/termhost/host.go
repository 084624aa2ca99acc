// Package termhost hosts a single panel plugin inside a terminal. The
// bubbletea event loop is the host thread: every plugin call happens in
// Update, and the plugin's timer work reaches it as messages.
package termhost

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"

	"codeberg.org/mutker/cpugraph/internal/errors"
	"codeberg.org/mutker/cpugraph/internal/logger"
	"codeberg.org/mutker/cpugraph/internal/palette"
	"codeberg.org/mutker/cpugraph/internal/plugin"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/disintegration/imaging"
)

// Options fixes the widget size in pixels. Zero follows the terminal: one
// pixel per column and two per row, less the status row while it is shown.
type Options struct {
	Width  int
	Height int
	Status bool
}

type invokeMsg struct {
	fn func()
}

// Host implements plugin.Host and tea.Model.
type Host struct {
	opts    Options
	log     logger.Logger
	program *tea.Program
	send    func(tea.Msg)
	dirty   atomic.Bool

	plugin     plugin.Plugin
	cols, rows int
	width      int
	height     int
	canvas     *image.NRGBA
	showStatus bool
	relayout   bool
	destroyed  bool
}

func New(ctx context.Context, opts Options, teaOpts ...tea.ProgramOption) *Host {
	h := newHost(opts)

	teaOpts = append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	}, teaOpts...)
	h.program = tea.NewProgram(h, teaOpts...)
	h.send = h.program.Send

	return h
}

func newHost(opts Options) *Host {
	return &Host{
		opts:       opts,
		log:        logger.Default(),
		send:       func(tea.Msg) {},
		showStatus: opts.Status,
	}
}

// Load constructs the plugin of type typ from the default registry. Must be
// called before Run.
func (h *Host) Load(typ string, settings plugin.Settings) error {
	p, err := plugin.Construct(typ, h, settings)
	if err != nil {
		return err
	}
	h.plugin = p

	if sr, ok := p.(plugin.SizeRequester); ok {
		w, ht := sr.SizeRequest()
		h.log.Debug().Str("type", typ).Int("width", w).Int("height", ht).Msg("Plugin size request")
	}

	return nil
}

// Run blocks until the user quits or the context is cancelled, then
// destroys the plugin.
func (h *Host) Run() error {
	if h.plugin == nil {
		return errors.New().New(ErrNoPlugin)
	}
	defer h.destroy()

	if _, err := h.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.New().Wrap(ErrRunFailed, err)
	}

	return nil
}

// QueueDraw marks the widget for repainting once the current message has
// been handled.
func (h *Host) QueueDraw() {
	h.dirty.Store(true)
}

func (h *Host) ResolveColor(name string) (color.Color, error) {
	return palette.Resolve(name)
}

// ButtonPress is the host's own handling of a press: the right button
// toggles the status line.
func (h *Host) ButtonPress(ev plugin.ButtonEvent) bool {
	if ev.Button != int(tea.MouseButtonRight) {
		return false
	}

	h.toggleStatus()
	return true
}

// toggleStatus flips the status line. The widget is refitted once the
// current message is handled, outside any plugin call.
func (h *Host) toggleStatus() {
	h.showStatus = !h.showStatus
	h.relayout = true
}

// Dispatch queues fn on the event loop. It blocks until the loop accepts
// it, so it must not be called from the loop itself.
func (h *Host) Dispatch(fn func()) {
	h.send(invokeMsg{fn: fn})
}

func (h *Host) Init() tea.Cmd {
	return nil
}

func (h *Host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case invokeMsg:
		if !h.destroyed {
			msg.fn()
		}

	case tea.WindowSizeMsg:
		h.cols, h.rows = msg.Width, msg.Height
		h.layout()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			h.destroy()
			return h, tea.Quit
		case "s":
			h.toggleStatus()
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && !h.destroyed && h.plugin != nil {
			h.plugin.ButtonPress(plugin.ButtonEvent{
				Button: int(msg.Button),
				X:      msg.X,
				Y:      msg.Y * 2,
			})
		}
	}

	if h.relayout {
		h.relayout = false
		h.layout()
	}
	if h.dirty.Swap(false) {
		h.paint()
	}

	return h, nil
}

func (h *Host) layout() {
	width := h.opts.Width
	if width <= 0 {
		width = h.cols
	}
	height := h.opts.Height
	if height <= 0 {
		rows := h.rows
		if h.showStatus {
			rows--
		}
		height = rows * 2
	}
	if width <= 0 || height <= 0 {
		return
	}
	if width == h.width && height == h.height {
		return
	}

	h.width, h.height = width, height
	h.canvas = imaging.New(width, height, color.Black)
	h.log.Trace().Int("width", width).Int("height", height).Msg("Widget resized")

	if h.plugin != nil && !h.destroyed {
		h.plugin.Resize(width, height)
	}
	h.dirty.Store(true)
}

func (h *Host) paint() {
	if h.canvas == nil || h.plugin == nil || h.destroyed {
		return
	}

	h.plugin.Draw(h.canvas, h.canvas.Bounds())
}

func (h *Host) destroy() {
	if h.destroyed || h.plugin == nil {
		return
	}

	h.plugin.Destroy()
	h.destroyed = true
}
