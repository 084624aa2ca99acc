// Package applet is the CPU usage panel plugin. It samples kernel CPU
// counters on a timer, keeps one sample per pixel column and paints the
// history as a bar graph inside a fixed border.
package applet

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"codeberg.org/mutker/cpugraph/internal/cpustat"
	"codeberg.org/mutker/cpugraph/internal/errors"
	"codeberg.org/mutker/cpugraph/internal/graph"
	"codeberg.org/mutker/cpugraph/internal/logger"
	"codeberg.org/mutker/cpugraph/internal/plugin"
	"codeberg.org/mutker/cpugraph/internal/ring"
	"codeberg.org/mutker/cpugraph/internal/schedule"
	"k8s.io/utils/clock"
)

type State int

const (
	Uninitialized State = iota
	Active
	TornDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case TornDown:
		return "torn down"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Option func(*Applet)

// WithSource replaces the counter source chosen by the settings.
func WithSource(src cpustat.Source) Option {
	return func(a *Applet) { a.source = src }
}

func WithClock(clk clock.WithTicker) Option {
	return func(a *Applet) { a.clock = clk }
}

func WithLogger(l logger.Logger) Option {
	return func(a *Applet) { a.log = l }
}

// Applet owns the sample history and the off-screen surface. Every method
// runs on the host's event loop.
type Applet struct {
	host     plugin.Host
	cfg      Config
	log      logger.Logger
	clock    clock.WithTicker
	source   cpustat.Source
	sampler  *cpustat.Sampler
	renderer graph.Renderer
	history  *ring.Buffer
	surface  *graph.Surface
	task     *schedule.Task
	state    State
}

// New builds an applet attached to host and starts its sampling timer.
// History and surface are allocated by the first Resize.
func New(host plugin.Host, settings plugin.Settings, opts ...Option) (*Applet, error) {
	errFactory := errors.New()

	if host == nil {
		return nil, errFactory.New(ErrNoHost)
	}

	cfg, err := LoadConfig(settings)
	if err != nil {
		return nil, err
	}

	a := &Applet{
		host:  host,
		cfg:   cfg,
		log:   logger.Default(),
		clock: clock.RealClock{},
		state: Uninitialized,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.source == nil {
		if a.source, err = cpustat.NewSource(cfg.Source, cfg.StatPath); err != nil {
			return nil, err
		}
	}
	a.sampler = cpustat.NewSampler(a.source)

	fg, err := a.resolveColor(cfg.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := a.resolveColor(cfg.Background)
	if err != nil {
		return nil, err
	}
	a.renderer = graph.Renderer{Foreground: fg, Background: bg}

	a.task, err = schedule.Every(a.clock, cfg.Interval, host.Dispatch, a.Tick)
	if err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}
	a.state = Active

	a.log.Debug().
		Dur("interval", cfg.Interval).
		Str("source", cfg.Source).
		Int("border", cfg.Border).
		Msg("CPU applet started")

	return a, nil
}

func (a *Applet) resolveColor(name string) (color.Color, error) {
	c, err := a.host.ResolveColor(name)
	if err != nil {
		return nil, errors.New().Wrap(ErrInvalidConfig, err).WithMessage("Unknown color " + name)
	}

	return c, nil
}

// Tick takes one sample, appends it to the history and repaints. A failed
// read skips the tick and leaves everything as it was.
func (a *Applet) Tick() {
	if a.state != Active || a.history == nil || a.surface == nil {
		return
	}

	sample, err := a.sampler.Sample()
	if err != nil {
		a.log.Debug().Err(err).Msg("Skipping CPU sample")
		return
	}

	a.history.Insert(sample)
	a.log.Trace().Float64("usage", sample).Int("cursor", a.history.Cursor()).Msg("CPU sample")

	a.redraw()
}

// Resize fits the history and surface to the widget's new allocation minus
// the border. Allocations that leave no drawable area are ignored.
func (a *Applet) Resize(width, height int) {
	if a.state != Active {
		return
	}

	w := width - 2*a.cfg.Border
	h := height - 2*a.cfg.Border
	if w <= 0 || h <= 0 {
		a.log.Debug().Int("width", width).Int("height", height).Msg("Ignoring resize without drawable area")
		return
	}

	if a.history == nil {
		a.history = &ring.Buffer{}
	}
	if err := a.history.Resize(w); err != nil {
		a.fail(err)
	}

	surface, err := graph.NewSurface(w, h)
	if err != nil {
		a.fail(err)
	}
	a.surface = surface

	a.redraw()
}

func (a *Applet) redraw() {
	if err := a.renderer.Render(a.surface, a.history); err != nil {
		a.fail(err)
	}
	a.host.QueueDraw()
}

// fail aborts the plugin. Reached only when the drawing state is corrupt.
func (a *Applet) fail(err error) {
	var appErr errors.Error
	if !errors.As(err, &appErr) {
		appErr = errors.New().Wrap(errors.ErrInternal, err)
	}

	a.log.ErrorWithCode(appErr).Msg("CPU applet aborted")
	panic(appErr)
}

// Draw copies the surface onto dst inside the border, limited to clip.
func (a *Applet) Draw(dst draw.Image, clip image.Rectangle) {
	if a.state != Active || a.surface == nil {
		return
	}

	a.surface.Blit(dst, clip, image.Pt(a.cfg.Border, a.cfg.Border))
}

// ButtonPress hands the press to the host so the panel menu keeps working.
func (a *Applet) ButtonPress(ev plugin.ButtonEvent) bool {
	if a.state != Active {
		return false
	}

	return a.host.ButtonPress(ev)
}

// Destroy cancels the timer and releases the history and surface.
func (a *Applet) Destroy() {
	if a.state == TornDown {
		return
	}

	if a.task != nil {
		a.task.Cancel()
	}
	a.history = nil
	a.surface = nil
	a.state = TornDown

	a.log.Debug().Msg("CPU applet destroyed")
}

func (a *Applet) SizeRequest() (width, height int) {
	return a.cfg.Width, 0
}

// Usage is the most recent sample, or zero before the first one.
func (a *Applet) Usage() float64 {
	if a.history == nil {
		return 0
	}

	return a.history.Latest()
}

func (a *Applet) State() State { return a.state }

func (a *Applet) Config() Config { return a.cfg }

// History is nil until the first usable Resize and after Destroy.
func (a *Applet) History() *ring.Buffer { return a.history }

func (a *Applet) Surface() *graph.Surface { return a.surface }

func (a *Applet) Sampler() *cpustat.Sampler { return a.sampler }

// Task is the sampling timer.
func (a *Applet) Task() *schedule.Task { return a.task }
