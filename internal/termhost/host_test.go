package termhost

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/cpugraph/internal/applet"
	"codeberg.org/mutker/cpugraph/internal/cpustat"
	"codeberg.org/mutker/cpugraph/internal/errors"
	"codeberg.org/mutker/cpugraph/internal/logger"
	"codeberg.org/mutker/cpugraph/internal/plugin"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type recordingPlugin struct {
	host      plugin.Host
	fill      color.Color
	resizes   []image.Point
	draws     int
	presses   []plugin.ButtonEvent
	destroyed int
}

func (p *recordingPlugin) Resize(width, height int) {
	p.resizes = append(p.resizes, image.Pt(width, height))
	p.host.QueueDraw()
}

func (p *recordingPlugin) Draw(dst draw.Image, clip image.Rectangle) {
	p.draws++
	if p.fill != nil {
		draw.Draw(dst, clip, &image.Uniform{C: p.fill}, image.Point{}, draw.Src)
	}
}

func (p *recordingPlugin) ButtonPress(ev plugin.ButtonEvent) bool {
	p.presses = append(p.presses, ev)
	return p.host.ButtonPress(ev)
}

func (p *recordingPlugin) Destroy() { p.destroyed++ }

func (p *recordingPlugin) Usage() float64 { return 0.25 }

func testHost(opts Options) (*Host, *recordingPlugin) {
	h := newHost(opts)
	h.log = logger.Nop()
	p := &recordingPlugin{host: h}
	h.plugin = p

	return h, p
}

func update(t *testing.T, h *Host, msg tea.Msg) tea.Cmd {
	t.Helper()

	m, cmd := h.Update(msg)
	require.Same(t, h, m)

	return cmd
}

func TestWindowSizeFollowsTerminal(t *testing.T) {
	h, p := testHost(Options{})

	update(t, h, tea.WindowSizeMsg{Width: 80, Height: 25})
	assert.Equal(t, []image.Point{image.Pt(80, 50)}, p.resizes)
	assert.Equal(t, image.Rect(0, 0, 80, 50), h.canvas.Bounds())
	assert.Equal(t, 1, p.draws)

	update(t, h, tea.WindowSizeMsg{Width: 80, Height: 25})
	assert.Len(t, p.resizes, 1)

	update(t, h, tea.WindowSizeMsg{Width: 60, Height: 11})
	assert.Equal(t, image.Pt(60, 22), p.resizes[1])
}

func TestStatusRowTakenOnlyWhenShown(t *testing.T) {
	h, p := testHost(Options{Status: true})

	update(t, h, tea.WindowSizeMsg{Width: 80, Height: 25})
	assert.Equal(t, image.Pt(80, 48), p.resizes[0])

	update(t, h, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.False(t, h.showStatus)
	assert.Equal(t, image.Pt(80, 50), p.resizes[1])
	assert.Equal(t, image.Rect(0, 0, 80, 50), h.canvas.Bounds())

	update(t, h, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.Equal(t, image.Pt(80, 48), p.resizes[2])
	assert.Len(t, p.resizes, 3)
}

func TestFixedWidgetSize(t *testing.T) {
	h, p := testHost(Options{Width: 40, Height: 24})

	update(t, h, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, []image.Point{image.Pt(40, 24)}, p.resizes)
}

func TestTerminalTooSmall(t *testing.T) {
	h, p := testHost(Options{})

	update(t, h, tea.WindowSizeMsg{Width: 80, Height: 0})
	assert.Empty(t, p.resizes)

	h.showStatus = true
	update(t, h, tea.WindowSizeMsg{Width: 80, Height: 1})
	assert.Empty(t, p.resizes)
	assert.Nil(t, h.canvas)
	assert.Empty(t, h.View())
}

func TestViewUsesHalfBlocks(t *testing.T) {
	h, p := testHost(Options{Width: 4, Height: 3})
	p.fill = color.NRGBA{G: 0xff, A: 0xff}

	update(t, h, tea.WindowSizeMsg{Width: 10, Height: 10})
	view := h.View()

	lines := strings.Split(view, "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, 4, strings.Count(line, halfBlock))
	}
}

func TestStatusLine(t *testing.T) {
	h, _ := testHost(Options{Width: 2, Height: 2, Status: true})
	update(t, h, tea.WindowSizeMsg{Width: 10, Height: 10})

	assert.Contains(t, h.View(), "CPU  25%")

	update(t, h, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.NotContains(t, h.View(), "CPU")
}

func TestMousePressForwarded(t *testing.T) {
	h, p := testHost(Options{})
	update(t, h, tea.WindowSizeMsg{Width: 10, Height: 10})

	update(t, h, tea.MouseMsg{X: 3, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	update(t, h, tea.MouseMsg{X: 3, Y: 2, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.Len(t, p.presses, 1)
	assert.Equal(t, plugin.ButtonEvent{Button: 1, X: 3, Y: 4}, p.presses[0])
	assert.False(t, h.showStatus)

	update(t, h, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.True(t, h.showStatus)
	assert.Equal(t, []image.Point{image.Pt(10, 20), image.Pt(10, 18)}, p.resizes)
}

func TestQuitDestroysPlugin(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		h, p := testHost(Options{})

		cmd := update(t, h, key)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Equal(t, 1, p.destroyed)

		ran := false
		update(t, h, invokeMsg{fn: func() { ran = true }})
		assert.False(t, ran)

		h.destroy()
		assert.Equal(t, 1, p.destroyed)
	}
}

func TestInvokeRunsOnLoop(t *testing.T) {
	h, _ := testHost(Options{})

	ran := 0
	update(t, h, invokeMsg{fn: func() { ran++ }})
	assert.Equal(t, 1, ran)
}

func TestRunWithoutPlugin(t *testing.T) {
	h := New(context.Background(), Options{})
	err := h.Run()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrNoPlugin))
}

type fixedSource cpustat.Counters

func (s *fixedSource) Read() (cpustat.Counters, error) {
	c := cpustat.Counters(*s)
	s.User += 10

	return c, nil
}

func TestAppletTicksThroughEventLoop(t *testing.T) {
	msgs := make(chan tea.Msg, 4)
	h := newHost(Options{})
	h.log = logger.Nop()
	h.send = func(msg tea.Msg) { msgs <- msg }

	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	a, err := applet.New(h, viper.New(),
		applet.WithClock(clk),
		applet.WithSource(&fixedSource{User: 10}),
		applet.WithLogger(logger.Nop()),
	)
	require.NoError(t, err)
	h.plugin = a

	update(t, h, tea.WindowSizeMsg{Width: 20, Height: 6})
	require.Equal(t, 16, a.Surface().Width())
	require.Equal(t, 8, a.Surface().Height())

	clk.Step(1500 * time.Millisecond)
	select {
	case msg := <-msgs:
		update(t, h, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no tick dispatched")
	}

	green := color.NRGBA{G: 0xff, A: 0xff}
	for y := 2; y < 10; y++ {
		assert.Equal(t, green, h.canvas.NRGBAAt(17, y), "row %d", y)
	}
	assert.Equal(t, color.NRGBA{A: 0xff}, h.canvas.NRGBAAt(16, 9))
	assert.Equal(t, color.NRGBA{A: 0xff}, h.canvas.NRGBAAt(0, 0))

	update(t, h, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Equal(t, applet.TornDown, a.State())
}
