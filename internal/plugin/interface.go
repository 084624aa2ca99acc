package plugin

import (
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/spf13/viper"
)

// Host is what a plugin may ask of the panel that loaded it.
type Host interface {
	// QueueDraw asks for the plugin's widget to be redrawn. Requests are
	// coalesced and served asynchronously.
	QueueDraw()

	// ResolveColor maps a color name or "#rrggbb" to a drawable color.
	ResolveColor(name string) (color.Color, error)

	// ButtonPress gives the host its own handling of a pointer press.
	ButtonPress(ev ButtonEvent) bool

	// Dispatch runs fn on the host's event loop.
	Dispatch(fn func())
}

// Plugin is what the host may ask of a loaded plugin. All calls arrive on
// the host's event loop.
type Plugin interface {
	// Resize reports the widget's new allocation in pixels.
	Resize(width, height int)

	// Draw paints the part of the widget inside clip onto dst.
	Draw(dst draw.Image, clip image.Rectangle)

	// ButtonPress delivers a pointer press on the widget.
	ButtonPress(ev ButtonEvent) bool

	// Destroy releases everything the plugin owns.
	Destroy()
}

// Configurable plugins offer a settings dialog and persist their settings.
type Configurable interface {
	Configure()
	Save(w io.Writer) error
}

// SizeRequester plugins ask for a preferred widget size. Zero means any.
type SizeRequester interface {
	SizeRequest() (width, height int)
}

// ButtonEvent is a pointer press inside the plugin's widget.
type ButtonEvent struct {
	Button int
	X, Y   int
}

// Settings is the plugin's own section of the panel configuration.
type Settings = *viper.Viper

// Constructor builds a plugin instance attached to host.
type Constructor func(host Host, settings Settings) (Plugin, error)

// Class describes a loadable plugin type.
type Class struct {
	Type        string
	Name        string
	Version     string
	Description string
	New         Constructor
}
