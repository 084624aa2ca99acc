package plugin_test

import (
	"image"
	"image/draw"
	"testing"

	"codeberg.org/mutker/cpugraph/internal/errors"
	"codeberg.org/mutker/cpugraph/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlugin struct {
	label string
}

func (*stubPlugin) Resize(int, int)                     {}
func (*stubPlugin) Draw(draw.Image, image.Rectangle)    {}
func (*stubPlugin) ButtonPress(plugin.ButtonEvent) bool { return false }
func (*stubPlugin) Destroy()                            {}

func stubClass(typ string) *plugin.Class {
	return &plugin.Class{
		Type: typ,
		Name: "Stub " + typ,
		New: func(_ plugin.Host, settings plugin.Settings) (plugin.Plugin, error) {
			return &stubPlugin{label: settings.GetString("label")}, nil
		},
	}
}

func TestRegisterAndConstruct(t *testing.T) {
	r := plugin.NewRegistry()
	require.NoError(t, r.Register(stubClass("b")))
	require.NoError(t, r.Register(stubClass("a")))

	c, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "Stub a", c.Name)

	classes := r.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, "a", classes[0].Type)
	assert.Equal(t, "b", classes[1].Type)

	p, err := r.Construct("a", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, p.(*stubPlugin).label)
}

func TestRegisterRejects(t *testing.T) {
	r := plugin.NewRegistry()
	require.NoError(t, r.Register(stubClass("cpu")))

	err := r.Register(stubClass("cpu"))
	assert.True(t, errors.HasCode(err, plugin.ErrDuplicateClass))

	assert.True(t, errors.HasCode(r.Register(nil), plugin.ErrInvalidClass))
	assert.True(t, errors.HasCode(r.Register(&plugin.Class{Type: "x"}), plugin.ErrInvalidClass))
}

func TestConstructUnknown(t *testing.T) {
	_, err := plugin.NewRegistry().Construct("clock", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, plugin.ErrUnknownClass))
}
