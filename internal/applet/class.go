package applet

import "codeberg.org/mutker/cpugraph/internal/plugin"

const Type = "cpu"

// Class is the descriptor the panel loads the applet by.
var Class = &plugin.Class{
	Type:        Type,
	Name:        "CPU Usage Monitor",
	Version:     "1.0",
	Description: "Display CPU usage",
	New:         construct,
}

func construct(host plugin.Host, settings plugin.Settings) (plugin.Plugin, error) {
	return New(host, settings)
}

// Register adds Class to the default plugin registry.
func Register() error {
	return plugin.Register(Class)
}
