package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codeberg.org/mutker/cpugraph/internal/errors"
	"codeberg.org/mutker/cpugraph/internal/logger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "warn"

	appName       = "cpugraph"
	envPrefix     = "CPUGRAPH"
	envConfigFile = "CPUGRAPH_CONFIG"
	pluginsKey    = "plugins"
)

type Config struct {
	LogLevel string      `mapstructure:"log_level"`
	LogFile  string      `mapstructure:"log_file"`
	PIDDir   string      `mapstructure:"pid_dir"`
	Panel    PanelConfig `mapstructure:"panel"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `mapstructure:"-"`

	v *viper.Viper
}

// PanelConfig is the size the host gives to its plugins. Zero follows the terminal.
type PanelConfig struct {
	Width  int  `mapstructure:"width"`
	Height int  `mapstructure:"height"`
	Status bool `mapstructure:"status"`
}

// Load reads configuration from the config file, environment and the given
// command line arguments, in increasing order of precedence.
func Load(args []string) (*Config, error) {
	errFactory := errors.New()
	v := viper.New()

	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	configFlag := fs.String("config", "", "Path to the configuration file")
	fs.String("log-level", "", "Log level: trace, debug, info, warn, error")
	fs.String("log-file", "", "Write logs to this file instead of discarding them")
	fs.String("pid-dir", "", "Directory for the single-instance PID file")
	fs.Int("width", 0, "Panel width in pixels (0 follows the terminal)")
	fs.Int("height", 0, "Panel height in pixels (0 follows the terminal)")
	fs.Bool("status", false, "Show the status line")
	fs.Duration("interval", 0, "CPU sampling interval")
	fs.String("foreground", "", "Graph foreground color")
	fs.String("source", "", "CPU counters source: procfs or gopsutil")

	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	bindings := map[string]string{
		"log_level":              "log-level",
		"log_file":               "log-file",
		"panel.width":            "width",
		"pid_dir":                "pid-dir",
		"panel.height":           "height",
		"panel.status":           "status",
		"plugins.cpu.interval":   "interval",
		"plugins.cpu.foreground": "foreground",
		"plugins.cpu.source":     "source",
	}
	for key, flagName := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	v.SetDefault("log_level", DefaultLogLevel)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := *configFlag
	if configFile == "" {
		configFile = os.Getenv(envConfigFile)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("toml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
		v.AddConfigPath("/etc")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	cfg := &Config{v: v, ConfigFile: v.ConfigFileUsed()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.Panel.Width < 0 || c.Panel.Height < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, c.Panel)
	}

	return nil
}

// Level returns the validated log level.
func (c *Config) Level() logger.LogLevel {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}

// PluginSettings returns the explicitly set keys of [plugins.<typ>] as their
// own tree, with flag and file precedence already applied.
func (c *Config) PluginSettings(typ string) *viper.Viper {
	sub := viper.New()
	if c.v == nil {
		return sub
	}

	prefix := pluginsKey + "." + strings.ToLower(typ) + "."
	for _, key := range c.v.AllKeys() {
		if !strings.HasPrefix(key, prefix) || !c.v.IsSet(key) {
			continue
		}
		sub.Set(strings.TrimPrefix(key, prefix), c.v.Get(key))
	}

	return sub
}

// Plugins lists the plugin types that have settings.
func (c *Config) Plugins() []string {
	if c.v == nil {
		return nil
	}

	seen := map[string]bool{}
	for _, key := range c.v.AllKeys() {
		parts := strings.SplitN(key, ".", 3)
		if len(parts) == 3 && parts[0] == pluginsKey && c.v.IsSet(key) {
			seen[parts[1]] = true
		}
	}

	types := make([]string, 0, len(seen))
	for typ := range seen {
		types = append(types, typ)
	}
	sort.Strings(types)

	return types
}
