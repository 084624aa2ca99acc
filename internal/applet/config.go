package applet

import (
	"time"

	"codeberg.org/mutker/cpugraph/internal/cpustat"
	"codeberg.org/mutker/cpugraph/internal/errors"
	"codeberg.org/mutker/cpugraph/internal/plugin"
)

const (
	defaultInterval   = 1500 * time.Millisecond
	minInterval       = 100 * time.Millisecond
	defaultForeground = "#00ff00"
	defaultBackground = "black"
	defaultBorder     = 2
	defaultWidth      = 40
)

type Config struct {
	Interval   time.Duration `mapstructure:"interval"`
	Foreground string        `mapstructure:"foreground"`
	Background string        `mapstructure:"background"`
	Border     int           `mapstructure:"border"`
	Width      int           `mapstructure:"width"`
	Source     string        `mapstructure:"source"`
	StatPath   string        `mapstructure:"stat_path"`
}

func DefaultConfig() Config {
	return Config{
		Interval:   defaultInterval,
		Foreground: defaultForeground,
		Background: defaultBackground,
		Border:     defaultBorder,
		Width:      defaultWidth,
		Source:     cpustat.SourceProcfs,
		StatPath:   cpustat.DefaultStatPath,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	switch {
	case c.Interval < minInterval:
		// A bare number decodes as nanoseconds; "1500" would spin the sampler.
		return errFactory.WithData(ErrInvalidConfig, "interval must be at least "+minInterval.String()+", got "+c.Interval.String())
	case c.Border < 0:
		return errFactory.WithData(ErrInvalidConfig, "border must not be negative")
	case c.Width < 0:
		return errFactory.WithData(ErrInvalidConfig, "width must not be negative")
	}

	return nil
}

// LoadConfig overlays the plugin's settings on the defaults.
func LoadConfig(settings plugin.Settings) (Config, error) {
	cfg := DefaultConfig()
	if settings != nil {
		if err := settings.Unmarshal(&cfg); err != nil {
			return Config{}, errors.New().Wrap(ErrInvalidConfig, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
