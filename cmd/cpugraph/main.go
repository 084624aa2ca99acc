package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/cpugraph/internal/applet"
	"codeberg.org/mutker/cpugraph/internal/config"
	"codeberg.org/mutker/cpugraph/internal/errors"
	"codeberg.org/mutker/cpugraph/internal/logger"
	"codeberg.org/mutker/cpugraph/internal/pid"
	"codeberg.org/mutker/cpugraph/internal/termhost"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	logger.Debug().Str("config", cfg.ConfigFile).Msg("Config loaded")

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)

		var appErr errors.Error
		if !errors.As(err, &appErr) {
			appErr = errors.New().Wrap(errors.ErrMainLoop, err)
		}
		logger.FatalWithCode(appErr).Msg("cpugraph failed")
	}
}

// initLogger sends logs to the configured file. Without one they are
// discarded, since the terminal belongs to the graph.
func initLogger(cfg *config.Config) (func(), error) {
	if cfg.LogFile == "" {
		logger.Init(cfg.Level(), true, io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrOpenLogFile, err)
	}
	// Files never get color codes.
	logger.Init(cfg.Level(), true, f)

	return func() { _ = f.Close() }, nil
}

// checkTerminal refuses to start the graph without an interactive terminal.
func checkTerminal() error {
	if logger.IsService() {
		return errors.New().New(errors.ErrUnavailable)
	}

	return nil
}

func run(cfg *config.Config) error {
	errFactory := errors.New()

	if err := checkTerminal(); err != nil {
		return err
	}

	if err := pid.Write(cfg.PIDDir); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(cfg.PIDDir); err != nil {
			logger.ErrorWithCode(errFactory.Wrap(errors.ErrShutdownFailed, err)).Msg("Failed to remove PID file")
		}
	}()

	if err := applet.Register(); err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	host := termhost.New(ctx, termhost.Options{
		Width:  cfg.Panel.Width,
		Height: cfg.Panel.Height,
		Status: cfg.Panel.Status,
	})
	if err := host.Load(applet.Type, cfg.PluginSettings(applet.Type)); err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	logger.Info().Msg("CPU graph running")
	if err := host.Run(); err != nil {
		return errFactory.Wrap(errors.ErrMainLoop, err)
	}
	logger.Info().Msg("Exiting...")

	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
