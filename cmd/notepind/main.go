// Package main is the entry point for the notepind note daemon.
package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/notepin/internal/audio"
	"github.com/jmylchreest/notepin/internal/config"
	"github.com/jmylchreest/notepin/internal/daemon"
	"github.com/jmylchreest/notepin/internal/dbus"
	"github.com/jmylchreest/notepin/internal/display"
	"github.com/jmylchreest/notepin/internal/hotkey"
	"github.com/jmylchreest/notepin/internal/theme"
	"github.com/jmylchreest/notepin/internal/tray"
)

const (
	appID   = "io.github.jmylchreest.notepind"
	appName = "notepind"
)

// initWarnThreshold flags a slow first activation.
const initWarnThreshold = 3 * time.Second

var (
	// Build-time variables
	version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to settings file (default: ~/.config/notepin/settings.json)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "text", "Log format (text, json)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println(appName, "version", version)
		os.Exit(0)
	}

	// Set up structured logging
	logger := newLogger(*logLevel, *logFormat)
	slog.SetDefault(logger)

	os.Exit(run(*configPath, logger))
}

// newLogger builds the stderr slog logger from the flag values.
func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// run builds the application and blocks until it exits. Returns the
// process exit code: 1 on startup failure, 2 when another daemon
// already owns the control bus name.
func run(configPath string, logger *slog.Logger) int {
	logger.Info("starting notepind", "version", version)

	// Load settings
	if configPath == "" {
		configPath = config.SettingsPath()
	}
	settings, err := config.LoadSettings(configPath)
	if err != nil {
		logger.Warn("failed to load settings, using defaults", "path", configPath, "error", err)
	}

	// Create the libadwaita application
	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		controller *daemon.Controller
		running    atomic.Bool
	)
	exitCode := 0

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		if running.Load() && controller != nil {
			controller.Quit()
			return
		}
		glib.IdleAdd(func() {
			app.Quit()
		})
	}()

	// Handle application activation
	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		started := time.Now()

		// Initialize the display manager
		manager := display.NewManager(&app.Application, settings, logger)

		// Initialize the theme loader; compiled CSS flows to the
		// display's provider on the GUI loop
		themes := theme.NewLoader(logger)
		themes.SetApplyHandler(func(css string) {
			glib.IdleAdd(func() {
				manager.ApplyCSS(css)
			})
		})

		// Initialize the remaining components
		listener := hotkey.NewListener(hotkey.NewPortalBackend(logger), logger)
		trayIcon := tray.NewController(tray.LoadIcon(config.IconPath(), logger), logger)
		server := dbus.NewControlServer(logger)
		sounds := audio.NewManager(settings.Sound, logger)

		controller = daemon.NewController(daemon.Deps{
			Settings:     settings,
			SettingsPath: configPath,
			Display:      manager,
			Invoker:      display.NewIdleInvoker(),
			Listener:     listener,
			Tray:         trayIcon,
			Server:       server,
			Audio:        sounds,
			Themes:       themes,
			Version:      version,
		}, logger)

		controller.SetShutdownHandler(func() {
			glib.IdleAdd(func() {
				app.Quit()
			})
		})

		if err := manager.Start(); err != nil {
			logger.Error("failed to start display manager", "error", err)
			exitCode = 1
			app.Quit()
			return
		}

		// Route display events to the controller
		manager.SetPromptHandler(controller.HandlePromptSubmit)
		manager.SetGeometryHandler(controller.HandleNoteGeometry)
		manager.SetTextHandler(controller.HandleNoteText)
		manager.SetEditingHandler(controller.HandleNoteEditing)
		manager.SetDeleteHandler(controller.HandleNoteDelete)

		if err := controller.Start(); err != nil {
			logger.Error("failed to start controller", "error", err)
			if errors.Is(err, dbus.ErrAlreadyRunning) {
				exitCode = 2
			} else {
				exitCode = 1
			}
			manager.Stop()
			app.Quit()
			return
		}

		running.Store(true)

		if elapsed := time.Since(started); elapsed > initWarnThreshold {
			logger.Warn("initialization was slow", "elapsed", elapsed)
		}
		logger.Info("notepind ready", "dbus_interface", dbus.InterfaceName, "hotkey", settings.Hotkey)

		// Create a hidden window to keep the application running
		// (GTK apps quit when all windows are closed)
		keepAliveWindow := gtk.NewWindow()
		keepAliveWindow.SetApplication(&app.Application)
		keepAliveWindow.SetDefaultSize(1, 1)
		keepAliveWindow.SetDecorated(false)
		keepAliveWindow.SetVisible(false)
	})

	// Handle shutdown
	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if running.Load() && controller != nil {
			controller.Quit()
		}
		running.Store(false)
	})

	// Run the application. Our flags were already consumed; GTK must
	// not see them.
	status := app.Run(os.Args[:1])

	if exitCode != 0 {
		return exitCode
	}
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info("notepind stopped")
	return 0
}
