// Package tray provides the system tray icon for the daemon.
package tray

import (
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
)

const (
	tooltip       = "notepin"
	quitItemTitle = "Quit"
)

// Controller owns the tray icon and its menu. systray.Run blocks, so
// the controller runs it on a dedicated goroutine and funnels menu
// clicks back through the quit handler.
type Controller struct {
	logger *slog.Logger
	icon   []byte

	onQuit func()

	mu      sync.Mutex
	running bool
	quitCh  chan struct{}

	stopOnce sync.Once
	quitOnce sync.Once
}

// NewController creates a tray controller showing the given PNG icon.
func NewController(icon []byte, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		logger: logger,
		icon:   icon,
	}
}

// SetQuitHandler sets the callback invoked when Quit is selected.
// The callback fires at most once.
func (c *Controller) SetQuitHandler(handler func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onQuit = handler
}

// Start shows the tray icon. The systray loop runs on its own
// goroutine until Stop.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}
	c.running = true
	c.quitCh = make(chan struct{})

	go systray.Run(c.onReady, c.onExit)

	c.logger.Info("tray icon started")
	return nil
}

// Stop removes the tray icon. Safe to call repeatedly and without a
// prior Start.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if !c.running {
			return
		}
		c.running = false

		close(c.quitCh)
		systray.Quit()

		c.logger.Info("tray icon stopped")
	})
}

// onReady configures the icon and menu once systray is up.
func (c *Controller) onReady() {
	if len(c.icon) > 0 {
		systray.SetIcon(c.icon)
	}
	systray.SetTooltip(tooltip)

	quitItem := systray.AddMenuItem(quitItemTitle, "Quit notepin and close all notes")

	go func() {
		for {
			select {
			case <-c.quitCh:
				return
			case <-quitItem.ClickedCh:
				c.dispatchQuit()
			}
		}
	}()
}

// onExit runs when the systray loop terminates.
func (c *Controller) onExit() {
	c.logger.Debug("tray loop exited")
}

// dispatchQuit invokes the quit handler exactly once.
func (c *Controller) dispatchQuit() {
	c.quitOnce.Do(func() {
		c.mu.Lock()
		handler := c.onQuit
		c.mu.Unlock()

		c.logger.Debug("tray quit selected")
		if handler != nil {
			handler()
		}
	})
}
