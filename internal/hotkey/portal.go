package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalBusName    = "org.freedesktop.portal.Desktop"
	portalObjectPath = dbus.ObjectPath("/org/freedesktop/portal/desktop")

	globalShortcutsInterface = "org.freedesktop.portal.GlobalShortcuts"
	requestInterface         = "org.freedesktop.portal.Request"
	sessionInterface         = "org.freedesktop.portal.Session"

	activatedSignal = globalShortcutsInterface + ".Activated"

	// ShortcutID identifies the single shortcut bound by the daemon.
	ShortcutID = "show-prompt"

	shortcutDescription = "Show the notepin input prompt"

	// Binding may open a confirmation dialog on some desktops, so the
	// request wait is generous.
	portalRequestTimeout = 60 * time.Second
)

// PortalBackend binds the hotkey through the desktop portal's
// GlobalShortcuts interface. The portal works on Wayland where direct
// key grabs are unavailable to clients.
type PortalBackend struct {
	logger *slog.Logger

	mu        sync.Mutex
	conn      *dbus.Conn
	session   dbus.ObjectPath
	signals   chan *dbus.Signal
	activated chan struct{}
	stopCh    chan struct{}
}

// NewPortalBackend creates a portal-based hotkey backend.
func NewPortalBackend(logger *slog.Logger) *PortalBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortalBackend{logger: logger}
}

// Register creates a portal session, binds the combination, and starts
// forwarding Activated signals.
func (b *PortalBackend) Register(combo Combination) (<-chan struct{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		return nil, fmt.Errorf("portal backend already registered")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	b.conn = conn

	session, err := b.createSession(conn)
	if err != nil {
		b.conn = nil
		return nil, err
	}
	b.session = session

	if err := b.bindShortcut(conn, session, combo); err != nil {
		b.closeSession(conn, session)
		b.conn = nil
		b.session = ""
		return nil, err
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(globalShortcutsInterface),
		dbus.WithMatchMember("Activated"),
	); err != nil {
		b.closeSession(conn, session)
		b.conn = nil
		b.session = ""
		return nil, fmt.Errorf("failed to add match rule: %w", err)
	}

	b.signals = make(chan *dbus.Signal, 16)
	conn.Signal(b.signals)
	b.activated = make(chan struct{}, 1)
	b.stopCh = make(chan struct{})

	go b.processSignals(b.signals, b.activated, b.stopCh, session)

	b.logger.Info("bound global shortcut through portal",
		"trigger", combo.PortalTrigger(),
		"session", string(session))
	return b.activated, nil
}

// Unregister closes the portal session and stops signal forwarding.
// The backend can register again afterwards.
func (b *PortalBackend) Unregister() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil
	}

	if b.stopCh != nil {
		close(b.stopCh)
		b.stopCh = nil
	}
	if b.signals != nil {
		b.conn.RemoveSignal(b.signals)
		b.signals = nil
	}

	if err := b.conn.RemoveMatchSignal(
		dbus.WithMatchInterface(globalShortcutsInterface),
		dbus.WithMatchMember("Activated"),
	); err != nil {
		b.logger.Warn("failed to remove match rule", "error", err)
	}

	if b.session != "" {
		b.closeSession(b.conn, b.session)
		b.session = ""
	}

	// The session bus is shared; leave the connection open.
	b.conn = nil
	b.activated = nil
	return nil
}

// createSession opens a GlobalShortcuts session and returns its handle.
func (b *PortalBackend) createSession(conn *dbus.Conn) (dbus.ObjectPath, error) {
	results, err := b.portalRequest(conn, "CreateSession", map[string]dbus.Variant{
		"session_handle_token": dbus.MakeVariant(handleToken()),
	})
	if err != nil {
		return "", err
	}

	raw, ok := results["session_handle"]
	if !ok {
		return "", errors.New("portal response missing session_handle")
	}

	switch v := raw.Value().(type) {
	case string:
		return dbus.ObjectPath(v), nil
	case dbus.ObjectPath:
		return v, nil
	default:
		return "", fmt.Errorf("unexpected session_handle type %T", raw.Value())
	}
}

// bindShortcut registers the combination within the session.
func (b *PortalBackend) bindShortcut(conn *dbus.Conn, session dbus.ObjectPath, combo Combination) error {
	// Marshals as a(sa{sv}).
	type shortcut struct {
		ID      string
		Options map[string]dbus.Variant
	}

	shortcuts := []shortcut{{
		ID: ShortcutID,
		Options: map[string]dbus.Variant{
			"description":       dbus.MakeVariant(shortcutDescription),
			"preferred_trigger": dbus.MakeVariant(combo.PortalTrigger()),
		},
	}}

	_, err := b.portalRequest(conn, "BindShortcuts", map[string]dbus.Variant{},
		session, shortcuts, "")
	if err != nil {
		return fmt.Errorf("failed to bind shortcut: %w", err)
	}
	return nil
}

// portalRequest calls a GlobalShortcuts method and waits for the
// matching Response signal. Portal methods return a request object
// path immediately; the result arrives as a signal on that path.
func (b *PortalBackend) portalRequest(conn *dbus.Conn, method string, options map[string]dbus.Variant, args ...interface{}) (map[string]dbus.Variant, error) {
	token := handleToken()
	options["handle_token"] = dbus.MakeVariant(token)

	expected := requestPath(conn, token)

	matchOpts := []dbus.MatchOption{
		dbus.WithMatchInterface(requestInterface),
		dbus.WithMatchMember("Response"),
		dbus.WithMatchObjectPath(expected),
	}
	if err := conn.AddMatchSignal(matchOpts...); err != nil {
		return nil, fmt.Errorf("failed to add match rule: %w", err)
	}
	defer func() { _ = conn.RemoveMatchSignal(matchOpts...) }()

	responses := make(chan *dbus.Signal, 4)
	conn.Signal(responses)
	defer conn.RemoveSignal(responses)

	callArgs := append(args, options)
	call := conn.Object(portalBusName, portalObjectPath).Call(
		globalShortcutsInterface+"."+method, 0, callArgs...)
	if call.Err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, call.Err)
	}

	// Older portals may return a request path that differs from the
	// token-derived one; accept signals from either.
	actual := expected
	if len(call.Body) > 0 {
		if p, ok := call.Body[0].(dbus.ObjectPath); ok && p != expected {
			actual = p
			if err := conn.AddMatchSignal(
				dbus.WithMatchInterface(requestInterface),
				dbus.WithMatchMember("Response"),
				dbus.WithMatchObjectPath(actual),
			); err == nil {
				defer func() {
					_ = conn.RemoveMatchSignal(
						dbus.WithMatchInterface(requestInterface),
						dbus.WithMatchMember("Response"),
						dbus.WithMatchObjectPath(actual),
					)
				}()
			}
		}
	}

	timeout := time.After(portalRequestTimeout)
	for {
		select {
		case sig, ok := <-responses:
			if !ok {
				return nil, fmt.Errorf("%s: signal channel closed", method)
			}
			if sig.Name != requestInterface+".Response" {
				continue
			}
			if sig.Path != expected && sig.Path != actual {
				continue
			}
			return parseResponse(method, sig)
		case <-timeout:
			return nil, fmt.Errorf("%s: timed out waiting for portal response", method)
		}
	}
}

// parseResponse unpacks a Request.Response signal body (u, a{sv}).
func parseResponse(method string, sig *dbus.Signal) (map[string]dbus.Variant, error) {
	if len(sig.Body) < 2 {
		return nil, fmt.Errorf("%s: malformed portal response", method)
	}

	code, ok := sig.Body[0].(uint32)
	if !ok {
		return nil, fmt.Errorf("%s: malformed portal response code", method)
	}
	if code != 0 {
		// 1 = cancelled by the user, 2 = other error
		return nil, fmt.Errorf("%s: portal request failed with code %d", method, code)
	}

	results, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, fmt.Errorf("%s: malformed portal response results", method)
	}
	return results, nil
}

// processSignals forwards Activated signals for our session and
// shortcut. Bursts collapse into a single pending activation.
func (b *PortalBackend) processSignals(signals chan *dbus.Signal, activated chan struct{}, stopCh chan struct{}, session dbus.ObjectPath) {
	for {
		select {
		case <-stopCh:
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			if sig.Name != activatedSignal || len(sig.Body) < 2 {
				continue
			}
			if path, ok := sig.Body[0].(dbus.ObjectPath); !ok || path != session {
				continue
			}
			if id, ok := sig.Body[1].(string); !ok || id != ShortcutID {
				continue
			}

			b.logger.Debug("portal shortcut activated", "shortcut", ShortcutID)
			select {
			case activated <- struct{}{}:
			default:
			}
		}
	}
}

// closeSession closes a portal session, releasing the binding.
func (b *PortalBackend) closeSession(conn *dbus.Conn, session dbus.ObjectPath) {
	call := conn.Object(portalBusName, session).Call(sessionInterface+".Close", 0)
	if call.Err != nil {
		b.logger.Warn("failed to close portal session", "error", call.Err)
	}
}

// handleToken generates a token for portal request and session handles.
func handleToken() string {
	return fmt.Sprintf("notepin_%d", time.Now().UnixNano())
}

// requestPath derives the request object path the portal will use for
// a given token: the sender's unique name with ':' stripped and '.'
// replaced by '_'.
func requestPath(conn *dbus.Conn, token string) dbus.ObjectPath {
	sender := strings.TrimPrefix(conn.Names()[0], ":")
	sender = strings.ReplaceAll(sender, ".", "_")
	return dbus.ObjectPath("/org/freedesktop/portal/desktop/request/" + sender + "/" + token)
}
