// Package hotkey binds the global activation shortcut and reports
// presses to the daemon.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// FallbackCombination is registered when the configured combination
// cannot be parsed or bound.
const FallbackCombination = "ctrl+shift+t"

var (
	// ErrEmptyCombination indicates an empty hotkey string.
	ErrEmptyCombination = errors.New("empty hotkey combination")
	// ErrNoKey indicates a combination consisting only of modifiers.
	ErrNoKey = errors.New("hotkey combination has no key")
	// ErrMultipleKeys indicates more than one non-modifier key.
	ErrMultipleKeys = errors.New("hotkey combination has multiple keys")
	// ErrRegistrationFailed indicates the backend refused the combination.
	ErrRegistrationFailed = errors.New("hotkey registration failed")
)

// modifierOrder fixes the canonical modifier ordering in String().
var modifierOrder = map[string]int{
	"ctrl":  0,
	"shift": 1,
	"alt":   2,
	"super": 3,
}

// modifierAliases maps accepted spellings to canonical modifier names.
var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"shift":   "shift",
	"alt":     "alt",
	"opt":     "alt",
	"option":  "alt",
	"super":   "super",
	"win":     "super",
	"cmd":     "super",
	"meta":    "super",
	"mod4":    "super",
}

// Combination is a parsed hotkey: zero or more modifiers plus one key.
type Combination struct {
	Modifiers []string
	Key       string
}

// ParseCombination parses a combination like "ctrl+shift+t". Case,
// whitespace, and modifier order are not significant.
func ParseCombination(s string) (Combination, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Combination{}, ErrEmptyCombination
	}

	var combo Combination
	seen := make(map[string]bool)

	for _, part := range strings.Split(s, "+") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if canonical, ok := modifierAliases[part]; ok {
			if !seen[canonical] {
				seen[canonical] = true
				combo.Modifiers = append(combo.Modifiers, canonical)
			}
			continue
		}
		if combo.Key != "" {
			return Combination{}, fmt.Errorf("%w: %q and %q", ErrMultipleKeys, combo.Key, part)
		}
		combo.Key = part
	}

	if combo.Key == "" {
		if len(combo.Modifiers) == 0 {
			return Combination{}, ErrEmptyCombination
		}
		return Combination{}, ErrNoKey
	}

	sort.Slice(combo.Modifiers, func(i, j int) bool {
		return modifierOrder[combo.Modifiers[i]] < modifierOrder[combo.Modifiers[j]]
	})

	return combo, nil
}

// String returns the canonical lower-case form, e.g. "ctrl+shift+t".
func (c Combination) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	parts = append(parts, c.Modifiers...)
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// PortalTrigger returns the combination in the trigger syntax used by
// the GlobalShortcuts portal, e.g. "CTRL+SHIFT+t". The super modifier
// is spelled LOGO there.
func (c Combination) PortalTrigger() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, mod := range c.Modifiers {
		if mod == "super" {
			parts = append(parts, "LOGO")
			continue
		}
		parts = append(parts, strings.ToUpper(mod))
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// Backend binds a single combination with the desktop environment and
// delivers presses on the returned channel until Unregister.
type Backend interface {
	Register(combo Combination) (<-chan struct{}, error)
	Unregister() error
}

// Listener owns the hotkey registration lifecycle. When the configured
// combination cannot be parsed or bound it falls back to
// FallbackCombination exactly once.
type Listener struct {
	logger  *slog.Logger
	backend Backend

	onActivate func()
	pauseCheck func() bool

	mu      sync.Mutex
	running bool
	combo   Combination
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewListener creates a listener using the given backend.
func NewListener(backend Backend, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		logger:  logger,
		backend: backend,
	}
}

// SetActivateHandler sets the callback invoked on each hotkey press.
func (l *Listener) SetActivateHandler(handler func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onActivate = handler
}

// SetPauseCheck sets a predicate consulted before dispatching a press.
// When it reports true the press is swallowed.
func (l *Listener) SetPauseCheck(check func() bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pauseCheck = check
}

// Start parses and registers the combination. An unparseable
// combination is replaced by the fallback before registration; a
// combination the backend refuses is retried once with the fallback.
func (l *Listener) Start(combination string) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return fmt.Errorf("hotkey listener already running")
	}
	l.mu.Unlock()

	combo, err := ParseCombination(combination)
	if err != nil {
		l.logger.Warn("invalid hotkey combination, using fallback",
			"combination", combination,
			"fallback", FallbackCombination,
			"error", err)
		combo, _ = ParseCombination(FallbackCombination)
	}

	activated, err := l.backend.Register(combo)
	if err != nil {
		fallback, _ := ParseCombination(FallbackCombination)
		if combo.String() == fallback.String() {
			return fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
		}

		l.logger.Warn("hotkey registration failed, retrying with fallback",
			"combination", combo.String(),
			"fallback", fallback.String(),
			"error", err)

		activated, err = l.backend.Register(fallback)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
		}
		combo = fallback
	}

	l.mu.Lock()
	l.running = true
	l.combo = combo
	l.stopCh = make(chan struct{})
	l.doneCh = make(chan struct{})
	stopCh, doneCh := l.stopCh, l.doneCh
	l.mu.Unlock()

	go l.run(activated, stopCh, doneCh)

	l.logger.Info("global hotkey registered", "combination", combo.String())
	return nil
}

// run forwards presses until the listener stops.
func (l *Listener) run(activated <-chan struct{}, stopCh chan struct{}, doneCh chan struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		case _, ok := <-activated:
			if !ok {
				return
			}
			l.dispatch()
		}
	}
}

// dispatch invokes the activation handler unless paused.
func (l *Listener) dispatch() {
	l.mu.Lock()
	check := l.pauseCheck
	handler := l.onActivate
	l.mu.Unlock()

	if check != nil && check() {
		l.logger.Debug("hotkey press ignored while paused")
		return
	}

	l.logger.Debug("hotkey activated")
	if handler != nil {
		handler()
	}
}

// Stop unregisters the combination. Safe to call repeatedly and
// without a prior Start; the listener can be started again afterwards.
func (l *Listener) Stop() error {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return nil
	}
	l.running = false
	close(l.stopCh)
	doneCh := l.doneCh
	l.mu.Unlock()

	<-doneCh

	if err := l.backend.Unregister(); err != nil {
		l.logger.Warn("failed to unregister hotkey", "error", err)
	}

	l.logger.Info("global hotkey listener stopped")
	return nil
}

// Combination returns the combination currently registered. Useful for
// status reporting when the fallback replaced the configured value.
func (l *Listener) Combination() Combination {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.combo
}

// Running reports whether the listener is active.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}
