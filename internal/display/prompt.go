package display

import (
	"log/slog"
	"strings"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

const (
	promptWidth  = 450
	promptHeight = 180
)

// Prompt is the single-line note input window. One reusable instance
// lives for the daemon's lifetime: showing it again raises and
// focuses it, Enter submits non-empty trimmed text, Escape or closing
// the window cancels.
type Prompt struct {
	window *gtk.Window
	entry  *gtk.Entry
	logger *slog.Logger

	onSubmit func(text string)

	visible bool
}

// NewPrompt creates the prompt window, hidden.
func NewPrompt(app *gtk.Application, logger *slog.Logger) *Prompt {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Prompt{logger: logger}

	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.SetDefaultSize(promptWidth, promptHeight)
	p.window.SetTitle("New Note")

	// Layer-shell with no anchors centers the surface. The keyboard
	// grab is exclusive so the hotkey press flows straight into typing.
	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(p.window, 0)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeExclusive)
	layershell.SetNamespace(p.window, "notepin-prompt")

	box := gtk.NewBox(gtk.OrientationVertical, 12)
	box.AddCSSClass("notepin-prompt")
	box.SetMarginTop(24)
	box.SetMarginBottom(24)
	box.SetMarginStart(24)
	box.SetMarginEnd(24)

	title := gtk.NewLabel("New note")
	title.AddCSSClass("notepin-prompt-title")
	title.SetXAlign(0)
	box.Append(title)

	p.entry = gtk.NewEntry()
	p.entry.AddCSSClass("notepin-prompt-entry")
	p.entry.SetPlaceholderText("Type your note and press Enter")
	p.entry.SetHExpand(true)
	p.entry.ConnectActivate(p.submit)
	box.Append(p.entry)

	p.window.SetChild(box)

	keyCtrl := gtk.NewEventControllerKey()
	keyCtrl.ConnectKeyPressed(func(keyval, keycode uint, state gdk.ModifierType) bool {
		if keyval == gdk.KEY_Escape {
			p.Hide()
			return true
		}
		return false
	})
	p.window.AddController(keyCtrl)

	// Closing through the compositor cancels; the window is kept for
	// reuse.
	p.window.ConnectCloseRequest(func() bool {
		p.Hide()
		return true
	})

	return p
}

// SetSubmitHandler sets the callback receiving submitted text.
func (p *Prompt) SetSubmitHandler(handler func(text string)) {
	p.onSubmit = handler
}

// submit fires the handler with the trimmed entry text and hides the
// prompt. Empty input is ignored and the prompt stays open.
func (p *Prompt) submit() {
	text := strings.TrimSpace(p.entry.Text())
	if text == "" {
		return
	}

	p.Hide()
	if p.onSubmit != nil {
		p.onSubmit(text)
	}
}

// Show presents the prompt. A visible prompt is raised and refocused
// with its text kept; a hidden one comes up cleared.
func (p *Prompt) Show() {
	if !p.visible {
		p.entry.SetText("")
	}
	p.visible = true
	p.window.Present()
	p.entry.GrabFocus()
}

// Hide hides the prompt without destroying it.
func (p *Prompt) Hide() {
	p.visible = false
	p.window.SetVisible(false)
}

// Visible reports whether the prompt is currently shown.
func (p *Prompt) Visible() bool {
	return p.visible
}

// Destroy tears the prompt window down.
func (p *Prompt) Destroy() {
	p.window.Destroy()
}
