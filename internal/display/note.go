package display

import (
	"log/slog"
	"strings"
	"time"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/diamondburned/gotk4/pkg/pango"

	"github.com/jmylchreest/notepin/internal/gesture"
	"github.com/jmylchreest/notepin/internal/model"
)

// NoteWindow is a single floating note: a frameless, topmost,
// translucent layer-shell window that can be dragged, resized, edited
// in place, and deleted through pointer gestures. Raw events feed the
// gesture machine; the window applies the actions it emits.
type NoteWindow struct {
	window  *gtk.Window
	machine *gesture.Machine
	logger  *slog.Logger

	// Widgets
	box     *gtk.Box
	stack   *gtk.Stack
	label   *gtk.Label
	entry   *gtk.Entry
	confirm *ConfirmPopover

	// Callbacks
	onGeometry func(id string, x, y, width, height, fontSize int)
	onText     func(id, text string)
	onEditing  func(id string, editing bool)
	onDelete   func(id string)

	// State. Position is the layer-shell margin from the top-left
	// corner; pointer events are widget-local and are translated to
	// screen coordinates against it.
	id         string
	x, y       int
	width      int
	height     int
	fontSize   int
	fontFamily string
	closed     bool
}

// NewNoteWindow creates a window for the note. The window is built
// hidden; call Show to place and present it.
func NewNoteWindow(app *gtk.Application, note *model.Note, fontFamily string, logger *slog.Logger) *NoteWindow {
	if logger == nil {
		logger = slog.Default()
	}

	w := &NoteWindow{
		machine:    gesture.NewMachine(gesture.DefaultConfig()),
		logger:     logger,
		id:         note.ID,
		x:          note.X,
		y:          note.Y,
		width:      note.Width,
		height:     note.Height,
		fontSize:   note.FontSize,
		fontFamily: fontFamily,
	}

	// Create the window
	w.window = gtk.NewWindow()
	w.window.SetApplication(app)
	w.window.SetDecorated(false)
	w.window.SetResizable(false)
	w.window.SetDefaultSize(w.width, w.height)
	w.window.SetSizeRequest(gesture.MinWidth, gesture.MinHeight)
	w.window.SetOpacity(note.Opacity)

	// Initialize layer-shell
	layershell.InitForWindow(w.window)
	layershell.SetLayer(w.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(w.window, 0) // Don't reserve space
	layershell.SetKeyboardMode(w.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(w.window, "notepin-note")

	// Anchor top-left; the margins are the note position.
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeTop, true)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeLeft, true)
	layershell.SetMargin(w.window, layershell.LayerShellEdgeTop, w.y)
	layershell.SetMargin(w.window, layershell.LayerShellEdgeLeft, w.x)

	w.buildUI(note.Text)
	w.applyFont()
	w.connectGestures()

	return w
}

// buildUI constructs the widget hierarchy: a box holding a stack that
// swaps between the read-only label and the edit entry.
func (w *NoteWindow) buildUI(text string) {
	w.box = gtk.NewBox(gtk.OrientationVertical, 0)
	w.box.AddCSSClass("notepin-note")
	w.box.SetMarginTop(8)
	w.box.SetMarginBottom(8)
	w.box.SetMarginStart(12)
	w.box.SetMarginEnd(12)

	w.label = gtk.NewLabel(text)
	w.label.AddCSSClass("notepin-note-label")
	w.label.SetXAlign(0)
	w.label.SetYAlign(0)
	w.label.SetWrap(true)
	w.label.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	w.label.SetHExpand(true)
	w.label.SetVExpand(true)

	w.entry = gtk.NewEntry()
	w.entry.AddCSSClass("notepin-note-entry")
	w.entry.SetText(text)

	w.stack = gtk.NewStack()
	w.stack.AddNamed(w.label, "label")
	w.stack.AddNamed(w.entry, "entry")
	w.stack.SetVisibleChildName("label")
	w.stack.SetHExpand(true)
	w.stack.SetVExpand(true)

	w.box.Append(w.stack)
	w.window.SetChild(w.box)

	w.confirm = NewConfirmPopover(w.box, func() {
		if w.onDelete != nil {
			w.onDelete(w.id)
		}
	})
}

// connectGestures wires the pointer and keyboard controllers to the
// gesture machine.
func (w *NoteWindow) connectGestures() {
	primary := gtk.NewGestureClick()
	primary.SetButton(1) // Left
	primary.ConnectPressed(func(nPress int, x, y float64) {
		w.apply(w.machine.PrimaryPress(w.x+int(x), w.y+int(y), time.Now()))
	})
	primary.ConnectReleased(func(nPress int, x, y float64) {
		w.apply(w.machine.PrimaryRelease())
	})
	w.window.AddController(primary)

	secondary := gtk.NewGestureClick()
	secondary.SetButton(3) // Right
	secondary.ConnectPressed(func(nPress int, x, y float64) {
		w.apply(w.machine.SecondaryPress(w.x+int(x), w.y+int(y), w.width, w.height))
	})
	secondary.ConnectReleased(func(nPress int, x, y float64) {
		w.apply(w.machine.SecondaryRelease())
	})
	w.window.AddController(secondary)

	// The machine ignores motion unless a press armed it, so every
	// event can feed both tracks.
	motion := gtk.NewEventControllerMotion()
	motion.ConnectMotion(func(x, y float64) {
		w.apply(w.machine.PrimaryMove(w.x+int(x), w.y+int(y)))
		w.apply(w.machine.SecondaryMove(w.x+int(x), w.y+int(y)))
	})
	w.window.AddController(motion)

	keyCtrl := gtk.NewEventControllerKey()
	keyCtrl.ConnectKeyPressed(func(keyval, keycode uint, state gdk.ModifierType) bool {
		switch keyval {
		case gdk.KEY_Return, gdk.KEY_KP_Enter:
			w.apply(w.machine.AcceptEdit())
			return true
		case gdk.KEY_Escape:
			w.apply(w.machine.CancelEdit())
			return true
		}
		return false
	})
	w.entry.AddController(keyCtrl)
}

// apply performs the side effect of a gesture action.
func (w *NoteWindow) apply(a gesture.Action) {
	switch a.Kind {
	case gesture.ActionNone:

	case gesture.ActionMove:
		w.x += a.DX
		w.y += a.DY
		layershell.SetMargin(w.window, layershell.LayerShellEdgeLeft, w.x)
		layershell.SetMargin(w.window, layershell.LayerShellEdgeTop, w.y)
		w.assertTopmost()
		w.reportGeometry()

	case gesture.ActionResize:
		w.width = a.Width
		w.height = a.Height
		w.fontSize = a.FontSize
		w.window.SetDefaultSize(w.width, w.height)
		w.applyFont()
		w.assertTopmost()
		w.reportGeometry()

	case gesture.ActionEnterEdit:
		w.enterEdit()

	case gesture.ActionExitEdit:
		w.exitEdit(a.Commit)

	case gesture.ActionConfirmDelete:
		w.confirm.Show()
	}
}

// enterEdit swaps the label for the entry with all text pre-selected.
func (w *NoteWindow) enterEdit() {
	w.entry.SetText(w.label.Text())
	w.stack.SetVisibleChildName("entry")
	layershell.SetKeyboardMode(w.window, layershell.LayerShellKeyboardModeOnDemand)
	w.entry.GrabFocus()
	w.entry.SelectRegion(0, -1)

	if w.onEditing != nil {
		w.onEditing(w.id, true)
	}
}

// exitEdit locks the text again. The entry content is committed on
// both the accept and cancel paths; emptied text restores the previous
// content instead.
func (w *NoteWindow) exitEdit(commit bool) {
	text := strings.TrimSpace(w.entry.Text())
	if commit && text != "" {
		w.label.SetText(text)
		if w.onText != nil {
			w.onText(w.id, text)
		}
	} else {
		w.entry.SetText(w.label.Text())
	}

	w.stack.SetVisibleChildName("label")
	layershell.SetKeyboardMode(w.window, layershell.LayerShellKeyboardModeNone)

	if w.onEditing != nil {
		w.onEditing(w.id, false)
	}
}

// assertTopmost re-asserts the stacking layer. Compositors can drop
// the hint during programmatic geometry changes.
func (w *NoteWindow) assertTopmost() {
	layershell.SetLayer(w.window, layershell.LayerShellLayerTop)
}

func (w *NoteWindow) reportGeometry() {
	if w.onGeometry != nil {
		w.onGeometry(w.id, w.x, w.y, w.width, w.height, w.fontSize)
	}
}

// applyFont sets the font family and size on the label and entry.
func (w *NoteWindow) applyFont() {
	attrs := pango.NewAttrList()
	if w.fontFamily != "" {
		attrs.Insert(pango.NewAttrFamily(w.fontFamily))
	}
	if w.fontSize > 0 {
		attrs.Insert(pango.NewAttrSizeAbsolute(w.fontSize * pango.SCALE))
	}
	w.label.SetAttributes(attrs)
	w.entry.SetAttributes(attrs)
}

// Show places and presents the window.
func (w *NoteWindow) Show() {
	w.window.Present()
}

// SetText replaces the displayed text.
func (w *NoteWindow) SetText(text string) {
	w.label.SetText(text)
	w.entry.SetText(text)
}

// SetOpacity sets the window opacity.
func (w *NoteWindow) SetOpacity(opacity float64) {
	w.window.SetOpacity(opacity)
}

// SetFontFamily changes the font family, keeping the per-note size.
func (w *NoteWindow) SetFontFamily(family string) {
	w.fontFamily = family
	w.applyFont()
}

// OnGeometry sets the callback for position and size changes.
func (w *NoteWindow) OnGeometry(cb func(id string, x, y, width, height, fontSize int)) {
	w.onGeometry = cb
}

// OnText sets the callback for committed text edits.
func (w *NoteWindow) OnText(cb func(id, text string)) {
	w.onText = cb
}

// OnEditing sets the callback for edit mode changes.
func (w *NoteWindow) OnEditing(cb func(id string, editing bool)) {
	w.onEditing = cb
}

// OnDelete sets the callback for a confirmed delete.
func (w *NoteWindow) OnDelete(cb func(id string)) {
	w.onDelete = cb
}

// Destroy tears the window down. Safe to call more than once.
func (w *NoteWindow) Destroy() {
	if w.closed {
		return
	}
	w.closed = true
	w.confirm.Destroy()
	w.window.Destroy()
}
