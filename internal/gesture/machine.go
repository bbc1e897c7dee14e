// Package gesture implements the pointer gesture state machine for
// floating notes: drag, resize, triple-click-to-edit, and
// right-click-to-delete, independent of any GUI toolkit. The toolkit
// adapter translates raw pointer/keyboard events into the inputs
// below and applies the returned actions.
package gesture

import "time"

// Gesture thresholds shared with the original interaction design.
const (
	// DefaultMultiClickWindow is the maximum gap between presses for
	// them to count as one consecutive-click sequence.
	DefaultMultiClickWindow = 500 * time.Millisecond
	// DefaultDragThreshold is the displacement (px, per axis) the
	// pointer must exceed before a press-move becomes a drag/resize.
	DefaultDragThreshold = 5
	// DefaultEditClickCount is the number of consecutive presses that
	// toggles edit mode.
	DefaultEditClickCount = 3
	// MinWidth and MinHeight bound resizing.
	MinWidth  = 200
	MinHeight = 100
)

// State identifies the machine state.
type State int

const (
	// StateIdle is the initial state; presses arm drags/resizes.
	StateIdle State = iota
	// StateDragging means the primary button is moving the note.
	StateDragging
	// StateResizing means the secondary button is resizing the note.
	StateResizing
	// StateEditing means the note text is mutable.
	StateEditing
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// ActionKind identifies what the adapter must do after an input.
type ActionKind int

const (
	// ActionNone means no side effect is required.
	ActionNone ActionKind = iota
	// ActionMove repositions the note by (DX, DY) and re-asserts the
	// topmost attribute.
	ActionMove
	// ActionResize resizes the note to (Width, Height), applies
	// FontSize, and re-asserts the topmost attribute.
	ActionResize
	// ActionEnterEdit makes the note text mutable with all text
	// pre-selected.
	ActionEnterEdit
	// ActionExitEdit locks the text again; Commit reports whether the
	// edited text is kept.
	ActionExitEdit
	// ActionConfirmDelete opens the delete confirmation anchored to
	// the note.
	ActionConfirmDelete
)

// String returns the string representation of ActionKind.
func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionMove:
		return "move"
	case ActionResize:
		return "resize"
	case ActionEnterEdit:
		return "enter-edit"
	case ActionExitEdit:
		return "exit-edit"
	case ActionConfirmDelete:
		return "confirm-delete"
	default:
		return "unknown"
	}
}

// Action describes the side effect the adapter applies after feeding
// an input to the machine. The zero value means "do nothing".
type Action struct {
	Kind ActionKind

	// Move deltas (ActionMove), relative to the note's current
	// position.
	DX, DY int

	// Target geometry and derived font size (ActionResize).
	Width, Height int
	FontSize      int

	// Whether edits are kept (ActionExitEdit).
	Commit bool
}

// Config holds the gesture timing and distance thresholds.
type Config struct {
	MultiClickWindow time.Duration
	DragThreshold    int
	EditClickCount   int
	MinWidth         int
	MinHeight        int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MultiClickWindow: DefaultMultiClickWindow,
		DragThreshold:    DefaultDragThreshold,
		EditClickCount:   DefaultEditClickCount,
		MinWidth:         MinWidth,
		MinHeight:        MinHeight,
	}
}

// Machine is the per-note gesture state machine. It is not safe for
// concurrent use; all inputs must arrive on the GUI loop.
type Machine struct {
	cfg Config

	state State

	// Multi-click tracking
	clickCount int
	lastPress  time.Time

	// Primary-button drag tracking. The anchor follows the pointer
	// once dragging starts so moves are emitted as incremental deltas.
	dragArmed    bool
	dragX, dragY int

	// Secondary-button resize tracking. The anchor stays at the press
	// point; resizes are computed from the starting size.
	resizeArmed      bool
	resizeX, resizeY int
	startWidth       int
	startHeight      int
}

// NewMachine creates a gesture machine with the given thresholds.
// Zero-valued config fields fall back to the defaults.
func NewMachine(cfg Config) *Machine {
	def := DefaultConfig()
	if cfg.MultiClickWindow <= 0 {
		cfg.MultiClickWindow = def.MultiClickWindow
	}
	if cfg.DragThreshold <= 0 {
		cfg.DragThreshold = def.DragThreshold
	}
	if cfg.EditClickCount <= 0 {
		cfg.EditClickCount = def.EditClickCount
	}
	if cfg.MinWidth <= 0 {
		cfg.MinWidth = def.MinWidth
	}
	if cfg.MinHeight <= 0 {
		cfg.MinHeight = def.MinHeight
	}
	return &Machine{cfg: cfg}
}

// State returns the current machine state.
func (m *Machine) State() State {
	return m.state
}

// ClickCount returns the current consecutive-press count.
func (m *Machine) ClickCount() int {
	return m.clickCount
}

// PrimaryPress feeds a primary-button press at screen position (x, y).
// now is the event timestamp used for multi-click timing.
func (m *Machine) PrimaryPress(x, y int, now time.Time) Action {
	if m.state != StateIdle {
		return Action{}
	}

	if !m.lastPress.IsZero() && now.Sub(m.lastPress) < m.cfg.MultiClickWindow {
		m.clickCount++
	} else {
		m.clickCount = 1
	}
	m.lastPress = now

	if m.clickCount >= m.cfg.EditClickCount {
		m.clickCount = 0
		m.dragArmed = false
		m.state = StateEditing
		return Action{Kind: ActionEnterEdit}
	}

	m.dragArmed = true
	m.dragX, m.dragY = x, y
	return Action{}
}

// PrimaryMove feeds pointer motion while the primary button is held.
// Motion within the threshold of the press point is ignored; past it
// the note starts dragging and each event yields a move delta.
func (m *Machine) PrimaryMove(x, y int) Action {
	if !m.dragArmed {
		return Action{}
	}

	dx, dy := x-m.dragX, y-m.dragY

	switch m.state {
	case StateIdle:
		if abs(dx) <= m.cfg.DragThreshold && abs(dy) <= m.cfg.DragThreshold {
			return Action{}
		}
		// A drag cancels any pending multi-click sequence.
		m.clickCount = 0
		m.state = StateDragging
	case StateDragging:
	default:
		return Action{}
	}

	m.dragX, m.dragY = x, y
	return Action{Kind: ActionMove, DX: dx, DY: dy}
}

// PrimaryRelease feeds a primary-button release.
func (m *Machine) PrimaryRelease() Action {
	m.dragArmed = false
	if m.state == StateDragging {
		m.state = StateIdle
	}
	return Action{}
}

// SecondaryPress feeds a secondary-button press at screen position
// (x, y). width and height are the note's current size; resizes are
// computed against them.
func (m *Machine) SecondaryPress(x, y, width, height int) Action {
	if m.state != StateIdle {
		return Action{}
	}

	m.resizeArmed = true
	m.resizeX, m.resizeY = x, y
	m.startWidth, m.startHeight = width, height
	return Action{}
}

// SecondaryMove feeds pointer motion while the secondary button is
// held. Past the threshold the note resizes; the new size is clamped
// to the configured minimums and the font size recomputed.
func (m *Machine) SecondaryMove(x, y int) Action {
	if !m.resizeArmed {
		return Action{}
	}

	dx, dy := x-m.resizeX, y-m.resizeY

	switch m.state {
	case StateIdle:
		if abs(dx) <= m.cfg.DragThreshold && abs(dy) <= m.cfg.DragThreshold {
			return Action{}
		}
		m.state = StateResizing
	case StateResizing:
	default:
		return Action{}
	}

	width := m.startWidth + dx
	if width < m.cfg.MinWidth {
		width = m.cfg.MinWidth
	}
	height := m.startHeight + dy
	if height < m.cfg.MinHeight {
		height = m.cfg.MinHeight
	}

	return Action{
		Kind:     ActionResize,
		Width:    width,
		Height:   height,
		FontSize: FontSize(width, height),
	}
}

// SecondaryRelease feeds a secondary-button release. A press-release
// that never crossed the threshold counts as a plain right-click and
// opens the delete confirmation.
func (m *Machine) SecondaryRelease() Action {
	if !m.resizeArmed {
		return Action{}
	}
	m.resizeArmed = false

	if m.state == StateResizing {
		m.state = StateIdle
		return Action{}
	}
	if m.state != StateIdle {
		return Action{}
	}
	return Action{Kind: ActionConfirmDelete}
}

// AcceptEdit feeds the acceptance key while editing. The edited text
// is committed and the note locked again.
func (m *Machine) AcceptEdit() Action {
	return m.exitEdit()
}

// CancelEdit feeds the cancellation key while editing. The original
// interaction commits on this path too (text is re-locked, never
// rolled back), so the result matches AcceptEdit; the separate input
// keeps the intent visible at the call site.
func (m *Machine) CancelEdit() Action {
	return m.exitEdit()
}

func (m *Machine) exitEdit() Action {
	if m.state != StateEditing {
		return Action{}
	}
	m.state = StateIdle
	return Action{Kind: ActionExitEdit, Commit: true}
}

// Reset returns the machine to its initial state, dropping any armed
// anchors and the click sequence.
func (m *Machine) Reset() {
	m.state = StateIdle
	m.clickCount = 0
	m.lastPress = time.Time{}
	m.dragArmed = false
	m.resizeArmed = false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
