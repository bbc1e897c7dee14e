// Package tui provides the BubbleTea-based terminal user interface
// for managing the daemon's live notes.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/notepin/internal/dbus"
	"github.com/jmylchreest/notepin/internal/model"
)

// refreshInterval is how often the note list is re-fetched from the
// daemon. Signal-driven refreshes arrive on top of this.
const refreshInterval = 2 * time.Second

// NoteClient is the slice of the daemon control client the TUI needs.
type NoteClient interface {
	ListNotes() ([]model.Note, error)
	RemoveNote(id string) (bool, error)
	SetNoteText(id, text string) (bool, error)
}

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeEdit
	ModeHelp
)

// Model is the main TUI model.
type Model struct {
	client NoteClient

	// Current mode
	mode Mode

	// Components
	list      list.Model
	editInput textinput.Model

	// State
	notes   []model.Note
	editing string // ID of the note being edited
	width   int
	height  int
	ready   bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool
}

// noteItem wraps a note for the list component.
type noteItem struct {
	note model.Note
}

func (i noteItem) Title() string {
	title := i.note.TextTruncated(60)
	if i.note.Editing {
		title = "[editing] " + title
	}
	return title
}

func (i noteItem) Description() string {
	return fmt.Sprintf("%s - %dx%d at (%d,%d)",
		humanize.Time(i.note.CreatedTime()),
		i.note.Width, i.note.Height,
		i.note.X, i.note.Y)
}

func (i noteItem) FilterValue() string {
	return i.note.Text
}

// noteDelegate is a custom list delegate that dims notes currently
// being edited on the desktop.
type noteDelegate struct {
	list.DefaultDelegate
}

func newNoteDelegate() noteDelegate {
	return noteDelegate{DefaultDelegate: list.NewDefaultDelegate()}
}

// Render renders a list item, dimming notes in edit mode.
func (d noteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(noteItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	isSelected := index == m.Index()
	itemWidth := m.Width() - d.DefaultDelegate.Styles.NormalTitle.GetHorizontalPadding()

	var titleStyle, descStyle lipgloss.Style
	switch {
	case ni.note.Editing && isSelected:
		titleStyle = d.DefaultDelegate.Styles.SelectedTitle.Foreground(lipgloss.Color("8"))
		descStyle = d.DefaultDelegate.Styles.SelectedDesc.Foreground(lipgloss.Color("8"))
	case ni.note.Editing:
		titleStyle = d.DefaultDelegate.Styles.NormalTitle.Foreground(lipgloss.Color("8"))
		descStyle = d.DefaultDelegate.Styles.NormalDesc.Foreground(lipgloss.Color("8"))
	case isSelected:
		titleStyle = d.DefaultDelegate.Styles.SelectedTitle
		descStyle = d.DefaultDelegate.Styles.SelectedDesc
	default:
		titleStyle = d.DefaultDelegate.Styles.NormalTitle
		descStyle = d.DefaultDelegate.Styles.NormalDesc
	}

	title := ni.Title()
	if itemWidth > 0 && len(title) > itemWidth {
		title = title[:itemWidth-1] + "…"
	}
	desc := ni.Description()
	if itemWidth > 0 && len(desc) > itemWidth {
		desc = desc[:itemWidth-1] + "…"
	}

	fmt.Fprint(w, titleStyle.Render(title))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(desc))
}

// New creates a new TUI model over a daemon client.
func New(client NoteClient) Model {
	l := list.New(nil, newNoteDelegate(), 0, 0)
	l.Title = "Notes"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	editInput := textinput.New()
	editInput.Placeholder = "Note text"
	editInput.CharLimit = 500

	return Model{
		client:    client,
		mode:      ModeList,
		list:      l,
		editInput: editInput,
		keys:      DefaultKeyMap(),
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadNotes, m.tick())
}

// loadNotes fetches the live notes from the daemon.
func (m Model) loadNotes() tea.Msg {
	notes, err := m.client.ListNotes()
	return notesMsg{notes: notes, err: err}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

type notesMsg struct {
	notes []model.Note
	err   error
}

type tickMsg struct{}

// refreshMsg asks for an immediate reload. The note watcher sends it
// when the daemon signals a created or removed note.
type refreshMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type removeResultMsg struct {
	removed bool
	err     error
}

type editResultMsg struct {
	ok  bool
	err error
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case notesMsg:
		if msg.err != nil {
			return m, status("Daemon unreachable: "+msg.err.Error(), true)
		}
		m.notes = msg.notes
		m.list.SetItems(buildItems(msg.notes))
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.loadNotes, m.tick())

	case refreshMsg:
		return m, m.loadNotes

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case removeResultMsg:
		if msg.err != nil {
			return m, status("Delete failed: "+msg.err.Error(), true)
		}
		if !msg.removed {
			return m, tea.Batch(m.loadNotes, status("Note was already gone", false))
		}
		return m, tea.Batch(m.loadNotes, status("Note deleted", false))

	case editResultMsg:
		if msg.err != nil {
			return m, status("Edit failed: "+msg.err.Error(), true)
		}
		if !msg.ok {
			return m, tea.Batch(m.loadNotes, status("Note no longer exists", false))
		}
		return m, tea.Batch(m.loadNotes, status("Note updated", false))
	}

	// Update child components
	var cmd tea.Cmd
	switch m.mode {
	case ModeList:
		m.list, cmd = m.list.Update(msg)
	case ModeEdit:
		m.editInput, cmd = m.editInput.Update(msg)
	}

	return m, cmd
}

// status returns a command that sets the status bar message.
func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// buildItems creates list items from notes.
func buildItems(notes []model.Note) []list.Item {
	items := make([]list.Item, len(notes))
	for i, n := range notes {
		items[i] = noteItem{note: n}
	}
	return items
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Mode-specific handling first so typing is never intercepted.
	switch m.mode {
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Help) ||
			key.Matches(msg, m.keys.Quit) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m.handleListKey(msg)
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the built-in filter input is active, every key belongs to it.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(noteItem)
		if !ok {
			return m, nil
		}
		id := item.note.ID
		return m, func() tea.Msg {
			removed, err := m.client.RemoveNote(id)
			return removeResultMsg{removed: removed, err: err}
		}

	case key.Matches(msg, m.keys.Edit):
		item, ok := m.list.SelectedItem().(noteItem)
		if !ok {
			return m, nil
		}
		m.mode = ModeEdit
		m.editing = item.note.ID
		m.editInput.SetValue(item.note.Text)
		m.editInput.CursorEnd()
		m.editInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.loadNotes, status("Refreshed", false))
	}

	// Pass to list
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleEditKey handles keys while editing a note's text.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.editing = ""
		m.editInput.Blur()
		return m, nil

	case tea.KeyEnter:
		text := strings.TrimSpace(m.editInput.Value())
		if text == "" {
			return m, status("Note text cannot be empty", true)
		}
		id := m.editing
		m.mode = ModeList
		m.editing = ""
		m.editInput.Blur()
		return m, func() tea.Msg {
			ok, err := m.client.SetNoteText(id, text)
			return editResultMsg{ok: ok, err: err}
		}
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeEdit:
		return m.viewEdit()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	s := m.list.View()

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg)
	} else {
		s += "\n" + m.buildKeybindBar(m.width, "list")
	}

	return s
}

func (m Model) viewEdit() string {
	labelStyle := lipgloss.NewStyle().Bold(true)

	editBar := labelStyle.Render("Edit note: ") + m.editInput.View()

	return editBar + "\n" + m.list.View() + "\n" + m.buildKeybindBar(m.width, "edit")
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"

	s += sectionStyle.Render("Navigation") + "\n"
	s += keyStyle.Render("  j/k, ↑/↓") + "     Move up/down\n"
	s += keyStyle.Render("  g/G") + "          Go to top/bottom\n"
	s += "\n"

	s += sectionStyle.Render("Actions") + "\n"
	s += keyStyle.Render("  e") + "            Edit note text\n"
	s += keyStyle.Render("  d") + "            Delete note\n"
	s += keyStyle.Render("  /") + "            Filter\n"
	s += keyStyle.Render("  r") + "            Refresh now\n"
	s += "\n"

	s += sectionStyle.Render("General") + "\n"
	s += keyStyle.Render("  ?") + "            Toggle this help\n"
	s += keyStyle.Render("  q") + "            Quit\n"

	s += "\n" + sectionStyle.Render("Press ? or esc to return")

	return s
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given
// width, dropping the least important binds first.
func (m Model) buildKeybindBar(width int, mode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind
	switch mode {
	case "list":
		binds = []keybind{
			{"q", "quit", 1},
			{"e", "edit", 2},
			{"d", "delete", 3},
			{"?", "help", 4},
			{"/", "filter", 5},
			{"r", "refresh", 6},
		}
	case "edit":
		binds = []keybind{
			{"enter", "save", 1},
			{"esc", "cancel", 2},
		}
	}

	const separator = "  "
	result := ""
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		plainItem := b.key + " " + b.desc
		testLen := len(stripANSI(result)) + len(separator) + len(plainItem)

		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return style.Render(result)
}

// stripANSI removes ANSI escape codes for length calculation.
func stripANSI(s string) string {
	result := make([]byte, 0, len(s))
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if s[i] == 'm' {
				inEscape = false
			}
			continue
		}
		result = append(result, s[i])
	}
	return string(result)
}

// Run starts the TUI against a running daemon. Note created/removed
// signals trigger immediate refreshes on top of the poll tick.
func Run(client *dbus.Client, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	p := tea.NewProgram(New(client), tea.WithAltScreen())

	watcher := dbus.NewNoteWatcher(logger)
	watcher.SetCreatedHandler(func(string) {
		p.Send(refreshMsg{})
	})
	watcher.SetRemovedHandler(func(string) {
		p.Send(refreshMsg{})
	})
	if err := watcher.Start(); err != nil {
		logger.Debug("note watcher unavailable, refreshing on poll only", "error", err)
	} else {
		defer watcher.Stop()
	}

	_, err := p.Run()
	return err
}
