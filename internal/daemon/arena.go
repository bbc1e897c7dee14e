package daemon

import (
	"sync"

	"github.com/jmylchreest/notepin/internal/model"
)

// NoteArena tracks the live notes by ID while preserving creation order.
// Mutations happen on the GUI loop only; the lock guards the snapshot
// reads that the control interface performs from D-Bus handler
// goroutines.
type NoteArena struct {
	mu    sync.RWMutex
	notes map[string]*model.Note
	order []string
}

// NewNoteArena creates an empty NoteArena.
func NewNoteArena() *NoteArena {
	return &NoteArena{
		notes: make(map[string]*model.Note),
	}
}

// Add registers a note. Re-adding an existing ID replaces the record
// but keeps its original position in the order.
func (a *NoteArena) Add(note *model.Note) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.notes[note.ID]; !exists {
		a.order = append(a.order, note.ID)
	}
	a.notes[note.ID] = note
}

// Remove deletes a note by ID. Returns false when no such note exists.
func (a *NoteArena) Remove(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.notes[id]; !exists {
		return false
	}
	delete(a.notes, id)

	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the live note for an ID, or nil. The returned pointer is
// shared with the display layer; touch it on the GUI loop only.
func (a *NoteArena) Get(id string) *model.Note {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.notes[id]
}

// List returns clones of all notes in creation order. Safe to hand to
// encoders and formatters off the GUI loop.
func (a *NoteArena) List() []*model.Note {
	a.mu.RLock()
	defer a.mu.RUnlock()

	notes := make([]*model.Note, 0, len(a.order))
	for _, id := range a.order {
		if n, ok := a.notes[id]; ok {
			notes = append(notes, n.Clone())
		}
	}
	return notes
}

// IDs returns the note IDs in creation order.
func (a *NoteArena) IDs() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ids := make([]string, len(a.order))
	copy(ids, a.order)
	return ids
}

// Count returns the number of live notes.
func (a *NoteArena) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.notes)
}
