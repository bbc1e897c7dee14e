package display

import (
	"github.com/diamondburned/gotk4/pkg/gtk/v4"
)

// ConfirmPopover is the delete confirmation attached to a note
// window. A single right-click opens it; both buttons are
// pointer-operable.
type ConfirmPopover struct {
	popover  *gtk.Popover
	onDelete func()
}

// NewConfirmPopover creates a confirmation popover anchored to the
// given widget. onDelete runs when the delete button is pressed.
func NewConfirmPopover(parent gtk.Widgetter, onDelete func()) *ConfirmPopover {
	p := &ConfirmPopover{onDelete: onDelete}

	p.popover = gtk.NewPopover()
	p.popover.SetParent(parent)
	p.popover.AddCSSClass("notepin-confirm")

	box := gtk.NewBox(gtk.OrientationVertical, 8)
	box.SetMarginTop(8)
	box.SetMarginBottom(8)
	box.SetMarginStart(8)
	box.SetMarginEnd(8)

	question := gtk.NewLabel("Delete this note?")
	question.SetXAlign(0)
	box.Append(question)

	buttons := gtk.NewBox(gtk.OrientationHorizontal, 6)
	buttons.SetHAlign(gtk.AlignEnd)

	cancelBtn := gtk.NewButtonWithLabel("Cancel")
	cancelBtn.ConnectClicked(func() {
		p.popover.Popdown()
	})
	buttons.Append(cancelBtn)

	deleteBtn := gtk.NewButtonWithLabel("Delete")
	deleteBtn.AddCSSClass("destructive-action")
	deleteBtn.ConnectClicked(func() {
		p.popover.Popdown()
		if p.onDelete != nil {
			p.onDelete()
		}
	})
	buttons.Append(deleteBtn)

	box.Append(buttons)
	p.popover.SetChild(box)

	return p
}

// Show opens the popover.
func (p *ConfirmPopover) Show() {
	p.popover.Popup()
}

// Destroy detaches the popover from its parent.
func (p *ConfirmPopover) Destroy() {
	p.popover.Unparent()
}
