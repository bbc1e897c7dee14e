package display

import (
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/notepin/internal/daemon"
)

// IdleInvoker marshals functions onto the GTK main loop as idle
// sources.
type IdleInvoker struct{}

var _ daemon.Invoker = (*IdleInvoker)(nil)

// NewIdleInvoker creates the production invoker for the GUI loop.
func NewIdleInvoker() *IdleInvoker {
	return &IdleInvoker{}
}

// Invoke schedules fn on the GUI loop and returns immediately.
func (IdleInvoker) Invoke(fn func()) {
	glib.IdleAdd(func() {
		fn()
	})
}

// InvokeSync schedules fn on the GUI loop and blocks until it has
// run. Must not be called from the GUI loop itself.
func (IdleInvoker) InvokeSync(fn func()) {
	done := make(chan struct{})
	glib.IdleAdd(func() {
		fn()
		close(done)
	})
	<-done
}
