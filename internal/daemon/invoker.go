package daemon

// Invoker schedules functions onto the GUI main loop. The production
// implementation wraps glib idle sources; tests use SyncInvoker.
type Invoker interface {
	// Invoke schedules fn on the GUI loop and returns immediately.
	Invoke(fn func())
	// InvokeSync schedules fn on the GUI loop and blocks until it has
	// run. Must not be called from the GUI loop itself.
	InvokeSync(fn func())
}

// SyncInvoker runs functions inline on the calling goroutine.
type SyncInvoker struct{}

// Invoke runs fn immediately.
func (SyncInvoker) Invoke(fn func()) { fn() }

// InvokeSync runs fn immediately.
func (SyncInvoker) InvokeSync(fn func()) { fn() }
