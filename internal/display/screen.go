package display

import (
	"unsafe"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
)

// primaryMonitor returns the first monitor of the given display.
// GTK4 has no primary-monitor concept; the first entry is the
// conventional stand-in.
func primaryMonitor(display *gdk.Display) *gdk.Monitor {
	if display == nil {
		return nil
	}

	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}

	obj := monitors.Item(0)
	if obj == nil {
		return nil
	}

	return wrapMonitor(obj)
}

// wrapMonitor wraps a coreglib.Object as a gdk.Monitor.
// The monitors list model hands out bare objects and gotk4 doesn't
// expose a wrapping function.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	// The gdk.Monitor struct embeds a *coreglib.Object, so we can create
	// one by casting the native pointer. This is how gotk4 does it internally.
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// screenSize returns the pixel dimensions of the primary monitor.
// Both values are zero when no display or monitor is available.
func screenSize() (int, int) {
	monitor := primaryMonitor(gdk.DisplayGetDefault())
	if monitor == nil {
		return 0, 0
	}

	geo := monitor.Geometry()
	return geo.Width(), geo.Height()
}
