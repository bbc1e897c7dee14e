// Package layout computes on-screen placement for new notes.
package layout

// Placement geometry. New notes stack down the right-hand edge of the
// screen; the slot height assumes a typical note footprint rather
// than the actual window size, matching the original behavior.
const (
	ScreenMargin  = 20
	AssumedWidth  = 250
	AssumedHeight = 100
	StackStep     = 60
)

// Placer hands out positions for successive notes: anchored to the
// top-right corner with a fixed margin, stepping downward, wrapping
// back to the top margin when a slot would run off the bottom of the
// screen. Not safe for concurrent use; the controller drives it from
// the GUI loop.
type Placer struct {
	offset int
}

// NewPlacer creates a Placer starting at the top of the stack.
func NewPlacer() *Placer {
	return &Placer{}
}

// Next returns the top-left position for the next note on a screen of
// the given size and advances the stack. The offset is advanced
// before the wrap check, so the note that triggers the wrap is itself
// placed back at the top margin.
func (p *Placer) Next(screenWidth, screenHeight int) (x, y int) {
	x = screenWidth - AssumedWidth - ScreenMargin
	y = ScreenMargin + p.offset

	p.offset += StackStep

	if y+AssumedHeight > screenHeight-ScreenMargin {
		p.offset = 0
		y = ScreenMargin
	}
	return x, y
}

// Reset returns the stack to the top margin.
func (p *Placer) Reset() {
	p.offset = 0
}
