package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestMachine_InitialState(t *testing.T) {
	m := NewMachine(DefaultConfig())
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, m.ClickCount())
}

func TestMachine_SinglePressStaysIdle(t *testing.T) {
	m := NewMachine(DefaultConfig())

	act := m.PrimaryPress(100, 100, t0)
	assert.Equal(t, ActionNone, act.Kind)
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 1, m.ClickCount())

	act = m.PrimaryRelease()
	assert.Equal(t, ActionNone, act.Kind)
	assert.Equal(t, StateIdle, m.State())
}

func TestMachine_TripleClickEntersEdit(t *testing.T) {
	m := NewMachine(DefaultConfig())

	act := m.PrimaryPress(100, 100, t0)
	assert.Equal(t, ActionNone, act.Kind)
	m.PrimaryRelease()

	act = m.PrimaryPress(100, 100, t0.Add(200*time.Millisecond))
	assert.Equal(t, ActionNone, act.Kind)
	m.PrimaryRelease()

	act = m.PrimaryPress(100, 100, t0.Add(400*time.Millisecond))
	assert.Equal(t, ActionEnterEdit, act.Kind)
	assert.Equal(t, StateEditing, m.State())
	assert.Equal(t, 0, m.ClickCount(), "counter resets after triggering")
}

func TestMachine_FourthClickDoesNotRetrigger(t *testing.T) {
	m := NewMachine(DefaultConfig())

	for i := 0; i < 3; i++ {
		m.PrimaryPress(100, 100, t0.Add(time.Duration(i)*100*time.Millisecond))
		m.PrimaryRelease()
	}
	require.Equal(t, StateEditing, m.State())

	// Editing swallows further presses entirely.
	act := m.PrimaryPress(100, 100, t0.Add(300*time.Millisecond))
	assert.Equal(t, ActionNone, act.Kind)
	assert.Equal(t, StateEditing, m.State())
	assert.Equal(t, 0, m.ClickCount())
}

func TestMachine_SlowClicksResetCounter(t *testing.T) {
	m := NewMachine(DefaultConfig())

	m.PrimaryPress(100, 100, t0)
	m.PrimaryRelease()
	m.PrimaryPress(100, 100, t0.Add(300*time.Millisecond))
	m.PrimaryRelease()
	assert.Equal(t, 2, m.ClickCount())

	// Gap past the multi-click window starts a fresh sequence.
	act := m.PrimaryPress(100, 100, t0.Add(900*time.Millisecond))
	assert.Equal(t, ActionNone, act.Kind)
	assert.Equal(t, 1, m.ClickCount())
	assert.Equal(t, StateIdle, m.State())
}

func TestMachine_ClickWindowBoundary(t *testing.T) {
	m := NewMachine(DefaultConfig())

	m.PrimaryPress(100, 100, t0)
	m.PrimaryRelease()

	// Exactly the window apart does not count as consecutive.
	m.PrimaryPress(100, 100, t0.Add(DefaultMultiClickWindow))
	assert.Equal(t, 1, m.ClickCount())

	m.PrimaryRelease()
	m.PrimaryPress(100, 100, t0.Add(DefaultMultiClickWindow+499*time.Millisecond))
	assert.Equal(t, 2, m.ClickCount())
}

func TestMachine_MotionWithinThresholdIsIgnored(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy int
	}{
		{"no movement", 0, 0},
		{"x at threshold", 5, 0},
		{"y at threshold", 0, 5},
		{"both at threshold", 5, 5},
		{"negative at threshold", -5, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(DefaultConfig())
			m.PrimaryPress(100, 100, t0)

			act := m.PrimaryMove(100+tt.dx, 100+tt.dy)
			assert.Equal(t, ActionNone, act.Kind)
			assert.Equal(t, StateIdle, m.State())
			assert.Equal(t, 1, m.ClickCount(), "sub-threshold motion keeps the click sequence")
		})
	}
}

func TestMachine_MotionPastThresholdStartsDrag(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy int
	}{
		{"x past threshold", 6, 0},
		{"y past threshold", 0, 6},
		{"negative x", -6, 0},
		{"diagonal", 10, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(DefaultConfig())
			m.PrimaryPress(100, 100, t0)

			act := m.PrimaryMove(100+tt.dx, 100+tt.dy)
			assert.Equal(t, ActionMove, act.Kind)
			assert.Equal(t, tt.dx, act.DX)
			assert.Equal(t, tt.dy, act.DY)
			assert.Equal(t, StateDragging, m.State())
			assert.Equal(t, 0, m.ClickCount(), "drag cancels the click sequence")
		})
	}
}

func TestMachine_DragEmitsIncrementalDeltas(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.PrimaryPress(100, 100, t0)

	act := m.PrimaryMove(110, 100)
	assert.Equal(t, ActionMove, act.Kind)
	assert.Equal(t, 10, act.DX)
	assert.Equal(t, 0, act.DY)

	act = m.PrimaryMove(113, 95)
	assert.Equal(t, ActionMove, act.Kind)
	assert.Equal(t, 3, act.DX)
	assert.Equal(t, -5, act.DY)

	// Once dragging, even tiny deltas move the note.
	act = m.PrimaryMove(114, 95)
	assert.Equal(t, ActionMove, act.Kind)
	assert.Equal(t, 1, act.DX)

	act = m.PrimaryRelease()
	assert.Equal(t, ActionNone, act.Kind)
	assert.Equal(t, StateIdle, m.State())
}

func TestMachine_MotionWithoutPressIsIgnored(t *testing.T) {
	m := NewMachine(DefaultConfig())

	act := m.PrimaryMove(500, 500)
	assert.Equal(t, ActionNone, act.Kind)
	assert.Equal(t, StateIdle, m.State())

	// Released button disarms the anchor; hover motion does nothing.
	m.PrimaryPress(100, 100, t0)
	m.PrimaryRelease()
	act = m.PrimaryMove(500, 500)
	assert.Equal(t, ActionNone, act.Kind)
	assert.Equal(t, StateIdle, m.State())
}

func TestMachine_DragAfterEditBlocked(t *testing.T) {
	m := NewMachine(DefaultConfig())
	for i := 0; i < 3; i++ {
		m.PrimaryPress(100, 100, t0.Add(time.Duration(i)*100*time.Millisecond))
	}
	require.Equal(t, StateEditing, m.State())

	assert.Equal(t, ActionNone, m.PrimaryMove(200, 200).Kind)
	assert.Equal(t, ActionNone, m.SecondaryPress(100, 100, 500, 200).Kind)
	assert.Equal(t, ActionNone, m.SecondaryRelease().Kind)
	assert.Equal(t, StateEditing, m.State())
}

func TestMachine_RightClickOpensDeleteConfirm(t *testing.T) {
	m := NewMachine(DefaultConfig())

	m.SecondaryPress(100, 100, 500, 200)
	act := m.SecondaryRelease()
	assert.Equal(t, ActionConfirmDelete, act.Kind)
	assert.Equal(t, StateIdle, m.State())
}

func TestMachine_RightClickWithSubThresholdMotionStillConfirms(t *testing.T) {
	m := NewMachine(DefaultConfig())

	m.SecondaryPress(100, 100, 500, 200)
	act := m.SecondaryMove(105, 96)
	assert.Equal(t, ActionNone, act.Kind)
	assert.Equal(t, StateIdle, m.State())

	act = m.SecondaryRelease()
	assert.Equal(t, ActionConfirmDelete, act.Kind)
}

func TestMachine_SecondaryDragResizes(t *testing.T) {
	m := NewMachine(DefaultConfig())

	m.SecondaryPress(100, 100, 500, 200)
	act := m.SecondaryMove(150, 130)
	assert.Equal(t, ActionResize, act.Kind)
	assert.Equal(t, StateResizing, m.State())
	assert.Equal(t, 550, act.Width)
	assert.Equal(t, 230, act.Height)
	assert.Equal(t, FontSize(550, 230), act.FontSize)

	// Resizes stay anchored to the starting size, not cumulative.
	act = m.SecondaryMove(160, 140)
	assert.Equal(t, 560, act.Width)
	assert.Equal(t, 240, act.Height)

	act = m.SecondaryRelease()
	assert.Equal(t, ActionNone, act.Kind, "a resize never opens the delete confirm")
	assert.Equal(t, StateIdle, m.State())
}

func TestMachine_ResizeClampsToMinimum(t *testing.T) {
	m := NewMachine(DefaultConfig())

	m.SecondaryPress(1000, 1000, 500, 200)
	act := m.SecondaryMove(0, 0)
	assert.Equal(t, ActionResize, act.Kind)
	assert.Equal(t, MinWidth, act.Width)
	assert.Equal(t, MinHeight, act.Height)
	assert.GreaterOrEqual(t, act.FontSize, MinFontSize)
}

func TestMachine_ResizeClampsAxesIndependently(t *testing.T) {
	m := NewMachine(DefaultConfig())

	m.SecondaryPress(100, 100, 500, 200)
	act := m.SecondaryMove(200, -1000)
	assert.Equal(t, ActionResize, act.Kind)
	assert.Equal(t, 600, act.Width)
	assert.Equal(t, MinHeight, act.Height)
}

func TestMachine_EditExitCommitsOnBothKeys(t *testing.T) {
	enterEdit := func(t *testing.T) *Machine {
		t.Helper()
		m := NewMachine(DefaultConfig())
		for i := 0; i < 3; i++ {
			m.PrimaryPress(100, 100, t0.Add(time.Duration(i)*100*time.Millisecond))
		}
		require.Equal(t, StateEditing, m.State())
		return m
	}

	t.Run("accept", func(t *testing.T) {
		m := enterEdit(t)
		act := m.AcceptEdit()
		assert.Equal(t, ActionExitEdit, act.Kind)
		assert.True(t, act.Commit)
		assert.Equal(t, StateIdle, m.State())
	})

	t.Run("cancel", func(t *testing.T) {
		m := enterEdit(t)
		act := m.CancelEdit()
		assert.Equal(t, ActionExitEdit, act.Kind)
		assert.True(t, act.Commit, "the cancel path re-locks committed text, it does not roll back")
		assert.Equal(t, StateIdle, m.State())
	})
}

func TestMachine_EditKeysIgnoredOutsideEditing(t *testing.T) {
	m := NewMachine(DefaultConfig())

	assert.Equal(t, ActionNone, m.AcceptEdit().Kind)
	assert.Equal(t, ActionNone, m.CancelEdit().Kind)
	assert.Equal(t, StateIdle, m.State())
}

func TestMachine_TripleClickAfterDragNeedsFreshSequence(t *testing.T) {
	m := NewMachine(DefaultConfig())

	m.PrimaryPress(100, 100, t0)
	m.PrimaryMove(120, 120)
	require.Equal(t, StateDragging, m.State())
	m.PrimaryRelease()

	// Two more quick presses are not enough; the drag reset the count.
	m.PrimaryPress(120, 120, t0.Add(100*time.Millisecond))
	m.PrimaryRelease()
	m.PrimaryPress(120, 120, t0.Add(200*time.Millisecond))
	assert.Equal(t, 2, m.ClickCount())
	assert.Equal(t, StateIdle, m.State())
}

func TestMachine_SecondaryMoveWithoutPressIsIgnored(t *testing.T) {
	m := NewMachine(DefaultConfig())
	assert.Equal(t, ActionNone, m.SecondaryMove(300, 300).Kind)
	assert.Equal(t, ActionNone, m.SecondaryRelease().Kind)
}

func TestMachine_Reset(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.PrimaryPress(100, 100, t0)
	m.PrimaryMove(200, 200)
	require.Equal(t, StateDragging, m.State())

	m.Reset()
	assert.Equal(t, StateIdle, m.State())
	assert.Equal(t, 0, m.ClickCount())
	assert.Equal(t, ActionNone, m.PrimaryMove(300, 300).Kind)
}

func TestMachine_CustomConfig(t *testing.T) {
	m := NewMachine(Config{
		MultiClickWindow: 100 * time.Millisecond,
		DragThreshold:    20,
		EditClickCount:   2,
		MinWidth:         50,
		MinHeight:        40,
	})

	m.PrimaryPress(0, 0, t0)
	assert.Equal(t, ActionNone, m.PrimaryMove(20, 20).Kind)
	act := m.PrimaryMove(21, 0)
	assert.Equal(t, ActionMove, act.Kind)
	m.PrimaryRelease()
	m.Reset()

	m.PrimaryPress(0, 0, t0)
	m.PrimaryRelease()
	act = m.PrimaryPress(0, 0, t0.Add(50*time.Millisecond))
	assert.Equal(t, ActionEnterEdit, act.Kind)
}

func TestMachine_ZeroConfigFallsBackToDefaults(t *testing.T) {
	m := NewMachine(Config{})

	m.SecondaryPress(500, 500, 300, 150)
	act := m.SecondaryMove(0, 0)
	assert.Equal(t, MinWidth, act.Width)
	assert.Equal(t, MinHeight, act.Height)
}
