package input

import (
	"testing"
	"time"

	"github.com/ballpit/ballpit/internal/config"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStateApplyReplacesHeldSet(t *testing.T) {
	s := NewState()
	s.Apply(Press(MoveRight, Jump))
	assert.True(t, s.Held(MoveRight))
	assert.Equal(t, []Symbol{Jump, MoveRight}, s.HeldSymbols())

	s.Apply(Snapshot{MouseDX: 1.5})
	assert.False(t, s.Held(MoveRight))
	dx, dy := s.Mouse()
	assert.Equal(t, 1.5, dx)
	assert.Zero(t, dy)
}

func TestQuitSymbolRequestsQuit(t *testing.T) {
	s := NewState()
	s.Apply(Press(Quit))
	assert.True(t, s.QuitRequested())
	s.Apply(Snapshot{})
	assert.False(t, s.QuitRequested())
}

func TestReplayRunsOut(t *testing.T) {
	r := NewReplay(Press(Spawn), Press(MoveLeft))
	assert.Contains(t, r.Poll(time.Time{}).Held, Spawn)
	assert.Contains(t, r.Poll(time.Time{}).Held, MoveLeft)
	assert.Zero(t, r.Remaining())
	assert.Empty(t, r.Poll(time.Time{}).Held)
}

func TestParseReplayExpandsRepeats(t *testing.T) {
	r, err := ParseReplay([]byte(`
frames:
  - {hold: [spawn], repeat: 2}
  - {hold: [move_left, jump], mouse: [1.5, -2]}
  - {quit: true}
`))
	require.NoError(t, err)
	assert.Equal(t, 4, r.Remaining())

	assert.Contains(t, r.Poll(time.Time{}).Held, Spawn)
	assert.Contains(t, r.Poll(time.Time{}).Held, Spawn)
	snap := r.Poll(time.Time{})
	assert.Equal(t, map[Symbol]struct{}{MoveLeft: {}, Jump: {}}, snap.Held)
	assert.Equal(t, 1.5, snap.MouseDX)
	assert.Equal(t, -2.0, snap.MouseDY)
	assert.True(t, r.Poll(time.Time{}).Quit)
	assert.Zero(t, r.Remaining())
}

func TestParseReplayErrors(t *testing.T) {
	for name, src := range map[string]string{
		"unknown symbol": "frames:\n  - {hold: [fly]}\n",
		"negative":       "frames:\n  - {repeat: -1}\n",
		"syntax":         "frames: [",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseReplay([]byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadShippedReplay(t *testing.T) {
	r, err := LoadReplay("../../replays/demo.yaml")
	require.NoError(t, err)
	assert.Equal(t, 296, r.Remaining())
}

func TestHoldPressRelease(t *testing.T) {
	h := NewHold()
	h.Press(Jump, Sprint)
	h.Release(Jump)
	snap := h.Poll(time.Time{})
	assert.Equal(t, map[Symbol]struct{}{Sprint: {}}, snap.Held)
}

func newSimTerminal(t *testing.T) (tcell.SimulationScreen, *Terminal) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	cfg := config.Default().Input
	cfg.HoldWindow = 100 * time.Millisecond
	return screen, NewTerminal(screen, cfg, zaptest.NewLogger(t))
}

func pollUntil(t *testing.T, term *Terminal, now time.Time, sym Symbol) Snapshot {
	t.Helper()
	var snap Snapshot
	require.Eventually(t, func() bool {
		snap = term.Poll(now)
		_, ok := snap.Held[sym]
		return ok
	}, time.Second, 5*time.Millisecond)
	return snap
}

func TestTerminalKeyHeldWithinWindow(t *testing.T) {
	screen, term := newSimTerminal(t)
	start := time.Now()

	screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	pollUntil(t, term, start, MoveRight)

	snap := term.Poll(start.Add(50 * time.Millisecond))
	assert.Contains(t, snap.Held, MoveRight)

	snap = term.Poll(start.Add(200 * time.Millisecond))
	assert.NotContains(t, snap.Held, MoveRight, "released after the hold window")
}

func TestTerminalUpperCaseAddsShift(t *testing.T) {
	screen, term := newSimTerminal(t)
	now := time.Now()

	screen.InjectKey(tcell.KeyRune, 'W', tcell.ModNone)
	snap := pollUntil(t, term, now, CamForward)
	assert.Contains(t, snap.Held, Sprint)
}

func TestTerminalCtrlCQuits(t *testing.T) {
	screen, term := newSimTerminal(t)
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	require.Eventually(t, func() bool {
		return term.Poll(time.Now()).Quit
	}, time.Second, 5*time.Millisecond)
}

func TestKeyNames(t *testing.T) {
	assert.Equal(t, []string{"z"}, keyNames(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)))
	assert.Equal(t, []string{"Right"}, keyNames(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	assert.Equal(t, []string{"Esc"}, keyNames(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}
