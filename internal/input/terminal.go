package input

import (
	"strings"
	"time"
	"unicode"

	"github.com/ballpit/ballpit/internal/config"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Terminal reads key and mouse events from a tcell screen. Terminals report
// presses and auto-repeat but no releases, so a symbol counts as held for
// the hold window after the last event that produced it.
type Terminal struct {
	events   chan tcell.Event
	keymap   map[string]Symbol
	window   time.Duration
	sens     float64
	lastSeen map[Symbol]time.Time

	mouseX, mouseY int
	mouseKnown     bool
	dx, dy         float64
	quit           bool

	log *zap.Logger
}

// NewTerminal starts a goroutine polling screen events into a buffered
// channel. It exits when the screen is finalized. Keymap entries naming
// unknown symbols are logged and skipped.
func NewTerminal(screen tcell.Screen, cfg config.InputConfig, log *zap.Logger) *Terminal {
	t := &Terminal{
		events:   make(chan tcell.Event, 256),
		keymap:   make(map[string]Symbol, len(cfg.Keymap)),
		window:   cfg.HoldWindow,
		sens:     cfg.MouseSensitivity,
		lastSeen: make(map[Symbol]time.Time, 16),
		log:      log,
	}
	for key, name := range cfg.Keymap {
		sym := Symbol(name)
		if !Valid(sym) {
			log.Warn("keymap entry ignored", zap.String("key", key), zap.String("symbol", name))
			continue
		}
		t.keymap[key] = sym
	}

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(t.events)
				return
			}
			select {
			case t.events <- ev:
			default:
				// frame loop stalled; drop rather than block the poller
			}
		}
	}()
	return t
}

// Poll drains pending events without blocking and returns the held set.
func (t *Terminal) Poll(now time.Time) Snapshot {
	t.dx, t.dy = 0, 0
drain:
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				t.quit = true
				break drain
			}
			t.handle(ev, now)
		default:
			break drain
		}
	}

	snap := Snapshot{
		Held:    make(map[Symbol]struct{}, len(t.lastSeen)),
		MouseDX: t.dx,
		MouseDY: t.dy,
		Quit:    t.quit,
	}
	for sym, at := range t.lastSeen {
		if now.Sub(at) <= t.window {
			snap.Held[sym] = struct{}{}
		} else {
			delete(t.lastSeen, sym)
		}
	}
	return snap
}

func (t *Terminal) handle(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			t.quit = true
			return
		}
		for _, name := range keyNames(ev) {
			if sym, ok := t.keymap[name]; ok {
				t.lastSeen[sym] = now
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		if t.mouseKnown {
			t.dx += float64(x-t.mouseX) * t.sens
			t.dy += float64(y-t.mouseY) * t.sens
		}
		t.mouseX, t.mouseY, t.mouseKnown = x, y, true
	}
}

// keyNames maps a key event to the names a keymap may bind: the key's own
// name, plus "Shift" when shift is down or the rune is upper case.
func keyNames(ev *tcell.EventKey) []string {
	names := make([]string, 0, 2)
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		names = append(names, strings.ToLower(string(r)))
		if unicode.IsUpper(r) {
			names = append(names, "Shift")
			return names
		}
	} else if name, ok := tcell.KeyNames[ev.Key()]; ok {
		names = append(names, name)
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		names = append(names, "Shift")
	}
	return names
}
