package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for scripted behaviors.
// Single-goroutine access only (frame loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script under scriptsDir's
// core and behaviors directories. Missing directories are skipped.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)

	for _, sub := range []string{"core", "behaviors"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	vm := lua.NewState()
	vm.SetGlobal("BALLPIT_API", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// NewEngineFromString builds an engine from one chunk of source. Tests and
// embedded defaults use it.
func NewEngineFromString(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load lua source: %w", err)
	}
	return e, nil
}

// loadDir runs every .lua file in dir in file name order, so core helpers
// can be split across files that depend on each other.
func (e *Engine) loadDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("lua script loaded", zap.String("file", path))
	}
	return nil
}

// HasFunction reports whether a global Lua function is defined.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// BehaviorContext holds pre-packed entity state for one scripted update.
type BehaviorContext struct {
	EntityID uint64
	X, Y     float64
	VX, VY   float64
	Grounded bool
	DT       float64
	Time     float64
	Held     []string
	Params   map[string]float64
}

// Command is a single action returned by a behavior script.
type Command struct {
	Type string // one of CmdImpulse, CmdVelocity, CmdDespawn
	X, Y float64
}

const (
	CmdImpulse  = "impulse"
	CmdVelocity = "velocity"
	CmdDespawn  = "despawn"
)

func knownCommand(t string) bool {
	return t == CmdImpulse || t == CmdVelocity || t == CmdDespawn
}

// RunBehavior calls the named Lua function with ctx and returns the commands
// of its result list in order. A missing function or a Lua error returns
// nil; rows with an unknown type are dropped.
func (e *Engine) RunBehavior(function string, ctx BehaviorContext) []Command {
	fn, ok := e.vm.GetGlobal(function).(*lua.LFunction)
	if !ok {
		e.log.Debug("lua behavior function not found", zap.String("func", function))
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("id", lua.LNumber(ctx.EntityID))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("vx", lua.LNumber(ctx.VX))
	t.RawSetString("vy", lua.LNumber(ctx.VY))
	t.RawSetString("grounded", lua.LBool(ctx.Grounded))
	t.RawSetString("dt", lua.LNumber(ctx.DT))
	t.RawSetString("time", lua.LNumber(ctx.Time))

	held := e.vm.NewTable()
	for _, sym := range ctx.Held {
		held.RawSetString(sym, lua.LTrue)
	}
	t.RawSetString("held", held)

	params := e.vm.NewTable()
	for k, v := range ctx.Params {
		params.RawSetString(k, lua.LNumber(v))
	}
	t.RawSetString("params", params)

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua behavior error", zap.String("func", function), zap.Error(err), zap.Uint64("entity", ctx.EntityID))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	n := rt.Len()
	cmds := make([]Command, 0, n)
	for i := 1; i <= n; i++ {
		row, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		c := Command{Type: lStr(row, "type"), X: lNum(row, "x"), Y: lNum(row, "y")}
		if !knownCommand(c.Type) {
			e.log.Debug("lua command ignored", zap.String("func", function), zap.String("type", c.Type))
			continue
		}
		cmds = append(cmds, c)
	}
	return cmds
}

func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
