package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const hopSrc = `
function hop(ctx)
  local cmds = {}
  if ctx.grounded and ctx.held.jump then
    table.insert(cmds, {type = "impulse", x = 0, y = ctx.params.power})
  end
  if ctx.time > 10 then
    table.insert(cmds, {type = "despawn"})
  end
  return cmds
end

function broken(ctx)
  error("boom")
end
`

func TestRunBehaviorReturnsCommands(t *testing.T) {
	e, err := NewEngineFromString(hopSrc, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()

	cmds := e.RunBehavior("hop", BehaviorContext{
		Grounded: true,
		Held:     []string{"jump"},
		Params:   map[string]float64{"power": 7},
		Time:     11,
	})
	require.Len(t, cmds, 2)
	assert.Equal(t, Command{Type: "impulse", Y: 7}, cmds[0])
	assert.Equal(t, "despawn", cmds[1].Type)

	assert.Empty(t, e.RunBehavior("hop", BehaviorContext{}))
}

func TestRunBehaviorFailuresAreNil(t *testing.T) {
	e, err := NewEngineFromString(hopSrc, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()

	assert.Nil(t, e.RunBehavior("missing", BehaviorContext{}))
	assert.Nil(t, e.RunBehavior("broken", BehaviorContext{}))
	assert.True(t, e.HasFunction("hop"))
	assert.False(t, e.HasFunction("missing"))
}

func TestRunBehaviorKeepsListOrderAndDropsUnknown(t *testing.T) {
	e, err := NewEngineFromString(`
function steps(ctx)
  return {
    {type = "velocity", x = 1, y = 0},
    {type = "teleport", x = 9, y = 9},
    "not a row",
    {type = "impulse", x = 0, y = 2},
  }
end
function scalar(ctx) return 3 end
`, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()

	cmds := e.RunBehavior("steps", BehaviorContext{})
	assert.Equal(t, []Command{
		{Type: CmdVelocity, X: 1},
		{Type: CmdImpulse, Y: 2},
	}, cmds)
	assert.Nil(t, e.RunBehavior("scalar", BehaviorContext{}))
}

func TestNewEngineLoadsBehaviorDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "behaviors"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "behaviors", "a.lua"), []byte("function wobble(ctx) return {} end"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "behaviors", "notes.txt"), []byte("not lua"), 0o644))

	e, err := NewEngine(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()
	assert.True(t, e.HasFunction("wobble"))
}

func TestNewEngineLoadsShippedScripts(t *testing.T) {
	e, err := NewEngine("../../scripts", zaptest.NewLogger(t))
	require.NoError(t, err)
	defer e.Close()
	assert.True(t, e.HasFunction("hop"))
	assert.True(t, e.HasFunction("drift"))
}

func TestNewEngineSyntaxError(t *testing.T) {
	_, err := NewEngineFromString("function (", zaptest.NewLogger(t))
	assert.Error(t, err)
}
