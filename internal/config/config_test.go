package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ballpit.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadOverlaysDefaults(t *testing.T) {
	p := writeConfig(t, `
[physics]
gravity = [0.0, -20.0]
contact_reporting = "start"

[input]
hold_window = "80ms"

[input.keymap]
"x" = "spawn"
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, [2]float64{0, -20}, cfg.Physics.Gravity)
	assert.Equal(t, ContactStart, cfg.Physics.ContactReporting)
	assert.Equal(t, 80*time.Millisecond, cfg.Input.HoldWindow)
	assert.Equal(t, "spawn", cfg.Input.Keymap["x"])

	// untouched sections keep their defaults
	assert.Equal(t, 60, cfg.Render.TargetFPS)
	assert.Equal(t, 0.2, cfg.Behavior.FloorEpsilon)
	assert.Equal(t, 2*time.Second, cfg.Telemetry.Timeout)
}

func TestLoadShippedConfig(t *testing.T) {
	cfg, err := Load("../../config/ballpit.toml")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Physics.SubSteps)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "quit", cfg.Input.Keymap["Esc"])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"contact mode", "[physics]\ncontact_reporting = \"sometimes\"\n", "contact_reporting"},
		{"sub steps", "[physics]\nsub_steps = 0\n", "sub_steps"},
		{"fps", "[render]\ntarget_fps = 0\n", "target_fps"},
		{"telemetry without dsn", "[telemetry]\nenabled = true\n[database]\ndsn = \"\"\n", "dsn"},
		{"syntax", "[physics\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, ContactPersistent, cfg.Physics.ContactReporting)
	assert.False(t, cfg.Debug.Strict)

	// each call returns an independent copy
	cfg.Input.Keymap["q"] = "jump"
	assert.Equal(t, "quit", Default().Input.Keymap["q"])
}
