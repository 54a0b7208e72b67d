package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/bombarena/internal/game"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, game.DefaultConfig(), cfg.Game)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "", cfg.LogFile)
	assert.True(t, cfg.Stats.Enabled)
	assert.Equal(t, "sqlite", cfg.Stats.Driver)
	assert.Equal(t, "bombarena.db", cfg.Stats.DSN)
	assert.Equal(t, "player", cfg.Stats.Profile)
	assert.Equal(t, 16, cfg.Stats.Queue)
	assert.True(t, cfg.Audio.Enabled)
	assert.InDelta(t, 0.8, cfg.Audio.Volume, 1e-9)
	assert.Equal(t, "", cfg.Metrics.Addr)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, game.DefaultConfig(), cfg.Game)
}

func TestLoad_WithJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bombarena.json")
	data := `{
		"logLevel": "debug",
		"game": {
			"width": 21,
			"bombCountdown": "3s",
			"ai": { "agents": 1, "chaseChance": 0.5 }
		},
		"stats": { "driver": "postgres", "dsn": "host=db user=game" }
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 21, cfg.Game.Width)
	assert.Equal(t, 13, cfg.Game.Height)
	assert.Equal(t, 3*time.Second, cfg.Game.BombCountdown)
	assert.Equal(t, 1, cfg.Game.AI.Agents)
	assert.InDelta(t, 0.5, cfg.Game.AI.ChaseChance, 1e-9)
	assert.Equal(t, 800*time.Millisecond, cfg.Game.AI.MoveInterval)
	assert.Equal(t, "postgres", cfg.Stats.Driver)
	assert.Equal(t, "host=db user=game", cfg.Stats.DSN)
}

func TestLoad_WithYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bombarena.yaml")
	data := "game:\n  seed: 42\n  explosionDuration: 1500ms\naudio:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, 1500*time.Millisecond, cfg.Game.ExplosionDuration)
	assert.False(t, cfg.Audio.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOMBARENA_LOGLEVEL", "error")
	t.Setenv("BOMBARENA_GAME_SEED", "7")
	t.Setenv("BOMBARENA_GAME_AI_AGENTS", "2")
	t.Setenv("BOMBARENA_METRICS_ADDR", ":9100")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, int64(7), cfg.Game.Seed)
	assert.Equal(t, 2, cfg.Game.AI.Agents)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"game": `), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestValidate(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"tiny board", func(c *Config) { c.Game.Width = 3 }, "smaller than 5x5"},
		{"no ticks", func(c *Config) { c.Game.TickRate = 0 }, "tick rate"},
		{"density", func(c *Config) { c.Game.DestructibleDensity = 1.5 }, "destructible density"},
		{"chance", func(c *Config) { c.Game.PowerUpChance = -0.1 }, "power-up chance"},
		{"lives", func(c *Config) { c.Game.StartingLives = 0 }, "starting lives"},
		{"agents", func(c *Config) { c.Game.AI.Agents = 4 }, "agents"},
		{"even width", func(c *Config) { c.Game.Width = 16 }, "odd dimensions"},
		{"even height", func(c *Config) { c.Game.Height = 14 }, "odd dimensions"},
		{"zero explosion duration", func(c *Config) { c.Game.ExplosionDuration = 0 }, "explosion duration"},
		{"negative explosion duration", func(c *Config) { c.Game.ExplosionDuration = -time.Second }, "explosion duration"},
		{"zero countdown", func(c *Config) { c.Game.BombCountdown = 0 }, "bomb countdown"},
		{"negative countdown", func(c *Config) { c.Game.BombCountdown = -time.Second }, "bomb countdown"},
		{"negative placement cooldown", func(c *Config) { c.Game.PlacementCooldown = -time.Millisecond }, "placement cooldown"},
		{"negative seed buffer", func(c *Config) { c.Game.PowerUpSeedBuffer = -time.Millisecond }, "seed buffer"},
		{"fastest agent stalls", func(c *Config) {
			c.Game.AI.Agents = 3
			c.Game.AI.MoveInterval = 400 * time.Millisecond
			c.Game.AI.MoveIntervalStep = 200 * time.Millisecond
		}, "move interval"},
		{"zero move interval", func(c *Config) {
			c.Game.AI.Agents = 1
			c.Game.AI.MoveInterval = 0
		}, "move interval"},
		{"negative agent cooldown", func(c *Config) {
			c.Game.AI.Agents = 3
			c.Game.AI.BombCooldown = 500 * time.Millisecond
			c.Game.AI.BombCooldownStep = -time.Second
		}, "bomb cooldown"},
		{"driver", func(c *Config) { c.Stats.Driver = "mysql" }, "stats driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, base.Validate())
}

func TestValidate_AcceptsEdgeValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Game.Width, cfg.Game.Height = 5, 5
	cfg.Game.PlacementCooldown = 0
	cfg.Game.PowerUpSeedBuffer = 0
	cfg.Game.AI.Agents = 3
	cfg.Game.AI.MoveInterval = 300 * time.Millisecond
	cfg.Game.AI.MoveIntervalStep = 100 * time.Millisecond
	assert.NoError(t, cfg.Validate())

	// Without agents the roster parameters are unused.
	cfg.Game.AI.Agents = 0
	cfg.Game.AI.MoveInterval = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoad_RejectsEvenBoardFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "even.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  width: 16\n  height: 14\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
