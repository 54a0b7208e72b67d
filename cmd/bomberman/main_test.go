package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/bombarena/internal/config"
	"github.com/amalg/bombarena/internal/game"
	"github.com/amalg/bombarena/internal/stats"
	"github.com/amalg/bombarena/internal/ui"
)

func testAppConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)

	dir := t.TempDir()
	cfg.LogFile = filepath.Join(dir, "bombarena.log")
	cfg.LogLevel = "info"
	cfg.Audio.Enabled = false
	cfg.Stats.DSN = filepath.Join(dir, "stats.db")
	cfg.Stats.Profile = "tester"
	cfg.Game.Seed = 1
	cfg.Game.StartingLives = 1
	cfg.Game.AI.Agents = 0
	return cfg
}

// loseOnOwnBomb plays a session that ends with the player standing on their
// own bomb.
func loseOnOwnBomb(engine *game.Engine) {
	t0 := time.Unix(0, 0)
	engine.Dispatch(game.Start())
	engine.Tick(t0)
	engine.Dispatch(game.PlaceBomb())
	engine.Tick(t0.Add(engine.Config.BombCountdown))
}

func TestRunFlushesStatsWhenTUIFails(t *testing.T) {
	cfg := testAppConfig(t)

	code := run(cfg, func(engine *game.Engine, src ui.StatsSource) error {
		require.NotNil(t, src)
		loseOnOwnBomb(engine)
		require.Equal(t, game.StatusLost, engine.Status())
		return errors.New("terminal went away")
	})
	assert.Equal(t, 1, code)

	store, err := stats.Open(cfg.Stats.Driver, cfg.Stats.DSN, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	p, err := store.Profile(context.Background(), "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, p.GamesPlayed)
	assert.Zero(t, p.Wins)

	logs, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "session finished")
	assert.Contains(t, string(logs), "tui stopped")
}

func TestRunCleanExit(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.Stats.Enabled = false

	code := run(cfg, func(engine *game.Engine, src ui.StatsSource) error {
		assert.Nil(t, src)
		return nil
	})
	assert.Equal(t, 0, code)
}

func TestRunBadLogPath(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.LogFile = filepath.Join(t.TempDir(), "missing", "dir", "bombarena.log")

	called := false
	code := run(cfg, func(*game.Engine, ui.StatsSource) error {
		called = true
		return nil
	})
	assert.Equal(t, 1, code)
	assert.False(t, called)
}
