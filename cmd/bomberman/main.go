package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/amalg/bombarena/internal/audio"
	"github.com/amalg/bombarena/internal/config"
	"github.com/amalg/bombarena/internal/game"
	"github.com/amalg/bombarena/internal/logging"
	"github.com/amalg/bombarena/internal/stats"
	"github.com/amalg/bombarena/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Config file (JSON, TOML or YAML)")
	profile := flag.String("profile", "", "Stats profile name (overrides config)")
	seed := flag.Int64("seed", 0, "Board seed (0 = config value)")
	agents := flag.Int("agents", -1, "Number of AI opponents, 0-3 (-1 = config value)")
	mute := flag.Bool("mute", false, "Disable sound")
	noStats := flag.Bool("no-stats", false, "Do not record session stats")
	logFile := flag.String("log", "", "Log file path (overrides config; default: discard logs)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *profile != "" {
		cfg.Stats.Profile = *profile
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	if *agents >= 0 {
		cfg.Game.AI.Agents = *agents
	}
	if *mute {
		cfg.Audio.Enabled = false
	}
	if *noStats {
		cfg.Stats.Enabled = false
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(cfg, runTUI))
}

// runTUI takes over the terminal until the player quits.
func runTUI(engine *game.Engine, src ui.StatsSource) error {
	p := tea.NewProgram(ui.NewModel(engine, src), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// run wires the collaborators around a fresh engine and hands it to play.
// Every collaborator is released before run returns, so queued stats are
// flushed even when play fails.
func run(cfg config.Config, play func(*game.Engine, ui.StatsSource) error) int {
	// Logs must never reach the terminal: any stderr output corrupts
	// Bubbletea's rendering.
	out, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return 1
	}
	defer out.Close()
	log := logging.New(out, cfg.LogLevel)

	sound, closeAudio := audio.Open(cfg.Audio.Enabled, cfg.Audio.Volume, log.With().Str("component", "audio").Logger())
	defer closeAudio()

	opts := []game.Option{
		game.WithLogger(log.With().Str("component", "engine").Logger()),
		game.WithSound(sound),
	}

	var src ui.StatsSource
	if cfg.Stats.Enabled {
		if rec, closeStats := openStats(cfg.Stats, log); rec != nil {
			defer closeStats()
			opts = append(opts, game.WithStats(rec))
			src = rec
		}
	}

	engine := game.NewEngine(cfg.Game, opts...)

	if err := play(engine, src); err != nil {
		log.Error().Err(err).Msg("tui stopped")
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return 1
	}
	return 0
}

// openStats connects the stats store and starts its recorder. A store that
// cannot be opened disables stats for this run.
func openStats(cfg config.StatsConfig, log zerolog.Logger) (*stats.Recorder, func()) {
	statsLog := log.With().Str("component", "stats").Logger()
	store, err := stats.Open(cfg.Driver, cfg.DSN, statsLog)
	if err != nil {
		statsLog.Error().Err(err).Msg("stats disabled")
		return nil, nil
	}
	rec := stats.NewRecorder(store, cfg.Profile, cfg.Queue, statsLog)
	if p, err := store.Profile(context.Background(), cfg.Profile); err == nil {
		rec.SetLatest(p)
	}
	return rec, func() {
		rec.Close()
		if err := store.Close(); err != nil {
			statsLog.Error().Err(err).Msg("failed to close stats store")
		}
	}
}
