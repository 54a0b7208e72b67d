package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/bombarena/internal/game"
	"github.com/amalg/bombarena/internal/stats"
)

// frameMsg carries the timestamp of one animation frame.
type frameMsg time.Time

// statsErrMsg carries a persistence failure reported by the stats recorder.
type statsErrMsg struct{ err error }

// StatsSource exposes the saved profile aggregates to the HUD.
type StatsSource interface {
	Latest() (stats.Profile, bool)
	Errors() <-chan error
}

// Model is the Bubbletea model for the local game. The terminal's frame
// timer is the engine's only time source.
type Model struct {
	engine   *game.Engine
	interval time.Duration
	stats    StatsSource

	snap     game.Snapshot
	profile  *stats.Profile
	statsErr error
	quitting bool
}

// NewModel creates a TUI model driving engine at the configured tick rate.
// src may be nil when stats are disabled.
func NewModel(engine *game.Engine, src StatsSource) Model {
	rate := engine.Config.TickRate
	if rate <= 0 {
		rate = game.DefaultConfig().TickRate
	}
	return Model{
		engine:   engine,
		interval: time.Second / time.Duration(rate),
		stats:    src,
		snap:     engine.Snapshot(),
	}
}

// Init starts the frame timer and, if configured, listens for stats errors.
func (m Model) Init() tea.Cmd {
	return tea.Batch(nextFrame(m.interval), waitForStatsErr(m.stats))
}

// Update handles key presses, frames and stats failures.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		m.engine.Tick(time.Time(msg))
		m.snap = m.engine.Snapshot()
		if m.stats != nil {
			if p, ok := m.stats.Latest(); ok {
				m.profile = &p
			}
		}
		return m, nextFrame(m.interval)

	case statsErrMsg:
		m.statsErr = msg.err
		return m, waitForStatsErr(m.stats)
	}

	return m, nil
}

// View renders the current snapshot.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye! 👋\n"
	}

	board := RenderBoard(m.snap)
	hud := RenderHUD(m.snap, m.profile, m.statsErr)

	// Layout: board on the left, HUD on the right
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		board,
		"  ",
		hud,
	) + "\n"
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	if cmd, ok := KeyCommand(msg.String(), m.snap.Status); ok {
		m.engine.Dispatch(cmd)
		m.snap = m.engine.Snapshot()
	}
	return m, nil
}

// KeyCommand maps a key to the engine command it triggers in the given state.
func KeyCommand(key string, status game.GameStatus) (game.Command, bool) {
	switch key {
	case "up", "w":
		return game.Move(game.DirUp), true
	case "down", "s":
		return game.Move(game.DirDown), true
	case "left", "a":
		return game.Move(game.DirLeft), true
	case "right", "d":
		return game.Move(game.DirRight), true
	case " ":
		return game.PlaceBomb(), true
	case "enter":
		return game.Start(), true
	case "r":
		return game.Reset(), true
	case "p", "esc":
		switch status {
		case game.StatusRunning:
			return game.Pause(), true
		case game.StatusPaused:
			return game.Start(), true
		}
	}
	return game.Command{}, false
}

func nextFrame(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// waitForStatsErr returns a Cmd that waits for the next stats failure.
func waitForStatsErr(src StatsSource) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-src.Errors()
		if !ok {
			return nil
		}
		return statsErrMsg{err: err}
	}
}
