package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/bombarena/internal/game"
	"github.com/amalg/bombarena/internal/stats"
)

// Color palette
var (
	background = lipgloss.Color("#1a1a2e")

	// Tile styles
	hardWallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#555555"))

	softWallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B6914")).
			Foreground(lipgloss.Color("#A0772B"))

	emptyStyle = lipgloss.NewStyle().
			Background(background).
			Foreground(background)

	bombStyle = lipgloss.NewStyle().
			Background(background).
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	fireStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff6600")).
			Foreground(lipgloss.Color("#ffcc00")).
			Bold(true)

	powerUpStyle = lipgloss.NewStyle().
			Background(background).
			Foreground(lipgloss.Color("#44ddff")).
			Bold(true)

	playerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#00ff88")).
			Foreground(lipgloss.Color("#00ff88"))

	// Agent colors, one per roster slot
	agentColors = []lipgloss.Color{
		lipgloss.Color("#4488ff"), // Blue
		lipgloss.Color("#ff44ff"), // Magenta
		lipgloss.Color("#ffff44"), // Yellow
	}

	// HUD styles
	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44aaff")).
			Bold(true)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true).
			Blink(true)

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// glyphs are the two-character renderings of every board cell kind.
var glyphs = map[game.CellKind]string{
	game.CellExplosionCenter:     "✹✹",
	game.CellExplosionHorizontal: "══",
	game.CellExplosionVertical:   "║║",
	game.CellExplosionTipLeft:    "◀═",
	game.CellExplosionTipRight:   "═▶",
	game.CellExplosionTipUp:      "▲▲",
	game.CellExplosionTipDown:    "▼▼",
	game.CellPowerUpBomb:         "B+",
	game.CellPowerUpRange:        "R+",
	game.CellPowerUpSpeed:        "S+",
}

// RenderBoard converts a snapshot into a styled terminal string.
func RenderBoard(snap game.Snapshot) string {
	if len(snap.Board) == 0 {
		return "Generating board..."
	}

	agents := make(map[game.Position]int, len(snap.Agents))
	for _, a := range snap.Agents {
		agents[a.Pos] = int(a.ID)
	}

	rows := make([]string, 0, snap.Height)
	for y := 0; y < snap.Height; y++ {
		var cells strings.Builder
		for x := 0; x < snap.Width; x++ {
			pos := game.Position{X: x, Y: y}
			cells.WriteString(renderCell(snap.CellAt(x, y), pos, snap.Player.Pos, agents))
		}
		rows = append(rows, cells.String())
	}
	return strings.Join(rows, "\n")
}

// renderCell renders a single board cell with the appropriate style.
// Each cell is 2 characters wide for a square-ish appearance.
func renderCell(kind game.CellKind, pos, player game.Position, agents map[game.Position]int) string {
	// Priority: Player > Agent > Cell
	if pos == player {
		return playerStyle.Render("██")
	}
	if id, ok := agents[pos]; ok {
		color := agentColors[(id-1+len(agentColors))%len(agentColors)]
		return lipgloss.NewStyle().
			Background(background).
			Foreground(color).
			Bold(true).
			Render(fmt.Sprintf("A%d", id))
	}

	switch {
	case kind == game.CellWall:
		return hardWallStyle.Render("██")
	case kind == game.CellDestructible:
		return softWallStyle.Render("▒▒")
	case kind == game.CellBomb:
		return bombStyle.Render("()")
	case kind.IsExplosion():
		return fireStyle.Render(glyphs[kind])
	case kind.IsPowerUp():
		return powerUpStyle.Render(glyphs[kind])
	default:
		return emptyStyle.Render("  ")
	}
}

// RenderHUD renders the heads-up display: session status, player state and
// the saved profile when stats are enabled.
func RenderHUD(snap game.Snapshot, profile *stats.Profile, statsErr error) string {
	var parts []string

	parts = append(parts, titleStyle.Render("💣 BOMBARENA"))
	parts = append(parts, "")

	switch snap.Status {
	case game.StatusIdle:
		parts = append(parts, idleStyle.Render("⏳ READY"))
		parts = append(parts, "   Press [Enter] to start!")
	case game.StatusRunning:
		parts = append(parts, errorStyle.Render("🔥 GAME IN PROGRESS"))
	case game.StatusPaused:
		parts = append(parts, idleStyle.Render("⏸  PAUSED"))
		parts = append(parts, "   Press [P] to resume")
	case game.StatusWon:
		parts = append(parts, winnerStyle.Render("🏆 YOU WIN!"))
		parts = append(parts, "   Press [R] to play again")
	case game.StatusLost:
		parts = append(parts, dimStyle.Render("💀 GAME OVER"))
		parts = append(parts, "   Press [R] to play again")
	}
	parts = append(parts, "")

	p := snap.Player
	parts = append(parts,
		fmt.Sprintf("Time    %s", FormatGameTime(snap.GameTime)),
		fmt.Sprintf("Lives   %s", strings.Repeat("❤️ ", p.Lives)),
		fmt.Sprintf("Bombs   💣×%d  🔥%d  ⚡%.1f", p.PowerUps.BombCapacity, p.PowerUps.BlastRadius, p.PowerUps.Speed),
		fmt.Sprintf("Enemies %d", len(snap.Agents)),
	)

	if profile != nil {
		parts = append(parts, "")
		parts = append(parts, dimStyle.Render("Profile:"))
		parts = append(parts,
			fmt.Sprintf("  %s  %d games, %.0f%% won", profile.Name, profile.GamesPlayed, profile.WinRate()),
			fmt.Sprintf("  high score %d", profile.HighScore),
		)
	}
	if statsErr != nil {
		parts = append(parts, errorStyle.Render("stats: "+statsErr.Error()))
	}

	parts = append(parts, "")
	parts = append(parts, dimStyle.Render("WASD/Arrows: Move | Space: Bomb | P: Pause | R: Reset | Q: Quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}

// FormatGameTime renders elapsed game time as MM:SS.
func FormatGameTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
