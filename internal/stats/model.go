package stats

import (
	"gorm.io/gorm"
)

// Models lists every table of the stats schema.
var Models = []interface{}{
	&Profile{},
	&SessionRecord{},
}

// Profile is the lifetime aggregate of one local player.
type Profile struct {
	gorm.Model
	Name        string `json:"name" gorm:"size:64;uniqueIndex"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	TotalKills  int    `json:"totalKills"`
	TotalBlocks int    `json:"totalBlocks"`
	HighScore   int    `json:"highScore"`
}

func (*Profile) TableName() string {
	return "profiles"
}

// WinRate returns the share of games won, as a percentage.
func (p Profile) WinRate() float64 {
	if p.GamesPlayed == 0 {
		return 0
	}
	return float64(p.Wins) * 100 / float64(p.GamesPlayed)
}

// SessionRecord is one finished game.
type SessionRecord struct {
	gorm.Model
	SessionID  string `json:"sessionId" gorm:"size:36;uniqueIndex"`
	ProfileID  uint   `json:"profileId" gorm:"index"`
	Outcome    string `json:"outcome" gorm:"size:16"`
	Kills      int    `json:"kills"`
	Blocks     int    `json:"blocks"`
	Score      int    `json:"score"`
	DurationMs int64  `json:"durationMs"`
}

func (*SessionRecord) TableName() string {
	return "sessions"
}
