package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/amalg/bombarena/internal/game"
)

// EnvPrefix prefixes every environment override, e.g. BOMBARENA_GAME_SEED.
const EnvPrefix = "BOMBARENA"

// StatsConfig holds the persistent statistics backend settings.
type StatsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Driver  string `json:"driver" mapstructure:"driver"` // sqlite or postgres
	DSN     string `json:"dsn" mapstructure:"dsn"`
	Profile string `json:"profile" mapstructure:"profile"`
	Queue   int    `json:"queue" mapstructure:"queue"`
}

// AudioConfig holds sound settings.
type AudioConfig struct {
	Enabled bool    `json:"enabled" mapstructure:"enabled"`
	Volume  float64 `json:"volume" mapstructure:"volume"`
}

// MetricsConfig holds the prometheus endpoint settings. An empty Addr
// disables the endpoint.
type MetricsConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// Config is the full application configuration.
type Config struct {
	Game     game.GameConfig `json:"game" mapstructure:"game"`
	LogLevel string          `json:"logLevel" mapstructure:"logLevel"`
	LogFile  string          `json:"logFile" mapstructure:"logFile"`
	Stats    StatsConfig     `json:"stats" mapstructure:"stats"`
	Audio    AudioConfig     `json:"audio" mapstructure:"audio"`
	Metrics  MetricsConfig   `json:"metrics" mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	g := game.DefaultConfig()

	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile", "")

	v.SetDefault("game.width", g.Width)
	v.SetDefault("game.height", g.Height)
	v.SetDefault("game.bombCountdown", g.BombCountdown)
	v.SetDefault("game.explosionDuration", g.ExplosionDuration)
	v.SetDefault("game.powerUpSeedBuffer", g.PowerUpSeedBuffer)
	v.SetDefault("game.placementCooldown", g.PlacementCooldown)
	v.SetDefault("game.startingLives", g.StartingLives)
	v.SetDefault("game.bombCapacity", g.BombCapacity)
	v.SetDefault("game.blastRadius", g.BlastRadius)
	v.SetDefault("game.speed", g.Speed)
	v.SetDefault("game.destructibleDensity", g.DestructibleDensity)
	v.SetDefault("game.powerUpChance", g.PowerUpChance)
	v.SetDefault("game.tickRate", g.TickRate)
	v.SetDefault("game.seed", g.Seed)

	v.SetDefault("game.ai.agents", g.AI.Agents)
	v.SetDefault("game.ai.moveInterval", g.AI.MoveInterval)
	v.SetDefault("game.ai.moveIntervalStep", g.AI.MoveIntervalStep)
	v.SetDefault("game.ai.bombCooldown", g.AI.BombCooldown)
	v.SetDefault("game.ai.bombCooldownStep", g.AI.BombCooldownStep)
	v.SetDefault("game.ai.dangerRadius", g.AI.DangerRadius)
	v.SetDefault("game.ai.chaseChance", g.AI.ChaseChance)
	v.SetDefault("game.ai.attackChance", g.AI.AttackChance)
	v.SetDefault("game.ai.attackReach", g.AI.AttackReach)
	v.SetDefault("game.ai.breakChance", g.AI.BreakChance)
	v.SetDefault("game.ai.bombDangerWeight", g.AI.BombDangerWeight)
	v.SetDefault("game.ai.explosionDangerMax", g.AI.ExplosionDangerMax)

	v.SetDefault("stats.enabled", true)
	v.SetDefault("stats.driver", "sqlite")
	v.SetDefault("stats.dsn", "bombarena.db")
	v.SetDefault("stats.profile", "player")
	v.SetDefault("stats.queue", 16)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", 0.8)

	v.SetDefault("metrics.addr", "")
}

// Load reads the configuration. Every field has a default; path, when set,
// names a JSON, TOML or YAML file whose values override the defaults, and a
// missing file is not an error. BOMBARENA_* environment variables override
// both.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with.
func (c Config) Validate() error {
	g := c.Game
	switch {
	case g.Width < 5 || g.Height < 5:
		return fmt.Errorf("invalid config: board %dx%d is smaller than 5x5", g.Width, g.Height)
	case g.TickRate <= 0:
		return fmt.Errorf("invalid config: tick rate %d", g.TickRate)
	case g.DestructibleDensity < 0 || g.DestructibleDensity > 1:
		return fmt.Errorf("invalid config: destructible density %v outside [0,1]", g.DestructibleDensity)
	case g.PowerUpChance < 0 || g.PowerUpChance > 1:
		return fmt.Errorf("invalid config: power-up chance %v outside [0,1]", g.PowerUpChance)
	case g.StartingLives <= 0:
		return fmt.Errorf("invalid config: starting lives %d", g.StartingLives)
	case g.Width%2 == 0 || g.Height%2 == 0:
		// Spawn corners sit on pillars when a dimension is even.
		return fmt.Errorf("invalid config: board %dx%d must have odd dimensions", g.Width, g.Height)
	case g.BombCountdown <= 0:
		return fmt.Errorf("invalid config: bomb countdown %v must be positive", g.BombCountdown)
	case g.ExplosionDuration <= 0:
		return fmt.Errorf("invalid config: explosion duration %v must be positive", g.ExplosionDuration)
	case g.PlacementCooldown < 0:
		return fmt.Errorf("invalid config: placement cooldown %v is negative", g.PlacementCooldown)
	case g.PowerUpSeedBuffer < 0:
		return fmt.Errorf("invalid config: power-up seed buffer %v is negative", g.PowerUpSeedBuffer)
	case g.AI.Agents < 0 || g.AI.Agents > 3:
		return fmt.Errorf("invalid config: %d agents, want 0..3", g.AI.Agents)
	}

	if n := g.AI.Agents; n > 0 {
		fastest := g.AI.MoveInterval - time.Duration(n-1)*g.AI.MoveIntervalStep
		if g.AI.MoveInterval <= 0 || fastest <= 0 {
			return fmt.Errorf("invalid config: agent %d move interval %v must be positive", n, fastest)
		}
		shortest := min(g.AI.BombCooldown, g.AI.BombCooldown+time.Duration(n-1)*g.AI.BombCooldownStep)
		if shortest < 0 {
			return fmt.Errorf("invalid config: agent bomb cooldown %v is negative", shortest)
		}
	}

	switch c.Stats.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid config: unknown stats driver %q", c.Stats.Driver)
	}
	return nil
}
