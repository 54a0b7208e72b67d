package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amalg/bombarena/internal/game"
)

// ErrNoProfile is returned when a profile has never recorded a game.
var ErrNoProfile = errors.New("stats: no such profile")

// Store persists session summaries and keeps per-profile aggregates.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the stats database and migrates the schema. driver is
// "sqlite" (dsn is a file path, or ":memory:") or "postgres".
func Open(driver, dsn string, log zerolog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unknown stats driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s stats db: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql interface: %w", err)
	}
	if driver == "sqlite" {
		// A single connection keeps ":memory:" databases shared and
		// serializes writers.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(4)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s stats db: %w", driver, err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("migrate stats schema: %w", err)
	}

	log.Info().Str("driver", driver).Msg("stats store ready")
	return &Store{db: db, log: log}, nil
}

// Record stores one session summary for the named profile and folds it into
// the profile's aggregates. Recording the same session twice is a no-op.
func (s *Store) Record(ctx context.Context, profile string, sum game.SessionSummary) (Profile, error) {
	id, err := uuid.Parse(sum.SessionID)
	if err != nil {
		return Profile{}, fmt.Errorf("invalid session id %q: %w", sum.SessionID, err)
	}

	var p Profile
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(Profile{Name: profile}).FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("load profile: %w", err)
		}

		var seen int64
		if err := tx.Model(&SessionRecord{}).Where("session_id = ?", id.String()).Count(&seen).Error; err != nil {
			return fmt.Errorf("check session: %w", err)
		}
		if seen > 0 {
			return nil
		}

		rec := SessionRecord{
			SessionID:  id.String(),
			ProfileID:  p.ID,
			Outcome:    sum.Outcome.String(),
			Kills:      sum.Kills,
			Blocks:     sum.BlocksDestroyed,
			Score:      sum.Score,
			DurationMs: sum.Duration.Milliseconds(),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("insert session: %w", err)
		}

		p.GamesPlayed++
		if sum.Won() {
			p.Wins++
		}
		p.TotalKills += sum.Kills
		p.TotalBlocks += sum.BlocksDestroyed
		if sum.Score > p.HighScore {
			p.HighScore = sum.Score
		}
		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return Profile{}, fmt.Errorf("record session: %w", err)
	}

	s.log.Debug().
		Str("profile", profile).
		Str("session", id.String()).
		Int("games", p.GamesPlayed).
		Msg("session recorded")
	return p, nil
}

// Profile returns the aggregates of the named profile.
func (s *Store) Profile(ctx context.Context, name string) (Profile, error) {
	var p Profile
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, ErrNoProfile
	}
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

// Sessions returns up to limit sessions of the named profile, newest first.
func (s *Store) Sessions(ctx context.Context, name string, limit int) ([]SessionRecord, error) {
	p, err := s.Profile(ctx, name)
	if err != nil {
		return nil, err
	}
	var recs []SessionRecord
	err = s.db.WithContext(ctx).
		Where("profile_id = ?", p.ID).
		Order("id desc").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return recs, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
