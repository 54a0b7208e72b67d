package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/bombarena/internal/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", ":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func summary(outcome game.GameStatus, kills, blocks, score int) game.SessionSummary {
	return game.SessionSummary{
		SessionID:       uuid.NewString(),
		Outcome:         outcome,
		Kills:           kills,
		BlocksDestroyed: blocks,
		Score:           score,
		Duration:        90 * time.Second,
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mysql", "", zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown stats driver")
}

func TestRecord_Aggregates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, "alice", summary(game.StatusWon, 3, 12, 1950))
	require.NoError(t, err)
	p, err := s.Record(ctx, "alice", summary(game.StatusLost, 1, 4, 300))
	require.NoError(t, err)

	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, 2, p.GamesPlayed)
	assert.Equal(t, 1, p.Wins)
	assert.Equal(t, 4, p.TotalKills)
	assert.Equal(t, 16, p.TotalBlocks)
	assert.Equal(t, 1950, p.HighScore)
	assert.InDelta(t, 50.0, p.WinRate(), 1e-9)

	stored, err := s.Profile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, p.GamesPlayed, stored.GamesPlayed)
	assert.Equal(t, p.HighScore, stored.HighScore)

	recs, err := s.Sessions(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "lost", recs[0].Outcome)
	assert.Equal(t, "won", recs[1].Outcome)
	assert.Equal(t, int64(90000), recs[1].DurationMs)
}

func TestRecord_SeparateProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Record(ctx, "alice", summary(game.StatusWon, 3, 12, 1950))
	require.NoError(t, err)
	bob, err := s.Record(ctx, "bob", summary(game.StatusLost, 0, 2, 20))
	require.NoError(t, err)

	assert.Equal(t, 1, bob.GamesPlayed)
	assert.Equal(t, 0, bob.Wins)
	assert.Zero(t, bob.WinRate())
}

func TestRecord_SameSessionTwice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sum := summary(game.StatusWon, 3, 12, 1950)

	_, err := s.Record(ctx, "alice", sum)
	require.NoError(t, err)
	p, err := s.Record(ctx, "alice", sum)
	require.NoError(t, err)

	assert.Equal(t, 1, p.GamesPlayed)
	recs, err := s.Sessions(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestRecord_InvalidSessionID(t *testing.T) {
	s := newTestStore(t)
	sum := summary(game.StatusWon, 0, 0, 0)
	sum.SessionID = "not-a-uuid"

	_, err := s.Record(context.Background(), "alice", sum)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session id")
}

func TestProfile_Unknown(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Profile(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestWinRate(t *testing.T) {
	assert.Zero(t, Profile{}.WinRate())
	assert.InDelta(t, 25.0, Profile{GamesPlayed: 4, Wins: 1}.WinRate(), 1e-9)
}

func TestRecorder_SavesOnClose(t *testing.T) {
	s := newTestStore(t)
	r := NewRecorder(s, "alice", 4, zerolog.Nop())

	r.Submit(summary(game.StatusWon, 2, 5, 1600))
	r.Submit(summary(game.StatusLost, 0, 1, 10))
	r.Close()

	p, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, 2, p.GamesPlayed)

	// Submit after Close is ignored.
	assert.NotPanics(t, func() { r.Submit(summary(game.StatusWon, 0, 0, 0)) })
	assert.NotPanics(t, r.Close)
}

type failingSaver struct {
	err error
}

func (f failingSaver) Record(context.Context, string, game.SessionSummary) (Profile, error) {
	return Profile{}, f.err
}

func TestRecorder_ReportsFailures(t *testing.T) {
	boom := errors.New("db down")
	r := NewRecorder(failingSaver{err: boom}, "alice", 2, zerolog.Nop())

	r.Submit(summary(game.StatusWon, 1, 1, 10))

	select {
	case err := <-r.Errors():
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an error report")
	}
	r.Close()

	_, ok := r.Latest()
	assert.False(t, ok)
}

type blockingSaver struct {
	release chan struct{}
}

func (b blockingSaver) Record(context.Context, string, game.SessionSummary) (Profile, error) {
	<-b.release
	return Profile{}, nil
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	saver := blockingSaver{release: make(chan struct{})}
	r := NewRecorder(saver, "alice", 1, zerolog.Nop())

	// One in flight, one queued, the rest dropped.
	for i := 0; i < 5; i++ {
		r.Submit(summary(game.StatusLost, 0, 0, 0))
	}

	select {
	case err := <-r.Errors():
		assert.ErrorIs(t, err, ErrQueueFull)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a queue-full report")
	}

	close(saver.release)
	r.Close()
}

func TestRecorder_SetLatest(t *testing.T) {
	r := NewRecorder(newTestStore(t), "ace", 4, zerolog.Nop())

	r.SetLatest(Profile{Name: "ace", GamesPlayed: 7})
	p, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, 7, p.GamesPlayed)

	r.Submit(summary(game.StatusWon, 1, 0, 250))
	r.Close()

	// A completed save wins over primed aggregates.
	r.SetLatest(Profile{Name: "ace", GamesPlayed: 99})
	p, _ = r.Latest()
	assert.Equal(t, 1, p.GamesPlayed)
}
