package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/amalg/bombarena/internal/config"
	"github.com/amalg/bombarena/internal/game"
	"github.com/amalg/bombarena/internal/logging"
	"github.com/amalg/bombarena/internal/metrics"
	"github.com/amalg/bombarena/internal/stats"
	"github.com/amalg/bombarena/internal/wire"
)

func main() {
	configPath := flag.String("config", "", "Config file (JSON, TOML or YAML)")
	seed := flag.Int64("seed", 0, "Board seed (0 = config value)")
	player := flag.String("player", "idle", "Player script: idle or random")
	maxTime := flag.Duration("max-time", 10*time.Minute, "Stop after this much game time")
	realtime := flag.Bool("realtime", false, "Tick at wall-clock speed instead of as fast as possible")
	framesPath := flag.String("frames", "", "Write length-prefixed snapshot frames to this file")
	every := flag.Int("every", 1, "Write one snapshot frame every N ticks")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (overrides config)")
	record := flag.Bool("record", false, "Record the session in the stats store")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *player != "idle" && *player != "random" {
		fmt.Fprintf(os.Stderr, "Unknown player script %q\n", *player)
		os.Exit(1)
	}

	log := logging.Console(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, options{
		player:   *player,
		maxTime:  *maxTime,
		realtime: *realtime,
		frames:   *framesPath,
		every:    *every,
		record:   *record,
	}, log); err != nil {
		log.Error().Err(err).Msg("simulation failed")
		os.Exit(1)
	}
}

type options struct {
	player   string
	maxTime  time.Duration
	realtime bool
	frames   string
	every    int
	record   bool
}

func run(ctx context.Context, cfg config.Config, opts options, log zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	gameOpts := []game.Option{
		game.WithLogger(log.With().Str("component", "engine").Logger()),
		game.WithObserver(collector),
	}

	var rec *stats.Recorder
	if opts.record {
		store, err := stats.Open(cfg.Stats.Driver, cfg.Stats.DSN, log.With().Str("component", "stats").Logger())
		if err != nil {
			return err
		}
		defer store.Close()
		rec = stats.NewRecorder(store, cfg.Stats.Profile, cfg.Stats.Queue, log.With().Str("component", "stats").Logger())
		defer rec.Close()
		gameOpts = append(gameOpts, game.WithStats(rec))
	}

	engine := game.NewEngine(cfg.Game, gameOpts...)

	var frames *wire.Writer
	if opts.frames != "" {
		f, err := os.Create(opts.frames)
		if err != nil {
			return fmt.Errorf("create frames file: %w", err)
		}
		defer f.Close()
		buf := bufio.NewWriter(f)
		defer buf.Flush()
		frames = wire.NewWriter(buf)

		every := max(opts.every, 1)
		tick := 0
		engine.OnTick(func(s game.Snapshot) {
			tick++
			if tick%every != 0 && !s.Terminal() {
				return
			}
			if err := frames.Snapshot(s); err != nil {
				log.Error().Err(err).Msg("failed to write frame")
			}
		})
	}

	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		log.Info().Str("addr", cfg.Metrics.Addr).Msg("serving metrics")
	}

	engine.Dispatch(game.Start())
	rng := rand.New(rand.NewSource(cfg.Game.Seed + 1))
	if opts.realtime {
		err = runRealtime(ctx, engine, opts, rng)
	} else {
		err = runFast(ctx, engine, opts, rng)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	sum := engine.Summary()
	log.Info().
		Str("session", sum.SessionID).
		Str("outcome", sum.Outcome.String()).
		Dur("game_time", sum.Duration).
		Int("kills", sum.Kills).
		Int("blocks", sum.BlocksDestroyed).
		Int("score", sum.Score).
		Msg("simulation done")

	if frames != nil {
		if err := frames.Summary(sum); err != nil {
			return err
		}
		log.Info().Int("frames", frames.Frames()).Str("file", opts.frames).Msg("frames written")
	}

	if srv != nil {
		if ctx.Err() == nil {
			log.Info().Msg("metrics stay up until interrupted")
			<-ctx.Done()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}

// runFast feeds the engine synthetic timestamps one frame apart, without
// sleeping, until the session ends or maxTime of game time has elapsed.
func runFast(ctx context.Context, engine *game.Engine, opts options, rng *rand.Rand) error {
	frame := time.Second / time.Duration(max(engine.Config.TickRate, 1))
	ts := time.Unix(0, 0)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i%actEvery(frame) == 0 {
			act(engine, opts.player, rng)
		}
		engine.Tick(ts)
		if engine.Status().Terminal() || engine.Summary().Duration >= opts.maxTime {
			return nil
		}
		ts = ts.Add(frame)
	}
}

// runRealtime lets the engine drive itself at wall-clock speed.
func runRealtime(ctx context.Context, engine *game.Engine, opts options, rng *rand.Rand) error {
	ctx, cancel := context.WithTimeout(ctx, opts.maxTime)
	defer cancel()

	go func() {
		ticker := time.NewTicker(playerStep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if engine.Status().Terminal() {
					cancel()
					return
				}
				act(engine, opts.player, rng)
			}
		}
	}()

	err := engine.Run(ctx, 0)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// playerStep is how often the scripted player acts.
const playerStep = 250 * time.Millisecond

func actEvery(frame time.Duration) int {
	return max(int(playerStep/frame), 1)
}

// act queues the scripted player's next command.
func act(engine *game.Engine, script string, rng *rand.Rand) {
	if script != "random" {
		return
	}
	if rng.Float64() < 0.15 {
		engine.Enqueue(game.PlaceBomb())
		return
	}
	engine.Enqueue(game.Move(game.Directions[rng.Intn(len(game.Directions))]))
}
