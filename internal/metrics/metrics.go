package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amalg/bombarena/internal/game"
)

// Collector bundles the simulation's Prometheus metrics. It implements
// game.Observer so an engine can drive it directly.
type Collector struct {
	gatherer prometheus.Gatherer

	Ticks            prometheus.Counter
	TickDuration     prometheus.Histogram
	Events           *prometheus.CounterVec
	ChainDetonations prometheus.Counter
	Sessions         *prometheus.CounterVec
}

var _ game.Observer = (*Collector)(nil)

// NewCollector registers the metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bombarena_ticks_total",
		Help: "Total number of processed simulation frames.",
	}), "bombarena_ticks_total")
	if err != nil {
		return nil, err
	}

	tickDuration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bombarena_tick_duration_seconds",
		Help:    "Wall time spent processing one simulation frame.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}), "bombarena_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	events, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bombarena_events_total",
		Help: "Simulation events, labeled by kind.",
	}, []string{"kind"}), "bombarena_events_total")
	if err != nil {
		return nil, err
	}

	chains, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bombarena_chain_detonations_total",
		Help: "Detonations triggered by another bomb's blast.",
	}), "bombarena_chain_detonations_total")
	if err != nil {
		return nil, err
	}

	sessions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bombarena_sessions_total",
		Help: "Finished sessions, labeled by outcome.",
	}, []string{"outcome"}), "bombarena_sessions_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		Ticks:            ticks,
		TickDuration:     tickDuration,
		Events:           events,
		ChainDetonations: chains,
		Sessions:         sessions,
	}, nil
}

// OnTick records one processed frame.
func (c *Collector) OnTick(elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Ticks.Inc()
	c.TickDuration.Observe(elapsed.Seconds())
}

// OnEvent counts a simulation event.
func (c *Collector) OnEvent(ev game.Event) {
	if c == nil {
		return
	}
	c.Events.WithLabelValues(ev.Kind.String()).Inc()
	switch ev.Kind {
	case game.EventDetonation:
		if ev.Chain {
			c.ChainDetonations.Inc()
		}
	case game.EventSessionWon:
		c.Sessions.WithLabelValues(game.StatusWon.String()).Inc()
	case game.EventSessionLost:
		c.Sessions.WithLabelValues(game.StatusLost.String()).Inc()
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// register adds a collector to reg, reusing an identical collector that is
// already registered under the same name.
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
