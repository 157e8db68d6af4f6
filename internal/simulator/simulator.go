// Package simulator drives synthetic demand: walk-up sales and a random walk
// of each flight's demand score, republishing prices when the engine allows.
package simulator

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/clock"
	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/kafka"
	"github.com/Domenick1991/airfare/internal/metrics"
	"github.com/Domenick1991/airfare/internal/pricing"
	"github.com/Domenick1991/airfare/internal/repository"
)

const (
	initialDemandMax = 0.15
	demandStepMin    = -0.03
	demandStepMax    = 0.12

	defaultInterval = 10 * time.Second
)

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
	InvalidateQuote(ctx context.Context, flightID int64) error
}

type Simulator struct {
	store    repository.Store
	engine   *pricing.Engine
	cfg      config.SimulatorConfig
	clock    clock.Clock
	producer Producer
	topic    string
	cache    Cache
	metrics  *metrics.Metrics
	log      *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	running  atomic.Bool
	ticks    atomic.Int64
	lastTick atomic.Pointer[time.Time]
}

type Option func(*Simulator)

func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		s.rng = r
	}
}

func WithClock(c clock.Clock) Option {
	return func(s *Simulator) {
		s.clock = c
	}
}

func WithProducer(p Producer, priceTopic string) Option {
	return func(s *Simulator) {
		s.producer = p
		s.topic = priceTopic
	}
}

func WithCache(c Cache) Option {
	return func(s *Simulator) {
		s.cache = c
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Simulator) {
		s.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		s.log = l
	}
}

func New(store repository.Store, engine *pricing.Engine, cfg config.SimulatorConfig, opts ...Option) *Simulator {
	s := &Simulator{
		store:  store,
		engine: engine,
		cfg:    cfg,
		clock:  clock.NewSystem(),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.log = s.log.With("component", "simulator")
	return s
}

// Status is a point-in-time view of the worker.
type Status struct {
	Running  bool          `json:"running"`
	Interval time.Duration `json:"interval"`
	Ticks    int64         `json:"ticks"`
	LastTick *time.Time    `json:"last_tick,omitempty"`
}

func (s *Simulator) Status() Status {
	return Status{
		Running:  s.running.Load(),
		Interval: s.cfg.Interval(),
		Ticks:    s.ticks.Load(),
		LastTick: s.lastTick.Load(),
	}
}

// Run ticks every interval until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("simulator already running")
	}
	defer s.running.Store(false)

	interval := s.cfg.Interval()
	if interval <= 0 {
		interval = defaultInterval
	}
	s.log.Info("simulator started", "interval", interval, "batch_size", s.cfg.BatchSize)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("simulator stopped")
			return nil
		case <-ticker.C:
			res, err := s.Tick(ctx)
			if err != nil {
				s.log.Warn("simulator tick", "error", err)
				continue
			}
			s.log.Debug("simulator tick", "sampled", res.Sampled, "published", res.Published, "walk_up_seats", res.WalkUpSeats)
		}
	}
}

// TickResult summarizes one pass over the sampled flights.
type TickResult struct {
	Sampled     int `json:"sampled"`
	Published   int `json:"published"`
	Refreshed   int `json:"refreshed"`
	WalkUpSeats int `json:"walk_up_seats"`
}

type stepResult struct {
	walkUp    int
	published bool
	refreshed bool
	oldPrice  int64
	newPrice  int64
}

// Tick processes one batch. A failing flight does not stop the batch; the
// failures are joined into the returned error.
func (s *Simulator) Tick(ctx context.Context) (TickResult, error) {
	var res TickResult
	ids, err := s.store.Flights.ListIDs(ctx)
	if err != nil {
		return res, err
	}
	batch := s.sample(ids)
	res.Sampled = len(batch)

	var errs []error
	for _, id := range batch {
		step, err := s.step(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res.WalkUpSeats += step.walkUp
		if step.refreshed {
			res.Refreshed++
		}
		if step.published {
			res.Published++
			s.metrics.IncPricePublished(domain.AuditReasonSimulator)
			s.publishPrice(ctx, id, step.oldPrice, step.newPrice)
		}
		if step.published || step.walkUp > 0 {
			s.invalidate(ctx, id)
		}
	}

	now := s.clock.Now()
	s.ticks.Add(1)
	s.lastTick.Store(&now)
	s.metrics.IncSimulatorTick()
	return res, errors.Join(errs...)
}

func (s *Simulator) step(ctx context.Context, flightID int64) (stepResult, error) {
	var out stepResult
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		out = stepResult{}
		flight, err := s.store.Flights.GetForUpdate(ctx, flightID)
		if err != nil {
			return err
		}
		now := s.clock.Now()

		if seats := s.walkUpSeats(); seats > 0 {
			held, err := s.store.Bookings.SumActiveHolds(ctx, flight.ID, now, 0)
			if err != nil {
				return err
			}
			free := flight.AvailableSeats - held
			if seats > free {
				seats = free
			}
			if seats > 0 {
				if err := s.store.Flights.AdjustAvailable(ctx, flight.ID, -seats); err != nil {
					return err
				}
				flight.AvailableSeats -= seats
				out.walkUp = seats
			}
		}

		current, err := s.store.Demand.Get(ctx, flight.ID)
		if err != nil {
			return err
		}
		score := s.nextDemand(current)
		if err := s.store.Demand.Upsert(ctx, domain.DemandScore{FlightID: flight.ID, Score: score, UpdatedAt: now}); err != nil {
			return err
		}

		if !s.engine.ShouldPublish(flight.LastPriceUpdate, now) {
			return nil
		}
		quote := s.engine.Quote(pricing.InputFromFlight(*flight), &score, now)
		if !s.engine.Significant(flight.PriceCents, quote.PriceCents, flight.BasePriceCents) {
			out.refreshed = true
			return s.store.Flights.TouchPriceUpdate(ctx, flight.ID, now)
		}

		if err := s.store.Audits.Append(ctx, &domain.PriceAudit{
			FlightID:      flight.ID,
			OldPriceCents: flight.PriceCents,
			NewPriceCents: quote.PriceCents,
			Reason:        domain.AuditReasonSimulator,
			ChangedAt:     now,
		}); err != nil {
			return err
		}
		if err := s.store.Flights.UpdatePrice(ctx, flight.ID, quote.PriceCents, now); err != nil {
			return err
		}
		out.published = true
		out.oldPrice = flight.PriceCents
		out.newPrice = quote.PriceCents
		return nil
	})
	return out, err
}

func (s *Simulator) sample(ids []int64) []int64 {
	n := s.cfg.BatchSize
	if n <= 0 || n >= len(ids) {
		return ids
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	picked := make([]int64, 0, n)
	for _, i := range s.rng.Perm(len(ids))[:n] {
		picked = append(picked, ids[i])
	}
	return picked
}

// walkUpSeats draws the size of a walk-up sale, zero when none happens.
func (s *Simulator) walkUpSeats() int {
	if s.cfg.WalkUpProbability <= 0 || s.cfg.WalkUpMaxSeats <= 0 {
		return 0
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	if s.rng.Float64() >= s.cfg.WalkUpProbability {
		return 0
	}
	return 1 + s.rng.IntN(s.cfg.WalkUpMaxSeats)
}

func (s *Simulator) nextDemand(current *domain.DemandScore) float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	if current == nil {
		return s.rng.Float64() * initialDemandMax
	}
	next := current.Score + demandStepMin + s.rng.Float64()*(demandStepMax-demandStepMin)
	return min(1, max(0, next))
}

func (s *Simulator) publishPrice(ctx context.Context, flightID, oldCents, newCents int64) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.PriceChangedEvent{
		EventID:       kafka.NewEventID(),
		Type:          kafka.EventPriceChanged,
		FlightID:      flightID,
		OldPriceCents: oldCents,
		NewPriceCents: newCents,
		Reason:        domain.AuditReasonSimulator,
		OccurredAt:    s.clock.Now(),
	}
	if err := s.producer.Publish(ctx, s.topic, strconv.FormatInt(flightID, 10), event); err != nil {
		s.log.Warn("failed to publish price event", "flight_id", flightID, "error", err)
	}
}

func (s *Simulator) invalidate(ctx context.Context, flightID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("invalidate flights cache", "error", err)
	}
	if err := s.cache.InvalidateQuote(ctx, flightID); err != nil {
		s.log.Warn("invalidate quote cache", "flight_id", flightID, "error", err)
	}
}
