package flights

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Domenick1991/airfare/internal/clock"
	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/pricing"
	"github.com/Domenick1991/airfare/internal/repository"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 500
)

var ErrInvalidLimit = fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrValidation, MaxHistoryLimit)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Quote(ctx context.Context, id int64) (*QuoteResult, error)
	FareHistory(ctx context.Context, id int64, limit int) ([]domain.PriceAudit, error)
	Demand(ctx context.Context, id int64) (*domain.DemandScore, error)
}

// FlightCache is the read-side cache. Errors are treated as misses.
type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	GetQuote(ctx context.Context, flightID int64) (*pricing.Quote, error)
	SetQuote(ctx context.Context, flightID int64, quote pricing.Quote) error
}

type FlightService struct {
	flights repository.FlightRepository
	audits  repository.AuditRepository
	demand  repository.DemandRepository
	engine  *pricing.Engine
	cache   FlightCache
	clock   clock.Clock
	log     *slog.Logger
}

type FlightServiceOption func(*FlightService)

func WithCache(c FlightCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = c
	}
}

func WithClock(c clock.Clock) FlightServiceOption {
	return func(s *FlightService) {
		s.clock = c
	}
}

func WithLogger(l *slog.Logger) FlightServiceOption {
	return func(s *FlightService) {
		s.log = l
	}
}

func NewFlightService(store repository.Store, engine *pricing.Engine, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{
		flights: store.Flights,
		audits:  store.Audits,
		demand:  store.Demand,
		engine:  engine,
		clock:   clock.NewSystem(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "flight_service")
	return s
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Warn("cache flights", "error", err)
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidFlightID
	}
	return s.flights.GetByID(ctx, id)
}

// QuoteResult is a read-only price for a flight. It is never persisted.
type QuoteResult struct {
	FlightID            int64             `json:"flight_id"`
	PriceCents          int64             `json:"price_cents"`
	PublishedPriceCents int64             `json:"published_price_cents"`
	AvailableSeats      int               `json:"available_seats"`
	Breakdown           pricing.Breakdown `json:"breakdown"`
	Cached              bool              `json:"cached"`
}

func (s *FlightService) Quote(ctx context.Context, id int64) (*QuoteResult, error) {
	flight, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := &QuoteResult{
		FlightID:            flight.ID,
		PublishedPriceCents: flight.PriceCents,
		AvailableSeats:      flight.AvailableSeats,
	}

	if s.cache != nil {
		if cached, err := s.cache.GetQuote(ctx, id); err == nil && cached != nil {
			result.PriceCents = cached.PriceCents
			result.Breakdown = cached.Breakdown
			result.Cached = true
			return result, nil
		}
	}

	var score *float64
	d, err := s.demand.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d != nil {
		score = &d.Score
	}

	quote := s.engine.Quote(pricing.InputFromFlight(*flight), score, s.clock.Now())
	if s.cache != nil {
		if err := s.cache.SetQuote(ctx, id, quote); err != nil {
			s.log.Warn("cache quote", "flight_id", id, "error", err)
		}
	}
	result.PriceCents = quote.PriceCents
	result.Breakdown = quote.Breakdown
	return result, nil
}

// FareHistory returns the newest audit rows first. A zero limit means the default.
func (s *FlightService) FareHistory(ctx context.Context, id int64, limit int) ([]domain.PriceAudit, error) {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, ErrInvalidLimit
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	audits, err := s.audits.ListByFlight(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	if audits == nil {
		audits = []domain.PriceAudit{}
	}
	return audits, nil
}

// Demand returns the stored score, or a neutral zero score when none exists yet.
func (s *FlightService) Demand(ctx context.Context, id int64) (*domain.DemandScore, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	d, err := s.demand.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return &domain.DemandScore{FlightID: id}, nil
	}
	return d, nil
}

var _ FlightUseCase = (*FlightService)(nil)
