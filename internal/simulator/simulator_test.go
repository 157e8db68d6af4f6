package simulator

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/clock"
	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/kafka"
	"github.com/Domenick1991/airfare/internal/metrics"
	"github.com/Domenick1991/airfare/internal/pricing"
	"github.com/Domenick1991/airfare/internal/repository"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	return m.Called(ctx, topic, key, value).Error(0)
}

var start = time.Date(2026, 7, 1, 6, 0, 0, 0, time.UTC)

func quietConfig() config.SimulatorConfig {
	return config.SimulatorConfig{IntervalSeconds: 1, BatchSize: 10}
}

func newSimulator(mem *repository.MemoryStore, clk clock.Clock, cfg config.SimulatorConfig, pcfg config.PricingConfig, opts ...Option) *Simulator {
	opts = append([]Option{
		WithRand(rand.New(rand.NewPCG(7, 11))),
		WithClock(clk),
	}, opts...)
	return New(mem.Store(), pricing.NewEngine(pcfg), cfg, opts...)
}

func addFlight(mem *repository.MemoryStore, seats int, departure time.Time) int64 {
	return mem.AddFlight(domain.Flight{
		FlightNumber:   "BA117",
		Origin:         "LHR",
		Destination:    "JFK",
		DepartureTime:  departure,
		TotalSeats:     seats,
		AvailableSeats: seats,
		PriceCents:     5000,
	}).ID
}

func TestTick_PublishesSignificantChange(t *testing.T) {
	mem := repository.NewMemoryStore()
	clk := clock.NewManual(start)
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, "price-events", mock.Anything, mock.AnythingOfType("kafka.PriceChangedEvent")).Return(nil)
	m := metrics.New()
	sim := newSimulator(mem, clk, quietConfig(), config.PricingConfig{}, WithProducer(producer, "price-events"), WithMetrics(m))
	id := addFlight(mem, 100, start.Add(2*time.Hour))

	res, err := sim.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Sampled)
	assert.Equal(t, 1, res.Published)
	flight, _ := mem.Flight(id)
	assert.Greater(t, flight.PriceCents, int64(5000))
	require.NotNil(t, flight.LastPriceUpdate)
	assert.Equal(t, start, *flight.LastPriceUpdate)

	audits, err := mem.Store().Audits.ListByFlight(context.Background(), id, 10)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, domain.AuditReasonSimulator, audits[0].Reason)
	assert.Equal(t, int64(5000), audits[0].OldPriceCents)
	assert.Equal(t, flight.PriceCents, audits[0].NewPriceCents)

	producer.AssertCalled(t, "Publish", mock.Anything, "price-events", "1", mock.MatchedBy(func(ev kafka.PriceChangedEvent) bool {
		return ev.NewPriceCents == flight.PriceCents && ev.Reason == domain.AuditReasonSimulator
	}))
	expected := `
# HELP airfare_simulator_ticks_total Completed demand simulator ticks
# TYPE airfare_simulator_ticks_total counter
airfare_simulator_ticks_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "airfare_simulator_ticks_total"))
}

func TestTick_RespectsCooldown(t *testing.T) {
	mem := repository.NewMemoryStore()
	clk := clock.NewManual(start)
	sim := newSimulator(mem, clk, quietConfig(), config.PricingConfig{})
	id := addFlight(mem, 100, start.Add(2*time.Hour))

	_, err := sim.Tick(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, mem.AuditCount(id))
	published, _ := mem.Flight(id)

	clk.Advance(time.Minute)
	res, err := sim.Tick(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Published)
	assert.Zero(t, res.Refreshed)
	assert.Equal(t, 1, mem.AuditCount(id))
	after, _ := mem.Flight(id)
	assert.Equal(t, published.PriceCents, after.PriceCents)
	assert.Equal(t, *published.LastPriceUpdate, *after.LastPriceUpdate)
}

func TestTick_InsignificantChangeOnlyRefreshesAnchor(t *testing.T) {
	mem := repository.NewMemoryStore()
	clk := clock.NewManual(start)
	sim := newSimulator(mem, clk, quietConfig(), config.PricingConfig{DemandWeight: 0.0001})
	id := addFlight(mem, 100, time.Time{})

	res, err := sim.Tick(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.Published)
	assert.Equal(t, 1, res.Refreshed)
	flight, _ := mem.Flight(id)
	assert.Equal(t, int64(5000), flight.PriceCents)
	require.NotNil(t, flight.LastPriceUpdate)
	assert.Equal(t, start, *flight.LastPriceUpdate)
	assert.Zero(t, mem.AuditCount(id))
}

func TestTick_WalkUpNeverIntoHolds(t *testing.T) {
	mem := repository.NewMemoryStore()
	clk := clock.NewManual(start)
	cfg := quietConfig()
	cfg.WalkUpProbability = 1
	cfg.WalkUpMaxSeats = 3
	sim := newSimulator(mem, clk, cfg, config.PricingConfig{})
	id := addFlight(mem, 5, time.Time{})
	expires := start.Add(time.Hour)
	require.NoError(t, mem.Store().Bookings.Create(context.Background(), &domain.Booking{
		FlightID: id, Seats: 4, Status: domain.BookingStatusReserved, HoldExpiresAt: &expires,
	}))

	total := 0
	for i := 0; i < 5; i++ {
		res, err := sim.Tick(context.Background())
		require.NoError(t, err)
		total += res.WalkUpSeats
		clk.Advance(time.Second)
	}

	assert.Equal(t, 1, total)
	flight, _ := mem.Flight(id)
	assert.Equal(t, 4, flight.AvailableSeats)
}

func TestTick_WalkUpNeverBelowZero(t *testing.T) {
	mem := repository.NewMemoryStore()
	clk := clock.NewManual(start)
	cfg := quietConfig()
	cfg.WalkUpProbability = 1
	cfg.WalkUpMaxSeats = 10
	sim := newSimulator(mem, clk, cfg, config.PricingConfig{})
	id := addFlight(mem, 2, start.Add(48*time.Hour))

	for i := 0; i < 10; i++ {
		_, err := sim.Tick(context.Background())
		require.NoError(t, err)
		flight, _ := mem.Flight(id)
		require.GreaterOrEqual(t, flight.AvailableSeats, 0)
	}
	flight, _ := mem.Flight(id)
	assert.Zero(t, flight.AvailableSeats)
}

func TestTick_SamplesBatch(t *testing.T) {
	mem := repository.NewMemoryStore()
	cfg := quietConfig()
	cfg.BatchSize = 3
	sim := newSimulator(mem, clock.NewFixed(start), cfg, config.PricingConfig{})
	ids := make([]int64, 0, 10)
	for i := 0; i < 10; i++ {
		ids = append(ids, addFlight(mem, 50, start.Add(24*time.Hour)))
	}

	res, err := sim.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Sampled)

	scored := 0
	for _, id := range ids {
		d, err := mem.Store().Demand.Get(context.Background(), id)
		require.NoError(t, err)
		if d != nil {
			scored++
			assert.GreaterOrEqual(t, d.Score, 0.0)
			assert.Less(t, d.Score, initialDemandMax)
		}
	}
	assert.Equal(t, 3, scored)
}

func TestTick_JoinsFlightErrors(t *testing.T) {
	mem := repository.NewMemoryStore()
	sim := newSimulator(mem, clock.NewFixed(start), quietConfig(), config.PricingConfig{})
	addFlight(mem, 10, time.Time{})
	addFlight(mem, 10, time.Time{})
	boom := errors.New("boom")
	mem.SetFault(func(op string) error {
		if op == "demand.Get" {
			return boom
		}
		return nil
	})

	res, err := sim.Tick(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, res.Sampled)
	assert.Equal(t, int64(1), sim.Status().Ticks)
}

type lockWaitFlights struct {
	repository.FlightRepository
	clock *clock.Manual
	wait  time.Duration
}

func (l lockWaitFlights) GetForUpdate(ctx context.Context, id int64) (*domain.Flight, error) {
	l.clock.Advance(l.wait)
	return l.FlightRepository.GetForUpdate(ctx, id)
}

func TestTick_StampsAfterFlightLock(t *testing.T) {
	mem := repository.NewMemoryStore()
	clk := clock.NewManual(start)
	id := addFlight(mem, 100, start.Add(2*time.Hour))
	store := mem.Store()
	store.Flights = lockWaitFlights{FlightRepository: store.Flights, clock: clk, wait: 30 * time.Second}
	sim := New(store, pricing.NewEngine(config.PricingConfig{}), quietConfig(),
		WithRand(rand.New(rand.NewPCG(7, 11))), WithClock(clk))

	res, err := sim.Tick(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Published)

	locked := start.Add(30 * time.Second)
	audits, err := mem.Store().Audits.ListByFlight(context.Background(), id, 1)
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, locked, audits[0].ChangedAt)
	flight, _ := mem.Flight(id)
	assert.Equal(t, locked, *flight.LastPriceUpdate)
}

func TestNextDemand_StaysInUnitInterval(t *testing.T) {
	sim := newSimulator(repository.NewMemoryStore(), clock.NewFixed(start), quietConfig(), config.PricingConfig{})

	for i := 0; i < 200; i++ {
		hi := sim.nextDemand(&domain.DemandScore{Score: 0.99})
		lo := sim.nextDemand(&domain.DemandScore{Score: 0.01})
		assert.LessOrEqual(t, hi, 1.0)
		assert.GreaterOrEqual(t, hi, 0.96)
		assert.GreaterOrEqual(t, lo, 0.0)
		assert.LessOrEqual(t, lo, 0.13)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	sim := newSimulator(repository.NewMemoryStore(), clock.NewSystem(), quietConfig(), config.PricingConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- sim.Run(ctx) }()
	assert.Eventually(t, func() bool { return sim.Status().Running }, time.Second, 5*time.Millisecond)
	assert.Error(t, sim.Run(ctx), "second run is rejected")
	assert.Equal(t, time.Second, sim.Status().Interval)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("simulator did not stop")
	}
	assert.False(t, sim.Status().Running)
}
