package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/airfare/internal/domain"
)

type memTxKey struct{}

// MemoryStore keeps every table in process memory. A unit of work holds the
// store lock for its whole duration and is rolled back from a snapshot when
// fn fails, so it behaves like a serializable database.
type MemoryStore struct {
	mu    sync.Mutex
	data  memData
	fault func(op string) error
}

type memData struct {
	flights      map[int64]domain.Flight
	bookings     map[int64]domain.Booking
	audits       []domain.PriceAudit
	demand       map[int64]domain.DemandScore
	nextFlightID int64
	nextBooking  int64
	nextAudit    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: memData{
		flights:  make(map[int64]domain.Flight),
		bookings: make(map[int64]domain.Booking),
		demand:   make(map[int64]domain.DemandScore),
	}}
}

// Store exposes the memory repositories through the common bundle.
func (s *MemoryStore) Store() Store {
	return Store{
		Transactor: s,
		Flights:    memFlights{s},
		Bookings:   memBookings{s},
		Audits:     memAudits{s},
		Demand:     memDemand{s},
	}
}

// SetFault installs a hook consulted at the start of every repository call.
// A non-nil error is returned from that call. Used to simulate contention.
func (s *MemoryStore) SetFault(fn func(op string) error) {
	s.mu.Lock()
	s.fault = fn
	s.mu.Unlock()
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(context.WithValue(ctx, memTxKey{}, s)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// AddFlight inserts a flight, assigning its id and normalizing the base price.
func (s *MemoryStore) AddFlight(f domain.Flight) domain.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.nextFlightID++
	f.ID = s.data.nextFlightID
	base := f.BasePriceCents
	f.BasePriceCents = domain.NormalizeBasePrice(&base, f.PriceCents)
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	s.data.flights[f.ID] = f
	return f
}

// Flight returns a copy of the stored flight for assertions.
func (s *MemoryStore) Flight(id int64) (domain.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.data.flights[id]
	return f, ok
}

// AuditCount returns the number of audit rows for the flight.
func (s *MemoryStore) AuditCount(flightID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.data.audits {
		if a.FlightID == flightID {
			n++
		}
	}
	return n
}

func (s *MemoryStore) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(memTxKey{}).(*MemoryStore)
	return owner == s
}

// enter takes the store lock unless ctx already runs inside a unit of work
// of this store, then consults the fault hook.
func (s *MemoryStore) enter(ctx context.Context, op string) (func(), error) {
	release := func() {}
	if !s.inTx(ctx) {
		s.mu.Lock()
		release = s.mu.Unlock
	}
	if s.fault != nil {
		if err := s.fault(op); err != nil {
			release()
			return nil, err
		}
	}
	return release, nil
}

func (d memData) clone() memData {
	out := d
	out.flights = make(map[int64]domain.Flight, len(d.flights))
	for k, v := range d.flights {
		out.flights[k] = v
	}
	out.bookings = make(map[int64]domain.Booking, len(d.bookings))
	for k, v := range d.bookings {
		out.bookings[k] = v
	}
	out.audits = append([]domain.PriceAudit(nil), d.audits...)
	out.demand = make(map[int64]domain.DemandScore, len(d.demand))
	for k, v := range d.demand {
		out.demand[k] = v
	}
	return out
}

type memFlights struct{ s *MemoryStore }

func (m memFlights) List(ctx context.Context) ([]domain.Flight, error) {
	release, err := m.s.enter(ctx, "flights.List")
	if err != nil {
		return nil, err
	}
	defer release()

	flights := make([]domain.Flight, 0, len(m.s.data.flights))
	for _, f := range m.s.data.flights {
		flights = append(flights, f)
	}
	sort.Slice(flights, func(i, j int) bool {
		if !flights[i].DepartureTime.Equal(flights[j].DepartureTime) {
			return flights[i].DepartureTime.Before(flights[j].DepartureTime)
		}
		return flights[i].ID < flights[j].ID
	})
	return flights, nil
}

func (m memFlights) ListIDs(ctx context.Context) ([]int64, error) {
	release, err := m.s.enter(ctx, "flights.ListIDs")
	if err != nil {
		return nil, err
	}
	defer release()

	ids := make([]int64, 0, len(m.s.data.flights))
	for id := range m.s.data.flights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m memFlights) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	release, err := m.s.enter(ctx, "flights.GetByID")
	if err != nil {
		return nil, err
	}
	defer release()

	f, ok := m.s.data.flights[id]
	if !ok {
		return nil, domain.ErrFlightNotFound
	}
	return &f, nil
}

func (m memFlights) GetForUpdate(ctx context.Context, id int64) (*domain.Flight, error) {
	return m.GetByID(ctx, id)
}

func (m memFlights) AdjustAvailable(ctx context.Context, id int64, delta int) error {
	release, err := m.s.enter(ctx, "flights.AdjustAvailable")
	if err != nil {
		return err
	}
	defer release()

	f, ok := m.s.data.flights[id]
	if !ok {
		return domain.ErrFlightNotFound
	}
	next := f.AvailableSeats + delta
	if next < 0 || next > f.TotalSeats {
		return domain.ErrNotEnoughSeats
	}
	f.AvailableSeats = next
	f.UpdatedAt = time.Now().UTC()
	m.s.data.flights[id] = f
	return nil
}

func (m memFlights) UpdatePrice(ctx context.Context, id int64, priceCents int64, at time.Time) error {
	release, err := m.s.enter(ctx, "flights.UpdatePrice")
	if err != nil {
		return err
	}
	defer release()

	f, ok := m.s.data.flights[id]
	if !ok {
		return domain.ErrFlightNotFound
	}
	f.PriceCents = priceCents
	f.LastPriceUpdate = &at
	f.UpdatedAt = time.Now().UTC()
	m.s.data.flights[id] = f
	return nil
}

func (m memFlights) TouchPriceUpdate(ctx context.Context, id int64, at time.Time) error {
	release, err := m.s.enter(ctx, "flights.TouchPriceUpdate")
	if err != nil {
		return err
	}
	defer release()

	f, ok := m.s.data.flights[id]
	if !ok {
		return domain.ErrFlightNotFound
	}
	f.LastPriceUpdate = &at
	m.s.data.flights[id] = f
	return nil
}

type memBookings struct{ s *MemoryStore }

func (m memBookings) Create(ctx context.Context, booking *domain.Booking) error {
	release, err := m.s.enter(ctx, "bookings.Create")
	if err != nil {
		return err
	}
	defer release()

	if _, ok := m.s.data.flights[booking.FlightID]; !ok {
		return domain.ErrFlightNotFound
	}
	if booking.Status == "" {
		booking.Status = domain.BookingStatusReserved
	}
	m.s.data.nextBooking++
	now := time.Now().UTC()
	booking.ID = m.s.data.nextBooking
	booking.CreatedAt = now
	booking.UpdatedAt = now
	m.s.data.bookings[booking.ID] = copyBooking(*booking)
	return nil
}

func (m memBookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	release, err := m.s.enter(ctx, "bookings.GetByID")
	if err != nil {
		return nil, err
	}
	defer release()

	b, ok := m.s.data.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	out := copyBooking(b)
	return &out, nil
}

func (m memBookings) GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return m.GetByID(ctx, id)
}

func (m memBookings) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	release, err := m.s.enter(ctx, "bookings.GetByReference")
	if err != nil {
		return nil, err
	}
	defer release()

	for _, b := range m.s.data.bookings {
		if b.Reference != nil && *b.Reference == reference {
			out := copyBooking(b)
			return &out, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (m memBookings) SumActiveHolds(ctx context.Context, flightID int64, now time.Time, excludeBookingID int64) (int, error) {
	release, err := m.s.enter(ctx, "bookings.SumActiveHolds")
	if err != nil {
		return 0, err
	}
	defer release()

	held := 0
	for _, b := range m.s.data.bookings {
		if b.FlightID == flightID && b.ID != excludeBookingID && b.HoldActive(now) {
			held += b.Seats
		}
	}
	return held, nil
}

func (m memBookings) Update(ctx context.Context, booking *domain.Booking) error {
	release, err := m.s.enter(ctx, "bookings.Update")
	if err != nil {
		return err
	}
	defer release()

	current, ok := m.s.data.bookings[booking.ID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	next := copyBooking(*booking)
	next.FlightID = current.FlightID
	next.Seats = current.Seats
	next.PriceSnapshotCents = current.PriceSnapshotCents
	next.Reference = current.Reference
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	booking.UpdatedAt = next.UpdatedAt
	m.s.data.bookings[booking.ID] = next
	return nil
}

func (m memBookings) ClaimReference(ctx context.Context, bookingID int64, reference string) (bool, error) {
	release, err := m.s.enter(ctx, "bookings.ClaimReference")
	if err != nil {
		return false, err
	}
	defer release()

	b, ok := m.s.data.bookings[bookingID]
	if !ok {
		return false, domain.ErrBookingNotFound
	}
	if b.Reference != nil {
		return false, nil
	}
	for id, other := range m.s.data.bookings {
		if id != bookingID && other.Reference != nil && *other.Reference == reference {
			return false, domain.ErrReferenceTaken
		}
	}
	ref := reference
	b.Reference = &ref
	b.UpdatedAt = time.Now().UTC()
	m.s.data.bookings[bookingID] = b
	return true, nil
}

func (m memBookings) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	release, err := m.s.enter(ctx, "bookings.ReferenceExists")
	if err != nil {
		return false, err
	}
	defer release()

	for _, b := range m.s.data.bookings {
		if b.Reference != nil && *b.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (m memBookings) ExpireLapsed(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	release, err := m.s.enter(ctx, "bookings.ExpireLapsed")
	if err != nil {
		return nil, err
	}
	defer release()

	var expired []domain.Booking
	for id, b := range m.s.data.bookings {
		if !b.HoldLapsed(now) {
			continue
		}
		b.Status = domain.BookingStatusExpired
		b.HoldExpiresAt = nil
		b.UpdatedAt = now
		m.s.data.bookings[id] = b
		expired = append(expired, copyBooking(b))
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })
	return expired, nil
}

type memAudits struct{ s *MemoryStore }

func (m memAudits) Append(ctx context.Context, audit *domain.PriceAudit) error {
	release, err := m.s.enter(ctx, "audits.Append")
	if err != nil {
		return err
	}
	defer release()

	m.s.data.nextAudit++
	audit.ID = m.s.data.nextAudit
	m.s.data.audits = append(m.s.data.audits, *audit)
	return nil
}

func (m memAudits) ListByFlight(ctx context.Context, flightID int64, limit int) ([]domain.PriceAudit, error) {
	release, err := m.s.enter(ctx, "audits.ListByFlight")
	if err != nil {
		return nil, err
	}
	defer release()

	out := make([]domain.PriceAudit, 0)
	for i := len(m.s.data.audits) - 1; i >= 0 && len(out) < limit; i-- {
		if a := m.s.data.audits[i]; a.FlightID == flightID {
			out = append(out, a)
		}
	}
	return out, nil
}

type memDemand struct{ s *MemoryStore }

func (m memDemand) Get(ctx context.Context, flightID int64) (*domain.DemandScore, error) {
	release, err := m.s.enter(ctx, "demand.Get")
	if err != nil {
		return nil, err
	}
	defer release()

	d, ok := m.s.data.demand[flightID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m memDemand) Upsert(ctx context.Context, score domain.DemandScore) error {
	release, err := m.s.enter(ctx, "demand.Upsert")
	if err != nil {
		return err
	}
	defer release()

	m.s.data.demand[score.FlightID] = score
	return nil
}

func copyBooking(b domain.Booking) domain.Booking {
	out := b
	out.PriceSnapshotCents = copyPtr(b.PriceSnapshotCents)
	out.PricePaidCents = copyPtr(b.PricePaidCents)
	out.Reference = copyPtr(b.Reference)
	out.HoldExpiresAt = copyPtr(b.HoldExpiresAt)
	if b.PaymentMeta != nil {
		out.PaymentMeta = make(domain.PaymentMeta, len(b.PaymentMeta))
		for k, v := range b.PaymentMeta {
			out.PaymentMeta[k] = v
		}
	}
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

var (
	_ Transactor        = (*MemoryStore)(nil)
	_ FlightRepository  = memFlights{}
	_ BookingRepository = memBookings{}
	_ AuditRepository   = memAudits{}
	_ DemandRepository  = memDemand{}
)
