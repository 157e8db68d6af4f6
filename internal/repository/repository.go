package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/airfare/internal/domain"
)

// Transactor runs fn as one unit of work. Repository calls made with the
// context passed to fn join the transaction. Nested calls reuse the outer one.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	ListIDs(ctx context.Context) ([]int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	// GetForUpdate locks the flight row until the surrounding unit of work ends.
	GetForUpdate(ctx context.Context, id int64) (*domain.Flight, error)
	// AdjustAvailable adds delta to the available seats, failing with
	// domain.ErrNotEnoughSeats when the result leaves [0, total].
	AdjustAvailable(ctx context.Context, id int64, delta int) error
	UpdatePrice(ctx context.Context, id int64, priceCents int64, at time.Time) error
	TouchPriceUpdate(ctx context.Context, id int64, at time.Time) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// GetForUpdate locks the booking row until the surrounding unit of work ends.
	GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	// SumActiveHolds returns the seats held by reserved bookings of the flight
	// whose hold has not lapsed at now, ignoring excludeBookingID.
	SumActiveHolds(ctx context.Context, flightID int64, now time.Time, excludeBookingID int64) (int, error)
	// Update persists the mutable fields: status, paid price, hold expiry,
	// cancel reason and payment metadata.
	Update(ctx context.Context, booking *domain.Booking) error
	// ClaimReference sets the reference only when the booking has none yet.
	// It reports false when the booking already carries one and returns
	// domain.ErrReferenceTaken when another booking owns the reference.
	ClaimReference(ctx context.Context, bookingID int64, reference string) (bool, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	// ExpireLapsed flips every reserved booking whose hold lapsed at now.
	ExpireLapsed(ctx context.Context, now time.Time) ([]domain.Booking, error)
}

type AuditRepository interface {
	Append(ctx context.Context, audit *domain.PriceAudit) error
	// ListByFlight returns up to limit entries, newest first.
	ListByFlight(ctx context.Context, flightID int64, limit int) ([]domain.PriceAudit, error)
}

type DemandRepository interface {
	// Get returns nil without error when the flight has no score yet.
	Get(ctx context.Context, flightID int64) (*domain.DemandScore, error)
	Upsert(ctx context.Context, score domain.DemandScore) error
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Transactor
	Flights  FlightRepository
	Bookings BookingRepository
	Audits   AuditRepository
	Demand   DemandRepository
}
