package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) (Store, func(domain.Flight) int64)

func sampleFlight() domain.Flight {
	return domain.Flight{
		FlightNumber:   "AF100",
		Airline:        "Airfare",
		Origin:         "CDG",
		Destination:    "JFK",
		DepartureTime:  time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second),
		TotalSeats:     180,
		AvailableSeats: 180,
		PriceCents:     5000,
	}
}

func ptr[T any](v T) *T { return &v }

// runStoreContract checks the behaviour every storage backend must share.
func runStoreContract(t *testing.T, newStore storeFactory) {
	t.Run("flight base price normalized", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		noBase := seed(sampleFlight())
		withBase := sampleFlight()
		withBase.BasePriceCents = 7000
		withBaseID := seed(withBase)

		f, err := store.Flights.GetByID(ctx, noBase)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), f.BasePriceCents)

		f, err = store.Flights.GetByID(ctx, withBaseID)
		require.NoError(t, err)
		assert.Equal(t, int64(7000), f.BasePriceCents)

		_, err = store.Flights.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("adjust available stays in range", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		f := sampleFlight()
		f.TotalSeats, f.AvailableSeats = 3, 3
		id := seed(f)

		require.NoError(t, store.Flights.AdjustAvailable(ctx, id, -2))
		assert.ErrorIs(t, store.Flights.AdjustAvailable(ctx, id, -2), domain.ErrCapacityExceeded)
		assert.ErrorIs(t, store.Flights.AdjustAvailable(ctx, id, 5), domain.ErrCapacityExceeded)
		assert.ErrorIs(t, store.Flights.AdjustAvailable(ctx, 9999, 1), domain.ErrNotFound)

		got, err := store.Flights.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, got.AvailableSeats)
	})

	t.Run("price update sets cooldown anchor", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		id := seed(sampleFlight())
		at := time.Now().UTC().Truncate(time.Second)

		require.NoError(t, store.Flights.UpdatePrice(ctx, id, 6200, at))
		got, err := store.Flights.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(6200), got.PriceCents)
		require.NotNil(t, got.LastPriceUpdate)
		assert.True(t, got.LastPriceUpdate.Equal(at))

		later := at.Add(time.Minute)
		require.NoError(t, store.Flights.TouchPriceUpdate(ctx, id, later))
		got, err = store.Flights.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(6200), got.PriceCents)
		assert.True(t, got.LastPriceUpdate.Equal(later))
	})

	t.Run("sum active holds ignores lapsed and excluded", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		id := seed(sampleFlight())
		now := time.Now().UTC().Truncate(time.Second)

		active := &domain.Booking{FlightID: id, Seats: 2, HoldExpiresAt: ptr(now.Add(time.Minute))}
		lapsed := &domain.Booking{FlightID: id, Seats: 5, HoldExpiresAt: ptr(now)}
		other := &domain.Booking{FlightID: id, Seats: 3, HoldExpiresAt: ptr(now.Add(time.Minute))}
		for _, b := range []*domain.Booking{active, lapsed, other} {
			require.NoError(t, store.Bookings.Create(ctx, b))
		}

		held, err := store.Bookings.SumActiveHolds(ctx, id, now, 0)
		require.NoError(t, err)
		assert.Equal(t, 5, held)

		held, err = store.Bookings.SumActiveHolds(ctx, id, now, other.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, held)
	})

	t.Run("claim reference is compare and set", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		id := seed(sampleFlight())
		a := &domain.Booking{FlightID: id, Seats: 1}
		b := &domain.Booking{FlightID: id, Seats: 1}
		require.NoError(t, store.Bookings.Create(ctx, a))
		require.NoError(t, store.Bookings.Create(ctx, b))

		ok, err := store.Bookings.ClaimReference(ctx, a.ID, "ABC123")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Bookings.ClaimReference(ctx, a.ID, "ZZZ999")
		require.NoError(t, err)
		assert.False(t, ok)

		err = store.WithTx(ctx, func(ctx context.Context) error {
			_, err := store.Bookings.ClaimReference(ctx, b.ID, "ABC123")
			assert.ErrorIs(t, err, domain.ErrReferenceTaken)
			ok, err := store.Bookings.ClaimReference(ctx, b.ID, "XYZ789")
			require.NoError(t, err)
			assert.True(t, ok)
			return nil
		})
		require.NoError(t, err)

		exists, err := store.Bookings.ReferenceExists(ctx, "XYZ789")
		require.NoError(t, err)
		assert.True(t, exists)

		found, err := store.Bookings.GetByReference(ctx, "ABC123")
		require.NoError(t, err)
		assert.Equal(t, a.ID, found.ID)

		_, err = store.Bookings.GetByReference(ctx, "NOPE00")
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("update persists mutable fields", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		id := seed(sampleFlight())
		b := &domain.Booking{FlightID: id, Seats: 2, PriceSnapshotCents: ptr(int64(5100)), PassengerName: "Ada"}
		require.NoError(t, store.Bookings.Create(ctx, b))

		b.Status = domain.BookingStatusCancelled
		b.CancelReason = domain.CancelReasonPaymentFailed
		b.HoldExpiresAt = nil
		b.PaymentMeta = domain.PaymentMeta{"gateway": "test"}
		require.NoError(t, store.Bookings.Update(ctx, b))

		got, err := store.Bookings.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, got.Status)
		assert.Equal(t, domain.CancelReasonPaymentFailed, got.CancelReason)
		assert.Equal(t, "test", got.PaymentMeta["gateway"])
		assert.Equal(t, int64(5100), *got.PriceSnapshotCents)
		assert.Equal(t, "Ada", got.PassengerName)

		assert.ErrorIs(t, store.Bookings.Update(ctx, &domain.Booking{ID: 9999}), domain.ErrBookingNotFound)
	})

	t.Run("expire lapsed flips only reserved lapsed", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		id := seed(sampleFlight())
		now := time.Now().UTC().Truncate(time.Second)

		lapsed := &domain.Booking{FlightID: id, Seats: 1, HoldExpiresAt: ptr(now.Add(-time.Second))}
		live := &domain.Booking{FlightID: id, Seats: 1, HoldExpiresAt: ptr(now.Add(time.Minute))}
		require.NoError(t, store.Bookings.Create(ctx, lapsed))
		require.NoError(t, store.Bookings.Create(ctx, live))

		expired, err := store.Bookings.ExpireLapsed(ctx, now)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, lapsed.ID, expired[0].ID)
		assert.Equal(t, domain.BookingStatusExpired, expired[0].Status)

		got, err := store.Bookings.GetByID(ctx, live.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusReserved, got.Status)
	})

	t.Run("audit log newest first", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		id := seed(sampleFlight())
		base := time.Now().UTC().Truncate(time.Second)

		for i := 0; i < 5; i++ {
			require.NoError(t, store.Audits.Append(ctx, &domain.PriceAudit{
				FlightID:      id,
				OldPriceCents: int64(5000 + i),
				NewPriceCents: int64(5001 + i),
				Reason:        domain.AuditReasonSimulator,
				ChangedAt:     base.Add(time.Duration(i) * time.Second),
			}))
		}

		audits, err := store.Audits.ListByFlight(ctx, id, 3)
		require.NoError(t, err)
		require.Len(t, audits, 3)
		assert.Equal(t, int64(5005), audits[0].NewPriceCents)
		assert.Equal(t, int64(5003), audits[2].NewPriceCents)
		assert.Greater(t, audits[0].ID, audits[1].ID)

		empty, err := store.Audits.ListByFlight(ctx, 9999, 10)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("audit log follows write order not stamps", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		id := seed(sampleFlight())
		base := time.Now().UTC().Truncate(time.Second)

		for i := 0; i < 3; i++ {
			require.NoError(t, store.Audits.Append(ctx, &domain.PriceAudit{
				FlightID:      id,
				OldPriceCents: 5000,
				NewPriceCents: int64(6000 + i),
				Reason:        domain.AuditReasonBookingConfirm,
				ChangedAt:     base.Add(-time.Duration(i) * time.Minute),
			}))
		}

		audits, err := store.Audits.ListByFlight(ctx, id, 10)
		require.NoError(t, err)
		require.Len(t, audits, 3)
		assert.Equal(t, []int64{6002, 6001, 6000}, []int64{audits[0].NewPriceCents, audits[1].NewPriceCents, audits[2].NewPriceCents})
		assert.Greater(t, audits[0].ID, audits[1].ID)
		assert.Greater(t, audits[1].ID, audits[2].ID)
	})

	t.Run("demand score upsert", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		id := seed(sampleFlight())

		d, err := store.Demand.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, d)

		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, store.Demand.Upsert(ctx, domain.DemandScore{FlightID: id, Score: 0.3, UpdatedAt: now}))
		require.NoError(t, store.Demand.Upsert(ctx, domain.DemandScore{FlightID: id, Score: 0.4, UpdatedAt: now}))

		d, err = store.Demand.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.InDelta(t, 0.4, d.Score, 1e-9)
	})

	t.Run("failed unit of work rolls back", func(t *testing.T) {
		store, seed := newStore(t)
		ctx := context.Background()
		id := seed(sampleFlight())
		boom := errors.New("boom")

		err := store.WithTx(ctx, func(ctx context.Context) error {
			if _, err := store.Flights.GetForUpdate(ctx, id); err != nil {
				return err
			}
			if err := store.Flights.AdjustAvailable(ctx, id, -10); err != nil {
				return err
			}
			if err := store.Bookings.Create(ctx, &domain.Booking{FlightID: id, Seats: 10}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		f, err := store.Flights.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 180, f.AvailableSeats)
		held, err := store.Bookings.SumActiveHolds(ctx, id, time.Now().Add(-time.Hour), 0)
		require.NoError(t, err)
		assert.Zero(t, held)
	})
}
