package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, flight_id, seats, status, price_snapshot_cents, price_paid_cents, reference,
	hold_expires_at, passenger_name, passenger_contact, cancel_reason, payment_meta, created_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if booking.Status == "" {
		booking.Status = domain.BookingStatusReserved
	}
	err := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO bookings (flight_id, seats, status, price_snapshot_cents, hold_expires_at,
			passenger_name, passenger_contact, payment_meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		booking.FlightID, booking.Seats, booking.Status, booking.PriceSnapshotCents, booking.HoldExpiresAt,
		booking.PassengerName, booking.PassengerContact, metaOrEmpty(booking.PaymentMeta)).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return mapPGError(fmt.Errorf("insert booking: %w", err))
	}
	return nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	return b, mapPGError(err)
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1`, reference)
	return scanBooking(row)
}

func (r *PGBookingRepository) SumActiveHolds(ctx context.Context, flightID int64, now time.Time, excludeBookingID int64) (int, error) {
	var held int
	err := conn(ctx, r.db).QueryRow(ctx, `
		SELECT COALESCE(SUM(seats), 0)
		FROM bookings
		WHERE flight_id = $1
		  AND status = $2
		  AND hold_expires_at > $3
		  AND id <> $4`,
		flightID, domain.BookingStatusReserved, now, excludeBookingID).Scan(&held)
	if err != nil {
		return 0, mapPGError(fmt.Errorf("sum active holds: %w", err))
	}
	return held, nil
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	err := conn(ctx, r.db).QueryRow(ctx, `
		UPDATE bookings
		SET status = $2, price_paid_cents = $3, hold_expires_at = $4, cancel_reason = $5,
			payment_meta = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		booking.ID, booking.Status, booking.PricePaidCents, booking.HoldExpiresAt, booking.CancelReason,
		metaOrEmpty(booking.PaymentMeta)).Scan(&booking.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBookingNotFound
		}
		return mapPGError(fmt.Errorf("update booking: %w", err))
	}
	return nil
}

// ClaimReference runs inside a savepoint so that a unique violation does not
// abort the caller's transaction.
func (r *PGBookingRepository) ClaimReference(ctx context.Context, bookingID int64, reference string) (bool, error) {
	tx := txFromContext(ctx)
	if tx == nil {
		return r.claim(ctx, r.db, bookingID, reference)
	}

	sp, err := tx.Begin(ctx)
	if err != nil {
		return false, mapPGError(fmt.Errorf("begin savepoint: %w", err))
	}
	claimed, err := r.claim(ctx, sp, bookingID, reference)
	if err != nil {
		_ = sp.Rollback(ctx)
		return false, err
	}
	if err := sp.Commit(ctx); err != nil {
		return false, mapPGError(fmt.Errorf("release savepoint: %w", err))
	}
	return claimed, nil
}

func (r *PGBookingRepository) claim(ctx context.Context, q querier, bookingID int64, reference string) (bool, error) {
	res, err := q.Exec(ctx, `UPDATE bookings SET reference = $2, updated_at = now() WHERE id = $1 AND reference IS NULL`,
		bookingID, reference)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domain.ErrReferenceTaken
		}
		return false, mapPGError(fmt.Errorf("claim reference: %w", err))
	}
	return res.RowsAffected() == 1, nil
}

func (r *PGBookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE reference = $1)`, reference).Scan(&exists); err != nil {
		return false, fmt.Errorf("check reference: %w", err)
	}
	return exists, nil
}

func (r *PGBookingRepository) ExpireLapsed(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		UPDATE bookings
		SET status = $1, hold_expires_at = NULL, updated_at = now()
		WHERE status = $2 AND (hold_expires_at IS NULL OR hold_expires_at <= $3)
		RETURNING `+bookingColumns,
		domain.BookingStatusExpired, domain.BookingStatusReserved, now)
	if err != nil {
		return nil, mapPGError(fmt.Errorf("expire lapsed holds: %w", err))
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *b)
	}
	return expired, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b    domain.Booking
		meta map[string]any
	)
	err := row.Scan(&b.ID, &b.FlightID, &b.Seats, &b.Status, &b.PriceSnapshotCents, &b.PricePaidCents, &b.Reference,
		&b.HoldExpiresAt, &b.PassengerName, &b.PassengerContact, &b.CancelReason, &meta, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	b.PaymentMeta = domain.PaymentMeta(meta)
	return &b, nil
}

func metaOrEmpty(m domain.PaymentMeta) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

var _ BookingRepository = (*PGBookingRepository)(nil)
