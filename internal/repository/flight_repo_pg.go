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

const flightColumns = `id, flight_number, airline, origin, destination, departure_time, arrival_time,
	total_seats, available_seats, COALESCE(NULLIF(base_price_cents, 0), price_cents), price_cents,
	last_price_update, created_at, updated_at`

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time NULLS LAST, id`)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id FROM flights ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list flight ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	return scanFlight(row)
}

func (r *PGFlightRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Flight, error) {
	row := conn(ctx, r.db).QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1 FOR UPDATE`, id)
	f, err := scanFlight(row)
	return f, mapPGError(err)
}

func (r *PGFlightRepository) AdjustAvailable(ctx context.Context, id int64, delta int) error {
	res, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE flights
		SET available_seats = available_seats + $2, updated_at = now()
		WHERE id = $1
		  AND available_seats + $2 >= 0
		  AND available_seats + $2 <= total_seats`, id, delta)
	if err != nil {
		return mapPGError(fmt.Errorf("adjust available seats: %w", err))
	}
	if res.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrNotEnoughSeats
	}
	return nil
}

func (r *PGFlightRepository) UpdatePrice(ctx context.Context, id int64, priceCents int64, at time.Time) error {
	res, err := conn(ctx, r.db).Exec(ctx, `
		UPDATE flights SET price_cents = $2, last_price_update = $3, updated_at = now() WHERE id = $1`,
		id, priceCents, at)
	if err != nil {
		return mapPGError(fmt.Errorf("update price: %w", err))
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

func (r *PGFlightRepository) TouchPriceUpdate(ctx context.Context, id int64, at time.Time) error {
	res, err := conn(ctx, r.db).Exec(ctx, `UPDATE flights SET last_price_update = $2 WHERE id = $1`, id, at)
	if err != nil {
		return mapPGError(fmt.Errorf("touch price update: %w", err))
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var (
		f         domain.Flight
		departure *time.Time
		arrival   *time.Time
	)
	err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.Origin, &f.Destination, &departure, &arrival,
		&f.TotalSeats, &f.AvailableSeats, &f.BasePriceCents, &f.PriceCents,
		&f.LastPriceUpdate, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, fmt.Errorf("scan flight: %w", err)
	}
	if departure != nil {
		f.DepartureTime = departure.UTC()
	}
	if arrival != nil {
		f.ArrivalTime = arrival.UTC()
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
