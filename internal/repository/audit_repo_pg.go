package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGAuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) AuditRepository {
	return &PGAuditRepository{db: db}
}

func (r *PGAuditRepository) Append(ctx context.Context, audit *domain.PriceAudit) error {
	err := conn(ctx, r.db).QueryRow(ctx, `
		INSERT INTO price_audits (flight_id, old_price_cents, new_price_cents, reason, changed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		audit.FlightID, audit.OldPriceCents, audit.NewPriceCents, audit.Reason, audit.ChangedAt).Scan(&audit.ID)
	if err != nil {
		return mapPGError(fmt.Errorf("append price audit: %w", err))
	}
	return nil
}

// ListByFlight returns rows in commit order of the flight lock, newest first.
// changed_at is informational and is not used for ordering.
func (r *PGAuditRepository) ListByFlight(ctx context.Context, flightID int64, limit int) ([]domain.PriceAudit, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
		SELECT id, flight_id, old_price_cents, new_price_cents, reason, changed_at
		FROM price_audits
		WHERE flight_id = $1
		ORDER BY id DESC
		LIMIT $2`, flightID, limit)
	if err != nil {
		return nil, fmt.Errorf("list price audits: %w", err)
	}
	defer rows.Close()

	audits := make([]domain.PriceAudit, 0)
	for rows.Next() {
		var a domain.PriceAudit
		if err := rows.Scan(&a.ID, &a.FlightID, &a.OldPriceCents, &a.NewPriceCents, &a.Reason, &a.ChangedAt); err != nil {
			return nil, err
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

var _ AuditRepository = (*PGAuditRepository)(nil)
