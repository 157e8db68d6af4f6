package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGDemandRepository struct {
	db *pgxpool.Pool
}

func NewDemandRepository(db *pgxpool.Pool) DemandRepository {
	return &PGDemandRepository{db: db}
}

func (r *PGDemandRepository) Get(ctx context.Context, flightID int64) (*domain.DemandScore, error) {
	var d domain.DemandScore
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT flight_id, score, updated_at FROM demand_scores WHERE flight_id = $1`, flightID).
		Scan(&d.FlightID, &d.Score, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get demand score: %w", err)
	}
	return &d, nil
}

func (r *PGDemandRepository) Upsert(ctx context.Context, score domain.DemandScore) error {
	_, err := conn(ctx, r.db).Exec(ctx, `
		INSERT INTO demand_scores (flight_id, score, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (flight_id) DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at`,
		score.FlightID, score.Score, score.UpdatedAt)
	if err != nil {
		return mapPGError(fmt.Errorf("upsert demand score: %w", err))
	}
	return nil
}

var _ DemandRepository = (*PGDemandRepository)(nil)
