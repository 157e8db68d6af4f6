package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/repository"
	"github.com/Domenick1991/airfare/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storage struct {
	Store repository.Store
	// Ping is nil for the in-memory driver.
	Ping  func(ctx context.Context) error
	Close func()
}

// OpenStorage connects the configured driver. Postgres migrations run when
// database.migrate is set; the memory driver is seeded with demo flights.
func OpenStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		mem := repository.NewMemoryStore()
		for _, f := range DemoFlights(time.Now().UTC()) {
			mem.AddFlight(f)
		}
		log.Warn("using in-memory storage; data is lost on restart")
		return &Storage{Store: mem.Store(), Close: func() {}}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Database.Migrate {
		if err := migrations.Apply(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("migrations applied")
	}
	return &Storage{Store: repository.NewPGStore(pool), Ping: pool.Ping, Close: pool.Close}, nil
}

// DemoFlights is the catalogue loaded into the in-memory store.
func DemoFlights(now time.Time) []domain.Flight {
	hour := now.Truncate(time.Hour)
	mk := func(number, from, to string, in time.Duration, seats int, cents int64) domain.Flight {
		return domain.Flight{
			FlightNumber:   number,
			Origin:         from,
			Destination:    to,
			DepartureTime:  hour.Add(in),
			TotalSeats:     seats,
			AvailableSeats: seats,
			PriceCents:     cents,
			BasePriceCents: cents,
		}
	}
	return []domain.Flight{
		mk("SU1402", "SVO", "LED", 3*time.Hour, 180, 5000),
		mk("S71010", "DME", "AER", 26*time.Hour, 150, 7200),
		mk("LH400", "FRA", "JFK", 4*24*time.Hour, 300, 45000),
		mk("BA117", "LHR", "JFK", 7*24*time.Hour, 250, 52000),
		mk("AF1234", "CDG", "BCN", 36*time.Hour, 120, 8900),
		mk("U26021", "LGW", "AMS", 90*time.Minute, 186, 4100),
	}
}
