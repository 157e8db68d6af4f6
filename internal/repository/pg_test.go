package repository

import (
	"context"
	"testing"

	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}

	store := NewPGStore(pool)

	assert.NotNil(t, store.Transactor)
	assert.NotNil(t, store.Flights)
	assert.NotNil(t, store.Bookings)
	assert.NotNil(t, store.Audits)
	assert.NotNil(t, store.Demand)
}

func TestPGStore_Contract(t *testing.T) {
	pool := testutil.NewTestPool(t)

	runStoreContract(t, func(t *testing.T) (Store, func(domain.Flight) int64) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		return NewPGStore(pool), func(f domain.Flight) int64 {
			return testutil.InsertFlight(t, ctx, pool, f)
		}
	})
}
