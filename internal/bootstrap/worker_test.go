package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExpirer struct {
	calls atomic.Int32
	err   error
}

func (e *countingExpirer) ExpireLapsedHolds(ctx context.Context) ([]domain.Booking, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	return []domain.Booking{{ID: 1}}, nil
}

func TestRunExpirySweep_TicksUntilCancelled(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, expirer := range []*countingExpirer{{}, {err: errors.New("db down")}} {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- RunExpirySweep(ctx, expirer, 5*time.Millisecond, log) }()

		assert.Eventually(t, func() bool { return expirer.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("sweep did not stop")
		}
	}
}

func TestOpenStorage_MemorySeedsDemoFlights(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = config.StorageDriverMemory

	storage, err := OpenStorage(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer storage.Close()

	assert.Nil(t, storage.Ping)
	flights, err := storage.Store.Flights.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, flights, len(DemoFlights(time.Now())))
	for _, f := range flights {
		assert.Equal(t, f.TotalSeats, f.AvailableSeats)
		assert.Positive(t, f.BasePriceCents)
	}
}
