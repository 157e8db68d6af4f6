package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/pricing"
	"github.com/Domenick1991/airfare/internal/repository"
	"github.com/Domenick1991/airfare/internal/service/booking"
	"github.com/Domenick1991/airfare/internal/service/flights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServers_ServeAndShutdown(t *testing.T) {
	cfg := config.Default()
	mem := repository.NewMemoryStore()
	engine := pricing.NewEngine(cfg.Pricing)
	servers := NewServers(cfg, Deps{
		Flights:  flights.NewFlightService(mem.Store(), engine),
		Bookings: booking.NewBookingService(mem.Store(), engine, cfg.Booking),
	})

	grpcLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	httpLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- servers.Serve(ctx, grpcLis, httpLis) }()

	url := fmt.Sprintf("http://%s/healthz", httpLis.Addr().String())
	assert.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == `{"status":"ok"}`
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("servers did not stop")
	}
}
