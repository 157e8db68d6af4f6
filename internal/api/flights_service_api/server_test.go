package flights_service_api

import (
	"context"
	"net"
	"testing"

	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/api/rpcjson"
	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/pricing"
	"github.com/Domenick1991/airfare/internal/repository"
	"github.com/Domenick1991/airfare/internal/service/flights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func TestFlightsService(t *testing.T) {
	mem := repository.NewMemoryStore()
	flight := mem.AddFlight(domain.Flight{FlightNumber: "LH400", Origin: "FRA", Destination: "JFK", TotalSeats: 50, AvailableSeats: 50, PriceCents: 5000})

	listener := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterFlightsServer(srv, NewServer(flights.NewFlightService(mem.Store(), pricing.NewEngine(config.PricingConfig{}))))
	go func() { _ = srv.Serve(listener) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(rpcjson.CallOption()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	ctx := context.Background()

	var list ListFlightsResponse
	require.NoError(t, conn.Invoke(ctx, "/"+ServiceName+"/ListFlights", &ListFlightsRequest{}, &list))
	require.Len(t, list.Flights, 1)
	assert.Equal(t, "LH400", list.Flights[0].FlightNumber)

	var got domain.Flight
	require.NoError(t, conn.Invoke(ctx, "/"+ServiceName+"/GetFlight", &FlightRequest{ID: flight.ID}, &got))
	assert.Equal(t, flight.ID, got.ID)

	var quote flights.QuoteResult
	require.NoError(t, conn.Invoke(ctx, "/"+ServiceName+"/Quote", &FlightRequest{ID: flight.ID}, &quote))
	assert.Equal(t, int64(5000), quote.PriceCents)

	err = conn.Invoke(ctx, "/"+ServiceName+"/GetFlight", &FlightRequest{ID: 99}, &got)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
