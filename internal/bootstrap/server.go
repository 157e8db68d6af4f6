package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/airfare/api"
	"github.com/Domenick1991/airfare/config"
	bookingsapi "github.com/Domenick1991/airfare/internal/api/bookings_service_api"
	flightsapi "github.com/Domenick1991/airfare/internal/api/flights_service_api"
	"github.com/Domenick1991/airfare/internal/metrics"
	"github.com/Domenick1991/airfare/internal/service/booking"
	"github.com/Domenick1991/airfare/internal/service/flights"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 5 * time.Second

type Deps struct {
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Health   map[string]api.HealthCheck
}

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	log        *slog.Logger
}

// Run starts the gRPC and HTTP servers and blocks until ctx is cancelled or a server fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) error {
	s := NewServers(cfg, deps)

	grpcLis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	httpLis, err := net.Listen("tcp", cfg.HTTP.Address)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("listen HTTP %s: %w", cfg.HTTP.Address, err)
	}
	return s.Serve(ctx, grpcLis, httpLis)
}

func NewServers(cfg *config.Config, deps Deps) *Servers {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	grpcSrv := grpc.NewServer()
	bookingsapi.RegisterBookingsServer(grpcSrv, bookingsapi.NewServer(deps.Bookings))
	flightsapi.RegisterFlightsServer(grpcSrv, flightsapi.NewServer(deps.Flights))

	router := api.NewRouter(api.RouterConfig{
		Flights:    deps.Flights,
		Bookings:   deps.Bookings,
		Metrics:    deps.Metrics,
		Logger:     log,
		QuoteRate:  cfg.HTTP.QuoteRatePerSecond,
		QuoteBurst: cfg.HTTP.QuoteBurst,
		Health:     deps.Health,
	})

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

// Serve runs both servers on the given listeners. Cancelling ctx drains them.
func (s *Servers) Serve(ctx context.Context, grpcLis, httpLis net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("gRPC server listening", "address", grpcLis.Addr().String())
		if err := s.grpcServer.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		s.log.Info("HTTP server listening", "address", httpLis.Addr().String())
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}
