package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/airfare/internal/metrics"
	"github.com/Domenick1991/airfare/internal/service/booking"
	"github.com/Domenick1991/airfare/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	Flights    flights.FlightUseCase
	Bookings   booking.BookingUseCase
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	QuoteRate  float64
	QuoteBurst int
	Health     map[string]HealthCheck
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID())
	if cfg.Logger != nil {
		router.Use(AccessLog(cfg.Logger))
	}
	if cfg.Metrics != nil {
		router.Use(Metrics(cfg.Metrics))
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	router.GET("/healthz", healthz(cfg.Health))

	flightOpts := []FlightHandlerOption{}
	if cfg.QuoteRate > 0 {
		flightOpts = append(flightOpts, WithQuoteLimiter(NewClientLimiter(cfg.QuoteRate, cfg.QuoteBurst)))
	}
	NewFlightHandler(cfg.Flights, flightOpts...).Register(router.Group("/flights"))
	NewBookingHandler(cfg.Bookings).Register(router.Group("/bookings"))
	return router
}

func healthz(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		failed := gin.H{}
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "failed": failed})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
