package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airfare/api"
	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/bootstrap"
	"github.com/Domenick1991/airfare/internal/cache"
	"github.com/Domenick1991/airfare/internal/kafka"
	"github.com/Domenick1991/airfare/internal/logging"
	"github.com/Domenick1991/airfare/internal/metrics"
	"github.com/Domenick1991/airfare/internal/pricing"
	"github.com/Domenick1991/airfare/internal/service/booking"
	"github.com/Domenick1991/airfare/internal/service/flights"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.Setup("airfare-api", cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer storage.Close()
	store := storage.Store

	health := map[string]api.HealthCheck{}
	if storage.Ping != nil {
		health["postgres"] = storage.Ping
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FlightsCacheTTL(), cfg.Booking.QuoteCacheTTL())
	defer redisCache.Close()
	health["redis"] = redisCache.Ping

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	health["kafka"] = producer.CheckConnection

	m := metrics.New()
	engine := pricing.NewEngine(cfg.Pricing)

	flightService := flights.NewFlightService(store, engine,
		flights.WithCache(redisCache),
		flights.WithLogger(logger),
	)
	bookingService := booking.NewBookingService(store, engine, cfg.Booking,
		booking.WithCache(redisCache),
		booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithPriceEventsTopic(cfg.Kafka.PriceEventsTopic),
		booking.WithMetrics(m),
		booking.WithLogger(logger),
	)

	if err := bootstrap.Run(ctx, cfg, bootstrap.Deps{
		Flights:  flightService,
		Bookings: bookingService,
		Metrics:  m,
		Logger:   logger,
		Health:   health,
	}); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
