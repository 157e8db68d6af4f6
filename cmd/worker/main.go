package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airfare/config"
	"github.com/Domenick1991/airfare/internal/bootstrap"
	"github.com/Domenick1991/airfare/internal/cache"
	"github.com/Domenick1991/airfare/internal/email"
	"github.com/Domenick1991/airfare/internal/kafka"
	"github.com/Domenick1991/airfare/internal/logging"
	"github.com/Domenick1991/airfare/internal/metrics"
	"github.com/Domenick1991/airfare/internal/pricing"
	"github.com/Domenick1991/airfare/internal/service/booking"
	"github.com/Domenick1991/airfare/internal/simulator"
	"golang.org/x/sync/errgroup"
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
	logger := logging.Setup("airfare-worker", cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.FlightsCacheTTL(), cfg.Booking.QuoteCacheTTL())
	defer redisCache.Close()
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	m := metrics.New()
	engine := pricing.NewEngine(cfg.Pricing)
	bookingService := booking.NewBookingService(storage.Store, engine, cfg.Booking,
		booking.WithCache(redisCache),
		booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMetrics(m),
		booking.WithLogger(logger),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sweep := time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute
		return bootstrap.RunExpirySweep(ctx, bookingService, sweep, logger)
	})

	if cfg.Simulator.Enabled {
		sim := simulator.New(storage.Store, engine, cfg.Simulator,
			simulator.WithProducer(producer, cfg.Kafka.PriceEventsTopic),
			simulator.WithCache(redisCache),
			simulator.WithMetrics(m),
			simulator.WithLogger(logger),
		)
		g.Go(func() error {
			return sim.Run(ctx)
		})
	}

	if cfg.Kafka.NotificationsTopic != "" && len(cfg.Kafka.Brokers) > 0 {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()
		sender := email.NewSender(email.WithLogger(logger))
		g.Go(func() error {
			return consumer.Consume(ctx, sender.Handle)
		})
	}

	logger.Info("worker started", "simulator", cfg.Simulator.Enabled)
	if err := g.Wait(); err != nil {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
