package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/anticafe/config"
	"github.com/Domenick1991/anticafe/internal/auth"
	"github.com/Domenick1991/anticafe/internal/bootstrap"
	"github.com/Domenick1991/anticafe/internal/cache"
	"github.com/Domenick1991/anticafe/internal/kafka"
	"github.com/Domenick1991/anticafe/internal/repository"
	"github.com/Domenick1991/anticafe/internal/service/billing"
	"github.com/Domenick1991/anticafe/internal/service/booking"
	"github.com/Domenick1991/anticafe/internal/service/catalog"
	"github.com/Domenick1991/anticafe/internal/service/payment"
	"github.com/Domenick1991/anticafe/internal/service/session"
	"github.com/Domenick1991/anticafe/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Venue.CatalogCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLMins)*time.Minute)
	lockTTL := time.Duration(cfg.Venue.LockTTLSeconds) * time.Second

	svc := bootstrap.Services{
		Users:   users.NewUserService(userRepo, tokens),
		Catalog: catalog.NewCatalogService(resourceRepo, redisCache),
		Bookings: booking.NewBookingService(
			bookingRepo,
			userRepo,
			resourceRepo,
			redisCache,
			producer,
			cfg.Kafka.BookingTopic,
			lockTTL,
		),
		Sessions: session.NewSessionService(
			sessionRepo,
			redisCache,
			producer,
			cfg.Kafka.BookingTopic,
			lockTTL,
		),
		Billing: billing.NewBillingService(sessionRepo, bookingRepo, resourceRepo, billing.Calculator{
			RatePerMinute:  cfg.Billing.RatePerMinute,
			StopCheckHours: cfg.Billing.StopCheckHours,
			StopCheckMax:   cfg.Billing.StopCheckMax,
		}),
		Payments: payment.NewPaymentService(paymentRepo, userRepo, producer, cfg.Kafka.BookingTopic),
		Tokens:   tokens,
	}

	if err := bootstrap.Run(ctx, cfg, svc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
