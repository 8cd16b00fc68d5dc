package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"

	"github.com/havenhouse/hms/internal/config"
	"github.com/havenhouse/hms/internal/feed"
	"github.com/havenhouse/hms/internal/handler"
	"github.com/havenhouse/hms/internal/kafka"
	"github.com/havenhouse/hms/internal/logger"
	"github.com/havenhouse/hms/internal/metrics"
	"github.com/havenhouse/hms/internal/router"
	"github.com/havenhouse/hms/internal/service"
	"github.com/havenhouse/hms/internal/storage"
	"github.com/havenhouse/hms/internal/sweeper"
)

func main() {
	l := logger.NewLogger()
	slog.SetDefault(l)

	metrics.Init()

	if err := godotenv.Load(); err != nil {
		l.Error("Error loading .env file", "err", err)
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		l.Error("Failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Storage layer
	appStore := storage.NewApplicationStorage(dbPool)
	resStore := storage.NewResidentStorage(dbPool)
	payStore := storage.NewPaymentStorage(dbPool)
	notifStore := storage.NewNotificationStorage(dbPool)
	staffStore := storage.NewStaffStorage(dbPool)
	incStore := storage.NewIncidentStorage(dbPool)
	docStore := storage.NewDocumentStorage(dbPool)

	// Kafka producers
	if cfg.KafkaBrokers == "" {
		l.Error("KAFKA_BROKERS not set")
		os.Exit(1)
	}
	brokers := strings.Split(cfg.KafkaBrokers, ",")

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll // Acks from all replicas
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.ClientID = "hms-api-producer"

	eventAsyncProducer, err := sarama.NewAsyncProducer(brokers, saramaConfig)
	if err != nil {
		l.Error("Failed to create sarama producer", slog.Any("error", err))
		os.Exit(1)
	}
	changeAsyncProducer, err := sarama.NewAsyncProducer(brokers, saramaConfig)
	if err != nil {
		l.Error("Failed to create sarama change producer", slog.Any("error", err))
		os.Exit(1)
	}

	var wg sync.WaitGroup
	eventProducer := kafka.NewProducer(eventAsyncProducer, cfg.KafkaTopic, l, &wg)
	eventProducer.Start(ctx)
	defer eventProducer.Close(ctx)

	var changeWg sync.WaitGroup
	changeProducer := kafka.NewChangeProducer(changeAsyncProducer, cfg.ChangesTopic, l, &changeWg)
	changeProducer.Start(ctx)
	defer changeProducer.Close(ctx)

	// Service layer
	tokenSvc := service.NewJWTService(cfg.JWTSecret, cfg.TokenExpiry)
	authSvc := service.NewAuthService(staffStore, l, tokenSvc)
	appSvc := service.NewApplicationService(appStore, resStore, eventProducer, l)
	resSvc := service.NewResidentService(resStore, eventProducer, l)
	paySvc := service.NewPaymentService(payStore, l)
	incSvc := service.NewIncidentService(incStore, eventProducer, l)
	analyticsSvc := service.NewAnalyticsService(appStore, resStore, payStore, cfg.HouseCapacity, l)
	portalSvc := service.NewPortalService(resStore, payStore, docStore, tokenSvc, l)
	healthSvc := service.NewHealthService(appStore, l)

	// Notification feed, kept live via the changes topic
	notifFeed := feed.New(notifStore, nil, changeProducer, cfg.FeedSize, l)
	if err := notifFeed.Load(ctx); err != nil {
		l.Warn("Initial feed load failed, starting empty", slog.Any("error", err))
	}
	go func() {
		for err := range notifFeed.Errors() {
			l.Error("Feed storage error", slog.Any("error", err))
		}
	}()

	consumerConfig := sarama.NewConfig()
	consumerConfig.Version = sarama.V2_1_0_0
	consumerConfig.Consumer.Return.Errors = true
	consumerGroup, err := sarama.NewConsumerGroup(brokers, cfg.FeedGroup, consumerConfig)
	if err != nil {
		l.Error("Failed to create Kafka consumer group", slog.Any("error", err))
		os.Exit(1)
	}
	subscription := kafka.NewFeedSubscription(cfg.ChangesTopic, consumerGroup, l)
	subscription.Start(ctx)
	go notifFeed.Run(ctx, subscription)

	// Overdue payment sweeper
	swp := sweeper.New(payStore, resStore, eventProducer, cfg.SweepInterval, l)
	go swp.Start(ctx)

	// Handlers
	handlers := router.Handlers{
		Contact:      handler.NewContactHandler(appSvc, l),
		Auth:         handler.NewAuthHandler(authSvc, cfg.TokenExpiry, l),
		Application:  handler.NewApplicationHandler(appSvc, l),
		Resident:     handler.NewResidentHandler(resSvc, l),
		Payment:      handler.NewPaymentHandler(paySvc, l),
		Incident:     handler.NewIncidentHandler(incSvc, l),
		Analytics:    handler.NewAnalyticsHandler(analyticsSvc, l),
		Notification: handler.NewNotificationHandler(notifFeed, l),
		Portal:       handler.NewPortalHandler(portalSvc, cfg.TokenExpiry, l),
		Health:       handler.NewHealthHandler(healthSvc, l),
	}

	server := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: router.NewRouter(handlers, tokenSvc),
	}

	// Start server in goroutine
	go func() {
		l.Info("Server started", "addr", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("Failed to start server", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	l.Info("Shutting down server...")

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxTimeout); err != nil {
		l.Error("Shutdown failed", "err", err)
	} else {
		l.Info("Server exited cleanly")
	}

	if err := subscription.Close(); err != nil {
		l.Warn("Failed to close feed subscription", slog.Any("error", err))
	}
}
