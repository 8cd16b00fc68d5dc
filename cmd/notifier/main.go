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
	"github.com/havenhouse/hms/internal/kafka"
	"github.com/havenhouse/hms/internal/logger"
	"github.com/havenhouse/hms/internal/notifier"
)

func main() {
	l := logger.NewLogger()
	slog.SetDefault(l)

	if err := godotenv.Load(); err != nil {
		l.Error("Error loading .env file", "err", err)
	}

	cfg := config.LoadNotifier()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := notifier.ConnectPostgres(cfg.DB)
	if err != nil {
		l.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := notifier.NewPostgresStore(db)
	if err != nil {
		l.Error("failed to create postgres store", "error", err)
		os.Exit(1)
	}

	if cfg.KafkaBrokers == "" {
		l.Error("KAFKA_BROKERS not set")
		os.Exit(1)
	}
	brokers := strings.Split(cfg.KafkaBrokers, ",")

	// Change producer announces persisted rows to live feeds.
	producerConfig := sarama.NewConfig()
	producerConfig.Producer.RequiredAcks = sarama.WaitForAll
	producerConfig.Producer.Retry.Max = 5
	producerConfig.Producer.Return.Successes = true
	producerConfig.ClientID = "hms-notifier-producer"

	changeAsyncProducer, err := sarama.NewAsyncProducer(brokers, producerConfig)
	if err != nil {
		l.Error("failed to create sarama producer", slog.Any("error", err))
		os.Exit(1)
	}

	var producerWg sync.WaitGroup
	changeProducer := kafka.NewChangeProducer(changeAsyncProducer, cfg.ChangesTopic, l, &producerWg)
	changeProducer.Start(ctx)
	defer changeProducer.Close(ctx)

	delivery := notifier.NewDeliveryService(l)
	svc := notifier.NewService(store, delivery, changeProducer, cfg.BatchWorkers, 10*time.Second, l)

	consumerConfig := sarama.NewConfig()
	consumerConfig.Version = sarama.V2_1_0_0
	consumerConfig.Consumer.Return.Errors = true
	consumerGroup, err := sarama.NewConsumerGroup(brokers, cfg.ConsumerGroup, consumerConfig)
	if err != nil {
		l.Error("failed to create Kafka consumer group", "error", err)
		os.Exit(1)
	}

	consumer := notifier.NewConsumer(cfg.EventsTopic, consumerGroup, svc, l)

	// Health endpoint so orchestrators can probe the worker.
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	hServer := &http.Server{
		Addr:    os.Getenv("NOTIFIER_PORT"),
		Handler: mux,
	}
	if hServer.Addr == "" {
		hServer.Addr = ":8081"
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := svc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			l.Error("delivery worker stopped with error", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			l.Error("Kafka consumer stopped with error", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Info("Starting health server", "addr", hServer.Addr)
		if err := hServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("Health server failed", "error", err)
		}
	}()

	<-ctx.Done()
	l.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	hServer.Shutdown(shutdownCtx)

	wg.Wait()
	l.Info("Notifier shut down gracefully")
}
