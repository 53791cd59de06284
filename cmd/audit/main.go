package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"matricula/internal/audit"
	"matricula/internal/audit/consumer"
	"matricula/internal/audit/handler"
	"matricula/internal/audit/store/postgres"
	"matricula/internal/platform/config"
	"matricula/internal/platform/httpserver"
	"matricula/internal/platform/kafka"
	"matricula/internal/platform/logger"
)

// main wires the audit trail service: topic provisioning, the ingestion API
// producing onto the log topic, and the sink consumer persisting rows.
func main() {
	cfg, err := config.LoadAudit()
	if err != nil {
		slog.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		log.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	topology := audit.Topology{
		Topic:               cfg.Kafka.Topic,
		DeadLetterTopic:     cfg.Kafka.DeadLetterTopic,
		Partitions:          cfg.Kafka.Partitions,
		Retention:           cfg.Kafka.Retention,
		DeadLetterRetention: cfg.Kafka.DeadLetterRetention,
	}
	audit.EnsureTopology(ctx, cfg.Kafka.Brokers, topology, cfg.Kafka.ProvisionTimeout, log)

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Error("create producer", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	store := postgres.New(db)
	metrics := audit.NewMetrics()

	sink := consumer.NewSink(store, log, metrics)
	cons, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:     cfg.Kafka.Brokers,
		Group:       cfg.Kafka.ConsumerGroup,
		Topic:       cfg.Kafka.Topic,
		StartDelay:  cfg.Kafka.ConsumerStartDelay,
		PollTimeout: cfg.Kafka.PollTimeout,
		Backoff:     cfg.Kafka.PollBackoff,
	}, sink, log)
	if err != nil {
		log.Error("create consumer", "error", err)
		os.Exit(1)
	}
	defer cons.Close()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	handler.New(audit.NewProducer(producer, cfg.Kafka.Topic), store, log, metrics).Register(r)
	r.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, r)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("audit service listening", "addr", cfg.Addr)
		return httpserver.Run(ctx, srv, 10*time.Second)
	})
	g.Go(func() error {
		return cons.Run(ctx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("audit service exited", "error", err)
		os.Exit(1)
	}
}
