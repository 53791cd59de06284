package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"matricula/internal/notification"
	"matricula/internal/notification/consumer"
	"matricula/internal/notification/handler"
	"matricula/internal/notification/mailer"
	"matricula/internal/platform/config"
	"matricula/internal/platform/httpserver"
	"matricula/internal/platform/logger"
	"matricula/internal/platform/rabbit"
)

// main wires the notification service: queue topology, the ingestion API
// publishing onto the exchange, and one consumer per routed queue.
func main() {
	cfg, err := config.LoadNotification()
	if err != nil {
		slog.Error("configuration failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn := rabbit.NewConnection(cfg.Rabbit.URL, log)
	defer conn.Close()

	topology := rabbit.Topology{
		Exchange: cfg.Rabbit.Exchange,
		Bindings: []rabbit.QueueBinding{
			{Queue: cfg.Rabbit.EnrollmentQueue, RoutingKey: notification.KindEnrollment.RoutingKey()},
			{Queue: cfg.Rabbit.UnenrollmentQueue, RoutingKey: notification.KindUnenrollment.RoutingKey()},
		},
	}
	declareCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = conn.Declare(declareCtx, topology)
	cancel()
	if err != nil {
		// Declares rerun lazily: the consumers retry the channel on each loop.
		log.Error("queue topology declare failed, continuing", "error", err)
	}

	var sender mailer.Sender
	if cfg.Email.Mode == "smtp" {
		sender = mailer.NewSMTPSender(cfg.Email.SMTPAddr, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.From)
	} else {
		sender = mailer.NewAPISender(cfg.Email.APIBaseURL, cfg.Email.APIKey, cfg.Email.From, nil)
	}
	m := mailer.New(sender, cfg.Email.From, cfg.Email.SendTimeout)

	metrics := notification.NewMetrics()
	publisher := notification.NewPublisher(conn, cfg.Rabbit.Exchange, log, metrics)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	handler.New(publisher, conn, log).Register(r)
	r.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, r)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("notification service listening", "addr", cfg.Addr)
		return httpserver.Run(ctx, srv, 10*time.Second)
	})
	g.Go(func() error {
		return consumer.New(conn, cfg.Rabbit.EnrollmentQueue, m, log, metrics).Run(ctx)
	})
	g.Go(func() error {
		return consumer.New(conn, cfg.Rabbit.UnenrollmentQueue, m, log, metrics).Run(ctx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("notification service exited", "error", err)
		os.Exit(1)
	}
}
