package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"matricula/internal/audit"
	"matricula/internal/enrollment"
	"matricula/internal/enrollment/directory"
	"matricula/internal/enrollment/dispatch"
	"matricula/internal/enrollment/handler"
	"matricula/internal/enrollment/store/postgres"
	"matricula/internal/notification"
	"matricula/internal/platform/config"
	"matricula/internal/platform/httpserver"
	"matricula/internal/platform/logger"
	"matricula/pkg/httputil"
)

// main wires the enrollment API: the relational store, the directory lookups
// with their optional cache, and the two synchronous propagation gateways.
func main() {
	cfg, err := config.LoadEnrollment()
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

	httpClient := &http.Client{Timeout: 10 * time.Second}

	var students directory.StudentDirectory
	var careers directory.CareerDirectory
	client := directory.NewClient(cfg.AdminAPIURL, httpClient)
	students, careers = client, client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Error("parse redis url", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		cache := directory.NewCache(students, careers, rdb, cfg.DirectoryCacheTTL, log)
		students, careers = cache, cache
	}

	dispatcher := dispatch.New(
		audit.NewGateway(cfg.AuditServiceURL, httpClient),
		notification.NewGateway(cfg.NotifyServiceURL, httpClient),
		log,
	)

	svc, err := enrollment.NewService(
		postgres.New(db),
		students,
		careers,
		dispatcher,
		cfg.MinEnrollmentAge,
		enrollment.NewMetrics(),
		log,
	)
	if err != nil {
		log.Error("wire enrollment service", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	handler.New(svc, log).Register(r)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		database := "Connected"
		if err := db.PingContext(req.Context()); err != nil {
			database = "Disconnected"
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"database": database})
	})

	srv := httpserver.New(cfg.Addr, r)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("enrollment service listening", "addr", cfg.Addr)
		return httpserver.Run(ctx, srv, 10*time.Second)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("enrollment service exited", "error", err)
		os.Exit(1)
	}
}
