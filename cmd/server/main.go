// Package main is the entry point for the freight marketplace bidding API
// server. It wires together the repositories and services and starts the
// HTTP server alongside the WebSocket hub and the Kafka event publisher.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/api"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/config"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/events"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/repository"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/service"
	"github.com/kueteantoine/Freight-Bid-Pro-sub001/internal/ws"
	_ "github.com/lib/pq" // postgres driver
)

func main() {
	// ── 1. Logger ─────────────────────────────────────────────────────────────
	cfg := config.MustLoad()

	var logHandler slog.Handler
	if cfg.IsProd() {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	logger.Info("starting freight bidding server", "env", cfg.Server.Env, "port", cfg.Server.Port)

	// ── 2. Database ───────────────────────────────────────────────────────────
	db, err := sqlx.Connect("postgres", cfg.DB.DSN)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err = db.Ping(); err != nil {
		logger.Error("database ping failed", "err", err)
		os.Exit(1)
	}
	logger.Info("database connected")

	// ── 3. Migrations ─────────────────────────────────────────────────────────
	if err = runMigrations(db, "migrations"); err != nil {
		logger.Error("migrations failed", "err", err)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// ── 4. Repositories ───────────────────────────────────────────────────────
	shipmentRepo := repository.NewShipmentRepository(db)
	bidRepo := repository.NewBidRepository(db)
	historyRepo := repository.NewBidHistoryRepository(db)

	// ── 5. Services (order matters for injection) ─────────────────────────────
	guard := service.NewAuctionGuard(cfg.Bidding.MinDecrementUnits)
	profileSvc := service.NewProfileService(cfg)
	shipmentSvc := service.NewShipmentService(shipmentRepo)
	analyticsSvc := service.NewAnalyticsService(shipmentRepo, bidRepo)

	bidSvc := service.NewBidService(db, bidRepo, shipmentRepo, historyRepo, guard)
	transitionSvc := service.NewTransitionService(db, bidRepo, shipmentRepo, historyRepo)

	autoAcceptSvc := service.NewAutoAcceptService(shipmentRepo, profileSvc)
	autoAcceptSvc.SetAwarder(transitionSvc)
	bidSvc.SetEvaluator(autoAcceptSvc)

	// ── 6. WebSocket hub + event stream ───────────────────────────────────────
	hub := ws.NewHub([]byte(cfg.JWT.AccessSecret), cfg.Server.AllowedOrigins)

	notifiers := service.MultiNotifier{hub}
	var publisher *events.Publisher
	if cfg.Kafka.Enabled {
		publisher, err = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Error("kafka publisher init failed", "err", err)
			os.Exit(1)
		}
		notifiers = append(notifiers, publisher)
		logger.Info("kafka publisher connected", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}
	bidSvc.SetNotifier(notifiers)
	transitionSvc.SetNotifier(notifiers)

	// ── 7. Root context + signal handling ─────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 8. Start WS hub ───────────────────────────────────────────────────────
	go hub.Run()
	logger.Info("websocket hub started")

	// ── 9. HTTP Router ────────────────────────────────────────────────────────
	router := api.SetupRouter(api.RouterDeps{
		BidSvc:        bidSvc,
		TransitionSvc: transitionSvc,
		ShipmentSvc:   shipmentSvc,
		AnalyticsSvc:  analyticsSvc,
		Hub:           hub,
		Cfg:           cfg,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// ── 10. Start server ──────────────────────────────────────────────────────
	go func() {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
			stop() // trigger graceful shutdown
		}
	}()

	// ── 11. Graceful shutdown ─────────────────────────────────────────────────
	<-ctx.Done()
	logger.Info("shutdown signal received, draining connections…")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "err", err)
	}

	if publisher != nil {
		if err = publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "err", err)
		}
	}
	db.Close()
	logger.Info("server stopped cleanly")
}

// runMigrations reads all *.sql files from dir, sorted by name, and executes
// them sequentially.  Idempotent: SQL files should use IF NOT EXISTS / ON CONFLICT.
func runMigrations(db *sqlx.DB, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("runMigrations: read dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("runMigrations: read %q: %w", f, err)
		}
		if _, err = db.Exec(string(data)); err != nil {
			return fmt.Errorf("runMigrations: exec %q: %w", f, err)
		}
		slog.Info("migration applied", "file", filepath.Base(f))
	}
	return nil
}
