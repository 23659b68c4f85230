package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ecotrip/flightgame/internal/config"
	"github.com/ecotrip/flightgame/internal/database"
	"github.com/ecotrip/flightgame/internal/migrations"
	"github.com/ecotrip/flightgame/internal/route"
	"github.com/ecotrip/flightgame/internal/server"
	"github.com/ecotrip/flightgame/internal/weather"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Game world ---
	store := server.NewSQLiteStore(db)

	airports, err := store.Airports(ctx)
	if err != nil {
		return fmt.Errorf("loading airports: %w", err)
	}
	clues, err := store.CountryClues(ctx)
	if err != nil {
		return fmt.Errorf("loading country clues: %w", err)
	}
	logger.Info("game world loaded", "airports", len(airports), "countries", len(clues))

	planner := route.NewPlanner(airports)
	builder := route.NewStageBuilder(planner, clues, rand.New(rand.NewSource(time.Now().UnixNano())))

	registry := server.NewRegistry(store)
	if n, err := registry.Restore(ctx); err != nil {
		return fmt.Errorf("restoring sessions: %w", err)
	} else if n > 0 {
		logger.Info("restored sessions", "count", n)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger:            logger,
		DB:                db,
		Store:             store,
		Registry:          registry,
		Planner:           planner,
		Builder:           builder,
		Weather:           weather.NewClient(cfg.WeatherURL),
		SPADir:            cfg.SPADir,
		StartOrigin:       cfg.StartOrigin,
		FinalStage:        cfg.FinalStage,
		CountriesPerStage: cfg.CountriesPerStage,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
