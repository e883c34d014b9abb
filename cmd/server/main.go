package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/defenceguesser/internal/boundary"
	"github.com/playperu/defenceguesser/internal/catalog"
	"github.com/playperu/defenceguesser/internal/config"
	"github.com/playperu/defenceguesser/internal/country"
	"github.com/playperu/defenceguesser/internal/database"
	"github.com/playperu/defenceguesser/internal/handler/health"
	"github.com/playperu/defenceguesser/internal/kv"
	"github.com/playperu/defenceguesser/internal/migrations"
	"github.com/playperu/defenceguesser/internal/server"
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

	if err := migrations.Run(ctx, db, logger); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)
	store := kv.New(db)

	// --- Catalog ---
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded", "path", cfg.CatalogPath, "items", cat.Len())

	matcher := country.Default()
	if cfg.AliasesPath != "" {
		extra, err := country.LoadAliases(cfg.AliasesPath)
		if err != nil {
			return fmt.Errorf("loading aliases: %w", err)
		}
		matcher = matcher.With(extra)
		logger.Info("country aliases loaded", "path", cfg.AliasesPath, "countries", len(extra))
	}

	deps := server.Deps{
		Catalog:       cat,
		Matcher:       matcher,
		Rounds:        cfg.Rounds,
		RetentionDays: cfg.RetentionDays,
		SPADir:        cfg.SPADir,
		CORSOrigins:   cfg.CORSOrigins,
		Health: map[string]health.Checker{
			"sqlite":  store,
			"catalog": health.CheckerFunc(func(context.Context) error {
				if cat.Len() == 0 {
					return errors.New("catalog is empty")
				}
				return nil
			}),
		},
	}

	// Without boundaries, guesses must name the country themselves.
	if cfg.BoundariesPath != "" {
		idx, err := boundary.Load(cfg.BoundariesPath)
		if err != nil {
			logger.Warn("country boundaries unavailable", "path", cfg.BoundariesPath, "error", err)
		} else {
			deps.Boundaries = idx
			logger.Info("country boundaries loaded", "path", cfg.BoundariesPath, "regions", idx.Len())
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	deps.Profiles = server.NewProfiles(store, cat, logger, loc)
	deps.Games = server.NewGames()
	deps.Broker = server.NewBroker()

	if cfg.AdminEnabled() {
		deps.Admin = server.NewAdminAuth(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret, db, logger)
		logger.Info("admin api enabled", "email", cfg.AdminEmail)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, deps)

	maint := &server.Maintenance{
		Logger:        logger,
		Profiles:      deps.Profiles,
		Games:         deps.Games,
		RetentionDays: cfg.RetentionDays,
		IdleTimeout:   cfg.GameIdleTimeout,
	}

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

	g.Go(func() error {
		return maint.Run(gctx, cfg.MaintenanceInterval)
	})

	return g.Wait()
}
