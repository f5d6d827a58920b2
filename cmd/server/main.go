package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JonMunkholm/contacts/internal/config"
	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/database"
	"github.com/JonMunkholm/contacts/internal/logging"
	"github.com/JonMunkholm/contacts/internal/metrics"
	"github.com/JonMunkholm/contacts/internal/repository"
	"github.com/JonMunkholm/contacts/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	var (
		countriesRepo core.CountriesRepository
		personsRepo   core.PersonsRepository
	)
	if cfg.Database.UsesPostgres() {
		if cfg.Database.MigrateOnStart {
			if err := database.RunMigrations(cfg.Database.URL); err != nil {
				slog.Error("failed to apply migrations", "error", err)
				os.Exit(1)
			}
			slog.Info("migrations applied")
		}

		pool, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		slog.Info("connected to database", "name", database.Name(cfg.Database.URL))

		countriesRepo = repository.NewPostgresCountriesRepository(pool)
		personsRepo = repository.NewPostgresPersonsRepository(pool)
	} else {
		slog.Warn("using in-memory store, data is lost on restart")
		store := repository.NewMemoryStore()
		countriesRepo = store
		personsRepo = store
	}

	if cfg.Seed.Enabled {
		if _, err := repository.Seed(ctx, countriesRepo, personsRepo); err != nil {
			slog.Error("failed to seed data", "error", err)
			os.Exit(1)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	limiter := core.NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	countries := core.NewCountriesService(countriesRepo,
		core.WithImportLimiter(limiter),
		core.WithCountriesRecorder(collector),
	)
	persons := core.NewPersonsService(personsRepo, countriesRepo,
		core.WithPersonsRecorder(collector),
	)

	server := web.NewServer(persons, countries, cfg, collector, reg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if active := limiter.ActiveCount(); active > 0 {
			slog.Info("waiting for imports to complete", "active", active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
