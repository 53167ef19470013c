package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"scholardash/internal/adapters/jsonfile"
	"scholardash/internal/adapters/scholarsource"
	"scholardash/internal/adapters/sqlite"
	"scholardash/internal/app/ports"
	"scholardash/internal/app/services"
	"scholardash/internal/config"
	"scholardash/internal/db"
	"scholardash/internal/observability"
	"scholardash/internal/server"
	"scholardash/internal/server/routes"
	"scholardash/pkg/scholarly"
)

func Run() error {
	baseHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	log := slog.New(observability.WrapSlogHandler(baseHandler))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	records := jsonfile.NewRecordStore(cfg.Storage.RosterPath)
	cache, err := jsonfile.OpenSnapshotCache(cfg.Storage.CachePath, log)
	if err != nil {
		return fmt.Errorf("failed to open snapshot cache: %w", err)
	}

	if cfg.Storage.WatchRoster {
		watcher, err := jsonfile.NewRosterWatcher(cfg.Storage.RosterPath, records, log)
		if err != nil {
			slog.Warn("Roster watcher unavailable, hand edits need a restart", "error", err)
		} else {
			watcher.Start()
			defer func() {
				if err := watcher.Close(); err != nil {
					slog.Error("Failed to close roster watcher", "error", err)
				}
			}()
		}
	}

	client, err := scholarly.New(scholarly.Config{
		BaseURL:    cfg.Provider.BaseURL,
		Timeout:    cfg.Provider.Timeout,
		MaxRetries: cfg.Provider.MaxRetries,
		UserAgent:  cfg.Provider.UserAgent,
	})
	if err != nil {
		return fmt.Errorf("failed to build provider client: %w", err)
	}
	gate := services.NewThrottle(cfg.Pipeline.MinFetchDelay)
	source := services.NewThrottledSource(scholarsource.New(client), gate)

	var archive ports.HistoryArchive
	var database *db.Database
	if cfg.Storage.HistoryEnabled {
		database, err = db.New(cfg.Storage.HistoryPath)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close history database", "error", err)
			}
		}()
		archive = sqlite.NewSharedHistoryArchive(database)

		if cfg.Storage.HistoryRetention > 0 {
			cutoff := time.Now().Add(-cfg.Storage.HistoryRetention)
			if err := database.PruneSnapshots(context.Background(), cutoff); err != nil {
				slog.Warn("Failed to prune snapshot history", "error", err)
			}
		}
		if cfg.Storage.LogTiming {
			go logDBLatencyStats(log, database)
		}
	}

	faculty := services.NewFacultyService(records)
	analytics := services.NewAnalyticsService(records, cache, cfg.Pipeline.CacheMaxAge)
	refresh := services.NewRefreshService(records, cache, source, archive, cfg.Pipeline.CacheMaxAge, log)

	if cfg.Pipeline.RefreshOnStart {
		go func() {
			report, err := refresh.RefreshAll(context.Background())
			if err != nil {
				slog.Error("Startup refresh failed", "error", err)
				return
			}
			counts := report.Counts()
			slog.Info("Startup refresh complete",
				"run_id", report.RunID,
				"updated", counts.Updated(),
				"degraded", counts.StaleFallback,
				"errored", counts.Errored(),
			)
		}()
	}

	srv := server.New(log)
	srv.RegisterRouter(routes.NewAPIRoutes(faculty, cache, archive, cfg.Pipeline.CacheMaxAge))
	srv.RegisterRouter(routes.NewAnalyticsRoutes(analytics))
	srv.RegisterRouter(routes.NewRefreshRoutes(refresh))
	srv.RegisterRouter(routes.NewExportRoutes(faculty, analytics))
	srv.RegisterRouter(routes.NewDiagnosticsRoutes(database))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting server", "port", cfg.Server.Port, "roster", cfg.Storage.RosterPath)
	return srv.Start(addr)
}

func main() {
	if err := Run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func logDBLatencyStats(log *slog.Logger, database *db.Database) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		stats := database.QueryLatencyStats()
		if len(stats) == 0 {
			continue
		}
		limit := 5
		if len(stats) < limit {
			limit = len(stats)
		}
		for index := 0; index < limit; index++ {
			entry := stats[index]
			log.Info("db_query_latency",
				"query", entry.Name,
				"count", entry.Count,
				"p50_ms", entry.P50.Milliseconds(),
				"p95_ms", entry.P95.Milliseconds(),
				"max_ms", entry.Max.Milliseconds(),
			)
		}
	}
}
