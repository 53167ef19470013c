package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"scholardash/internal/adapters/jsonfile"
	"scholardash/internal/adapters/scholarsource"
	"scholardash/internal/adapters/sqlite"
	"scholardash/internal/app/ports"
	"scholardash/internal/app/services"
	"scholardash/internal/config"
	"scholardash/pkg/scholarly"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadForTool()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	idsFlag := flag.String("ids", "", "comma separated faculty ids (default: whole roster)")
	rosterPath := flag.String("roster", cfg.Storage.RosterPath, "faculty roster file")
	cachePath := flag.String("cache", cfg.Storage.CachePath, "snapshot cache file")
	providerURL := flag.String("provider", cfg.Provider.BaseURL, "scholarly provider base URL")
	minDelay := flag.Duration("min-delay", cfg.Pipeline.MinFetchDelay, "minimum interval between provider calls")
	maxAge := flag.Duration("max-age", cfg.Pipeline.CacheMaxAge, "cache entry age before a refetch")
	useHistory := flag.Bool("history", cfg.Storage.HistoryEnabled, "append fetched snapshots to the history database")
	flag.Parse()

	if strings.TrimSpace(*providerURL) == "" {
		log.Fatalf("provider URL is required (set SCHOLARDASH_PROVIDER_URL or -provider)")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	records := jsonfile.NewRecordStore(strings.TrimSpace(*rosterPath))
	cache, err := jsonfile.OpenSnapshotCache(strings.TrimSpace(*cachePath), logger)
	if err != nil {
		log.Fatalf("open snapshot cache: %v", err)
	}

	client, err := scholarly.New(scholarly.Config{
		BaseURL:    strings.TrimSpace(*providerURL),
		Timeout:    cfg.Provider.Timeout,
		MaxRetries: cfg.Provider.MaxRetries,
		UserAgent:  cfg.Provider.UserAgent,
	})
	if err != nil {
		log.Fatalf("build provider client: %v", err)
	}
	source := services.NewThrottledSource(scholarsource.New(client), services.NewThrottle(*minDelay))

	var archive ports.HistoryArchive
	if *useHistory {
		archive, err = sqlite.NewHistoryArchive(cfg.Storage.HistoryPath)
		if err != nil {
			log.Fatalf("open history database: %v", err)
		}
		defer func() {
			if err := archive.Close(); err != nil {
				log.Printf("close history database: %v", err)
			}
		}()
	}

	refresh := services.NewRefreshService(records, cache, source, archive, *maxAge, logger)

	var report ports.PipelineReport
	if ids := splitIDs(*idsFlag); len(ids) > 0 {
		report = refresh.Refresh(ctx, ids)
	} else {
		report, err = refresh.RefreshAll(ctx)
		if err != nil {
			log.Fatalf("refresh roster: %v", err)
		}
	}

	for _, entry := range report.Entries {
		line := fmt.Sprintf("%-4s %-28s %s", entry.FacultyID, entry.Name, entry.Disposition)
		if entry.Detail != "" {
			line += " (" + entry.Detail + ")"
		}
		fmt.Println(line)
	}

	counts := report.Counts()
	fmt.Printf("Refresh complete: %d updated, %d degraded, %d failed, %d not found from %d requested in %s\n",
		counts.Updated(), counts.StaleFallback, counts.Failed, counts.NotFound,
		len(report.Entries), report.FinishedAt.Sub(report.StartedAt).Round(10*time.Millisecond))
}

func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
