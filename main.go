package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/wpstar1/githighlight/config"
	"github.com/wpstar1/githighlight/llm"
	"github.com/wpstar1/githighlight/models"
	"github.com/wpstar1/githighlight/scraper/github"
	"github.com/wpstar1/githighlight/services"
	"github.com/wpstar1/githighlight/storage"
	"github.com/wpstar1/githighlight/utils"
)

const dateLayout = "2006-01-02"

func main() {
	app := &cli.App{
		Name:  "githighlight",
		Usage: "collects trending GitHub repositories, enriches them with generated summaries, and serves daily snapshots",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "fetch, enrich and persist today's trending repositories",
				Action: runAction,
			},
			{
				Name:  "show",
				Usage: "print the records served for a date (today by default)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "date",
						Usage: "calendar date to request, YYYY-MM-DD",
					},
				},
				Action: showAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAction(c *cli.Context) error {
	logger := utils.NewLogger()
	cfg := config.Load()
	ctx := c.Context
	today := time.Now().Format(dateLayout)

	logger.Info("=== githighlight ingestion starting (%s) ===", today)
	logger.Info("Config — views: %d | since: %s | limit: %d | concurrency: %d | pause: %d-%dms",
		len(cfg.Views()), cfg.Since, cfg.Limit, cfg.MaxConcurrency, cfg.MinPauseMs, cfg.MaxPauseMs)

	snapshots, err := storage.NewSnapshotStore(cfg.DataDir, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("snapshot store: %v", err), 1)
	}

	store, err := openRecordStore(cfg, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("record store: %v", err), 1)
	}
	defer store.Close()

	scraper := github.New(cfg, logger)

	// Views are independent; fetch them concurrently but keep view order
	// so the first-occurrence-wins merge stays deterministic.
	views := cfg.Views()
	results := make([][]*models.RawRepo, len(views))
	var wg sync.WaitGroup
	for i, view := range views {
		i, view := i, view
		wg.Add(1)
		go func() {
			defer wg.Done()
			repos, err := scraper.FetchView(ctx, view)
			if err != nil {
				logger.Error("[main] %v", err)
				return
			}
			results[i] = repos
		}()
	}
	wg.Wait()

	candidates := services.NewMerger(logger).Merge(results...)
	if len(candidates) == 0 {
		return cli.Exit("no trending data could be fetched from any view", 1)
	}
	if cfg.Limit > 0 && len(candidates) > cfg.Limit {
		candidates = candidates[:cfg.Limit]
	}

	summarizer := services.NewSummarizer(
		llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), logger)
	pool := utils.NewWorkerPool(cfg.MaxConcurrency,
		time.Duration(cfg.MinPauseMs)*time.Millisecond,
		time.Duration(cfg.MaxPauseMs)*time.Millisecond)
	enricher := services.NewEnricher(scraper, summarizer, pool, logger)

	records := enricher.Enrich(ctx, candidates, today)

	writer := storage.NewDualWriter(snapshots, store, logger)
	if err := writer.Write(ctx, today, records); err != nil {
		logger.Warn("[main] Run finished with partial persistence: %v", err)
	}

	reportSvc := services.NewReportService(logger)
	reportSvc.Print(reportSvc.Generate(today, candidates, records))

	logger.Info("Done. Snapshot → %s/%s.json | records → %s store", cfg.DataDir, today, cfg.RecordStore)
	return nil
}

func showAction(c *cli.Context) error {
	logger := utils.NewLogger()
	cfg := config.Load()

	date := c.String("date")
	if date == "" {
		date = time.Now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return cli.Exit(fmt.Sprintf("invalid date %q: want YYYY-MM-DD", date), 1)
	}

	snapshots, err := storage.NewSnapshotStore(cfg.DataDir, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("snapshot store: %v", err), 1)
	}

	store, err := openRecordStore(cfg, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("record store: %v", err), 1)
	}
	defer store.Close()

	served, repos := services.NewReconciler(snapshots, store, logger).Resolve(c.Context, date)
	fmt.Printf("Serving %d records for %s\n\n", len(repos), served)
	for _, r := range repos {
		fmt.Printf("★ %-7d %s\n", r.Stars, r.Name)
		fmt.Printf("          %s\n", r.Link)
		if r.Summary != "" {
			fmt.Printf("          %s\n", strings.ReplaceAll(r.Summary, "\n", " "))
		}
		fmt.Println()
	}
	return nil
}

// openRecordStore picks the record store backend from configuration.
func openRecordStore(cfg *config.Config, logger *utils.Logger) (storage.RecordStore, error) {
	switch cfg.RecordStore {
	case "postgres":
		return storage.NewPostgresStore(cfg.DSN())
	case "sqlite":
		return storage.NewSQLiteStore(cfg.SQLitePath)
	case "rest":
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("SUPABASE_URL is required for the rest record store")
		}
		return storage.NewRESTStore(cfg.SupabaseURL, cfg.SupabaseKey, logger), nil
	default:
		return nil, fmt.Errorf("unknown record store backend %q", cfg.RecordStore)
	}
}
