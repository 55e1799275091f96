package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"petromatch/internal/config"
	"petromatch/internal/database"
	"petromatch/internal/database/migration"
	dbpostgres "petromatch/internal/database/postgres"
	"petromatch/internal/database/seeder"
	"petromatch/internal/repository"
	"petromatch/internal/scraper"
	"petromatch/migrations"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply pending schema migrations")
	seed := flag.Bool("seed", false, "upsert the board catalog from BOARDS_FILE")
	boardID := flag.Int64("board", 0, "dry-run: scrape this board id and print records as JSON")
	pages := flag.Int("pages", 0, "dry-run page ceiling (0 uses the board's max_pages)")
	flag.Parse()

	if !*migrate && !*seed && *boardID <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connCtx, connCancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := dbpostgres.Connect(connCtx, cfg.Database)
	connCancel()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if *migrate {
		if err := runMigrations(ctx, db, cfg.Paths.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	if *seed {
		r := seeder.Runner{Seeders: seeder.Defaults(cfg.Paths.BoardsFile), Logger: logger}
		if err := r.Run(ctx, db); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
	}

	if *boardID > 0 {
		if err := dryRun(ctx, cfg, db, *boardID, *pages, logger); err != nil {
			log.Fatalf("dry run failed: %v", err)
		}
	}
}

// runMigrations reads MIGRATIONS_DIR when it exists and the embedded schema
// otherwise.
func runMigrations(ctx context.Context, db database.DB, dir string, logger *log.Logger) error {
	r := migration.Runner{Dir: dir, Source: migrations.FS, Logger: logger}

	migCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	return r.Run(migCtx, db.SQLDB())
}

// dryRun paginates one board without creating a task or storing listings.
func dryRun(ctx context.Context, cfg config.Config, db database.DB, boardID int64, pages int, logger *log.Logger) error {
	boards, err := repository.NewPostgresBoardRepository(db).GetByIDs(ctx, []int64{boardID})
	if err != nil {
		return err
	}
	board, ok := boards[boardID]
	if !ok {
		logger.Printf("Scraper dry run | board_id=%d not found", boardID)
		return nil
	}

	registry := scraper.NewRegistry(scraper.RegistryConfig{
		UserAgent:       cfg.Scraper.UserAgent,
		FetchTimeout:    cfg.Scraper.FetchTimeout,
		RequestsPerSec:  cfg.Scraper.RequestsPerSec,
		BrowserHeadless: cfg.Scraper.BrowserHeadless,
		BrowserExecPath: cfg.Scraper.BrowserExecPath,
		DefaultMaxPages: cfg.Scraper.DefaultMaxPages,
	}, logger)

	adapter, err := registry.Open(board)
	if err != nil {
		return err
	}
	defer func() {
		_ = adapter.Close()
	}()

	if pages <= 0 {
		pages = registry.MaxPages(board)
	}

	res, err := scraper.NewPaginator(cfg.Scraper.PageDelay, logger).Paginate(ctx, board, adapter, pages, nil)
	if err != nil {
		return err
	}
	logger.Printf("Scraper dry run done | board=%s pages=%d records=%d skipped=%d stop=%s",
		board.Name, res.Pages, len(res.Records), res.Skipped, res.Stop)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Records)
}
