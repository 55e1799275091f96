package app

import (
	"context"
	"errors"
	"log"
	"time"

	"petromatch/internal/config"
	"petromatch/internal/cvtext"
	"petromatch/internal/database"
	dbpostgres "petromatch/internal/database/postgres"
	"petromatch/internal/domain/matching"
	"petromatch/internal/infrastructure/cache"
	"petromatch/internal/infrastructure/persistence/postgres"
	"petromatch/internal/notification"
	"petromatch/internal/pkg/jwt"
	"petromatch/internal/repository"
	"petromatch/internal/scraper"
	"petromatch/internal/usecase"
	"petromatch/internal/ws"
)

// Container owns every long-lived dependency of the API process.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	JWT   *jwt.HMACService

	Users *postgres.UserRepository

	Registry   *scraper.Registry
	Pool       *scraper.WorkerPool
	Dispatcher *usecase.PoolDispatcher

	Hub       *ws.Hub
	Notifier  *ws.Notifier
	Scheduler *notification.Scheduler

	Auth          *usecase.Auth
	Boards        *usecase.Boards
	Scrape        *usecase.Scrape
	Matching      *usecase.Matching
	CVs           *usecase.CVs
	Preferences   *usecase.LocationPreferences
	Notifications *usecase.Notifications
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}

	users, err := postgres.NewUserRepository(ctx, db.SQLDB())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	c.Users = users

	c.Cache = cache.NewRedis(cfg.Redis, logger)
	c.JWT = jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	tasks := repository.NewPostgresTaskRepository(db)
	boards := repository.NewPostgresBoardRepository(db)
	listings := repository.NewPostgresListingRepository(db)
	matches := repository.NewPostgresMatchRepository(db)
	cvs := repository.NewPostgresCVRepository(db)
	prefs := repository.NewPostgresLocationPreferenceRepository(db)
	schedules := repository.NewPostgresNotificationRepository(db)

	c.Registry = scraper.NewRegistry(scraper.RegistryConfig{
		UserAgent:       cfg.Scraper.UserAgent,
		FetchTimeout:    cfg.Scraper.FetchTimeout,
		RequestsPerSec:  cfg.Scraper.RequestsPerSec,
		BrowserHeadless: cfg.Scraper.BrowserHeadless,
		BrowserExecPath: cfg.Scraper.BrowserExecPath,
		DefaultMaxPages: cfg.Scraper.DefaultMaxPages,
	}, logger)
	c.Pool = scraper.NewWorkerPool(cfg.Scraper.Workers, cfg.Scraper.QueueSize, logger)
	c.Dispatcher = usecase.NewPoolDispatcher(c.Pool, logger)

	c.Hub = ws.NewHub(logger)
	c.Notifier = ws.NewNotifier(c.Hub)

	engine := matching.NewEngine(matchingConfig(cfg.Matching), matching.DefaultTables())

	c.Scheduler = notification.NewScheduler(schedules, tasks, matches, c.Notifier, cfg.Matching.MinScore, logger)

	c.Auth = usecase.NewAuthUsecase(users, c.JWT)
	c.Boards = usecase.NewBoards(boards)
	c.Scrape = usecase.NewScrape(usecase.ScrapeDeps{
		Tasks:        tasks,
		Boards:       boards,
		Listings:     listings,
		Adapters:     c.Registry,
		Pages:        scraper.NewPaginator(cfg.Scraper.PageDelay, logger),
		Dispatcher:   c.Dispatcher,
		Locker:       c.Cache,
		Events:       c.Notifier,
		Logger:       logger,
		SubmitWindow: cfg.Scraper.SubmitWindow,
	})
	c.Matching = usecase.NewMatching(usecase.MatchingDeps{
		Engine:      engine,
		Tasks:       tasks,
		Listings:    listings,
		CVs:         cvs,
		Preferences: prefs,
		Matches:     matches,
		Cache:       c.Cache,
		Events:      c.Notifier,
		Logger:      logger,
	})
	c.CVs = usecase.NewCVs(cvs, cvtext.NewExtractor(), cfg.Upload.MaxCVBytes, logger)
	c.Preferences = usecase.NewLocationPreferences(prefs)
	c.Notifications = usecase.NewNotifications(schedules, c.Scheduler, logger)

	return c, nil
}

func matchingConfig(m config.MatchingConfig) matching.Config {
	out := matching.DefaultConfig()
	out.BaseScore = m.BaseScore
	out.Floor = m.Floor
	out.Ceiling = m.Ceiling
	out.DegradedFloor = m.DegradedFloor
	out.LocationCap = m.LocationCap
	out.TopK = m.TopK
	out.MinScore = m.MinScore
	return out
}

// Close releases resources in reverse order of construction. Background
// loops are stopped by the bootstrap cleanup before this runs.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.Users != nil {
		errs = append(errs, c.Users.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
