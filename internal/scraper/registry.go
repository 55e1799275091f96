package scraper

import (
	"errors"
	"fmt"
	"log"
	"time"

	"petromatch/internal/domain/job"
)

var ErrUnknownAdapter = errors.New("unknown board adapter")

type RegistryConfig struct {
	UserAgent       string
	FetchTimeout    time.Duration
	RequestsPerSec  float64
	BrowserHeadless bool
	BrowserExecPath string
	DefaultMaxPages int
}

// Registry builds the fetcher and adapter for a board from its stored
// configuration.
type Registry struct {
	cfg      RegistryConfig
	logger   *log.Logger
	adapters map[string]ExtractFunc

	// NewFetcher is replaceable in tests.
	NewFetcher func(board job.Board) Fetcher
}

func NewRegistry(cfg RegistryConfig, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.DefaultMaxPages <= 0 {
		cfg.DefaultMaxPages = 5
	}
	r := &Registry{
		cfg:    cfg,
		logger: logger,
		adapters: map[string]ExtractFunc{
			job.AdapterDeclarative: Extract,
			job.AdapterRigzone:     ExtractRigzone,
		},
	}
	r.NewFetcher = r.FetcherFor
	return r
}

// FetcherFor picks the browser strategy when use_playwright is set and the
// plain HTTP strategy otherwise.
func (r *Registry) FetcherFor(board job.Board) Fetcher {
	if board.Selectors.UsePlaywright {
		return NewBrowserFetcher(BrowserFetcherConfig{
			UserAgent:    r.cfg.UserAgent,
			Headless:     r.cfg.BrowserHeadless,
			Timeout:      r.cfg.FetchTimeout,
			WaitSelector: board.Selectors.JobContainer,
			ExecPath:     r.cfg.BrowserExecPath,
			Logger:       r.logger,
		})
	}
	return NewHTTPFetcher(HTTPFetcherConfig{
		UserAgent:      r.cfg.UserAgent,
		Timeout:        r.cfg.FetchTimeout,
		RequestsPerSec: r.cfg.RequestsPerSec,
		Logger:         r.logger,
	})
}

// Open returns a ready adapter for board. The caller must Close it.
func (r *Registry) Open(board job.Board) (Adapter, error) {
	name := board.Selectors.AdapterName()
	extract, ok := r.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q for board %d", ErrUnknownAdapter, name, board.ID)
	}
	return NewPageAdapter(board, r.NewFetcher(board), extract, r.logger), nil
}

// MaxPages is the board's page ceiling, falling back to the configured
// default.
func (r *Registry) MaxPages(board job.Board) int {
	if board.Selectors.MaxPages > 0 {
		return board.Selectors.MaxPages
	}
	return r.cfg.DefaultMaxPages
}
