package scraper

import (
	"context"
	"fmt"
	"log"

	"petromatch/internal/domain/job"
)

// ExtractFunc turns one fetched page into per-container results. pageURL is
// the address the content came from and serves as the link fallback.
type ExtractFunc func(content []byte, pageURL string, board job.Board) ([]ItemResult, error)

// Adapter fetches and extracts a single listings page of one board.
type Adapter interface {
	FetchPage(ctx context.Context, page int) (Page, error)
	Close() error
}

// PageAdapter couples a Fetcher with an extraction strategy. The login
// bootstrap runs at most once per adapter, before the first page.
type PageAdapter struct {
	board   job.Board
	fetcher Fetcher
	extract ExtractFunc
	logger  *log.Logger

	loginTried bool
}

func NewPageAdapter(board job.Board, fetcher Fetcher, extract ExtractFunc, logger *log.Logger) *PageAdapter {
	if logger == nil {
		logger = log.Default()
	}
	return &PageAdapter{board: board, fetcher: fetcher, extract: extract, logger: logger}
}

func NewDeclarativeAdapter(board job.Board, fetcher Fetcher, logger *log.Logger) *PageAdapter {
	return NewPageAdapter(board, fetcher, Extract, logger)
}

func NewRigzoneAdapter(board job.Board, fetcher Fetcher, logger *log.Logger) *PageAdapter {
	return NewPageAdapter(board, fetcher, ExtractRigzone, logger)
}

func (a *PageAdapter) FetchPage(ctx context.Context, page int) (Page, error) {
	if a.board.RequiresLogin() && !a.loginTried {
		a.loginTried = true
		if err := a.fetcher.Login(ctx, *a.board.Selectors.Login); err != nil {
			if ctx.Err() != nil {
				return Page{}, ctx.Err()
			}
			// continue anonymously; most boards still serve public listings
			a.logger.Printf("Scraper login failed | board_id=%d error=%v", a.board.ID, err)
		}
	}

	pageURL, err := a.board.PageURL(page)
	if err != nil {
		return Page{}, err
	}

	body, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return Page{}, err
	}

	items, err := a.extract(body, pageURL, a.board)
	if err != nil {
		return Page{}, fmt.Errorf("extract page %d of board %d: %w", page, a.board.ID, err)
	}
	return Page{Number: page, URL: pageURL, Items: items}, nil
}

func (a *PageAdapter) Close() error {
	return a.fetcher.Close()
}

// guardItem runs fn and converts a panic into a skipped item so one broken
// container never aborts the page.
func guardItem(fn func() ItemResult) (res ItemResult) {
	defer func() {
		if r := recover(); r != nil {
			res = Skip(SkipPanic, fmt.Sprint(r))
		}
	}()
	return fn()
}
